package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reoring/qskema"
	"github.com/reoring/qskema/middleware"
	"github.com/reoring/qskema/query"
)

// ValidateQuery parses the request query string against root, stores the
// Value in the request context, and on failure aborts with 400 and the error
// payload.
func ValidateQuery(root *qskema.GroupPattern, syntax query.Syntax) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := middleware.Parse(c.Request, root, syntax)
		if err != nil {
			c.JSON(http.StatusBadRequest, middleware.ErrorPayload(err))
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithValue(c.Request.Context(), v))
		c.Next()
	}
}

// GetValue fetches the parsed query Value from gin.Context.
func GetValue(c *gin.Context) (*qskema.Value, bool) {
	return middleware.ValueFromContext(c.Request.Context())
}
