package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reoring/qskema"
	"github.com/reoring/qskema/middleware"
	"github.com/reoring/qskema/query"
)

// ValidateQuery parses the request query string against root, stores the
// Value in the request context on success, or answers 400 with the error
// payload.
func ValidateQuery(root *qskema.GroupPattern, syntax query.Syntax) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, err := middleware.Parse(c.Request(), root, syntax)
			if err != nil {
				return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(err))
			}
			ctx := middleware.ContextWithValue(c.Request().Context(), v)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetValue fetches the parsed query Value from echo.Context.
func GetValue(c echo.Context) (*qskema.Value, bool) {
	return middleware.ValueFromContext(c.Request().Context())
}
