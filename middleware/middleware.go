// Package middleware validates HTTP query strings against a qskema root
// pattern before the handler runs.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/reoring/qskema"
	"github.com/reoring/qskema/query"
)

type ctxKeyValue struct{}

// ContextWithValue attaches a parsed query Value to the context.
func ContextWithValue(ctx context.Context, v *qskema.Value) context.Context {
	return context.WithValue(ctx, ctxKeyValue{}, v)
}

// ValueFromContext retrieves the Value stored by Query.
func ValueFromContext(ctx context.Context) (*qskema.Value, bool) {
	v, ok := ctx.Value(ctxKeyValue{}).(*qskema.Value)
	return v, ok
}

// Option configures Query.
type Option func(*config)

type config struct {
	log *slog.Logger
}

// WithLogger logs rejected requests to l at warn level.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.log = l }
}

// Query parses r.URL.RawQuery with syntax and validates it against root.
// On success the Value is stored in the request context; otherwise the
// request is answered with 400 and an ErrorPayload body.
func Query(root *qskema.GroupPattern, syntax query.Syntax, opts ...Option) func(http.Handler) http.Handler {
	cfg := config{log: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(&cfg)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v, err := Parse(r, root, syntax)
			if err != nil {
				cfg.log.Warn("query rejected", "path", r.URL.Path, "error", err)
				WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithValue(r.Context(), v)))
		})
	}
}

// Parse validates the request's raw query string against root.
func Parse(r *http.Request, root *qskema.GroupPattern, syntax query.Syntax) (*qskema.Value, error) {
	return query.Validate(root, r.URL.RawQuery, syntax)
}

// ErrorBody is the JSON shape of a rejected request.
type ErrorBody struct {
	Class   string `json:"class,omitempty"`
	Code    string `json:"code,omitempty"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// ErrorPayload shapes err for a JSON response.
func ErrorPayload(err error) map[string]any {
	if e, ok := qskema.AsError(err); ok {
		return map[string]any{"error": ErrorBody{
			Class:   e.Class.String(),
			Code:    e.Code,
			Path:    e.Path,
			Message: e.Message,
		}}
	}
	return map[string]any{"error": ErrorBody{Message: err.Error()}}
}

// WriteError answers with 400 and ErrorPayload(err).
func WriteError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(ErrorPayload(err))
}
