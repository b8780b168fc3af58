package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/Rajarajeshwaran-2003/eshop/pkg/httputil"
	"github.com/Rajarajeshwaran-2003/eshop/pkg/logger"
)

// Recovery turns a handler panic into a 500 response instead of tearing down
// the connection. The panic is logged with the request's correlation ID and
// the error body uses the shared envelope, so a crash surfaces to callers the
// same way any other internal error does.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					ctx := r.Context()
					logger.WithContext(ctx, l).ErrorContext(ctx, "panic recovered",
						slog.Any("panic", rec),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					)

					httputil.WriteJSON(w, http.StatusInternalServerError, httputil.Response{
						Error: &httputil.ErrorResponse{
							Code:      "INTERNAL_ERROR",
							Message:   "an internal error occurred",
							RequestID: logger.CorrelationIDFromContext(ctx),
						},
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
