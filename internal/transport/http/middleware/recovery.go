package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"alphachest/pkg/apierror"
)

// Recovery is a middleware that recovers from panics.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					Logger(r.Context(), logger).Error("Panic serving request",
						zap.Any("panic", err),
						zap.String("path", r.URL.Path),
						zap.ByteString("stack", debug.Stack()))

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write(apierror.InternalError("internal server error").ToJSON())
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
