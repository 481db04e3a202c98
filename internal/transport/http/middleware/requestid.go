package middleware

import (
	"context"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"alphachest/pkg/uid"
)

type loggerKey struct{}

// RequestID tags each request with an id taken from X-Request-ID or freshly
// generated. The id is echoed in the response, readable with chimw.GetReqID,
// and attached to a child of logger that handlers get from Logger.
func RequestID(logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(chimw.RequestIDHeader)
			if requestID == "" {
				requestID = uid.New()
			}
			w.Header().Set(chimw.RequestIDHeader, requestID)

			ctx := context.WithValue(r.Context(), chimw.RequestIDKey, requestID)
			ctx = context.WithValue(ctx, loggerKey{}, logger.With(zap.String("request_id", requestID)))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Logger returns the request-scoped logger stored by RequestID, or fallback
// when there is none.
func Logger(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return l
	}
	if fallback == nil {
		return zap.NewNop()
	}
	return fallback
}
