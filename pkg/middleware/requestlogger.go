package middleware

import (
	"log/slog"
	"net/http"

	"github.com/Eggie20/Online-Supermarket/pkg/logger"
)

// RequestLogger stores a logger tagged with the correlation id, the shopper
// profile and the trace ids so handlers can fetch it with logger.FromContext.
// Mount it after RequestLogging and Tracing. Profile validation usually runs
// later in the API group, so the raw header is the fallback.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			profile := ProfileIDFromContext(ctx)
			if profile == "" {
				profile = r.Header.Get(ProfileHeader)
			}
			if profile != "" {
				ctx = logger.WithProfileID(ctx, profile)
			}
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
