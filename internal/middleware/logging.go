package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"despachos/rndc-gateway/internal/auth"
	"despachos/rndc-gateway/internal/logging"
)

// Logging writes one structured line per request once the handler returns.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(lw, r)

		subject := ""
		if claims := auth.GetUserClaims(r.Context()); claims != nil {
			subject = claims.Subject
		}
		log := logging.WithRequest(auth.GetRequestID(r.Context()), subject, routePattern(r))
		log.Infow("HTTP request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", lw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// routePattern is the chi pattern once routing happened, else the
// normalized path.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return NormalizeEndpoint(r.URL.Path)
}
