package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"despachos/rndc-gateway/internal/common"
	"despachos/rndc-gateway/internal/constants"
)

var whitelistedIPs = map[string]bool{
	"127.0.0.1": true,
	"::1":       true,
}

type ipLimiters struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	perSecond rate.Limit
	burst     int
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists := l.limiters[ip]; exists {
		return limiter
	}
	limiter := rate.NewLimiter(l.perSecond, l.burst)
	l.limiters[ip] = limiter
	return limiter
}

// RateLimitMiddleware limits each client IP to perSecond requests with the
// given burst. Uploads fan out to RNDC, so this guards the outbound quota as
// well.
func RateLimitMiddleware(perSecond float64, burst int) func(http.Handler) http.Handler {
	if burst < 1 {
		burst = 1
	}
	limiters := &ipLimiters{
		limiters:  make(map[string]*rate.Limiter),
		perSecond: rate.Limit(perSecond),
		burst:     burst,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			if perSecond <= 0 || whitelistedIPs[ip] {
				next.ServeHTTP(w, r)
				return
			}

			if !limiters.get(ip).Allow() {
				w.Header().Set("Retry-After", "1")
				common.RespondError(w, time.Now(), nil, constants.MsgRateLimited, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
