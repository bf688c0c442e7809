package middleware

import (
	"errors"
	"net/http"
	"time"

	"despachos/rndc-gateway/internal/auth"
	"despachos/rndc-gateway/internal/common"
)

func IsAdminMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			claims := auth.GetUserClaims(r.Context())

			if !claims.CanConfigure() {
				common.RespondError(w, time.Now(), errors.New("admin role required"), "", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
