package middleware

import (
	"net/http"
	"strings"
	"time"

	"despachos/rndc-gateway/internal/auth"
	"despachos/rndc-gateway/internal/common"
	"despachos/rndc-gateway/internal/constants"
	"despachos/rndc-gateway/internal/logging"
)

// AuthMiddleware requires a valid bearer token. A nil token service disables
// authentication and every request runs as a development admin.
func AuthMiddleware(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			if tokens == nil {
				ctx := auth.SetUserClaims(r.Context(), &auth.Claims{Subject: "dev", Role: auth.RoleAdmin, Source: "DEV"})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				common.RespondError(w, time.Now(), nil, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Validate(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				logging.Debug("Rejected bearer token", "request_id", auth.GetRequestID(r.Context()), "error", err.Error())
				common.RespondError(w, time.Now(), nil, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
