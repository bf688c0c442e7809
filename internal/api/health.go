package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"despachos/rndc-gateway/internal/common"
	"despachos/rndc-gateway/internal/models/dtos"
)

// HealthCheckHandler handles GET /healthCheck
func HealthCheckHandler(db *sqlx.DB, cache common.CacheInterface, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		services := make(map[string]dtos.ServiceStatus)

		pgStatus := dtos.ServiceStatus{Status: "ok", Details: "Postgres Connected"}
		if err := db.PingContext(r.Context()); err != nil {
			pgStatus = dtos.ServiceStatus{Status: "down", Details: err.Error()}
		}
		services["postgres"] = pgStatus
		services["cache"] = cacheStatus(r.Context(), cache)

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		resp := dtos.HealthCheckResponse{
			Status:   overallStatus,
			Services: services,
			UpSince:  upSince,
			Uptime:   time.Since(upSince).Round(time.Second).String(),
		}

		code := http.StatusOK
		if overallStatus != "ok" {
			code = http.StatusServiceUnavailable
		}
		common.RespondSuccess(w, initTime, overallStatus, resp, code)
	}
}

func cacheStatus(ctx context.Context, cache common.CacheInterface) dtos.ServiceStatus {
	switch c := cache.(type) {
	case *common.RedisCacheService:
		if err := c.Ping(ctx); err != nil {
			return dtos.ServiceStatus{Status: "down", Details: err.Error()}
		}
		return dtos.ServiceStatus{Status: "ok", Details: "Redis Connected"}
	case *common.CacheService:
		return dtos.ServiceStatus{Status: "ok", Details: fmt.Sprintf("In-memory cache, %d items", c.ItemCount())}
	default:
		return dtos.ServiceStatus{Status: "ok", Details: "Cache configured"}
	}
}
