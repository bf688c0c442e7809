package routes

import (
	"github.com/go-chi/chi/v5"

	"despachos/rndc-gateway/internal/api"
	"despachos/rndc-gateway/internal/auth"
	"despachos/rndc-gateway/internal/config"
	"despachos/rndc-gateway/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies, tokens *auth.TokenService, rate config.RateConfig) {
	svc := deps.Services
	maxBytes := deps.MaxUploadBytes

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.AuthMiddleware(tokens))

		v1.Get("/operator-config", api.GetOperatorConfigHandler(svc.OperatorConfig))
		v1.Get("/batches", api.ListBatchesHandler(svc.Submission))
		v1.Get("/batches/{batchID}/results.csv", api.BatchResultsCSVHandler(svc.Submission))
		v1.Post("/rndc/{docType}/preview/record", api.PreviewRecordHandler(svc.Submission))

		// uploads and outbound RNDC calls are rate limited per client
		v1.Group(func(limited chi.Router) {
			limited.Use(middleware.RateLimitMiddleware(rate.PerSecond, rate.Burst))

			limited.Post("/rndc/{docType}/submit", api.SubmitHandler(svc.Submission, maxBytes))
			limited.Post("/rndc/{docType}/preview", api.PreviewHandler(svc.Submission, maxBytes))
			limited.Post("/rndc/consultas", api.ConsultaHandler(svc.Submission))

			limited.Group(func(admin chi.Router) {
				admin.Use(middleware.IsAdminMiddleware())
				admin.Post("/import/{entity}", api.ImportHandler(svc.Import, maxBytes))
			})
		})

		v1.Group(func(admin chi.Router) {
			admin.Use(middleware.IsAdminMiddleware())
			admin.Put("/operator-config", api.UpdateOperatorConfigHandler(svc.OperatorConfig))
		})
	})
}
