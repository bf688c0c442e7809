package api

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"despachos/rndc-gateway/internal/common"
	"despachos/rndc-gateway/internal/db/repositories"
	"despachos/rndc-gateway/internal/metrics"
	"despachos/rndc-gateway/internal/services"
)

type Repositories struct {
	OperatorConfig *repositories.OperatorConfigRepository
	MasterData     *repositories.MasterDataRepository
	Submissions    *repositories.SubmissionRepository
}

type Services struct {
	Cache          common.CacheInterface
	OperatorConfig *services.OperatorConfigService
	Import         *services.ImportService
	Submission     *services.SubmissionService
}

type Dependencies struct {
	DB       *sqlx.DB
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
	// MaxUploadBytes caps multipart uploads.
	MaxUploadBytes int64
}

// InitDependencies wires repositories and services. rndcClient is the HTTP
// client used for outbound SOAP calls; nil uses the default transport.
func InitDependencies(gdb *gorm.DB, sx *sqlx.DB, cache common.CacheInterface, metricsReg *metrics.MetricsRegistry, rndcClient *http.Client, maxUploadBytes int64) *Dependencies {
	repos := &Repositories{
		OperatorConfig: repositories.NewOperatorConfigRepository(gdb),
		MasterData:     repositories.NewMasterDataRepository(gdb),
		Submissions:    repositories.NewSubmissionRepository(gdb, sx),
	}

	configSvc := services.NewOperatorConfigService(repos.OperatorConfig, metricsReg)

	return &Dependencies{
		DB:   sx,
		Repo: repos,
		Services: &Services{
			Cache:          cache,
			OperatorConfig: configSvc,
			Import:         services.NewImportService(repos.MasterData, metricsReg),
			Submission:     services.NewSubmissionService(configSvc, repos.Submissions, cache, metricsReg, rndcClient),
		},
		Metrics:        metricsReg,
		MaxUploadBytes: maxUploadBytes,
	}
}
