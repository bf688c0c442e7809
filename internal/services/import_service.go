package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"despachos/rndc-gateway/internal/batch"
	"despachos/rndc-gateway/internal/db/repositories"
	"despachos/rndc-gateway/internal/ingest"
	"despachos/rndc-gateway/internal/metrics"
	"despachos/rndc-gateway/internal/models/documents"
	"despachos/rndc-gateway/internal/models/dtos"
	"despachos/rndc-gateway/internal/validation"
)

// ImportService bulk loads master data through the same parse, validate and
// batch pipeline the RNDC submissions use.
type ImportService struct {
	repo    *repositories.MasterDataRepository
	metrics *metrics.MetricsRegistry
}

func NewImportService(repo *repositories.MasterDataRepository, m *metrics.MetricsRegistry) *ImportService {
	return &ImportService{repo: repo, metrics: m}
}

// Import upserts every valid row of the file into the entity's table.
func (s *ImportService) Import(ctx context.Context, entity, filename string, data []byte, opts dtos.UploadOptions) (*dtos.ImportResponse, error) {
	spec, err := documents.LookupEntity(entity)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}

	rows, err := ingest.Parse(data, filename)
	if err != nil {
		return nil, err
	}
	rows = applyDefaults(rows, opts.Defaults)

	var valid atomic.Int64
	pipeline := batch.Pipeline{
		Validate: func(row ingest.Row) validation.Outcome {
			outcome := validation.Validate(row, spec.Schema)
			if outcome.Valid() {
				valid.Add(1)
			}
			return outcome
		},
		Process: func(ctx context.Context, _ ingest.Row, outcome validation.Outcome) batch.SubmissionResult {
			model, key := spec.Map(outcome.Values)
			result := batch.SubmissionResult{Consecutivo: key}
			if err := s.repo.Upsert(ctx, model); err != nil {
				result.Error = err.Error()
				return result
			}
			result.Success = true
			return result
		},
	}

	res := batch.Run(ctx, rows, pipeline, batch.Options{
		Label:       "import:" + string(spec.Entity),
		Concurrency: batchConcurrency(opts.Concurrency, 1),
	})
	s.metrics.ObserveImport(string(spec.Entity), res.SuccessCount, res.ErrorCount)

	return &dtos.ImportResponse{
		Entity:    string(spec.Entity),
		TotalRows: len(rows),
		ValidRows: int(valid.Load()),
		Result:    res,
	}, nil
}

func applyDefaults(rows []ingest.Row, defaults map[string]string) []ingest.Row {
	if len(defaults) == 0 {
		return rows
	}
	out := make([]ingest.Row, len(rows))
	for i, row := range rows {
		out[i] = row.WithDefaults(defaults)
	}
	return out
}
