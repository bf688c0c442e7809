package services

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"despachos/rndc-gateway/internal/batch"
	"despachos/rndc-gateway/internal/common"
	"despachos/rndc-gateway/internal/db/repositories"
	"despachos/rndc-gateway/internal/ingest"
	"despachos/rndc-gateway/internal/logging"
	"despachos/rndc-gateway/internal/metrics"
	"despachos/rndc-gateway/internal/models/documents"
	"despachos/rndc-gateway/internal/models/dtos"
	gormModels "despachos/rndc-gateway/internal/models/gorm"
	"despachos/rndc-gateway/internal/rndc"
	"despachos/rndc-gateway/internal/validation"
)

const (
	batchResultTTL = 24 * time.Hour

	// MaxBatchConcurrency bounds the rows of one batch in flight against RNDC.
	MaxBatchConcurrency = 16
)

// SubmissionService runs uploaded files through render and submit, one batch
// per upload.
type SubmissionService struct {
	configs     *OperatorConfigService
	submissions *repositories.SubmissionRepository
	cache       common.CacheInterface
	metrics     *metrics.MetricsRegistry
	httpClient  *http.Client
}

func NewSubmissionService(
	configs *OperatorConfigService,
	submissions *repositories.SubmissionRepository,
	cache common.CacheInterface,
	m *metrics.MetricsRegistry,
	httpClient *http.Client,
) *SubmissionService {
	return &SubmissionService{
		configs:     configs,
		submissions: submissions,
		cache:       cache,
		metrics:     m,
		httpClient:  httpClient,
	}
}

// Submit validates, renders and sends every row of the file. Configuration
// and parse failures abort before any row is processed; everything else is
// reported per row.
func (s *SubmissionService) Submit(ctx context.Context, docType, filename string, data []byte, opts dtos.UploadOptions) (*batch.Result, error) {
	spec, err := lookupDocument(docType)
	if err != nil {
		return nil, err
	}

	cfg, concurrency, err := s.configs.RNDCConfig(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := ingest.Parse(data, filename)
	if err != nil {
		return nil, err
	}
	rows = applyDefaults(rows, opts.Defaults)
	concurrency = batchConcurrency(opts.Concurrency, concurrency)

	client := s.client(cfg)
	pipeline := batch.Pipeline{
		Validate: func(row ingest.Row) validation.Outcome {
			return validation.Validate(row, spec.Schema)
		},
		Process: func(ctx context.Context, _ ingest.Row, outcome validation.Outcome) batch.SubmissionResult {
			return s.submitRecord(ctx, client, spec.Map(outcome.Values), cfg)
		},
	}

	start := time.Now()
	res := batch.Run(ctx, rows, pipeline, batch.Options{
		Label:       string(spec.Type),
		Concurrency: concurrency,
	})
	s.metrics.ObserveBatch(string(spec.Type), res.SuccessCount, res.ErrorCount, time.Since(start))

	// the rows already reached RNDC, so the log is written even if the
	// caller went away
	s.record(context.WithoutCancel(ctx), spec.Type, res)
	s.cache.Set(common.CacheKeyBatchPrefix+res.BatchID, res, batchResultTTL)

	return &res, nil
}

func (s *SubmissionService) submitRecord(ctx context.Context, client *rndc.Client, rec documents.Record, cfg rndc.Config) batch.SubmissionResult {
	result := batch.SubmissionResult{
		Consecutivo: rec.Consecutivo(),
		Placa:       rec.Placa(),
	}

	envelope, err := rndc.Render(rec, cfg)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	resp, err := client.Submit(ctx, envelope, cfg)
	if resp != nil {
		result.SOAPResponse = resp.Raw
		result.IngresoID = resp.IngresoID
		result.Confidence = string(resp.Confidence)
	}
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Success = true
	return result
}

func (s *SubmissionService) record(ctx context.Context, docType documents.DocumentType, res batch.Result) {
	rows := make([]gormModels.RNDCSubmission, 0, len(res.Results))
	for _, r := range res.Results {
		rows = append(rows, gormModels.RNDCSubmission{
			BatchID:      res.BatchID,
			RowIndex:     r.Row,
			DocumentType: string(docType),
			Success:      r.Success,
			Consecutivo:  r.Consecutivo,
			Placa:        r.Placa,
			IngresoID:    r.IngresoID,
			Confidence:   r.Confidence,
			Error:        r.Error,
		})
	}
	if err := s.submissions.CreateBatch(ctx, rows); err != nil {
		logging.Error("Failed to record batch outcomes", "batch_id", res.BatchID, "error", err.Error())
	}
}

// Preview renders every valid row without sending anything. The stored
// password is masked in the returned XML.
func (s *SubmissionService) Preview(ctx context.Context, docType, filename string, data []byte, opts dtos.UploadOptions) (*batch.Result, error) {
	spec, err := lookupDocument(docType)
	if err != nil {
		return nil, err
	}

	cfg, err := s.previewConfig(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := ingest.Parse(data, filename)
	if err != nil {
		return nil, err
	}
	rows = applyDefaults(rows, opts.Defaults)

	pipeline := batch.Pipeline{
		Validate: func(row ingest.Row) validation.Outcome {
			return validation.Validate(row, spec.Schema)
		},
		Process: func(_ context.Context, _ ingest.Row, outcome validation.Outcome) batch.SubmissionResult {
			rec := spec.Map(outcome.Values)
			result := batch.SubmissionResult{Consecutivo: rec.Consecutivo(), Placa: rec.Placa()}
			xml, err := rndc.Render(rec, cfg)
			if err != nil {
				result.Error = err.Error()
				return result
			}
			result.XML = xml
			result.Success = true
			return result
		},
	}

	res := batch.Run(ctx, rows, pipeline, batch.Options{
		Label:       "preview:" + string(spec.Type),
		Concurrency: batchConcurrency(opts.Concurrency, 1),
	})
	return &res, nil
}

// PreviewRecord renders a single value bag. Required fields are not enforced
// so partially filled forms can be previewed; coercion errors are returned
// instead of XML.
func (s *SubmissionService) PreviewRecord(ctx context.Context, docType string, values dtos.PreviewRecordRequest) (*dtos.PreviewRecordResponse, error) {
	spec, err := lookupDocument(docType)
	if err != nil {
		return nil, err
	}

	cfg, err := s.previewConfig(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dtos.PreviewRecordResponse{DocumentType: string(spec.Type)}
	outcome := validation.Partial(rowFromValues(values), spec.Schema)
	if !outcome.Valid() {
		resp.Errors = outcome.Errors
		return resp, nil
	}

	xml, err := rndc.Render(spec.Map(outcome.Values), cfg)
	if err != nil {
		return nil, err
	}
	resp.XML = xml
	return resp, nil
}

// Query renders a consulta and sends it. A classified rejection is returned
// together with its error.
func (s *SubmissionService) Query(ctx context.Context, q rndc.Consulta) (*rndc.Response, error) {
	cfg, _, err := s.configs.RNDCConfig(ctx)
	if err != nil {
		return nil, err
	}

	envelope, err := rndc.RenderConsulta(q, cfg)
	if err != nil {
		return nil, err
	}
	return s.client(cfg).Query(ctx, envelope, cfg)
}

// Result returns a cached batch result.
func (s *SubmissionService) Result(batchID string) (*batch.Result, bool) {
	var res batch.Result
	found, err := common.GetTyped(s.cache, common.CacheKeyBatchPrefix+batchID, &res)
	if err != nil {
		logging.Warn("Discarding cached batch result", "batch_id", batchID, "error", err.Error())
		return nil, false
	}
	s.metrics.CacheLookup(common.CacheKeyBatchPrefix, found)
	if !found {
		return nil, false
	}
	return &res, true
}

// RecentBatches lists the latest logged batches.
func (s *SubmissionService) RecentBatches(ctx context.Context, limit int) ([]repositories.BatchSummary, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.submissions.RecentBatches(ctx, limit)
}

func (s *SubmissionService) previewConfig(ctx context.Context) (rndc.Config, error) {
	stored, err := s.configs.Current(ctx)
	if err != nil {
		return rndc.Config{}, err
	}
	cfg := ToRNDCConfig(stored)
	if cfg.Password != "" {
		cfg.Password = maskedPassword
	}
	return cfg, nil
}

func (s *SubmissionService) client(cfg rndc.Config) *rndc.Client {
	opts := []rndc.Option{
		rndc.WithLimiter(rndc.NewLimiter(cfg.RequestsPerSecond)),
		rndc.WithRecorder(s.metrics),
	}
	if s.httpClient != nil {
		opts = append(opts, rndc.WithHTTPClient(s.httpClient))
	}
	return rndc.NewClient(opts...)
}

// batchConcurrency prefers the per-upload value over fallback and clamps the
// result to MaxBatchConcurrency.
func batchConcurrency(requested, fallback int) int {
	n := fallback
	if requested > 0 {
		n = requested
	}
	if n > MaxBatchConcurrency {
		return MaxBatchConcurrency
	}
	return n
}

func lookupDocument(docType string) (documents.Spec, error) {
	spec, err := documents.Lookup(docType)
	if err != nil {
		return documents.Spec{}, fmt.Errorf("%w: %q, expected one of %s", ErrUnknownDocument, docType, knownTypes())
	}
	return spec, nil
}

func knownTypes() string {
	types := documents.Types()
	names := make([]string, len(types))
	for i, dt := range types {
		names[i] = string(dt)
	}
	return strings.Join(names, ", ")
}

// rowFromValues turns a JSON value bag into a single row, columns in name
// order.
func rowFromValues(values map[string]any) ingest.Row {
	header := make([]string, 0, len(values))
	for k := range values {
		header = append(header, k)
	}
	sort.Strings(header)

	cells := make([]string, len(header))
	for i, k := range header {
		cells[i] = cellText(values[k])
	}
	return ingest.NewRow(1, 1, header, cells)
}

func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
