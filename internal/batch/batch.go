package batch

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"despachos/rndc-gateway/internal/ingest"
	"despachos/rndc-gateway/internal/logging"
	"despachos/rndc-gateway/internal/validation"
)

// SubmissionResult is the fate of one uploaded row.
type SubmissionResult struct {
	Row          int                     `json:"row"`
	Success      bool                    `json:"success"`
	Consecutivo  string                  `json:"consecutivo,omitempty"`
	Placa        string                  `json:"placa,omitempty"`
	Error        string                  `json:"error,omitempty"`
	Errors       []validation.FieldError `json:"errors,omitempty"`
	SOAPResponse string                  `json:"soapResponse,omitempty"`
	IngresoID    string                  `json:"ingresoId,omitempty"`
	Confidence   string                  `json:"confidence,omitempty"`
	// XML is the rendered envelope, filled by previews only.
	XML string `json:"xml,omitempty"`
}

// Result aggregates a batch. Results[i] belongs to the i-th input row and
// SuccessCount+ErrorCount == TotalProcessed == len(Results).
type Result struct {
	BatchID        string             `json:"batchId"`
	TotalProcessed int                `json:"totalProcessed"`
	SuccessCount   int                `json:"successCount"`
	ErrorCount     int                `json:"errorCount"`
	Results        []SubmissionResult `json:"results"`
}

// Pipeline is the per-row work. Process only sees rows that validated.
type Pipeline struct {
	Validate func(row ingest.Row) validation.Outcome
	Process  func(ctx context.Context, row ingest.Row, outcome validation.Outcome) SubmissionResult
}

type Options struct {
	// ID names the batch; a UUID is generated when empty.
	ID string
	// Label tags log lines, usually the document type or entity.
	Label string
	// Concurrency bounds the rows in flight. Values below 2 run sequentially.
	Concurrency int
}

// ErrCancelled is the message recorded for rows never started because the
// batch context ended.
const ErrCancelled = "cancelled before processing"

// Run processes every row independently and returns results in input order.
// A failing row never stops the others.
func Run(ctx context.Context, rows []ingest.Row, p Pipeline, opts Options) Result {
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}
	log := logging.WithBatch(id, opts.Label)
	start := time.Now()
	log.Infow("batch started", "rows", len(rows), "concurrency", limit)

	results := make([]SubmissionResult, len(rows))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, row := range rows {
		if ctx.Err() != nil {
			results[i] = cancelled(row)
			continue
		}
		g.Go(func() error {
			results[i] = runRow(ctx, row, p)
			return nil
		})
	}
	_ = g.Wait()

	res := Result{BatchID: id, TotalProcessed: len(results), Results: results}
	for _, r := range results {
		if r.Success {
			res.SuccessCount++
		} else {
			res.ErrorCount++
		}
	}

	log.Infow("batch finished",
		"total", res.TotalProcessed,
		"success", res.SuccessCount,
		"errors", res.ErrorCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res
}

func runRow(ctx context.Context, row ingest.Row, p Pipeline) (result SubmissionResult) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("row processing panicked", "row", row.Index, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			result = SubmissionResult{Row: row.Index, Error: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	if ctx.Err() != nil {
		return cancelled(row)
	}

	outcome := p.Validate(row)
	if !outcome.Valid() {
		return SubmissionResult{
			Row:    row.Index,
			Error:  outcome.Summary(),
			Errors: outcome.Errors,
		}
	}

	result = p.Process(ctx, row, outcome)
	result.Row = row.Index
	return result
}

func cancelled(row ingest.Row) SubmissionResult {
	return SubmissionResult{Row: row.Index, Error: ErrCancelled}
}
