package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"despachos/rndc-gateway/internal/batch"
	"despachos/rndc-gateway/internal/db/repositories"
)

var exportHeader = []string{"row", "success", "consecutivo", "placa", "ingreso_id", "confidence", "error"}

// WriteResultsCSV writes one line per row outcome.
func WriteResultsCSV(w io.Writer, results []batch.SubmissionResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range results {
		if err := cw.Write([]string{
			strconv.Itoa(r.Row),
			strconv.FormatBool(r.Success),
			r.Consecutivo,
			r.Placa,
			r.IngresoID,
			r.Confidence,
			r.Error,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the outcomes of a batch, from the cache while it holds
// the result and from the submission log afterwards.
func (s *SubmissionService) ExportCSV(ctx context.Context, batchID string, w io.Writer) error {
	if res, ok := s.Result(batchID); ok {
		return WriteResultsCSV(w, res.Results)
	}

	rows, err := s.submissions.ListByBatch(ctx, batchID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: %s", ErrBatchNotFound, batchID)
	}
	return WriteResultsCSV(w, fromLog(rows))
}

func fromLog(rows []repositories.SubmissionRow) []batch.SubmissionResult {
	out := make([]batch.SubmissionResult, len(rows))
	for i, r := range rows {
		out[i] = batch.SubmissionResult{
			Row:         r.RowIndex,
			Success:     r.Success,
			Consecutivo: r.Consecutivo,
			Placa:       r.Placa,
			IngresoID:   r.IngresoID,
			Confidence:  r.Confidence,
			Error:       r.Error,
		}
	}
	return out
}
