package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"despachos/rndc-gateway/internal/constants"
	"despachos/rndc-gateway/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// SubmissionRow is one line of the submission-log export.
type SubmissionRow struct {
	RowIndex     int       `db:"row_index"`
	DocumentType string    `db:"document_type"`
	Success      bool      `db:"success"`
	Consecutivo  string    `db:"consecutivo"`
	Placa        string    `db:"placa"`
	IngresoID    string    `db:"ingreso_id"`
	Confidence   string    `db:"confidence"`
	Error        string    `db:"error"`
	CreatedAt    time.Time `db:"created_at"`
}

// BatchSummary aggregates the log of one batch.
type BatchSummary struct {
	BatchID      string `db:"batch_id" json:"batchId"`
	DocumentType string `db:"document_type" json:"documentType"`
	Total        int    `db:"total" json:"total"`
	Succeeded    int    `db:"succeeded" json:"succeeded"`
	LastID       int64  `db:"last_id" json:"-"`
}

// SubmissionRepository writes per-row outcomes through GORM and reads them
// back through sqlx.
type SubmissionRepository struct {
	db  *gormlib.DB
	sql *sqlx.DB
}

func NewSubmissionRepository(db *gormlib.DB, sql *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db, sql: sql}
}

// CreateBatch inserts the outcomes of one batch.
func (r *SubmissionRepository) CreateBatch(ctx context.Context, rows []gorm.RNDCSubmission) error {
	if len(rows) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(rows, 100).Error; err != nil {
		return fmt.Errorf("failed to record submissions: %w", err)
	}
	return nil
}

// ListByBatch returns the outcomes of batchID ordered by row.
func (r *SubmissionRepository) ListByBatch(ctx context.Context, batchID string) ([]SubmissionRow, error) {
	var rows []SubmissionRow

	query := r.sql.Rebind(constants.GetSubmissionsByBatch)
	if err := r.sql.SelectContext(ctx, &rows, query, batchID); err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return rows, nil
}

// RecentBatches returns the latest batches, newest first.
func (r *SubmissionRepository) RecentBatches(ctx context.Context, limit int) ([]BatchSummary, error) {
	var out []BatchSummary

	query := r.sql.Rebind(constants.GetBatchSummaries)
	if err := r.sql.SelectContext(ctx, &out, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	return out, nil
}
