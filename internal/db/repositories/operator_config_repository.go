package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm/clause"

	"despachos/rndc-gateway/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// OperatorConfigRepository reads and writes the single operator_config row.
type OperatorConfigRepository struct {
	db *gormlib.DB
}

func NewOperatorConfigRepository(db *gormlib.DB) *OperatorConfigRepository {
	return &OperatorConfigRepository{db: db}
}

// Get returns the stored configuration, or nil when none was saved yet.
func (r *OperatorConfigRepository) Get(ctx context.Context) (*gorm.OperatorConfig, error) {
	var cfg gorm.OperatorConfig

	err := r.db.WithContext(ctx).
		Where("id = ?", gorm.OperatorConfigID).
		First(&cfg).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load operator config: %w", err)
	}

	return &cfg, nil
}

// Upsert stores cfg as the operator configuration.
func (r *OperatorConfigRepository) Upsert(ctx context.Context, cfg *gorm.OperatorConfig) error {
	cfg.ID = gorm.OperatorConfigID

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(cfg).Error
	if err != nil {
		return fmt.Errorf("failed to save operator config: %w", err)
	}
	return nil
}
