package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	gormlib "gorm.io/gorm"
)

// MasterDataRepository stores municipios, vehiculos, sitios and terceros.
// Every write is keyed on the natural primary key so re-importing a file
// updates rows in place.
type MasterDataRepository struct {
	db *gormlib.DB
}

func NewMasterDataRepository(db *gormlib.DB) *MasterDataRepository {
	return &MasterDataRepository{db: db}
}

// Upsert inserts model or overwrites the row with the same primary key.
// model must be a pointer to one of the master-data gorm models.
func (r *MasterDataRepository) Upsert(ctx context.Context, model any) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert %T: %w", model, err)
	}
	return nil
}
