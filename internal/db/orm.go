package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	gormModels "despachos/rndc-gateway/internal/models/gorm"
)

// InitPostgresORM opens the GORM handle used by the repositories.
func InitPostgresORM(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}

// Models lists every table the gateway owns.
func Models() []any {
	return []any{
		&gormModels.OperatorConfig{},
		&gormModels.Municipio{},
		&gormModels.Vehiculo{},
		&gormModels.Sitio{},
		&gormModels.Tercero{},
		&gormModels.RNDCSubmission{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
