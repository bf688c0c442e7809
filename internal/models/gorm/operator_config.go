package gorm

import "time"

// OperatorConfig is the single-row RNDC access configuration of the operator.
type OperatorConfig struct {
	ID                uint      `gorm:"column:id;primaryKey"`
	Usuario           string    `gorm:"column:usuario"`
	Password          string    `gorm:"column:password"`
	EmpresaNIT        string    `gorm:"column:empresa_nit"`
	SubmitURL         string    `gorm:"column:submit_url"`
	QueryURL          string    `gorm:"column:query_url"`
	TimeoutSeconds    int       `gorm:"column:timeout_seconds"`
	MaxRetries        int       `gorm:"column:max_retries"`
	BackoffMs         int       `gorm:"column:backoff_ms"`
	BackoffMaxMs      int       `gorm:"column:backoff_max_ms"`
	RequestsPerSecond float64   `gorm:"column:requests_per_second"`
	Concurrency       int       `gorm:"column:concurrency"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (OperatorConfig) TableName() string {
	return "operator_config"
}

// OperatorConfigID is the primary key of the only operator_config row.
const OperatorConfigID = 1
