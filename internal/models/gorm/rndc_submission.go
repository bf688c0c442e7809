package gorm

import "time"

// RNDCSubmission records the fate of one uploaded row within a batch.
type RNDCSubmission struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement"`
	BatchID      string    `gorm:"column:batch_id;index;not null"`
	RowIndex     int       `gorm:"column:row_index;not null"`
	DocumentType string    `gorm:"column:document_type;not null"`
	Success      bool      `gorm:"column:success"`
	Consecutivo  string    `gorm:"column:consecutivo;index"`
	Placa        string    `gorm:"column:placa"`
	IngresoID    string    `gorm:"column:ingreso_id"`
	Confidence   string    `gorm:"column:confidence"`
	Error        string    `gorm:"column:error;type:text"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (RNDCSubmission) TableName() string {
	return "rndc_submissions"
}
