package dtos

import (
	"time"

	"despachos/rndc-gateway/internal/batch"
	"despachos/rndc-gateway/internal/validation"
)

// OperatorConfigResponse never carries the stored password.
type OperatorConfigResponse struct {
	Usuario           string    `json:"usuario"`
	Password          string    `json:"password"`
	PasswordSet       bool      `json:"passwordSet"`
	EmpresaNIT        string    `json:"empresaNit"`
	SubmitURL         string    `json:"submitUrl"`
	QueryURL          string    `json:"queryUrl"`
	TimeoutSeconds    int       `json:"timeoutSeconds"`
	MaxRetries        int       `json:"maxRetries"`
	BackoffMs         int       `json:"backoffMs"`
	BackoffMaxMs      int       `json:"backoffMaxMs"`
	RequestsPerSecond float64   `json:"requestsPerSecond"`
	Concurrency       int       `json:"concurrency"`
	Missing           []string  `json:"missing,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt,omitempty"`
}

// ImportResponse flattens the batch result next to the row counts.
type ImportResponse struct {
	Entity    string `json:"entity"`
	TotalRows int    `json:"totalRows"`
	ValidRows int    `json:"validRows"`
	batch.Result
}

type PreviewRecordResponse struct {
	DocumentType string                  `json:"documentType"`
	XML          string                  `json:"xml,omitempty"`
	Errors       []validation.FieldError `json:"errors,omitempty"`
}

// ServiceStatus is the state of one dependency in the health check.
type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

type HealthCheckResponse struct {
	Status   string                   `json:"status"`
	Services map[string]ServiceStatus `json:"services"`
	UpSince  time.Time                `json:"upSince"`
	Uptime   string                   `json:"uptime"`
}
