package dtos

// OperatorConfigRequest is the body of PUT /api/v1/operator-config. An empty
// password keeps the stored one.
type OperatorConfigRequest struct {
	Usuario           string  `json:"usuario"`
	Password          string  `json:"password"`
	EmpresaNIT        string  `json:"empresaNit"`
	SubmitURL         string  `json:"submitUrl"`
	QueryURL          string  `json:"queryUrl"`
	TimeoutSeconds    int     `json:"timeoutSeconds"`
	MaxRetries        int     `json:"maxRetries"`
	BackoffMs         int     `json:"backoffMs"`
	BackoffMaxMs      int     `json:"backoffMaxMs"`
	RequestsPerSecond float64 `json:"requestsPerSecond"`
	Concurrency       int     `json:"concurrency"`
}

// UploadOptions is the optional "config" form field sent with a file.
type UploadOptions struct {
	// Concurrency overrides the operator default for this batch.
	Concurrency int `json:"concurrency"`
	// Defaults fill cells that are absent or blank in every row.
	Defaults map[string]string `json:"defaults"`
}

// PreviewRecordRequest is a single value bag keyed by column name.
type PreviewRecordRequest map[string]any
