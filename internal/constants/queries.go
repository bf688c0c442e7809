package constants

// Queries use ? placeholders; callers Rebind them for the active driver.
const (
	GetSubmissionsByBatch = `
	SELECT row_index, document_type, success, consecutivo, placa, ingreso_id, confidence, error, created_at
	FROM rndc_submissions
	WHERE batch_id = ?
	ORDER BY row_index
	`

	GetBatchSummaries = `
	SELECT batch_id, document_type,
		COUNT(*) AS total,
		SUM(CASE WHEN success THEN 1 ELSE 0 END) AS succeeded,
		MAX(id) AS last_id
	FROM rndc_submissions
	GROUP BY batch_id, document_type
	ORDER BY last_id DESC
	LIMIT ?
	`
)
