package constants

const (
	MsgFileRequired     = "A file must be uploaded in the 'file' field"
	MsgFileTooLarge     = "File exceeds the maximum upload size"
	MsgUnsupportedFile  = "Unsupported file type, upload .csv or .xlsx"
	MsgUnknownDocType   = "Unknown document type"
	MsgUnknownEntity    = "Unknown master-data entity"
	MsgConfigIncomplete = "RNDC operator configuration is incomplete"
	MsgInvalidBody      = "Invalid request body"
	MsgBatchNotFound    = "Batch not found"
	MsgInternalError    = "Internal server error"
	MsgUnauthorized     = "Missing or invalid bearer token"
	MsgRateLimited      = "Rate limit exceeded. Please try again later."
	MsgRNDCQueryFailed  = "RNDC query failed"
	MsgPreviewFailed    = "Could not render document"
)
