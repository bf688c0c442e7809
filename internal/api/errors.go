package api

import (
	"errors"
	"net/http"
	"time"

	"despachos/rndc-gateway/internal/common"
	"despachos/rndc-gateway/internal/constants"
	"despachos/rndc-gateway/internal/ingest"
	"despachos/rndc-gateway/internal/logging"
	"despachos/rndc-gateway/internal/rndc"
	"despachos/rndc-gateway/internal/services"
)

// handleServiceError maps service errors to HTTP responses. Batch-fatal
// errors never carry partial results.
func handleServiceError(w http.ResponseWriter, initTime time.Time, err error) {
	var (
		maxBytesErr   *http.MaxBytesError
		parseErr      *ingest.ParseError
		configErr     *services.ConfigError
		renderErr     *rndc.RenderError
		submissionErr *rndc.SubmissionError
	)

	switch {
	case errors.As(err, &maxBytesErr):
		common.RespondError(w, initTime, nil, constants.MsgFileTooLarge, http.StatusRequestEntityTooLarge,
			map[string]int64{"limit": maxBytesErr.Limit})
	case errors.Is(err, errBadUpload):
		common.RespondError(w, initTime, err, constants.MsgInvalidBody, http.StatusBadRequest)
	case ingest.IsUnsupportedType(err):
		common.RespondError(w, initTime, err, constants.MsgUnsupportedFile, http.StatusUnsupportedMediaType)
	case errors.As(err, &parseErr):
		common.RespondError(w, initTime, err, "", http.StatusBadRequest)
	case errors.As(err, &configErr):
		common.RespondError(w, initTime, err, constants.MsgConfigIncomplete, http.StatusPreconditionFailed,
			map[string][]string{"missing": configErr.Missing})
	case errors.Is(err, services.ErrInvalidConfig):
		common.RespondError(w, initTime, err, constants.MsgInvalidBody, http.StatusBadRequest)
	case errors.Is(err, services.ErrUnknownDocument):
		common.RespondError(w, initTime, err, constants.MsgUnknownDocType, http.StatusNotFound)
	case errors.Is(err, services.ErrUnknownEntity):
		common.RespondError(w, initTime, err, constants.MsgUnknownEntity, http.StatusNotFound)
	case errors.Is(err, services.ErrBatchNotFound):
		common.RespondError(w, initTime, nil, constants.MsgBatchNotFound, http.StatusNotFound)
	case errors.As(err, &renderErr):
		common.RespondError(w, initTime, err, constants.MsgPreviewFailed, http.StatusUnprocessableEntity)
	case errors.As(err, &submissionErr):
		common.RespondError(w, initTime, err, constants.MsgRNDCQueryFailed, http.StatusBadGateway)
	default:
		logging.Error("Unhandled service error", "error", err.Error())
		common.RespondError(w, initTime, nil, constants.MsgInternalError, http.StatusInternalServerError)
	}
}
