package common

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"despachos/rndc-gateway/internal/logging"
)

type APIStatus string

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"
)

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

func GetResponseTime(init time.Time) string {
	return fmt.Sprintf("%dms", time.Since(init).Milliseconds())
}

// RespondSuccess sends a standardized JSON success response.
func RespondSuccess(w http.ResponseWriter, initTime time.Time, message string, data any, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	writeJSON(w, code, APIResponse{
		Status:       string(APIStatusOk),
		Message:      message,
		ResponseTime: GetResponseTime(initTime),
		Data:         data,
	})
}

// RespondError sends a standardized JSON error response. details, when not
// nil, is returned as data (e.g. the list of missing settings).
func RespondError(w http.ResponseWriter, initTime time.Time, err error, message string, statusCode int, details ...any) {
	msg := message
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}

	resp := APIResponse{
		Status:       string(APIStatusError),
		Message:      msg,
		ResponseTime: GetResponseTime(initTime),
	}
	if len(details) > 0 {
		resp.Data = details[0]
	}
	writeJSON(w, statusCode, resp)
}

// writeJSON marshals data and writes it to the HTTP response.
func writeJSON(w http.ResponseWriter, code int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("JSON encode failed", "error", err.Error())
	}
}
