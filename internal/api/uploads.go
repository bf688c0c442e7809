package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"despachos/rndc-gateway/internal/constants"
	"despachos/rndc-gateway/internal/models/dtos"
)

// multipartSlack leaves room for boundaries and small form fields on top of
// the file size cap.
const multipartSlack = 64 << 10

var errBadUpload = errors.New("invalid upload")

type upload struct {
	Filename string
	Data     []byte
	Options  dtos.UploadOptions
}

// readUpload reads the multipart "file" field and the optional "config" JSON
// field. Oversized bodies surface as *http.MaxBytesError.
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartSlack)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, &http.MaxBytesError{Limit: maxBytes}
		}
		if strings.Contains(err.Error(), "request body too large") {
			return nil, &http.MaxBytesError{Limit: maxBytes}
		}
		return nil, fmt.Errorf("%w: %v", errBadUpload, err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errBadUpload, constants.MsgFileRequired)
	}
	defer file.Close()

	if header.Size > maxBytes {
		return nil, &http.MaxBytesError{Limit: maxBytes}
	}
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, &http.MaxBytesError{Limit: maxBytes}
	}

	up := &upload{Filename: header.Filename, Data: data}
	if raw := r.FormValue("config"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &up.Options); err != nil {
			return nil, fmt.Errorf("%w: config field: %v", errBadUpload, err)
		}
	}
	return up, nil
}
