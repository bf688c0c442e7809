package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"despachos/rndc-gateway/internal/batch"
	"despachos/rndc-gateway/internal/common"
	"despachos/rndc-gateway/internal/constants"
	"despachos/rndc-gateway/internal/logging"
	"despachos/rndc-gateway/internal/models/dtos"
	"despachos/rndc-gateway/internal/rndc"
	"despachos/rndc-gateway/internal/services"
)

// SubmitHandler handles POST /api/v1/rndc/{docType}/submit. With
// ?format=csv the per-row outcomes are returned as a CSV attachment.
func SubmitHandler(svc *services.SubmissionService, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		docType := chi.URLParam(r, "docType")

		up, err := readUpload(w, r, maxBytes)
		if err != nil {
			handleServiceError(w, initTime, err)
			return
		}

		res, err := svc.Submit(r.Context(), docType, up.Filename, up.Data, up.Options)
		if err != nil {
			handleServiceError(w, initTime, err)
			return
		}

		if r.URL.Query().Get("format") == "csv" {
			writeResultsCSV(w, res)
			return
		}

		message := fmt.Sprintf("Processed %d rows: %d accepted, %d failed", res.TotalProcessed, res.SuccessCount, res.ErrorCount)
		common.RespondSuccess(w, initTime, message, res)
	}
}

// PreviewHandler handles POST /api/v1/rndc/{docType}/preview
func PreviewHandler(svc *services.SubmissionService, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		docType := chi.URLParam(r, "docType")

		up, err := readUpload(w, r, maxBytes)
		if err != nil {
			handleServiceError(w, initTime, err)
			return
		}

		res, err := svc.Preview(r.Context(), docType, up.Filename, up.Data, up.Options)
		if err != nil {
			handleServiceError(w, initTime, err)
			return
		}

		message := fmt.Sprintf("Rendered %d of %d rows", res.SuccessCount, res.TotalProcessed)
		common.RespondSuccess(w, initTime, message, res)
	}
}

// PreviewRecordHandler handles POST /api/v1/rndc/{docType}/preview/record
func PreviewRecordHandler(svc *services.SubmissionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		docType := chi.URLParam(r, "docType")

		var values dtos.PreviewRecordRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&values); err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidBody, http.StatusBadRequest)
			return
		}

		resp, err := svc.PreviewRecord(r.Context(), docType, values)
		if err != nil {
			handleServiceError(w, initTime, err)
			return
		}

		if len(resp.Errors) > 0 {
			common.RespondError(w, initTime, nil, "Record has invalid values", http.StatusUnprocessableEntity, resp)
			return
		}
		common.RespondSuccess(w, initTime, "Record rendered", resp)
	}
}

// ConsultaHandler handles POST /api/v1/rndc/consultas. A reply RNDC
// classified as a rejection is still returned with 200.
func ConsultaHandler(svc *services.SubmissionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var q rndc.Consulta
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&q); err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidBody, http.StatusBadRequest)
			return
		}

		resp, err := svc.Query(r.Context(), q)
		if err != nil && resp == nil {
			handleServiceError(w, initTime, err)
			return
		}

		message := "RNDC consulta answered"
		if !resp.Success {
			message = "RNDC rejected the consulta"
		}
		common.RespondSuccess(w, initTime, message, resp)
	}
}

func writeResultsCSV(w http.ResponseWriter, res *batch.Result) {
	var buf bytes.Buffer
	if err := services.WriteResultsCSV(&buf, res.Results); err != nil {
		logging.Error("Failed to write results CSV", "batch_id", res.BatchID, "error", err.Error())
		common.RespondError(w, time.Now(), nil, constants.MsgInternalError, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"batch-%s.csv\"", res.BatchID))
	w.Header().Set("X-Batch-ID", res.BatchID)
	_, _ = w.Write(buf.Bytes())
}
