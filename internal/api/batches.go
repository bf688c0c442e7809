package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"despachos/rndc-gateway/internal/common"
	"despachos/rndc-gateway/internal/services"
)

// BatchResultsCSVHandler handles GET /api/v1/batches/{batchID}/results.csv
func BatchResultsCSVHandler(svc *services.SubmissionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		batchID := chi.URLParam(r, "batchID")

		var buf bytes.Buffer
		if err := svc.ExportCSV(r.Context(), batchID, &buf); err != nil {
			handleServiceError(w, initTime, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"batch-%s.csv\"", batchID))
		_, _ = w.Write(buf.Bytes())
	}
}

// ListBatchesHandler handles GET /api/v1/batches?limit=N
func ListBatchesHandler(svc *services.SubmissionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		batches, err := svc.RecentBatches(r.Context(), limit)
		if err != nil {
			handleServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, fmt.Sprintf("%d batches", len(batches)), batches)
	}
}
