package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"despachos/rndc-gateway/internal/common"
	"despachos/rndc-gateway/internal/services"
)

// ImportHandler handles POST /api/v1/import/{entity}
func ImportHandler(svc *services.ImportService, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		entity := chi.URLParam(r, "entity")

		up, err := readUpload(w, r, maxBytes)
		if err != nil {
			handleServiceError(w, initTime, err)
			return
		}

		resp, err := svc.Import(r.Context(), entity, up.Filename, up.Data, up.Options)
		if err != nil {
			handleServiceError(w, initTime, err)
			return
		}

		message := fmt.Sprintf("Imported %d of %d %s rows", resp.SuccessCount, resp.TotalRows, resp.Entity)
		common.RespondSuccess(w, initTime, message, resp)
	}
}
