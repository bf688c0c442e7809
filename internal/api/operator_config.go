package api

import (
	"encoding/json"
	"net/http"
	"time"

	"despachos/rndc-gateway/internal/common"
	"despachos/rndc-gateway/internal/constants"
	"despachos/rndc-gateway/internal/models/dtos"
	"despachos/rndc-gateway/internal/services"
)

// GetOperatorConfigHandler handles GET /api/v1/operator-config
func GetOperatorConfigHandler(svc *services.OperatorConfigService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		cfg, err := svc.Current(r.Context())
		if err != nil {
			handleServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Operator configuration", services.ToOperatorConfigResponse(cfg))
	}
}

// UpdateOperatorConfigHandler handles PUT /api/v1/operator-config
func UpdateOperatorConfigHandler(svc *services.OperatorConfigService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.OperatorConfigRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidBody, http.StatusBadRequest)
			return
		}

		cfg, err := svc.Update(r.Context(), req)
		if err != nil {
			handleServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Operator configuration saved", services.ToOperatorConfigResponse(cfg))
	}
}
