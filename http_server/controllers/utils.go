package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/aura-nw/msafe-core/exceptions"
	"github.com/aura-nw/msafe-core/gateway"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(rw http.ResponseWriter, status int, payload interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(payload)
}

func respondBadRequest(rw http.ResponseWriter, msg string) {
	respondJSON(rw, http.StatusBadRequest, errorBody{Error: msg})
}

func respondValidation(rw http.ResponseWriter, e map[string][]string) {
	respondJSON(rw, http.StatusUnprocessableEntity, map[string]interface{}{"validationError": e})
}

// respondServiceError maps the error taxonomy to API responses. Gateway
// codes the user must see distinctly (pending execution, duplicate safe)
// keep their code; coded client errors keep theirs; the rest is a 502.
func respondServiceError(rw http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case gateway.IsCode(err, gateway.CodePendingExecution):
		respondJSON(rw, http.StatusConflict, errorBody{
			Error: "another transaction with this sequence is already awaiting execution",
			Code:  gateway.CodePendingExecution,
		})
	case gateway.IsCode(err, gateway.CodeDuplicateSafe):
		respondJSON(rw, http.StatusConflict, errorBody{
			Error: "a safe with these owners was already created",
			Code:  gateway.CodeDuplicateSafe,
		})
	default:
		if ce, ok := err.(*exceptions.CodedError); ok {
			logger.Warn("request failed", zap.Int("code", ce.Code), zap.Error(err))
			respondJSON(rw, http.StatusBadGateway, errorBody{Error: ce.Message, Code: strconv.Itoa(ce.Code)})
			return
		}
		logger.Warn("request failed", zap.Error(err))
		respondJSON(rw, http.StatusBadGateway, errorBody{Error: err.Error()})
	}
}
