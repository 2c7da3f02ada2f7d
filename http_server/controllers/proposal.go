package controllers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/aura-nw/msafe-core/service"
)

func ListProposals(s *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		proposals, err := s.ListProposals(r.Context())
		if err != nil {
			respondServiceError(rw, logger, err)
			return
		}
		respondJSON(rw, http.StatusOK, proposals)
	}
}

func GetProposal(s *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["proposalId"], 10, 64)
		if err != nil {
			respondBadRequest(rw, "proposalId must be numeric")
			return
		}
		proposal, err := s.GetProposal(r.Context(), id)
		if err != nil {
			respondServiceError(rw, logger, err)
			return
		}
		respondJSON(rw, http.StatusOK, proposal)
	}
}
