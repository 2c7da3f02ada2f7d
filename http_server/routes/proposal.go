package routes

import (
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/aura-nw/msafe-core/http_server/controllers"
	"github.com/aura-nw/msafe-core/service"
)

func ProposalRoute(router *mux.Router, s *service.Service, logger *zap.Logger) {
	router.HandleFunc("/proposals", controllers.ListProposals(s, logger)).Methods("GET")
	router.HandleFunc("/proposals/{proposalId}", controllers.GetProposal(s, logger)).Methods("GET")
}
