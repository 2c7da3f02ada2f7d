package http_server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/aura-nw/msafe-core/http_server/routes"
	"github.com/aura-nw/msafe-core/service"
)

// HandleRequests wires every route group onto one mux router and serves it.
func HandleRequests(s *service.Service, port string, logger *zap.Logger) error {
	router := mux.NewRouter().StrictSlash(true)

	routes.SafeRoute(router, s, logger)
	routes.TransactionRoute(router, s, logger)
	routes.ProposalRoute(router, s, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%v", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logger.Info("http server listening", zap.String("port", port))
	return srv.ListenAndServe()
}
