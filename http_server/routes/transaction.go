package routes

import (
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/aura-nw/msafe-core/http_server/controllers"
	"github.com/aura-nw/msafe-core/service"
)

func TransactionRoute(router *mux.Router, s *service.Service, logger *zap.Logger) {
	router.HandleFunc("/safes/{safeId}/queue", controllers.GetQueue(s, logger)).Methods("GET")
	router.HandleFunc("/safes/{safeId}/queue/next", controllers.NextQueuePage(s, logger)).Methods("POST")
	router.HandleFunc("/safes/{safeId}/history", controllers.GetHistory(s, logger)).Methods("GET")
	router.HandleFunc("/safes/{safeId}/history/next", controllers.NextHistoryPage(s, logger)).Methods("POST")

	router.HandleFunc("/safes/{safeId}/transactions/compose", controllers.ComposeTransaction(s, logger)).Methods("POST")
	router.HandleFunc("/safes/{safeId}/transactions", controllers.CreateTransaction(s, logger)).Methods("POST")
	router.HandleFunc("/safes/{safeId}/transactions/{txId}/actions", controllers.ApplyTransactionAction(s, logger)).Methods("POST")
	router.HandleFunc("/transactions/{txId}", controllers.GetTransactionDetail(s, logger)).Methods("GET")
}
