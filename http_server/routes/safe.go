package routes

import (
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/aura-nw/msafe-core/http_server/controllers"
	"github.com/aura-nw/msafe-core/service"
)

func SafeRoute(router *mux.Router, s *service.Service, logger *zap.Logger) {
	router.HandleFunc("/safes", controllers.CreateSafe(s, logger)).Methods("POST")
	router.HandleFunc("/safes/{safeId}", controllers.GetSafe(s, logger)).Methods("GET")
	router.HandleFunc("/safes/{safeId}/allow", controllers.AllowSafe(s, logger)).Methods("POST")
	router.HandleFunc("/safes/{safeId}/cancel", controllers.CancelSafe(s, logger)).Methods("POST")
	router.HandleFunc("/safes/{safeId}/balances", controllers.GetSafeBalances(s, logger)).Methods("GET")
	router.HandleFunc("/owners/{address}/safes", controllers.ListOwnedSafes(s, logger)).Methods("GET")
	router.HandleFunc("/networks", controllers.ListNetworks(s, logger)).Methods("GET")

	router.HandleFunc("/address-book", controllers.AddAddressBookEntry(s, logger)).Methods("POST")
	router.HandleFunc("/address-book", controllers.ListAddressBook(s, logger)).Methods("GET")

	router.HandleFunc("/tokens", controllers.ImportToken(s, logger)).Methods("POST")
	router.HandleFunc("/tokens", controllers.ListTokens(s, logger)).Methods("GET")
	router.HandleFunc("/tokens/{address}", controllers.SetTokenEnabled(s, logger)).Methods("PUT")

	router.HandleFunc("/preferences/{key}", controllers.SetPreference(s, logger)).Methods("PUT")
	router.HandleFunc("/preferences/{key}", controllers.GetPreference(s, logger)).Methods("GET")
}
