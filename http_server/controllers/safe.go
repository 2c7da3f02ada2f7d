package controllers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/thedevsaddam/govalidator"
	"go.uber.org/zap"

	"github.com/aura-nw/msafe-core/gateway"
	"github.com/aura-nw/msafe-core/service"
)

func safeID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["safeId"], 10, 64)
	return id, err == nil
}

// GetSafe serves the merged local+remote safe snapshot.
func GetSafe(s *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		id, ok := safeID(r)
		if !ok {
			respondBadRequest(rw, "safeId must be numeric")
			return
		}
		safe, err := s.BuildSafe(r.Context(), id)
		if err != nil {
			respondServiceError(rw, logger, err)
			return
		}
		respondJSON(rw, http.StatusOK, safe)
	}
}

type createSafeSerializer struct {
	CreatorAddress     string   `json:"creatorAddress"`
	CreatorPubkey      string   `json:"creatorPubkey"`
	OtherOwnersAddress []string `json:"otherOwnersAddress"`
	Threshold          int      `json:"threshold"`
}

func CreateSafe(s *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		var body createSafeSerializer
		rules := govalidator.MapData{
			"creatorAddress":     []string{"required"},
			"creatorPubkey":      []string{"required"},
			"otherOwnersAddress": []string{"required"},
			"threshold":          []string{"required", "numeric"},
		}
		e := govalidator.New(govalidator.Options{Request: r, Data: &body, Rules: rules}).ValidateJSON()
		if len(e) != 0 {
			respondValidation(rw, e)
			return
		}

		safe, err := s.CreateSafe(r.Context(), gateway.CreateSafeRequest{
			CreatorAddress:     body.CreatorAddress,
			CreatorPubkey:      body.CreatorPubkey,
			OtherOwnersAddress: body.OtherOwnersAddress,
			Threshold:          body.Threshold,
			InternalChainID:    s.Chain.InternalChainID,
		})
		if err != nil {
			respondServiceError(rw, logger, err)
			return
		}
		respondJSON(rw, http.StatusCreated, safe)
	}
}

type allowSafeSerializer struct {
	Address string `json:"address"`
	Pubkey  string `json:"pubkey"`
}

// AllowSafe records the caller's consent to join a pending safe.
func AllowSafe(s *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		id, ok := safeID(r)
		if !ok {
			respondBadRequest(rw, "safeId must be numeric")
			return
		}
		var body allowSafeSerializer
		rules := govalidator.MapData{
			"address": []string{"required"},
			"pubkey":  []string{"required"},
		}
		e := govalidator.New(govalidator.Options{Request: r, Data: &body, Rules: rules}).ValidateJSON()
		if len(e) != 0 {
			respondValidation(rw, e)
			return
		}

		safe, err := s.AllowSafe(r.Context(), id, gateway.WalletKey{Address: body.Address, Pubkey: body.Pubkey})
		if err != nil {
			respondServiceError(rw, logger, err)
			return
		}
		respondJSON(rw, http.StatusOK, safe)
	}
}

func CancelSafe(s *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		id, ok := safeID(r)
		if !ok {
			respondBadRequest(rw, "safeId must be numeric")
			return
		}
		var body struct {
			MyAddress string `json:"myAddress"`
		}
		rules := govalidator.MapData{"myAddress": []string{"required"}}
		e := govalidator.New(govalidator.Options{Request: r, Data: &body, Rules: rules}).ValidateJSON()
		if len(e) != 0 {
			respondValidation(rw, e)
			return
		}

		if err := s.CancelSafe(r.Context(), id, body.MyAddress); err != nil {
			respondServiceError(rw, logger, err)
			return
		}
		respondJSON(rw, http.StatusOK, map[string]string{"status": "cancelled"})
	}
}

func ListOwnedSafes(s *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		owner := mux.Vars(r)["address"]
		safes, err := s.ListOwnedSafes(r.Context(), owner)
		if err != nil {
			respondServiceError(rw, logger, err)
			return
		}
		respondJSON(rw, http.StatusOK, safes)
	}
}

func GetSafeBalances(s *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		id, ok := safeID(r)
		if !ok {
			respondBadRequest(rw, "safeId must be numeric")
			return
		}
		balances, err := s.SafeBalances(r.Context(), id)
		if err != nil {
			respondServiceError(rw, logger, err)
			return
		}
		respondJSON(rw, http.StatusOK, balances)
	}
}

func ListNetworks(s *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		networks, err := s.Networks(r.Context())
		if err != nil {
			respondServiceError(rw, logger, err)
			return
		}
		respondJSON(rw, http.StatusOK, networks)
	}
}

// Address book

type addressBookSerializer struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

func AddAddressBookEntry(s *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		var body addressBookSerializer
		rules := govalidator.MapData{
			"address": []string{"required"},
			"name":    []string{"required"},
		}
		e := govalidator.New(govalidator.Options{Request: r, Data: &body, Rules: rules}).ValidateJSON()
		if len(e) != 0 {
			respondValidation(rw, e)
			return
		}
		if err := s.AddAddressBookEntry(body.Address, body.Name); err != nil {
			respondBadRequest(rw, err.Error())
			return
		}
		respondJSON(rw, http.StatusCreated, map[string]string{"status": "saved"})
	}
}

func ListAddressBook(s *service.Service, _ *zap.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		respondJSON(rw, http.StatusOK, s.AddressBook())
	}
}

// Tokens

func ImportToken(s *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		var body struct {
			Address string `json:"address"`
		}
		rules := govalidator.MapData{"address": []string{"required"}}
		e := govalidator.New(govalidator.Options{Request: r, Data: &body, Rules: rules}).ValidateJSON()
		if len(e) != 0 {
			respondValidation(rw, e)
			return
		}
		token, err := s.ImportToken(r.Context(), body.Address)
		if err != nil {
			respondServiceError(rw, logger, err)
			return
		}
		respondJSON(rw, http.StatusCreated, token)
	}
}

func SetTokenEnabled(s *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		var body struct {
			Enabled bool `json:"enabled"`
		}
		e := govalidator.New(govalidator.Options{Request: r, Data: &body, Rules: govalidator.MapData{}}).ValidateJSON()
		if len(e) != 0 {
			respondValidation(rw, e)
			return
		}
		if err := s.SetTokenEnabled(mux.Vars(r)["address"], body.Enabled); err != nil {
			respondServiceError(rw, logger, err)
			return
		}
		respondJSON(rw, http.StatusOK, map[string]string{"status": "updated"})
	}
}

func ListTokens(s *service.Service, _ *zap.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		respondJSON(rw, http.StatusOK, s.EnabledTokens())
	}
}

// Preferences

func SetPreference(s *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		var body struct {
			Value string `json:"value"`
		}
		e := govalidator.New(govalidator.Options{Request: r, Data: &body, Rules: govalidator.MapData{}}).ValidateJSON()
		if len(e) != 0 {
			respondValidation(rw, e)
			return
		}
		if err := s.SetPreference(mux.Vars(r)["key"], body.Value); err != nil {
			respondServiceError(rw, logger, err)
			return
		}
		respondJSON(rw, http.StatusOK, map[string]string{"status": "saved"})
	}
}

func GetPreference(s *service.Service, _ *zap.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		key := mux.Vars(r)["key"]
		respondJSON(rw, http.StatusOK, map[string]string{"key": key, "value": s.GetPreference(key)})
	}
}
