package restapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/xrplkit/walletconsole/internal/console"
	"github.com/xrplkit/walletconsole/wallet"
)

type okResponse struct {
	OK bool `json:"ok"`
}

var responseOK = &okResponse{OK: true}

// ListAccountsHandler lists saved account addresses
func ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	res, err := console.Get().Store.Accounts()
	writeResponse(w, res, err)
}

type saveAccountRequest struct {
	Address  string `json:"address"`
	Label    string `json:"label,omitempty"`
	Seed     string `json:"seed,omitempty"`
	Password string `json:"password,omitempty"`
}

// SaveAccountHandler saves an account, sealing the seed when given
func SaveAccountHandler(w http.ResponseWriter, r *http.Request) {
	var req saveAccountRequest
	if err := decodeBody(r, &req); err != nil {
		writeResponse(w, nil, err)
		return
	}
	err := console.Get().Store.SaveAccount(req.Address, req.Label, req.Seed, req.Password)
	writeResponse(w, responseOK, err)
}

// GetAccountHandler returns a saved account without its seed material
func GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	account, err := console.Get().Store.GetAccount(vars["address"])
	if err != nil {
		writeResponse(w, nil, err)
		return
	}
	// never hand the sealed seed out over the API
	writeResponse(w, &wallet.StoredAccount{Address: account.Address, Label: account.Label}, nil)
}

// DeleteAccountHandler removes a saved account
func DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := console.Get().Store.DeleteAccount(vars["address"])
	writeResponse(w, responseOK, err)
}

// ListIssuersHandler lists known issuers
func ListIssuersHandler(w http.ResponseWriter, r *http.Request) {
	res, err := console.Get().Store.KnownIssuers()
	writeResponse(w, res, err)
}

// AddIssuerHandler saves a known issuer
func AddIssuerHandler(w http.ResponseWriter, r *http.Request) {
	var issuer wallet.Issuer
	if err := decodeBody(r, &issuer); err != nil {
		writeResponse(w, nil, err)
		return
	}
	writeResponse(w, responseOK, console.Get().Store.AddKnownIssuer(issuer))
}

// RemoveIssuerHandler drops a known issuer
func RemoveIssuerHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := console.Get().Store.RemoveKnownIssuer(vars["currency"], vars["address"])
	writeResponse(w, responseOK, err)
}

// ListDestinationsHandler lists saved destinations
func ListDestinationsHandler(w http.ResponseWriter, r *http.Request) {
	res, err := console.Get().Store.CustomDestinations()
	writeResponse(w, res, err)
}

// AddDestinationHandler saves a destination
func AddDestinationHandler(w http.ResponseWriter, r *http.Request) {
	var destination wallet.Destination
	if err := decodeBody(r, &destination); err != nil {
		writeResponse(w, nil, err)
		return
	}
	writeResponse(w, responseOK, console.Get().Store.AddCustomDestination(destination))
}

// RemoveDestinationHandler drops a destination
func RemoveDestinationHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := console.Get().Store.RemoveCustomDestination(vars["address"])
	writeResponse(w, responseOK, err)
}

type selectNetworkRequest struct {
	Network string `json:"network"`
}

// SelectNetworkHandler persists the network choice
func SelectNetworkHandler(w http.ResponseWriter, r *http.Request) {
	var req selectNetworkRequest
	if err := decodeBody(r, &req); err != nil {
		writeResponse(w, nil, err)
		return
	}
	writeResponse(w, responseOK, console.Get().Store.SetSelectedNetwork(req.Network))
}

// GetSignerConfigHandler returns the remembered multi signing setup
func GetSignerConfigHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, err := console.Get().Store.GetSignerConfig(vars["address"])
	writeResponse(w, res, err)
}

// SetSignerConfigHandler remembers a multi signing setup
func SetSignerConfigHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var config wallet.SignerConfig
	if err := decodeBody(r, &config); err != nil {
		writeResponse(w, nil, err)
		return
	}
	writeResponse(w, responseOK, console.Get().Store.SetSignerConfig(vars["address"], &config))
}
