// Package restapi implements the REST handlers of the console API.
package restapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/xrplkit/walletconsole/internal/console"
	"github.com/xrplkit/walletconsole/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeResponse(w http.ResponseWriter, resp interface{}, err error) {
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		log.Trace("api request failed", "err", err)
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(&errorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

func decodeBody(r *http.Request, out interface{}) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(out)
}

func queryNetwork(r *http.Request) string {
	return r.URL.Query().Get("network")
}

func queryRefresh(r *http.Request) bool {
	return r.URL.Query().Get("refresh") == "true"
}

// StatusHandler reports network health and the busy flag
func StatusHandler(w http.ResponseWriter, r *http.Request) {
	res, err := console.Get().GetStatus(queryNetwork(r))
	writeResponse(w, res, err)
}

// AccountSummaryHandler serves account root and owned objects
func AccountSummaryHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, err := console.Get().GetAccountSummary(queryNetwork(r), vars["address"], queryRefresh(r))
	writeResponse(w, res, err)
}

// AccountObjectsHandler serves one object type of an account
func AccountObjectsHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, err := console.Get().GetAccountObjects(queryNetwork(r), vars["address"], vars["type"], queryRefresh(r))
	writeResponse(w, res, err)
}

// AccountTransactionsHandler serves recent transactions of an account
func AccountTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	res, err := console.Get().GetAccountTransactions(queryNetwork(r), vars["address"], limit)
	writeResponse(w, res, err)
}

// TrustLinesHandler serves the trust lines of an account
func TrustLinesHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, err := console.Get().GetTrustLines(queryNetwork(r), vars["address"])
	writeResponse(w, res, err)
}

// GatewayBalancesHandler serves the obligations of an issuer
func GatewayBalancesHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, err := console.Get().GetGatewayBalances(queryNetwork(r), vars["address"])
	writeResponse(w, res, err)
}

// MPTHoldersHandler serves the holders of a token issuance
func MPTHoldersHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, err := console.Get().GetMPTHolders(queryNetwork(r), vars["issuanceid"])
	writeResponse(w, res, err)
}

// DepositAuthorizedHandler checks deposit authorization between two accounts
func DepositAuthorizedHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, err := console.Get().DepositAuthorized(queryNetwork(r), vars["source"], vars["destination"])
	writeResponse(w, res, err)
}

// NFTOffersHandler serves the buy or sell offers of a token
func NFTOffersHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, err := console.Get().GetNFTOffers(queryNetwork(r), vars["nftid"], vars["side"])
	writeResponse(w, res, err)
}

type channelAuthorizeRequest struct {
	Network   string `json:"network,omitempty"`
	ChannelID string `json:"channelId"`
	Amount    string `json:"amount"`
	Seed      string `json:"seed,omitempty"`
	Account   string `json:"account,omitempty"`
	Password  string `json:"password,omitempty"`
}

// ChannelAuthorizeHandler signs a payment channel claim
func ChannelAuthorizeHandler(w http.ResponseWriter, r *http.Request) {
	var req channelAuthorizeRequest
	if err := decodeBody(r, &req); err != nil {
		writeResponse(w, nil, err)
		return
	}
	res, err := console.Get().AuthorizeChannelClaim(req.Network, req.ChannelID, req.Amount, req.Seed, req.Account, req.Password)
	writeResponse(w, res, err)
}

type channelVerifyRequest struct {
	Network   string `json:"network,omitempty"`
	ChannelID string `json:"channelId"`
	Amount    string `json:"amount"`
	PublicKey string `json:"publicKey"`
	Signature string `json:"signature"`
}

// ChannelVerifyHandler checks a payment channel claim signature
func ChannelVerifyHandler(w http.ResponseWriter, r *http.Request) {
	var req channelVerifyRequest
	if err := decodeBody(r, &req); err != nil {
		writeResponse(w, nil, err)
		return
	}
	res, err := console.Get().VerifyChannelClaim(req.Network, req.ChannelID, req.Amount, req.PublicKey, req.Signature)
	writeResponse(w, res, err)
}

// SubmitHandler validates and submits one console action
func SubmitHandler(w http.ResponseWriter, r *http.Request) {
	var req console.SubmitRequest
	if err := decodeBody(r, &req); err != nil {
		writeResponse(w, nil, err)
		return
	}
	res, err := console.Get().Submit(r.Context(), &req)
	writeResponse(w, res, err)
}

// FaucetHandler funds an account from the network faucet
func FaucetHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, err := console.Get().FundWallet(queryNetwork(r), vars["address"])
	writeResponse(w, res, err)
}
