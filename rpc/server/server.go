// Package server starts the console's HTTP API.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v6"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/xrplkit/walletconsole/log"
	"github.com/xrplkit/walletconsole/params"
	"github.com/xrplkit/walletconsole/rpc/restapi"
)

// StartAPIServer start api server
func StartAPIServer() {
	router := initRouter()

	apiPort := params.GetAPIPort()
	var allowedOrigins []string
	var maxRequestsPerSecond float64
	if apiServer := params.GetConfig().APIServer; apiServer != nil {
		allowedOrigins = apiServer.AllowedOrigins
		maxRequestsPerSecond = apiServer.MaxRequestsPerSecond
	}

	corsOptions := []handlers.CORSOption{
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE"}),
	}
	if len(allowedOrigins) != 0 {
		corsOptions = append(corsOptions,
			handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type"}),
			handlers.AllowedOrigins(allowedOrigins),
		)
	}

	var handler http.Handler = handlers.CORS(corsOptions...)(router)
	if maxRequestsPerSecond > 0 {
		limiter := tollbooth.NewLimiter(maxRequestsPerSecond, nil)
		limiter.SetIPLookups([]string{"RemoteAddr", "X-Forwarded-For", "X-Real-IP"})
		handler = tollbooth.LimitHandler(limiter, handler)
	}

	log.Info("console API listen and serving", "port", apiPort, "allowedOrigins", allowedOrigins)
	svr := http.Server{
		Addr:         fmt.Sprintf(":%v", apiPort),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		Handler:      handler,
	}
	go func() {
		if err := svr.ListenAndServe(); err != nil {
			log.Error("ListenAndServe error", "err", err)
		}
	}()
}

func initRouter() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/status", restapi.StatusHandler).Methods("GET")
	r.HandleFunc("/submit", restapi.SubmitHandler).Methods("POST")
	r.HandleFunc("/faucet", restapi.FaucetHandler).Methods("POST")
	r.HandleFunc("/faucet/{address}", restapi.FaucetHandler).Methods("POST")

	r.HandleFunc("/account/{address}", restapi.AccountSummaryHandler).Methods("GET")
	r.HandleFunc("/account/{address}/objects/{type}", restapi.AccountObjectsHandler).Methods("GET")
	r.HandleFunc("/account/{address}/transactions", restapi.AccountTransactionsHandler).Methods("GET")
	r.HandleFunc("/account/{address}/trustlines", restapi.TrustLinesHandler).Methods("GET")
	r.HandleFunc("/account/{address}/gatewaybalances", restapi.GatewayBalancesHandler).Methods("GET")
	r.HandleFunc("/mpt/{issuanceid}/holders", restapi.MPTHoldersHandler).Methods("GET")
	r.HandleFunc("/depositauthorized/{source}/{destination}", restapi.DepositAuthorizedHandler).Methods("GET")
	r.HandleFunc("/nft/{nftid}/offers/{side}", restapi.NFTOffersHandler).Methods("GET")
	r.HandleFunc("/channel/authorize", restapi.ChannelAuthorizeHandler).Methods("POST")
	r.HandleFunc("/channel/verify", restapi.ChannelVerifyHandler).Methods("POST")

	r.HandleFunc("/wallet/accounts", restapi.ListAccountsHandler).Methods("GET")
	r.HandleFunc("/wallet/accounts", restapi.SaveAccountHandler).Methods("POST")
	r.HandleFunc("/wallet/accounts/{address}", restapi.GetAccountHandler).Methods("GET")
	r.HandleFunc("/wallet/accounts/{address}", restapi.DeleteAccountHandler).Methods("DELETE")
	r.HandleFunc("/wallet/accounts/{address}/signers", restapi.GetSignerConfigHandler).Methods("GET")
	r.HandleFunc("/wallet/accounts/{address}/signers", restapi.SetSignerConfigHandler).Methods("POST")
	r.HandleFunc("/wallet/issuers", restapi.ListIssuersHandler).Methods("GET")
	r.HandleFunc("/wallet/issuers", restapi.AddIssuerHandler).Methods("POST")
	r.HandleFunc("/wallet/issuers/{currency}/{address}", restapi.RemoveIssuerHandler).Methods("DELETE")
	r.HandleFunc("/wallet/destinations", restapi.ListDestinationsHandler).Methods("GET")
	r.HandleFunc("/wallet/destinations", restapi.AddDestinationHandler).Methods("POST")
	r.HandleFunc("/wallet/destinations/{address}", restapi.RemoveDestinationHandler).Methods("DELETE")
	r.HandleFunc("/wallet/network", restapi.SelectNetworkHandler).Methods("POST")

	r.HandleFunc("/ws", LedgerStreamHandler).Methods("GET")

	return r
}
