// Package console ties the cache, validation, executor and wallet
// store together behind the API the REST handlers call.
package console

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/xrplkit/walletconsole/alert"
	"github.com/xrplkit/walletconsole/cache"
	"github.com/xrplkit/walletconsole/executor"
	"github.com/xrplkit/walletconsole/ledger"
	"github.com/xrplkit/walletconsole/log"
	"github.com/xrplkit/walletconsole/params"
	"github.com/xrplkit/walletconsole/validation"
	"github.com/xrplkit/walletconsole/wallet"
)

// Console the assembled console service
type Console struct {
	State     *cache.State
	Store     *wallet.Store
	Validator *validation.Validator
	Executor  *executor.Executor
	UI        *UIState
}

var (
	instance *Console
	initOnce sync.Once
)

// Init assembles the console service (only once)
func Init() *Console {
	initOnce.Do(func() {
		store, err := wallet.OpenStore(params.GetDataDir())
		if err != nil {
			log.Fatalf("open console store error: %v", err)
		}
		state := cache.NewState()
		ui := NewUIState()
		var alerts executor.AlertSink
		if mailer := alert.NewMailer(); mailer != nil {
			alerts = mailer
		}
		instance = &Console{
			State:     state,
			Store:     store,
			Validator: validation.New(state),
			Executor:  executor.New(state, ui, alerts, executor.NewGatewayFactory(state)),
			UI:        ui,
		}
		log.Info("console service initialized", "identifier", params.GetIdentifier())
	})
	return instance
}

// Get returns the initialized console service
func Get() *Console {
	if instance == nil {
		log.Fatal("console service is not initialized")
	}
	return instance
}

// Close releases clients and the local store
func (c *Console) Close() {
	c.State.Close()
	if err := c.Store.Close(); err != nil {
		log.Warn("close console store failed", "err", err)
	}
}

// Status the health snapshot served to the front end
type Status struct {
	Identifier    string                 `json:"identifier"`
	Network       string                 `json:"network"`
	Busy          bool                   `json:"busy"`
	Fee           *ledger.FeeResult      `json:"fee,omitempty"`
	ServerInfo    *ledger.ServerInfo     `json:"serverInfo,omitempty"`
	RecentNotices []Notice               `json:"recentNotices,omitempty"`
	LastPreview   map[string]interface{} `json:"lastPreview,omitempty"`
}

// GetStatus reports the selected network's health and the busy flag
func (c *Console) GetStatus(network string) (*Status, error) {
	if network == "" {
		network = c.Store.SelectedNetwork()
	}
	status := &Status{
		Identifier:    params.GetIdentifier(),
		Network:       network,
		Busy:          c.UI.Busy(),
		RecentNotices: c.UI.Notices(),
		LastPreview:   c.UI.LastPreview(),
	}
	fee, serverInfo, err := c.State.GetFeeAndServerInfo(network, false)
	if err != nil {
		return status, err
	}
	status.Fee = fee
	status.ServerInfo = &serverInfo.Info
	return status, nil
}

// AccountSummary account root plus owned objects
type AccountSummary struct {
	AccountData *ledger.AccountData    `json:"accountData"`
	BalanceXRP  string                 `json:"balanceXRP"`
	Objects     []ledger.AccountObject `json:"objects,omitempty"`
}

// GetAccountSummary fetches account state through the cache
func (c *Console) GetAccountSummary(network, address string, refresh bool) (*AccountSummary, error) {
	if !ledger.IsValidAddress(address) {
		return nil, fmt.Errorf("invalid address '%v'", address)
	}
	accountData, err := c.State.GetAccountData(network, address, refresh)
	if err != nil {
		return nil, err
	}
	objects, err := c.State.GetAccountObjects(network, address, "", refresh)
	if err != nil {
		return nil, err
	}
	return &AccountSummary{
		AccountData: accountData,
		BalanceXRP:  ledger.DropsToXRP(accountData.BalanceDrops()),
		Objects:     objects.AccountObjects,
	}, nil
}

// GetAccountObjects fetches one object type of an account
func (c *Console) GetAccountObjects(network, address, objectType string, refresh bool) (*ledger.AccountObjectsResult, error) {
	if !ledger.IsValidAddress(address) {
		return nil, fmt.Errorf("invalid address '%v'", address)
	}
	return c.State.GetAccountObjects(network, address, objectType, refresh)
}

// GetAccountTransactions lists recent transactions of an account
func (c *Console) GetAccountTransactions(network, address string, limit int) (*ledger.AccountTxResult, error) {
	client, err := c.State.Client(network)
	if err != nil {
		return nil, err
	}
	return client.GetAccountTx(address, limit)
}

// GetTrustLines lists the trust lines of an account
func (c *Console) GetTrustLines(network, address string) (*ledger.AccountLinesResult, error) {
	client, err := c.State.Client(network)
	if err != nil {
		return nil, err
	}
	return client.GetAccountLines(address)
}

// GetGatewayBalances lists the obligations of an issuer
func (c *Console) GetGatewayBalances(network, address string) (*ledger.GatewayBalancesResult, error) {
	client, err := c.State.Client(network)
	if err != nil {
		return nil, err
	}
	return client.GetGatewayBalances(address)
}

// GetMPTHolders lists the holders of a token issuance
func (c *Console) GetMPTHolders(network, issuanceID string) (*ledger.MPTHoldersResult, error) {
	client, err := c.State.Client(network)
	if err != nil {
		return nil, err
	}
	return client.GetMPTHolders(issuanceID)
}

// DepositAuthorized checks whether a source account may deposit to a
// destination under its deposit authorization settings
func (c *Console) DepositAuthorized(network, source, destination string) (*ledger.DepositAuthorizedResult, error) {
	client, err := c.State.Client(network)
	if err != nil {
		return nil, err
	}
	return client.DepositAuthorized(source, destination)
}

// GetNFTOffers lists the buy or sell offers of a token
func (c *Console) GetNFTOffers(network, nftokenID, side string) (*ledger.NFTOffersResult, error) {
	client, err := c.State.Client(network)
	if err != nil {
		return nil, err
	}
	switch side {
	case "buy":
		return client.GetNFTBuyOffers(nftokenID)
	case "sell":
		return client.GetNFTSellOffers(nftokenID)
	}
	return nil, fmt.Errorf("unknown offer side '%v'", side)
}

// AuthorizeChannelClaim signs a payment channel claim off ledger.
// The seed may be given directly or unlocked from the stored account.
func (c *Console) AuthorizeChannelClaim(network, channelID, amountDrops, seed, account, password string) (*ledger.ChannelAuthorizeResult, error) {
	if seed == "" {
		if account == "" || password == "" {
			return nil, fmt.Errorf("channel authorization needs a seed or a stored account and password")
		}
		unlocked, err := c.Store.UnlockSeed(account, password)
		if err != nil {
			return nil, err
		}
		seed = unlocked
	}
	client, err := c.State.Client(network)
	if err != nil {
		return nil, err
	}
	return client.ChannelAuthorize(channelID, amountDrops, seed)
}

// VerifyChannelClaim checks a payment channel claim signature
func (c *Console) VerifyChannelClaim(network, channelID, amountDrops, publicKey, signature string) (*ledger.ChannelVerifyResult, error) {
	client, err := c.State.Client(network)
	if err != nil {
		return nil, err
	}
	return client.ChannelVerify(channelID, amountDrops, publicKey, signature)
}

// FundWallet asks the network faucet for funds
func (c *Console) FundWallet(network, address string) (*ledger.FaucetResult, error) {
	client, err := c.State.Client(network)
	if err != nil {
		return nil, err
	}
	result, err := client.FundWallet(address)
	if err != nil {
		return nil, err
	}
	if address != "" {
		c.State.InvalidateAccount(client.Network().Name, address)
	}
	return result, nil
}

// Submit validates, builds, signs and submits one console action.
// Validation findings are returned as a failed result, not an error.
func (c *Console) Submit(ctx context.Context, req *SubmitRequest) (*SubmitResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("empty submit request")
	}
	network := req.Network
	if network == "" {
		network = c.Store.SelectedNetwork()
	}

	signing, resolveErr := c.resolveSigning(req)

	inputs := &validation.Inputs{
		Action:          req.Action,
		Network:         network,
		Account:         req.Account,
		Fields:          req.Fields,
		UseMultiSign:    req.UseMultiSign,
		SignerAddresses: req.SignerAddresses,
		SignerSeeds:     req.SignerSeeds,
		SignerQuorum:    req.SignerQuorum,
		SignerEntries:   req.SignerEntries,
		UseRegularKey:   req.UseRegularKey,
	}
	if signing != nil && req.UseRegularKey {
		inputs.RegularKeySeed = signing.Seed
	}
	if req.TicketSequence != 0 {
		if inputs.Fields == nil {
			inputs.Fields = make(map[string]string)
		}
		inputs.Fields["TicketSequence"] = strconv.FormatUint(uint64(req.TicketSequence), 10)
	}
	if errs := c.Validator.Validate(ctx, inputs); len(errs) > 0 {
		return &SubmitResponse{ValidationErrors: errs}, nil
	}
	if resolveErr != nil {
		return nil, resolveErr
	}

	tx, err := c.buildTx(req)
	if err != nil {
		return nil, err
	}

	result := c.Executor.Execute(ctx, &executor.Options{
		Network:                network,
		Account:                req.Account,
		Tx:                     tx,
		Signing:                signing,
		Simulate:               req.Simulate,
		SimulateMessage:        req.SimulateMessage,
		SubmitMessage:          req.SubmitMessage,
		InsufficientXRPMessage: req.InsufficientXRPMessage,
		Memo:                   req.Memo,
		TicketSequence:         req.TicketSequence,
	})
	return &SubmitResponse{Result: result}, nil
}
