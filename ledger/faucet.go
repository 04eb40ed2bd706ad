package ledger

import (
	"errors"
	"fmt"

	"github.com/xrplkit/walletconsole/log"
	"github.com/xrplkit/walletconsole/rpc/client"
)

// FaucetResult the account a test faucet funded
type FaucetResult struct {
	Account struct {
		Address string `json:"address"`
		Seed    string `json:"secret"`
	} `json:"account"`
	Amount float64 `json:"amount"`
}

// FundWallet asks the network's faucet to fund an address.
// An empty address lets the faucet generate a fresh account.
// Mainnet has no faucet, the call fails there by configuration.
func (c *Client) FundWallet(address string) (*FaucetResult, error) {
	if c.network.FaucetURL == "" {
		return nil, fmt.Errorf("network '%v' has no faucet", c.network.Name)
	}
	if address != "" && !IsValidAddress(address) {
		return nil, fmt.Errorf("invalid address '%v'", address)
	}
	var body interface{}
	if address != "" {
		body = map[string]string{"destination": address}
	}
	var result FaucetResult
	if err := client.HTTPPostJSON(&result, c.network.FaucetURL, body); err != nil {
		return nil, err
	}
	if result.Account.Address == "" {
		return nil, errors.New("faucet returned no account")
	}
	log.Info("faucet funded account", "network", c.network.Name, "address", result.Account.Address, "amount", result.Amount)
	return &result, nil
}
