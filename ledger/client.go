package ledger

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rubblelabs/ripple/data"
	"github.com/rubblelabs/ripple/websockets"

	"github.com/xrplkit/walletconsole/log"
	"github.com/xrplkit/walletconsole/params"
	"github.com/xrplkit/walletconsole/rpc/client"
)

const (
	dialRetryTimes    = 3
	dialRetryInterval = 1 * time.Second
)

// Client a gateway to one configured network.
// The websocket remote is dialed lazily and reused.
type Client struct {
	network *params.NetworkConfig

	mu     sync.Mutex
	remote *websockets.Remote
}

// NewClient builds a client for the named network ("" selects the default)
func NewClient(networkName string) (*Client, error) {
	network, err := params.GetNetwork(networkName)
	if err != nil {
		return nil, err
	}
	return &Client{network: network}, nil
}

// Network returns the network this client talks to
func (c *Client) Network() *params.NetworkConfig {
	return c.network
}

// Remote returns the websocket connection, dialing it on first use.
// Every configured websocket server is tried in order before waiting
// and retrying the whole list.
func (c *Client) Remote() (*websockets.Remote, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.remote != nil {
		return c.remote, nil
	}
	var dialErr error
	for i := 0; i < dialRetryTimes; i++ {
		for _, endpoint := range c.network.WSServers {
			remote, err := websockets.NewRemote(endpoint)
			if err == nil {
				log.Info("connected to ledger websocket", "network", c.network.Name, "endpoint", endpoint)
				c.remote = remote
				return c.remote, nil
			}
			dialErr = err
			log.Warn("dial ledger websocket failed", "endpoint", endpoint, "err", err)
		}
		time.Sleep(dialRetryInterval)
	}
	return nil, fmt.Errorf("no websocket server of network '%v' is reachable: %w", c.network.Name, dialErr)
}

// Close closes the websocket connection if one was dialed
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.remote != nil {
		c.remote.Close()
		c.remote = nil
	}
}

func (c *Client) rpcCall(result interface{}, method string, rpcParams map[string]interface{}) error {
	return client.RPCPost(result, c.network.RPCServer, method, rpcParams)
}

// GetAccountInfo fetches the account root of an address
func (c *Client) GetAccountInfo(address string) (*AccountInfoResult, error) {
	if address == "" {
		return nil, errors.New("empty account address")
	}
	var result AccountInfoResult
	err := c.rpcCall(&result, "account_info", map[string]interface{}{
		"account":      address,
		"ledger_index": "current",
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAccountObjects fetches the ledger objects owned by an address.
// objectType filters by type when not empty ("check", "escrow", "ticket",
// "signer_list", "did", "mptoken", ...).
func (c *Client) GetAccountObjects(address, objectType string) (*AccountObjectsResult, error) {
	if address == "" {
		return nil, errors.New("empty account address")
	}
	rpcParams := map[string]interface{}{
		"account":      address,
		"ledger_index": "current",
		"limit":        400,
	}
	if objectType != "" {
		rpcParams["type"] = objectType
	}
	var result AccountObjectsResult
	if err := c.rpcCall(&result, "account_objects", rpcParams); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetServerInfo fetches server_info of the network's RPC server
func (c *Client) GetServerInfo() (*ServerInfoResult, error) {
	var result ServerInfoResult
	if err := c.rpcCall(&result, "server_info", nil); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetServerState fetches server_state of the network's RPC server
func (c *Client) GetServerState() (*ServerStateResult, error) {
	var result ServerStateResult
	if err := c.rpcCall(&result, "server_state", nil); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetLedger fetches a ledger header by index ("validated", "current" or
// a decimal sequence)
func (c *Client) GetLedger(ledgerIndex string) (*LedgerResult, error) {
	if ledgerIndex == "" {
		ledgerIndex = "validated"
	}
	var result LedgerResult
	err := c.rpcCall(&result, "ledger", map[string]interface{}{
		"ledger_index": ledgerIndex,
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetFee fetches the current open ledger fee levels
func (c *Client) GetFee() (*FeeResult, error) {
	var result FeeResult
	if err := c.rpcCall(&result, "fee", nil); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAccountTx fetches the most recent transactions of an address
func (c *Client) GetAccountTx(address string, limit int) (*AccountTxResult, error) {
	if limit <= 0 {
		limit = 20
	}
	var result AccountTxResult
	err := c.rpcCall(&result, "account_tx", map[string]interface{}{
		"account":          address,
		"ledger_index_min": -1,
		"ledger_index_max": -1,
		"limit":            limit,
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAccountLines fetches the trust lines of an address
func (c *Client) GetAccountLines(address string) (*AccountLinesResult, error) {
	var result AccountLinesResult
	err := c.rpcCall(&result, "account_lines", map[string]interface{}{
		"account":      address,
		"ledger_index": "current",
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetGatewayBalances fetches issued currency obligations of an issuer
func (c *Client) GetGatewayBalances(address string) (*GatewayBalancesResult, error) {
	var result GatewayBalancesResult
	err := c.rpcCall(&result, "gateway_balances", map[string]interface{}{
		"account":      address,
		"ledger_index": "validated",
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMPTHolders lists the holders of a multi purpose token issuance
func (c *Client) GetMPTHolders(issuanceID string) (*MPTHoldersResult, error) {
	var result MPTHoldersResult
	err := c.rpcCall(&result, "mpt_holders", map[string]interface{}{
		"mpt_issuance_id": issuanceID,
		"ledger_index":    "validated",
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DepositAuthorized checks whether source may send deposits to destination
func (c *Client) DepositAuthorized(source, destination string) (*DepositAuthorizedResult, error) {
	var result DepositAuthorizedResult
	err := c.rpcCall(&result, "deposit_authorized", map[string]interface{}{
		"source_account":      source,
		"destination_account": destination,
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ChannelAuthorize signs a payment channel claim for the given drops amount
func (c *Client) ChannelAuthorize(channelID, amountDrops, secret string) (*ChannelAuthorizeResult, error) {
	var result ChannelAuthorizeResult
	err := c.rpcCall(&result, "channel_authorize", map[string]interface{}{
		"channel_id": channelID,
		"amount":     amountDrops,
		"secret":     secret,
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ChannelVerify checks a payment channel claim signature
func (c *Client) ChannelVerify(channelID, amountDrops, publicKey, signature string) (*ChannelVerifyResult, error) {
	var result ChannelVerifyResult
	err := c.rpcCall(&result, "channel_verify", map[string]interface{}{
		"channel_id": channelID,
		"amount":     amountDrops,
		"public_key": publicKey,
		"signature":  signature,
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetNFTBuyOffers lists the buy offers of a token
func (c *Client) GetNFTBuyOffers(nftokenID string) (*NFTOffersResult, error) {
	var result NFTOffersResult
	err := c.rpcCall(&result, "nft_buy_offers", map[string]interface{}{
		"nft_id": nftokenID,
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetNFTSellOffers lists the sell offers of a token
func (c *Client) GetNFTSellOffers(nftokenID string) (*NFTOffersResult, error) {
	var result NFTOffersResult
	err := c.rpcCall(&result, "nft_sell_offers", map[string]interface{}{
		"nft_id": nftokenID,
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTransaction looks a transaction up by hash over the websocket remote
func (c *Client) GetTransaction(hash string) (*websockets.TxResult, error) {
	txHash, err := data.NewHash256(hash)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction hash '%v': %w", hash, err)
	}
	remote, err := c.Remote()
	if err != nil {
		return nil, err
	}
	return remote.Tx(*txHash)
}

// SignRemote asks the RPC server to sign a transaction given as JSON.
// Used for transaction types the local codec cannot serialize.
func (c *Client) SignRemote(txJSON map[string]interface{}, secret string) (*SignResult, error) {
	var result SignResult
	err := c.rpcCall(&result, "sign", map[string]interface{}{
		"tx_json": txJSON,
		"secret":  secret,
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SignForRemote collects one multi signature for a transaction given as JSON
func (c *Client) SignForRemote(signerAddress string, txJSON map[string]interface{}, secret string) (*SignResult, error) {
	var result SignResult
	err := c.rpcCall(&result, "sign_for", map[string]interface{}{
		"account": signerAddress,
		"tx_json": txJSON,
		"secret":  secret,
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SubmitBlob submits a signed transaction blob
func (c *Client) SubmitBlob(txBlob string) (*SubmitResult, error) {
	var result SubmitResult
	err := c.rpcCall(&result, "submit", map[string]interface{}{
		"tx_blob": txBlob,
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SubmitMultisigned submits a transaction carrying a Signers array
func (c *Client) SubmitMultisigned(txJSON map[string]interface{}) (*SubmitResult, error) {
	var result SubmitResult
	err := c.rpcCall(&result, "submit_multisigned", map[string]interface{}{
		"tx_json": txJSON,
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Simulate dry runs an unsigned transaction against the open ledger
func (c *Client) Simulate(txJSON map[string]interface{}) (*SubmitResult, error) {
	var result SubmitResult
	err := c.rpcCall(&result, "simulate", map[string]interface{}{
		"tx_json": txJSON,
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
