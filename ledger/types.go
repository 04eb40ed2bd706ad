// Package ledger talks to rippled servers of a configured network.
// Reads and subscriptions go over websockets, commands that need the
// JSON-RPC surface (sign, submit, simulate, newer object queries) go
// over the network's RPC server.
package ledger

import (
	"encoding/json"
	"strconv"
)

// AccountData mirrors the account_data member of an account_info result.
// Field names follow the rippled wire format.
type AccountData struct {
	Account      string `json:"Account"`
	Balance      string `json:"Balance"`
	Flags        uint32 `json:"Flags"`
	OwnerCount   uint32 `json:"OwnerCount"`
	Sequence     uint32 `json:"Sequence"`
	RegularKey   string `json:"RegularKey,omitempty"`
	Domain       string `json:"Domain,omitempty"`
	EmailHash    string `json:"EmailHash,omitempty"`
	MessageKey   string `json:"MessageKey,omitempty"`
	TransferRate uint32 `json:"TransferRate,omitempty"`
	TickSize     uint8  `json:"TickSize,omitempty"`
	TicketCount  uint32 `json:"TicketCount,omitempty"`
}

// BalanceDrops parses the XRP balance in drops
func (a *AccountData) BalanceDrops() int64 {
	drops, err := strconv.ParseInt(a.Balance, 10, 64)
	if err != nil {
		return 0
	}
	return drops
}

// AccountInfoResult account_info command result
type AccountInfoResult struct {
	AccountData        AccountData `json:"account_data"`
	LedgerCurrentIndex uint32      `json:"ledger_current_index,omitempty"`
	LedgerIndex        uint32      `json:"ledger_index,omitempty"`
	Validated          bool        `json:"validated,omitempty"`
}

// AccountObject a single ledger object owned by an account.
// Objects are kept as raw maps, the console passes most of them through.
type AccountObject map[string]interface{}

// LedgerEntryType returns the object's LedgerEntryType member
func (o AccountObject) LedgerEntryType() string {
	t, _ := o["LedgerEntryType"].(string)
	return t
}

// TicketSequence returns the sequence of a Ticket object, 0 otherwise
func (o AccountObject) TicketSequence() uint32 {
	seq, ok := o["TicketSequence"].(float64)
	if !ok {
		return 0
	}
	return uint32(seq)
}

// AccountObjectsResult account_objects command result
type AccountObjectsResult struct {
	Account            string          `json:"account"`
	AccountObjects     []AccountObject `json:"account_objects"`
	LedgerCurrentIndex uint32          `json:"ledger_current_index,omitempty"`
	Validated          bool            `json:"validated,omitempty"`
}

// ValidatedLedgerInfo the validated_ledger member of server_info
type ValidatedLedgerInfo struct {
	Seq            uint32  `json:"seq"`
	Hash           string  `json:"hash"`
	BaseFeeXRP     float64 `json:"base_fee_xrp"`
	ReserveBaseXRP float64 `json:"reserve_base_xrp"`
	ReserveIncXRP  float64 `json:"reserve_inc_xrp"`
	Age            int     `json:"age"`
}

// ServerInfo the info member of server_info
type ServerInfo struct {
	BuildVersion    string               `json:"build_version"`
	CompleteLedgers string               `json:"complete_ledgers"`
	NetworkID       uint32               `json:"network_id,omitempty"`
	ServerState     string               `json:"server_state"`
	LoadFactor      float64              `json:"load_factor"`
	Peers           int                  `json:"peers,omitempty"`
	Uptime          int64                `json:"uptime,omitempty"`
	ValidatedLedger *ValidatedLedgerInfo `json:"validated_ledger,omitempty"`
}

// ServerInfoResult server_info command result
type ServerInfoResult struct {
	Info ServerInfo `json:"info"`
}

// ServerStateResult server_state command result
type ServerStateResult struct {
	State map[string]interface{} `json:"state"`
}

// LedgerResult ledger command result
type LedgerResult struct {
	Ledger      map[string]interface{} `json:"ledger"`
	LedgerHash  string                 `json:"ledger_hash,omitempty"`
	LedgerIndex uint32                 `json:"ledger_index,omitempty"`
	Validated   bool                   `json:"validated,omitempty"`
}

// FeeDrops the drops member of the fee command result
type FeeDrops struct {
	BaseFee       string `json:"base_fee"`
	MedianFee     string `json:"median_fee"`
	MinimumFee    string `json:"minimum_fee"`
	OpenLedgerFee string `json:"open_ledger_fee"`
}

// FeeResult fee command result
type FeeResult struct {
	CurrentLedgerSize  string   `json:"current_ledger_size"`
	CurrentQueueSize   string   `json:"current_queue_size"`
	Drops              FeeDrops `json:"drops"`
	ExpectedLedgerSize string   `json:"expected_ledger_size"`
	LedgerCurrentIndex uint32   `json:"ledger_current_index"`
	LoadFactor         float64  `json:"load_factor"`
	MaxQueueSize       string   `json:"max_queue_size"`
}

// OpenLedgerFeeDrops parses the open ledger fee in drops
func (f *FeeResult) OpenLedgerFeeDrops() int64 {
	drops, err := strconv.ParseInt(f.Drops.OpenLedgerFee, 10, 64)
	if err != nil {
		return 0
	}
	return drops
}

// AccountTxResult account_tx command result
type AccountTxResult struct {
	Account        string                   `json:"account"`
	LedgerIndexMin int64                    `json:"ledger_index_min"`
	LedgerIndexMax int64                    `json:"ledger_index_max"`
	Limit          int                      `json:"limit"`
	Marker         json.RawMessage          `json:"marker,omitempty"`
	Transactions   []map[string]interface{} `json:"transactions"`
}

// AccountLinesResult account_lines command result
type AccountLinesResult struct {
	Account string      `json:"account"`
	Lines   []TrustLine `json:"lines"`
}

// TrustLine a single line of an account_lines result
type TrustLine struct {
	Account      string `json:"account"`
	Balance      string `json:"balance"`
	Currency     string `json:"currency"`
	Limit        string `json:"limit"`
	LimitPeer    string `json:"limit_peer"`
	QualityIn    uint32 `json:"quality_in"`
	QualityOut   uint32 `json:"quality_out"`
	NoRipple     bool   `json:"no_ripple,omitempty"`
	NoRipplePeer bool   `json:"no_ripple_peer,omitempty"`
	Freeze       bool   `json:"freeze,omitempty"`
}

// GatewayBalancesResult gateway_balances command result
type GatewayBalancesResult struct {
	Account     string                              `json:"account"`
	Obligations map[string]string                   `json:"obligations,omitempty"`
	Balances    map[string][]map[string]interface{} `json:"balances,omitempty"`
	Assets      map[string][]map[string]interface{} `json:"assets,omitempty"`
}

// MPTHoldersResult mpt_holders command result
type MPTHoldersResult struct {
	MPTIssuanceID string                   `json:"mpt_issuance_id"`
	Holders       []map[string]interface{} `json:"mptokens"`
	Marker        json.RawMessage          `json:"marker,omitempty"`
}

// DepositAuthorizedResult deposit_authorized command result
type DepositAuthorizedResult struct {
	DepositAuthorized  bool   `json:"deposit_authorized"`
	DestinationAccount string `json:"destination_account"`
	SourceAccount      string `json:"source_account"`
}

// ChannelAuthorizeResult channel_authorize command result
type ChannelAuthorizeResult struct {
	Signature string `json:"signature"`
}

// ChannelVerifyResult channel_verify command result
type ChannelVerifyResult struct {
	SignatureVerified bool `json:"signature_verified"`
}

// NFTOffersResult nft_buy_offers and nft_sell_offers command result
type NFTOffersResult struct {
	NFTokenID string                   `json:"nft_id"`
	Offers    []map[string]interface{} `json:"offers"`
	Marker    json.RawMessage          `json:"marker,omitempty"`
}

// SignResult sign and sign_for command result
type SignResult struct {
	TxBlob string                 `json:"tx_blob"`
	TxJSON map[string]interface{} `json:"tx_json"`
}

// SubmitResult submit, submit_multisigned and simulate command result.
// ErrorMessage is never set by rippled, the executor fills it with a
// human readable reason when a transaction fails.
type SubmitResult struct {
	EngineResult        string                 `json:"engine_result,omitempty"`
	EngineResultCode    int                    `json:"engine_result_code,omitempty"`
	EngineResultMessage string                 `json:"engine_result_message,omitempty"`
	Accepted            bool                   `json:"accepted,omitempty"`
	Applied             bool                   `json:"applied,omitempty"`
	Broadcast           bool                   `json:"broadcast,omitempty"`
	Kept                bool                   `json:"kept,omitempty"`
	Queued              bool                   `json:"queued,omitempty"`
	TxBlob              string                 `json:"tx_blob,omitempty"`
	TxJSON              map[string]interface{} `json:"tx_json,omitempty"`
	Hash                string                 `json:"hash,omitempty"`
	Meta                map[string]interface{} `json:"meta,omitempty"`

	ErrorMessage string `json:"errorMessage,omitempty"`
}

// TxHash returns the transaction hash wherever the server put it,
// "unknown" when no hash is present.
func (r *SubmitResult) TxHash() string {
	if r.Hash != "" {
		return r.Hash
	}
	if r.TxJSON != nil {
		if hash, ok := r.TxJSON["hash"].(string); ok && hash != "" {
			return hash
		}
	}
	return "unknown"
}
