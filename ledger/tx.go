package ledger

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/rubblelabs/ripple/data"
)

// Transaction type names as they appear on the wire
const (
	TxPayment            = "Payment"
	TxTrustSet           = "TrustSet"
	TxCheckCreate        = "CheckCreate"
	TxCheckCash          = "CheckCash"
	TxCheckCancel        = "CheckCancel"
	TxEscrowCreate       = "EscrowCreate"
	TxEscrowFinish       = "EscrowFinish"
	TxEscrowCancel       = "EscrowCancel"
	TxAccountSet         = "AccountSet"
	TxSetRegularKey      = "SetRegularKey"
	TxSignerListSet      = "SignerListSet"
	TxTicketCreate       = "TicketCreate"
	TxDIDSet             = "DIDSet"
	TxDIDDelete          = "DIDDelete"
	TxMPTIssuanceCreate  = "MPTokenIssuanceCreate"
	TxMPTIssuanceSet     = "MPTokenIssuanceSet"
	TxMPTIssuanceDestroy = "MPTokenIssuanceDestroy"
	TxMPTAuthorize       = "MPTokenAuthorize"
	TxClawback           = "Clawback"
)

// AccountSet asf flag values
const (
	AsfRequireDest   uint32 = 1
	AsfRequireAuth   uint32 = 2
	AsfDisallowXRP   uint32 = 3
	AsfDisableMaster uint32 = 4
	AsfAccountTxnID  uint32 = 5
	AsfNoFreeze      uint32 = 6
	AsfGlobalFreeze  uint32 = 7
	AsfDefaultRipple uint32 = 8
	AsfDepositAuth   uint32 = 9
)

// TrustSet tf flag bits
const (
	TfSetNoRipple   uint32 = 0x00020000
	TfClearNoRipple uint32 = 0x00040000
	TfSetFreeze     uint32 = 0x00100000
	TfClearFreeze   uint32 = 0x00200000
)

// Tx a transaction under construction.
// JSON always carries the full wire form. Native is set for the types
// the local binary codec can serialize and sign, nil for the types
// that must be signed by the server's sign command.
// Destructive marks operations that can lock an account out, the
// executor raises an alert before submitting those.
type Tx struct {
	Type        string
	Account     string
	JSON        map[string]interface{}
	Native      data.Transaction
	Destructive bool
}

func newTx(txType, account string) (*Tx, error) {
	if !IsValidAddress(account) {
		return nil, fmt.Errorf("invalid account address '%v'", account)
	}
	return &Tx{
		Type:    txType,
		Account: account,
		JSON: map[string]interface{}{
			"TransactionType": txType,
			"Account":         account,
		},
	}, nil
}

func (t *Tx) setNativeBase() error {
	account, err := data.NewAccountFromAddress(t.Account)
	if err != nil {
		return err
	}
	t.Native.GetBase().Account = *account
	return nil
}

// NativeSupported reports whether the transaction can be signed locally
func (t *Tx) NativeSupported() bool {
	return t.Native != nil
}

// CommonFields sequencing and fee fields resolved right before signing.
// A nonzero TicketSequence replaces Sequence, which then must be zero
// on the wire.
type CommonFields struct {
	Sequence           uint32
	TicketSequence     uint32
	FeeDrops           int64
	LastLedgerSequence uint32
	Memo               string
}

// ApplyCommon stamps sequencing, fee, expiry and memo onto the
// transaction. Using a ticket drops the native form since the local
// codec cannot serialize TicketSequence.
func (t *Tx) ApplyCommon(fields CommonFields) error {
	if fields.TicketSequence != 0 {
		t.JSON["Sequence"] = uint32(0)
		t.JSON["TicketSequence"] = fields.TicketSequence
		t.Native = nil
	} else {
		t.JSON["Sequence"] = fields.Sequence
	}
	t.JSON["Fee"] = strconv.FormatInt(fields.FeeDrops, 10)
	if fields.LastLedgerSequence != 0 {
		t.JSON["LastLedgerSequence"] = fields.LastLedgerSequence
	}
	if fields.Memo != "" {
		t.JSON["Memos"] = []map[string]interface{}{
			{"Memo": map[string]interface{}{
				"MemoData": hexUpper([]byte(fields.Memo)),
			}},
		}
	}

	if t.Native == nil {
		return nil
	}
	base := t.Native.GetBase()
	base.Sequence = fields.Sequence
	fee, err := data.NewValue(strconv.FormatInt(fields.FeeDrops, 10), true)
	if err != nil {
		return fmt.Errorf("invalid fee value: %w", err)
	}
	base.Fee = *fee
	if fields.LastLedgerSequence != 0 {
		lls := fields.LastLedgerSequence
		base.LastLedgerSequence = &lls
	}
	if fields.Memo != "" {
		var memo data.Memo
		memo.Memo.MemoData = data.VariableLength(fields.Memo)
		base.Memos = append(base.Memos, memo)
	}
	return nil
}

// setFlags merges transaction flag bits into both forms
func (t *Tx) setFlags(flags uint32) {
	if flags == 0 {
		return
	}
	t.JSON["Flags"] = flags
	if t.Native != nil {
		f := data.TransactionFlag(flags)
		t.Native.GetBase().Flags = &f
	}
}

func hexUpper(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

func parseHash256(s, what string) (*data.Hash256, error) {
	h, err := data.NewHash256(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %v '%v': %w", what, s, err)
	}
	return h, nil
}

func mustHexString(s string) (string, error) {
	if _, err := hex.DecodeString(s); err != nil {
		return "", fmt.Errorf("'%v' is not valid hex: %w", s, err)
	}
	return s, nil
}
