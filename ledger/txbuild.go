package ledger

import (
	"errors"
	"fmt"

	"github.com/rubblelabs/ripple/data"
)

// PaymentArgs arguments for building a Payment
type PaymentArgs struct {
	Destination    string
	Amount         AmountArg
	DestinationTag *uint32
	InvoiceID      string
	SendMax        *AmountArg
	DeliverMin     *AmountArg
}

// NewPayment builds a Payment transaction
func NewPayment(account string, args PaymentArgs) (*Tx, error) {
	tx, err := newTx(TxPayment, account)
	if err != nil {
		return nil, err
	}
	if !IsValidAddress(args.Destination) {
		return nil, fmt.Errorf("invalid destination address '%v'", args.Destination)
	}
	amountWire, err := args.Amount.ToWire()
	if err != nil {
		return nil, err
	}
	tx.JSON["Destination"] = args.Destination
	tx.JSON["Amount"] = amountWire
	if args.DestinationTag != nil {
		tx.JSON["DestinationTag"] = *args.DestinationTag
	}
	if args.InvoiceID != "" {
		if _, err := parseHash256(args.InvoiceID, "invoice id"); err != nil {
			return nil, err
		}
		tx.JSON["InvoiceID"] = args.InvoiceID
	}
	if args.SendMax != nil {
		wire, err := args.SendMax.ToWire()
		if err != nil {
			return nil, err
		}
		tx.JSON["SendMax"] = wire
	}
	if args.DeliverMin != nil {
		wire, err := args.DeliverMin.ToWire()
		if err != nil {
			return nil, err
		}
		tx.JSON["DeliverMin"] = wire
	}

	payment := &data.Payment{}
	payment.TransactionType = data.PAYMENT
	destination, err := data.NewAccountFromAddress(args.Destination)
	if err != nil {
		return nil, err
	}
	payment.Destination = *destination
	amount, err := args.Amount.ToNative()
	if err != nil {
		return nil, err
	}
	payment.Amount = *amount
	payment.DestinationTag = args.DestinationTag
	if args.InvoiceID != "" {
		invoiceID, _ := parseHash256(args.InvoiceID, "invoice id")
		payment.InvoiceID = invoiceID
	}
	if args.SendMax != nil {
		sendMax, err := args.SendMax.ToNative()
		if err != nil {
			return nil, err
		}
		payment.SendMax = sendMax
	}
	if args.DeliverMin != nil {
		deliverMin, err := args.DeliverMin.ToNative()
		if err != nil {
			return nil, err
		}
		payment.DeliverMin = deliverMin
	}
	tx.Native = payment
	return tx, tx.setNativeBase()
}

// TrustSetArgs arguments for creating, changing or removing a trust line.
// A zero limit value removes the line.
type TrustSetArgs struct {
	Limit      AmountArg
	QualityIn  uint32
	QualityOut uint32
	NoRipple   *bool
	Freeze     *bool
}

// NewTrustSet builds a TrustSet transaction
func NewTrustSet(account string, args TrustSetArgs) (*Tx, error) {
	tx, err := newTx(TxTrustSet, account)
	if err != nil {
		return nil, err
	}
	if args.Limit.IsNative() {
		return nil, errors.New("trust lines cannot be set for XRP")
	}
	limitWire, err := args.Limit.ToWire()
	if err != nil {
		return nil, err
	}
	tx.JSON["LimitAmount"] = limitWire
	if args.QualityIn != 0 {
		tx.JSON["QualityIn"] = args.QualityIn
	}
	if args.QualityOut != 0 {
		tx.JSON["QualityOut"] = args.QualityOut
	}

	trustSet := &data.TrustSet{}
	trustSet.TransactionType = data.TRUST_SET
	limit, err := args.Limit.ToNative()
	if err != nil {
		return nil, err
	}
	trustSet.LimitAmount = *limit
	if args.QualityIn != 0 {
		qualityIn := args.QualityIn
		trustSet.QualityIn = &qualityIn
	}
	if args.QualityOut != 0 {
		qualityOut := args.QualityOut
		trustSet.QualityOut = &qualityOut
	}
	tx.Native = trustSet
	if err := tx.setNativeBase(); err != nil {
		return nil, err
	}

	var flags uint32
	if args.NoRipple != nil {
		if *args.NoRipple {
			flags |= TfSetNoRipple
		} else {
			flags |= TfClearNoRipple
		}
	}
	if args.Freeze != nil {
		if *args.Freeze {
			flags |= TfSetFreeze
		} else {
			flags |= TfClearFreeze
		}
	}
	tx.setFlags(flags)
	return tx, nil
}

// CheckCreateArgs arguments for writing a check
type CheckCreateArgs struct {
	Destination    string
	SendMax        AmountArg
	DestinationTag *uint32
	Expiration     uint32
	InvoiceID      string
}

// NewCheckCreate builds a CheckCreate transaction
func NewCheckCreate(account string, args CheckCreateArgs) (*Tx, error) {
	tx, err := newTx(TxCheckCreate, account)
	if err != nil {
		return nil, err
	}
	if !IsValidAddress(args.Destination) {
		return nil, fmt.Errorf("invalid destination address '%v'", args.Destination)
	}
	sendMaxWire, err := args.SendMax.ToWire()
	if err != nil {
		return nil, err
	}
	tx.JSON["Destination"] = args.Destination
	tx.JSON["SendMax"] = sendMaxWire
	if args.DestinationTag != nil {
		tx.JSON["DestinationTag"] = *args.DestinationTag
	}
	if args.Expiration != 0 {
		tx.JSON["Expiration"] = args.Expiration
	}
	if args.InvoiceID != "" {
		if _, err := parseHash256(args.InvoiceID, "invoice id"); err != nil {
			return nil, err
		}
		tx.JSON["InvoiceID"] = args.InvoiceID
	}

	check := &data.CheckCreate{}
	check.TransactionType = data.CHECK_CREATE
	destination, err := data.NewAccountFromAddress(args.Destination)
	if err != nil {
		return nil, err
	}
	check.Destination = *destination
	sendMax, err := args.SendMax.ToNative()
	if err != nil {
		return nil, err
	}
	check.SendMax = *sendMax
	check.DestinationTag = args.DestinationTag
	if args.Expiration != 0 {
		expiration := args.Expiration
		check.Expiration = &expiration
	}
	if args.InvoiceID != "" {
		invoiceID, _ := parseHash256(args.InvoiceID, "invoice id")
		check.InvoiceID = invoiceID
	}
	tx.Native = check
	return tx, tx.setNativeBase()
}

// NewCheckCash builds a CheckCash transaction, exactly one of amount or
// deliverMin must be given
func NewCheckCash(account, checkID string, amount, deliverMin *AmountArg) (*Tx, error) {
	tx, err := newTx(TxCheckCash, account)
	if err != nil {
		return nil, err
	}
	if (amount == nil) == (deliverMin == nil) {
		return nil, errors.New("cashing a check needs either an amount or a delivery minimum")
	}
	hash, err := parseHash256(checkID, "check id")
	if err != nil {
		return nil, err
	}
	tx.JSON["CheckID"] = checkID

	cash := &data.CheckCash{}
	cash.TransactionType = data.CHECK_CASH
	cash.CheckID = *hash
	if amount != nil {
		wire, err := amount.ToWire()
		if err != nil {
			return nil, err
		}
		tx.JSON["Amount"] = wire
		native, err := amount.ToNative()
		if err != nil {
			return nil, err
		}
		cash.Amount = native
	}
	if deliverMin != nil {
		wire, err := deliverMin.ToWire()
		if err != nil {
			return nil, err
		}
		tx.JSON["DeliverMin"] = wire
		native, err := deliverMin.ToNative()
		if err != nil {
			return nil, err
		}
		cash.DeliverMin = native
	}
	tx.Native = cash
	return tx, tx.setNativeBase()
}

// NewCheckCancel builds a CheckCancel transaction
func NewCheckCancel(account, checkID string) (*Tx, error) {
	tx, err := newTx(TxCheckCancel, account)
	if err != nil {
		return nil, err
	}
	hash, err := parseHash256(checkID, "check id")
	if err != nil {
		return nil, err
	}
	tx.JSON["CheckID"] = checkID

	cancel := &data.CheckCancel{}
	cancel.TransactionType = data.CHECK_CANCEL
	cancel.CheckID = *hash
	tx.Native = cancel
	return tx, tx.setNativeBase()
}

// EscrowCreateArgs arguments for locking XRP in an escrow.
// FinishAfter and CancelAfter are ripple epoch seconds, Condition is a
// hex encoded crypto condition.
type EscrowCreateArgs struct {
	Destination    string
	Amount         AmountArg
	FinishAfter    uint32
	CancelAfter    uint32
	Condition      string
	DestinationTag *uint32
}

// NewEscrowCreate builds an EscrowCreate transaction.
// A conditional escrow is signed by the server since the local codec
// predates the Condition field.
func NewEscrowCreate(account string, args EscrowCreateArgs) (*Tx, error) {
	tx, err := newTx(TxEscrowCreate, account)
	if err != nil {
		return nil, err
	}
	if !IsValidAddress(args.Destination) {
		return nil, fmt.Errorf("invalid destination address '%v'", args.Destination)
	}
	if !args.Amount.IsNative() {
		return nil, errors.New("only XRP can be escrowed")
	}
	if args.FinishAfter == 0 && args.Condition == "" {
		return nil, errors.New("escrow needs a finish time or a condition")
	}
	if args.FinishAfter != 0 && args.CancelAfter != 0 && args.CancelAfter <= args.FinishAfter {
		return nil, errors.New("escrow cancel time must be after the finish time")
	}
	amountWire, err := args.Amount.ToWire()
	if err != nil {
		return nil, err
	}
	tx.JSON["Destination"] = args.Destination
	tx.JSON["Amount"] = amountWire
	if args.FinishAfter != 0 {
		tx.JSON["FinishAfter"] = args.FinishAfter
	}
	if args.CancelAfter != 0 {
		tx.JSON["CancelAfter"] = args.CancelAfter
	}
	if args.DestinationTag != nil {
		tx.JSON["DestinationTag"] = *args.DestinationTag
	}
	if args.Condition != "" {
		condition, err := mustHexString(args.Condition)
		if err != nil {
			return nil, err
		}
		tx.JSON["Condition"] = condition
		return tx, nil
	}

	escrow := &data.EscrowCreate{}
	escrow.TransactionType = data.ESCROW_CREATE
	destination, err := data.NewAccountFromAddress(args.Destination)
	if err != nil {
		return nil, err
	}
	escrow.Destination = *destination
	amount, err := args.Amount.ToNative()
	if err != nil {
		return nil, err
	}
	escrow.Amount = *amount
	if args.FinishAfter != 0 {
		finishAfter := args.FinishAfter
		escrow.FinishAfter = &finishAfter
	}
	if args.CancelAfter != 0 {
		cancelAfter := args.CancelAfter
		escrow.CancelAfter = &cancelAfter
	}
	escrow.DestinationTag = args.DestinationTag
	tx.Native = escrow
	return tx, tx.setNativeBase()
}

// NewEscrowFinish builds an EscrowFinish transaction
func NewEscrowFinish(account, owner string, offerSequence uint32, condition, fulfillment string) (*Tx, error) {
	tx, err := newTx(TxEscrowFinish, account)
	if err != nil {
		return nil, err
	}
	if !IsValidAddress(owner) {
		return nil, fmt.Errorf("invalid escrow owner address '%v'", owner)
	}
	tx.JSON["Owner"] = owner
	tx.JSON["OfferSequence"] = offerSequence
	if (condition == "") != (fulfillment == "") {
		return nil, errors.New("condition and fulfillment must be given together")
	}
	if condition != "" {
		if _, err := mustHexString(condition); err != nil {
			return nil, err
		}
		if _, err := mustHexString(fulfillment); err != nil {
			return nil, err
		}
		tx.JSON["Condition"] = condition
		tx.JSON["Fulfillment"] = fulfillment
		return tx, nil
	}

	finish := &data.EscrowFinish{}
	finish.TransactionType = data.ESCROW_FINISH
	ownerAccount, err := data.NewAccountFromAddress(owner)
	if err != nil {
		return nil, err
	}
	finish.Owner = *ownerAccount
	finish.OfferSequence = offerSequence
	tx.Native = finish
	return tx, tx.setNativeBase()
}

// NewEscrowCancel builds an EscrowCancel transaction
func NewEscrowCancel(account, owner string, offerSequence uint32) (*Tx, error) {
	tx, err := newTx(TxEscrowCancel, account)
	if err != nil {
		return nil, err
	}
	if !IsValidAddress(owner) {
		return nil, fmt.Errorf("invalid escrow owner address '%v'", owner)
	}
	tx.JSON["Owner"] = owner
	tx.JSON["OfferSequence"] = offerSequence

	cancel := &data.EscrowCancel{}
	cancel.TransactionType = data.ESCROW_CANCEL
	ownerAccount, err := data.NewAccountFromAddress(owner)
	if err != nil {
		return nil, err
	}
	cancel.Owner = *ownerAccount
	cancel.OfferSequence = offerSequence
	tx.Native = cancel
	return tx, tx.setNativeBase()
}

// AccountSetArgs arguments for changing account settings
type AccountSetArgs struct {
	SetFlag      uint32
	ClearFlag    uint32
	Domain       string
	TransferRate uint32
	TickSize     uint8
	EmailHash    string
	MessageKey   string
}

// NewAccountSet builds an AccountSet transaction.
// Disabling the master key is flagged destructive.
func NewAccountSet(account string, args AccountSetArgs) (*Tx, error) {
	tx, err := newTx(TxAccountSet, account)
	if err != nil {
		return nil, err
	}
	if args.SetFlag != 0 && args.SetFlag == args.ClearFlag {
		return nil, errors.New("cannot set and clear the same account flag")
	}
	native := true
	if args.SetFlag != 0 {
		tx.JSON["SetFlag"] = args.SetFlag
	}
	if args.ClearFlag != 0 {
		tx.JSON["ClearFlag"] = args.ClearFlag
	}
	if args.Domain != "" {
		tx.JSON["Domain"] = hexUpper([]byte(args.Domain))
	}
	if args.TransferRate != 0 {
		tx.JSON["TransferRate"] = args.TransferRate
	}
	if args.TickSize != 0 {
		tx.JSON["TickSize"] = args.TickSize
	}
	if args.EmailHash != "" {
		if _, err := mustHexString(args.EmailHash); err != nil {
			return nil, err
		}
		tx.JSON["EmailHash"] = args.EmailHash
		native = false
	}
	if args.MessageKey != "" {
		if _, err := mustHexString(args.MessageKey); err != nil {
			return nil, err
		}
		tx.JSON["MessageKey"] = args.MessageKey
		native = false
	}
	if args.SetFlag == AsfDisableMaster || args.SetFlag == AsfNoFreeze {
		tx.Destructive = true
	}
	if !native {
		return tx, nil
	}

	accountSet := &data.AccountSet{}
	accountSet.TransactionType = data.ACCOUNT_SET
	if args.SetFlag != 0 {
		setFlag := args.SetFlag
		accountSet.SetFlag = &setFlag
	}
	if args.ClearFlag != 0 {
		clearFlag := args.ClearFlag
		accountSet.ClearFlag = &clearFlag
	}
	if args.Domain != "" {
		domain := data.VariableLength(args.Domain)
		accountSet.Domain = &domain
	}
	if args.TransferRate != 0 {
		rate := args.TransferRate
		accountSet.TransferRate = &rate
	}
	if args.TickSize != 0 {
		tick := args.TickSize
		accountSet.TickSize = &tick
	}
	tx.Native = accountSet
	return tx, tx.setNativeBase()
}

// NewSetRegularKey builds a SetRegularKey transaction.
// An empty regularKey removes the current regular key, which is
// flagged destructive.
func NewSetRegularKey(account, regularKey string) (*Tx, error) {
	tx, err := newTx(TxSetRegularKey, account)
	if err != nil {
		return nil, err
	}
	setKey := &data.SetRegularKey{}
	setKey.TransactionType = data.SET_REGULAR_KEY
	if regularKey == "" {
		tx.Destructive = true
	} else {
		if !IsValidAddress(regularKey) {
			return nil, fmt.Errorf("invalid regular key address '%v'", regularKey)
		}
		if regularKey == account {
			return nil, errors.New("regular key must differ from the account address")
		}
		tx.JSON["RegularKey"] = regularKey
		key, err := data.NewRegularKeyFromAddress(regularKey)
		if err != nil {
			return nil, err
		}
		setKey.RegularKey = key
	}
	tx.Native = setKey
	return tx, tx.setNativeBase()
}

// SignerEntryArg one signer of a signer list
type SignerEntryArg struct {
	Account string `json:"account"`
	Weight  uint16 `json:"weight"`
}

// NewSignerListSet builds a SignerListSet transaction.
// A quorum above the total entry weight is clamped to that weight.
// quorum zero with no entries deletes the signer list, which is
// flagged destructive.
func NewSignerListSet(account string, quorum uint32, entries []SignerEntryArg) (*Tx, error) {
	tx, err := newTx(TxSignerListSet, account)
	if err != nil {
		return nil, err
	}
	signerList := &data.SignerListSet{}
	signerList.TransactionType = data.SIGNER_LIST_SET
	tx.JSON["SignerQuorum"] = quorum
	if quorum == 0 {
		if len(entries) != 0 {
			return nil, errors.New("deleting a signer list must not carry entries")
		}
		tx.Destructive = true
		tx.Native = signerList
		return tx, tx.setNativeBase()
	}
	if len(entries) == 0 {
		return nil, errors.New("signer list needs at least one entry")
	}
	var totalWeight uint32
	jsonEntries := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		if !IsValidAddress(entry.Account) {
			return nil, fmt.Errorf("invalid signer address '%v'", entry.Account)
		}
		if entry.Account == account {
			return nil, errors.New("the account itself cannot be a signer")
		}
		if entry.Weight == 0 {
			return nil, fmt.Errorf("signer '%v' must have a positive weight", entry.Account)
		}
		totalWeight += uint32(entry.Weight)
		jsonEntries = append(jsonEntries, map[string]interface{}{
			"SignerEntry": map[string]interface{}{
				"Account":      entry.Account,
				"SignerWeight": entry.Weight,
			},
		})

		signerAccount, err := data.NewAccountFromAddress(entry.Account)
		if err != nil {
			return nil, err
		}
		weight := entry.Weight
		var nativeEntry data.SignerEntry
		nativeEntry.SignerEntry.Account = signerAccount
		nativeEntry.SignerEntry.SignerWeight = &weight
		signerList.SignerEntries = append(signerList.SignerEntries, nativeEntry)
	}
	if quorum > totalWeight {
		// a quorum above the total weight could never be met
		quorum = totalWeight
		tx.JSON["SignerQuorum"] = quorum
	}
	tx.JSON["SignerEntries"] = jsonEntries
	signerList.SignerQuorum = quorum
	tx.Native = signerList
	return tx, tx.setNativeBase()
}

// NewTicketCreate builds a TicketCreate transaction (server signed)
func NewTicketCreate(account string, count uint32) (*Tx, error) {
	tx, err := newTx(TxTicketCreate, account)
	if err != nil {
		return nil, err
	}
	if count == 0 || count > 250 {
		return nil, errors.New("ticket count must be between 1 and 250")
	}
	tx.JSON["TicketCount"] = count
	return tx, nil
}

// NewDIDSet builds a DIDSet transaction (server signed).
// At least one of document, uri or dataHex must be given.
func NewDIDSet(account, document, uri, dataHex string) (*Tx, error) {
	tx, err := newTx(TxDIDSet, account)
	if err != nil {
		return nil, err
	}
	if document == "" && uri == "" && dataHex == "" {
		return nil, errors.New("a DID needs a document, uri or data")
	}
	if document != "" {
		tx.JSON["DIDDocument"] = hexUpper([]byte(document))
	}
	if uri != "" {
		tx.JSON["URI"] = hexUpper([]byte(uri))
	}
	if dataHex != "" {
		if _, err := mustHexString(dataHex); err != nil {
			return nil, err
		}
		tx.JSON["Data"] = dataHex
	}
	return tx, nil
}

// NewDIDDelete builds a DIDDelete transaction (server signed)
func NewDIDDelete(account string) (*Tx, error) {
	return newTx(TxDIDDelete, account)
}

// MPTIssuanceCreateArgs arguments for issuing a multi purpose token
type MPTIssuanceCreateArgs struct {
	AssetScale    uint8
	MaximumAmount string
	TransferFee   uint16
	Metadata      string
	Flags         uint32
}

// NewMPTIssuanceCreate builds an MPTokenIssuanceCreate transaction (server signed)
func NewMPTIssuanceCreate(account string, args MPTIssuanceCreateArgs) (*Tx, error) {
	tx, err := newTx(TxMPTIssuanceCreate, account)
	if err != nil {
		return nil, err
	}
	if args.AssetScale != 0 {
		tx.JSON["AssetScale"] = args.AssetScale
	}
	if args.MaximumAmount != "" {
		tx.JSON["MaximumAmount"] = args.MaximumAmount
	}
	if args.TransferFee != 0 {
		tx.JSON["TransferFee"] = args.TransferFee
	}
	if args.Metadata != "" {
		tx.JSON["MPTokenMetadata"] = hexUpper([]byte(args.Metadata))
	}
	tx.setFlags(args.Flags)
	return tx, nil
}

// NewMPTIssuanceSet builds an MPTokenIssuanceSet transaction (server signed)
func NewMPTIssuanceSet(account, issuanceID, holder string, flags uint32) (*Tx, error) {
	tx, err := newTx(TxMPTIssuanceSet, account)
	if err != nil {
		return nil, err
	}
	if _, err := mustHexString(issuanceID); err != nil {
		return nil, err
	}
	tx.JSON["MPTokenIssuanceID"] = issuanceID
	if holder != "" {
		if !IsValidAddress(holder) {
			return nil, fmt.Errorf("invalid holder address '%v'", holder)
		}
		tx.JSON["Holder"] = holder
	}
	tx.setFlags(flags)
	return tx, nil
}

// NewMPTIssuanceDestroy builds an MPTokenIssuanceDestroy transaction (server signed)
func NewMPTIssuanceDestroy(account, issuanceID string) (*Tx, error) {
	tx, err := newTx(TxMPTIssuanceDestroy, account)
	if err != nil {
		return nil, err
	}
	if _, err := mustHexString(issuanceID); err != nil {
		return nil, err
	}
	tx.JSON["MPTokenIssuanceID"] = issuanceID
	return tx, nil
}

// NewMPTAuthorize builds an MPTokenAuthorize transaction (server signed)
func NewMPTAuthorize(account, issuanceID, holder string, flags uint32) (*Tx, error) {
	tx, err := newTx(TxMPTAuthorize, account)
	if err != nil {
		return nil, err
	}
	if _, err := mustHexString(issuanceID); err != nil {
		return nil, err
	}
	tx.JSON["MPTokenIssuanceID"] = issuanceID
	if holder != "" {
		if !IsValidAddress(holder) {
			return nil, fmt.Errorf("invalid holder address '%v'", holder)
		}
		tx.JSON["Holder"] = holder
	}
	tx.setFlags(flags)
	return tx, nil
}

// NewClawback builds a Clawback transaction (server signed).
// The amount's issuer field names the holder to claw back from.
// Seizing holder funds is flagged destructive.
func NewClawback(account string, amount AmountArg) (*Tx, error) {
	tx, err := newTx(TxClawback, account)
	if err != nil {
		return nil, err
	}
	tx.Destructive = true
	if amount.IsNative() {
		return nil, errors.New("XRP cannot be clawed back")
	}
	wire, err := amount.ToWire()
	if err != nil {
		return nil, err
	}
	tx.JSON["Amount"] = wire
	return tx, nil
}
