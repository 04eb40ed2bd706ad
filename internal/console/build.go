package console

import (
	"fmt"
	"strconv"

	"github.com/xrplkit/walletconsole/ledger"
)

// buildTx turns a validated request into a transaction
func (c *Console) buildTx(req *SubmitRequest) (*ledger.Tx, error) {
	get := func(name string) string { return req.Fields[name] }
	amount := func(valueField string) ledger.AmountArg {
		return ledger.AmountArg{
			Currency: get("Currency"),
			Issuer:   get("Issuer"),
			Value:    get(valueField),
		}
	}

	switch req.Action {
	case "payment":
		return ledger.NewPayment(req.Account, ledger.PaymentArgs{
			Destination:    get("Destination"),
			Amount:         amount("Amount"),
			DestinationTag: optionalUint32(get("DestinationTag")),
			InvoiceID:      get("InvoiceID"),
		})
	case "trustset":
		return ledger.NewTrustSet(req.Account, ledger.TrustSetArgs{
			Limit:      amount("Limit"),
			QualityIn:  parseUint32(get("QualityIn")),
			QualityOut: parseUint32(get("QualityOut")),
			NoRipple:   optionalBool(get("NoRipple")),
			Freeze:     optionalBool(get("Freeze")),
		})
	case "checkcreate":
		return ledger.NewCheckCreate(req.Account, ledger.CheckCreateArgs{
			Destination:    get("Destination"),
			SendMax:        amount("SendMax"),
			DestinationTag: optionalUint32(get("DestinationTag")),
			Expiration:     parseUint32(get("Expiration")),
			InvoiceID:      get("InvoiceID"),
		})
	case "checkcash":
		var cashAmount, deliverMin *ledger.AmountArg
		if get("Amount") != "" {
			a := amount("Amount")
			cashAmount = &a
		}
		if get("DeliverMin") != "" {
			a := amount("DeliverMin")
			deliverMin = &a
		}
		return ledger.NewCheckCash(req.Account, get("CheckID"), cashAmount, deliverMin)
	case "checkcancel":
		return ledger.NewCheckCancel(req.Account, get("CheckID"))
	case "escrowcreate":
		return ledger.NewEscrowCreate(req.Account, ledger.EscrowCreateArgs{
			Destination:    get("Destination"),
			Amount:         amount("Amount"),
			FinishAfter:    parseUint32(get("FinishAfter")),
			CancelAfter:    parseUint32(get("CancelAfter")),
			Condition:      get("Condition"),
			DestinationTag: optionalUint32(get("DestinationTag")),
		})
	case "escrowfinish":
		return ledger.NewEscrowFinish(req.Account, get("Owner"),
			parseUint32(get("OfferSequence")), get("Condition"), get("Fulfillment"))
	case "escrowcancel":
		return ledger.NewEscrowCancel(req.Account, get("Owner"), parseUint32(get("OfferSequence")))
	case "accountset":
		return ledger.NewAccountSet(req.Account, ledger.AccountSetArgs{
			SetFlag:      parseUint32(get("SetFlag")),
			ClearFlag:    parseUint32(get("ClearFlag")),
			Domain:       get("Domain"),
			TransferRate: parseUint32(get("TransferRate")),
			TickSize:     uint8(parseUint32(get("TickSize"))),
			EmailHash:    get("EmailHash"),
			MessageKey:   get("MessageKey"),
		})
	case "setregularkey":
		return ledger.NewSetRegularKey(req.Account, get("RegularKey"))
	case "signerlistset":
		return ledger.NewSignerListSet(req.Account, parseUint32(get("SignerQuorum")), req.SignerEntries)
	case "ticketcreate":
		return ledger.NewTicketCreate(req.Account, parseUint32(get("TicketCount")))
	case "didset":
		return ledger.NewDIDSet(req.Account, get("DIDDocument"), get("URI"), get("Data"))
	case "diddelete":
		return ledger.NewDIDDelete(req.Account)
	case "mptissuancecreate":
		return ledger.NewMPTIssuanceCreate(req.Account, ledger.MPTIssuanceCreateArgs{
			AssetScale:    uint8(parseUint32(get("AssetScale"))),
			MaximumAmount: get("MaximumAmount"),
			TransferFee:   uint16(parseUint32(get("TransferFee"))),
			Metadata:      get("Metadata"),
			Flags:         parseUint32(get("Flags")),
		})
	case "mptissuanceset":
		return ledger.NewMPTIssuanceSet(req.Account, get("IssuanceID"), get("Holder"), parseUint32(get("Flags")))
	case "mptissuancedestroy":
		return ledger.NewMPTIssuanceDestroy(req.Account, get("IssuanceID"))
	case "mptauthorize":
		return ledger.NewMPTAuthorize(req.Account, get("IssuanceID"), get("Holder"), parseUint32(get("Flags")))
	case "clawback":
		return ledger.NewClawback(req.Account, ledger.AmountArg{
			Currency: get("Currency"),
			Issuer:   get("Holder"),
			Value:    get("Value"),
		})
	}
	return nil, fmt.Errorf("no transaction builder for action '%v'", req.Action)
}

func parseUint32(s string) uint32 {
	v, _ := strconv.ParseUint(s, 10, 32)
	return uint32(v)
}

func optionalUint32(s string) *uint32 {
	if s == "" {
		return nil
	}
	v := parseUint32(s)
	return &v
}

func optionalBool(s string) *bool {
	switch s {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}
