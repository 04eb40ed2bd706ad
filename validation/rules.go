package validation

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xrplkit/walletconsole/ledger"
)

// account root flag requiring payments to carry a destination tag
const lsfRequireDestTag uint32 = 0x00020000

var (
	decimalRgx = regexp.MustCompile(`^\d*\.?\d+$`)
	hexRgx     = regexp.MustCompile(`^[0-9A-Fa-f]+$`)
	hash256Rgx = regexp.MustCompile(`^[0-9A-Fa-f]{64}$`)
)

// actionConfigs the rule set of every console action
var actionConfigs = map[string]actionConfig{
	"payment": {
		required: []string{"Destination", "Amount"},
		custom: []validatorFunc{
			validAddressField("Destination"),
			notSelfDestination,
			validAmountField("Amount"),
			numericField("DestinationTag"),
			hashField("InvoiceID"),
		},
		async: []validatorFunc{
			destinationExists,
			destinationTagRequired,
		},
	},
	"trustset": {
		required: []string{"Currency", "Issuer", "Limit"},
		custom: []validatorFunc{
			currencyField("Currency"),
			validAddressField("Issuer"),
			validAmountField("Limit"),
		},
		async: []validatorFunc{
			issuerExists,
		},
	},
	"checkcreate": {
		required: []string{"Destination", "SendMax"},
		custom: []validatorFunc{
			validAddressField("Destination"),
			notSelfDestination,
			validAmountField("SendMax"),
			numericField("DestinationTag"),
			numericField("Expiration"),
			hashField("InvoiceID"),
		},
		async: []validatorFunc{
			destinationExists,
		},
	},
	"checkcash": {
		required: []string{"CheckID"},
		custom: []validatorFunc{
			hashField("CheckID"),
			exactlyOneOf("Amount", "DeliverMin"),
			validAmountField("Amount"),
			validAmountField("DeliverMin"),
		},
	},
	"checkcancel": {
		required: []string{"CheckID"},
		custom: []validatorFunc{
			hashField("CheckID"),
		},
	},
	"escrowcreate": {
		required: []string{"Destination", "Amount"},
		custom: []validatorFunc{
			validAddressField("Destination"),
			notSelfDestination,
			validAmountField("Amount"),
			numericField("FinishAfter"),
			numericField("CancelAfter"),
			numericField("DestinationTag"),
			escrowTimesOrdered,
		},
		async: []validatorFunc{
			destinationExists,
		},
	},
	"escrowfinish": {
		required: []string{"Owner", "OfferSequence"},
		custom: []validatorFunc{
			validAddressField("Owner"),
			numericField("OfferSequence"),
			hexField("Condition"),
			hexField("Fulfillment"),
			fulfillmentWithCondition,
		},
	},
	"escrowcancel": {
		required: []string{"Owner", "OfferSequence"},
		custom: []validatorFunc{
			validAddressField("Owner"),
			numericField("OfferSequence"),
		},
	},
	"accountset": {
		custom: []validatorFunc{
			numericField("SetFlag"),
			numericField("ClearFlag"),
			numericField("TransferRate"),
			numericField("TickSize"),
		},
	},
	"setregularkey": {
		custom: []validatorFunc{
			validAddressField("RegularKey"),
		},
	},
	"signerlistset": {
		required: []string{"SignerQuorum"},
		custom: []validatorFunc{
			numericField("SignerQuorum"),
			clampQuorumToWeights,
		},
	},
	"ticketcreate": {
		required: []string{"TicketCount"},
		custom: []validatorFunc{
			numericField("TicketCount"),
			ticketCountInRange,
		},
	},
	"didset": {
		custom: []validatorFunc{
			anyOf("DIDDocument", "URI", "Data"),
			hexField("Data"),
		},
	},
	"diddelete": {},
	"mptissuancecreate": {
		custom: []validatorFunc{
			numericField("AssetScale"),
			assetScaleInRange,
			numericField("TransferFee"),
			transferFeeNeedsCanTransfer,
			validAmountField("MaximumAmount"),
		},
	},
	"mptissuanceset": {
		required: []string{"IssuanceID"},
		custom: []validatorFunc{
			hexField("IssuanceID"),
			validAddressField("Holder"),
		},
	},
	"mptissuancedestroy": {
		required: []string{"IssuanceID"},
		custom: []validatorFunc{
			hexField("IssuanceID"),
		},
	},
	"mptauthorize": {
		required: []string{"IssuanceID"},
		custom: []validatorFunc{
			hexField("IssuanceID"),
			validAddressField("Holder"),
		},
	},
	"clawback": {
		required: []string{"Currency", "Holder", "Value"},
		custom: []validatorFunc{
			currencyField("Currency"),
			validAddressField("Holder"),
			validAmountField("Value"),
		},
	},
	"fundwallet": {
		custom: []validatorFunc{
			validAddressField("Address"),
		},
	},
}

func validAddressField(name string) validatorFunc {
	return func(_ context.Context, _ *Validator, in *Inputs) string {
		value := in.Field(name)
		if value == "" {
			return ""
		}
		if !ledger.IsValidAddress(value) {
			return fmt.Sprintf("%v is not a valid address", name)
		}
		return ""
	}
}

func validAmountField(name string) validatorFunc {
	return func(_ context.Context, _ *Validator, in *Inputs) string {
		value := in.Field(name)
		if value == "" {
			return ""
		}
		if !decimalRgx.MatchString(value) || strings.Trim(value, "0.") == "" {
			return fmt.Sprintf("%v is not a valid amount", name)
		}
		return ""
	}
}

func numericField(name string) validatorFunc {
	return func(_ context.Context, _ *Validator, in *Inputs) string {
		value := in.Field(name)
		if value == "" {
			return ""
		}
		if _, err := strconv.ParseUint(value, 10, 32); err != nil {
			return fmt.Sprintf("%v must be a number", name)
		}
		return ""
	}
}

func hexField(name string) validatorFunc {
	return func(_ context.Context, _ *Validator, in *Inputs) string {
		value := in.Field(name)
		if value == "" {
			return ""
		}
		if !hexRgx.MatchString(value) {
			return fmt.Sprintf("%v must be hexadecimal", name)
		}
		return ""
	}
}

func hashField(name string) validatorFunc {
	return func(_ context.Context, _ *Validator, in *Inputs) string {
		value := in.Field(name)
		if value == "" {
			return ""
		}
		if !hash256Rgx.MatchString(value) {
			return fmt.Sprintf("%v must be a 64 character hex hash", name)
		}
		return ""
	}
}

func currencyField(name string) validatorFunc {
	return func(_ context.Context, _ *Validator, in *Inputs) string {
		value := in.Field(name)
		if value == "" {
			return ""
		}
		if !ledger.IsValidCurrencyCode(value) {
			return fmt.Sprintf("%v is not a valid currency code", name)
		}
		return ""
	}
}

// exactlyOneOf demands exactly one of two alternative fields
func exactlyOneOf(first, second string) validatorFunc {
	return func(_ context.Context, _ *Validator, in *Inputs) string {
		if (in.Field(first) == "") == (in.Field(second) == "") {
			return fmt.Sprintf("Exactly one of %v and %v must be given", first, second)
		}
		return ""
	}
}

// anyOf demands at least one of the named fields
func anyOf(names ...string) validatorFunc {
	return func(_ context.Context, _ *Validator, in *Inputs) string {
		for _, name := range names {
			if in.Field(name) != "" {
				return ""
			}
		}
		return fmt.Sprintf("One of %v must be given", strings.Join(names, ", "))
	}
}

func notSelfDestination(_ context.Context, _ *Validator, in *Inputs) string {
	destination := in.Field("Destination")
	if destination != "" && destination == in.Account {
		return "Destination must differ from the sending account"
	}
	return ""
}

func fulfillmentWithCondition(_ context.Context, _ *Validator, in *Inputs) string {
	if in.Field("Condition") != "" && in.Field("Fulfillment") == "" {
		return "Fulfillment is required when a Condition is supplied"
	}
	return ""
}

func assetScaleInRange(_ context.Context, _ *Validator, in *Inputs) string {
	value := in.Field("AssetScale")
	if value == "" {
		return ""
	}
	scale, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return ""
	}
	if scale > 15 {
		return "AssetScale must be between 0 and 15"
	}
	return ""
}

func transferFeeNeedsCanTransfer(_ context.Context, _ *Validator, in *Inputs) string {
	if in.Field("TransferFee") == "" {
		return ""
	}
	switch in.Field("CanTransfer") {
	case "true", "1", "yes":
		return ""
	}
	return "TransferFee requires the CanTransfer flag"
}

// clampQuorumToWeights caps the requested quorum at the sum of the
// signer entry weights. A larger quorum could never be met, so it is
// lowered in place rather than reported.
func clampQuorumToWeights(_ context.Context, _ *Validator, in *Inputs) string {
	if len(in.SignerEntries) == 0 {
		return ""
	}
	quorum, err := strconv.ParseUint(in.Field("SignerQuorum"), 10, 32)
	if err != nil {
		return ""
	}
	var totalWeight uint64
	for _, entry := range in.SignerEntries {
		totalWeight += uint64(entry.Weight)
	}
	if quorum > totalWeight {
		in.Fields["SignerQuorum"] = strconv.FormatUint(totalWeight, 10)
		if in.SignerQuorum != nil {
			*in.SignerQuorum = uint32(totalWeight)
		}
	}
	return ""
}

func escrowTimesOrdered(_ context.Context, _ *Validator, in *Inputs) string {
	finish, err1 := strconv.ParseUint(in.Field("FinishAfter"), 10, 32)
	cancel, err2 := strconv.ParseUint(in.Field("CancelAfter"), 10, 32)
	if err1 != nil || err2 != nil {
		return ""
	}
	if cancel <= finish {
		return "CancelAfter must be after FinishAfter"
	}
	return ""
}

func ticketCountInRange(_ context.Context, _ *Validator, in *Inputs) string {
	count, err := strconv.ParseUint(in.Field("TicketCount"), 10, 32)
	if err != nil {
		return ""
	}
	if count == 0 || count > 250 {
		return "TicketCount must be between 1 and 250"
	}
	return ""
}

func destinationExists(ctx context.Context, v *Validator, in *Inputs) string {
	return accountExists(v, in.Network, in.Field("Destination"), "Could not validate destination account")
}

func issuerExists(ctx context.Context, v *Validator, in *Inputs) string {
	return accountExists(v, in.Network, in.Field("Issuer"), "Could not validate issuer account")
}

func accountExists(v *Validator, network, address, failure string) string {
	if v.state == nil || address == "" {
		return ""
	}
	if _, err := v.state.GetAccountInfo(network, address, false); err != nil {
		return failure
	}
	return ""
}

// ticketOnLedger verifies a chosen ticket sequence is actually reserved
// by the sending account before the transaction references it
func ticketOnLedger(ctx context.Context, v *Validator, in *Inputs) string {
	if v.state == nil || in.Account == "" {
		return ""
	}
	ticketSeq, err := strconv.ParseUint(in.Field("TicketSequence"), 10, 32)
	if err != nil || ticketSeq == 0 {
		return ""
	}
	objects, err := v.state.GetAccountObjects(in.Network, in.Account, "ticket", false)
	if err != nil {
		return "Could not validate ticket"
	}
	for _, object := range objects.AccountObjects {
		if object.TicketSequence() == uint32(ticketSeq) {
			return ""
		}
	}
	return fmt.Sprintf("Ticket %v not found on ledger", ticketSeq)
}

func destinationTagRequired(ctx context.Context, v *Validator, in *Inputs) string {
	if v.state == nil {
		return ""
	}
	destination := in.Field("Destination")
	if destination == "" || in.Field("DestinationTag") != "" {
		return ""
	}
	accountData, err := v.state.GetAccountData(in.Network, destination, false)
	if err != nil {
		return ""
	}
	if accountData.Flags&lsfRequireDestTag != 0 {
		return "Destination requires a destination tag"
	}
	return ""
}
