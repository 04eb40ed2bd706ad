package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xrplkit/walletconsole/ledger"
)

const (
	testAddress = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	otherSigner = "rrrrrrrrrrrrrrrrrrrrrhoLvTp"
	testSeed    = "snoPBrXtMeMyMHUVTgbuqAfg1SUTb"
)

// a nil cache keeps the async checks offline in these tests
func offlineValidator() *Validator {
	return New(nil)
}

// fakeState stands in for the cache so the ledger lookups can be
// exercised without a node
type fakeState struct {
	infoErr    error
	flags      uint32
	objectsErr error
	tickets    []uint32
}

func (f *fakeState) GetAccountInfo(network, address string, forceRefresh bool) (*ledger.AccountInfoResult, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return &ledger.AccountInfoResult{
		AccountData: ledger.AccountData{Account: address, Flags: f.flags},
	}, nil
}

func (f *fakeState) GetAccountData(network, address string, forceRefresh bool) (*ledger.AccountData, error) {
	info, err := f.GetAccountInfo(network, address, forceRefresh)
	if err != nil {
		return nil, err
	}
	return &info.AccountData, nil
}

func (f *fakeState) GetAccountObjects(network, address, objectType string, forceRefresh bool) (*ledger.AccountObjectsResult, error) {
	if f.objectsErr != nil {
		return nil, f.objectsErr
	}
	result := &ledger.AccountObjectsResult{Account: address}
	for _, seq := range f.tickets {
		result.AccountObjects = append(result.AccountObjects, ledger.AccountObject{
			"LedgerEntryType": "Ticket",
			"TicketSequence":  float64(seq),
		})
	}
	return result, nil
}

func TestUnknownActionFailsClosed(t *testing.T) {
	errs := offlineValidator().Validate(context.Background(), &Inputs{Action: "launchmissiles"})
	assert.Equal(t, []string{"Unknown action: launchmissiles"}, errs)
}

func TestRequiredFields(t *testing.T) {
	errs := offlineValidator().Validate(context.Background(), &Inputs{
		Action:  "payment",
		Account: testAddress,
	})
	assert.Contains(t, errs, "Destination cannot be empty")
	assert.Contains(t, errs, "Amount cannot be empty")
}

func TestPaymentCustomChecks(t *testing.T) {
	errs := offlineValidator().Validate(context.Background(), &Inputs{
		Action:  "payment",
		Account: testAddress,
		Fields: map[string]string{
			"Destination":    "not-an-address",
			"Amount":         "zero point nothing",
			"DestinationTag": "not-a-number",
		},
	})
	assert.Contains(t, errs, "Destination is not a valid address")
	assert.Contains(t, errs, "Amount is not a valid amount")
	assert.Contains(t, errs, "DestinationTag must be a number")
}

func TestPaymentPassesOffline(t *testing.T) {
	errs := offlineValidator().Validate(context.Background(), &Inputs{
		Action:  "payment",
		Account: testAddress,
		Fields: map[string]string{
			"Destination": otherSigner,
			"Amount":      "12.5",
		},
	})
	assert.Empty(t, errs)
}

func TestZeroAmountRejected(t *testing.T) {
	errs := offlineValidator().Validate(context.Background(), &Inputs{
		Action:  "payment",
		Account: testAddress,
		Fields: map[string]string{
			"Destination": otherSigner,
			"Amount":      "0",
		},
	})
	assert.Contains(t, errs, "Amount is not a valid amount")
}

func TestCheckCashAlternatives(t *testing.T) {
	checkID := "49647F0D748DC3FE26BDACBC57F251AADEFFF391403EC9BF87C97F67E9977FB0"

	errs := offlineValidator().Validate(context.Background(), &Inputs{
		Action: "checkcash",
		Fields: map[string]string{"CheckID": checkID},
	})
	assert.Contains(t, errs, "Exactly one of Amount and DeliverMin must be given")

	errs = offlineValidator().Validate(context.Background(), &Inputs{
		Action: "checkcash",
		Fields: map[string]string{
			"CheckID":    checkID,
			"Amount":     "5",
			"DeliverMin": "4",
		},
	})
	assert.Contains(t, errs, "Exactly one of Amount and DeliverMin must be given")

	errs = offlineValidator().Validate(context.Background(), &Inputs{
		Action: "checkcash",
		Fields: map[string]string{
			"CheckID": checkID,
			"Amount":  "5",
		},
	})
	assert.Empty(t, errs)
}

func TestEscrowTimesOrdered(t *testing.T) {
	errs := offlineValidator().Validate(context.Background(), &Inputs{
		Action: "escrowcreate",
		Fields: map[string]string{
			"Destination": otherSigner,
			"Amount":      "100",
			"FinishAfter": "700086400",
			"CancelAfter": "700000000",
		},
	})
	assert.Contains(t, errs, "CancelAfter must be after FinishAfter")
}

func TestSelfPaymentRejected(t *testing.T) {
	errs := offlineValidator().Validate(context.Background(), &Inputs{
		Action:  "payment",
		Account: testAddress,
		Fields: map[string]string{
			"Destination": testAddress,
			"Amount":      "5",
		},
	})
	assert.Contains(t, errs, "Destination must differ from the sending account")
}

func TestConditionNeedsFulfillment(t *testing.T) {
	errs := offlineValidator().Validate(context.Background(), &Inputs{
		Action:  "escrowfinish",
		Account: testAddress,
		Fields: map[string]string{
			"Owner":         otherSigner,
			"OfferSequence": "7",
			"Condition":     "A0258020E3B0C44298FC1C149AFBF4C8996FB92427AE41E4649B934CA495991B7852B855810100",
		},
	})
	assert.Contains(t, errs, "Fulfillment is required when a Condition is supplied")
}

func TestIssuanceCreateChecks(t *testing.T) {
	errs := offlineValidator().Validate(context.Background(), &Inputs{
		Action: "mptissuancecreate",
		Fields: map[string]string{"AssetScale": "16"},
	})
	assert.Contains(t, errs, "AssetScale must be between 0 and 15")

	errs = offlineValidator().Validate(context.Background(), &Inputs{
		Action: "mptissuancecreate",
		Fields: map[string]string{"TransferFee": "250"},
	})
	assert.Contains(t, errs, "TransferFee requires the CanTransfer flag")

	errs = offlineValidator().Validate(context.Background(), &Inputs{
		Action: "mptissuancecreate",
		Fields: map[string]string{
			"AssetScale":  "2",
			"TransferFee": "250",
			"CanTransfer": "true",
		},
	})
	assert.Empty(t, errs)
}

func TestMultiSignChecks(t *testing.T) {
	// mismatched list lengths
	errs := offlineValidator().Validate(context.Background(), &Inputs{
		Action:          "diddelete",
		SignerAddresses: []string{testAddress, otherSigner},
		SignerSeeds:     []string{testSeed},
	})
	assert.Contains(t, errs, "Number of signer addresses must match number of signer seeds")

	// bad signer address
	errs = offlineValidator().Validate(context.Background(), &Inputs{
		Action:          "diddelete",
		SignerAddresses: []string{"bogus"},
		SignerSeeds:     []string{testSeed},
	})
	assert.Contains(t, errs, "Invalid signer address: bogus")

	// duplicate signer address
	errs = offlineValidator().Validate(context.Background(), &Inputs{
		Action:          "diddelete",
		SignerAddresses: []string{testAddress, testAddress},
		SignerSeeds:     []string{testSeed, testSeed},
	})
	assert.Contains(t, errs, "Duplicate signer address: "+testAddress)

	// bad seed
	errs = offlineValidator().Validate(context.Background(), &Inputs{
		Action:          "diddelete",
		SignerAddresses: []string{testAddress},
		SignerSeeds:     []string{"notaseed"},
	})
	assert.Contains(t, errs, "One or more signer seeds are invalid")

	// valid multisign input passes
	errs = offlineValidator().Validate(context.Background(), &Inputs{
		Action:          "diddelete",
		SignerAddresses: []string{testAddress},
		SignerSeeds:     []string{testSeed},
	})
	assert.Empty(t, errs)
}

func TestQuorumClampedToTotalWeight(t *testing.T) {
	entries := []ledger.SignerEntryArg{
		{Account: testAddress, Weight: 2},
		{Account: otherSigner, Weight: 2},
	}

	// a quorum above the weight sum is lowered to exactly that sum
	quorum := uint32(5)
	inputs := &Inputs{
		Action:        "signerlistset",
		Fields:        map[string]string{"SignerQuorum": "5"},
		SignerQuorum:  &quorum,
		SignerEntries: entries,
	}
	errs := offlineValidator().Validate(context.Background(), inputs)
	assert.Empty(t, errs)
	assert.Equal(t, uint32(4), quorum)
	assert.Equal(t, "4", inputs.Field("SignerQuorum"))

	// a quorum within the weight sum stays untouched
	quorum = 3
	inputs = &Inputs{
		Action:        "signerlistset",
		Fields:        map[string]string{"SignerQuorum": "3"},
		SignerQuorum:  &quorum,
		SignerEntries: entries,
	}
	errs = offlineValidator().Validate(context.Background(), inputs)
	assert.Empty(t, errs)
	assert.Equal(t, uint32(3), quorum)
	assert.Equal(t, "3", inputs.Field("SignerQuorum"))
}

func TestUseMultiSignCoherence(t *testing.T) {
	// multi signing requested without any configured signers
	errs := offlineValidator().Validate(context.Background(), &Inputs{
		Action:       "diddelete",
		UseMultiSign: true,
	})
	assert.Equal(t, []string{"Multi-signing is enabled but no signers are configured"}, errs)

	// with signers configured the flag is coherent
	errs = offlineValidator().Validate(context.Background(), &Inputs{
		Action:          "diddelete",
		UseMultiSign:    true,
		SignerAddresses: []string{testAddress},
		SignerSeeds:     []string{testSeed},
	})
	assert.Empty(t, errs)

	// the coherence check stays silent while other findings exist
	errs = offlineValidator().Validate(context.Background(), &Inputs{
		Action:       "payment",
		UseMultiSign: true,
	})
	assert.Contains(t, errs, "Destination cannot be empty")
	assert.NotContains(t, errs, "Multi-signing is enabled but no signers are configured")
}

func TestRegularKeyChecks(t *testing.T) {
	errs := offlineValidator().Validate(context.Background(), &Inputs{
		Action:        "diddelete",
		UseRegularKey: true,
	})
	assert.Contains(t, errs, "No RegularKey configured for account")

	errs = offlineValidator().Validate(context.Background(), &Inputs{
		Action:         "diddelete",
		UseRegularKey:  true,
		RegularKeySeed: "notaseed",
	})
	assert.Contains(t, errs, "Invalid regular key seed")

	errs = offlineValidator().Validate(context.Background(), &Inputs{
		Action:         "diddelete",
		UseRegularKey:  true,
		RegularKeySeed: testSeed,
	})
	assert.Empty(t, errs)
}

func TestTicketCountRange(t *testing.T) {
	errs := offlineValidator().Validate(context.Background(), &Inputs{
		Action: "ticketcreate",
		Fields: map[string]string{"TicketCount": "300"},
	})
	assert.Contains(t, errs, "TicketCount must be between 1 and 250")
}

func TestDestinationLookupFailureSurfaces(t *testing.T) {
	v := New(&fakeState{infoErr: errors.New("connection refused")})
	errs := v.Validate(context.Background(), &Inputs{
		Action:  "payment",
		Account: testAddress,
		Fields: map[string]string{
			"Destination": otherSigner,
			"Amount":      "5",
		},
	})
	// the raw transport error never reaches the operator
	assert.Equal(t, []string{"Could not validate destination account"}, errs)
}

func TestDestinationTagRequired(t *testing.T) {
	v := New(&fakeState{flags: lsfRequireDestTag})
	inputs := &Inputs{
		Action:  "payment",
		Account: testAddress,
		Fields: map[string]string{
			"Destination": otherSigner,
			"Amount":      "5",
		},
	}
	errs := v.Validate(context.Background(), inputs)
	assert.Contains(t, errs, "Destination requires a destination tag")

	inputs.Fields["DestinationTag"] = "7"
	errs = v.Validate(context.Background(), inputs)
	assert.Empty(t, errs)
}

func TestTicketLookupOnLedger(t *testing.T) {
	inputs := func() *Inputs {
		return &Inputs{
			Action:  "diddelete",
			Account: testAddress,
			Fields:  map[string]string{"TicketSequence": "55"},
		}
	}

	errs := New(&fakeState{tickets: []uint32{55}}).Validate(context.Background(), inputs())
	assert.Empty(t, errs)

	errs = New(&fakeState{tickets: []uint32{60}}).Validate(context.Background(), inputs())
	assert.Contains(t, errs, "Ticket 55 not found on ledger")

	errs = New(&fakeState{objectsErr: errors.New("timeout")}).Validate(context.Background(), inputs())
	assert.Contains(t, errs, "Could not validate ticket")
}

func TestFindingOrderAndNoShortCircuit(t *testing.T) {
	// every stage contributes a finding and the ledger lookup is not
	// skipped because earlier stages already failed
	v := New(&fakeState{infoErr: errors.New("connection refused")})
	errs := v.Validate(context.Background(), &Inputs{
		Action:  "payment",
		Account: testAddress,
		Fields: map[string]string{
			"Destination": otherSigner,
			"Amount":      "bogus",
		},
		SignerAddresses: []string{"badsigner"},
		SignerSeeds:     []string{testSeed},
	})
	assert.Equal(t, []string{
		"Amount is not a valid amount",
		"Could not validate destination account",
		"Invalid signer address: badsigner",
	}, errs)
}

func TestAlwaysRunChecksOnUnknownAction(t *testing.T) {
	errs := offlineValidator().Validate(context.Background(), &Inputs{
		Action:          "launchmissiles",
		SignerAddresses: []string{"bogus"},
		SignerSeeds:     []string{testSeed},
	})
	assert.Contains(t, errs, "Unknown action: launchmissiles")
	assert.Contains(t, errs, "Invalid signer address: bogus")
}
