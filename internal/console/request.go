package console

import (
	"errors"

	"github.com/xrplkit/walletconsole/ledger"
)

// SubmitRequest one console action as posted by the front end
type SubmitRequest struct {
	Action  string            `json:"action"`
	Network string            `json:"network,omitempty"`
	Account string            `json:"account"`
	Fields  map[string]string `json:"fields,omitempty"`

	Memo           string `json:"memo,omitempty"`
	TicketSequence uint32 `json:"ticketSequence,omitempty"`
	Simulate       bool   `json:"simulate,omitempty"`

	// optional texts shown instead of the executor defaults
	SimulateMessage        string `json:"simulateMessage,omitempty"`
	SubmitMessage          string `json:"submitMessage,omitempty"`
	InsufficientXRPMessage string `json:"insufficientXrpMessage,omitempty"`

	// signing: an explicit seed, a stored account password, a stored
	// regular key, or a multi signing set
	Seed            string   `json:"seed,omitempty"`
	Password        string   `json:"password,omitempty"`
	UseRegularKey   bool     `json:"useRegularKey,omitempty"`
	UseMultiSign    bool     `json:"useMultiSign,omitempty"`
	SignerAddresses []string `json:"signerAddresses,omitempty"`
	SignerSeeds     []string `json:"signerSeeds,omitempty"`
	SignerQuorum    *uint32  `json:"signerQuorum,omitempty"`

	SignerEntries []ledger.SignerEntryArg `json:"signerEntries,omitempty"`
}

// SubmitResponse validation findings or the submission result
type SubmitResponse struct {
	ValidationErrors []string             `json:"validationErrors,omitempty"`
	Result           *ledger.SubmitResult `json:"result,omitempty"`
}

// resolveSigning picks the signing material for a request.
// Order: multi signing set, explicit seed, stored regular key seed,
// stored account seed unlocked with the password.
func (c *Console) resolveSigning(req *SubmitRequest) (*ledger.SigningMaterial, error) {
	if req.UseMultiSign || len(req.SignerAddresses) > 0 || len(req.SignerSeeds) > 0 {
		// an empty signer set flows into validation, which reports it
		return &ledger.SigningMaterial{
			SignerAddresses: req.SignerAddresses,
			SignerSeeds:     req.SignerSeeds,
		}, nil
	}
	if req.Seed != "" {
		return &ledger.SigningMaterial{Seed: req.Seed}, nil
	}
	if req.UseRegularKey {
		seed, err := c.Store.GetRegularKeySeed(req.Account, req.Password)
		if err != nil {
			return nil, err
		}
		// an empty seed flows into validation, which reports it
		return &ledger.SigningMaterial{Seed: seed}, nil
	}
	if req.Simulate {
		// a dry run needs no key material
		return nil, nil
	}
	if req.Password == "" {
		return nil, errors.New("no seed given and no password to unlock the stored account")
	}
	seed, err := c.Store.UnlockSeed(req.Account, req.Password)
	if err != nil {
		return nil, err
	}
	return &ledger.SigningMaterial{Seed: seed}, nil
}
