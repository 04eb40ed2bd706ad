// Package validation checks console action inputs before a transaction
// is built. Every finding is a human readable string shown to the
// operator, an empty result means the action may proceed.
package validation

import (
	"context"
	"fmt"

	mapset "github.com/deckarep/golang-set"

	"github.com/xrplkit/walletconsole/ledger"
	"github.com/xrplkit/walletconsole/log"
)

// Inputs the named inputs of one console action.
// Fields carries the form values keyed by their display names.
// SignerQuorum is clamped in place when it exceeds the total weight of
// the signer list entries.
type Inputs struct {
	Action  string
	Network string
	Account string
	Fields  map[string]string

	UseMultiSign    bool
	SignerAddresses []string
	SignerSeeds     []string
	SignerQuorum    *uint32
	SignerEntries   []ledger.SignerEntryArg

	UseRegularKey  bool
	RegularKeySeed string
}

// Field returns a form value, "" when absent
func (in *Inputs) Field(name string) string {
	if in.Fields == nil {
		return ""
	}
	return in.Fields[name]
}

// validatorFunc returns "" when the input passes
type validatorFunc func(ctx context.Context, v *Validator, in *Inputs) string

type actionConfig struct {
	// names of fields that must be present and non empty
	required []string
	// synchronous checks, all of them run
	custom []validatorFunc
	// checks that hit the ledger, run sequentially in order,
	// all of them run
	async []validatorFunc
}

// StateReader the ledger reads the async validators need
type StateReader interface {
	GetAccountInfo(network, address string, forceRefresh bool) (*ledger.AccountInfoResult, error)
	GetAccountData(network, address string, forceRefresh bool) (*ledger.AccountData, error)
	GetAccountObjects(network, address, objectType string, forceRefresh bool) (*ledger.AccountObjectsResult, error)
}

// Validator runs the per action rule set
type Validator struct {
	state StateReader
}

// New builds a validator reading ledger state through the given cache
func New(state StateReader) *Validator {
	return &Validator{state: state}
}

// Validate runs all rules of the action in a fixed order: required
// fields, custom checks, ledger lookups (sequentially, without short
// circuiting), then the checks shared by every action. Unknown actions
// fail closed.
func (v *Validator) Validate(ctx context.Context, in *Inputs) []string {
	var errs []string

	config, known := actionConfigs[in.Action]
	if !known {
		log.Warn("validation rejected unknown action", "action", in.Action)
		errs = append(errs, fmt.Sprintf("Unknown action: %v", in.Action))
		return append(errs, v.alwaysRun(in)...)
	}

	for _, field := range config.required {
		if in.Field(field) == "" {
			errs = append(errs, fmt.Sprintf("%v cannot be empty", field))
		}
	}
	for _, check := range config.custom {
		if msg := check(ctx, v, in); msg != "" {
			errs = append(errs, msg)
		}
	}
	// the ticket lookup applies to any action sequenced by ticket
	asyncs := append([]validatorFunc{ticketOnLedger}, config.async...)
	for _, check := range asyncs {
		if msg := check(ctx, v, in); msg != "" {
			errs = append(errs, msg)
		}
	}
	errs = append(errs, v.alwaysRun(in)...)

	// only meaningful once everything else is clean
	if len(errs) == 0 && in.UseMultiSign &&
		len(in.SignerAddresses) == 0 && len(in.SignerSeeds) == 0 {
		errs = append(errs, "Multi-signing is enabled but no signers are configured")
	}
	return errs
}

// alwaysRun holds the checks shared by every action
func (v *Validator) alwaysRun(in *Inputs) []string {
	var errs []string
	errs = append(errs, checkMultiSignInputs(in)...)
	if msg := checkRegularKeyInputs(in); msg != "" {
		errs = append(errs, msg)
	}
	return errs
}

func checkMultiSignInputs(in *Inputs) []string {
	if len(in.SignerAddresses) == 0 && len(in.SignerSeeds) == 0 {
		return nil
	}
	var errs []string
	if len(in.SignerAddresses) != len(in.SignerSeeds) {
		errs = append(errs, "Number of signer addresses must match number of signer seeds")
	}
	seen := mapset.NewSet()
	for _, address := range in.SignerAddresses {
		if !ledger.IsValidAddress(address) {
			errs = append(errs, fmt.Sprintf("Invalid signer address: %v", address))
			continue
		}
		if !seen.Add(address) {
			errs = append(errs, fmt.Sprintf("Duplicate signer address: %v", address))
		}
	}
	for _, seed := range in.SignerSeeds {
		if !ledger.IsValidSeed(seed) {
			errs = append(errs, "One or more signer seeds are invalid")
			break
		}
	}
	return errs
}

func checkRegularKeyInputs(in *Inputs) string {
	if in.UseRegularKey && in.RegularKeySeed == "" {
		return "No RegularKey configured for account"
	}
	if in.RegularKeySeed != "" && !ledger.IsValidSeed(in.RegularKeySeed) {
		return "Invalid regular key seed"
	}
	return ""
}
