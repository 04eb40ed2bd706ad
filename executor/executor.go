// Package executor drives a built transaction through precondition
// fetch, balance guard, signing and submission, and turns the engine
// result into something an operator can read.
package executor

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/xrplkit/walletconsole/ledger"
	"github.com/xrplkit/walletconsole/log"
)

const (
	// ledgers a transaction stays valid for after submission
	defaultLastLedgerOffset = 20

	minFeeDrops = 10
	maxFeeDrops = 2000

	unknownErrorMessage = "Unknown error during transaction"

	defaultSimulateMessage = "Simulating transaction..."
	defaultSubmitMessage   = "Submitting transaction..."
)

// StateProvider the ledger state reads the executor needs
type StateProvider interface {
	GetAccountData(network, address string, forceRefresh bool) (*ledger.AccountData, error)
	GetFeeAndServerInfo(network string, forceRefresh bool) (*ledger.FeeResult, *ledger.ServerInfoResult, error)
	InvalidateAccount(network, address string)
}

// Gateway signs and submits on one network
type Gateway interface {
	Sign(tx *ledger.Tx, material *ledger.SigningMaterial) (*ledger.SignedTx, error)
	Submit(signed *ledger.SignedTx) (*ledger.SubmitResult, error)
	Simulate(txJSON map[string]interface{}) (*ledger.SubmitResult, error)
}

// UISink receives progress signals for whatever front end is attached
type UISink interface {
	SetBusy(busy bool)
	Notify(level, message string)
	Preview(txJSON map[string]interface{})
}

// AlertSink is told before a destructive transaction is submitted
type AlertSink interface {
	DestructiveAction(network, account, txType string)
}

// Options one submission
type Options struct {
	Network string
	Account string
	Tx      *ledger.Tx
	Signing *ledger.SigningMaterial

	// dry run against the open ledger instead of submitting
	Simulate bool

	// progress and failure texts of the caller, defaults apply
	// when left empty
	SimulateMessage        string
	SubmitMessage          string
	InsufficientXRPMessage string

	Memo             string
	TicketSequence   uint32
	LastLedgerOffset uint32

	OnSuccess func(result *ledger.SubmitResult)
	OnFailure func(result *ledger.SubmitResult)
}

// Executor runs submissions against a state provider and gateway
type Executor struct {
	state      StateProvider
	ui         UISink
	alerts     AlertSink
	newGateway func(network string) (Gateway, error)
}

// New builds an executor. alerts may be nil when alerting is disabled.
func New(state StateProvider, ui UISink, alerts AlertSink, newGateway func(network string) (Gateway, error)) *Executor {
	return &Executor{
		state:      state,
		ui:         ui,
		alerts:     alerts,
		newGateway: newGateway,
	}
}

// Execute runs one submission end to end. The returned result is never
// nil, failures carry a human readable ErrorMessage. The busy signal
// is cleared no matter how the submission ends.
func (e *Executor) Execute(ctx context.Context, opts *Options) *ledger.SubmitResult {
	if opts == nil {
		opts = &Options{}
	}
	e.ui.SetBusy(true)
	defer e.ui.SetBusy(false)

	result := e.execute(ctx, opts)
	if result.ErrorMessage == "" {
		if opts.OnSuccess != nil {
			opts.OnSuccess(result)
		}
	} else {
		e.ui.Notify("error", result.ErrorMessage)
		if opts.OnFailure != nil {
			opts.OnFailure(result)
		}
	}
	return result
}

func (e *Executor) execute(ctx context.Context, opts *Options) *ledger.SubmitResult {
	if opts == nil || opts.Tx == nil {
		return failure(nil, unknownErrorMessage)
	}
	tx := opts.Tx
	log.Info("executing transaction", "network", opts.Network, "account", opts.Account, "type", tx.Type, "simulate", opts.Simulate)

	// preconditions are fetched concurrently through the cache,
	// reusing whatever is still fresh
	var (
		accountData *ledger.AccountData
		fee         *ledger.FeeResult
		serverInfo  *ledger.ServerInfoResult
	)
	if err := ctx.Err(); err != nil {
		return failure(err, unknownErrorMessage)
	}
	var group errgroup.Group
	group.Go(func() error {
		var err error
		accountData, err = e.state.GetAccountData(opts.Network, opts.Account, false)
		return err
	})
	group.Go(func() error {
		var err error
		fee, serverInfo, err = e.state.GetFeeAndServerInfo(opts.Network, false)
		return err
	})
	if err := group.Wait(); err != nil {
		log.Warn("precondition fetch failed", "account", opts.Account, "err", err)
		return failure(err, unknownErrorMessage)
	}

	feeDrops := e.computeFee(fee, opts.Signing)
	if msg := checkBalance(accountData, tx, feeDrops); msg != "" {
		if opts.InsufficientXRPMessage != "" {
			msg = opts.InsufficientXRPMessage
		}
		return failure(nil, msg)
	}

	common := ledger.CommonFields{
		Sequence:       accountData.Sequence,
		TicketSequence: opts.TicketSequence,
		FeeDrops:       feeDrops,
		Memo:           opts.Memo,
	}
	offset := opts.LastLedgerOffset
	if offset == 0 {
		offset = defaultLastLedgerOffset
	}
	if serverInfo.Info.ValidatedLedger != nil {
		common.LastLedgerSequence = serverInfo.Info.ValidatedLedger.Seq + offset
	}
	if err := tx.ApplyCommon(common); err != nil {
		return failure(err, unknownErrorMessage)
	}

	e.ui.Notify("info", workingMessage(opts))
	e.ui.Preview(tx.JSON)

	gateway, err := e.newGateway(opts.Network)
	if err != nil {
		return failure(err, unknownErrorMessage)
	}

	if opts.Simulate {
		return e.interpret(gateway.Simulate(tx.JSON))
	}

	if tx.Destructive && e.alerts != nil {
		e.alerts.DestructiveAction(opts.Network, opts.Account, tx.Type)
	}

	signed, err := gateway.Sign(tx, opts.Signing)
	if err != nil || signed == nil {
		log.Warn("signing failed", "type", tx.Type, "err", err)
		return failure(err, "Failed to sign transaction.")
	}

	result := e.interpret(gateway.Submit(signed))
	// submitted or not, the account state on the server may have moved
	e.state.InvalidateAccount(opts.Network, opts.Account)
	return result
}

// interpret folds a submission outcome into a result with a populated
// ErrorMessage on failure
func (e *Executor) interpret(result *ledger.SubmitResult, err error) *ledger.SubmitResult {
	if err != nil {
		return failure(err, unknownErrorMessage)
	}
	if result == nil {
		return failure(nil, unknownErrorMessage)
	}
	if ledger.IsSuccessCode(result.EngineResult) {
		log.Info("transaction accepted", "engineResult", result.EngineResult, "hash", result.TxHash())
		return result
	}
	if ledger.IsQueuedCode(result.EngineResult) {
		log.Info("transaction queued", "hash", result.TxHash())
		return result
	}
	result.ErrorMessage = ledger.ResultMessage(result.EngineResult, result.EngineResultMessage)
	log.Warn("transaction rejected", "engineResult", result.EngineResult, "message", result.ErrorMessage, "hash", result.TxHash())
	return result
}

// workingMessage picks the progress text of the submission mode
func workingMessage(opts *Options) string {
	if opts.Simulate {
		if opts.SimulateMessage != "" {
			return opts.SimulateMessage
		}
		return defaultSimulateMessage
	}
	if opts.SubmitMessage != "" {
		return opts.SubmitMessage
	}
	return defaultSubmitMessage
}

// computeFee picks the open ledger fee inside sane bounds and scales
// it for the extra signatures of a multisigned transaction
func (e *Executor) computeFee(fee *ledger.FeeResult, material *ledger.SigningMaterial) int64 {
	drops := fee.OpenLedgerFeeDrops()
	if drops < minFeeDrops {
		drops = minFeeDrops
	}
	if drops > maxFeeDrops {
		drops = maxFeeDrops
	}
	if material != nil && material.IsMultiSign() {
		drops *= int64(1 + len(material.SignerAddresses))
	}
	return drops
}

// checkBalance refuses submissions whose XRP spend plus fee exceeds
// the account balance
func checkBalance(accountData *ledger.AccountData, tx *ledger.Tx, feeDrops int64) string {
	spend := feeDrops
	if amount, ok := tx.JSON["Amount"].(string); ok {
		drops, err := strconv.ParseInt(amount, 10, 64)
		if err == nil {
			spend += drops
		}
	}
	if accountData.BalanceDrops() < spend {
		return fmt.Sprintf("Insufficient XRP balance: have %v, need %v",
			ledger.DropsToXRP(accountData.BalanceDrops()), ledger.DropsToXRP(spend))
	}
	return ""
}

// failure builds a failed result. The generic fallback message yields
// to the underlying error's own text, fixed messages do not.
func failure(err error, message string) *ledger.SubmitResult {
	if err != nil {
		log.Debug("transaction failure detail", "err", err)
		if message == unknownErrorMessage && err.Error() != "" {
			message = err.Error()
		}
	}
	return &ledger.SubmitResult{ErrorMessage: message}
}
