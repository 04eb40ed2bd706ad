package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xrplkit/walletconsole/ledger"
)

const (
	testAccount     = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	testDestination = "rrrrrrrrrrrrrrrrrrrrrhoLvTp"
	testSeed        = "snoPBrXtMeMyMHUVTgbuqAfg1SUTb"
)

type fakeState struct {
	accountData    *ledger.AccountData
	accountErr     error
	fee            *ledger.FeeResult
	serverInfo     *ledger.ServerInfoResult
	feeErr         error
	invalidated    []string
	accountRefresh []bool
	feeRefresh     []bool
}

func (f *fakeState) GetAccountData(network, address string, forceRefresh bool) (*ledger.AccountData, error) {
	f.accountRefresh = append(f.accountRefresh, forceRefresh)
	return f.accountData, f.accountErr
}

func (f *fakeState) GetFeeAndServerInfo(network string, forceRefresh bool) (*ledger.FeeResult, *ledger.ServerInfoResult, error) {
	f.feeRefresh = append(f.feeRefresh, forceRefresh)
	return f.fee, f.serverInfo, f.feeErr
}

func (f *fakeState) InvalidateAccount(network, address string) {
	f.invalidated = append(f.invalidated, address)
}

type fakeUI struct {
	busy     []bool
	notices  []string
	previews []map[string]interface{}
}

func (f *fakeUI) SetBusy(busy bool)            { f.busy = append(f.busy, busy) }
func (f *fakeUI) Notify(level, message string) { f.notices = append(f.notices, level+": "+message) }
func (f *fakeUI) Preview(txJSON map[string]interface{}) {
	f.previews = append(f.previews, txJSON)
}

type fakeGateway struct {
	signErr      error
	signNil      bool
	signed       *ledger.SignedTx
	submitResult *ledger.SubmitResult
	submitErr    error

	signCalls     int
	submitCalls   int
	simulateCalls int
}

func (f *fakeGateway) Sign(tx *ledger.Tx, material *ledger.SigningMaterial) (*ledger.SignedTx, error) {
	f.signCalls++
	if f.signErr != nil {
		return nil, f.signErr
	}
	if f.signNil {
		return nil, nil
	}
	if f.signed != nil {
		return f.signed, nil
	}
	return &ledger.SignedTx{Blob: "DEADBEEF", Hash: "AA"}, nil
}

func (f *fakeGateway) Submit(signed *ledger.SignedTx) (*ledger.SubmitResult, error) {
	f.submitCalls++
	return f.submitResult, f.submitErr
}

func (f *fakeGateway) Simulate(txJSON map[string]interface{}) (*ledger.SubmitResult, error) {
	f.simulateCalls++
	return f.submitResult, f.submitErr
}

type fakeAlerts struct {
	calls []string
}

func (f *fakeAlerts) DestructiveAction(network, account, txType string) {
	f.calls = append(f.calls, txType)
}

func healthyState(balanceDrops string) *fakeState {
	return &fakeState{
		accountData: &ledger.AccountData{
			Account:  testAccount,
			Balance:  balanceDrops,
			Sequence: 42,
		},
		fee: &ledger.FeeResult{Drops: ledger.FeeDrops{OpenLedgerFee: "10"}},
		serverInfo: &ledger.ServerInfoResult{
			Info: ledger.ServerInfo{
				ValidatedLedger: &ledger.ValidatedLedgerInfo{Seq: 1000},
			},
		},
	}
}

func paymentTx(t *testing.T) *ledger.Tx {
	t.Helper()
	tx, err := ledger.NewPayment(testAccount, ledger.PaymentArgs{
		Destination: testDestination,
		Amount:      ledger.AmountArg{Value: "1"},
	})
	assert.Nil(t, err)
	return tx
}

func newTestExecutor(state *fakeState, ui *fakeUI, alerts AlertSink, gateway Gateway) *Executor {
	return New(state, ui, alerts, func(network string) (Gateway, error) {
		return gateway, nil
	})
}

func TestExecuteSuccess(t *testing.T) {
	state := healthyState("5000000")
	ui := &fakeUI{}
	gateway := &fakeGateway{
		submitResult: &ledger.SubmitResult{
			EngineResult: "tesSUCCESS",
			TxJSON:       map[string]interface{}{"hash": "CAFE"},
		},
	}
	var succeeded *ledger.SubmitResult

	exec := newTestExecutor(state, ui, nil, gateway)
	result := exec.Execute(context.Background(), &Options{
		Network: "testnet",
		Account: testAccount,
		Tx:      paymentTx(t),
		Signing: &ledger.SigningMaterial{Seed: testSeed},
		OnSuccess: func(r *ledger.SubmitResult) {
			succeeded = r
		},
	})

	assert.Empty(t, result.ErrorMessage)
	assert.Equal(t, "CAFE", result.TxHash())
	assert.Same(t, result, succeeded)
	assert.Equal(t, 1, gateway.signCalls)
	assert.Equal(t, 1, gateway.submitCalls)
	assert.Equal(t, []string{testAccount}, state.invalidated)
	// busy flag raised then cleared
	assert.Equal(t, []bool{true, false}, ui.busy)
	// preconditions go through the cache without forcing a refresh
	assert.Equal(t, []bool{false}, state.accountRefresh)
	assert.Equal(t, []bool{false}, state.feeRefresh)
	// working signal and unsigned transaction preview were surfaced
	assert.Contains(t, ui.notices, "info: Submitting transaction...")
	assert.Len(t, ui.previews, 1)
	assert.Equal(t, "Payment", ui.previews[0]["TransactionType"])
}

func TestExecuteStampsCommonFields(t *testing.T) {
	state := healthyState("5000000")
	gateway := &fakeGateway{
		submitResult: &ledger.SubmitResult{EngineResult: "tesSUCCESS"},
	}
	tx := paymentTx(t)

	exec := newTestExecutor(state, &fakeUI{}, nil, gateway)
	exec.Execute(context.Background(), &Options{
		Network: "testnet",
		Account: testAccount,
		Tx:      tx,
		Signing: &ledger.SigningMaterial{Seed: testSeed},
	})

	assert.Equal(t, uint32(42), tx.JSON["Sequence"])
	assert.Equal(t, "10", tx.JSON["Fee"])
	assert.Equal(t, uint32(1020), tx.JSON["LastLedgerSequence"])
}

func TestExecuteInsufficientBalance(t *testing.T) {
	// 1 XRP payment plus fee does not fit into 1 XRP
	state := healthyState("1000000")
	ui := &fakeUI{}
	gateway := &fakeGateway{}

	exec := newTestExecutor(state, ui, nil, gateway)
	result := exec.Execute(context.Background(), &Options{
		Network: "testnet",
		Account: testAccount,
		Tx:      paymentTx(t),
		Signing: &ledger.SigningMaterial{Seed: testSeed},
	})

	assert.Contains(t, result.ErrorMessage, "Insufficient XRP balance")
	assert.Equal(t, 0, gateway.signCalls)
	assert.Equal(t, 0, gateway.submitCalls)
	assert.Equal(t, []bool{true, false}, ui.busy)
	// the short circuit happens before the working signal
	assert.Empty(t, ui.previews)
}

func TestExecuteInsufficientBalanceCustomMessage(t *testing.T) {
	state := healthyState("1000000")
	gateway := &fakeGateway{}

	exec := newTestExecutor(state, &fakeUI{}, nil, gateway)
	result := exec.Execute(context.Background(), &Options{
		Network:                "testnet",
		Account:                testAccount,
		Tx:                     paymentTx(t),
		Signing:                &ledger.SigningMaterial{Seed: testSeed},
		InsufficientXRPMessage: "Not enough XRP to send this payment",
	})

	assert.Equal(t, "Not enough XRP to send this payment", result.ErrorMessage)
	assert.Equal(t, 0, gateway.signCalls)
}

func TestExecuteSignFailure(t *testing.T) {
	state := healthyState("5000000")
	gateway := &fakeGateway{signErr: errors.New("bad key")}
	var failed *ledger.SubmitResult

	exec := newTestExecutor(state, &fakeUI{}, nil, gateway)
	result := exec.Execute(context.Background(), &Options{
		Network: "testnet",
		Account: testAccount,
		Tx:      paymentTx(t),
		Signing: &ledger.SigningMaterial{Seed: testSeed},
		OnFailure: func(r *ledger.SubmitResult) {
			failed = r
		},
	})

	assert.Equal(t, "Failed to sign transaction.", result.ErrorMessage)
	assert.Same(t, result, failed)
	assert.Equal(t, 0, gateway.submitCalls)
}

func TestExecuteNilSignedTreatedAsFailure(t *testing.T) {
	state := healthyState("5000000")
	gateway := &fakeGateway{signNil: true}

	exec := newTestExecutor(state, &fakeUI{}, nil, gateway)
	result := exec.Execute(context.Background(), &Options{
		Network: "testnet",
		Account: testAccount,
		Tx:      paymentTx(t),
		Signing: &ledger.SigningMaterial{Seed: testSeed},
	})

	assert.Equal(t, "Failed to sign transaction.", result.ErrorMessage)
}

func TestExecutePreconditionFailure(t *testing.T) {
	state := healthyState("5000000")
	state.feeErr = errors.New("network down")
	ui := &fakeUI{}

	exec := newTestExecutor(state, ui, nil, &fakeGateway{})
	result := exec.Execute(context.Background(), &Options{
		Network: "testnet",
		Account: testAccount,
		Tx:      paymentTx(t),
		Signing: &ledger.SigningMaterial{Seed: testSeed},
	})

	// the transport error's own text wins over the generic fallback
	assert.Equal(t, "network down", result.ErrorMessage)
	assert.Equal(t, []bool{true, false}, ui.busy)
}

func TestExecuteEngineRejection(t *testing.T) {
	state := healthyState("5000000")
	gateway := &fakeGateway{
		submitResult: &ledger.SubmitResult{EngineResult: "tecNO_DST"},
	}

	exec := newTestExecutor(state, &fakeUI{}, nil, gateway)
	result := exec.Execute(context.Background(), &Options{
		Network: "testnet",
		Account: testAccount,
		Tx:      paymentTx(t),
		Signing: &ledger.SigningMaterial{Seed: testSeed},
	})

	assert.Equal(t, "The destination account does not exist.", result.ErrorMessage)
	assert.Equal(t, "unknown", result.TxHash())
	// account cache is dropped even for rejected submissions
	assert.Equal(t, []string{testAccount}, state.invalidated)
}

func TestExecuteSimulate(t *testing.T) {
	state := healthyState("5000000")
	gateway := &fakeGateway{
		submitResult: &ledger.SubmitResult{EngineResult: "tesSUCCESS"},
	}

	exec := newTestExecutor(state, &fakeUI{}, nil, gateway)
	result := exec.Execute(context.Background(), &Options{
		Network:  "testnet",
		Account:  testAccount,
		Tx:       paymentTx(t),
		Simulate: true,
	})

	assert.Empty(t, result.ErrorMessage)
	assert.Equal(t, 1, gateway.simulateCalls)
	assert.Equal(t, 0, gateway.signCalls)
	assert.Equal(t, 0, gateway.submitCalls)
}

func TestExecuteWorkingMessagePerMode(t *testing.T) {
	state := healthyState("5000000")
	gateway := &fakeGateway{
		submitResult: &ledger.SubmitResult{EngineResult: "tesSUCCESS"},
	}

	ui := &fakeUI{}
	exec := newTestExecutor(state, ui, nil, gateway)
	exec.Execute(context.Background(), &Options{
		Network:         "testnet",
		Account:         testAccount,
		Tx:              paymentTx(t),
		Simulate:        true,
		SimulateMessage: "Estimating payment outcome",
	})
	assert.Contains(t, ui.notices, "info: Estimating payment outcome")

	ui = &fakeUI{}
	exec = newTestExecutor(state, ui, nil, gateway)
	exec.Execute(context.Background(), &Options{
		Network:  "testnet",
		Account:  testAccount,
		Tx:       paymentTx(t),
		Simulate: true,
	})
	assert.Contains(t, ui.notices, "info: Simulating transaction...")
}

func TestExecuteDestructiveAlert(t *testing.T) {
	state := healthyState("5000000")
	alerts := &fakeAlerts{}
	gateway := &fakeGateway{
		submitResult: &ledger.SubmitResult{EngineResult: "tesSUCCESS"},
	}

	tx, err := ledger.NewSetRegularKey(testAccount, "")
	assert.Nil(t, err)

	exec := newTestExecutor(state, &fakeUI{}, alerts, gateway)
	exec.Execute(context.Background(), &Options{
		Network: "testnet",
		Account: testAccount,
		Tx:      tx,
		Signing: &ledger.SigningMaterial{Seed: testSeed},
	})

	assert.Equal(t, []string{"SetRegularKey"}, alerts.calls)
}

func TestComputeFeeMultisignScaling(t *testing.T) {
	exec := &Executor{}
	fee := &ledger.FeeResult{Drops: ledger.FeeDrops{OpenLedgerFee: "10"}}

	assert.Equal(t, int64(10), exec.computeFee(fee, nil))
	assert.Equal(t, int64(10), exec.computeFee(fee, &ledger.SigningMaterial{Seed: testSeed}))

	multi := &ledger.SigningMaterial{
		SignerAddresses: []string{testAccount, testDestination},
		SignerSeeds:     []string{testSeed, testSeed},
	}
	assert.Equal(t, int64(30), exec.computeFee(fee, multi))

	// floor and ceiling
	low := &ledger.FeeResult{Drops: ledger.FeeDrops{OpenLedgerFee: "1"}}
	assert.Equal(t, int64(minFeeDrops), exec.computeFee(low, nil))
	high := &ledger.FeeResult{Drops: ledger.FeeDrops{OpenLedgerFee: "99999"}}
	assert.Equal(t, int64(maxFeeDrops), exec.computeFee(high, nil))
}

func TestExecuteNilOptions(t *testing.T) {
	ui := &fakeUI{}
	exec := newTestExecutor(healthyState("1"), ui, nil, &fakeGateway{})

	result := exec.Execute(context.Background(), &Options{})
	assert.Equal(t, "Unknown error during transaction", result.ErrorMessage)
	assert.Equal(t, []bool{true, false}, ui.busy)
}
