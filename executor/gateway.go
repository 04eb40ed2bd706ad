package executor

import (
	"github.com/xrplkit/walletconsole/cache"
	"github.com/xrplkit/walletconsole/ledger"
)

// clientGateway signs and submits through a network client
type clientGateway struct {
	client *ledger.Client
}

// NewGatewayFactory wires the executor to the shared client pool
func NewGatewayFactory(state *cache.State) func(network string) (Gateway, error) {
	return func(network string) (Gateway, error) {
		client, err := state.Client(network)
		if err != nil {
			return nil, err
		}
		return &clientGateway{client: client}, nil
	}
}

func (g *clientGateway) Sign(tx *ledger.Tx, material *ledger.SigningMaterial) (*ledger.SignedTx, error) {
	return ledger.SignTx(g.client, tx, material)
}

func (g *clientGateway) Submit(signed *ledger.SignedTx) (*ledger.SubmitResult, error) {
	return ledger.SubmitTx(g.client, signed)
}

func (g *clientGateway) Simulate(txJSON map[string]interface{}) (*ledger.SubmitResult, error) {
	return g.client.Simulate(txJSON)
}
