package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xrplkit/walletconsole/params"
)

func init() {
	params.SetConfig(&params.ConsoleConfig{
		Identifier:     "walletconsole-test",
		DataDir:        "/tmp/walletconsole-test",
		DefaultNetwork: "testnet",
		Networks: []*params.NetworkConfig{
			{
				Name:      "testnet",
				WSServers: []string{"wss://s.altnet.rippletest.net:51233"},
				RPCServer: "https://s.altnet.rippletest.net:51234",
			},
			{
				Name:      "devnet",
				WSServers: []string{"wss://s.devnet.rippletest.net:51233"},
				RPCServer: "https://s.devnet.rippletest.net:51234",
			},
		},
	})
}

func TestClientMemoization(t *testing.T) {
	state := NewState()
	defer state.Close()

	first, err := state.Client("testnet")
	assert.Nil(t, err)
	second, err := state.Client("testnet")
	assert.Nil(t, err)
	assert.Same(t, first, second)

	// the empty name resolves to the default network's client
	byDefault, err := state.Client("")
	assert.Nil(t, err)
	assert.Same(t, first, byDefault)

	other, err := state.Client("devnet")
	assert.Nil(t, err)
	assert.NotSame(t, first, other)

	_, err = state.Client("nosuchnet")
	assert.Error(t, err)
}

func TestInvalidateAccount(t *testing.T) {
	state := NewState()
	defer state.Close()

	state.Store().Set("testnet:account:rAAA:info", 1, 0)
	state.Store().Set("testnet:account:rAAA:objects:check", 2, 0)
	state.Store().Set("testnet:network:fee", 3, 0)

	state.InvalidateAccount("testnet", "rAAA")

	_, ok := state.Store().Get("testnet:account:rAAA:info")
	assert.False(t, ok)
	_, ok = state.Store().Get("testnet:account:rAAA:objects:check")
	assert.False(t, ok)
	_, ok = state.Store().Get("testnet:network:fee")
	assert.True(t, ok)
}
