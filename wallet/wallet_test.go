package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xrplkit/walletconsole/ledger"
	"github.com/xrplkit/walletconsole/params"
)

const (
	testAddress = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	testSeed    = "snoPBrXtMeMyMHUVTgbuqAfg1SUTb"
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
		},
	})
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(t.TempDir())
	assert.Nil(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestEncryptDecryptSeed(t *testing.T) {
	sealed, err := encryptSeed(testSeed, "hunter2")
	assert.Nil(t, err)
	assert.NotContains(t, sealed.CipherText, testSeed)

	seed, err := decryptSeed(sealed, "hunter2")
	assert.Nil(t, err)
	assert.Equal(t, testSeed, seed)

	_, err = decryptSeed(sealed, "wrong")
	assert.Equal(t, errWrongPassword, err)
}

func TestSaveAndUnlockAccount(t *testing.T) {
	store := openTestStore(t)

	err := store.SaveAccount(testAddress, "ops", testSeed, "hunter2")
	assert.Nil(t, err)

	account, err := store.GetAccount(testAddress)
	assert.Nil(t, err)
	assert.Equal(t, "ops", account.Label)
	assert.NotNil(t, account.Seed)

	seed, err := store.UnlockSeed(testAddress, "hunter2")
	assert.Nil(t, err)
	assert.Equal(t, testSeed, seed)

	_, err = store.UnlockSeed(testAddress, "wrong")
	assert.Error(t, err)

	addresses, err := store.Accounts()
	assert.Nil(t, err)
	assert.Equal(t, []string{testAddress}, addresses)
}

func TestWatchOnlyAccount(t *testing.T) {
	store := openTestStore(t)

	err := store.SaveAccount(testAddress, "", "", "")
	assert.Nil(t, err)

	_, err = store.UnlockSeed(testAddress, "any")
	assert.Error(t, err)

	// storing a seed without a password is refused
	err = store.SaveAccount(testAddress, "", testSeed, "")
	assert.Error(t, err)
}

func TestDeleteAccountCascades(t *testing.T) {
	store := openTestStore(t)

	assert.Nil(t, store.SaveAccount(testAddress, "", testSeed, "pw"))
	assert.Nil(t, store.SetRegularKeySeed(testAddress, testSeed, "pw"))
	assert.Nil(t, store.SetSignerConfig(testAddress, &SignerConfig{
		Quorum:  1,
		Entries: []ledger.SignerEntryArg{{Account: "rrrrrrrrrrrrrrrrrrrrrhoLvTp", Weight: 1}},
	}))

	assert.Nil(t, store.DeleteAccount(testAddress))

	_, err := store.GetAccount(testAddress)
	assert.Error(t, err)
	config, err := store.GetSignerConfig(testAddress)
	assert.Nil(t, err)
	assert.Nil(t, config)
	seed, err := store.GetRegularKeySeed(testAddress, "pw")
	assert.Nil(t, err)
	assert.Empty(t, seed)
}

func TestSelectedNetwork(t *testing.T) {
	store := openTestStore(t)

	// default until a choice is saved
	assert.Equal(t, "testnet", store.SelectedNetwork())

	assert.Error(t, store.SetSelectedNetwork("nosuchnet"))
	assert.Nil(t, store.SetSelectedNetwork("testnet"))
	assert.Equal(t, "testnet", store.SelectedNetwork())
}

func TestKnownIssuers(t *testing.T) {
	store := openTestStore(t)

	issuer := Issuer{Currency: "USD", Address: testAddress, Label: "gateway"}
	assert.Nil(t, store.AddKnownIssuer(issuer))

	// same currency and address replaces instead of duplicating
	issuer.Label = "renamed"
	assert.Nil(t, store.AddKnownIssuer(issuer))

	issuers, err := store.KnownIssuers()
	assert.Nil(t, err)
	assert.Len(t, issuers, 1)
	assert.Equal(t, "renamed", issuers[0].Label)

	assert.Nil(t, store.RemoveKnownIssuer("USD", testAddress))
	issuers, err = store.KnownIssuers()
	assert.Nil(t, err)
	assert.Empty(t, issuers)

	assert.Error(t, store.AddKnownIssuer(Issuer{Currency: "XRP", Address: testAddress}))
	assert.Error(t, store.AddKnownIssuer(Issuer{Currency: "USD", Address: "bogus"}))
}

func TestCustomDestinations(t *testing.T) {
	store := openTestStore(t)

	tag := uint32(7)
	assert.Nil(t, store.AddCustomDestination(Destination{Address: testAddress, Tag: &tag}))
	assert.Nil(t, store.AddCustomDestination(Destination{Address: testAddress, Label: "replaced"}))

	destinations, err := store.CustomDestinations()
	assert.Nil(t, err)
	assert.Len(t, destinations, 1)
	assert.Equal(t, "replaced", destinations[0].Label)

	assert.Nil(t, store.RemoveCustomDestination(testAddress))
	destinations, err = store.CustomDestinations()
	assert.Nil(t, err)
	assert.Empty(t, destinations)
}
