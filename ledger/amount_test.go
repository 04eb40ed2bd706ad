package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXRPToDrops(t *testing.T) {
	drops, err := XRPToDrops("1")
	assert.Nil(t, err)
	assert.Equal(t, int64(1000000), drops)

	drops, err = XRPToDrops("1.5")
	assert.Nil(t, err)
	assert.Equal(t, int64(1500000), drops)

	drops, err = XRPToDrops("0.000001")
	assert.Nil(t, err)
	assert.Equal(t, int64(1), drops)

	drops, err = XRPToDrops(".5")
	assert.Nil(t, err)
	assert.Equal(t, int64(500000), drops)

	_, err = XRPToDrops("")
	assert.Error(t, err)

	_, err = XRPToDrops("-1")
	assert.Error(t, err)

	_, err = XRPToDrops("1.0000001")
	assert.Error(t, err)

	_, err = XRPToDrops("abc")
	assert.Error(t, err)
}

func TestDropsToXRP(t *testing.T) {
	assert.Equal(t, "1", DropsToXRP(1000000))
	assert.Equal(t, "1.5", DropsToXRP(1500000))
	assert.Equal(t, "0.000001", DropsToXRP(1))
	assert.Equal(t, "0", DropsToXRP(0))
	assert.Equal(t, "-2.25", DropsToXRP(-2250000))
}

func TestCurrencyCodes(t *testing.T) {
	assert.True(t, IsValidCurrencyCode("USD"))
	assert.True(t, IsValidCurrencyCode("534F4C4F00000000000000000000000000000000"))
	assert.False(t, IsValidCurrencyCode("XRP"))
	assert.False(t, IsValidCurrencyCode("US"))
	assert.False(t, IsValidCurrencyCode("not hex and too long for standard"))

	wire, err := CurrencyToWire("USD")
	assert.Nil(t, err)
	assert.Equal(t, "USD", wire)

	wire, err = CurrencyToWire("MyToken")
	assert.Nil(t, err)
	assert.Len(t, wire, 40)

	_, err = CurrencyToWire("this code is far too long to fit the field")
	assert.Error(t, err)
}

func TestAmountArgToWire(t *testing.T) {
	native := AmountArg{Value: "2.5"}
	wire, err := native.ToWire()
	assert.Nil(t, err)
	assert.Equal(t, "2500000", wire)

	issued := AmountArg{Currency: "USD", Issuer: "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh", Value: "10"}
	wire, err = issued.ToWire()
	assert.Nil(t, err)
	obj, ok := wire.(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "USD", obj["currency"])
	assert.Equal(t, "10", obj["value"])

	missingIssuer := AmountArg{Currency: "USD", Value: "10"}
	_, err = missingIssuer.ToWire()
	assert.Error(t, err)
}
