package ledger

import (
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rubblelabs/ripple/data"
)

const xrpDecimals = 6

var (
	errEmptyAmount      = errors.New("empty amount value")
	errTooManyDecimals  = errors.New("too many decimal places for XRP")
	errNegativeAmount   = errors.New("amount must be positive")
	standardCurrencyRgx = regexp.MustCompile(`^[A-Za-z0-9?!@#$%^&*<>(){}\[\]|]{3}$`)
	hexCurrencyRgx      = regexp.MustCompile(`^[0-9A-Fa-f]{40}$`)
)

// AmountArg an amount as entered in the console.
// An empty Currency (or "XRP") means the native currency.
type AmountArg struct {
	Currency string `json:"currency,omitempty"`
	Issuer   string `json:"issuer,omitempty"`
	Value    string `json:"value"`
}

// IsNative reports whether the amount is in XRP
func (a *AmountArg) IsNative() bool {
	return a.Currency == "" || strings.EqualFold(a.Currency, "XRP")
}

// ToWire converts the amount to the rippled JSON representation,
// a drops string for XRP or a currency/issuer/value object otherwise.
func (a *AmountArg) ToWire() (interface{}, error) {
	if a.IsNative() {
		drops, err := XRPToDrops(a.Value)
		if err != nil {
			return nil, err
		}
		return strconv.FormatInt(drops, 10), nil
	}
	currency, err := CurrencyToWire(a.Currency)
	if err != nil {
		return nil, err
	}
	if a.Issuer == "" {
		return nil, errors.New("issued currency amount must have an issuer")
	}
	return map[string]interface{}{
		"currency": currency,
		"issuer":   a.Issuer,
		"value":    a.Value,
	}, nil
}

// ToNative converts the amount to the binary codec representation
func (a *AmountArg) ToNative() (*data.Amount, error) {
	if a.IsNative() {
		drops, err := XRPToDrops(a.Value)
		if err != nil {
			return nil, err
		}
		return data.NewAmount(drops)
	}
	currency, err := CurrencyToWire(a.Currency)
	if err != nil {
		return nil, err
	}
	if a.Issuer == "" {
		return nil, errors.New("issued currency amount must have an issuer")
	}
	return data.NewAmount(fmt.Sprintf("%s/%s/%s", a.Value, currency, a.Issuer))
}

// XRPToDrops converts a decimal XRP value to drops.
// The value may have at most six decimal places.
func XRPToDrops(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errEmptyAmount
	}
	if strings.HasPrefix(value, "-") {
		return 0, errNegativeAmount
	}
	whole, frac := value, ""
	if idx := strings.Index(value, "."); idx >= 0 {
		whole, frac = value[:idx], value[idx+1:]
	}
	if len(frac) > xrpDecimals {
		return 0, errTooManyDecimals
	}
	frac += strings.Repeat("0", xrpDecimals-len(frac))
	if whole == "" {
		whole = "0"
	}
	drops, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid XRP value '%v'", value)
	}
	return drops, nil
}

// DropsToXRP renders a drops count as a decimal XRP string
func DropsToXRP(drops int64) string {
	sign := ""
	if drops < 0 {
		sign = "-"
		drops = -drops
	}
	whole := drops / 1000000
	frac := drops % 1000000
	if frac == 0 {
		return fmt.Sprintf("%s%d", sign, whole)
	}
	fracStr := strings.TrimRight(fmt.Sprintf("%06d", frac), "0")
	return fmt.Sprintf("%s%d.%s", sign, whole, fracStr)
}

// IsValidCurrencyCode accepts a 3 character standard code or a
// 40 character hex code ("XRP" itself is not a valid issued code)
func IsValidCurrencyCode(code string) bool {
	if strings.EqualFold(code, "XRP") {
		return false
	}
	return standardCurrencyRgx.MatchString(code) || hexCurrencyRgx.MatchString(code)
}

// CurrencyToWire converts a currency code to its wire form.
// Codes longer than 3 characters are hex encoded and zero padded
// to the 160 bit field width.
func CurrencyToWire(code string) (string, error) {
	if standardCurrencyRgx.MatchString(code) {
		return code, nil
	}
	if hexCurrencyRgx.MatchString(code) {
		return strings.ToUpper(code), nil
	}
	if len(code) > 3 && len(code) <= 20 {
		encoded := strings.ToUpper(hex.EncodeToString([]byte(code)))
		return encoded + strings.Repeat("0", 40-len(encoded)), nil
	}
	return "", fmt.Errorf("invalid currency code '%v'", code)
}
