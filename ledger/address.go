package ledger

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rubblelabs/ripple/crypto"
	"github.com/rubblelabs/ripple/data"
)

var (
	addressRgx = regexp.MustCompile(`^r[1-9a-km-zA-HJ-NP-Z]{24,34}$`)
	seedRgx    = regexp.MustCompile(`^s[1-9a-km-zA-HJ-NP-Z]{20,40}$`)
)

// IsValidAddress checks a classic address (prefix and base58 alphabet,
// then the checksum through the decoder)
func IsValidAddress(address string) bool {
	if !addressRgx.MatchString(address) {
		return false
	}
	_, err := data.NewAccountFromAddress(address)
	return err == nil
}

// IsValidSeed checks a family seed including its checksum
func IsValidSeed(seed string) bool {
	if !seedRgx.MatchString(seed) {
		return false
	}
	_, err := crypto.NewRippleHashCheck(seed, crypto.RIPPLE_FAMILY_SEED)
	return err == nil
}

// KeyFromSeed derives the signing key of a family seed.
// Seeds starting with "sEd" hold ed25519 key material, everything
// else derives a secp256k1 key at sequence zero.
func KeyFromSeed(seed string) (crypto.Key, *uint32, error) {
	shash, err := crypto.NewRippleHashCheck(seed, crypto.RIPPLE_FAMILY_SEED)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid seed: %w", err)
	}
	if strings.HasPrefix(seed, "sEd") {
		key, err := crypto.NewEd25519Key(shash.Payload())
		if err != nil {
			return nil, nil, err
		}
		return key, nil, nil
	}
	keySequence := uint32(0)
	key, err := crypto.NewECDSAKey(shash.Payload())
	if err != nil {
		return nil, nil, err
	}
	return key, &keySequence, nil
}

// AddressFromSeed derives the classic address a seed controls
func AddressFromSeed(seed string) (string, error) {
	key, keySequence, err := KeyFromSeed(seed)
	if err != nil {
		return "", err
	}
	prefix := []byte{0}
	return crypto.Base58Encode(append(prefix, key.Id(keySequence)...), crypto.ALPHABET), nil
}

// SeedMatchesAddress reports whether a seed controls the given address,
// either as the master key or via any key at all when address is empty
func SeedMatchesAddress(seed, address string) bool {
	derived, err := AddressFromSeed(seed)
	if err != nil {
		return false
	}
	if address == "" {
		return true
	}
	return derived == address
}
