package wallet

import (
	"fmt"

	"github.com/xrplkit/walletconsole/ledger"
	"github.com/xrplkit/walletconsole/log"
	"github.com/xrplkit/walletconsole/params"
)

// StoredAccount a saved account, the seed stays encrypted at rest
type StoredAccount struct {
	Address string         `json:"address"`
	Label   string         `json:"label,omitempty"`
	Seed    *encryptedSeed `json:"seed,omitempty"`
}

// Issuer a known currency issuer shown in the console's pickers
type Issuer struct {
	Currency string `json:"currency"`
	Address  string `json:"address"`
	Label    string `json:"label,omitempty"`
}

// Destination a saved payment destination
type Destination struct {
	Address string  `json:"address"`
	Tag     *uint32 `json:"tag,omitempty"`
	Label   string  `json:"label,omitempty"`
}

// SignerConfig the locally remembered multi signing setup of an account
type SignerConfig struct {
	Quorum  uint32                  `json:"quorum"`
	Entries []ledger.SignerEntryArg `json:"entries"`
}

// SelectedNetwork returns the persisted network choice,
// the configured default when none was saved yet
func (s *Store) SelectedNetwork() string {
	var name string
	ok, err := s.getJSON(keySelectedNetwork, &name)
	if err != nil || !ok || name == "" {
		return params.GetDefaultNetwork()
	}
	return name
}

// SetSelectedNetwork persists the network choice
func (s *Store) SetSelectedNetwork(name string) error {
	if _, err := params.GetNetwork(name); err != nil {
		return err
	}
	return s.putJSON(keySelectedNetwork, name)
}

// SaveAccount stores an account, encrypting the seed under password.
// An empty seed saves a watch only account.
func (s *Store) SaveAccount(address, label, seed, password string) error {
	if !ledger.IsValidAddress(address) {
		return fmt.Errorf("invalid address '%v'", address)
	}
	account := &StoredAccount{Address: address, Label: label}
	if seed != "" {
		if !ledger.IsValidSeed(seed) {
			return fmt.Errorf("invalid seed for account '%v'", address)
		}
		if password == "" {
			return fmt.Errorf("a password is required to store a seed")
		}
		sealed, err := encryptSeed(seed, password)
		if err != nil {
			return err
		}
		account.Seed = sealed
	}
	if err := s.putJSON(prefixWallet+address, account); err != nil {
		return err
	}
	log.Info("saved account", "address", address, "watchOnly", account.Seed == nil)
	return nil
}

// GetAccount loads a saved account without touching its seed
func (s *Store) GetAccount(address string) (*StoredAccount, error) {
	var account StoredAccount
	ok, err := s.getJSON(prefixWallet+address, &account)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("account '%v' is not saved", address)
	}
	return &account, nil
}

// Accounts lists the addresses of all saved accounts
func (s *Store) Accounts() ([]string, error) {
	return s.keysWithPrefix(prefixWallet)
}

// DeleteAccount removes a saved account and its signer and regular key
// state
func (s *Store) DeleteAccount(address string) error {
	if err := s.delete(prefixWallet + address); err != nil {
		return err
	}
	if err := s.delete(prefixSigners + address); err != nil {
		return err
	}
	return s.delete(prefixRegularKey + address)
}

// UnlockSeed decrypts the seed of a saved account
func (s *Store) UnlockSeed(address, password string) (string, error) {
	account, err := s.GetAccount(address)
	if err != nil {
		return "", err
	}
	if account.Seed == nil {
		return "", fmt.Errorf("account '%v' is watch only", address)
	}
	return decryptSeed(account.Seed, password)
}

// SetSignerConfig remembers the multi signing setup of an account
func (s *Store) SetSignerConfig(address string, config *SignerConfig) error {
	for _, entry := range config.Entries {
		if !ledger.IsValidAddress(entry.Account) {
			return fmt.Errorf("invalid signer address '%v'", entry.Account)
		}
	}
	return s.putJSON(prefixSigners+address, config)
}

// GetSignerConfig returns the remembered setup, nil when none is saved
func (s *Store) GetSignerConfig(address string) (*SignerConfig, error) {
	var config SignerConfig
	ok, err := s.getJSON(prefixSigners+address, &config)
	if err != nil || !ok {
		return nil, err
	}
	return &config, nil
}

// SetRegularKeySeed stores the encrypted regular key seed of an account
func (s *Store) SetRegularKeySeed(address, seed, password string) error {
	if !ledger.IsValidSeed(seed) {
		return fmt.Errorf("invalid regular key seed for account '%v'", address)
	}
	sealed, err := encryptSeed(seed, password)
	if err != nil {
		return err
	}
	return s.putJSON(prefixRegularKey+address, sealed)
}

// GetRegularKeySeed decrypts the regular key seed of an account,
// "" when none is stored
func (s *Store) GetRegularKeySeed(address, password string) (string, error) {
	var sealed encryptedSeed
	ok, err := s.getJSON(prefixRegularKey+address, &sealed)
	if err != nil || !ok {
		return "", err
	}
	return decryptSeed(&sealed, password)
}

// DeleteRegularKeySeed forgets the stored regular key seed
func (s *Store) DeleteRegularKeySeed(address string) error {
	return s.delete(prefixRegularKey + address)
}

// KnownIssuers lists the saved issuers
func (s *Store) KnownIssuers() ([]Issuer, error) {
	var issuers []Issuer
	if _, err := s.getJSON(keyKnownIssuers, &issuers); err != nil {
		return nil, err
	}
	return issuers, nil
}

// AddKnownIssuer appends an issuer, replacing a saved entry with the
// same currency and address
func (s *Store) AddKnownIssuer(issuer Issuer) error {
	if !ledger.IsValidAddress(issuer.Address) {
		return fmt.Errorf("invalid issuer address '%v'", issuer.Address)
	}
	if !ledger.IsValidCurrencyCode(issuer.Currency) {
		return fmt.Errorf("invalid issuer currency '%v'", issuer.Currency)
	}
	issuers, err := s.KnownIssuers()
	if err != nil {
		return err
	}
	kept := issuers[:0]
	for _, existing := range issuers {
		if existing.Currency != issuer.Currency || existing.Address != issuer.Address {
			kept = append(kept, existing)
		}
	}
	return s.putJSON(keyKnownIssuers, append(kept, issuer))
}

// RemoveKnownIssuer drops an issuer entry
func (s *Store) RemoveKnownIssuer(currency, address string) error {
	issuers, err := s.KnownIssuers()
	if err != nil {
		return err
	}
	kept := issuers[:0]
	for _, existing := range issuers {
		if existing.Currency != currency || existing.Address != address {
			kept = append(kept, existing)
		}
	}
	return s.putJSON(keyKnownIssuers, kept)
}

// CustomDestinations lists the saved destinations
func (s *Store) CustomDestinations() ([]Destination, error) {
	var destinations []Destination
	if _, err := s.getJSON(keyDestinations, &destinations); err != nil {
		return nil, err
	}
	return destinations, nil
}

// AddCustomDestination appends a destination, replacing a saved entry
// with the same address
func (s *Store) AddCustomDestination(destination Destination) error {
	if !ledger.IsValidAddress(destination.Address) {
		return fmt.Errorf("invalid destination address '%v'", destination.Address)
	}
	destinations, err := s.CustomDestinations()
	if err != nil {
		return err
	}
	kept := destinations[:0]
	for _, existing := range destinations {
		if existing.Address != destination.Address {
			kept = append(kept, existing)
		}
	}
	return s.putJSON(keyDestinations, append(kept, destination))
}

// RemoveCustomDestination drops a destination entry
func (s *Store) RemoveCustomDestination(address string) error {
	destinations, err := s.CustomDestinations()
	if err != nil {
		return err
	}
	kept := destinations[:0]
	for _, existing := range destinations {
		if existing.Address != address {
			kept = append(kept, existing)
		}
	}
	return s.putJSON(keyDestinations, kept)
}
