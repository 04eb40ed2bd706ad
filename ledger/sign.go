package ledger

import (
	"errors"
	"fmt"

	"github.com/rubblelabs/ripple/data"

	"github.com/xrplkit/walletconsole/log"
)

// SigningMaterial the key material chosen for one submission.
// Seed is used for a single signature (master or regular key seed).
// SignerAddresses and SignerSeeds together request multi signing,
// both lists pair up by index.
type SigningMaterial struct {
	Seed            string
	SignerAddresses []string
	SignerSeeds     []string
}

// IsMultiSign reports whether multi signing was requested
func (m *SigningMaterial) IsMultiSign() bool {
	return len(m.SignerAddresses) > 0
}

// SignedTx a transaction ready for submission
type SignedTx struct {
	Blob        string
	Hash        string
	TxJSON      map[string]interface{}
	Multisigned bool
}

// SignTx signs a built transaction.
// Single signatures of locally serializable types are produced with the
// local codec, everything else goes through the server's sign commands.
func SignTx(c *Client, tx *Tx, material *SigningMaterial) (*SignedTx, error) {
	if material == nil {
		return nil, errors.New("no signing material")
	}
	if material.IsMultiSign() {
		return multiSignRemote(c, tx, material)
	}
	if material.Seed == "" {
		return nil, errors.New("no seed to sign with")
	}
	if tx.NativeSupported() {
		return signLocal(tx, material.Seed)
	}
	return signRemote(c, tx, material.Seed)
}

func signLocal(tx *Tx, seed string) (*SignedTx, error) {
	key, keySequence, err := KeyFromSeed(seed)
	if err != nil {
		return nil, err
	}
	if err := data.Sign(tx.Native, key, keySequence); err != nil {
		return nil, fmt.Errorf("sign %v failed: %w", tx.Type, err)
	}
	hash, raw, err := data.Raw(tx.Native)
	if err != nil {
		return nil, fmt.Errorf("serialize signed %v failed: %w", tx.Type, err)
	}
	log.Trace("signed transaction locally", "type", tx.Type, "hash", hash.String())
	return &SignedTx{
		Blob:   fmt.Sprintf("%X", raw),
		Hash:   hash.String(),
		TxJSON: tx.JSON,
	}, nil
}

func signRemote(c *Client, tx *Tx, seed string) (*SignedTx, error) {
	result, err := c.SignRemote(tx.JSON, seed)
	if err != nil {
		return nil, err
	}
	signed := &SignedTx{
		Blob:   result.TxBlob,
		TxJSON: result.TxJSON,
	}
	if result.TxJSON != nil {
		if hash, ok := result.TxJSON["hash"].(string); ok {
			signed.Hash = hash
		}
	}
	log.Trace("signed transaction remotely", "type", tx.Type, "hash", signed.Hash)
	return signed, nil
}

// multiSignRemote collects one sign_for signature per signer,
// chaining the growing tx_json through the signers in order.
// The transaction must carry an empty SigningPubKey on this path.
func multiSignRemote(c *Client, tx *Tx, material *SigningMaterial) (*SignedTx, error) {
	if len(material.SignerAddresses) != len(material.SignerSeeds) {
		return nil, errors.New("signer addresses and seeds do not pair up")
	}
	txJSON := make(map[string]interface{}, len(tx.JSON)+1)
	for k, v := range tx.JSON {
		txJSON[k] = v
	}
	txJSON["SigningPubKey"] = ""
	for i, signerAddress := range material.SignerAddresses {
		result, err := c.SignForRemote(signerAddress, txJSON, material.SignerSeeds[i])
		if err != nil {
			return nil, fmt.Errorf("sign_for with signer '%v' failed: %w", signerAddress, err)
		}
		if result.TxJSON == nil {
			return nil, fmt.Errorf("sign_for with signer '%v' returned no tx_json", signerAddress)
		}
		txJSON = result.TxJSON
	}
	signed := &SignedTx{
		TxJSON:      txJSON,
		Multisigned: true,
	}
	if hash, ok := txJSON["hash"].(string); ok {
		signed.Hash = hash
	}
	return signed, nil
}

// SubmitTx submits a signed transaction on the right channel
func SubmitTx(c *Client, signed *SignedTx) (*SubmitResult, error) {
	if signed == nil {
		return nil, errors.New("no signed transaction")
	}
	if signed.Multisigned {
		return c.SubmitMultisigned(signed.TxJSON)
	}
	if signed.Blob == "" {
		return nil, errors.New("signed transaction has no blob")
	}
	return c.SubmitBlob(signed.Blob)
}
