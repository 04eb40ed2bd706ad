package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters, interactive strength
const (
	scryptN      = 1 << 15
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
)

var errWrongPassword = errors.New("wrong password or corrupted keystore entry")

// encryptedSeed an AES-256-GCM sealed seed with its key derivation
// parameters, stored as JSON
type encryptedSeed struct {
	Cipher     string `json:"cipher"`
	CipherText string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
	Salt       string `json:"salt"`
	ScryptN    int    `json:"scryptn"`
	ScryptR    int    `json:"scryptr"`
	ScryptP    int    `json:"scryptp"`
}

func encryptSeed(seed, password string) (*encryptedSeed, error) {
	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	sealed := gcm.Seal(nil, nonce, []byte(seed), nil)
	return &encryptedSeed{
		Cipher:     "aes-256-gcm",
		CipherText: hex.EncodeToString(sealed),
		Nonce:      hex.EncodeToString(nonce),
		Salt:       hex.EncodeToString(salt),
		ScryptN:    scryptN,
		ScryptR:    scryptR,
		ScryptP:    scryptP,
	}, nil
}

func decryptSeed(sealed *encryptedSeed, password string) (string, error) {
	if sealed.Cipher != "aes-256-gcm" {
		return "", fmt.Errorf("unsupported keystore cipher '%v'", sealed.Cipher)
	}
	salt, err := hex.DecodeString(sealed.Salt)
	if err != nil {
		return "", err
	}
	nonce, err := hex.DecodeString(sealed.Nonce)
	if err != nil {
		return "", err
	}
	cipherText, err := hex.DecodeString(sealed.CipherText)
	if err != nil {
		return "", err
	}
	key, err := scrypt.Key([]byte(password), salt, sealed.ScryptN, sealed.ScryptR, sealed.ScryptP, scryptKeyLen)
	if err != nil {
		return "", err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	seed, err := gcm.Open(nil, nonce, cipherText, nil)
	if err != nil {
		return "", errWrongPassword
	}
	return string(seed), nil
}
