package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"

	"huddle/bizerror"
)

// ivSize is the GCM nonce length in bytes. An IV must never be reused with
// the same key: every Seal call draws a fresh random one.
const ivSize = 16

var encryptKey []byte

var (
	SealFunc = Seal
	OpenFunc = Open
)

// Bootstrap derives the process-wide key from VAULT_SECRET. The sha256 step
// only normalizes arbitrary-length secrets into the fixed AES-256 key size.
func Bootstrap() error {
	secret := os.Getenv("VAULT_SECRET")
	if secret == "" {
		return errors.New("environment variable VAULT_SECRET is not set")
	}
	key := sha256.Sum256([]byte(secret))
	encryptKey = key[:]
	return nil
}

type Sealed struct {
	// Encrypted is the hex ciphertext with the 16-byte authentication tag
	// appended to its end.
	Encrypted string
	IV        string
}

func Seal(plaintext string) (*Sealed, error) {
	aead, err := newAEAD()
	if err != nil {
		return nil, err
	}

	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}

	sealed := aead.Seal(nil, iv, []byte(plaintext), nil)
	return &Sealed{Encrypted: hex.EncodeToString(sealed), IV: hex.EncodeToString(iv)}, nil
}

func Open(encrypted, iv string) (string, error) {
	aead, err := newAEAD()
	if err != nil {
		return "", err
	}

	sealed, err := hex.DecodeString(encrypted)
	if err != nil {
		return "", bizerror.ErrDecryptionFailed
	}
	nonce, err := hex.DecodeString(iv)
	if err != nil || len(nonce) != ivSize {
		return "", bizerror.ErrDecryptionFailed
	}

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", bizerror.ErrDecryptionFailed
	}
	return string(plaintext), nil
}

func newAEAD() (cipher.AEAD, error) {
	if encryptKey == nil {
		return nil, errors.New("vault key is not bootstrapped")
	}
	block, err := aes.NewCipher(encryptKey)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, ivSize)
}
