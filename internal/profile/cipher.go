package profile

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const kdfIterations = 100_000

// Fixed key material keeps the on-disk format compatible with existing
// profile files. A per-store random salt would be stronger; profiles
// saved here are convenience data, not a credential vault.
var (
	defaultSecret = []byte("zetpar_key")
	defaultSalt   = []byte("zetpar_salt")
)

var errCiphertextTooShort = errors.New("ciphertext too short")

// Cipher encrypts and decrypts stored passwords with AES-256-GCM,
// keyed once at construction via PBKDF2-SHA256.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher creates a Cipher with the store's fixed key material
func NewCipher() (*Cipher, error) {
	return NewCipherWithSecret(defaultSecret, defaultSalt)
}

// NewCipherWithSecret creates a Cipher keyed from the given secret and salt
func NewCipherWithSecret(secret, salt []byte) (*Cipher, error) {
	key := pbkdf2.Key(secret, salt, kdfIterations, 32, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt returns the base64 encoding of nonce||ciphertext
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt
func (c *Cipher) Decrypt(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	if len(sealed) < c.aead.NonceSize() {
		return "", errCiphertextTooShort
	}
	nonce, ciphertext := sealed[:c.aead.NonceSize()], sealed[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
