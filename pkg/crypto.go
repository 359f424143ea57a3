package pkg

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// Crypto seals résumé text at rest with AES-GCM.
type Crypto struct {
	aead cipher.AEAD
}

func NewCrypto(key string) (*Crypto, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("invalid key size %d: must be 16, 24 or 32 bytes", len(key))
	}
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Crypto{aead: aead}, nil
}

// Encrypt returns base64(nonce || ciphertext). Empty input stays empty so
// optional columns remain blank.
func (c *Crypto) Encrypt(input string) (string, error) {
	if input == "" {
		return "", nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(input), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *Crypto) Decrypt(input string) (string, error) {
	if input == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(input)
	if err != nil {
		return "", err
	}
	nonceSize := c.aead.NonceSize()
	if len(raw) < nonceSize {
		return "", errors.New("invalid encrypted data")
	}
	plain, err := c.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
