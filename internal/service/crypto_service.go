package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrDecrypt means a ciphertext is malformed or was produced under a
// different key. It is terminal: a balance that cannot be decrypted must
// never be read as zero.
var ErrDecrypt = errors.New("decrypt failed")

const maxAmount = int64(1_000_000_000_000_000) // 10^15 minor units

// CryptoService encrypts monetary amounts at rest with AES-256-GCM. The key
// is derived deterministically from the configured passphrase, so a restart
// with the same passphrase recovers the same key. Ciphertexts are not
// repeatable (random nonce); amounts compare equal only after decryption.
type CryptoService struct {
	aead cipher.AEAD
}

func NewCryptoService(passphrase string) (*CryptoService, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("encryption passphrase is empty")
	}

	key := sha256.Sum256([]byte(passphrase))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	return &CryptoService{aead: aead}, nil
}

// EncryptAmount encodes a non-negative amount in minor units into an opaque
// base64 string carrying nonce || ciphertext.
func (s *CryptoService) EncryptAmount(amount int64) (string, error) {
	if amount < 0 {
		return "", fmt.Errorf("amount must be non-negative, got %d", amount)
	}
	if amount > maxAmount {
		return "", fmt.Errorf("amount %d exceeds supported range", amount)
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("nonce: %w", err)
	}

	plaintext := []byte(strconv.FormatInt(amount, 10))
	sealed := s.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptAmount reverses EncryptAmount. Any failure surfaces as ErrDecrypt.
func (s *CryptoService) DecryptAmount(ciphertext string) (int64, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid encoding", ErrDecrypt)
	}

	ns := s.aead.NonceSize()
	if len(data) < ns {
		return 0, fmt.Errorf("%w: cipher too short", ErrDecrypt)
	}

	plaintext, err := s.aead.Open(nil, data[:ns], data[ns:], nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	amount, err := strconv.ParseInt(string(plaintext), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: plaintext is not an integer", ErrDecrypt)
	}
	return amount, nil
}
