package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoServiceRoundTrip(t *testing.T) {
	crypto, err := NewCryptoService("test-passphrase")
	require.NoError(t, err)

	amounts := []int64{0, 1, 100, 50000, 999_999_999, maxAmount}
	for _, amount := range amounts {
		encrypted, err := crypto.EncryptAmount(amount)
		require.NoError(t, err)

		decrypted, err := crypto.DecryptAmount(encrypted)
		require.NoError(t, err)
		assert.Equal(t, amount, decrypted)
	}
}

func TestCryptoServiceRejectsOutOfRange(t *testing.T) {
	crypto, err := NewCryptoService("test-passphrase")
	require.NoError(t, err)

	_, err = crypto.EncryptAmount(-1)
	assert.Error(t, err)

	_, err = crypto.EncryptAmount(maxAmount + 1)
	assert.Error(t, err)
}

func TestCryptoServiceCiphertextsNotRepeatable(t *testing.T) {
	crypto, err := NewCryptoService("test-passphrase")
	require.NoError(t, err)

	first, err := crypto.EncryptAmount(50000)
	require.NoError(t, err)
	second, err := crypto.EncryptAmount(50000)
	require.NoError(t, err)

	// Random nonce: equal amounts must not produce equal ciphertexts.
	assert.NotEqual(t, first, second)
}

func TestCryptoServiceWrongKey(t *testing.T) {
	crypto, err := NewCryptoService("passphrase-one")
	require.NoError(t, err)
	other, err := NewCryptoService("passphrase-two")
	require.NoError(t, err)

	encrypted, err := crypto.EncryptAmount(123456)
	require.NoError(t, err)

	_, err = other.DecryptAmount(encrypted)
	assert.ErrorIs(t, err, ErrDecrypt)
}

func TestCryptoServiceMalformedCiphertext(t *testing.T) {
	crypto, err := NewCryptoService("test-passphrase")
	require.NoError(t, err)

	cases := []string{
		"",
		"not-base64!!!",
		"YWJj", // valid base64, too short for a nonce
		"YWJjZGVmZ2hpamtsbW5vcHFyc3R1dnd4eXo=",
	}
	for _, ciphertext := range cases {
		_, err := crypto.DecryptAmount(ciphertext)
		assert.ErrorIs(t, err, ErrDecrypt, "ciphertext %q", ciphertext)
	}
}

func TestCryptoServiceEmptyPassphrase(t *testing.T) {
	_, err := NewCryptoService("")
	assert.Error(t, err)
}
