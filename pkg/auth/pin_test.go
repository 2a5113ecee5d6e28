package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPIN(t *testing.T) {
	hash, err := HashPIN("1234")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2"))
	assert.NotEqual(t, "1234", hash)

	// Random salt: hashing twice never yields the same string.
	hash2, err := HashPIN("1234")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestCheckPIN(t *testing.T) {
	hash, err := HashPIN("1234")
	require.NoError(t, err)

	assert.True(t, CheckPIN("1234", hash))
	assert.False(t, CheckPIN("4321", hash))
	assert.False(t, CheckPIN("", hash))
}

func TestCheckPINFailsClosedOnMalformedHash(t *testing.T) {
	assert.False(t, CheckPIN("1234", ""))
	assert.False(t, CheckPIN("1234", "not-a-bcrypt-hash"))
}
