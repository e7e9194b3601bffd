// AngelaMos | 2026
// security_test.go

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPasswordHasherCostBounds(t *testing.T) {
	_, err := NewPasswordHasher(11)
	assert.Error(t, err)

	_, err = NewPasswordHasher(32)
	assert.Error(t, err)

	_, err = NewPasswordHasher(12)
	assert.NoError(t, err)
}

func TestHashAndVerify(t *testing.T) {
	hasher, err := NewPasswordHasher(12)
	require.NoError(t, err)

	hash, err := hasher.Hash("Sup3r$ecret")
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3r$ecret", hash)

	ok, err := hasher.Verify("Sup3r$ecret", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("WrongPass1!", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashIsSalted(t *testing.T) {
	hasher, err := NewPasswordHasher(12)
	require.NoError(t, err)

	first, err := hasher.Hash("Sup3r$ecret")
	require.NoError(t, err)
	second, err := hasher.Hash("Sup3r$ecret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyCorruptHash(t *testing.T) {
	hasher, err := NewPasswordHasher(12)
	require.NoError(t, err)

	ok, err := hasher.Verify("Sup3r$ecret", "not-a-bcrypt-hash")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrCorruptCredential)
}

func TestVerifyTimingSafe(t *testing.T) {
	hasher, err := NewPasswordHasher(12)
	require.NoError(t, err)

	hash, err := hasher.Hash("Sup3r$ecret")
	require.NoError(t, err)

	assert.True(t, hasher.VerifyTimingSafe("Sup3r$ecret", &hash))
	assert.False(t, hasher.VerifyTimingSafe("WrongPass1!", &hash))

	// no stored hash still burns a compare and reports a mismatch
	assert.False(t, hasher.VerifyTimingSafe("Sup3r$ecret", nil))

	empty := ""
	assert.False(t, hasher.VerifyTimingSafe("Sup3r$ecret", &empty))

	corrupt := "not-a-bcrypt-hash"
	assert.False(t, hasher.VerifyTimingSafe("Sup3r$ecret", &corrupt))
}
