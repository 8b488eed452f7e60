package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, VerifyPassword(hash, "hunter2"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("not-a-hash", "hunter2"))
}

func TestRandomHexLengthAndUniqueness(t *testing.T) {
	a, err := RandomHex(4)
	require.NoError(t, err)
	b, err := RandomHex(4)
	require.NoError(t, err)

	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)
}
