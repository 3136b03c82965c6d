package credentials

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	Cost = bcrypt.MinCost
}

func TestHashAndVerify(t *testing.T) {
	digest, err := Hash("hunter22")
	require.NoError(t, err)

	assert.NotEqual(t, "hunter22", digest)
	assert.NotContains(t, digest, "hunter22")
	assert.True(t, Verify("hunter22", digest))
	assert.False(t, Verify("hunter23", digest))
	assert.False(t, Verify("", digest))
}

func TestHash_Salted(t *testing.T) {
	a, err := Hash("same-password")
	require.NoError(t, err)
	b, err := Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, Verify("same-password", a))
	assert.True(t, Verify("same-password", b))
}

func TestHash_TooLong(t *testing.T) {
	_, err := Hash(strings.Repeat("x", MaxPasswordLength+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = Hash(strings.Repeat("x", MaxPasswordLength))
	assert.NoError(t, err)
}

func TestVerify_GarbageDigest(t *testing.T) {
	assert.False(t, Verify("anything", "not-a-bcrypt-digest"))
}
