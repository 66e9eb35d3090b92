package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	h := NewHasher()

	encoded, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"))

	ok, err := h.Verify("correct horse battery staple", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyWrongPassword(t *testing.T) {
	t.Parallel()

	h := NewHasher()

	encoded, err := h.Hash("hunter2")
	require.NoError(t, err)

	ok, err := h.Verify("hunter3", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyAfterParamChange(t *testing.T) {
	t.Parallel()

	h := NewHasher()

	encoded, err := h.Hash("hunter2")
	require.NoError(t, err)

	// Hashes are self-describing, so bumping the cost on the hasher must
	// not break verification of older hashes.
	h.Iterations = 5
	h.Memory = 128 * 1024

	ok, err := h.Verify("hunter2", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyMalformedHash(t *testing.T) {
	t.Parallel()

	h := NewHasher()

	_, err := h.Verify("hunter2", "not-a-phc-hash")
	assert.Error(t, err)
}
