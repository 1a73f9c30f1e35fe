package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	h := NewHasher(MinRounds)

	digest, err := h.Hash("pw1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(digest, "$5$rounds=1000$"))
	assert.NotContains(t, digest, "pw1")
	assert.True(t, h.Verify("pw1", digest))
	assert.False(t, h.Verify("pw2", digest))
	assert.False(t, h.Verify("", digest))
}

func TestHashIsSalted(t *testing.T) {
	h := NewHasher(MinRounds)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify("same", a))
	assert.True(t, h.Verify("same", b))
}

func TestVerifyDefaultRoundsDigest(t *testing.T) {
	// Digest produced by crypt(3) with implicit 5000 rounds.
	digest := "$5$saltstring$5B8vYYiY.CVt1RlTTf8KbXBH3hsxY/GNooZaBBGWEc5"
	h := NewHasher(MinRounds)

	assert.True(t, h.Verify("Hello world!", digest))
	assert.False(t, h.Verify("hello world!", digest))
}

func TestVerifyBcrypt(t *testing.T) {
	digest, err := HashPasswordAsBcrypt("legacy")
	require.NoError(t, err)

	h := NewHasher(MinRounds)
	assert.True(t, h.Verify("legacy", digest))
	assert.False(t, h.Verify("other", digest))
}

func TestVerifyUnknownFormat(t *testing.T) {
	h := NewHasher(MinRounds)
	assert.False(t, h.Verify("admin", "admin"))
	assert.False(t, h.Verify("admin", ""))
}

func TestNewHasherDefaults(t *testing.T) {
	assert.Equal(t, DefaultRounds, NewHasher(0).Rounds)
	assert.Equal(t, 5000, NewHasher(5000).Rounds)
}
