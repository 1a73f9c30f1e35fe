package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeq(t *testing.T) {
	s := Seq(24)
	assert.Len(t, s, 24)
	for _, r := range s {
		assert.True(t, strings.ContainsRune(string(allSeq[:]), r), "unexpected rune %q", r)
	}
}

func TestSalt(t *testing.T) {
	s := Salt(16)
	assert.Len(t, s, 16)
	for _, r := range s {
		assert.True(t, strings.ContainsRune("./0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ", r), "unexpected rune %q", r)
	}
	assert.NotEqual(t, Salt(16), Salt(16))
}
