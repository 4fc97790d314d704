package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomString(t *testing.T) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	s := GenerateRandomString(6)
	assert.Len(t, s, 6)
	for _, r := range s {
		assert.True(t, strings.ContainsRune(charset, r), "unexpected character %q", r)
	}

	assert.Empty(t, GenerateRandomString(0))

	// Document suffixes (ORD-20260829-XXXXXX etc.) must not collide in
	// practice; two draws matching is astronomically unlikely.
	assert.NotEqual(t, GenerateRandomString(12), GenerateRandomString(12))
}
