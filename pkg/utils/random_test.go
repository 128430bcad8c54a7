package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomCodeLengthAndCharset(t *testing.T) {
	for _, length := range []int{7, 9, 32} {
		code, err := RandomCode(length)
		require.NoError(t, err)
		assert.Len(t, code, length)
		assert.True(t, IsValidShortCode(code), code)
	}
}

func TestRandomCodeNotRepeating(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := RandomCode(7)
		require.NoError(t, err)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}
