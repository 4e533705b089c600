package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAPIKey(t *testing.T) {
	key, hash, err := GenerateAPIKey()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "hrk_"))
	assert.True(t, ValidAPIKeyFormat(key))
	assert.Equal(t, HashAPIKey(key), hash)
	assert.NotContains(t, hash, key)

	key2, hash2, err := GenerateAPIKey()
	require.NoError(t, err)
	assert.NotEqual(t, key, key2)
	assert.NotEqual(t, hash, hash2)
}

func TestValidAPIKeyFormat(t *testing.T) {
	valid := "hrk_" + strings.Repeat("ab", 32)
	assert.True(t, ValidAPIKeyFormat(valid))

	for _, key := range []string{
		"",
		"hrk_",
		"hrk_" + strings.Repeat("ab", 31),
		"hrk_" + strings.Repeat("ab", 33),
		"hrk_" + strings.Repeat("zz", 32),
		"xyz_" + strings.Repeat("ab", 32),
		strings.Repeat("ab", 34),
	} {
		assert.False(t, ValidAPIKeyFormat(key), "key %q should be rejected", key)
	}
}

func TestConstantTimeEqual(t *testing.T) {
	assert.True(t, ConstantTimeEqual("abc", "abc"))
	assert.False(t, ConstantTimeEqual("abc", "abd"))
	assert.False(t, ConstantTimeEqual("abc", "abcd"))
}
