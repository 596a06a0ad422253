package domain

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "vaxcert/pkg/domain-errors"
)

func TestParseIdentity(t *testing.T) {
	t.Run("accepts account keys", func(t *testing.T) {
		id, err := ParseIdentity("GBRPYHIL2CI3FNQ4BXLFMNDLFJUNPU2HY3ZMFSHONUCEOASW7QC7OX2H")
		require.NoError(t, err)
		assert.Equal(t, "GBRPYHIL2CI3FNQ4BXLFMNDLFJUNPU2HY3ZMFSHONUCEOASW7QC7OX2H", id.String())
	})

	for name, in := range map[string]string{
		"empty":      "",
		"whitespace": "alice smith",
		"newline":    "alice\n",
		"too long":   strings.Repeat("a", MaxIdentityLength+1),
	} {
		t.Run("rejects "+name, func(t *testing.T) {
			_, err := ParseIdentity(in)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestParseTokenID(t *testing.T) {
	id, err := ParseTokenID("42")
	require.NoError(t, err)
	assert.Equal(t, TokenID(42), id)

	for _, in := range []string{"", "-1", "abc", "18446744073709551616"} {
		_, err := ParseTokenID(in)
		assert.Error(t, err, in)
	}
}

func TestTokenIDEncodings(t *testing.T) {
	t.Run("padded strings sort numerically", func(t *testing.T) {
		keys := []string{TokenID(10).PaddedString(), TokenID(9).PaddedString(), TokenID(100).PaddedString()}
		sort.Strings(keys)
		assert.Equal(t, []string{TokenID(9).PaddedString(), TokenID(10).PaddedString(), TokenID(100).PaddedString()}, keys)
		assert.Len(t, keys[0], 20)
	})
}
