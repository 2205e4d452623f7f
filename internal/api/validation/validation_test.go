package validation_test

import (
	"testing"

	"github.com/hugh/recipebox/internal/api/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{"user@example.com", "first.last+tag@sub.example.co"}
	for _, email := range valid {
		assert.True(t, validation.IsValidEmail(email), email)
	}

	invalid := []string{"", "plain", "missing@tld", "@example.com"}
	for _, email := range invalid {
		assert.False(t, validation.IsValidEmail(email), email)
	}
}

func TestParseIDList(t *testing.T) {
	t.Run("parses comma-separated ids", func(t *testing.T) {
		ids, err := validation.ParseIDList("1,2,3")
		require.NoError(t, err)
		assert.Equal(t, []uint{1, 2, 3}, ids)
	})

	t.Run("tolerates whitespace", func(t *testing.T) {
		ids, err := validation.ParseIDList("4, 5")
		require.NoError(t, err)
		assert.Equal(t, []uint{4, 5}, ids)
	})

	t.Run("empty input yields nil", func(t *testing.T) {
		ids, err := validation.ParseIDList("")
		require.NoError(t, err)
		assert.Nil(t, ids)
	})

	t.Run("rejects non-integer tokens", func(t *testing.T) {
		_, err := validation.ParseIDList("1,abc")
		assert.Error(t, err)
	})

	t.Run("rejects negative ids", func(t *testing.T) {
		_, err := validation.ParseIDList("-1")
		assert.Error(t, err)
	})

	t.Run("rejects trailing comma", func(t *testing.T) {
		_, err := validation.ParseIDList("1,")
		assert.Error(t, err)
	})
}
