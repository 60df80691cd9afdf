package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		number string
		region string
		want   bool
	}{
		{"amsterdam landline", "0201234567", "NL", true},
		{"amsterdam with dash", "020-1234567", "NL", true},
		{"mobile", "0612345678", "NL", true},
		{"already international", "+31 20 123 4567", "NL", true},
		{"international foreign region", "+31201234567", "DE", true},
		{"too short", "020123", "NL", false},
		{"letters", "not a number", "NL", false},
		{"empty", "", "NL", false},
		{"unknown region without plus", "0201234567", "ZZ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsValid(tt.number, tt.region))
		})
	}
}

func TestFormatInternational(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		number string
		want   string
	}{
		{"amsterdam landline", "0201234567", "+31 20 123 4567"},
		{"amsterdam with dash", "020-1234567", "+31 20 123 4567"},
		{"mobile", "0612345678", "+31 6 12345678"},
		{"e164", "+31201234567", "+31 20 123 4567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := FormatInternational(tt.number, "NL")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatInternational_Unparsable(t *testing.T) {
	t.Parallel()

	_, err := FormatInternational("not a number", "NL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phone: format")
}

func TestFormatInternational_FixedPoint(t *testing.T) {
	t.Parallel()

	for _, number := range []string{"0201234567", "0612345678", "050 123 4567"} {
		require.True(t, IsValid(number, "NL"), number)
		once, err := FormatInternational(number, "NL")
		require.NoError(t, err)

		require.True(t, IsValid(once, "NL"), once)
		twice, err := FormatInternational(once, "NL")
		require.NoError(t, err)

		assert.Equal(t, once, twice, number)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	got, ok := Normalize("0201234567", "NL")
	assert.True(t, ok)
	assert.Equal(t, "+31 20 123 4567", got)

	got, ok = Normalize("bel ons", "NL")
	assert.False(t, ok)
	assert.Equal(t, "bel ons", got)
}

func TestFormatterMethods(t *testing.T) {
	t.Parallel()

	var f Formatter
	assert.True(t, f.IsValid("0201234567", "NL"))
	got, err := f.FormatInternational("0201234567", "NL")
	require.NoError(t, err)
	assert.Equal(t, "+31 20 123 4567", got)
}
