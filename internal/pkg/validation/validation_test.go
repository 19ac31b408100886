package validation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidCurrencyCode(t *testing.T) {
	assert.True(t, IsValidCurrencyCode("EGP"))
	assert.True(t, IsValidCurrencyCode("USD"))
	assert.False(t, IsValidCurrencyCode("usd"))
	assert.False(t, IsValidCurrencyCode("EG"))
	assert.False(t, IsValidCurrencyCode("EGPX"))
	assert.False(t, IsValidCurrencyCode(""))
}

func TestIsValidAmount(t *testing.T) {
	assert.True(t, IsValidAmount(0))
	assert.True(t, IsValidAmount(1234.56))
	assert.False(t, IsValidAmount(-1))
	assert.False(t, IsValidAmount(math.NaN()))
	assert.False(t, IsValidAmount(math.Inf(1)))
}

func TestParseDate(t *testing.T) {
	assert.Equal(t, 2025, ParseDate("2025-03-01").Year())
	assert.Equal(t, 2025, ParseDate("2025-03-01T10:30:00Z").Year())
	assert.True(t, ParseDate("not-a-date").IsZero())
}
