package codes

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteNumber(t *testing.T) {
	now := time.Date(2025, 3, 9, 14, 0, 0, 0, time.UTC)
	for range 20 {
		n, err := QuoteNumber(now)
		require.NoError(t, err)
		assert.Regexp(t, `^QT-20250309-\d{4}$`, n)
	}
}

func TestBookingReference(t *testing.T) {
	re := regexp.MustCompile(`^TR-[A-Z2-9]{8}$`)
	seen := map[string]bool{}
	for range 50 {
		ref, err := BookingReference()
		require.NoError(t, err)
		assert.True(t, re.MatchString(ref), ref)
		assert.NotContains(t, ref[3:], "O")
		assert.NotContains(t, ref[3:], "1")
		seen[ref] = true
	}
	assert.Greater(t, len(seen), 45)
}

func TestInvoiceNumber(t *testing.T) {
	issued := time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "INV-202511-AB12CD34", InvoiceNumber(issued, " tr-ab12cd34 "))
	assert.Equal(t, "INV-202511-XYZ", InvoiceNumber(issued, "XYZ"))
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken()
	require.NoError(t, err)
	b, err := GenerateToken()
	require.NoError(t, err)

	assert.Len(t, a, 43)
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^[A-Za-z0-9_-]+$`, a)
}

func TestGenerateSecureToken(t *testing.T) {
	tok, err := GenerateSecureToken(16)
	require.NoError(t, err)
	assert.Len(t, tok, 32)

	_, err = GenerateSecureToken(0)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestGenerateNumericCode(t *testing.T) {
	for range 20 {
		c, err := GenerateNumericCode(6)
		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, c)
	}
	_, err := GenerateNumericCode(0)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestGenerateCode_EmptyCharset(t *testing.T) {
	_, err := GenerateCode(4, "")
	assert.Error(t, err)
}
