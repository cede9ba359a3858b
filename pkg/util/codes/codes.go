// Package codes generates the human-facing identifiers and secret tokens
// handed out by the transfers backend.
package codes

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
)

var ErrInvalidLength = errors.New("invalid code length")

const (
	QuotePrefix   = "QT"
	BookingPrefix = "TR"
	InvoicePrefix = "INV"

	// BookingReferenceLength is the number of characters after "TR-".
	BookingReferenceLength = 8

	// TokenByteLength is the number of random bytes in review and
	// cancellation tokens (43 base64 chars).
	TokenByteLength = 32

	// Upper case alphanumeric excluding ambiguous characters
	charsetReference = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
)

// QuoteNumber returns QT-YYYYMMDD-XXXX with a random four digit suffix.
// Numbers are not guaranteed unique; callers that store quotes must
// detect a live number and draw again.
func QuoteNumber(now time.Time) (string, error) {
	suffix, err := GenerateNumericCode(4)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%s", QuotePrefix, now.Format("20060102"), suffix), nil
}

// BookingReference returns TR-XXXXXXXX.
func BookingReference() (string, error) {
	code, err := GenerateCode(BookingReferenceLength, charsetReference)
	if err != nil {
		return "", err
	}
	return BookingPrefix + "-" + code, nil
}

// InvoiceNumber derives the invoice number from the booking reference so
// reissuing an invoice keeps its number.
func InvoiceNumber(issued time.Time, bookingRef string) string {
	ref := strings.TrimPrefix(NormalizeCode(bookingRef), BookingPrefix+"-")
	return fmt.Sprintf("%s-%s-%s", InvoicePrefix, issued.Format("200601"), ref)
}

// GenerateToken returns a URL-safe token for review and cancellation links.
func GenerateToken() (string, error) {
	return GenerateURLSafeToken(TokenByteLength)
}

// GenerateSecureToken creates a cryptographically secure hex token.
// byteLength specifies the number of random bytes (output will be 2x this length in hex).
func GenerateSecureToken(byteLength int) (string, error) {
	b, err := randomBytes(byteLength)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateURLSafeToken creates a URL-safe base64-encoded token.
func GenerateURLSafeToken(byteLength int) (string, error) {
	b, err := randomBytes(byteLength)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateCode creates a code of specified length from a given character set.
func GenerateCode(length int, charset string) (string, error) {
	if length < 1 {
		return "", ErrInvalidLength
	}
	if len(charset) == 0 {
		return "", errors.New("charset cannot be empty")
	}

	result := make([]byte, length)
	max := big.NewInt(int64(len(charset)))
	for i := range result {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random character: %w", err)
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}

// GenerateNumericCode creates a zero-padded numeric code of specified length.
func GenerateNumericCode(length int) (string, error) {
	if length < 1 {
		return "", ErrInvalidLength
	}

	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}
	return fmt.Sprintf("%0*d", length, n), nil
}

// NormalizeCode normalizes a code for comparison (uppercase, trim whitespace).
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func randomBytes(n int) ([]byte, error) {
	if n < 1 {
		return nil, ErrInvalidLength
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
