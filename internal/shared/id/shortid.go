package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// UpperBase36 is the alphabet used for human-typed codes.
	UpperBase36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// DefaultLength is the default length for generated short IDs
	DefaultLength = 12
)

// PrefixVisitorRequest prefixes visitor request IDs (Stripe-style).
const PrefixVisitorRequest = "vr"

// Generate creates a random short ID with the specified length using Base62 encoding.
func Generate(length int) (string, error) {
	return GenerateFrom(alphabet, length)
}

// GenerateFrom creates a cryptographically random string of length drawn from chars.
func GenerateFrom(chars string, length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}
	if chars == "" {
		return "", fmt.Errorf("empty alphabet")
	}

	result := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(chars)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = chars[num.Int64()]
	}

	return string(result), nil
}

// GenerateWithPrefix creates a prefixed ID in the format "prefix_randomstring".
func GenerateWithPrefix(prefix string, length int) (string, error) {
	id, err := Generate(length)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", prefix, id), nil
}

// ParsePrefixedID extracts the prefix and short ID from a prefixed ID string.
// Example: ParsePrefixedID("vr_xK9mP2vL3nQa") returns ("vr", "xK9mP2vL3nQa", nil)
func ParsePrefixedID(prefixedID string) (prefix, shortID string, err error) {
	parts := strings.SplitN(prefixedID, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid prefixed ID format: %s", prefixedID)
	}
	return parts[0], parts[1], nil
}

// ValidatePrefix checks if the prefixed ID has the expected prefix.
func ValidatePrefix(prefixedID, expectedPrefix string) error {
	prefix, _, err := ParsePrefixedID(prefixedID)
	if err != nil {
		return err
	}
	if prefix != expectedPrefix {
		return fmt.Errorf("invalid prefix: expected %s, got %s", expectedPrefix, prefix)
	}
	return nil
}

// NewVisitorRequestID generates a new visitor request ID.
func NewVisitorRequestID() (string, error) {
	return GenerateWithPrefix(PrefixVisitorRequest, DefaultLength)
}

// ValidateVisitorRequestID checks the shape of a visitor request ID.
func ValidateVisitorRequestID(s string) error {
	return ValidatePrefix(s, PrefixVisitorRequest)
}
