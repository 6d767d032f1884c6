package sharetoken

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Length is the canonical token length in hex characters (128 bits).
const Length = 32

// Generate produces a new public-access token: 128 bits from a
// cryptographically secure source, hex encoded. The token is the only
// barrier between the public internet and the record it points at, so a
// general-purpose PRNG is not acceptable here. Uniqueness is not checked;
// the 2^128 space makes collisions negligible and the store carries a
// UNIQUE constraint as a backstop.
func Generate() (string, error) {
	var buf [Length / 2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate share token: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}

// IsValidFormat reports whether candidate is exactly 32 hex characters,
// case-insensitive. This is a syntactic pre-filter so malformed input is
// rejected before any store lookup; it says nothing about whether the
// token exists.
func IsValidFormat(candidate string) bool {
	if len(candidate) != Length {
		return false
	}
	for i := 0; i < len(candidate); i++ {
		c := candidate[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
