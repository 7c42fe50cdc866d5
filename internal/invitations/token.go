package invitations

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
)

const (
	// TokenLength is the fixed length of every invitation token
	TokenLength = 24

	// tokenAlphabet excludes visually ambiguous characters (0/O, 1/l/I, i/o)
	// so tokens survive being read aloud or transcribed by hand.
	tokenAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"
)

// GenerateToken produces a new invitation token: TokenLength characters drawn
// uniformly and independently from tokenAlphabet. The token is a bearer
// credential, so the randomness source must be cryptographically strong.
func GenerateToken() (string, error) {
	return generateToken(rand.Reader)
}

// generateToken draws characters from r with rejection sampling so the
// distribution over the alphabet stays uniform.
func generateToken(r io.Reader) (string, error) {
	// Largest multiple of the alphabet size that fits in a byte; values at
	// or above it are rejected to avoid modulo bias.
	const limit = byte(len(tokenAlphabet) * (256 / len(tokenAlphabet)))

	var sb strings.Builder
	sb.Grow(TokenLength)

	buf := make([]byte, 2*TokenLength)
	for sb.Len() < TokenLength {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			sb.WriteByte(tokenAlphabet[int(b)%len(tokenAlphabet)])
			if sb.Len() == TokenLength {
				break
			}
		}
	}

	return sb.String(), nil
}

// ValidateTokenFormat reports whether a string has the shape of an
// invitation token. A failed check means the token cannot exist, so lookups
// can skip the database.
func ValidateTokenFormat(token string) bool {
	if len(token) != TokenLength {
		return false
	}
	for i := 0; i < len(token); i++ {
		if !strings.ContainsRune(tokenAlphabet, rune(token[i])) {
			return false
		}
	}
	return true
}
