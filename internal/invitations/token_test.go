package invitations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken_LengthAndAlphabet(t *testing.T) {
	token, err := GenerateToken()
	require.NoError(t, err)

	require.Len(t, token, TokenLength)
	for _, c := range token {
		require.Contains(t, tokenAlphabet, string(c))
	}
	require.True(t, ValidateTokenFormat(token))
}

func TestGenerateToken_NoAmbiguousCharacters(t *testing.T) {
	for _, forbidden := range []string{"0", "O", "1", "l", "I", "i", "o"} {
		require.NotContains(t, tokenAlphabet, forbidden)
	}
}

func TestGenerateToken_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		token, err := GenerateToken()
		require.NoError(t, err)
		require.False(t, seen[token], "token generated twice")
		seen[token] = true
	}
}

func TestGenerateToken_UniformOverAlphabet(t *testing.T) {
	// With 500 tokens every alphabet character should appear; a skewed or
	// truncated sampler fails this fast.
	counts := make(map[byte]int)
	for i := 0; i < 500; i++ {
		token, err := GenerateToken()
		require.NoError(t, err)
		for j := 0; j < len(token); j++ {
			counts[token[j]]++
		}
	}
	for i := 0; i < len(tokenAlphabet); i++ {
		require.Greater(t, counts[tokenAlphabet[i]], 0, "character %q never drawn", tokenAlphabet[i])
	}
}

func TestGenerateToken_RejectionSampling(t *testing.T) {
	// A reader that first emits only rejectable bytes must not stall or
	// bias the output.
	high := strings.Repeat("\xff", 64)
	low := strings.Repeat("\x00", 64)
	token, err := generateToken(strings.NewReader(high + low))
	require.NoError(t, err)
	require.Equal(t, strings.Repeat(string(tokenAlphabet[0]), TokenLength), token)
}

func TestValidateTokenFormat(t *testing.T) {
	require.False(t, ValidateTokenFormat(""))
	require.False(t, ValidateTokenFormat("short"))
	require.False(t, ValidateTokenFormat(strings.Repeat("A", TokenLength-1)))
	require.False(t, ValidateTokenFormat(strings.Repeat("A", TokenLength+1)))

	// Right length, ambiguous character excluded from the alphabet.
	require.False(t, ValidateTokenFormat(strings.Repeat("A", TokenLength-1)+"0"))

	require.True(t, ValidateTokenFormat(strings.Repeat("A", TokenLength)))
}
