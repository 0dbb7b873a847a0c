package auth

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, Verify("s3cret", hash))
	assert.False(t, Verify("wrong", hash))
	assert.False(t, Verify("s3cret", "not-a-bcrypt-hash"))
}

func TestHash_LongPasswordsTruncated(t *testing.T) {
	base := strings.Repeat("a", maxPasswordBytes)
	hash, err := Hash(base + "tail-one")
	require.NoError(t, err)

	assert.True(t, Verify(base+"tail-two", hash))
	assert.True(t, Verify(base, hash))
	assert.False(t, Verify(base[:maxPasswordBytes-1], hash))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "short", input: "abc", want: 3},
		{name: "exact", input: strings.Repeat("x", 72), want: 72},
		{name: "ascii overflow", input: strings.Repeat("x", 80), want: 72},
		// 71 ASCII bytes then a 3-byte rune straddling the limit.
		{name: "multibyte boundary", input: strings.Repeat("x", 71) + "€", want: 71},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input)
			assert.Len(t, got, tt.want)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
