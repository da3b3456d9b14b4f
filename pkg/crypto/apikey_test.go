package crypto

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecret_FormatAndUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		s, err := GenerateSecret()
		require.NoError(t, err)
		require.Len(t, s, SecretEncodedLength)
		require.True(t, IsValidSecretFormat(s), "generated secret failed format check: %q", s)

		_, dup := seen[s]
		require.False(t, dup, "duplicate secret generated")
		seen[s] = struct{}{}
	}
}

func TestGenerateSecret_RandFailure(t *testing.T) {
	orig := randomRead
	randomRead = func([]byte) (int, error) { return 0, errors.New("entropy exhausted") }
	defer func() { randomRead = orig }()

	_, err := GenerateSecret()
	assert.Error(t, err)
}

func TestDeriveHash_SaltedAndVerifiable(t *testing.T) {
	secret, err := GenerateSecret()
	require.NoError(t, err)

	h1, err := DeriveHash(secret)
	require.NoError(t, err)
	h2, err := DeriveHash(secret)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "fresh salt must produce distinct hashes")
	assert.True(t, Verify(secret, h1))
	assert.True(t, Verify(secret, h2))
	assert.NotContains(t, h1, secret)
}

func TestVerify_WrongSecret(t *testing.T) {
	secret, err := GenerateSecret()
	require.NoError(t, err)
	h, err := DeriveHash(secret)
	require.NoError(t, err)

	other, err := GenerateSecret()
	require.NoError(t, err)
	assert.False(t, Verify(other, h))

	// Single-character difference must also fail
	flipped := []byte(secret)
	if flipped[0] == 'A' {
		flipped[0] = 'B'
	} else {
		flipped[0] = 'A'
	}
	assert.False(t, Verify(string(flipped), h))
}

func TestVerify_MalformedStoredHash(t *testing.T) {
	cases := []string{
		"",
		"no-separator",
		"zz:zz",                // non-hex
		":deadbeef",            // empty salt
		"deadbeef:",            // empty key
		"deadbeef:not-hex!!",   // bad key hex
		strings.Repeat(":", 5), // separator soup
	}
	for _, stored := range cases {
		assert.False(t, Verify("anything", stored), "stored=%q", stored)
	}
}

func TestConstantTimeEqual(t *testing.T) {
	assert.True(t, ConstantTimeEqual("abc123", "abc123"))
	assert.True(t, ConstantTimeEqual("", ""))
	assert.False(t, ConstantTimeEqual("abc", "abcd"))
	assert.False(t, ConstantTimeEqual("abc", ""))
	assert.False(t, ConstantTimeEqual("not hex at all", "also not hex"))
}

func TestIsValidSecretFormat(t *testing.T) {
	valid, err := GenerateSecret()
	require.NoError(t, err)
	assert.True(t, IsValidSecretFormat(valid))

	invalid := []string{
		"",
		strings.Repeat("a", 42),
		strings.Repeat("a", 44),
		strings.Repeat("a", 42) + "=", // padding
		strings.Repeat("a", 42) + "+", // standard base64 alphabet
		strings.Repeat("a", 42) + "/",
		strings.Repeat("a", 42) + " ",
		strings.Repeat("a", 42) + "\n",
		"\uFEFF" + strings.Repeat("a", 42),
		strings.Repeat("a", 21) + "\x00" + strings.Repeat("a", 21),
	}
	for _, s := range invalid {
		assert.False(t, IsValidSecretFormat(s), "input=%q", s)
	}
}

func TestFingerprint_DeterministicAndFixedLength(t *testing.T) {
	s, err := GenerateSecret()
	require.NoError(t, err)

	f1 := Fingerprint(s)
	f2 := Fingerprint(s)
	assert.Equal(t, f1, f2)
	assert.Len(t, f1, 64)

	other, err := GenerateSecret()
	require.NoError(t, err)
	assert.NotEqual(t, f1, Fingerprint(other))
}
