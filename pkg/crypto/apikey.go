package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SecretByteLength is the raw entropy of a generated secret (32 bytes -> 43 base64url chars)
	SecretByteLength = 32
	// SecretEncodedLength is the length of the encoded secret string
	SecretEncodedLength = 43
	// SaltByteLength is the per-secret salt length
	SaltByteLength = 32
	// DerivationIterations is the PBKDF2 iteration count; deliberately expensive
	DerivationIterations = 100_000
	// DerivedKeyLength is the PBKDF2 output length (SHA-512 block)
	DerivedKeyLength = 64
)

var randomRead = rand.Read

// secretFormat matches exactly one unpadded base64url-encoded 32-byte secret.
// Anchored so control characters, padding, or standard-base64 alphabet fail.
var secretFormat = regexp.MustCompile(`^[A-Za-z0-9_-]{43}$`)

// GenerateSecret produces a URL-safe high-entropy API secret
func GenerateSecret() (string, error) {
	raw := make([]byte, SecretByteLength)
	if _, err := randomRead(raw); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// DeriveHash derives a salted, slow hash of the secret for storage.
// The salt is fresh per call, so two hashes of the same secret differ;
// lookups must go through Fingerprint, never through hash equality.
func DeriveHash(secret string) (string, error) {
	salt := make([]byte, SaltByteLength)
	if _, err := randomRead(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	key := pbkdf2.Key([]byte(secret), salt, DerivationIterations, DerivedKeyLength, sha512.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// Verify recomputes the derivation with the stored salt and compares in
// constant time. Malformed stored hashes verify as false.
func Verify(secret, storedHash string) bool {
	saltHex, keyHex, ok := strings.Cut(storedHash, ":")
	if !ok {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) == 0 {
		return false
	}
	expected, err := hex.DecodeString(keyHex)
	if err != nil || len(expected) == 0 {
		return false
	}
	derived := pbkdf2.Key([]byte(secret), salt, DerivationIterations, len(expected), sha512.New)
	return subtle.ConstantTimeCompare(derived, expected) == 1
}

// ConstantTimeEqual compares two strings without short-circuiting on the
// first differing byte. Length mismatch returns false immediately; length
// is not treated as secret here.
func ConstantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// IsValidSecretFormat reports whether s looks like a generated secret.
// Used as the cheap pre-filter before any store round-trip.
func IsValidSecretFormat(s string) bool {
	return secretFormat.MatchString(s)
}

// Fingerprint returns a fast deterministic digest of s. It is the
// non-secret lookup index and rate-limit bucket key; secret verification
// always goes through Verify.
func Fingerprint(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
