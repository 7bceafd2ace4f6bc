package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the size of the name key in bytes (32 bytes = 256 bits)
	KeySize = 32
	// SaltSize is the size of the salt used in key derivation
	SaltSize = 16
	// Memory in KiB used by Argon2
	Memory = 64 * 1024
	// Iterations used by Argon2
	Iterations = 3
	// Parallelism used by Argon2
	Parallelism = 2
	// NameLength is the number of hex characters kept in an obscured name
	NameLength = 32
)

// generateDeterministicSalt generates a deterministic salt from a secret using SHA-256
func generateDeterministicSalt(secret string) []byte {
	hasher := sha256.New()
	hasher.Write([]byte(secret))
	hash := hasher.Sum(nil)

	salt := make([]byte, SaltSize)
	copy(salt, hash[:SaltSize])
	return salt
}

// DeriveKey derives a name key from a secret using Argon2. The same
// secret always yields the same key, so obscured names stay stable across
// runs.
func DeriveKey(secret string) []byte {
	salt := generateDeterministicSalt(secret)
	return argon2.IDKey([]byte(secret), salt, Iterations, Memory, Parallelism, KeySize)
}

// HashName returns an obscured remote name for the content read from r:
// the hex digest truncated to NameLength, followed by ext. With a key the
// digest is HMAC-SHA-256, otherwise plain SHA-256.
func HashName(r io.Reader, key []byte, ext string) (string, error) {
	var h hash.Hash
	if len(key) > 0 {
		h = hmac.New(sha256.New, key)
	} else {
		h = sha256.New()
	}

	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to hash content: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil))[:NameLength] + ext, nil
}

// HashFileName obscures the name of a local file, keeping its extension
func HashFileName(localPath string, key []byte) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open local file: %w", err)
	}
	defer file.Close()

	return HashName(file, key, filepath.Ext(localPath))
}
