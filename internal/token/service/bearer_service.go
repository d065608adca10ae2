package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	apperrors "github.com/allisson/tokengate/internal/errors"
)

const (
	// DefaultPrefix is the bearer string prefix used when none is supplied.
	DefaultPrefix = "sk-"

	// tokenBytes is the random payload size (256 bits).
	tokenBytes = 32

	previewShowBefore = 8
	previewShowAfter  = 8
	previewMask       = "****"
)

// bearerService implements BearerService using SHA-256 for token hashing.
type bearerService struct{}

// Generate creates a new cryptographically secure bearer string. The random
// payload is hex-encoded, so the full string is prefix + 64 characters.
// Returns the plain bearer string and its SHA-256 hash.
func (b *bearerService) Generate(prefix string) (string, string, error) {
	randomBytes := make([]byte, tokenBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random token")
	}

	if prefix == "" {
		prefix = DefaultPrefix
	} else if !strings.HasSuffix(prefix, "-") {
		prefix += "-"
	}

	plainToken := prefix + hex.EncodeToString(randomBytes)
	tokenHash := b.Hash(plainToken)

	return plainToken, tokenHash, nil
}

// Hash hashes a plain bearer string using SHA-256.
// Returns the hash as a hexadecimal string.
func (b *bearerService) Hash(plainToken string) string {
	hash := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(hash[:])
}

// Preview masks the middle of the bearer string: the prefix (through the
// first "-") stays visible, followed by the first eight and last eight
// characters of the payload. Example: sk-a1b2c3d4****e5f6g7h8.
func (b *bearerService) Preview(plainToken string) string {
	prefixEnd := strings.Index(plainToken, "-")
	if prefixEnd == -1 {
		prefixEnd = 0
	} else {
		prefixEnd++
	}

	payload := plainToken[prefixEnd:]

	// Too short to mask meaningfully
	if len(payload) < previewShowBefore+previewShowAfter {
		return plainToken
	}

	return plainToken[:prefixEnd] +
		payload[:previewShowBefore] +
		previewMask +
		payload[len(payload)-previewShowAfter:]
}

// NewBearerService creates a new BearerService instance using SHA-256 for
// token hashing.
func NewBearerService() BearerService {
	return &bearerService{}
}
