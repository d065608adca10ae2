package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	authDomain "github.com/allisson/tokengate/internal/auth/domain"
)

// authScheme is the Authorization header scheme for signed requests.
const authScheme = "QINIU"

// signatureService implements SignatureService.
type signatureService struct {
	clockSkew time.Duration
}

// BuildStringToSign produces the canonical request representation. The exact
// byte sequence matters: clients sign the same four fields joined by "\n",
// with an empty string for bodyless requests.
func (s *signatureService) BuildStringToSign(method, path, timestamp, body string) string {
	return fmt.Sprintf("%s\n%s\n%s\n%s", method, path, timestamp, body)
}

// Sign computes Base64(HMAC-SHA256(secretKey, stringToSign)).
func (s *signatureService) Sign(secretKey, stringToSign string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(stringToSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the expected signature and compares with hmac.Equal so
// comparison time does not depend on how many leading bytes match.
func (s *signatureService) Verify(secretKey, providedSignature, stringToSign string) bool {
	expected := s.Sign(secretKey, stringToSign)
	return hmac.Equal([]byte(expected), []byte(providedSignature))
}

// ValidateTimestamp checks the signed timestamp against the clock-skew
// window. Past and future violations are reported as distinct errors for
// logging; both surface as 401 to the client.
func (s *signatureService) ValidateTimestamp(timestamp string, now time.Time) error {
	requestTime, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return authDomain.ErrInvalidTimestamp
	}

	diff := now.Sub(requestTime)
	if diff > s.clockSkew {
		return authDomain.ErrStaleTimestamp
	}
	if -diff > s.clockSkew {
		return authDomain.ErrTimestampInFuture
	}
	return nil
}

// ParseAuthHeader splits "QINIU <access_key>:<signature>" into its parts.
func ParseAuthHeader(authHeader string) (accessKey, signature string, err error) {
	authHeader = strings.TrimSpace(authHeader)

	const prefix = authScheme + " "
	if !strings.HasPrefix(authHeader, prefix) {
		return "", "", authDomain.ErrInvalidAuthHeader
	}

	parts := strings.SplitN(strings.TrimPrefix(authHeader, prefix), ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", authDomain.ErrInvalidAuthHeader
	}

	return parts[0], parts[1], nil
}

// NewSignatureService creates a SignatureService with the given clock-skew
// tolerance.
func NewSignatureService(clockSkew time.Duration) SignatureService {
	return &signatureService{clockSkew: clockSkew}
}
