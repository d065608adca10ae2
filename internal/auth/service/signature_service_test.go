package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/tokengate/internal/auth/domain"
	apperrors "github.com/allisson/tokengate/internal/errors"
)

func TestSignatureService_BuildStringToSign(t *testing.T) {
	svc := NewSignatureService(15 * time.Minute)

	t.Run("Success_CanonicalForm", func(t *testing.T) {
		got := svc.BuildStringToSign(
			"POST",
			"/api/v2/tokens",
			"2025-12-25T10:00:00Z",
			`{"description":"test"}`,
		)
		assert.Equal(t, "POST\n/api/v2/tokens\n2025-12-25T10:00:00Z\n{\"description\":\"test\"}", got)
	})

	t.Run("Success_EmptyBody", func(t *testing.T) {
		got := svc.BuildStringToSign("GET", "/api/v2/tokens", "2025-12-25T10:00:00Z", "")
		assert.Equal(t, "GET\n/api/v2/tokens\n2025-12-25T10:00:00Z\n", got)
	})
}

func TestSignatureService_SignAndVerify(t *testing.T) {
	svc := NewSignatureService(15 * time.Minute)
	stringToSign := "POST\n/api/v2/tokens\n2025-12-25T10:00:00Z\n{}"

	t.Run("Success_RoundTrip", func(t *testing.T) {
		signature := svc.Sign("SK_secret", stringToSign)
		assert.NotEmpty(t, signature)
		assert.True(t, svc.Verify("SK_secret", signature, stringToSign))
	})

	t.Run("Success_Deterministic", func(t *testing.T) {
		assert.Equal(t, svc.Sign("SK_secret", stringToSign), svc.Sign("SK_secret", stringToSign))
	})

	t.Run("Error_WrongKey", func(t *testing.T) {
		signature := svc.Sign("SK_secret", stringToSign)
		assert.False(t, svc.Verify("SK_other", signature, stringToSign))
	})

	t.Run("Error_TamperedRequest", func(t *testing.T) {
		signature := svc.Sign("SK_secret", stringToSign)
		tampered := "DELETE\n/api/v2/tokens\n2025-12-25T10:00:00Z\n{}"
		assert.False(t, svc.Verify("SK_secret", signature, tampered))
	})

	t.Run("Error_GarbageSignature", func(t *testing.T) {
		assert.False(t, svc.Verify("SK_secret", "not-base64-at-all", stringToSign))
	})
}

func TestSignatureService_ValidateTimestamp(t *testing.T) {
	svc := NewSignatureService(15 * time.Minute)
	now := time.Date(2025, 12, 25, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		timestamp string
		wantErr   error
	}{
		{"Success_CurrentTime", "2025-12-25T10:00:00Z", nil},
		{"Success_WithinPastWindow", "2025-12-25T09:46:00Z", nil},
		{"Success_WithinFutureWindow", "2025-12-25T10:14:00Z", nil},
		{"Error_Stale", "2025-12-25T09:44:59Z", authDomain.ErrStaleTimestamp},
		{"Error_Future", "2025-12-25T10:15:01Z", authDomain.ErrTimestampInFuture},
		{"Error_NotRFC3339", "25/12/2025 10:00", authDomain.ErrInvalidTimestamp},
		{"Error_Empty", "", authDomain.ErrInvalidTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidateTimestamp(tt.timestamp, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, tt.wantErr))
				assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
			}
		})
	}
}

func TestParseAuthHeader(t *testing.T) {
	t.Run("Success_WellFormed", func(t *testing.T) {
		accessKey, signature, err := ParseAuthHeader("QINIU AK_abc123:dGVzdHNpZ25hdHVyZQ==")
		require.NoError(t, err)
		assert.Equal(t, "AK_abc123", accessKey)
		assert.Equal(t, "dGVzdHNpZ25hdHVyZQ==", signature)
	})

	t.Run("Success_SignatureWithColon", func(t *testing.T) {
		// Only the first colon separates key and signature
		accessKey, signature, err := ParseAuthHeader("QINIU AK_abc:sig:with:colons")
		require.NoError(t, err)
		assert.Equal(t, "AK_abc", accessKey)
		assert.Equal(t, "sig:with:colons", signature)
	})

	tests := []struct {
		name   string
		header string
	}{
		{"Error_Empty", ""},
		{"Error_WrongScheme", "Bearer sk-abc"},
		{"Error_MissingColon", "QINIU AK_abc"},
		{"Error_EmptyAccessKey", "QINIU :signature"},
		{"Error_EmptySignature", "QINIU AK_abc:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseAuthHeader(tt.header)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, authDomain.ErrInvalidAuthHeader))
		})
	}
}
