package http

import (
	"bytes"
	"io"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/tokengate/internal/auth/domain"
	authUseCase "github.com/allisson/tokengate/internal/auth/usecase"
	apperrors "github.com/allisson/tokengate/internal/errors"
	"github.com/allisson/tokengate/internal/httputil"
)

// timestampHeader carries the signed request timestamp (RFC3339 UTC).
const timestampHeader = "X-Qiniu-Date"

// maxSignedBodyBytes caps how much request body the middleware will buffer
// for signature verification.
const maxSignedBodyBytes = 1 << 20

// HMACAuthMiddleware authenticates requests signed with the QINIU scheme.
//
// The middleware reads the raw request body to recompute the signature and
// restores it so handlers can bind JSON as usual. The canonical path is
// c.Request.URL.Path: query parameters never participate in the signature.
//
// On success the resolved account is stored in the request context and
// available via GetAccount().
func HMACAuthMiddleware(authUC authUseCase.AuthUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		timestamp := c.GetHeader(timestampHeader)
		if timestamp == "" {
			logger.Debug("authentication failed: missing timestamp header")
			httputil.HandleErrorGin(c, authDomain.ErrInvalidTimestamp, logger)
			c.Abort()
			return
		}

		// Buffer the body for signing and hand handlers a fresh reader
		var body []byte
		if c.Request.Body != nil {
			var err error
			body, err = io.ReadAll(io.LimitReader(c.Request.Body, maxSignedBodyBytes))
			if err != nil {
				logger.Debug("authentication failed: unreadable request body", slog.Any("error", err))
				httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
				c.Abort()
				return
			}
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		req := &authDomain.SignedRequest{
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
			Timestamp:     timestamp,
			Body:          string(body),
			Authorization: authHeader,
		}

		account, err := authUC.VerifyRequest(c.Request.Context(), req)
		if err != nil {
			logger.Debug("authentication failed",
				slog.String("method", req.Method),
				slog.String("path", req.Path),
				slog.Any("error", err),
			)
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithAccount(c.Request.Context(), account)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("account_id", account.ID.String()),
			slog.String("access_key", account.AccessKey),
		)

		c.Next()
	}
}

// ExtractBearer pulls the bearer token out of an Authorization header
// ("Bearer <token>", scheme case-insensitive). Returns an empty string when
// the header does not carry a bearer credential.
func ExtractBearer(authHeader string) string {
	const bearerPrefix = "bearer "
	if len(authHeader) < len(bearerPrefix) ||
		!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(authHeader[len(bearerPrefix):])
}
