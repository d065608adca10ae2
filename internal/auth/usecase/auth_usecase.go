// Package usecase implements request authentication: HMAC signature
// verification for the management surface and bearer resolution for the
// validation surface.
package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	accountDomain "github.com/allisson/tokengate/internal/account/domain"
	authDomain "github.com/allisson/tokengate/internal/auth/domain"
	authService "github.com/allisson/tokengate/internal/auth/service"
	apperrors "github.com/allisson/tokengate/internal/errors"
	tokenDomain "github.com/allisson/tokengate/internal/token/domain"
	tokenService "github.com/allisson/tokengate/internal/token/service"
)

// authUseCase implements AuthUseCase.
type authUseCase struct {
	accountRepo        AccountRepository
	tokenRepo          TokenRepository
	signatureService   authService.SignatureService
	bearerService      tokenService.BearerService
	secretKeyDecrypter SecretKeyDecrypter
}

// VerifyRequest authenticates an HMAC-signed request.
//
// Check order: header shape, timestamp window, account resolution, account
// status, signature. Except for suspension every failure collapses to the
// uniform 401 at the HTTP layer; the sentinels only differ in server logs.
func (uc *authUseCase) VerifyRequest(
	ctx context.Context,
	req *authDomain.SignedRequest,
) (*accountDomain.Account, error) {
	accessKey, providedSignature, err := authService.ParseAuthHeader(req.Authorization)
	if err != nil {
		return nil, err
	}

	if err := uc.signatureService.ValidateTimestamp(req.Timestamp, time.Now().UTC()); err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByAccessKey(ctx, accessKey)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, authDomain.ErrUnknownAccessKey
		}
		return nil, err
	}

	if !account.IsActive() {
		return nil, accountDomain.ErrAccountSuspended
	}

	// The stored secret key is keeper-wrapped; unwrap it only for the
	// signature check and never hand the plaintext back to callers.
	secretKey, err := uc.secretKeyDecrypter.DecryptSecretKey(ctx, account.SecretKey)
	if err != nil {
		return nil, err
	}

	stringToSign := uc.signatureService.BuildStringToSign(req.Method, req.Path, req.Timestamp, req.Body)
	if !uc.signatureService.Verify(secretKey, providedSignature, stringToSign) {
		slog.Debug("signature mismatch",
			slog.String("access_key", accessKey),
			slog.String("method", req.Method),
			slog.String("path", req.Path),
		)
		return nil, authDomain.ErrSignatureMismatch
	}

	return account, nil
}

// AuthenticateBearer resolves a bearer string to a token that may validate.
func (uc *authUseCase) AuthenticateBearer(ctx context.Context, bearer string) (*tokenDomain.Token, error) {
	bearer = strings.TrimSpace(bearer)
	if bearer == "" {
		return nil, tokenDomain.ErrTokenNotFound
	}

	token, err := uc.tokenRepo.GetByTokenHash(ctx, uc.bearerService.Hash(bearer))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if token.IsExpired(now) {
		return nil, tokenDomain.ErrTokenExpired
	}
	if !token.IsActive {
		return nil, tokenDomain.ErrTokenInactive
	}

	return token, nil
}

// NewAuthUseCase creates a new AuthUseCase with the provided dependencies.
func NewAuthUseCase(
	accountRepo AccountRepository,
	tokenRepo TokenRepository,
	signatureService authService.SignatureService,
	bearerService tokenService.BearerService,
	secretKeyDecrypter SecretKeyDecrypter,
) AuthUseCase {
	return &authUseCase{
		accountRepo:        accountRepo,
		tokenRepo:          tokenRepo,
		signatureService:   signatureService,
		bearerService:      bearerService,
		secretKeyDecrypter: secretKeyDecrypter,
	}
}
