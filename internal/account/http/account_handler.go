// Package http provides HTTP handlers for account management operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/tokengate/internal/account/http/dto"
	"github.com/allisson/tokengate/internal/account/usecase"
	authHTTP "github.com/allisson/tokengate/internal/auth/http"
	apperrors "github.com/allisson/tokengate/internal/errors"
	"github.com/allisson/tokengate/internal/httputil"
	customValidation "github.com/allisson/tokengate/internal/validation"
)

// AccountHandler handles HTTP requests for account registration and
// credential management.
type AccountHandler struct {
	accountUseCase usecase.AccountUseCase
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler with required dependencies.
func NewAccountHandler(accountUseCase usecase.AccountUseCase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountUseCase: accountUseCase,
		logger:         logger,
	}
}

// RegisterHandler registers a new account and returns its credential pair.
// POST /api/v2/accounts/register - Unauthenticated, IP rate limited.
// Returns 201 Created; the secret key appears in this response only.
func (h *AccountHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.accountUseCase.Register(c.Request.Context(), dto.ToRegisterAccountInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRegisterAccountResponse(output))
}

// RotateSecretKeyHandler replaces the authenticated account's secret key.
// POST /api/v2/accounts/regenerate-sk - Requires a signed request.
// Returns 200 OK with the new secret key; the old key stops verifying immediately.
func (h *AccountHandler) RotateSecretKeyHandler(c *gin.Context) {
	account, ok := authHTTP.GetAccount(c.Request.Context())
	if !ok || account == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	output, err := h.accountUseCase.RotateSecretKey(c.Request.Context(), account.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToRotateSecretKeyResponse(output))
}

// MeHandler returns the authenticated account's profile.
// GET /api/v2/accounts/me - Requires a signed request.
// Returns 200 OK with account data (no secret key).
func (h *AccountHandler) MeHandler(c *gin.Context) {
	account, ok := authHTTP.GetAccount(c.Request.Context())
	if !ok || account == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
