// Package http provides HTTP handlers for token lifecycle and validation
// operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/tokengate/internal/auth/http"
	apperrors "github.com/allisson/tokengate/internal/errors"
	"github.com/allisson/tokengate/internal/httputil"
	"github.com/allisson/tokengate/internal/token/http/dto"
	"github.com/allisson/tokengate/internal/token/usecase"
	customValidation "github.com/allisson/tokengate/internal/validation"
)

// TokenHandler handles HTTP requests for token lifecycle operations. Every
// operation is scoped to the authenticated account from the request context.
type TokenHandler struct {
	tokenUseCase usecase.TokenUseCase
	logger       *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(tokenUseCase usecase.TokenUseCase, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		tokenUseCase: tokenUseCase,
		logger:       logger,
	}
}

// accountFromContext resolves the authenticated account or writes a 401.
func (h *TokenHandler) accountFromContext(c *gin.Context) (uuid.UUID, bool) {
	account, ok := authHTTP.GetAccount(c.Request.Context())
	if !ok || account == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return uuid.Nil, false
	}
	return account.ID, true
}

// tokenIDFromPath parses the :id path parameter or writes a 400.
func (h *TokenHandler) tokenIDFromPath(c *gin.Context) (uuid.UUID, bool) {
	tokenID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid token ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return tokenID, true
}

// CreateHandler issues a new bearer token.
// POST /api/v2/tokens - Requires a signed request.
// Returns 201 Created; the bearer string appears in this response only.
func (h *TokenHandler) CreateHandler(c *gin.Context) {
	accountID, ok := h.accountFromContext(c)
	if !ok {
		return
	}

	var req dto.CreateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.tokenUseCase.Create(c.Request.Context(), accountID, dto.ToCreateTokenInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCreateTokenResponse(output))
}

// ListHandler retrieves the account's tokens with pagination.
// GET /api/v2/tokens?active_only=false&limit=50&offset=0 - Requires a signed request.
// Returns 200 OK with masked previews; bearer strings never appear.
func (h *TokenHandler) ListHandler(c *gin.Context) {
	accountID, ok := h.accountFromContext(c)
	if !ok {
		return
	}

	query, err := httputil.ParseListQuery(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	output, err := h.tokenUseCase.List(c.Request.Context(), accountID, &usecase.ListQuery{
		ActiveOnly: query.ActiveOnly,
		Limit:      query.Limit,
		Offset:     query.Offset,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.ToListTokensResponse(
		output.Tokens, output.Total, query.Limit, query.Offset, time.Now().UTC())
	c.JSON(http.StatusOK, response)
}

// GetHandler retrieves one token by ID.
// GET /api/v2/tokens/:id - Requires a signed request.
// Returns 200 OK, or 404 when the token does not exist or belongs to another
// account.
func (h *TokenHandler) GetHandler(c *gin.Context) {
	accountID, ok := h.accountFromContext(c)
	if !ok {
		return
	}
	tokenID, ok := h.tokenIDFromPath(c)
	if !ok {
		return
	}

	token, err := h.tokenUseCase.Get(c.Request.Context(), accountID, tokenID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToTokenResponse(token, time.Now().UTC()))
}

// UpdateStatusHandler enables or disables a token.
// PUT /api/v2/tokens/:id/status - Requires a signed request.
// Returns 200 OK. Re-enabling an expired token is rejected with 400.
func (h *TokenHandler) UpdateStatusHandler(c *gin.Context) {
	accountID, ok := h.accountFromContext(c)
	if !ok {
		return
	}
	tokenID, ok := h.tokenIDFromPath(c)
	if !ok {
		return
	}

	var req dto.UpdateTokenStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.tokenUseCase.SetStatus(c.Request.Context(), accountID, tokenID, *req.IsActive); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Token status updated successfully"})
}

// DeleteHandler permanently removes a token.
// DELETE /api/v2/tokens/:id - Requires a signed request.
// Returns 200 OK. Deletion is idempotent: deleting an absent token succeeds.
func (h *TokenHandler) DeleteHandler(c *gin.Context) {
	accountID, ok := h.accountFromContext(c)
	if !ok {
		return
	}
	tokenID, ok := h.tokenIDFromPath(c)
	if !ok {
		return
	}

	if err := h.tokenUseCase.Delete(c.Request.Context(), accountID, tokenID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Token deleted successfully"})
}

// StatsHandler returns the token's usage counters.
// GET /api/v2/tokens/:id/stats - Requires a signed request.
func (h *TokenHandler) StatsHandler(c *gin.Context) {
	accountID, ok := h.accountFromContext(c)
	if !ok {
		return
	}
	tokenID, ok := h.tokenIDFromPath(c)
	if !ok {
		return
	}

	stats, err := h.tokenUseCase.Stats(c.Request.Context(), accountID, tokenID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToStatsResponse(stats))
}
