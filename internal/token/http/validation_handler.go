package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/tokengate/internal/auth/http"
	"github.com/allisson/tokengate/internal/httputil"
	"github.com/allisson/tokengate/internal/token/http/dto"
	"github.com/allisson/tokengate/internal/token/usecase"
)

// ValidationHandler handles bearer token validation requests.
type ValidationHandler struct {
	validationUseCase usecase.ValidationUseCase
	logger            *slog.Logger
}

// NewValidationHandler creates a new validation handler with required dependencies.
func NewValidationHandler(validationUseCase usecase.ValidationUseCase, logger *slog.Logger) *ValidationHandler {
	return &ValidationHandler{
		validationUseCase: validationUseCase,
		logger:            logger,
	}
}

// ValidateHandler checks the bearer token in the Authorization header,
// optionally against a required scope from the request body.
// POST /api/v2/validate - No signed-request authentication; the bearer token
// is the credential under test.
//
// Returns 200 OK when the token is valid and 401 Unauthorized otherwise, in
// both cases with the full validation result so callers can distinguish a bad
// token from a missing permission.
func (h *ValidationHandler) ValidateHandler(c *gin.Context) {
	bearer := authHTTP.ExtractBearer(c.GetHeader("Authorization"))

	// The body is optional: an empty or absent body means no scope check
	var req dto.ValidateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	result, err := h.validationUseCase.Validate(c.Request.Context(), bearer, req.RequiredScope)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	statusCode := http.StatusOK
	if !result.Valid {
		statusCode = http.StatusUnauthorized
	}

	c.JSON(statusCode, dto.ToValidationResponse(result))
}
