package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/tokengate/internal/token/domain"
	"github.com/allisson/tokengate/internal/token/http/dto"
)

// PermissionHandler serves the scope catalogue.
type PermissionHandler struct {
	logger *slog.Logger
}

// NewPermissionHandler creates a new permission handler.
func NewPermissionHandler(logger *slog.Logger) *PermissionHandler {
	return &PermissionHandler{logger: logger}
}

// ListHandler returns every grantable scope grouped by resource.
// GET /api/v2/permissions - Public: the catalogue is not sensitive and lets
// integrators discover valid scopes before creating tokens.
func (h *PermissionHandler) ListHandler(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToPermissionsResponse(domain.AllPermissions()))
}
