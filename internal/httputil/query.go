package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListQuery holds parsed query parameters for token listing.
type ListQuery struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ParseListQuery safely parses and validates the active_only, limit, and offset
// query parameters. Defaults: active_only=false, limit=50, offset=0.
// The limit cannot exceed 100.
func ParseListQuery(c *gin.Context) (ListQuery, error) {
	var q ListQuery

	activeOnlyStr := c.DefaultQuery("active_only", "false")
	activeOnly, err := strconv.ParseBool(activeOnlyStr)
	if err != nil {
		return ListQuery{}, fmt.Errorf("invalid active_only parameter: must be a boolean")
	}
	q.ActiveOnly = activeOnly

	limitStr := c.DefaultQuery("limit", "50")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 || limit > 100 {
		return ListQuery{}, fmt.Errorf("invalid limit parameter: must be between 1 and 100")
	}
	q.Limit = limit

	offsetStr := c.DefaultQuery("offset", "0")
	offset, err := strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		return ListQuery{}, fmt.Errorf("invalid offset parameter: must be a non-negative integer")
	}
	q.Offset = offset

	return q, nil
}
