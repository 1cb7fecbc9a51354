package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"deskflow/internal/shared/constants"
	"deskflow/internal/shared/errors"
)

// ParseUintParam parses a uint path parameter from the request.
func ParseUintParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, errors.NewValidationError("invalid " + name + " parameter")
	}
	return uint(v), nil
}

// ParseUintQuery parses an optional uint query parameter. A missing parameter
// returns 0 with no error.
func ParseUintQuery(c *gin.Context, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.NewValidationError("invalid " + name + " parameter")
	}
	return uint(v), nil
}

// ParsePagination parses page and page_size query parameters with defaults and caps.
func ParsePagination(c *gin.Context) (page, pageSize int) {
	page = constants.DefaultPage
	pageSize = constants.DefaultPageSize

	if raw := c.Query("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	if raw := c.Query("page_size"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			pageSize = v
		}
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	return page, pageSize
}

// ActorFromContext extracts the authenticated user id and roles set by the auth middleware.
func ActorFromContext(c *gin.Context) (uint, []string) {
	var userID uint
	if v, ok := c.Get(constants.ContextKeyUserID); ok {
		if id, ok := v.(uint); ok {
			userID = id
		}
	}
	var roles []string
	if v, ok := c.Get(constants.ContextKeyUserRoles); ok {
		if r, ok := v.([]string); ok {
			roles = r
		}
	}
	return userID, roles
}
