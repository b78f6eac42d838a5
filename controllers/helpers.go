package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"planhub/database"
)

// currentUserID extracts the authenticated user's ID set by the auth
// middleware; nil means no authenticated actor
func currentUserID(c *gin.Context) *uint {
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(uint); ok {
			return &id
		}
	}
	return nil
}

// parseIDParam parses a numeric path parameter
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(value), true
}

// canAccessProject reports whether the caller may read or mutate the
// given project: admins always, otherwise the project owner or a member
func canAccessProject(c *gin.Context, projectID uint) bool {
	role, _ := c.Get("role")
	if role == RoleAdmin {
		return true
	}

	userID := currentUserID(c)
	if userID == nil {
		return false
	}

	var project database.Project
	if err := database.DB.First(&project, projectID).Error; err != nil {
		return false
	}
	if project.OwnerID == *userID {
		return true
	}

	var count int64
	database.DB.Model(&database.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, *userID).
		Count(&count)
	return count > 0
}

// parsePagination reads limit/offset query params with defaults and caps
func parsePagination(c *gin.Context) (limit int, offset int, ok bool) {
	limit = DefaultPageSize
	offset = 0

	if raw := c.Query("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 {
			return 0, 0, false
		}
		limit = value
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if raw := c.Query("offset"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			return 0, 0, false
		}
		offset = value
	}

	return limit, offset, true
}
