package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"planhub/audit"
	"planhub/database"
)

// GetProjectActivity returns one page of a project's activity feed,
// newest first, with the total matching count
func GetProjectActivity(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if !canAccessProject(c, projectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	limit, offset, ok := parsePagination(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit or offset"})
		return
	}

	entityType := c.Query("entity_type")
	if entityType != "" && !audit.IsValidEntityType(entityType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entity_type filter"})
		return
	}

	page, err := audit.NewReader(database.DB).ListEvents(
		projectID, audit.Filter{EntityType: entityType}, limit, offset)
	if err != nil {
		log.Errorf("Activity list DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activity"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetEntityHistory returns the full timeline of one entity
func GetEntityHistory(c *gin.Context) {
	entityType := c.Param("entityType")
	if !audit.IsValidEntityType(entityType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entity type"})
		return
	}

	entityID, ok := parseIDParam(c, "entityId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entity ID"})
		return
	}

	events, err := audit.NewReader(database.DB).ListEventsForEntity(entityType, entityID)
	if err != nil {
		log.Errorf("Entity history DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entity history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": events})
}
