package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"planhub/audit"
	"planhub/database"
)

// StakeholderRequest contains the data for creating or updating a
// stakeholder
type StakeholderRequest struct {
	Name         string `json:"name" binding:"required"`
	Organization string `json:"organization"`
	Role         string `json:"role"`
	Influence    string `json:"influence" binding:"omitempty,oneof=low medium high"`
	Email        string `json:"email" binding:"omitempty,email"`
}

func stakeholderSnapshot(s *database.Stakeholder) audit.Snapshot {
	return audit.Snapshot{
		"name":         s.Name,
		"organization": s.Organization,
		"role":         s.Role,
		"influence":    s.Influence,
		"email":        s.Email,
	}
}

// CreateStakeholder adds a stakeholder to a project
func CreateStakeholder(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if !canAccessProject(c, projectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	var request StakeholderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stakeholder := database.Stakeholder{
		ProjectID:    projectID,
		Name:         request.Name,
		Organization: request.Organization,
		Role:         request.Role,
		Influence:    request.Influence,
		Email:        request.Email,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&stakeholder).Error; err != nil {
			return err
		}
		_, err := audit.NewWriter(tx).RecordEvent(
			projectID, audit.EntityStakeholder, stakeholder.ID,
			audit.ActionCreated, currentUserID(c), nil)
		return err
	})
	if err != nil {
		log.Errorf("Stakeholder creation DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create stakeholder"})
		return
	}

	c.JSON(http.StatusCreated, stakeholder)
}

// GetProjectStakeholders lists all stakeholders of a project
func GetProjectStakeholders(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if !canAccessProject(c, projectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	var stakeholders []database.Stakeholder
	if err := database.DB.
		Where("project_id = ?", projectID).
		Find(&stakeholders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stakeholders"})
		return
	}

	c.JSON(http.StatusOK, stakeholders)
}

// UpdateStakeholder updates a stakeholder and records per-field activity
func UpdateStakeholder(c *gin.Context) {
	stakeholderID, ok := parseIDParam(c, "stakeholderId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stakeholder ID"})
		return
	}

	var stakeholder database.Stakeholder
	if err := database.DB.First(&stakeholder, stakeholderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stakeholder not found"})
		return
	}

	if !canAccessProject(c, stakeholder.ProjectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	var request StakeholderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	oldSnapshot := stakeholderSnapshot(&stakeholder)

	stakeholder.Name = request.Name
	stakeholder.Organization = request.Organization
	stakeholder.Role = request.Role
	stakeholder.Influence = request.Influence
	stakeholder.Email = request.Email

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&stakeholder).Error; err != nil {
			return err
		}
		_, err := audit.NewWriter(tx).RecordFieldChanges(
			stakeholder.ProjectID, audit.EntityStakeholder, stakeholder.ID,
			oldSnapshot, stakeholderSnapshot(&stakeholder), currentUserID(c))
		return err
	})
	if err != nil {
		log.Errorf("Stakeholder update DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stakeholder"})
		return
	}

	c.JSON(http.StatusOK, stakeholder)
}

// DeleteStakeholder removes a stakeholder from a project
func DeleteStakeholder(c *gin.Context) {
	stakeholderID, ok := parseIDParam(c, "stakeholderId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stakeholder ID"})
		return
	}

	var stakeholder database.Stakeholder
	if err := database.DB.First(&stakeholder, stakeholderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stakeholder not found"})
		return
	}

	if !canAccessProject(c, stakeholder.ProjectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&stakeholder).Error; err != nil {
			return err
		}
		_, err := audit.NewWriter(tx).RecordEvent(
			stakeholder.ProjectID, audit.EntityStakeholder, stakeholder.ID,
			audit.ActionDeleted, currentUserID(c), nil)
		return err
	})
	if err != nil {
		log.Errorf("Stakeholder delete DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete stakeholder"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stakeholder deleted successfully"})
}
