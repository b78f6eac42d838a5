package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"planhub/audit"
	"planhub/database"
)

// MilestoneRequest contains the data for creating or updating a milestone
type MilestoneRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`
}

func milestoneSnapshot(m *database.Milestone) audit.Snapshot {
	return audit.Snapshot{
		"name":        m.Name,
		"description": m.Description,
		"due_date":    formatDatePtr(m.DueDate),
	}
}

// CreateMilestone creates a milestone inside a project
func CreateMilestone(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if !canAccessProject(c, projectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	var request MilestoneRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dueDate, ok := parseDatePtr(request.DueDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date, expected YYYY-MM-DD"})
		return
	}

	milestone := database.Milestone{
		ProjectID:   projectID,
		Name:        request.Name,
		Description: request.Description,
		Status:      MilestoneStatusUpcoming,
		DueDate:     dueDate,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&milestone).Error; err != nil {
			return err
		}
		_, err := audit.NewWriter(tx).RecordEvent(
			projectID, audit.EntityMilestone, milestone.ID, audit.ActionCreated, currentUserID(c), nil)
		return err
	})
	if err != nil {
		log.Errorf("Milestone creation DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create milestone"})
		return
	}

	c.JSON(http.StatusCreated, milestone)
}

// GetProjectMilestones lists all milestones of a project
func GetProjectMilestones(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if !canAccessProject(c, projectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	var milestones []database.Milestone
	if err := database.DB.
		Where("project_id = ?", projectID).
		Order("due_date ASC").
		Find(&milestones).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve milestones"})
		return
	}

	c.JSON(http.StatusOK, milestones)
}

// UpdateMilestone updates a milestone and records per-field activity
func UpdateMilestone(c *gin.Context) {
	milestoneID, ok := parseIDParam(c, "milestoneId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid milestone ID"})
		return
	}

	var milestone database.Milestone
	if err := database.DB.First(&milestone, milestoneID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Milestone not found"})
		return
	}

	if !canAccessProject(c, milestone.ProjectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	var request MilestoneRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dueDate, ok := parseDatePtr(request.DueDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date, expected YYYY-MM-DD"})
		return
	}

	oldSnapshot := milestoneSnapshot(&milestone)

	milestone.Name = request.Name
	milestone.Description = request.Description
	milestone.DueDate = dueDate

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&milestone).Error; err != nil {
			return err
		}
		_, err := audit.NewWriter(tx).RecordFieldChanges(
			milestone.ProjectID, audit.EntityMilestone, milestone.ID,
			oldSnapshot, milestoneSnapshot(&milestone), currentUserID(c))
		return err
	})
	if err != nil {
		log.Errorf("Milestone update DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update milestone"})
		return
	}

	c.JSON(http.StatusOK, milestone)
}

// UpdateMilestoneStatusRequest carries the target milestone status
type UpdateMilestoneStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=upcoming reached missed"`
}

// UpdateMilestoneStatus transitions a milestone's status
func UpdateMilestoneStatus(c *gin.Context) {
	milestoneID, ok := parseIDParam(c, "milestoneId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid milestone ID"})
		return
	}

	var milestone database.Milestone
	if err := database.DB.First(&milestone, milestoneID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Milestone not found"})
		return
	}

	if !canAccessProject(c, milestone.ProjectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	var request UpdateMilestoneStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	oldStatus := milestone.Status
	milestone.Status = request.Status

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&milestone).Error; err != nil {
			return err
		}
		_, err := audit.NewWriter(tx).RecordStatusChange(
			milestone.ProjectID, audit.EntityMilestone, milestone.ID,
			oldStatus, milestone.Status, currentUserID(c))
		return err
	})
	if err != nil {
		log.Errorf("Milestone status update DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update milestone status"})
		return
	}

	c.JSON(http.StatusOK, milestone)
}

// DeleteMilestone deletes a milestone
func DeleteMilestone(c *gin.Context) {
	milestoneID, ok := parseIDParam(c, "milestoneId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid milestone ID"})
		return
	}

	var milestone database.Milestone
	if err := database.DB.First(&milestone, milestoneID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Milestone not found"})
		return
	}

	if !canAccessProject(c, milestone.ProjectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&milestone).Error; err != nil {
			return err
		}
		_, err := audit.NewWriter(tx).RecordEvent(
			milestone.ProjectID, audit.EntityMilestone, milestone.ID,
			audit.ActionDeleted, currentUserID(c), nil)
		return err
	})
	if err != nil {
		log.Errorf("Milestone delete DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete milestone"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Milestone deleted successfully"})
}
