package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"planhub/audit"
	"planhub/database"
)

// MemberRequest contains the data for adding or updating a project member
type MemberRequest struct {
	UserID            uint   `json:"user_id" binding:"required"`
	ProjectRole       string `json:"project_role" binding:"required"`
	AllocationPercent int    `json:"allocation_percent" binding:"gte=0,lte=100"`
}

func memberSnapshot(m *database.ProjectMember) audit.Snapshot {
	return audit.Snapshot{
		"user_id":            m.UserID,
		"project_role":       m.ProjectRole,
		"allocation_percent": m.AllocationPercent,
	}
}

// AddProjectMember adds a user to a project
func AddProjectMember(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if !canAccessProject(c, projectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	var request MemberRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user database.User
	if err := database.DB.First(&user, request.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var count int64
	database.DB.Model(&database.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, request.UserID).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "User is already a member of this project"})
		return
	}

	member := database.ProjectMember{
		ProjectID:         projectID,
		UserID:            request.UserID,
		ProjectRole:       request.ProjectRole,
		AllocationPercent: request.AllocationPercent,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&member).Error; err != nil {
			return err
		}
		_, err := audit.NewWriter(tx).RecordEvent(
			projectID, audit.EntityMember, member.ID, audit.ActionCreated,
			currentUserID(c), map[string]interface{}{"user_id": request.UserID})
		return err
	})
	if err != nil {
		log.Errorf("Member add DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}

	c.JSON(http.StatusCreated, member)
}

// GetProjectMembers lists all members of a project
func GetProjectMembers(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if !canAccessProject(c, projectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	var members []database.ProjectMember
	if err := database.DB.Preload("User").
		Where("project_id = ?", projectID).
		Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		return
	}

	c.JSON(http.StatusOK, members)
}

// UpdateProjectMember updates a member's project role or allocation
func UpdateProjectMember(c *gin.Context) {
	memberID, ok := parseIDParam(c, "memberId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	var member database.ProjectMember
	if err := database.DB.First(&member, memberID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	if !canAccessProject(c, member.ProjectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	var request MemberRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	oldSnapshot := memberSnapshot(&member)

	member.ProjectRole = request.ProjectRole
	member.AllocationPercent = request.AllocationPercent

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&member).Error; err != nil {
			return err
		}
		_, err := audit.NewWriter(tx).RecordFieldChanges(
			member.ProjectID, audit.EntityMember, member.ID,
			oldSnapshot, memberSnapshot(&member), currentUserID(c))
		return err
	})
	if err != nil {
		log.Errorf("Member update DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		return
	}

	c.JSON(http.StatusOK, member)
}

// RemoveProjectMember removes a member from a project
func RemoveProjectMember(c *gin.Context) {
	memberID, ok := parseIDParam(c, "memberId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	var member database.ProjectMember
	if err := database.DB.First(&member, memberID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	if !canAccessProject(c, member.ProjectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&member).Error; err != nil {
			return err
		}
		_, err := audit.NewWriter(tx).RecordEvent(
			member.ProjectID, audit.EntityMember, member.ID, audit.ActionDeleted,
			currentUserID(c), map[string]interface{}{"user_id": member.UserID})
		return err
	})
	if err != nil {
		log.Errorf("Member remove DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}
