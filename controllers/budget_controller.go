package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"planhub/audit"
	"planhub/database"
)

// BudgetItemRequest contains the data for creating or updating a budget
// line
type BudgetItemRequest struct {
	Category      string  `json:"category" binding:"required"`
	Description   string  `json:"description"`
	PlannedAmount float64 `json:"planned_amount" binding:"gte=0"`
	ActualAmount  float64 `json:"actual_amount" binding:"gte=0"`
}

func budgetItemSnapshot(b *database.BudgetItem) audit.Snapshot {
	return audit.Snapshot{
		"category":       b.Category,
		"description":    b.Description,
		"planned_amount": b.PlannedAmount,
		"actual_amount":  b.ActualAmount,
	}
}

// CreateBudgetItem creates a budget line inside a project
func CreateBudgetItem(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if !canAccessProject(c, projectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	var request BudgetItemRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := database.BudgetItem{
		ProjectID:     projectID,
		Category:      request.Category,
		Description:   request.Description,
		PlannedAmount: request.PlannedAmount,
		ActualAmount:  request.ActualAmount,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		_, err := audit.NewWriter(tx).RecordEvent(
			projectID, audit.EntityBudgetItem, item.ID, audit.ActionCreated, currentUserID(c), nil)
		return err
	})
	if err != nil {
		log.Errorf("Budget item creation DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create budget item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// GetProjectBudgetItems lists all budget lines of a project
func GetProjectBudgetItems(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if !canAccessProject(c, projectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	var items []database.BudgetItem
	if err := database.DB.
		Where("project_id = ?", projectID).
		Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve budget items"})
		return
	}

	c.JSON(http.StatusOK, items)
}

// UpdateBudgetItem updates a budget line and records per-field activity
func UpdateBudgetItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid budget item ID"})
		return
	}

	var item database.BudgetItem
	if err := database.DB.First(&item, itemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Budget item not found"})
		return
	}

	if !canAccessProject(c, item.ProjectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	var request BudgetItemRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	oldSnapshot := budgetItemSnapshot(&item)

	item.Category = request.Category
	item.Description = request.Description
	item.PlannedAmount = request.PlannedAmount
	item.ActualAmount = request.ActualAmount

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		_, err := audit.NewWriter(tx).RecordFieldChanges(
			item.ProjectID, audit.EntityBudgetItem, item.ID,
			oldSnapshot, budgetItemSnapshot(&item), currentUserID(c))
		return err
	})
	if err != nil {
		log.Errorf("Budget item update DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update budget item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteBudgetItem deletes a budget line
func DeleteBudgetItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid budget item ID"})
		return
	}

	var item database.BudgetItem
	if err := database.DB.First(&item, itemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Budget item not found"})
		return
	}

	if !canAccessProject(c, item.ProjectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		_, err := audit.NewWriter(tx).RecordEvent(
			item.ProjectID, audit.EntityBudgetItem, item.ID,
			audit.ActionDeleted, currentUserID(c), nil)
		return err
	})
	if err != nil {
		log.Errorf("Budget item delete DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete budget item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget item deleted successfully"})
}
