package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"planhub/database"
)

// AdHocRequestBody contains the data for creating or updating an ad-hoc
// request
type AdHocRequestBody struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
}

// CreateAdHocRequest files a new portfolio-level request
func CreateAdHocRequest(c *gin.Context) {
	var request AdHocRequestBody
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	priority := request.Priority
	if priority == "" {
		priority = "medium"
	}

	adHoc := database.AdHocRequest{
		Title:       request.Title,
		Description: request.Description,
		RequesterID: currentUserID(c),
		Status:      RequestStatusOpen,
		Priority:    priority,
	}

	if err := database.DB.Create(&adHoc).Error; err != nil {
		log.Errorf("Request creation DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create request"})
		return
	}

	c.JSON(http.StatusCreated, adHoc)
}

// GetAdHocRequests lists requests, optionally filtered by status
func GetAdHocRequests(c *gin.Context) {
	query := database.DB.Preload("Requester")
	if status := c.Query("status"); status != "" {
		switch status {
		case RequestStatusOpen, RequestStatusTriaged, RequestStatusAccepted,
			RequestStatusRejected, RequestStatusDone:
			query = query.Where("status = ?", status)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
	}

	var requests []database.AdHocRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve requests"})
		return
	}

	c.JSON(http.StatusOK, requests)
}

// UpdateAdHocRequest edits a request's title, description or priority
func UpdateAdHocRequest(c *gin.Context) {
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var adHoc database.AdHocRequest
	if err := database.DB.First(&adHoc, requestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}

	var request AdHocRequestBody
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adHoc.Title = request.Title
	adHoc.Description = request.Description
	if request.Priority != "" {
		adHoc.Priority = request.Priority
	}

	if err := database.DB.Save(&adHoc).Error; err != nil {
		log.Errorf("Request update DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request"})
		return
	}

	c.JSON(http.StatusOK, adHoc)
}

// UpdateRequestStatusBody carries the target request status
type UpdateRequestStatusBody struct {
	Status string `json:"status" binding:"required,oneof=open triaged accepted rejected done"`
}

// UpdateAdHocRequestStatus transitions a request through triage
func UpdateAdHocRequestStatus(c *gin.Context) {
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var adHoc database.AdHocRequest
	if err := database.DB.First(&adHoc, requestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}

	var request UpdateRequestStatusBody
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adHoc.Status = request.Status

	if err := database.DB.Save(&adHoc).Error; err != nil {
		log.Errorf("Request status update DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request status"})
		return
	}

	c.JSON(http.StatusOK, adHoc)
}

// DeleteAdHocRequest deletes a request
func DeleteAdHocRequest(c *gin.Context) {
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var adHoc database.AdHocRequest
	if err := database.DB.First(&adHoc, requestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}

	if err := database.DB.Delete(&adHoc).Error; err != nil {
		log.Errorf("Request delete DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request deleted successfully"})
}
