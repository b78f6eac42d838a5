package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"planhub/database"
	"planhub/timesheet"
)

// TimeEntryRequest contains the data for logging hours
type TimeEntryRequest struct {
	Date  string  `json:"date" binding:"required"`
	Hours float64 `json:"hours" binding:"required,gt=0"`
	Note  string  `json:"note"`
}

// CreateTimeEntry logs hours for the caller on a project day. Date and
// hours are validated here; the calendar aggregator trusts stored rows.
func CreateTimeEntry(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if !canAccessProject(c, projectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	userID := currentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request TimeEntryRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", request.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	entry := database.TimeEntry{
		ProjectID: projectID,
		UserID:    *userID,
		Date:      date,
		Hours:     request.Hours,
		Note:      request.Note,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		log.Errorf("Time entry creation DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log time"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// GetProjectTimeEntries lists all raw time entries of a project
func GetProjectTimeEntries(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if !canAccessProject(c, projectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	var entries []database.TimeEntry
	if err := database.DB.Preload("User").
		Where("project_id = ?", projectID).
		Order("date DESC").
		Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve time entries"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// DeleteTimeEntry deletes one of the caller's own time entries
func DeleteTimeEntry(c *gin.Context) {
	entryID, ok := parseIDParam(c, "entryId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time entry ID"})
		return
	}

	var entry database.TimeEntry
	if err := database.DB.First(&entry, entryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Time entry not found"})
		return
	}

	role, _ := c.Get("role")
	userID := currentUserID(c)
	if role != RoleAdmin && (userID == nil || entry.UserID != *userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	if err := database.DB.Delete(&entry).Error; err != nil {
		log.Errorf("Time entry delete DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete time entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Time entry deleted successfully"})
}

// GetWeekCalendar returns the per-member hour matrix for the week
// containing the week_of query date (today when omitted)
func GetWeekCalendar(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if !canAccessProject(c, projectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	weekOf := time.Now()
	if raw := c.Query("week_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid week_of, expected YYYY-MM-DD"})
			return
		}
		weekOf = parsed
	}

	calendar, err := timesheet.NewAggregator(database.DB).BuildWeekCalendar(projectID, weekOf)
	if err != nil {
		log.Errorf("Calendar build error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build calendar"})
		return
	}

	c.JSON(http.StatusOK, calendar)
}
