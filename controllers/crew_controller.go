package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"planhub/database"
)

// CrewMemberRequest contains the data for creating or updating a crew
// record
type CrewMemberRequest struct {
	Name         string  `json:"name" binding:"required"`
	Type         string  `json:"type" binding:"required,oneof=fte contractor"`
	Title        string  `json:"title"`
	CostRate     float64 `json:"cost_rate" binding:"gte=0"`
	Availability int     `json:"availability" binding:"gte=0,lte=100"`
	Notes        string  `json:"notes"`
}

// CreateCrewMember creates a portfolio-level crew record
func CreateCrewMember(c *gin.Context) {
	var request CrewMemberRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	crew := database.CrewMember{
		Name:         request.Name,
		Type:         request.Type,
		Title:        request.Title,
		CostRate:     request.CostRate,
		Availability: request.Availability,
		Notes:        request.Notes,
	}

	if err := database.DB.Create(&crew).Error; err != nil {
		log.Errorf("Crew creation DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create crew member"})
		return
	}

	c.JSON(http.StatusCreated, crew)
}

// GetCrewMembers lists all crew records
func GetCrewMembers(c *gin.Context) {
	var crew []database.CrewMember
	query := database.DB
	if crewType := c.Query("type"); crewType != "" {
		if crewType != database.CrewTypeFTE && crewType != database.CrewTypeContractor {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type filter"})
			return
		}
		query = query.Where("type = ?", crewType)
	}

	if err := query.Find(&crew).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve crew"})
		return
	}

	c.JSON(http.StatusOK, crew)
}

// GetCrewMemberByID retrieves a crew record by ID
func GetCrewMemberByID(c *gin.Context) {
	crewID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid crew member ID"})
		return
	}

	var crew database.CrewMember
	if err := database.DB.First(&crew, crewID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Crew member not found"})
		return
	}

	c.JSON(http.StatusOK, crew)
}

// UpdateCrewMember updates a crew record
func UpdateCrewMember(c *gin.Context) {
	crewID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid crew member ID"})
		return
	}

	var crew database.CrewMember
	if err := database.DB.First(&crew, crewID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Crew member not found"})
		return
	}

	var request CrewMemberRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	crew.Name = request.Name
	crew.Type = request.Type
	crew.Title = request.Title
	crew.CostRate = request.CostRate
	crew.Availability = request.Availability
	crew.Notes = request.Notes

	if err := database.DB.Save(&crew).Error; err != nil {
		log.Errorf("Crew update DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update crew member"})
		return
	}

	c.JSON(http.StatusOK, crew)
}

// DeleteCrewMember deletes a crew record
func DeleteCrewMember(c *gin.Context) {
	crewID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid crew member ID"})
		return
	}

	var crew database.CrewMember
	if err := database.DB.First(&crew, crewID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Crew member not found"})
		return
	}

	if err := database.DB.Delete(&crew).Error; err != nil {
		log.Errorf("Crew delete DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete crew member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Crew member deleted successfully"})
}
