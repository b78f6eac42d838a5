package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"planhub/audit"
	"planhub/database"
)

// ProjectRequest contains the data for creating or updating a project
type ProjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	Code        string  `json:"code" binding:"required"`
	Description string  `json:"description"`
	Status      string  `json:"status" binding:"omitempty,oneof=planning active on_hold completed archived"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Budget      float64 `json:"budget"`
}

// projectSnapshot flattens the auditable attributes of a project
func projectSnapshot(p *database.Project) audit.Snapshot {
	return audit.Snapshot{
		"name":        p.Name,
		"code":        p.Code,
		"description": p.Description,
		"start_date":  formatDatePtr(p.StartDate),
		"end_date":    formatDatePtr(p.EndDate),
		"budget":      p.Budget,
	}
}

func formatDatePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}

func parseDatePtr(s *string) (*time.Time, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// CreateProject creates a new project owned by the caller
func CreateProject(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request ProjectRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, ok := parseDatePtr(request.StartDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date, expected YYYY-MM-DD"})
		return
	}
	endDate, ok := parseDatePtr(request.EndDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date, expected YYYY-MM-DD"})
		return
	}

	status := request.Status
	if status == "" {
		status = ProjectStatusPlanning
	}

	project := database.Project{
		Name:        request.Name,
		Code:        request.Code,
		Description: request.Description,
		Status:      status,
		OwnerID:     *userID,
		StartDate:   startDate,
		EndDate:     endDate,
		Budget:      request.Budget,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		_, err := audit.NewWriter(tx).RecordEvent(
			project.ID, audit.EntityProject, project.ID, audit.ActionCreated, userID, nil)
		return err
	})
	if err != nil {
		log.Errorf("Project creation DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, project)
}

// GetProjects lists projects visible to the caller
func GetProjects(c *gin.Context) {
	role, _ := c.Get("role")
	userID := currentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var projects []database.Project
	query := database.DB.Preload("Owner")
	if role != RoleAdmin {
		query = query.
			Joins("LEFT JOIN project_members ON project_members.project_id = projects.id AND project_members.deleted_at IS NULL").
			Where("projects.owner_id = ? OR project_members.user_id = ?", *userID, *userID).
			Distinct("projects.*")
	}

	if err := query.Find(&projects).Error; err != nil {
		log.Errorf("Project list DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	c.JSON(http.StatusOK, projects)
}

// GetProjectByID retrieves a project by ID
func GetProjectByID(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if !canAccessProject(c, projectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	var project database.Project
	if err := database.DB.Preload("Owner").First(&project, projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	c.JSON(http.StatusOK, project)
}

// UpdateProject updates a project and records one activity entry per
// changed field
func UpdateProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if !canAccessProject(c, projectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	var project database.Project
	if err := database.DB.First(&project, projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	var request ProjectRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, ok := parseDatePtr(request.StartDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date, expected YYYY-MM-DD"})
		return
	}
	endDate, ok := parseDatePtr(request.EndDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date, expected YYYY-MM-DD"})
		return
	}

	oldSnapshot := projectSnapshot(&project)

	project.Name = request.Name
	project.Code = request.Code
	project.Description = request.Description
	project.StartDate = startDate
	project.EndDate = endDate
	project.Budget = request.Budget

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&project).Error; err != nil {
			return err
		}
		_, err := audit.NewWriter(tx).RecordFieldChanges(
			project.ID, audit.EntityProject, project.ID,
			oldSnapshot, projectSnapshot(&project), currentUserID(c))
		return err
	})
	if err != nil {
		log.Errorf("Project update DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	c.JSON(http.StatusOK, project)
}

// UpdateProjectStatusRequest carries the target lifecycle status
type UpdateProjectStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=planning active on_hold completed archived"`
}

// UpdateProjectStatus transitions a project's lifecycle status
func UpdateProjectStatus(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if !canAccessProject(c, projectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	var project database.Project
	if err := database.DB.First(&project, projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	var request UpdateProjectStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	oldStatus := project.Status
	project.Status = request.Status

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&project).Error; err != nil {
			return err
		}
		_, err := audit.NewWriter(tx).RecordStatusChange(
			project.ID, audit.EntityProject, project.ID,
			oldStatus, project.Status, currentUserID(c))
		return err
	})
	if err != nil {
		log.Errorf("Project status update DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project status"})
		return
	}

	c.JSON(http.StatusOK, project)
}

// DeleteProject deletes a project (admin only, enforced in routes)
func DeleteProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var project database.Project
	if err := database.DB.First(&project, projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&project).Error; err != nil {
			return err
		}
		_, err := audit.NewWriter(tx).RecordEvent(
			project.ID, audit.EntityProject, project.ID, audit.ActionDeleted, currentUserID(c), nil)
		return err
	})
	if err != nil {
		log.Errorf("Project delete DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// GetProjectSummary returns dashboard counts and the budget rollup
func GetProjectSummary(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if !canAccessProject(c, projectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	var project database.Project
	if err := database.DB.First(&project, projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	var taskCount, openTaskCount, milestoneCount, memberCount int64
	database.DB.Model(&database.Task{}).Where("project_id = ?", projectID).Count(&taskCount)
	database.DB.Model(&database.Task{}).
		Where("project_id = ? AND status <> ?", projectID, TaskStatusDone).
		Count(&openTaskCount)
	database.DB.Model(&database.Milestone{}).Where("project_id = ?", projectID).Count(&milestoneCount)
	database.DB.Model(&database.ProjectMember{}).Where("project_id = ?", projectID).Count(&memberCount)

	planned, actual, err := budgetRollup(projectID)
	if err != nil {
		log.Errorf("Budget rollup error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute budget rollup"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project":        project,
		"task_count":     taskCount,
		"open_tasks":     openTaskCount,
		"milestones":     milestoneCount,
		"members":        memberCount,
		"budget_planned": planned,
		"budget_actual":  actual,
	})
}

// budgetRollup sums the project's budget lines through the raw reporting
// handle when it is connected, falling back to the GORM handle otherwise
func budgetRollup(projectID uint) (planned float64, actual float64, err error) {
	if database.ReportDB != nil {
		row := database.ReportDB.QueryRow(
			`SELECT COALESCE(SUM(planned_amount), 0), COALESCE(SUM(actual_amount), 0)
			 FROM budget_items WHERE project_id = $1 AND deleted_at IS NULL`, projectID)
		err = row.Scan(&planned, &actual)
		return planned, actual, err
	}

	type rollup struct {
		Planned float64
		Actual  float64
	}
	var r rollup
	err = database.DB.Model(&database.BudgetItem{}).
		Select("COALESCE(SUM(planned_amount), 0) AS planned, COALESCE(SUM(actual_amount), 0) AS actual").
		Where("project_id = ?", projectID).
		Scan(&r).Error
	return r.Planned, r.Actual, err
}
