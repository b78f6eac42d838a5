package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"planhub/audit"
	"planhub/database"
)

// TaskRequest contains the data for creating or updating a task
type TaskRequest struct {
	Title          string  `json:"title" binding:"required"`
	Description    string  `json:"description"`
	Priority       string  `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	AssigneeID     *uint   `json:"assignee_id"`
	DueDate        *string `json:"due_date"`
	EstimatedHours float64 `json:"estimated_hours"`
}

// taskSnapshot flattens the auditable attributes of a task
func taskSnapshot(t *database.Task) audit.Snapshot {
	return audit.Snapshot{
		"title":           t.Title,
		"description":     t.Description,
		"priority":        t.Priority,
		"assignee_id":     t.AssigneeID,
		"due_date":        formatDatePtr(t.DueDate),
		"estimated_hours": t.EstimatedHours,
	}
}

// CreateTask creates a task inside a project
func CreateTask(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if !canAccessProject(c, projectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	var request TaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dueDate, ok := parseDatePtr(request.DueDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date, expected YYYY-MM-DD"})
		return
	}

	priority := request.Priority
	if priority == "" {
		priority = "medium"
	}

	task := database.Task{
		ProjectID:      projectID,
		Title:          request.Title,
		Description:    request.Description,
		Status:         TaskStatusTodo,
		Priority:       priority,
		AssigneeID:     request.AssigneeID,
		DueDate:        dueDate,
		EstimatedHours: request.EstimatedHours,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		_, err := audit.NewWriter(tx).RecordEvent(
			projectID, audit.EntityTask, task.ID, audit.ActionCreated, currentUserID(c), nil)
		return err
	})
	if err != nil {
		log.Errorf("Task creation DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetProjectTasks lists all tasks of a project
func GetProjectTasks(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if !canAccessProject(c, projectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	var tasks []database.Task
	if err := database.DB.Preload("Assignee").
		Where("project_id = ?", projectID).
		Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// GetTaskByID retrieves a single task
func GetTaskByID(c *gin.Context) {
	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var task database.Task
	if err := database.DB.Preload("Assignee").First(&task, taskID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if !canAccessProject(c, task.ProjectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTask updates a task and records one activity entry per changed
// field
func UpdateTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var task database.Task
	if err := database.DB.First(&task, taskID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if !canAccessProject(c, task.ProjectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	var request TaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dueDate, ok := parseDatePtr(request.DueDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date, expected YYYY-MM-DD"})
		return
	}

	oldSnapshot := taskSnapshot(&task)

	task.Title = request.Title
	task.Description = request.Description
	if request.Priority != "" {
		task.Priority = request.Priority
	}
	task.AssigneeID = request.AssigneeID
	task.DueDate = dueDate
	task.EstimatedHours = request.EstimatedHours

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		_, err := audit.NewWriter(tx).RecordFieldChanges(
			task.ProjectID, audit.EntityTask, task.ID,
			oldSnapshot, taskSnapshot(&task), currentUserID(c))
		return err
	})
	if err != nil {
		log.Errorf("Task update DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTaskStatusRequest carries the target task status
type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=todo in_progress blocked done"`
}

// UpdateTaskStatus transitions a task's status
func UpdateTaskStatus(c *gin.Context) {
	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var task database.Task
	if err := database.DB.First(&task, taskID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if !canAccessProject(c, task.ProjectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	var request UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	oldStatus := task.Status
	task.Status = request.Status

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		_, err := audit.NewWriter(tx).RecordStatusChange(
			task.ProjectID, audit.EntityTask, task.ID,
			oldStatus, task.Status, currentUserID(c))
		return err
	})
	if err != nil {
		log.Errorf("Task status update DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task status"})
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask deletes a task
func DeleteTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "taskId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var task database.Task
	if err := database.DB.First(&task, taskID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if !canAccessProject(c, task.ProjectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&task).Error; err != nil {
			return err
		}
		_, err := audit.NewWriter(tx).RecordEvent(
			task.ProjectID, audit.EntityTask, task.ID, audit.ActionDeleted, currentUserID(c), nil)
		return err
	})
	if err != nil {
		log.Errorf("Task delete DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
