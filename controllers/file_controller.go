package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"planhub/audit"
	"planhub/config"
	"planhub/database"
)

// UploadProjectFile stores an uploaded document and its metadata
func UploadProjectFile(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if !canAccessProject(c, projectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	uploadDir := filepath.Join(config.AppConfig.UploadDir, "projects")
	if err := os.MkdirAll(uploadDir, os.ModePerm); err != nil {
		log.Errorf("Failed to create upload directory: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	// Unique filename to avoid collisions between uploads
	filename := strconv.FormatInt(time.Now().UnixNano(), 10) + filepath.Ext(fileHeader.Filename)
	filePath := filepath.Join(uploadDir, filename)

	if err := c.SaveUploadedFile(fileHeader, filePath); err != nil {
		log.Errorf("Failed to save uploaded file: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	file := database.ProjectFile{
		ProjectID:  projectID,
		FileName:   fileHeader.Filename,
		FilePath:   filePath,
		SizeBytes:  fileHeader.Size,
		UploadedBy: currentUserID(c),
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&file).Error; err != nil {
			return err
		}
		_, err := audit.NewWriter(tx).RecordEvent(
			projectID, audit.EntityFile, file.ID, audit.ActionCreated,
			currentUserID(c), map[string]interface{}{"file_name": file.FileName})
		return err
	})
	if err != nil {
		log.Errorf("File record DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record file"})
		return
	}

	c.JSON(http.StatusCreated, file)
}

// GetProjectFiles lists all files of a project
func GetProjectFiles(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if !canAccessProject(c, projectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	var files []database.ProjectFile
	if err := database.DB.Preload("Uploader").
		Where("project_id = ?", projectID).
		Find(&files).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve files"})
		return
	}

	c.JSON(http.StatusOK, files)
}

// DeleteProjectFile removes a file record; the stored file stays on disk
func DeleteProjectFile(c *gin.Context) {
	fileID, ok := parseIDParam(c, "fileId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
		return
	}

	var file database.ProjectFile
	if err := database.DB.First(&file, fileID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	if !canAccessProject(c, file.ProjectID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&file).Error; err != nil {
			return err
		}
		_, err := audit.NewWriter(tx).RecordEvent(
			file.ProjectID, audit.EntityFile, file.ID, audit.ActionDeleted,
			currentUserID(c), map[string]interface{}{"file_name": file.FileName})
		return err
	})
	if err != nil {
		log.Errorf("File delete DB error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}
