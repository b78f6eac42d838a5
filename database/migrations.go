package database

import (
	log "github.com/sirupsen/logrus"
)

// RunMigrations runs all database migrations
func RunMigrations() error {
	log.Info("Running database migrations...")

	// AutoMigrate will create tables if they don't exist
	if err := DB.AutoMigrate(
		&User{},
		&Project{},
		&Task{},
		&Milestone{},
		&BudgetItem{},
		&Stakeholder{},
		&ProjectMember{},
		&ProjectFile{},
		&CrewMember{},
		&AdHocRequest{},
		&TimeEntry{},
		&ActivityLog{},
	); err != nil {
		log.Errorf("Migration failed: %v", err)
		return err
	}

	log.Info("Database migrations completed successfully")
	return nil
}

// SeedDefaultAdmin creates a default admin if none exists
func SeedDefaultAdmin(passwordHash string) {
	var count int64
	if err := DB.Model(&User{}).Where("role = ?", RoleAdmin).Count(&count).Error; err != nil {
		log.Errorf("Failed to check existing admin: %v", err)
		return
	}

	if count > 0 {
		log.Info("Admin user already exists")
		return
	}

	admin := User{
		Name:         "Portfolio Admin",
		Email:        "admin@planhub.local",
		PasswordHash: passwordHash,
		Role:         RoleAdmin,
		Title:        "Administrator",
	}

	if err := DB.Create(&admin).Error; err != nil {
		log.Errorf("Failed to create admin: %v", err)
	} else {
		log.Info("Default admin user created successfully")
	}
}
