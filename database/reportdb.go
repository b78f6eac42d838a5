package database

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"planhub/config"
)

// ReportDB is the global database instance for raw SQL reporting queries
// (dashboard rollups that don't go through GORM models)
var ReportDB *sql.DB

// InitReportDB initializes the raw SQL connection used by reporting
func InitReportDB() error {
	if config.AppConfig.DBDriver != "postgres" {
		return fmt.Errorf("unsupported database driver: %s", config.AppConfig.DBDriver)
	}

	var connStr string
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		connStr = dbURL
		log.Info("Using DATABASE_URL environment variable for reporting connection")
	} else {
		connStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			config.AppConfig.DBHost,
			config.AppConfig.DBPort,
			config.AppConfig.DBUser,
			config.AppConfig.DBPassword,
			config.AppConfig.DBName,
			config.AppConfig.DBSSLMode)
	}

	var err error
	ReportDB, err = sql.Open("postgres", connStr)
	if err != nil {
		log.Errorf("Failed to open reporting database connection: %v", err)
		return err
	}

	if err := ReportDB.Ping(); err != nil {
		log.Errorf("Failed to ping reporting database: %v", err)
		return err
	}

	log.Info("Reporting database connection established")
	return nil
}

// CloseReportDB closes the raw SQL reporting connection
func CloseReportDB() error {
	if ReportDB != nil {
		return ReportDB.Close()
	}
	return nil
}
