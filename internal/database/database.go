package database

import (
	"fmt"
	"log"

	"github.com/gabaritai/backend/internal/config"
	"github.com/gabaritai/backend/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	var logLevel logger.LogLevel
	if cfg.Server.Env == "development" {
		logLevel = logger.Info
	} else {
		logLevel = logger.Silent
	}

	// Debug: Log connection attempt (without password)
	log.Printf("Attempting database connection with DSN: %s", maskPassword(cfg.Database.DSN))

	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.Database.DSN)
	default:
		dialector = postgres.Open(cfg.Database.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection successful")
	return db, nil
}

func maskPassword(dsn string) string {
	// Simple password masking for logging
	if len(dsn) > 20 {
		return dsn[:20] + "...***..."
	}
	return "***"
}

func Migrate(db *gorm.DB) error {
	log.Println("Running migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ExamSession{},
		&models.AnswerSheet{},
		&models.ScoreRecord{},
		&models.MergedResult{},
		&models.AuditLog{},
		&models.RefreshToken{},
	)
	if err != nil {
		return err
	}

	// Add performance indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_sheets_session ON answer_sheets(session_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_sheets_student ON answer_sheets(student_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_scores_session_student ON score_records(session_id, student_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_merged_project ON merged_results(project_id)")

	return nil
}
