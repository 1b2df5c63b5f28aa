package main

import (
	"log"

	"github.com/gabaritai/backend/internal/config"
	"github.com/gabaritai/backend/internal/database"
)

// Removes expired and revoked refresh tokens plus audit entries older
// than one year. Intended to run from cron.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	res := db.Exec("DELETE FROM refresh_tokens WHERE revoked = ? OR expires_at < NOW()", true)
	if res.Error != nil {
		log.Printf("Error purging refresh tokens: %v", res.Error)
	} else {
		log.Printf("Purged %d refresh tokens", res.RowsAffected)
	}

	res = db.Exec("DELETE FROM audit_logs WHERE timestamp < NOW() - INTERVAL '1 year'")
	if res.Error != nil {
		log.Printf("Error purging audit logs: %v", res.Error)
	} else {
		log.Printf("Purged %d audit log entries", res.RowsAffected)
	}

	log.Println("Database cleanup completed")
}
