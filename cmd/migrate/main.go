package main

import (
	"brokerage_backoffice/internal/config" // Custom import path (Config)
	"brokerage_backoffice/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	db.Migrate(cfg.DSN())      // Run schema auto-migration
}
