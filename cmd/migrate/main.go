package main

import (
	"payments_admin/internal/config" // Custom import path (Config)
	"payments_admin/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Migrate every table against the configured Postgres database
	db.Migrate(cfg.DSN())
}
