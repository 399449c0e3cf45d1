package main

import (
	"carbon_market/internal/config" // Custom import path (Config)
	"carbon_market/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	db.Migrate(cfg.DSN())      // Migrate using the MySQL DSN
}
