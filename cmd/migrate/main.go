// Package main provides a CLI tool for running database migrations.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/wealth-analytics/internal/config"
	"github.com/wealth-analytics/internal/storage"
)

func main() {
	var (
		action = flag.String("action", "up", "Migration action: up, down, version")
		dbType = flag.String("db", "policy", "Database type: policy, warehouse")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	switch *dbType {
	case "policy":
		if err := runPolicyMigrations(cfg, *action); err != nil {
			log.Fatalf("Policy store migration failed: %v", err)
		}
	case "warehouse":
		if err := runWarehouseMigrations(cfg, *action); err != nil {
			log.Fatalf("Warehouse migration failed: %v", err)
		}
	default:
		log.Fatalf("Unknown database type: %s", *dbType)
	}
}

func runPolicyMigrations(cfg *config.Config, action string) error {
	if !cfg.Database.Policy.Enabled() {
		return fmt.Errorf("no policy store configured (set POLICY_DB_HOST)")
	}

	databaseURL := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.Database.Policy.User,
		cfg.Database.Policy.Password,
		cfg.Database.Policy.Host,
		cfg.Database.Policy.Port,
		cfg.Database.Policy.Database,
	)

	migrationsPath := "migrations/policy"

	switch action {
	case "up":
		log.Println("Running policy-store migrations...")
		if err := storage.RunPolicyMigrations(databaseURL, migrationsPath); err != nil {
			return err
		}
		log.Println("Policy-store migrations completed successfully")
	case "down":
		log.Println("Rolling back last policy-store migration...")
		if err := storage.RollbackPolicyMigrations(databaseURL, migrationsPath); err != nil {
			return err
		}
		log.Println("Rollback completed successfully")
	case "version":
		version, dirty, err := storage.PolicyMigrationVersion(databaseURL, migrationsPath)
		if err != nil {
			return err
		}
		log.Printf("Policy-store migration version: %d (dirty: %v)", version, dirty)
	default:
		return fmt.Errorf("unknown action: %s", action)
	}

	return nil
}

func runWarehouseMigrations(cfg *config.Config, action string) error {
	if action != "up" {
		return fmt.Errorf("warehouse migrations only support the up action")
	}

	db, err := storage.NewWarehouseDB(&cfg.Database.Warehouse)
	if err != nil {
		return fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	defer db.Close()

	migrationsPath := "migrations/warehouse"
	if _, err := os.Stat(migrationsPath); err != nil {
		return fmt.Errorf("migrations directory not found: %w", err)
	}

	log.Println("Running warehouse migrations...")
	if err := storage.RunWarehouseMigrations(db, migrationsPath); err != nil {
		return err
	}
	log.Println("Warehouse migrations completed successfully")

	return nil
}
