package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/billing/console/internal/infrastructure/config"
	"github.com/billing/console/internal/infrastructure/logger"
	"github.com/billing/console/internal/infrastructure/persistence"
	"github.com/billing/console/internal/infrastructure/refstore"
	"go.uber.org/zap"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("driver", cfg.Database.Driver),
	)

	switch command {
	case "up":
		if err := refstore.AutoMigrate(db.DB); err != nil {
			log.Fatal("Schema migration failed", zap.Error(err))
		}
		log.Info("Schema migrated successfully")

	case "seed":
		if err := refstore.AutoMigrate(db.DB); err != nil {
			log.Fatal("Schema migration failed", zap.Error(err))
		}
		if err := refstore.Seed(db.DB); err != nil {
			log.Fatal("Seeding failed", zap.Error(err))
		}
		log.Info("Reference data seeded successfully")

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Billing Console Schema Tool

Usage:
  migrate [flags] <command>

Commands:
  up      Create or update the database schema
  seed    Migrate the schema and load baseline reference data

Flags:
  -log-level string   Log level: debug, info, warn, error (default: info)

Environment Variables:
  DB_DRIVER, DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME, DB_SSL_MODE

Examples:
  # Create the schema
  migrate up

  # Seed reference catalogs for a fresh environment
  migrate seed`)
}
