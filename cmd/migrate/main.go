package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pageza/recipebook/backend/config"
	"github.com/pageza/recipebook/backend/internal/database"
	"github.com/pageza/recipebook/backend/internal/logger"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	version := flag.Bool("version", false, "Print the current schema version and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.Database.Driver != "postgres" {
		log.Fatal("migrations only run against postgres; sqlite is migrated on startup",
			zap.String("driver", cfg.Database.Driver))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	switch {
	case *version:
		v, err := database.MigrationVersion(db)
		if err != nil {
			log.Fatal("failed to read schema version", zap.Error(err))
		}
		fmt.Println(v)
	case *rollback:
		if err := database.RollbackMigration(db); err != nil {
			log.Fatal("rollback failed", zap.Error(err))
		}
		log.Info("rolled back last migration")
	default:
		if err := database.RunMigrations(db); err != nil {
			log.Fatal("migration failed", zap.Error(err))
		}
		v, err := database.MigrationVersion(db)
		if err != nil {
			log.Fatal("failed to read schema version", zap.Error(err))
		}
		log.Info("all migrations applied", zap.Int64("version", v))
	}
}
