package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/recipebook/backend/config"
)

// Open creates a new gorm connection for the configured driver
func Open(cfg config.Database, log *zap.Logger) (*gorm.DB, error) {
	switch cfg.Driver {
	case "postgres":
		log.Info("connecting to database",
			zap.String("host", cfg.Host),
			zap.String("port", cfg.Port),
			zap.String("user", cfg.User))
		db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig())
		if err != nil {
			return nil, fmt.Errorf("error opening database: %w", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)

		if err := sqlDB.Ping(); err != nil {
			return nil, fmt.Errorf("error connecting to the database: %w", err)
		}
		log.Info("successfully connected to database")
		return db, nil
	case "sqlite":
		log.Info("opening sqlite database", zap.String("path", cfg.SQLitePath))
		return OpenSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// OpenSQLite opens a SQLite database. dsn may be a file path or a
// "file:...?mode=memory" URI.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite database: %w", err)
	}

	// one writer at a time, otherwise concurrent requests hit SQLITE_BUSY
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}
}
