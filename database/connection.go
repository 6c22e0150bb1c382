package database

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/maoshanman/durian-order-bot/internal/config"
)

// socketDir is where Cloud Run mounts Cloud SQL unix sockets
const socketDir = "/cloudsql"

// Connect opens the database selected by cfg.StoreDriver (postgres or sqlite)
func Connect(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	var dialector gorm.Dialector
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		log.Info().Str("path", cfg.SQLitePath).Msg("Connecting to SQLite")
		dialector = sqlite.Open(cfg.SQLitePath)
	case config.StorePostgres:
		dialector = postgres.Open(PostgresDSN(cfg))
	default:
		return nil, errors.Errorf("store driver %q is not a database", cfg.StoreDriver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, errors.Wrap(err, "connect to database")
	}

	log.Info().Str("driver", cfg.StoreDriver).Msg("✅ Database connected successfully!")
	return db, nil
}

// PostgresDSN builds the DSN, preferring the Cloud SQL socket when INSTANCE_CONNECTION_NAME is set
func PostgresDSN(cfg *config.Config) string {
	if cfg.InstanceConnectionName != "" {
		log.Info().Str("instance", cfg.InstanceConnectionName).Msg("Connecting to Cloud SQL via socket")
		return fmt.Sprintf("host=%s/%s user=%s password=%s dbname=%s sslmode=disable",
			socketDir, cfg.InstanceConnectionName, cfg.DBUser, cfg.DBPass, cfg.DBName)
	}

	log.Info().Str("host", cfg.DBHost).Msg("Connecting to PostgreSQL")
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPass, cfg.DBName, cfg.DBPort)
}
