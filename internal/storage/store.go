package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/maoshanman/durian-order-bot/database"
	"github.com/maoshanman/durian-order-bot/internal/config"
)

// Store is the tabular order sheet. Row 0 of ReadAllRows is always the header.
type Store interface {
	// AppendRow adds one row after the last existing row
	AppendRow(ctx context.Context, row []string) error

	// ReadAllRows returns every row, header first, in append order
	ReadAllRows(ctx context.Context) ([][]string, error)
}

// Open builds the store selected by cfg.StoreDriver
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		return NewMemoryStore(), nil
	case config.StorePostgres, config.StoreSQLite:
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, err
		}
		return NewDatabaseStore(db)
	case config.StoreSheets:
		return NewSheetsStore(ctx, cfg.GoogleCredentialsFile, cfg.SpreadsheetID, cfg.SheetName)
	case config.StoreDynamoDB:
		return NewDynamoStoreFromConfig(ctx, cfg.AWSRegion, cfg.OrdersTable)
	case config.StoreRedis:
		return NewRedisStore(cfg.RedisAddr, cfg.RedisKey), nil
	default:
		return nil, errors.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// Describe returns a human readable name for the configured backend
func Describe(cfg *config.Config) string {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		return "In-Memory (Testing)"
	case config.StorePostgres:
		return "PostgreSQL Database"
	case config.StoreSQLite:
		return "SQLite Database"
	case config.StoreSheets:
		return "Google Sheets"
	case config.StoreDynamoDB:
		return "DynamoDB"
	case config.StoreRedis:
		return "Redis"
	default:
		return cfg.StoreDriver
	}
}

func withHeader(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows)+1)
	out = append(out, header())
	return append(out, rows...)
}

func header() []string {
	h := make([]string, len(headerRow))
	copy(h, headerRow)
	return h
}

func cloneRow(row []string) []string {
	c := make([]string, len(row))
	copy(c, row)
	return c
}
