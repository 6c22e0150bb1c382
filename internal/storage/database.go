package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/maoshanman/durian-order-bot/internal/models"
)

// DatabaseStore keeps the order sheet in a SQL table through gorm
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore migrates the order_rows table and returns the store
func NewDatabaseStore(db *gorm.DB) (*DatabaseStore, error) {
	if err := db.AutoMigrate(&models.OrderRow{}); err != nil {
		return nil, errors.Wrap(err, "migrate order_rows")
	}
	return &DatabaseStore{db: db}, nil
}

// AppendRow inserts one order row
func (d *DatabaseStore) AppendRow(ctx context.Context, row []string) error {
	rec := models.OrderRecordFromRow(row)
	dbRow := models.OrderRow{
		Timestamp:    rec.Timestamp,
		Name:         rec.Name,
		Phone:        rec.Phone,
		Durian:       rec.Durian,
		Qty:          rec.Qty,
		Packing:      rec.Packing,
		Address:      rec.Address,
		DeliveryDate: rec.DeliveryDate,
		DeliveryTime: rec.DeliveryTime,
		CreatedAt:    time.Now(),
	}
	if err := d.db.WithContext(ctx).Create(&dbRow).Error; err != nil {
		return errors.Wrap(err, "insert order row")
	}
	return nil
}

// ReadAllRows returns the header followed by all rows in insertion order
func (d *DatabaseStore) ReadAllRows(ctx context.Context) ([][]string, error) {
	var dbRows []models.OrderRow
	if err := d.db.WithContext(ctx).Order("id asc").Find(&dbRows).Error; err != nil {
		return nil, errors.Wrap(err, "select order rows")
	}

	rows := make([][]string, 0, len(dbRows))
	for _, r := range dbRows {
		rows = append(rows, models.OrderRecord{
			Timestamp:    r.Timestamp,
			Name:         r.Name,
			Phone:        r.Phone,
			Durian:       r.Durian,
			Qty:          r.Qty,
			Packing:      r.Packing,
			Address:      r.Address,
			DeliveryDate: r.DeliveryDate,
			DeliveryTime: r.DeliveryTime,
		}.Row())
	}
	return withHeader(rows), nil
}

// Ping checks the underlying connection (used by /health)
func (d *DatabaseStore) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
