package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/maoshanman/durian-order-bot/internal/models"
	"github.com/maoshanman/durian-order-bot/internal/storage"
)

// DefaultLastOrders is how many orders /vieworders shows without an argument
const DefaultLastOrders = 5

// OrderQuery reads back recent orders for administrators
type OrderQuery struct {
	store storage.Store
}

// NewOrderQuery creates a query over store
func NewOrderQuery(store storage.Store) *OrderQuery {
	return &OrderQuery{store: store}
}

// LastN returns the trailing n data rows, oldest first. The header row is never included.
func (q *OrderQuery) LastN(ctx context.Context, n int) ([]models.OrderRecord, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := q.store.ReadAllRows(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read orders")
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	data := rows[1:]
	if len(data) > n {
		data = data[len(data)-n:]
	}

	records := make([]models.OrderRecord, 0, len(data))
	for _, row := range data {
		records = append(records, models.OrderRecordFromRow(row))
	}
	return records, nil
}

// FormatOrder renders one order as "- name (phone): durian qtykg to address"
func FormatOrder(r models.OrderRecord) string {
	qty := r.Qty
	if !strings.HasSuffix(strings.ToLower(strings.TrimSpace(qty)), "kg") {
		qty += "kg"
	}
	return fmt.Sprintf("- %s (%s): %s %s to %s", r.Name, r.Phone, r.Durian, qty, r.Address)
}

// FormatOrders renders the /vieworders reply
func FormatOrders(n int, records []models.OrderRecord) string {
	if len(records) == 0 {
		return MsgNoOrders
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Last %d Orders:\n", n)
	for _, r := range records {
		b.WriteString(FormatOrder(r))
		b.WriteString("\n")
	}
	return b.String()
}
