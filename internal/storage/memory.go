package storage

import (
	"context"
	"sync"

	"github.com/maoshanman/durian-order-bot/internal/models"
)

var headerRow = models.HeaderRow

// MemoryStore holds the order sheet in memory for local runs and tests
type MemoryStore struct {
	mu   sync.RWMutex
	rows [][]string
}

// NewMemoryStore creates a new in-memory sheet containing only the header
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// AppendRow copies row onto the end of the sheet
func (m *MemoryStore) AppendRow(ctx context.Context, row []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rows = append(m.rows, cloneRow(row))
	return nil
}

// ReadAllRows returns the header followed by copies of all appended rows
func (m *MemoryStore) ReadAllRows(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := make([][]string, 0, len(m.rows))
	for _, r := range m.rows {
		rows = append(rows, cloneRow(r))
	}
	return withHeader(rows), nil
}

// Len returns the number of data rows (header excluded)
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}
