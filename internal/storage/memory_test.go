package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maoshanman/durian-order-bot/internal/models"
)

func TestMemoryStore_HeaderOnlyWhenEmpty(t *testing.T) {
	s := NewMemoryStore()

	rows, err := s.ReadAllRows(context.Background())
	require.NoError(t, err)
	require.Equal(t, [][]string{models.HeaderRow}, rows)
}

func TestMemoryStore_AppendKeepsOrderAndCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	row := []string{"2025-06-20 10:00:00", "Alice"}
	require.NoError(t, s.AppendRow(ctx, row))
	require.NoError(t, s.AppendRow(ctx, []string{"2025-06-20 11:00:00", "Bob"}))
	row[1] = "mutated"

	rows, err := s.ReadAllRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Alice", rows[1][1])
	require.Equal(t, "Bob", rows[2][1])
	require.Equal(t, 2, s.Len())

	rows[0][0] = "mutated"
	again, err := s.ReadAllRows(ctx)
	require.NoError(t, err)
	require.Equal(t, "Timestamp", again[0][0])
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, s.AppendRow(ctx, []string{"x"}), context.Canceled)
	require.Equal(t, 0, s.Len())
}
