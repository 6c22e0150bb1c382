package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maoshanman/durian-order-bot/internal/models"
)

type fakeSheet struct {
	rows      [][]interface{}
	appends   int
	appendErr error
}

func (f *fakeSheet) Append(ctx context.Context, a1Range string, cells []interface{}) error {
	f.appends++
	if f.appendErr != nil {
		return f.appendErr
	}
	f.rows = append(f.rows, cells)
	return nil
}

func (f *fakeSheet) Get(ctx context.Context, a1Range string) ([][]interface{}, error) {
	if a1Range == "Sheet1!A1:I1" {
		if len(f.rows) == 0 {
			return nil, nil
		}
		return f.rows[:1], nil
	}
	return f.rows, nil
}

func TestSheetsStore_WritesHeaderOnceOnEmptySheet(t *testing.T) {
	sheet := &fakeSheet{}
	s := newSheetsStore(sheet, "Sheet1")
	ctx := context.Background()

	require.NoError(t, s.AppendRow(ctx, []string{"2025-06-20 10:00:00", "Alice"}))
	require.NoError(t, s.AppendRow(ctx, []string{"2025-06-20 11:00:00", "Bob"}))
	require.Equal(t, 3, sheet.appends)

	rows, err := s.ReadAllRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, models.HeaderRow, rows[0])
	require.Equal(t, []string{"2025-06-20 11:00:00", "Bob"}, rows[2])
}

func TestSheetsStore_ExistingHeaderNotRewritten(t *testing.T) {
	sheet := &fakeSheet{rows: [][]interface{}{{"Timestamp", "Name"}}}
	s := newSheetsStore(sheet, "Sheet1")

	require.NoError(t, s.AppendRow(context.Background(), []string{"t", "Alice"}))
	require.Equal(t, 1, sheet.appends)
}

func TestSheetsStore_EmptySheetReadsHeader(t *testing.T) {
	s := newSheetsStore(&fakeSheet{}, "Sheet1")

	rows, err := s.ReadAllRows(context.Background())
	require.NoError(t, err)
	require.Equal(t, [][]string{models.HeaderRow}, rows)
}

func TestSheetsStore_AppendError(t *testing.T) {
	sheet := &fakeSheet{rows: [][]interface{}{{"Timestamp"}}, appendErr: errors.New("quota exceeded")}
	s := newSheetsStore(sheet, "Sheet1")

	err := s.AppendRow(context.Background(), []string{"t"})
	require.ErrorContains(t, err, "quota exceeded")
}
