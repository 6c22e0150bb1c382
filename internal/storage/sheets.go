package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// sheetValues is the slice of the Sheets values API the store needs
type sheetValues interface {
	Append(ctx context.Context, a1Range string, cells []interface{}) error
	Get(ctx context.Context, a1Range string) ([][]interface{}, error)
}

// SheetsStore appends orders to a Google Sheets worksheet
type SheetsStore struct {
	values    sheetValues
	sheetName string

	mu           sync.Mutex
	headerExists bool
}

// NewSheetsStore authenticates with a service account key file and binds to one worksheet
func NewSheetsStore(ctx context.Context, credentialsFile, spreadsheetID, sheetName string) (*SheetsStore, error) {
	srv, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create sheets service")
	}
	return newSheetsStore(&sheetsAPI{values: srv.Spreadsheets.Values, spreadsheetID: spreadsheetID}, sheetName), nil
}

func newSheetsStore(values sheetValues, sheetName string) *SheetsStore {
	return &SheetsStore{values: values, sheetName: sheetName}
}

// AppendRow writes the header on first use of an empty sheet, then appends row
func (s *SheetsStore) AppendRow(ctx context.Context, row []string) error {
	if err := s.ensureHeader(ctx); err != nil {
		return err
	}
	if err := s.values.Append(ctx, s.sheetName+"!A1", toCells(row)); err != nil {
		return errors.Wrap(err, "append sheet row")
	}
	return nil
}

// ReadAllRows returns every row of the worksheet. An empty worksheet yields just the header.
func (s *SheetsStore) ReadAllRows(ctx context.Context) ([][]string, error) {
	values, err := s.values.Get(ctx, s.sheetName)
	if err != nil {
		return nil, errors.Wrap(err, "read sheet rows")
	}
	if len(values) == 0 {
		return [][]string{header()}, nil
	}

	rows := make([][]string, 0, len(values))
	for _, v := range values {
		rows = append(rows, fromCells(v))
	}
	return rows, nil
}

func (s *SheetsStore) ensureHeader(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.headerExists {
		return nil
	}

	first, err := s.values.Get(ctx, s.sheetName+"!A1:I1")
	if err != nil {
		return errors.Wrap(err, "read sheet header")
	}
	if len(first) == 0 {
		if err := s.values.Append(ctx, s.sheetName+"!A1", toCells(header())); err != nil {
			return errors.Wrap(err, "write sheet header")
		}
		log.Info().Str("sheet", s.sheetName).Msg("📝 Wrote header row to empty sheet")
	}
	s.headerExists = true
	return nil
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}

func fromCells(cells []interface{}) []string {
	row := make([]string, len(cells))
	for i, c := range cells {
		row[i] = fmt.Sprint(c)
	}
	return row
}

// sheetsAPI adapts *sheets.SpreadsheetsValuesService to sheetValues
type sheetsAPI struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
}

func (a *sheetsAPI) Append(ctx context.Context, a1Range string, cells []interface{}) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{cells}}
	_, err := a.values.Append(a.spreadsheetID, a1Range, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func (a *sheetsAPI) Get(ctx context.Context, a1Range string) ([][]interface{}, error) {
	resp, err := a.values.Get(a.spreadsheetID, a1Range).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}
