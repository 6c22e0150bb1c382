package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/maoshanman/durian-order-bot/internal/models"
	"github.com/maoshanman/durian-order-bot/internal/storage"
)

var exampleAnswers = []string{
	"Alice",
	"91234567",
	"MSW",
	"2kg",
	"Yes",
	"123 Main St, #01-01, Singapore 123456",
	"25 Jun 25",
	"2pm-6pm",
}

// failingStore rejects every append and records how often it was called
type failingStore struct {
	mu      sync.Mutex
	appends int
	err     error
}

func (f *failingStore) AppendRow(ctx context.Context, row []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appends++
	return f.err
}

func (f *failingStore) ReadAllRows(ctx context.Context) ([][]string, error) {
	return nil, f.err
}

func (f *failingStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.appends
}

// blockingStore waits for ctx before failing, like an unreachable backend
type blockingStore struct{}

func (blockingStore) AppendRow(ctx context.Context, row []string) error {
	<-ctx.Done()
	return ctx.Err()
}

func (blockingStore) ReadAllRows(ctx context.Context) ([][]string, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

var errBackendDown = errors.New("backend down")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func singapore() *time.Location {
	return time.FixedZone("SGT", 8*60*60)
}

// newTestEngine wires an engine to a fresh memory store with a fixed clock
func newTestEngine(store storage.Store) (*ConversationEngine, *SessionStore) {
	sessions := NewSessionStore()
	sink := NewStoreSink(store, singapore(), time.Second)
	sink.nowFunc = fixedClock(time.Date(2025, 6, 20, 2, 30, 0, 0, time.UTC))
	return NewConversationEngine(sessions, NewFieldValidator(), sink), sessions
}

func orderRow(ts, name string) []string {
	r := models.OrderRecord{
		Timestamp: ts,
		Name:      name,
		Phone:     "9" + name,
		Durian:    "MSW",
		Qty:       "2",
		Address:   "1 Durian Road, Singapore 000001",
	}
	return r.Row()
}
