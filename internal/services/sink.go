package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/maoshanman/durian-order-bot/internal/models"
	"github.com/maoshanman/durian-order-bot/internal/storage"
)

// OrderSink turns completed answers into one stored order row
type OrderSink interface {
	Submit(ctx context.Context, answers map[models.Field]string) (models.OrderRecord, error)
}

// SinkError wraps the store failure behind ErrSinkAppendFailed
type SinkError struct {
	Err error
}

func (e *SinkError) Error() string {
	return ErrSinkAppendFailed.Error() + ": " + e.Err.Error()
}

func (e *SinkError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrSinkAppendFailed) match
func (e *SinkError) Is(target error) bool {
	return target == ErrSinkAppendFailed
}

// StoreSink appends orders to a storage.Store with exactly one attempt per call
type StoreSink struct {
	store    storage.Store
	location *time.Location
	timeout  time.Duration
	nowFunc  func() time.Time
}

// NewStoreSink timestamps rows in location's civil time. A zero timeout leaves the append unbounded.
func NewStoreSink(store storage.Store, location *time.Location, timeout time.Duration) *StoreSink {
	if location == nil {
		location = time.Local
	}
	return &StoreSink{
		store:    store,
		location: location,
		timeout:  timeout,
		nowFunc:  time.Now,
	}
}

// Submit prepends the current timestamp to the answers in fixed field order and appends the row.
// There is no retry; a timeout is reported as a failure.
func (s *StoreSink) Submit(ctx context.Context, answers map[models.Field]string) (models.OrderRecord, error) {
	record := models.NewOrderRecord(s.nowFunc().In(s.location), answers)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := s.store.AppendRow(ctx, record.Row()); err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("❌ Error writing order to store")
		return record, &SinkError{Err: errors.Wrap(err, "append order row")}
	}

	log.Info().Str("timestamp", record.Timestamp).Dur("elapsed", time.Since(start)).Msg("✅ Order row appended")
	return record, nil
}
