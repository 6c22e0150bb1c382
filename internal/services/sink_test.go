package services

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/maoshanman/durian-order-bot/internal/models"
	"github.com/maoshanman/durian-order-bot/internal/storage"
)

func answersFrom(values []string) map[models.Field]string {
	answers := make(map[models.Field]string, len(values))
	for i, f := range models.OrderFields {
		answers[f] = values[i]
	}
	return answers
}

func TestStoreSink_SubmitAppendsTimestampedRow(t *testing.T) {
	store := storage.NewMemoryStore()
	sink := NewStoreSink(store, singapore(), time.Second)
	sink.nowFunc = fixedClock(time.Date(2025, 6, 20, 2, 30, 0, 0, time.UTC))

	record, err := sink.Submit(context.Background(), answersFrom(exampleAnswers))
	require.NoError(t, err)
	require.Equal(t, "2025-06-20 10:30:00", record.Timestamp)

	rows, err := store.ReadAllRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, append([]string{"2025-06-20 10:30:00"}, exampleAnswers...), rows[1])
}

func TestStoreSink_MissingAnswersBecomeEmptyCells(t *testing.T) {
	store := storage.NewMemoryStore()
	sink := NewStoreSink(store, time.UTC, 0)

	_, err := sink.Submit(context.Background(), map[models.Field]string{models.FieldName: "Bob"})
	require.NoError(t, err)

	rows, err := store.ReadAllRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows[1], models.RowWidth)
	require.Equal(t, "Bob", rows[1][1])
	require.Equal(t, "", rows[1][8])
}

func TestStoreSink_FailureIsNotRetried(t *testing.T) {
	store := &failingStore{err: errBackendDown}
	sink := NewStoreSink(store, time.UTC, time.Second)

	_, err := sink.Submit(context.Background(), answersFrom(exampleAnswers))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrSinkAppendFailed))
	require.True(t, errors.Is(err, errBackendDown))
	require.Equal(t, "sink_failed", Kind(err))
	require.Equal(t, 1, store.calls())
}

func TestStoreSink_TimeoutIsAFailure(t *testing.T) {
	sink := NewStoreSink(blockingStore{}, time.UTC, 20*time.Millisecond)

	start := time.Now()
	_, err := sink.Submit(context.Background(), answersFrom(exampleAnswers))
	require.Error(t, err)
	require.Less(t, time.Since(start), 2*time.Second)
	require.True(t, errors.Is(err, ErrSinkAppendFailed))
	require.Equal(t, "timeout", Kind(err))
}
