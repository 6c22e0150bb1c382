package storage

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/maoshanman/durian-order-bot/internal/models"
)

// fakeRedis overrides the two list commands the store uses; anything else panics on the nil embed.
type fakeRedis struct {
	redis.Cmdable
	lists map[string][]string
}

func (f *fakeRedis) RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	for _, v := range values {
		switch b := v.(type) {
		case []byte:
			f.lists[key] = append(f.lists[key], string(b))
		case string:
			f.lists[key] = append(f.lists[key], b)
		}
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(f.lists[key])))
	return cmd
}

func (f *fakeRedis) LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd {
	cmd := redis.NewStringSliceCmd(ctx)
	cmd.SetVal(append([]string(nil), f.lists[key]...))
	return cmd
}

func TestRedisStore_RoundTrip(t *testing.T) {
	fake := &fakeRedis{lists: map[string][]string{}}
	s := newRedisStore(fake, "durian:orders")
	ctx := context.Background()

	row := []string{"2025-06-20 10:00:00", "Alice", "91234567", "MSW", "2kg", "Yes", "123 Main St", "25 Jun 25", "2pm-6pm"}
	require.NoError(t, s.AppendRow(ctx, row))

	rows, err := s.ReadAllRows(ctx)
	require.NoError(t, err)
	require.Equal(t, [][]string{models.HeaderRow, row}, rows)
}

func TestRedisStore_CorruptElement(t *testing.T) {
	fake := &fakeRedis{lists: map[string][]string{"k": {"not-json"}}}
	s := newRedisStore(fake, "k")

	_, err := s.ReadAllRows(context.Background())
	require.ErrorContains(t, err, "decode row 0")
}
