package storage

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the order sheet as a Redis list, one JSON-encoded row per element
type RedisStore struct {
	client redis.Cmdable
	key    string
}

// NewRedisStore connects to addr and stores rows under key
func NewRedisStore(addr, key string) *RedisStore {
	return newRedisStore(redis.NewClient(&redis.Options{Addr: addr}), key)
}

func newRedisStore(client redis.Cmdable, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// AppendRow pushes row onto the tail of the list
func (r *RedisStore) AppendRow(ctx context.Context, row []string) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return errors.Wrap(err, "encode row")
	}
	if err := r.client.RPush(ctx, r.key, payload).Err(); err != nil {
		return errors.Wrap(err, "rpush row")
	}
	return nil
}

// ReadAllRows returns the header followed by every list element in push order
func (r *RedisStore) ReadAllRows(ctx context.Context) ([][]string, error) {
	items, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "lrange rows")
	}

	rows := make([][]string, 0, len(items))
	for i, item := range items {
		var row []string
		if err := json.Unmarshal([]byte(item), &row); err != nil {
			return nil, errors.Wrapf(err, "decode row %d", i)
		}
		rows = append(rows, row)
	}
	return withHeader(rows), nil
}

// Ping checks the connection (used by /health)
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
