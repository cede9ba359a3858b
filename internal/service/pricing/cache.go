package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const quoteKeyPrefix = "transfers:quote:"

// QuoteCache keeps issued quotes until they expire. Put never overwrites a
// live quote and reports ErrQuoteNumberTaken instead.
type QuoteCache interface {
	Put(ctx context.Context, q *Quote, ttl time.Duration) error
	Get(ctx context.Context, number string) (*Quote, error)
}

type RedisQuoteCache struct {
	rdb goredis.UniversalClient
}

func NewRedisQuoteCache(rdb goredis.UniversalClient) *RedisQuoteCache {
	return &RedisQuoteCache{rdb: rdb}
}

func (c *RedisQuoteCache) Put(ctx context.Context, q *Quote, ttl time.Duration) error {
	b, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("encode quote: %w", err)
	}
	ok, err := c.rdb.SetNX(ctx, quoteKeyPrefix+q.QuoteNumber, b, ttl).Result()
	if err != nil {
		return fmt.Errorf("put quote: %w", err)
	}
	if !ok {
		return ErrQuoteNumberTaken
	}
	return nil
}

func (c *RedisQuoteCache) Get(ctx context.Context, number string) (*Quote, error) {
	b, err := c.rdb.Get(ctx, quoteKeyPrefix+number).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	var q Quote
	if err := json.Unmarshal(b, &q); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	return &q, nil
}
