package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Alijeyrad/transfers_backend/pkg/util/codes"
)

// ErrLocked is returned by Acquire when another holder owns the lock.
var ErrLocked = errors.New("redis: lock is held")

const lockPrefix = "transfers:lock:"

// releaseScript deletes the key only while it still carries our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker hands out TTL-bounded exclusive locks.
type Locker struct {
	rdb goredis.UniversalClient
}

func NewLocker(rdb goredis.UniversalClient) *Locker {
	return &Locker{rdb: rdb}
}

// Lock is a held lock. Release is safe to call more than once.
type Lock struct {
	rdb   goredis.UniversalClient
	key   string
	token string
}

// Acquire takes the named lock for ttl or returns ErrLocked.
func (l *Locker) Acquire(ctx context.Context, name string, ttl time.Duration) (*Lock, error) {
	token, err := codes.GenerateSecureToken(16)
	if err != nil {
		return nil, err
	}
	key := lockPrefix + name
	ok, err := l.rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return &Lock{rdb: l.rdb, key: key, token: token}, nil
}

func (lk *Lock) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, lk.rdb, []string{lk.key}, lk.token).Err(); err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
