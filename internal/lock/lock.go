// Package lock guards against two intakes running for the same veteran at
// once, using a Redis key per veteran file number.
package lock

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "intake:hlr:"

// ErrNotHeld is returned by Release when the lock expired or belongs to
// another holder.
var ErrNotHeld = errors.New("lock not held")

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker hands out per-veteran intake locks.
type Locker struct {
	rdb *redis.Client
	ttl time.Duration
}

// New returns a Locker whose locks expire after ttl if never released.
func New(rdb *redis.Client, ttl time.Duration) *Locker {
	return &Locker{rdb: rdb, ttl: ttl}
}

// NewClient builds the Redis client shared by the lock and policy services.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// Key is the Redis key guarding a veteran's intake.
func Key(fileNumber string) string {
	return keyPrefix + fileNumber
}

// Acquire tries to take the lock for fileNumber. ok is false when another
// intake already holds it. The returned token must be passed to Release.
func (l *Locker) Acquire(ctx context.Context, fileNumber string) (token string, ok bool, err error) {
	token = uuid.NewString()
	// redis/go-redis/v9: SetNX only writes when the key is absent; the TTL
	// frees the lock if the holder dies mid-intake.
	ok, err = l.rdb.SetNX(ctx, Key(fileNumber), token, l.ttl).Result()
	if err != nil {
		return "", false, err
	}
	if !ok {
		log.Printf("lock: intake already in progress for %s", fileNumber)
		return "", false, nil
	}
	return token, true, nil
}

// Release frees the lock if token still owns it.
func (l *Locker) Release(ctx context.Context, fileNumber, token string) error {
	n, err := releaseScript.Run(ctx, l.rdb, []string{Key(fileNumber)}, token).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotHeld
	}
	return nil
}
