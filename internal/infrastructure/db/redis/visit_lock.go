package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	lockTTL        = 5 * time.Second
	lockRetryDelay = 50 * time.Millisecond
	lockAttempts   = 40
)

// releaseScript deletes the lock key only when it still holds our token, so
// an expired lock reacquired by another writer is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// VisitLocker provides a per-customer mutex backed by Redis SET NX.
// Key format: visitlock:<customer_id>
//
// The lock is advisory: the versioned ledger commit remains the correctness
// guard, the lock just keeps concurrent registrations for one customer from
// burning retries.
type VisitLocker struct {
	client *redis.Client
}

// NewVisitLocker creates a VisitLocker wrapping the given Redis client.
func NewVisitLocker(client *redis.Client) *VisitLocker {
	return &VisitLocker{client: client}
}

// Lock acquires the lock for customerID, waiting briefly when contended, and
// returns a release function. The TTL bounds how long a crashed holder can
// block others.
func (l *VisitLocker) Lock(ctx context.Context, customerID string) (func(), error) {
	key := "visitlock:" + customerID
	token := newToken()

	for attempt := 0; attempt < lockAttempts; attempt++ {
		ok, err := l.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("visit lock: %w", err)
		}
		if ok {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
				defer cancel()
				_ = releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
	return nil, fmt.Errorf("visit lock: %s still held after %v", key, time.Duration(lockAttempts)*lockRetryDelay)
}

func newToken() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
