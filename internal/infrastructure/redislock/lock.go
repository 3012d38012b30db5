package redislock

import (
	"context"
	"fmt"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/redis/go-redis/v9"
	"github.com/workhive/payment-integrity-service/internal/domain"
)

// Compare-and-delete: only the token that acquired the lease may drop
// it, a lease stolen after TTL expiry stays with its new holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisPaymentLocker struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisPaymentLocker(client redis.UniversalClient) *RedisPaymentLocker {
	return &RedisPaymentLocker{client: client, prefix: "paylock"}
}

func (l *RedisPaymentLocker) key(payerID, entitlementID string) string {
	return fmt.Sprintf("%s:%s:%s", l.prefix, payerID, entitlementID)
}

// Acquire is a single atomic SET NX PX. The Redis TTL is the crash
// reclaim path: a holder that dies mid-initiation frees the pair when
// the lease lapses, no sweeper needed.
func (l *RedisPaymentLocker) Acquire(ctx context.Context, payerID, entitlementID string, ttl time.Duration) (string, error) {
	tokenGenerator, err := nanoid.Standard(15)
	if err != nil {
		return "", err
	}
	token := tokenGenerator()

	ok, err := l.client.SetNX(ctx, l.key(payerID, entitlementID), token, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if !ok {
		return "", domain.ErrLockBusy
	}

	return token, nil
}

func (l *RedisPaymentLocker) Release(ctx context.Context, payerID, entitlementID, token string) error {
	_, err := releaseScript.Run(ctx, l.client, []string{l.key(payerID, entitlementID)}, token).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	return nil
}
