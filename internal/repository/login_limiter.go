package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter считает неудачные входы клиента и блокирует его после лимита.
// Счётчики и блокировки истекают сами.
type LoginLimiter struct {
	rdb         *redis.Client
	prefix      string
	maxAttempts int64
	lockout     time.Duration
}

// NewLoginLimiter создаёт ограничитель, ключи начинаются с prefix
func NewLoginLimiter(rdb *redis.Client, prefix string, maxAttempts int, lockout time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if lockout <= 0 {
		lockout = 5 * time.Minute
	}
	return &LoginLimiter{rdb: rdb, prefix: prefix, maxAttempts: int64(maxAttempts), lockout: lockout}
}

// Locked сообщает, заблокирован ли клиент сейчас
func (l *LoginLimiter) Locked(ctx context.Context, client string) (bool, error) {
	n, err := l.rdb.Exists(ctx, l.lockoutKey(client)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RegisterFailure учитывает неудачную попытку и сообщает, заблокирован ли теперь клиент
func (l *LoginLimiter) RegisterFailure(ctx context.Context, client string) (bool, error) {
	attempts, err := l.rdb.Incr(ctx, l.attemptsKey(client)).Result()
	if err != nil {
		return false, err
	}
	if err := l.rdb.Expire(ctx, l.attemptsKey(client), l.lockout).Err(); err != nil {
		return false, err
	}

	if attempts < l.maxAttempts {
		return false, nil
	}

	pipe := l.rdb.TxPipeline()
	pipe.Set(ctx, l.lockoutKey(client), "1", l.lockout)
	pipe.Del(ctx, l.attemptsKey(client))
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Reset сбрасывает счётчики клиента после успешного входа
func (l *LoginLimiter) Reset(ctx context.Context, client string) error {
	return l.rdb.Del(ctx, l.attemptsKey(client), l.lockoutKey(client)).Err()
}

func (l *LoginLimiter) attemptsKey(client string) string {
	return fmt.Sprintf("%s:attempts:%s", l.prefix, client)
}

func (l *LoginLimiter) lockoutKey(client string) string {
	return fmt.Sprintf("%s:lockout:%s", l.prefix, client)
}
