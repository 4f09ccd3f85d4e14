package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yasirarism/vaultmail/internal/domain"
)

const sessionKeyPrefix = "admin:session:"

// SessionRepository хранит сессии админа в Redis.
// TTL в Redis только освобождает место, срок всё равно проверяется по ExpiresAt.
type SessionRepository struct {
	rdb *redis.Client
}

// NewSessionRepository создаёт репозиторий сессий
func NewSessionRepository(rdb *redis.Client) *SessionRepository {
	return &SessionRepository{rdb: rdb}
}

// Save сохраняет сессию до её истечения
func (r *SessionRepository) Save(ctx context.Context, session *domain.AdminSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, sessionKey(session.Token), payload, ttl).Err()
}

// Get возвращает сессию или (nil, nil) для неизвестного токена
func (r *SessionRepository) Get(ctx context.Context, token string) (*domain.AdminSession, error) {
	raw, err := r.rdb.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session domain.AdminSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

// Delete удаляет сессию
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	return r.rdb.Del(ctx, sessionKey(token)).Err()
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}
