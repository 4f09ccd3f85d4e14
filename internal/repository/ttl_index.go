package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/yasirarism/vaultmail/internal/domain"
)

// ttlField задаёт колонку писем, по которой работает индекс TTL
const ttlField = "created_at"

// DropTTLIndex удаляет индекс истечения. Отсутствие индекса ошибкой не считается.
func (r *MessageRepository) DropTTLIndex(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM ttl_indexes WHERE name = $1`, name)
	return err
}

// CreateTTLIndex создаёт индекс истечения на messages.created_at.
// Если индекс с таким именем уже есть, возвращает ошибку.
func (r *MessageRepository) CreateTTLIndex(ctx context.Context, name string, seconds int) error {
	query := `
        INSERT INTO ttl_indexes (name, field, expire_after_seconds, created_at)
        VALUES ($1, $2, $3, $4)
    `
	_, err := r.db.ExecContext(ctx, query, name, ttlField, seconds, time.Now().UTC())
	return err
}

// GetTTLIndex возвращает индекс истечения или (nil, nil), если его нет
func (r *MessageRepository) GetTTLIndex(ctx context.Context, name string) (*domain.TTLIndex, error) {
	query := `
        SELECT name, field, expire_after_seconds, created_at
        FROM ttl_indexes
        WHERE name = $1
    `
	idx := &domain.TTLIndex{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&idx.Name,
		&idx.Field,
		&idx.ExpireAfterSeconds,
		&idx.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// DeleteCreatedBefore удаляет письма, созданные не позже cutoff
func (r *MessageRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE created_at <= $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
