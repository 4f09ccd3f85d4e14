package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yasirarism/vaultmail/internal/domain"
)

// retentionLockKey не даёт процессам пересоздавать индекс одновременно
const retentionLockKey = 7_301_404

// RetentionRepository записывает срок хранения вместе с индексом TTL
type RetentionRepository struct {
	db *sql.DB
}

// NewRetentionRepository создаёт репозиторий срока хранения
func NewRetentionRepository(db *sql.DB) *RetentionRepository {
	return &RetentionRepository{db: db}
}

// ReplaceRetention сохраняет настройку, удаляет индекс TTL и создаёт его заново
// с новым TTL. Все три шага фиксируются вместе или не фиксируются вовсе.
func (r *RetentionRepository) ReplaceRetention(ctx context.Context, setting *domain.RetentionSetting, indexName string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	// После Commit ничего не делает
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, retentionLockKey); err != nil {
		return fmt.Errorf("lock retention: %w", err)
	}

	settings := &SettingsRepository{db: tx}
	messages := &MessageRepository{db: tx}

	if err := settings.SaveRetention(ctx, setting); err != nil {
		return fmt.Errorf("save retention: %w", err)
	}
	if err := messages.DropTTLIndex(ctx, indexName); err != nil {
		return fmt.Errorf("drop TTL index: %w", err)
	}
	if err := messages.CreateTTLIndex(ctx, indexName, setting.Seconds); err != nil {
		return fmt.Errorf("create TTL index: %w", err)
	}

	return tx.Commit()
}
