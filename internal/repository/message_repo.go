package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yasirarism/vaultmail/internal/domain"
)

// DefaultListLimit ограничивает список писем, если лимит не передан
const DefaultListLimit = 200

const messageColumns = `id, address, from_raw, to_raw, subject, body_text, body_html, attachments, created_at, is_read`

// MessageRepository хранит входящие письма
type MessageRepository struct {
	db dbtx
}

// NewMessageRepository создаёт репозиторий писем
func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Insert сохраняет письмо, заполняя пустые ID и CreatedAt
func (r *MessageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	msg.CreatedAt = domain.StorageTime(msg.CreatedAt)

	attachments := msg.Attachments
	if attachments == nil {
		attachments = []domain.Attachment{}
	}
	payload, err := json.Marshal(attachments)
	if err != nil {
		return fmt.Errorf("encode attachments: %w", err)
	}

	query := `
        INSERT INTO messages (` + messageColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	_, err = r.db.ExecContext(ctx, query,
		msg.ID,
		msg.Address,
		msg.FromRaw,
		msg.ToRaw,
		msg.Subject,
		msg.Text,
		msg.HTML,
		payload,
		msg.CreatedAt,
		msg.Read,
	)
	return err
}

// ListByAddress возвращает последние письма адреса
func (r *MessageRepository) ListByAddress(ctx context.Context, address string, limit int) ([]*domain.Message, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
        SELECT ` + messageColumns + `
        FROM messages
        WHERE address = $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	rows, err := r.db.QueryContext(ctx, query, address, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]*domain.Message, 0)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

// GetByID ищет письмо. Если его нет, возвращает (nil, nil).
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	// Строка не UUID совпасть не может, а приведение типа упадёт
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`
	msg, err := scanMessage(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// MarkRead помечает письмо прочитанным. Повторный вызов ничего не меняет.
func (r *MessageRepository) MarkRead(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE messages SET is_read = TRUE WHERE id = $1`, id)
	return err
}

// Stats возвращает сводку по хранилищу для админки
func (r *MessageRepository) Stats(ctx context.Context) (*domain.AdminStats, error) {
	query := `SELECT COUNT(DISTINCT address), COUNT(*), MAX(created_at) FROM messages`

	stats := &domain.AdminStats{}
	var latest sql.NullTime
	if err := r.db.QueryRowContext(ctx, query).Scan(&stats.InboxCount, &stats.MessageCount, &latest); err != nil {
		return nil, err
	}
	if latest.Valid {
		t := latest.Time.UTC()
		stats.LatestReceivedAt = &t
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*domain.Message, error) {
	msg := &domain.Message{}
	var attachments []byte
	err := row.Scan(
		&msg.ID,
		&msg.Address,
		&msg.FromRaw,
		&msg.ToRaw,
		&msg.Subject,
		&msg.Text,
		&msg.HTML,
		&attachments,
		&msg.CreatedAt,
		&msg.Read,
	)
	if err != nil {
		return nil, err
	}

	msg.Attachments = []domain.Attachment{}
	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &msg.Attachments); err != nil {
			return nil, fmt.Errorf("decode attachments of %s: %w", msg.ID, err)
		}
	}
	msg.CreatedAt = msg.CreatedAt.UTC()
	return msg, nil
}
