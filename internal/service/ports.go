package service

import (
	"context"
	"time"

	"github.com/yasirarism/vaultmail/internal/domain"
)

// MessageStore хранит письма
type MessageStore interface {
	Insert(ctx context.Context, msg *domain.Message) error
	ListByAddress(ctx context.Context, address string, limit int) ([]*domain.Message, error)
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	MarkRead(ctx context.Context, id string) error
	Stats(ctx context.Context) (*domain.AdminStats, error)
}

// TTLIndexStore управляет правилом истечения писем
type TTLIndexStore interface {
	CreateTTLIndex(ctx context.Context, name string, seconds int) error
	GetTTLIndex(ctx context.Context, name string) (*domain.TTLIndex, error)
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionWriter сохраняет срок хранения и пересоздаёт по нему индекс TTL за один шаг.
// При ошибке не меняются ни настройка, ни индекс.
type RetentionWriter interface {
	ReplaceRetention(ctx context.Context, setting *domain.RetentionSetting, indexName string) error
}

// SettingsStore хранит настройки
type SettingsStore interface {
	GetRetention(ctx context.Context) (*domain.RetentionSetting, error)
	GetTelegram(ctx context.Context) (*domain.TelegramSetting, error)
	SaveTelegram(ctx context.Context, setting *domain.TelegramSetting) error
	GetDomains(ctx context.Context) ([]string, error)
	SaveDomains(ctx context.Context, domains []string) error
}

// DomainExpirationStore кэширует результаты WHOIS
type DomainExpirationStore interface {
	Get(ctx context.Context, name string) (*domain.DomainExpiration, error)
	Upsert(ctx context.Context, rec *domain.DomainExpiration) error
	ListByDomains(ctx context.Context, names []string) ([]*domain.DomainExpiration, error)
}

// SessionStore хранит сессии админа
type SessionStore interface {
	Save(ctx context.Context, session *domain.AdminSession) error
	Get(ctx context.Context, token string) (*domain.AdminSession, error)
}

// LoginLimiter ограничивает неудачные входы клиента
type LoginLimiter interface {
	Locked(ctx context.Context, client string) (bool, error)
	RegisterFailure(ctx context.Context, client string) (bool, error)
	Reset(ctx context.Context, client string) error
}

// ExpirationLookup узнаёт срок регистрации домена, nil означает неизвестно
type ExpirationLookup interface {
	Expiration(ctx context.Context, domain string) *time.Time
}

// TelegramSender отправляет сообщение в чат через бота
type TelegramSender interface {
	Send(ctx context.Context, botToken, chatID, text string) error
}

// ChatSender отправляет сообщение в заранее заданный канал
type ChatSender interface {
	Send(ctx context.Context, text string) error
}

// Notifier вызывается после сохранения письма
type Notifier interface {
	Notify(ctx context.Context, msg *domain.Message)
}
