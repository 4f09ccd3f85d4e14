package domain

import (
	"math"
	"time"
)

// Ключи записей настроек
const (
	RetentionSettingKey = "retention"
	TelegramSettingKey  = "telegram"
	DomainsSettingKey   = "domains"
)

// MaxRetentionSeconds задаёт наибольший TTL, который помещается в колонку индекса
const MaxRetentionSeconds = math.MaxInt32

// TTLIndexName задаёт имя индекса истечения на messages.created_at
const TTLIndexName = "created_at_ttl"

// RetentionSetting хранит общий срок хранения писем
type RetentionSetting struct {
	Seconds   int       `json:"seconds"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TTL возвращает срок хранения как time.Duration
func (r RetentionSetting) TTL() time.Duration {
	return time.Duration(r.Seconds) * time.Second
}

// TTLIndex описывает правило истечения, которое применяет очистка
type TTLIndex struct {
	Name               string
	Field              string
	ExpireAfterSeconds int
	CreatedAt          time.Time
}

// TelegramSetting настраивает уведомления о новых письмах.
// Пустой AllowedDomains означает уведомления для всех доменов.
type TelegramSetting struct {
	Enabled        bool      `json:"enabled"`
	BotToken       string    `json:"botToken"`
	ChatID         string    `json:"chatId"`
	AllowedDomains []string  `json:"allowedDomains"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Configured сообщает, можно ли реально отправить уведомление
func (t *TelegramSetting) Configured() bool {
	return t.Enabled && t.BotToken != "" && t.ChatID != ""
}

// DomainsSetting хранит список доменов, заданный админом
type DomainsSetting struct {
	Domains []string `json:"domains"`
}

// DomainExpiration хранит закэшированный результат WHOIS
type DomainExpiration struct {
	Domain    string     `json:"domain"`
	ExpiresAt *time.Time `json:"expiresAt"` // nil, если запрос не удался
	CheckedAt time.Time  `json:"checkedAt"`
}

// AdminStats содержит сводку по хранилищу писем.
// Счётчики SinceStart и LastSweepAt относятся только к текущему процессу.
type AdminStats struct {
	InboxCount         int64      `json:"inboxCount"`
	MessageCount       int64      `json:"messageCount"`
	LatestReceivedAt   *time.Time `json:"latestReceivedAt"`
	IngestedSinceStart int64      `json:"ingestedSinceStart"`
	ExpiredSinceStart  int64      `json:"expiredSinceStart"`
	LastSweepAt        *time.Time `json:"lastSweepAt"`
}
