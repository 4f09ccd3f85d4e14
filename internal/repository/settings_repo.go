package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yasirarism/vaultmail/internal/domain"
)

// SettingsRepository хранит настройки как JSON-документы по ключу
type SettingsRepository struct {
	db dbtx
}

// NewSettingsRepository создаёт репозиторий настроек
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetRetention возвращает сохранённый срок хранения или (nil, nil)
func (r *SettingsRepository) GetRetention(ctx context.Context) (*domain.RetentionSetting, error) {
	var setting domain.RetentionSetting
	found, err := r.get(ctx, domain.RetentionSettingKey, &setting)
	if err != nil || !found {
		return nil, err
	}
	return &setting, nil
}

// SaveRetention заменяет срок хранения
func (r *SettingsRepository) SaveRetention(ctx context.Context, setting *domain.RetentionSetting) error {
	return r.put(ctx, domain.RetentionSettingKey, setting, setting.UpdatedAt)
}

// GetTelegram возвращает настройки Telegram или (nil, nil)
func (r *SettingsRepository) GetTelegram(ctx context.Context) (*domain.TelegramSetting, error) {
	var setting domain.TelegramSetting
	found, err := r.get(ctx, domain.TelegramSettingKey, &setting)
	if err != nil || !found {
		return nil, err
	}
	return &setting, nil
}

// SaveTelegram заменяет настройки Telegram
func (r *SettingsRepository) SaveTelegram(ctx context.Context, setting *domain.TelegramSetting) error {
	return r.put(ctx, domain.TelegramSettingKey, setting, setting.UpdatedAt)
}

// GetDomains возвращает список доменов админа, nil если он не задавался
func (r *SettingsRepository) GetDomains(ctx context.Context) ([]string, error) {
	var setting domain.DomainsSetting
	if _, err := r.get(ctx, domain.DomainsSettingKey, &setting); err != nil {
		return nil, err
	}
	return setting.Domains, nil
}

// SaveDomains заменяет список доменов админа
func (r *SettingsRepository) SaveDomains(ctx context.Context, domains []string) error {
	if domains == nil {
		domains = []string{}
	}
	return r.put(ctx, domain.DomainsSettingKey, domain.DomainsSetting{Domains: domains}, time.Now().UTC())
}

func (r *SettingsRepository) get(ctx context.Context, key string, dest any) (bool, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode setting %q: %w", key, err)
	}
	return true, nil
}

func (r *SettingsRepository) put(ctx context.Context, key string, value any, updatedAt time.Time) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode setting %q: %w", key, err)
	}

	query := `
        INSERT INTO settings (key, value, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
    `
	_, err = r.db.ExecContext(ctx, query, key, payload, updatedAt)
	return err
}
