package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"go.uber.org/zap"

	"github.com/yasirarism/vaultmail/internal/config"
	"github.com/yasirarism/vaultmail/internal/domain"
	"github.com/yasirarism/vaultmail/internal/mailaddr"
	"github.com/yasirarism/vaultmail/internal/metrics"
)

// NotificationLimit задаёт наибольшую длину уведомления в символах
const NotificationLimit = 4000

// Имена каналов для логов и метрик
const (
	sinkTelegram = "telegram"
	sinkSlack    = "slack"
)

// TelegramInput содержит изменение настроек уведомлений от админа
type TelegramInput struct {
	Enabled        bool     `json:"enabled"`
	BotToken       string   `json:"botToken"`
	ChatID         string   `json:"chatId"`
	AllowedDomains []string `json:"allowedDomains"`
}

// NotifyService отправляет уведомления о новых письмах и хранит их настройки.
// Доставка не гарантируется: ошибки пишутся в лог и не возвращаются.
type NotifyService struct {
	settings  SettingsStore
	telegram  TelegramSender
	slack     ChatSender
	converter *md.Converter
	logger    *zap.Logger
	now       func() time.Time
}

// NewNotifyService создаёт сервис уведомлений. slack может быть nil.
func NewNotifyService(settings SettingsStore, telegram TelegramSender, slack ChatSender, logger *zap.Logger) *NotifyService {
	return &NotifyService{
		settings:  settings,
		telegram:  telegram,
		slack:     slack,
		converter: md.NewConverter("", true, nil),
		logger:    logger,
		now:       time.Now,
	}
}

// Settings возвращает настройки Telegram или выключенные по умолчанию
func (s *NotifyService) Settings(ctx context.Context) (*domain.TelegramSetting, error) {
	setting, err := s.settings.GetTelegram(ctx)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return &domain.TelegramSetting{AllowedDomains: []string{}, UpdatedAt: s.now().UTC()}, nil
	}
	if setting.AllowedDomains == nil {
		setting.AllowedDomains = []string{}
	}
	return setting, nil
}

// UpdateSettings заменяет настройки Telegram
func (s *NotifyService) UpdateSettings(ctx context.Context, in TelegramInput) (*domain.TelegramSetting, error) {
	setting := &domain.TelegramSetting{
		Enabled:        in.Enabled,
		BotToken:       strings.TrimSpace(in.BotToken),
		ChatID:         strings.TrimSpace(in.ChatID),
		AllowedDomains: config.NormalizeDomains(in.AllowedDomains),
		UpdatedAt:      s.now().UTC(),
	}
	if err := s.settings.SaveTelegram(ctx, setting); err != nil {
		return nil, fmt.Errorf("save telegram settings: %w", err)
	}
	return setting, nil
}

// Notify сообщает о сохранённом письме во все настроенные каналы
func (s *NotifyService) Notify(ctx context.Context, msg *domain.Message) {
	setting, err := s.settings.GetTelegram(ctx)
	if err != nil {
		s.logger.Warn("Notification settings unavailable", zap.Error(err))
		return
	}

	telegramOn := setting != nil && setting.Configured()
	if !telegramOn && s.slack == nil {
		return
	}

	if setting != nil && !domainAllowed(setting.AllowedDomains, msg.ToRaw) {
		metrics.RecordNotification("all", "skipped")
		return
	}

	text := s.format(msg)

	if telegramOn {
		s.deliver(sinkTelegram, msg, func() error {
			return s.telegram.Send(ctx, setting.BotToken, setting.ChatID, text)
		})
	}
	if s.slack != nil {
		s.deliver(sinkSlack, msg, func() error {
			return s.slack.Send(ctx, text)
		})
	}
}

func (s *NotifyService) deliver(sink string, msg *domain.Message, send func() error) {
	if err := send(); err != nil {
		metrics.RecordNotification(sink, "failed")
		s.logger.Warn("Notification failed",
			zap.String("sink", sink),
			zap.String("id", msg.ID),
			zap.Error(err),
		)
		return
	}
	metrics.RecordNotification(sink, "sent")
}

// format собирает текст уведомления, обрезая до NotificationLimit символов
func (s *NotifyService) format(msg *domain.Message) string {
	body := msg.Text
	if strings.TrimSpace(body) == "" && msg.HTML != "" {
		converted, err := s.converter.ConvertString(msg.HTML)
		if err != nil {
			s.logger.Debug("HTML to markdown conversion failed", zap.Error(err))
		} else {
			body = converted
		}
	}

	text := strings.Join([]string{
		"📬 New Inbox Message",
		"From: " + mailaddr.Sender(msg.FromRaw).Label,
		"To: " + msg.ToRaw,
		"Subject: " + msg.DisplaySubject(),
		"",
		body,
	}, "\n")

	return truncateRunes(text, NotificationLimit)
}

// domainAllowed проверяет список доменов, пустой список разрешает всё
func domainAllowed(allowed []string, to string) bool {
	if len(allowed) == 0 {
		return true
	}
	recipientDomain := mailaddr.Domain(to)
	if recipientDomain == "" {
		return false
	}
	for _, d := range allowed {
		if strings.EqualFold(strings.TrimSpace(d), recipientDomain) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
