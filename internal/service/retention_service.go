package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yasirarism/vaultmail/internal/domain"
	"github.com/yasirarism/vaultmail/internal/metrics"
)

// RetentionService отвечает за срок хранения и индекс истечения
type RetentionService struct {
	settings       SettingsStore
	index          TTLIndexStore
	writer         RetentionWriter
	defaultSeconds int
	stats          *Stats
	logger         *zap.Logger
	now            func() time.Time
}

// NewRetentionService создаёт сервис срока хранения.
// defaultSeconds действует, пока админ не сохранит свою настройку.
func NewRetentionService(settings SettingsStore, index TTLIndexStore, writer RetentionWriter, defaultSeconds int, stats *Stats, logger *zap.Logger) *RetentionService {
	return &RetentionService{
		settings:       settings,
		index:          index,
		writer:         writer,
		defaultSeconds: defaultSeconds,
		stats:          stats,
		logger:         logger,
		now:            time.Now,
	}
}

// Get возвращает сохранённую настройку или значение по умолчанию. Чтение ничего не записывает.
func (s *RetentionService) Get(ctx context.Context) (*domain.RetentionSetting, error) {
	stored, err := s.settings.GetRetention(ctx)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		return stored, nil
	}
	return &domain.RetentionSetting{Seconds: s.defaultSeconds, UpdatedAt: s.now().UTC()}, nil
}

// Set сохраняет новый TTL и пересоздаёт с ним индекс истечения.
// Настройка, удаление и создание фиксируются вместе, при ошибке остаётся старый TTL.
func (s *RetentionService) Set(ctx context.Context, seconds int) (*domain.RetentionSetting, error) {
	if seconds <= 0 {
		return nil, fmt.Errorf("%w: retention seconds must be positive", domain.ErrValidation)
	}
	if seconds > domain.MaxRetentionSeconds {
		return nil, fmt.Errorf("%w: retention seconds must be at most %d", domain.ErrValidation, domain.MaxRetentionSeconds)
	}

	setting := &domain.RetentionSetting{Seconds: seconds, UpdatedAt: s.now().UTC()}
	if err := s.writer.ReplaceRetention(ctx, setting, domain.TTLIndexName); err != nil {
		return nil, fmt.Errorf("replace retention: %w", err)
	}

	s.logger.Info("Retention updated", zap.Int("seconds", seconds))
	return setting, nil
}

// EnsureIndex создаёт индекс истечения по текущей настройке, если индекса нет.
// Существующий индекс не трогаем.
func (s *RetentionService) EnsureIndex(ctx context.Context) error {
	existing, err := s.index.GetTTLIndex(ctx, domain.TTLIndexName)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	setting, err := s.Get(ctx)
	if err != nil {
		return err
	}
	if err := s.index.CreateTTLIndex(ctx, domain.TTLIndexName, setting.Seconds); err != nil {
		return fmt.Errorf("create TTL index: %w", err)
	}
	s.logger.Info("TTL index created", zap.Int("seconds", setting.Seconds))
	return nil
}

// Sweep удаляет письма старше текущего индекса истечения.
// Без индекса (во время пересоздания) ничего не делает.
func (s *RetentionService) Sweep(ctx context.Context) (int64, error) {
	idx, err := s.index.GetTTLIndex(ctx, domain.TTLIndexName)
	if err != nil {
		return 0, err
	}
	if idx == nil {
		return 0, nil
	}

	now := s.now()
	cutoff := now.Add(-time.Duration(idx.ExpireAfterSeconds) * time.Second)
	deleted, err := s.index.DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	metrics.MessagesExpired.Add(float64(deleted))
	if s.stats != nil {
		s.stats.RecordSweep(deleted, now.UTC())
	}
	if deleted > 0 {
		s.logger.Info("Expired messages removed", zap.Int64("count", deleted), zap.Time("cutoff", cutoff))
	}
	return deleted, nil
}
