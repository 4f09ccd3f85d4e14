// Package scheduler запускает периодические фоновые задачи.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/yasirarism/vaultmail/internal/config"
	"github.com/yasirarism/vaultmail/internal/domain"
)

// Теги задач
const (
	SweepTag         = "expiry sweep"
	DomainRefreshTag = "domain expiration refresh"
)

// jobTimeout ограничивает один запуск задачи
const jobTimeout = 2 * time.Minute

// Sweeper удаляет истёкшие письма
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// Refresher обновляет кэш сроков доменов по умолчанию
type Refresher interface {
	RefreshAll(ctx context.Context) []*domain.DomainExpiration
}

// Scheduler владеет планировщиком gocron и его задачами
type Scheduler struct {
	cron   *gocron.Scheduler
	logger *zap.Logger
}

// New регистрирует очистку и, если задан интервал, обновление сроков доменов.
// refresher может быть nil.
func New(cfg config.JobsConfig, sweeper Sweeper, refresher Refresher, logger *zap.Logger) (*Scheduler, error) {
	if cfg.SweepInterval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive, got %s", cfg.SweepInterval)
	}

	s := &Scheduler{
		cron:   gocron.NewScheduler(time.UTC),
		logger: logger,
	}

	_, err := s.cron.Every(cfg.SweepInterval).SingletonMode().Tag(SweepTag).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if _, err := sweeper.Sweep(ctx); err != nil {
			s.logger.Error("Expiry sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule sweep: %w", err)
	}

	if refresher != nil && cfg.DomainRefreshInterval > 0 {
		_, err := s.cron.Every(cfg.DomainRefreshInterval).SingletonMode().Tag(DomainRefreshTag).Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			refresher.RefreshAll(ctx)
		})
		if err != nil {
			return nil, fmt.Errorf("schedule domain refresh: %w", err)
		}
	}

	return s, nil
}

// Start запускает задачи в фоне, каждая сразу выполняется один раз
func (s *Scheduler) Start() {
	s.logger.Info("Scheduler started", zap.Int("jobs", s.cron.Len()))
	s.cron.StartAsync()
}

// Stop останавливает планировщик, идущие задачи не прерываются
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("Scheduler stopped")
}

// Tags возвращает теги зарегистрированных задач
func (s *Scheduler) Tags() []string {
	var tags []string
	for _, job := range s.cron.Jobs() {
		tags = append(tags, job.Tags()...)
	}
	return tags
}
