package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yasirarism/vaultmail/internal/config"
	"github.com/yasirarism/vaultmail/internal/domain"
)

// ExpirationFreshness задаёт, сколько результат WHOIS отдаётся из кэша
const ExpirationFreshness = 24 * time.Hour

// DomainService управляет доменами и кэшем сроков их регистрации
type DomainService struct {
	settings       SettingsStore
	expirations    DomainExpirationStore
	whois          ExpirationLookup
	defaultDomains []string
	logger         *zap.Logger
	now            func() time.Time
}

// NewDomainService создаёт сервис доменов
func NewDomainService(
	settings SettingsStore,
	expirations DomainExpirationStore,
	whois ExpirationLookup,
	defaultDomains []string,
	logger *zap.Logger,
) *DomainService {
	return &DomainService{
		settings:       settings,
		expirations:    expirations,
		whois:          whois,
		defaultDomains: defaultDomains,
		logger:         logger,
		now:            time.Now,
	}
}

// Lookup возвращает срок домена из кэша, пока запись свежая, иначе обновляет её
func (s *DomainService) Lookup(ctx context.Context, name string) (*domain.DomainExpiration, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("%w: domain required", domain.ErrValidation)
	}

	cached, err := s.expirations.Get(ctx, name)
	if err != nil {
		// Ошибка чтения кэша означает лишь новый запрос
		s.logger.Warn("Domain expiration cache read failed", zap.String("domain", name), zap.Error(err))
	}
	if cached != nil && s.now().Sub(cached.CheckedAt) < ExpirationFreshness {
		return cached, nil
	}

	return s.Refresh(ctx, name), nil
}

// Refresh всегда запрашивает домен и сохраняет результат.
// Неудачный запрос сохраняется с пустым сроком.
func (s *DomainService) Refresh(ctx context.Context, name string) *domain.DomainExpiration {
	name = strings.ToLower(strings.TrimSpace(name))

	rec := &domain.DomainExpiration{
		Domain:    name,
		ExpiresAt: s.whois.Expiration(ctx, name),
		CheckedAt: domain.StorageTime(s.now()),
	}
	if err := s.expirations.Upsert(ctx, rec); err != nil {
		s.logger.Warn("Domain expiration cache write failed", zap.String("domain", name), zap.Error(err))
	}
	return rec
}

// RefreshAll обновляет все домены по умолчанию
func (s *DomainService) RefreshAll(ctx context.Context) []*domain.DomainExpiration {
	records := make([]*domain.DomainExpiration, 0, len(s.defaultDomains))
	for _, name := range s.defaultDomains {
		records = append(records, s.Refresh(ctx, name))
	}
	s.logger.Info("Domain expirations refreshed", zap.Int("count", len(records)))
	return records
}

// Expirations возвращает записи кэша для доменов по умолчанию
func (s *DomainService) Expirations(ctx context.Context) ([]*domain.DomainExpiration, error) {
	return s.expirations.ListByDomains(ctx, s.defaultDomains)
}

// Domains возвращает публичный список доменов или домены по умолчанию
func (s *DomainService) Domains(ctx context.Context) ([]string, error) {
	stored, err := s.StoredDomains(ctx)
	if err != nil {
		return nil, err
	}
	if len(stored) > 0 {
		return stored, nil
	}
	return append([]string(nil), s.defaultDomains...), nil
}

// StoredDomains возвращает только список админа, он может быть пустым
func (s *DomainService) StoredDomains(ctx context.Context) ([]string, error) {
	stored, err := s.settings.GetDomains(ctx)
	if err != nil {
		return nil, err
	}
	return config.NormalizeDomains(stored), nil
}

// SetDomains заменяет список доменов админа
func (s *DomainService) SetDomains(ctx context.Context, domains []string) ([]string, error) {
	normalized := config.NormalizeDomains(domains)
	if err := s.settings.SaveDomains(ctx, normalized); err != nil {
		return nil, fmt.Errorf("save domains: %w", err)
	}
	return normalized, nil
}
