package handler

import (
	"context"
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/yasirarism/vaultmail/internal/domain"
)

// CronSecretHeader проверяет вызовы по расписанию
const CronSecretHeader = "X-Cron-Secret"

// DomainCatalog управляет доменами и кэшем их сроков
type DomainCatalog interface {
	Domains(ctx context.Context) ([]string, error)
	StoredDomains(ctx context.Context) ([]string, error)
	SetDomains(ctx context.Context, domains []string) ([]string, error)
	Lookup(ctx context.Context, name string) (*domain.DomainExpiration, error)
	RefreshAll(ctx context.Context) []*domain.DomainExpiration
	Expirations(ctx context.Context) ([]*domain.DomainExpiration, error)
}

// DomainHandler обрабатывает публичные запросы доменов и обновление сроков
type DomainHandler struct {
	domains    DomainCatalog
	cronSecret string
	logger     *zap.Logger
}

// NewDomainHandler создаёт обработчик доменов.
// При пустом cronSecret обновление доступно без секрета.
func NewDomainHandler(domains DomainCatalog, cronSecret string, logger *zap.Logger) *DomainHandler {
	return &DomainHandler{domains: domains, cronSecret: cronSecret, logger: logger}
}

// DomainsResponse содержит список доменов
type DomainsResponse struct {
	Domains []string `json:"domains"`
}

// RefreshResponse содержит результат обновления сроков
type RefreshResponse struct {
	Updated int                        `json:"updated"`
	Domains []*domain.DomainExpiration `json:"domains"`
}

// GetDomains возвращает домены для адресов
// @Summary Домены для адресов
// @Tags domains
// @Produce json
// @Success 200 {object} DomainsResponse
// @Router /api/domains [get]
func (h *DomainHandler) GetDomains(c *fiber.Ctx) error {
	domains, err := h.domains.Domains(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(DomainsResponse{Domains: domains})
}

// GetExpiration возвращает срок регистрации домена
// @Summary Срок регистрации домена
// @Description Отдаётся из кэша на 24 часа, устаревшие записи обновляются через WHOIS. expiresAt равен null, если срок неизвестен.
// @Tags domains
// @Produce json
// @Param domain query string true "Домен" example("ysweb.biz.id")
// @Success 200 {object} domain.DomainExpiration
// @Failure 400 {object} ErrorResponse "Нужен домен"
// @Router /api/domain-expiration [get]
func (h *DomainHandler) GetExpiration(c *fiber.Ctx) error {
	rec, err := h.domains.Lookup(c.UserContext(), c.Query("domain"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(rec)
}

// RefreshExpirations обновляет сроки всех доменов по умолчанию
// @Summary Обновить сроки доменов
// @Description Запрашивает все домены по умолчанию. Если секрет настроен, нужен заголовок x-cron-secret.
// @Tags domains
// @Produce json
// @Param x-cron-secret header string false "Секрет cron"
// @Success 200 {object} RefreshResponse
// @Failure 401 {object} ErrorResponse "Неверный секрет"
// @Router /api/cron/domain-expiration [get]
func (h *DomainHandler) RefreshExpirations(c *fiber.Ctx) error {
	if h.cronSecret != "" {
		given := c.Get(CronSecretHeader)
		if subtle.ConstantTimeCompare([]byte(given), []byte(h.cronSecret)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "Unauthorized"})
		}
	}

	records := h.domains.RefreshAll(c.UserContext())
	return c.JSON(RefreshResponse{Updated: len(records), Domains: records})
}
