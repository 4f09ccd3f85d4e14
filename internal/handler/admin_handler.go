package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/yasirarism/vaultmail/internal/domain"
	"github.com/yasirarism/vaultmail/internal/service"
)

// Authenticator выдаёт сессии админа
type Authenticator interface {
	Login(ctx context.Context, password, client string) (*domain.AdminSession, error)
}

// Retention читает и меняет срок хранения
type Retention interface {
	Get(ctx context.Context) (*domain.RetentionSetting, error)
	Set(ctx context.Context, seconds int) (*domain.RetentionSetting, error)
}

// StatsSource даёт сводку по хранилищу
type StatsSource interface {
	Stats(ctx context.Context) (*domain.AdminStats, error)
}

// NotificationSettings читает и меняет настройки Telegram
type NotificationSettings interface {
	Settings(ctx context.Context) (*domain.TelegramSetting, error)
	UpdateSettings(ctx context.Context, in service.TelegramInput) (*domain.TelegramSetting, error)
}

// AdminHandler обрабатывает запросы админки и публичные запросы срока хранения
type AdminHandler struct {
	auth      Authenticator
	retention Retention
	stats     StatsSource
	notify    NotificationSettings
	domains   DomainCatalog
	logger    *zap.Logger
}

// NewAdminHandler создаёт обработчик админки
func NewAdminHandler(
	auth Authenticator,
	retention Retention,
	stats StatsSource,
	notify NotificationSettings,
	domains DomainCatalog,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		auth:      auth,
		retention: retention,
		stats:     stats,
		notify:    notify,
		domains:   domains,
		logger:    logger,
	}
}

// LoginRequest содержит тело запроса входа
type LoginRequest struct {
	Password string `json:"password"`
}

// SuccessResponse подтверждает действие без данных
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// RetentionRequest меняет срок хранения
type RetentionRequest struct {
	Seconds *int `json:"seconds" example:"86400"`
}

// SettingsRequest меняет срок хранения через старый адрес настроек
type SettingsRequest struct {
	RetentionSeconds *int `json:"retentionSeconds" example:"86400"`
}

// DomainsRequest заменяет список доменов
type DomainsRequest struct {
	Domains []string `json:"domains"`
}

// AdminDomainsResponse показывает домены в админке
type AdminDomainsResponse struct {
	Domains     []string                   `json:"domains"`
	Expirations []*domain.DomainExpiration `json:"expirations"`
}

// Login проверяет пароль админа и ставит cookie сессии
// @Summary Вход в админку
// @Description Обменивает пароль админа на cookie сессии на семь дней. После трёх ошибок клиент блокируется на пять минут.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Учётные данные"
// @Success 200 {object} SuccessResponse "Вход выполнен"
// @Failure 400 {object} ErrorResponse "Некорректное тело запроса"
// @Failure 401 {object} ErrorResponse "Неверный пароль"
// @Failure 429 {object} ErrorResponse "Клиент заблокирован"
// @Router /api/admin/auth [post]
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}

	session, err := h.auth.Login(c.UserContext(), req.Password, clientIP(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     AdminSessionCookie,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(domain.AdminSessionMaxAge / time.Second),
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(SuccessResponse{Success: true})
}

// GetRetention возвращает действующий срок хранения
// @Summary Текущий срок хранения
// @Tags settings
// @Produce json
// @Success 200 {object} domain.RetentionSetting
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/retention [get]
// @Router /api/admin/retention [get]
func (h *AdminHandler) GetRetention(c *fiber.Ctx) error {
	setting, err := h.retention.Get(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(setting)
}

// SetRetention меняет срок хранения
// @Summary Изменить срок хранения
// @Description Сохраняет новый TTL в секундах и пересоздаёт индекс истечения. Действует и на уже полученные письма.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body RetentionRequest true "Новый TTL"
// @Success 200 {object} domain.RetentionSetting
// @Failure 400 {object} ErrorResponse "Нет seconds или значение не положительное"
// @Failure 401 {object} ErrorResponse "Нет сессии админа"
// @Router /api/admin/retention [post]
func (h *AdminHandler) SetRetention(c *fiber.Ctx) error {
	var req RetentionRequest
	if err := c.BodyParser(&req); err != nil || req.Seconds == nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Missing fields"})
	}
	return h.applyRetention(c, *req.Seconds)
}

// UpdateSettings меняет срок хранения
// @Summary Изменить срок хранения (форма настроек)
// @Tags settings
// @Accept json
// @Produce json
// @Param request body SettingsRequest true "Новый TTL"
// @Success 200 {object} domain.RetentionSetting
// @Failure 400 {object} ErrorResponse "Нет retentionSeconds или значение не положительное"
// @Failure 401 {object} ErrorResponse "Нет сессии админа"
// @Router /api/settings [post]
func (h *AdminHandler) UpdateSettings(c *fiber.Ctx) error {
	var req SettingsRequest
	if err := c.BodyParser(&req); err != nil || req.RetentionSeconds == nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Missing fields"})
	}
	return h.applyRetention(c, *req.RetentionSeconds)
}

func (h *AdminHandler) applyRetention(c *fiber.Ctx, seconds int) error {
	setting, err := h.retention.Set(c.UserContext(), seconds)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(setting)
}

// GetStats возвращает сводку по хранилищу
// @Summary Статистика хранилища
// @Tags admin
// @Produce json
// @Success 200 {object} domain.AdminStats
// @Failure 401 {object} ErrorResponse "Нет сессии админа"
// @Router /api/admin/stats [get]
func (h *AdminHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.stats.Stats(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(stats)
}

// GetTelegram возвращает настройки уведомлений
// @Summary Настройки уведомлений Telegram
// @Tags admin
// @Produce json
// @Success 200 {object} domain.TelegramSetting
// @Failure 401 {object} ErrorResponse "Нет сессии админа"
// @Router /api/admin/telegram [get]
func (h *AdminHandler) GetTelegram(c *fiber.Ctx) error {
	setting, err := h.notify.Settings(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(setting)
}

// UpdateTelegram заменяет настройки уведомлений
// @Summary Обновить настройки уведомлений Telegram
// @Tags admin
// @Accept json
// @Produce json
// @Param request body service.TelegramInput true "Настройки"
// @Success 200 {object} domain.TelegramSetting
// @Failure 400 {object} ErrorResponse "Некорректное тело запроса"
// @Failure 401 {object} ErrorResponse "Нет сессии админа"
// @Router /api/admin/telegram [post]
func (h *AdminHandler) UpdateTelegram(c *fiber.Ctx) error {
	var req service.TelegramInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}
	setting, err := h.notify.UpdateSettings(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(setting)
}

// GetDomains возвращает домены админа и закэшированные сроки доменов по умолчанию
// @Summary Домены в админке
// @Tags admin
// @Produce json
// @Success 200 {object} AdminDomainsResponse
// @Failure 401 {object} ErrorResponse "Нет сессии админа"
// @Router /api/admin/domains [get]
func (h *AdminHandler) GetDomains(c *fiber.Ctx) error {
	ctx := c.UserContext()
	domains, err := h.domains.StoredDomains(ctx)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	expirations, err := h.domains.Expirations(ctx)
	if err != nil {
		return respondError(c, h.logger, fmt.Errorf("list domain expirations: %w", err))
	}
	if expirations == nil {
		expirations = []*domain.DomainExpiration{}
	}
	return c.JSON(AdminDomainsResponse{Domains: domains, Expirations: expirations})
}

// UpdateDomains заменяет список доменов
// @Summary Обновить список доменов
// @Tags admin
// @Accept json
// @Produce json
// @Param request body DomainsRequest true "Домены"
// @Success 200 {object} DomainsResponse
// @Failure 400 {object} ErrorResponse "Некорректное тело запроса"
// @Failure 401 {object} ErrorResponse "Нет сессии админа"
// @Router /api/admin/domains [post]
func (h *AdminHandler) UpdateDomains(c *fiber.Ctx) error {
	var req DomainsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid request body"})
	}
	domains, err := h.domains.SetDomains(c.UserContext(), req.Domains)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(DomainsResponse{Domains: domains})
}
