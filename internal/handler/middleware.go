package handler

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AdminSessionCookie хранит токен сессии админа
const AdminSessionCookie = "vaultmail_admin_session"

// SessionChecker проверяет токены сессий админа
type SessionChecker interface {
	IsValid(ctx context.Context, token string) bool
}

// RequireAdmin отклоняет запросы без действующей сессии админа
func RequireAdmin(sessions SessionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !sessions.IsValid(c.UserContext(), c.Cookies(AdminSessionCookie)) {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "Unauthorized"})
		}
		return c.Next()
	}
}

// clientIP определяет клиента для блокировки входа.
// Сначала смотрим заголовки прокси: x-forwarded-for, x-real-ip, cf-connecting-ip.
func clientIP(c *fiber.Ctx) string {
	if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}
	for _, header := range []string{"X-Real-Ip", "Cf-Connecting-Ip"} {
		if v := strings.TrimSpace(c.Get(header)); v != "" {
			return v
		}
	}
	if ip := c.IP(); ip != "" {
		return ip
	}
	return "unknown"
}
