package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/yasirarism/vaultmail/internal/domain"
)

// ErrorResponse описывает стандартный ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // Сообщение об ошибке
	Details string `json:"details,omitempty"` // Подробности (необязательно)
}

// errorStatus сопоставляет ошибку сервиса с HTTP-статусом
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUnsupportedEncoding):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrTooManyAttempts):
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError отвечает ошибкой в виде ErrorResponse.
// Неизвестные ошибки пишутся в лог, клиент получает общий ответ.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(status).JSON(ErrorResponse{Error: "Internal server error"})
	}

	resp := ErrorResponse{Error: publicMessage(status)}
	if details := err.Error(); details != resp.Error {
		resp.Details = details
	}
	return c.Status(status).JSON(resp)
}

func publicMessage(status int) string {
	switch status {
	case fiber.StatusUnauthorized:
		return "Unauthorized"
	case fiber.StatusTooManyRequests:
		return "Too many attempts, try again later"
	default:
		return utils.StatusMessage(status)
	}
}
