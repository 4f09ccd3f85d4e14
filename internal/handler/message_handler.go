package handler

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/yasirarism/vaultmail/internal/domain"
	"github.com/yasirarism/vaultmail/internal/service"
)

// Mailbox читает письма ящика
type Mailbox interface {
	Inbox(ctx context.Context, address string, includeContent bool) ([]*domain.Message, error)
	Download(ctx context.Context, req service.DownloadRequest) (*service.File, error)
}

// MessageHandler обрабатывает запросы списка писем и скачивания
type MessageHandler struct {
	mailbox Mailbox
	logger  *zap.Logger
}

// NewMessageHandler создаёт обработчик писем
func NewMessageHandler(mailbox Mailbox, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{mailbox: mailbox, logger: logger}
}

// InboxResponse содержит письма адреса, новые сверху
type InboxResponse struct {
	Emails []*domain.Message `json:"emails"`
}

// GetInbox возвращает письма адреса
// @Summary Список писем
// @Description Возвращает последние письма адреса. Содержимое вложений отдаётся только при includeContent=true.
// @Tags inbox
// @Produce json
// @Param address query string true "Адрес ящика" example("box@ysweb.biz.id")
// @Param includeContent query bool false "Отдать содержимое вложений"
// @Success 200 {object} InboxResponse "Письма"
// @Failure 400 {object} ErrorResponse "Некорректный адрес"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/inbox [get]
func (h *MessageHandler) GetInbox(c *fiber.Ctx) error {
	messages, err := h.mailbox.Inbox(c.UserContext(), c.Query("address"), c.QueryBool("includeContent"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if messages == nil {
		messages = []*domain.Message{}
	}
	return c.JSON(InboxResponse{Emails: messages})
}

// Download отдаёт письмо как .eml или одно из вложений.
// Письмо помечается прочитанным.
// @Summary Скачать письмо или вложение
// @Description Скачивает письмо файлом .eml или вложение по индексу. Помечает письмо прочитанным.
// @Tags inbox
// @Produce octet-stream
// @Param address query string true "Адрес ящика"
// @Param emailId query string true "ID письма"
// @Param type query string false "email (по умолчанию) или attachment"
// @Param index query int false "Номер вложения, обязателен для type=attachment"
// @Success 200 {file} file "Файл"
// @Failure 400 {object} ErrorResponse "Нет параметров или они некорректны"
// @Failure 403 {object} ErrorResponse "Письмо принадлежит другому адресу"
// @Failure 404 {object} ErrorResponse "Письмо или вложение не найдено"
// @Failure 413 {object} ErrorResponse "Вложение было слишком большим и не сохранено"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/download [get]
func (h *MessageHandler) Download(c *fiber.Ctx) error {
	file, err := h.mailbox.Download(c.UserContext(), service.DownloadRequest{
		Address: c.Query("address"),
		EmailID: c.Query("emailId"),
		Type:    c.Query("type"),
		Index:   c.Query("index"),
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	return c.Send(file.Body)
}
