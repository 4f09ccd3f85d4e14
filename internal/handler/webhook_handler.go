package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/yasirarism/vaultmail/internal/domain"
	"github.com/yasirarism/vaultmail/internal/service"
)

// Ingester сохраняет входящие письма
type Ingester interface {
	Ingest(ctx context.Context, in service.IngestInput) (*domain.Message, error)
}

// WebhookHandler принимает письма от почтовых провайдеров
type WebhookHandler struct {
	ingest Ingester
	logger *zap.Logger
}

// NewWebhookHandler создаёт обработчик вебхука
func NewWebhookHandler(ingest Ingester, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{ingest: ingest, logger: logger}
}

// WebhookResponse возвращается для сохранённого письма
type WebhookResponse struct {
	Success bool   `json:"success" example:"true"`
	ID      string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// Receive сохраняет входящее письмо
// @Summary Принять письмо
// @Description Принимает письмо как JSON, multipart или url-encoded форму и сохраняет его в ящик получателя.
// @Tags inbox
// @Accept json,mpfd,x-www-form-urlencoded
// @Produce json
// @Success 200 {object} WebhookResponse "Письмо сохранено"
// @Failure 400 {object} ErrorResponse "Некорректные данные"
// @Failure 415 {object} ErrorResponse "Неподдерживаемый тип содержимого"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/webhook [post]
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	in, err := h.decode(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	msg, err := h.ingest.Ingest(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(WebhookResponse{Success: true, ID: msg.ID})
}

// decode выбирает формат по заголовку Content-Type
func (h *WebhookHandler) decode(c *fiber.Ctx) (service.IngestInput, error) {
	contentType := strings.ToLower(string(c.Request().Header.ContentType()))

	switch {
	case strings.HasPrefix(contentType, fiber.MIMEApplicationJSON):
		// Fiber переиспользует буфер запроса после выхода из обработчика
		return &service.JSONInput{Body: append([]byte(nil), c.Body()...)}, nil

	case strings.HasPrefix(contentType, fiber.MIMEMultipartForm):
		return multipartInput(c)

	case strings.HasPrefix(contentType, fiber.MIMEApplicationForm):
		fields := make(map[string]string)
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			if _, ok := fields[string(key)]; !ok {
				fields[string(key)] = string(value)
			}
		})
		return &service.FormInput{Fields: fields}, nil

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedEncoding, contentType)
	}
}

// multipartInput читает поля и файлы в том порядке, в котором они идут в теле.
// Из повторяющихся полей берётся первое значение.
func multipartInput(c *fiber.Ctx) (*service.FormInput, error) {
	_, params, err := mime.ParseMediaType(string(c.Request().Header.ContentType()))
	if err != nil || params["boundary"] == "" {
		return nil, fmt.Errorf("%w: multipart body without boundary", domain.ErrValidation)
	}

	reader := multipart.NewReader(bytes.NewReader(c.Body()), params["boundary"])
	fields := make(map[string]string)
	var files []service.FilePart

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: malformed multipart body: %v", domain.ErrValidation, err)
		}

		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: malformed multipart body: %v", domain.ErrValidation, err)
		}

		if filename := part.FileName(); filename != "" {
			files = append(files, service.FilePart{
				Filename:    filename,
				ContentType: part.Header.Get(fiber.HeaderContentType),
				Data:        data,
			})
			continue
		}

		name := part.FormName()
		if name == "" {
			continue
		}
		if _, ok := fields[name]; !ok {
			fields[name] = string(data)
		}
	}

	return &service.FormInput{Fields: fields, Files: files}, nil
}
