package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yasirarism/vaultmail/internal/attachment"
	"github.com/yasirarism/vaultmail/internal/domain"
	"github.com/yasirarism/vaultmail/internal/repository"
)

// Типы скачивания
const (
	DownloadEmail      = "email"
	DownloadAttachment = "attachment"
)

// minAddressLength задаёт минимальную длину адреса для чтения ящика
const minAddressLength = 3

// DownloadRequest указывает письмо или одно из его вложений
type DownloadRequest struct {
	Address string
	EmailID string
	Type    string // email (по умолчанию) или attachment
	Index   string // номер вложения, обязателен для attachment
}

// File описывает файл для скачивания
type File struct {
	Filename    string
	ContentType string
	Body        []byte
}

// MessageService отвечает за чтение ящика
type MessageService struct {
	store  MessageStore
	stats  *Stats
	logger *zap.Logger
}

// NewMessageService создаёт сервис писем
func NewMessageService(store MessageStore, stats *Stats, logger *zap.Logger) *MessageService {
	return &MessageService{
		store:  store,
		stats:  stats,
		logger: logger,
	}
}

// Inbox возвращает последние письма адреса.
// Содержимое вложений убирается, если не задан includeContent.
func (s *MessageService) Inbox(ctx context.Context, address string, includeContent bool) ([]*domain.Message, error) {
	address = strings.ToLower(strings.TrimSpace(address))
	if len(address) < minAddressLength {
		return nil, fmt.Errorf("%w: address must be at least %d characters", domain.ErrValidation, minAddressLength)
	}

	messages, err := s.store.ListByAddress(ctx, address, repository.DefaultListLimit)
	if err != nil {
		return nil, err
	}

	if !includeContent {
		for _, msg := range messages {
			for i := range msg.Attachments {
				msg.Attachments[i].ContentBase64 = ""
			}
		}
	}
	return messages, nil
}

// Download возвращает письмо документом .eml или одно из вложений.
// Письмо помечается прочитанным после проверки владельца.
func (s *MessageService) Download(ctx context.Context, req DownloadRequest) (*File, error) {
	address := strings.ToLower(strings.TrimSpace(req.Address))
	if address == "" || req.EmailID == "" {
		return nil, fmt.Errorf("%w: address and emailId are required", domain.ErrValidation)
	}
	kind := req.Type
	if kind == "" {
		kind = DownloadEmail
	}
	if kind != DownloadEmail && kind != DownloadAttachment {
		return nil, fmt.Errorf("%w: invalid download type %q", domain.ErrValidation, req.Type)
	}

	msg, err := s.store.GetByID(ctx, req.EmailID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: email not found", domain.ErrNotFound)
	}
	if msg.Address != address {
		return nil, fmt.Errorf("%w: address mismatch", domain.ErrForbidden)
	}

	if err := s.store.MarkRead(ctx, msg.ID); err != nil {
		return nil, fmt.Errorf("mark read: %w", err)
	}
	msg.Read = true

	if kind == DownloadAttachment {
		return attachmentFile(msg, req.Index)
	}
	return emlFile(msg), nil
}

// Stats объединяет счётчики хранилища и процесса
func (s *MessageService) Stats(ctx context.Context) (*domain.AdminStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if s.stats != nil {
		stats.IngestedSinceStart, stats.ExpiredSinceStart, stats.LastSweepAt = s.stats.Snapshot()
	}
	return stats, nil
}

func attachmentFile(msg *domain.Message, rawIndex string) (*File, error) {
	if rawIndex == "" {
		return nil, fmt.Errorf("%w: attachment not found", domain.ErrNotFound)
	}
	index, err := strconv.Atoi(rawIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid attachment index %q", domain.ErrValidation, rawIndex)
	}
	if index < 0 || index >= len(msg.Attachments) {
		return nil, fmt.Errorf("%w: attachment not found", domain.ErrNotFound)
	}

	att := msg.Attachments[index]
	if !att.HasContent() {
		return nil, domain.ErrPayloadTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(stripSpace(att.ContentBase64))
	if err != nil {
		return nil, fmt.Errorf("decode attachment %d of %s: %w", index, msg.ID, err)
	}

	contentType := att.ContentType
	if contentType == "" {
		contentType = domain.DefaultContentType
	}
	return &File{
		Filename:    attachment.SanitizeFilename(att.Filename, attachment.DefaultFilename),
		ContentType: contentType,
		Body:        data,
	}, nil
}

// emlFile собирает простое однокомпонентное письмо, HTML важнее текста
func emlFile(msg *domain.Message) *File {
	subject := msg.DisplaySubject()

	body := strings.TrimSpace(msg.HTML)
	bodyType := "text/html"
	if body == "" {
		body = strings.TrimSpace(msg.Text)
		bodyType = "text/plain"
	}

	lines := []string{
		"From: " + msg.FromRaw,
		"To: " + msg.ToRaw,
		"Subject: " + subject,
		"Date: " + msg.CreatedAt.Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		"Content-Type: " + bodyType + "; charset=utf-8",
		"",
		body,
	}

	return &File{
		Filename:    attachment.SanitizeFilename(subject, "email") + ".eml",
		ContentType: "message/rfc822; charset=utf-8",
		Body:        []byte(strings.Join(lines, "\r\n")),
	}
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
