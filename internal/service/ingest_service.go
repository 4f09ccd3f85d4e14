package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yasirarism/vaultmail/internal/attachment"
	"github.com/yasirarism/vaultmail/internal/domain"
	"github.com/yasirarism/vaultmail/internal/mailaddr"
	"github.com/yasirarism/vaultmail/internal/metrics"
)

// Источники писем, они же метки метрик
const (
	SourceJSON = "json"
	SourceForm = "form"
	SourceSMTP = "smtp"
)

// IngestInput описывает входящее письмо в одном из форматов:
// *JSONInput, *FormInput или *MIMEInput.
type IngestInput interface {
	source() string
}

// JSONInput содержит тело вебхука application/json
type JSONInput struct {
	Body []byte
}

// FormInput содержит разобранное тело multipart или url-encoded.
// В Fields лежит первое значение каждого поля.
type FormInput struct {
	Fields map[string]string
	Files  []FilePart
}

// MIMEInput содержит письмо, уже разобранное из RFC 5322
type MIMEInput struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
	Parts   []FilePart
}

// FilePart описывает полученное двоичное вложение
type FilePart struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (*JSONInput) source() string { return SourceJSON }
func (*FormInput) source() string { return SourceForm }
func (*MIMEInput) source() string { return SourceSMTP }

// jsonEnvelope описывает принимаемую JSON-схему.
// Поле subject обязательно, но может быть пустым.
type jsonEnvelope struct {
	From        string           `json:"from" validate:"required"`
	To          string           `json:"to" validate:"required"`
	Subject     *string          `json:"subject" validate:"required"`
	Text        string           `json:"text"`
	HTML        string           `json:"html"`
	Attachments []jsonAttachment `json:"attachments" validate:"omitempty,dive"`
}

type jsonAttachment struct {
	Filename      string  `json:"filename"`
	ContentType   string  `json:"contentType"`
	ContentBase64 *string `json:"contentBase64" validate:"required"`
	Size          *int64  `json:"size" validate:"omitempty,gte=0"`
}

// IngestService превращает входящие данные в сохранённые письма
type IngestService struct {
	store     MessageStore
	processor *attachment.Processor
	notifier  Notifier
	stats     *Stats
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewIngestService создаёт сервис приёма. notifier может быть nil.
func NewIngestService(
	store MessageStore,
	processor *attachment.Processor,
	notifier Notifier,
	stats *Stats,
	logger *zap.Logger,
) *IngestService {
	return &IngestService{
		store:     store,
		processor: processor,
		notifier:  notifier,
		stats:     stats,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Ingest проверяет, нормализует и сохраняет письмо, затем вызывает уведомление.
// Пока вход не прошёл проверку, ничего не записывается.
func (s *IngestService) Ingest(ctx context.Context, in IngestInput) (*domain.Message, error) {
	var (
		msg *domain.Message
		err error
	)
	switch v := in.(type) {
	case *JSONInput:
		msg, err = s.fromJSON(v)
	case *FormInput:
		msg = s.fromForm(v)
	case *MIMEInput:
		msg = s.fromMIME(v)
	default:
		return nil, domain.ErrUnsupportedEncoding
	}
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(msg.FromRaw) == "" || strings.TrimSpace(msg.ToRaw) == "" {
		return nil, fmt.Errorf("%w: missing parameters", domain.ErrValidation)
	}
	address, ok := mailaddr.Extract(msg.ToRaw)
	if !ok {
		return nil, fmt.Errorf("%w: invalid recipient", domain.ErrValidation)
	}
	msg.Address = address

	if err := s.store.Insert(ctx, msg); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}

	metrics.IncrementIngested(in.source())
	if s.stats != nil {
		s.stats.IncrementIngested()
	}
	s.logger.Info("Message stored",
		zap.String("id", msg.ID),
		zap.String("address", msg.Address),
		zap.String("source", in.source()),
		zap.Int("attachments", len(msg.Attachments)),
	)

	// Уведомление после сохранения, письмо остаётся при любом исходе
	if s.notifier != nil {
		s.notifier.Notify(ctx, msg)
	}

	return msg, nil
}

func (s *IngestService) fromJSON(in *JSONInput) (*domain.Message, error) {
	var env jsonEnvelope
	dec := json.NewDecoder(bytes.NewReader(in.Body))
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON: %v", domain.ErrValidation, err)
	}
	if err := s.validate.Struct(&env); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, describeValidation(err))
	}

	msg := &domain.Message{
		FromRaw:     env.From,
		ToRaw:       env.To,
		Subject:     *env.Subject,
		Text:        env.Text,
		HTML:        firstNonEmpty(env.HTML, env.Text),
		Attachments: make([]domain.Attachment, 0, len(env.Attachments)),
	}
	for _, a := range env.Attachments {
		msg.Attachments = append(msg.Attachments, s.processor.FromBase64(a.Filename, a.ContentType, *a.ContentBase64, a.Size))
	}
	return msg, nil
}

func (s *IngestService) fromForm(in *FormInput) *domain.Message {
	f := in.Fields
	text := firstNonEmpty(f["text"], f["body-plain"])
	return &domain.Message{
		FromRaw:     f["from"],
		ToRaw:       firstNonEmpty(f["to"], f["recipient"]),
		Subject:     firstNonEmpty(f["subject"], domain.NoSubject),
		Text:        text,
		HTML:        firstNonEmpty(f["html"], f["body-html"], text),
		Attachments: s.fromParts(in.Files),
	}
}

func (s *IngestService) fromMIME(in *MIMEInput) *domain.Message {
	return &domain.Message{
		FromRaw:     in.From,
		ToRaw:       in.To,
		Subject:     firstNonEmpty(in.Subject, domain.NoSubject),
		Text:        in.Text,
		HTML:        firstNonEmpty(in.HTML, in.Text),
		Attachments: s.fromParts(in.Parts),
	}
}

func (s *IngestService) fromParts(parts []FilePart) []domain.Attachment {
	attachments := make([]domain.Attachment, 0, len(parts))
	for _, p := range parts {
		attachments = append(attachments, s.processor.FromBytes(p.Filename, p.ContentType, p.Data))
	}
	return attachments
}

// describeValidation выводит ошибки валидатора парами "поле: правило"
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
