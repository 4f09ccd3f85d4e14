package smtp

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/jhillyerd/enmime"
	"go.uber.org/zap"

	"github.com/yasirarism/vaultmail/internal/domain"
	"github.com/yasirarism/vaultmail/internal/mailaddr"
	"github.com/yasirarism/vaultmail/internal/service"
)

// ingestTimeout ограничивает сохранение письма для всех получателей
const ingestTimeout = 30 * time.Second

var (
	errBadRecipient = &smtp.SMTPError{
		Code:         553,
		EnhancedCode: smtp.EnhancedCode{5, 1, 3},
		Message:      "Recipient address not recognized",
	}
	errNoRecipients = &smtp.SMTPError{
		Code:         554,
		EnhancedCode: smtp.EnhancedCode{5, 5, 1},
		Message:      "No valid recipients",
	}
	errMalformed = &smtp.SMTPError{
		Code:         554,
		EnhancedCode: smtp.EnhancedCode{5, 6, 0},
		Message:      "Message could not be parsed",
	}
	errRejected = &smtp.SMTPError{
		Code:         550,
		EnhancedCode: smtp.EnhancedCode{5, 6, 0},
		Message:      "Message rejected",
	}
	errTemporary = &smtp.SMTPError{
		Code:         451,
		EnhancedCode: smtp.EnhancedCode{4, 3, 0},
		Message:      "Temporary storage failure, try again later",
	}
)

// Session обрабатывает одну SMTP-транзакцию за раз
type Session struct {
	backend *Backend
	remote  string
	from    string   // MAIL FROM
	to      []string // RCPT TO по порядку
}

// Mail вызывается на MAIL FROM
func (s *Session) Mail(from string, opts *smtp.MailOptions) error {
	s.from = from
	return nil
}

// Rcpt вызывается для каждого RCPT TO.
// Проверяется только наличие адреса, домен может быть любым.
func (s *Session) Rcpt(to string, opts *smtp.RcptOptions) error {
	if _, ok := mailaddr.Extract(to); !ok {
		return errBadRecipient
	}
	s.to = append(s.to, to)
	return nil
}

// Data разбирает письмо и сохраняет копию для каждого получателя
func (s *Session) Data(r io.Reader) error {
	if len(s.to) == 0 {
		return errNoRecipients
	}

	env, err := enmime.ReadEnvelope(r)
	if err != nil {
		s.backend.logger.Warn("SMTP message parse failed", zap.String("remote", s.remote), zap.Error(err))
		return errMalformed
	}

	from := env.GetHeader("From")
	if from == "" {
		from = s.from
	}
	parts := fileParts(env)

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	stored := 0
	var lastErr error
	for _, rcpt := range s.to {
		msg, err := s.backend.ingest.Ingest(ctx, &service.MIMEInput{
			From:    from,
			To:      rcpt,
			Subject: env.GetHeader("Subject"),
			Text:    env.Text,
			HTML:    env.HTML,
			Parts:   parts,
		})
		if err != nil {
			lastErr = err
			s.backend.logger.Warn("SMTP message not stored",
				zap.String("remote", s.remote),
				zap.String("to", rcpt),
				zap.Error(err),
			)
			continue
		}
		stored++
		s.backend.logger.Info("SMTP message stored",
			zap.String("id", msg.ID),
			zap.String("to", msg.Address),
			zap.Int("attachments", len(msg.Attachments)),
		)
	}

	if stored > 0 {
		return nil
	}
	if errors.Is(lastErr, domain.ErrValidation) {
		return errRejected
	}
	return errTemporary
}

// Reset сбрасывает состояние транзакции
func (s *Session) Reset() {
	s.from = ""
	s.to = nil
}

// Logout вызывается при закрытии подключения
func (s *Session) Logout() error {
	return nil
}

// fileParts собирает вложения и встроенные части в порядке их следования в письме
func fileParts(env *enmime.Envelope) []service.FilePart {
	wanted := make(map[*enmime.Part]bool, len(env.Attachments)+len(env.Inlines))
	for _, group := range [][]*enmime.Part{env.Attachments, env.Inlines} {
		for _, p := range group {
			wanted[p] = true
		}
	}

	parts := make([]service.FilePart, 0, len(wanted))
	var walk func(p *enmime.Part)
	walk = func(p *enmime.Part) {
		for ; p != nil; p = p.NextSibling {
			if wanted[p] {
				delete(wanted, p)
				parts = append(parts, filePart(p))
			}
			walk(p.FirstChild)
		}
	}
	walk(env.Root)

	// Части, которых нет в дереве, идут в порядке групп enmime
	for _, group := range [][]*enmime.Part{env.Attachments, env.Inlines} {
		for _, p := range group {
			if wanted[p] {
				delete(wanted, p)
				parts = append(parts, filePart(p))
			}
		}
	}
	return parts
}

func filePart(p *enmime.Part) service.FilePart {
	return service.FilePart{
		Filename:    p.FileName,
		ContentType: p.ContentType,
		Data:        p.Content,
	}
}
