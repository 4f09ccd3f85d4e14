package smtp

import (
	"context"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/yasirarism/vaultmail/internal/domain"
	"github.com/yasirarism/vaultmail/internal/service"
)

// Ingester сохраняет разобранное письмо
type Ingester interface {
	Ingest(ctx context.Context, in service.IngestInput) (*domain.Message, error)
}

// Backend реализует smtp.Backend.
// Создаёт сессию на каждое входящее подключение.
type Backend struct {
	ingest Ingester
	logger *zap.Logger
}

// NewBackend создаёт SMTP-бэкенд
func NewBackend(ingest Ingester, logger *zap.Logger) *Backend {
	return &Backend{
		ingest: ingest,
		logger: logger,
	}
}

// NewSession вызывается для каждого нового подключения
func (b *Backend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	remote := ""
	if addr := c.Conn().RemoteAddr(); addr != nil {
		remote = addr.String()
	}
	b.logger.Debug("SMTP connection", zap.String("remote", remote), zap.String("helo", c.Hostname()))

	return &Session{
		backend: b,
		remote:  remote,
	}, nil
}
