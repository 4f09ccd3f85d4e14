package smtp

import (
	"fmt"
	"net"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/yasirarism/vaultmail/internal/config"
)

// maxRecipients ограничивает число RCPT TO в одной транзакции
const maxRecipients = 50

// Server принимает входящую почту по SMTP
type Server struct {
	server *smtp.Server
	logger *zap.Logger
}

// NewServer создаёт SMTP-сервер.
// hostname показывается в приветствии, размер письма ограничен MaxRequestBytes.
func NewServer(cfg config.ServerConfig, hostname string, ingest Ingester, logger *zap.Logger) *Server {
	backend := NewBackend(ingest, logger)

	server := smtp.NewServer(backend)
	server.Addr = fmt.Sprintf(":%d", cfg.SMTPPort)
	server.Domain = hostname
	server.ReadTimeout = 30 * time.Second
	server.WriteTimeout = 30 * time.Second
	server.MaxMessageBytes = int64(cfg.MaxRequestBytes)
	server.MaxRecipients = maxRecipients

	return &Server{
		server: server,
		logger: logger,
	}
}

// Start слушает настроенный порт и блокируется
func (s *Server) Start() error {
	s.logger.Info("SMTP server listening", zap.String("addr", s.server.Addr), zap.String("domain", s.server.Domain))
	return s.server.ListenAndServe()
}

// Serve принимает подключения на l и блокируется
func (s *Server) Serve(l net.Listener) error {
	return s.server.Serve(l)
}

// Close останавливает сервер
func (s *Server) Close() error {
	return s.server.Close()
}
