package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yasirarism/vaultmail/internal/domain"
)

// tokenBytes задаёт число случайных байт токена до hex-кодирования
const tokenBytes = 32

// SessionService выдаёт и проверяет сессии админа
type SessionService struct {
	store    SessionStore
	limiter  LoginLimiter
	password string
	logger   *zap.Logger
	now      func() time.Time
}

// NewSessionService создаёт сервис сессий.
// password может быть открытым текстом или хэшем bcrypt, пустой отключает вход.
func NewSessionService(store SessionStore, limiter LoginLimiter, password string, logger *zap.Logger) *SessionService {
	return &SessionService{
		store:    store,
		limiter:  limiter,
		password: password,
		logger:   logger,
		now:      time.Now,
	}
}

// Login проверяет пароль админа и выдаёт сессию на семь дней.
// После повторных ошибок клиент временно блокируется.
func (s *SessionService) Login(ctx context.Context, password, client string) (*domain.AdminSession, error) {
	if s.password == "" {
		return nil, domain.ErrUnauthorized
	}

	if s.limiter != nil {
		locked, err := s.limiter.Locked(ctx, client)
		if err != nil {
			s.logger.Warn("Login limiter unavailable, allowing attempt", zap.String("client", client), zap.Error(err))
		} else if locked {
			return nil, domain.ErrTooManyAttempts
		}
	}

	if !s.passwordMatches(password) {
		return nil, s.registerFailure(ctx, client)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, client); err != nil {
			s.logger.Warn("Login limiter reset failed", zap.String("client", client), zap.Error(err))
		}
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	session := &domain.AdminSession{
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.AdminSessionMaxAge),
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.Info("Admin session created", zap.String("client", client))
	return session, nil
}

// IsValid проверяет, указывает ли токен на действующую сессию.
// Неизвестная, истёкшая или нечитаемая сессия просто недействительна.
func (s *SessionService) IsValid(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	session, err := s.store.Get(ctx, token)
	if err != nil {
		s.logger.Warn("Session lookup failed", zap.Error(err))
		return false
	}
	if session == nil {
		return false
	}
	return !session.IsExpired(s.now())
}

func (s *SessionService) passwordMatches(password string) bool {
	if strings.HasPrefix(s.password, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(s.password), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.password), []byte(password)) == 1
}

func (s *SessionService) registerFailure(ctx context.Context, client string) error {
	if s.limiter == nil {
		return domain.ErrUnauthorized
	}
	locked, err := s.limiter.RegisterFailure(ctx, client)
	if err != nil {
		s.logger.Warn("Login limiter unavailable", zap.String("client", client), zap.Error(err))
		return domain.ErrUnauthorized
	}
	if locked {
		s.logger.Warn("Admin login locked out", zap.String("client", client))
		return domain.ErrTooManyAttempts
	}
	return domain.ErrUnauthorized
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
