package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/yasirarism/vaultmail/internal/domain"
	"github.com/yasirarism/vaultmail/internal/service"
)

const validToken = "valid-token"

type fakeIngester struct {
	got service.IngestInput
	err error
}

func (f *fakeIngester) Ingest(_ context.Context, in service.IngestInput) (*domain.Message, error) {
	f.got = in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Message{ID: "msg-1"}, nil
}

type fakeMailbox struct {
	messages []*domain.Message
	file     *service.File
	err      error
	request  service.DownloadRequest
	content  bool
}

func (f *fakeMailbox) Inbox(_ context.Context, address string, includeContent bool) ([]*domain.Message, error) {
	f.content = includeContent
	if len(address) < 3 {
		return nil, fmt.Errorf("%w: address too short", domain.ErrValidation)
	}
	return f.messages, f.err
}

func (f *fakeMailbox) Download(_ context.Context, req service.DownloadRequest) (*service.File, error) {
	f.request = req
	return f.file, f.err
}

type fakeAuth struct {
	password string
	client   string
	err      error
}

func (f *fakeAuth) Login(_ context.Context, password, client string) (*domain.AdminSession, error) {
	f.client = client
	if f.err != nil {
		return nil, f.err
	}
	if password != f.password {
		return nil, domain.ErrUnauthorized
	}
	now := time.Now().UTC()
	return &domain.AdminSession{Token: validToken, CreatedAt: now, ExpiresAt: now.Add(domain.AdminSessionMaxAge)}, nil
}

func (f *fakeAuth) IsValid(_ context.Context, token string) bool {
	return token == validToken
}

type fakeRetention struct {
	setting domain.RetentionSetting
	setCall int
}

func (f *fakeRetention) Get(context.Context) (*domain.RetentionSetting, error) {
	s := f.setting
	return &s, nil
}

func (f *fakeRetention) Set(_ context.Context, seconds int) (*domain.RetentionSetting, error) {
	f.setCall++
	if seconds <= 0 {
		return nil, fmt.Errorf("%w: retention seconds must be positive", domain.ErrValidation)
	}
	f.setting = domain.RetentionSetting{Seconds: seconds, UpdatedAt: time.Now().UTC()}
	s := f.setting
	return &s, nil
}

type fakeStats struct {
	err error
}

func (f *fakeStats) Stats(context.Context) (*domain.AdminStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.AdminStats{InboxCount: 2, MessageCount: 5}, nil
}

type fakeNotifySettings struct {
	setting domain.TelegramSetting
}

func (f *fakeNotifySettings) Settings(context.Context) (*domain.TelegramSetting, error) {
	s := f.setting
	return &s, nil
}

func (f *fakeNotifySettings) UpdateSettings(_ context.Context, in service.TelegramInput) (*domain.TelegramSetting, error) {
	f.setting = domain.TelegramSetting{
		Enabled:        in.Enabled,
		BotToken:       in.BotToken,
		ChatID:         in.ChatID,
		AllowedDomains: in.AllowedDomains,
	}
	s := f.setting
	return &s, nil
}

type fakeDomains struct {
	stored    []string
	defaults  []string
	refreshed int
}

func (f *fakeDomains) Domains(context.Context) ([]string, error) {
	if len(f.stored) > 0 {
		return f.stored, nil
	}
	return f.defaults, nil
}

func (f *fakeDomains) StoredDomains(context.Context) ([]string, error) {
	if f.stored == nil {
		return []string{}, nil
	}
	return f.stored, nil
}

func (f *fakeDomains) SetDomains(_ context.Context, domains []string) ([]string, error) {
	f.stored = domains
	return domains, nil
}

func (f *fakeDomains) Lookup(_ context.Context, name string) (*domain.DomainExpiration, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: domain required", domain.ErrValidation)
	}
	return &domain.DomainExpiration{Domain: name, CheckedAt: time.Now().UTC()}, nil
}

func (f *fakeDomains) RefreshAll(context.Context) []*domain.DomainExpiration {
	f.refreshed++
	out := make([]*domain.DomainExpiration, 0, len(f.defaults))
	for _, d := range f.defaults {
		out = append(out, &domain.DomainExpiration{Domain: d, CheckedAt: time.Now().UTC()})
	}
	return out
}

func (f *fakeDomains) Expirations(context.Context) ([]*domain.DomainExpiration, error) {
	return nil, nil
}

// testEnv собирает все обработчики на заглушках
type testEnv struct {
	app       *fiber.App
	ingest    *fakeIngester
	mailbox   *fakeMailbox
	auth      *fakeAuth
	retention *fakeRetention
	stats     *fakeStats
	notify    *fakeNotifySettings
	domains   *fakeDomains
}

func newTestEnv(cronSecret string, checks map[string]ReadinessCheck) *testEnv {
	env := &testEnv{
		ingest:    &fakeIngester{},
		mailbox:   &fakeMailbox{},
		auth:      &fakeAuth{password: "s3cret"},
		retention: &fakeRetention{setting: domain.RetentionSetting{Seconds: 86400}},
		stats:     &fakeStats{},
		notify:    &fakeNotifySettings{},
		domains:   &fakeDomains{defaults: []string{"ysweb.biz.id"}},
	}

	logger := zap.NewNop()
	env.app = fiber.New()
	SetupRoutes(env.app, Handlers{
		Webhook:  NewWebhookHandler(env.ingest, logger),
		Messages: NewMessageHandler(env.mailbox, logger),
		Admin:    NewAdminHandler(env.auth, env.retention, env.stats, env.notify, env.domains, logger),
		Domains:  NewDomainHandler(env.domains, cronSecret, logger),
		Sessions: env.auth,
		Checks:   checks,
		Logger:   logger,
	})
	return env
}

var errBoom = errors.New("boom")
