package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yasirarism/vaultmail/internal/domain"
)

var errStoreDown = errors.New("store unavailable")

// memoryMessages реализует MessageStore и TTLIndexStore
type memoryMessages struct {
	mu        sync.Mutex
	messages  map[string]*domain.Message
	indexes   map[string]*domain.TTLIndex
	insertErr error
	calls     []string
}

func newMemoryMessages() *memoryMessages {
	return &memoryMessages{
		messages: make(map[string]*domain.Message),
		indexes:  make(map[string]*domain.TTLIndex),
	}
}

func (m *memoryMessages) Insert(_ context.Context, msg *domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	stored := *msg
	stored.CreatedAt = stored.CreatedAt.Truncate(time.Microsecond)
	stored.Attachments = append([]domain.Attachment(nil), msg.Attachments...)
	m.messages[msg.ID] = &stored
	return nil
}

func (m *memoryMessages) ListByAddress(_ context.Context, address string, limit int) ([]*domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Message
	for _, msg := range m.messages {
		if msg.Address == address {
			cp := *msg
			cp.Attachments = append([]domain.Attachment(nil), msg.Attachments...)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryMessages) GetByID(_ context.Context, id string) (*domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[id]
	if !ok {
		return nil, nil
	}
	cp := *msg
	return &cp, nil
}

func (m *memoryMessages) MarkRead(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg, ok := m.messages[id]; ok {
		msg.Read = true
	}
	return nil
}

func (m *memoryMessages) Stats(_ context.Context) (*domain.AdminStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &domain.AdminStats{MessageCount: int64(len(m.messages))}
	addresses := make(map[string]struct{})
	for _, msg := range m.messages {
		addresses[msg.Address] = struct{}{}
		if stats.LatestReceivedAt == nil || msg.CreatedAt.After(*stats.LatestReceivedAt) {
			t := msg.CreatedAt
			stats.LatestReceivedAt = &t
		}
	}
	stats.InboxCount = int64(len(addresses))
	return stats, nil
}

func (m *memoryMessages) DropTTLIndex(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "drop")
	delete(m.indexes, name)
	return nil
}

func (m *memoryMessages) CreateTTLIndex(_ context.Context, name string, seconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "create")
	if _, ok := m.indexes[name]; ok {
		return errors.New("index already exists")
	}
	m.indexes[name] = &domain.TTLIndex{Name: name, Field: "created_at", ExpireAfterSeconds: seconds, CreatedAt: time.Now()}
	return nil
}

func (m *memoryMessages) GetTTLIndex(_ context.Context, name string) (*domain.TTLIndex, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, ok := m.indexes[name]
	if !ok {
		return nil, nil
	}
	cp := *idx
	return &cp, nil
}

func (m *memoryMessages) DeleteCreatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, msg := range m.messages {
		if !msg.CreatedAt.After(cutoff) {
			delete(m.messages, id)
			n++
		}
	}
	return n, nil
}

// memoryRetention реализует RetentionWriter поверх хранилищ в памяти.
// Если задан err, падает, не трогая хранилища.
type memoryRetention struct {
	settings *memorySettings
	store    *memoryMessages
	err      error
}

func (m *memoryRetention) ReplaceRetention(ctx context.Context, setting *domain.RetentionSetting, indexName string) error {
	if m.err != nil {
		return m.err
	}
	if err := m.settings.SaveRetention(ctx, setting); err != nil {
		return err
	}
	if err := m.store.DropTTLIndex(ctx, indexName); err != nil {
		return err
	}
	return m.store.CreateTTLIndex(ctx, indexName, setting.Seconds)
}

// newTestRetentionService собирает сервис срока хранения на хранилищах в памяти
func newTestRetentionService(settings *memorySettings, store *memoryMessages, defaultSeconds int, stats *Stats) (*RetentionService, *memoryRetention) {
	writer := &memoryRetention{settings: settings, store: store}
	return NewRetentionService(settings, store, writer, defaultSeconds, stats, zap.NewNop()), writer
}

// memorySettings реализует SettingsStore
type memorySettings struct {
	mu        sync.Mutex
	retention *domain.RetentionSetting
	telegram  *domain.TelegramSetting
	domains   []string
	err       error
}

func (s *memorySettings) GetRetention(context.Context) (*domain.RetentionSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.retention == nil {
		return nil, nil
	}
	cp := *s.retention
	return &cp, nil
}

func (s *memorySettings) SaveRetention(_ context.Context, r *domain.RetentionSetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.retention = &cp
	return nil
}

func (s *memorySettings) GetTelegram(context.Context) (*domain.TelegramSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.telegram == nil {
		return nil, nil
	}
	cp := *s.telegram
	return &cp, nil
}

func (s *memorySettings) SaveTelegram(_ context.Context, t *domain.TelegramSetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.telegram = &cp
	return nil
}

func (s *memorySettings) GetDomains(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.domains, s.err
}

func (s *memorySettings) SaveDomains(_ context.Context, domains []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.domains = domains
	return nil
}

// memoryExpirations реализует DomainExpirationStore
type memoryExpirations struct {
	mu      sync.Mutex
	records map[string]*domain.DomainExpiration
}

func newMemoryExpirations() *memoryExpirations {
	return &memoryExpirations{records: make(map[string]*domain.DomainExpiration)}
}

func (m *memoryExpirations) Get(_ context.Context, name string) (*domain.DomainExpiration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[name]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *memoryExpirations) Upsert(_ context.Context, rec *domain.DomainExpiration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	cp.CheckedAt = cp.CheckedAt.Truncate(time.Microsecond)
	m.records[rec.Domain] = &cp
	return nil
}

func (m *memoryExpirations) ListByDomains(_ context.Context, names []string) ([]*domain.DomainExpiration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.DomainExpiration
	for _, n := range names {
		if rec, ok := m.records[n]; ok {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeWhois считает запросы и возвращает фиксированный ответ
type fakeWhois struct {
	mu      sync.Mutex
	calls   int
	expires *time.Time
}

func (f *fakeWhois) Expiration(context.Context, string) *time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.expires
}

// memorySessions реализует SessionStore
type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]*domain.AdminSession
	getErr   error
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: make(map[string]*domain.AdminSession)}
}

func (m *memorySessions) Save(_ context.Context, s *domain.AdminSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[s.Token] = &cp
	return nil
}

func (m *memorySessions) Get(_ context.Context, token string) (*domain.AdminSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	s, ok := m.sessions[token]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// memoryLimiter реализует LoginLimiter без истечения
type memoryLimiter struct {
	mu       sync.Mutex
	max      int
	attempts map[string]int
	locked   map[string]bool
}

func newMemoryLimiter(max int) *memoryLimiter {
	return &memoryLimiter{max: max, attempts: make(map[string]int), locked: make(map[string]bool)}
}

func (l *memoryLimiter) Locked(_ context.Context, client string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.locked[client], nil
}

func (l *memoryLimiter) RegisterFailure(_ context.Context, client string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts[client]++
	if l.attempts[client] >= l.max {
		l.locked[client] = true
		delete(l.attempts, client)
		return true, nil
	}
	return false, nil
}

func (l *memoryLimiter) Reset(_ context.Context, client string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, client)
	delete(l.locked, client)
	return nil
}

// recordingTelegram запоминает отправленные уведомления
type recordingTelegram struct {
	mu    sync.Mutex
	sent  []string
	token string
	chat  string
	err   error
}

func (r *recordingTelegram) Send(_ context.Context, botToken, chatID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token, r.chat = botToken, chatID
	r.sent = append(r.sent, text)
	return r.err
}

// recordingChat запоминает уведомления для Slack
type recordingChat struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (r *recordingChat) Send(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, text)
	return r.err
}

// recordingNotifier запоминает вызовы после сохранения
type recordingNotifier struct {
	mu       sync.Mutex
	messages []*domain.Message
}

func (r *recordingNotifier) Notify(_ context.Context, msg *domain.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}
