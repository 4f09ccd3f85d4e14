package service

import (
	"sync"
	"time"
)

// Stats хранит счётчики процесса для админки.
// Они сбрасываются при перезапуске, общие цифры берутся из базы.
type Stats struct {
	mu               sync.RWMutex
	ingestedMessages int64
	expiredMessages  int64
	lastSweep        time.Time
}

// NewStats создаёт пустые счётчики
func NewStats() *Stats {
	return &Stats{}
}

// IncrementIngested учитывает сохранённое письмо
func (s *Stats) IncrementIngested() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ingestedMessages++
}

// RecordSweep учитывает удалённые письма и запоминает время очистки
func (s *Stats) RecordSweep(deleted int64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiredMessages += deleted
	s.lastSweep = at
}

// Snapshot возвращает текущие значения счётчиков
func (s *Stats) Snapshot() (ingested, expired int64, lastSweep *time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.lastSweep.IsZero() {
		t := s.lastSweep
		lastSweep = &t
	}
	return s.ingestedMessages, s.expiredMessages, lastSweep
}
