package domain

import (
	"time"
)

// AdminSessionMaxAge задаёт время жизни сессии админа
const AdminSessionMaxAge = 7 * 24 * time.Hour

// AdminSession описывает выданный токен админа
type AdminSession struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"` // CreatedAt + AdminSessionMaxAge
}

// IsExpired проверяет, истекла ли сессия на указанный момент.
// Сессия считается истёкшей, даже если хранилище её ещё не удалило.
func (s *AdminSession) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
