package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/yasirarism/vaultmail/internal/domain"
)

// DomainExpirationRepository кэширует результаты WHOIS
type DomainExpirationRepository struct {
	db *sql.DB
}

// NewDomainExpirationRepository создаёт репозиторий сроков доменов
func NewDomainExpirationRepository(db *sql.DB) *DomainExpirationRepository {
	return &DomainExpirationRepository{db: db}
}

// Get возвращает запись для домена или (nil, nil)
func (r *DomainExpirationRepository) Get(ctx context.Context, name string) (*domain.DomainExpiration, error) {
	query := `SELECT domain, expires_at, checked_at FROM domain_expirations WHERE domain = $1`

	rec, err := scanDomainExpiration(r.db.QueryRowContext(ctx, query, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Upsert сохраняет запись, заменяя прошлый результат для домена.
// Время в rec приводится к точности хранения.
func (r *DomainExpirationRepository) Upsert(ctx context.Context, rec *domain.DomainExpiration) error {
	rec.CheckedAt = domain.StorageTime(rec.CheckedAt)
	if rec.ExpiresAt != nil {
		expires := domain.StorageTime(*rec.ExpiresAt)
		rec.ExpiresAt = &expires
	}

	query := `
        INSERT INTO domain_expirations (domain, expires_at, checked_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (domain) DO UPDATE SET expires_at = EXCLUDED.expires_at, checked_at = EXCLUDED.checked_at
    `
	_, err := r.db.ExecContext(ctx, query, rec.Domain, rec.ExpiresAt, rec.CheckedAt)
	return err
}

// ListByDomains возвращает записи для доменов, отсортированные по домену.
// Домены без запросов в результат не попадают.
func (r *DomainExpirationRepository) ListByDomains(ctx context.Context, names []string) ([]*domain.DomainExpiration, error) {
	query := `
        SELECT domain, expires_at, checked_at
        FROM domain_expirations
        WHERE domain = ANY($1)
        ORDER BY domain
    `
	rows, err := r.db.QueryContext(ctx, query, pq.Array(names))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.DomainExpiration, 0, len(names))
	for rows.Next() {
		rec, err := scanDomainExpiration(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanDomainExpiration(row rowScanner) (*domain.DomainExpiration, error) {
	rec := &domain.DomainExpiration{}
	var expiresAt sql.NullTime
	if err := row.Scan(&rec.Domain, &expiresAt, &rec.CheckedAt); err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		t := expiresAt.Time.UTC()
		rec.ExpiresAt = &t
	}
	rec.CheckedAt = rec.CheckedAt.UTC()
	return rec, nil
}
