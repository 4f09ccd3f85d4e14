package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	// Драйвер PostgreSQL
	_ "github.com/lib/pq"

	"github.com/yasirarism/vaultmail/internal/config"
)

//go:embed schema.sql
var schema string

// dbtx реализуют и *sql.DB, и *sql.Tx
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresDB оборачивает пул подключений PostgreSQL
type PostgresDB struct {
	DB *sql.DB
}

// NewPostgresDB открывает пул и проверяет подключение
func NewPostgresDB(ctx context.Context, cfg config.DatabaseConfig) (*PostgresDB, error) {
	// sql.Open только проверяет аргументы, подключается ping ниже
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &PostgresDB{DB: db}, nil
}

// EnsureSchema создаёт недостающие таблицы и индексы
func (p *PostgresDB) EnsureSchema(ctx context.Context) error {
	if _, err := p.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Ping проверяет, что база отвечает
func (p *PostgresDB) Ping(ctx context.Context) error {
	return p.DB.PingContext(ctx)
}

// Close закрывает пул
func (p *PostgresDB) Close() error {
	return p.DB.Close()
}
