package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Adithya91-code/Farmchaingpt/internal/session"
)

// Storage keeps client session keys in PostgreSQL so a session survives on
// shared terminals that do not keep local files.
type Storage struct {
	db *sql.DB
}

var _ session.Storage = (*Storage)(nil)

const schema = `
	create table if not exists client_storage (
		key        text primary key,
		value      text not null,
		updated_at timestamptz not null default now()
	)`

func Open(dsn string) (*Storage, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(15 * time.Minute)
	return &Storage{db: db}, nil
}

// New wraps an existing handle.
func New(db *sql.DB) *Storage { return &Storage{db: db} }

func (s *Storage) Close() error { return s.db.Close() }

// EnsureSchema creates the storage table if it is missing.
func (s *Storage) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `select value from client_storage where key=$1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		insert into client_storage(key, value, updated_at)
		values ($1, $2, now())
		on conflict (key) do update
		set value = excluded.value, updated_at = now()
	`, key, value)
	return err
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `delete from client_storage where key=$1`, key)
	return err
}
