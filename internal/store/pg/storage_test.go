package pg

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Adithya91-code/Farmchaingpt/internal/session"
)

func newMock(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

func TestEnsureSchema(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("create table if not exists client_storage").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGet(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("select value from client_storage where key").
		WithArgs(session.KeyToken).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("tok"))
	mock.ExpectQuery("select value from client_storage where key").
		WithArgs(session.KeyLegacyToken).
		WillReturnError(sql.ErrNoRows)

	v, ok, err := s.Get(context.Background(), session.KeyToken)
	if err != nil || !ok || v != "tok" {
		t.Fatalf("Get() = %q, %v, %v", v, ok, err)
	}
	v, ok, err = s.Get(context.Background(), session.KeyLegacyToken)
	if err != nil || ok || v != "" {
		t.Fatalf("missing key: Get() = %q, %v, %v", v, ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetError(t *testing.T) {
	s, mock := newMock(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery("select value from client_storage").WillReturnError(boom)

	if _, _, err := s.Get(context.Background(), "k"); !errors.Is(err, boom) {
		t.Fatalf("expected driver error, got %v", err)
	}
}

func TestStoreOverSQL(t *testing.T) {
	s, mock := newMock(t)
	for _, key := range []string{session.KeyToken, session.KeyLegacyToken} {
		mock.ExpectExec("insert into client_storage").
			WithArgs(key, "jwt-abc").
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectExec("delete from client_storage where key").
		WithArgs(session.KeyIdentity).
		WillReturnResult(sqlmock.NewResult(0, 1))
	for _, key := range []string{session.KeyToken, session.KeyLegacyToken} {
		mock.ExpectExec("delete from client_storage where key").
			WithArgs(key).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	store := session.NewStore(s)
	if err := store.SetToken(context.Background(), "jwt-abc"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
