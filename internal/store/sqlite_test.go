package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func setupSQLiteMock(t *testing.T) (*SQLite, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	backend := NewSQLite(db)
	cleanup := func() { db.Close() }
	return backend, mock, cleanup
}

func TestSQLiteGet_Found(t *testing.T) {
	backend, mock, cleanup := setupSQLiteMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM slots WHERE name = $1`)).
		WithArgs(DocumentSlot).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`{"accounts":[]}`))

	v, ok, err := backend.Get(context.Background(), DocumentSlot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected ok=true")
	}
	if v != `{"accounts":[]}` {
		t.Errorf("unexpected value: %q", v)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSQLiteGet_Missing(t *testing.T) {
	backend, mock, cleanup := setupSQLiteMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM slots WHERE name = $1`)).
		WithArgs("nothing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, ok, err := backend.Get(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected ok=false for a missing slot")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSQLitePut_Upserts(t *testing.T) {
	backend, mock, cleanup := setupSQLiteMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO slots (name, value) VALUES ($1, $2)`)).
		WithArgs(TokenSlot, "jane@x.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := backend.Put(context.Background(), TokenSlot, "jane@x.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSQLiteDelete(t *testing.T) {
	backend, mock, cleanup := setupSQLiteMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM slots WHERE name = $1`)).
		WithArgs(TokenSlot).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := backend.Delete(context.Background(), TokenSlot); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSQLiteGet_QueryError(t *testing.T) {
	backend, mock, cleanup := setupSQLiteMock(t)
	defer cleanup()

	wantErr := errors.New("disk I/O error")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM slots WHERE name = $1`)).
		WithArgs(DocumentSlot).
		WillReturnError(wantErr)

	_, _, err := backend.Get(context.Background(), DocumentSlot)
	if !errors.Is(err, wantErr) {
		t.Fatalf("Get error = %v; want %v", err, wantErr)
	}
}
