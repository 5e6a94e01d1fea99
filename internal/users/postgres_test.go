package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	selectUserQuery    = `(?s)^SELECT\s+id,\s*username,\s*password_hash,\s*created_at\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1$`
	selectProfileQuery = `(?s)^SELECT\s+id,\s*username,\s*created_at\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1$`
	insertUserQuery    = `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*username,\s*password_hash,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)$`
)

func newPostgresWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestPostgresFindByUsername_Found(t *testing.T) {
	repo, mock := newPostgresWithMock(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
		AddRow("u-1", "alice", []byte("hash"), created)
	mock.ExpectQuery(selectUserQuery).WithArgs("alice").WillReturnRows(rows)

	got, err := repo.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FindByUsername error: %v", err)
	}
	if got == nil || got.ID != "u-1" || string(got.PasswordHash) != "hash" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresFindByUsername_NotFound(t *testing.T) {
	repo, mock := newPostgresWithMock(t)
	mock.ExpectQuery(selectUserQuery).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	got, err := repo.FindByUsername(context.Background(), "ghost")
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil; got %+v, %v", got, err)
	}
}

func TestPostgresFindByUsername_DBError(t *testing.T) {
	repo, mock := newPostgresWithMock(t)
	mock.ExpectQuery(selectUserQuery).WithArgs("alice").WillReturnError(errors.New("db down"))

	_, err := repo.FindByUsername(context.Background(), "alice")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgresFindProfile_SkipsPassword(t *testing.T) {
	repo, mock := newPostgresWithMock(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "username", "created_at"}).
		AddRow("u-1", "alice", created)
	mock.ExpectQuery(selectProfileQuery).WithArgs("alice").WillReturnRows(rows)

	got, err := repo.FindProfile(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FindProfile error: %v", err)
	}
	if got == nil || got.ID != "u-1" || got.Username != "alice" {
		t.Fatalf("unexpected profile: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresFindProfile_NotFound(t *testing.T) {
	repo, mock := newPostgresWithMock(t)
	mock.ExpectQuery(selectProfileQuery).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	got, err := repo.FindProfile(context.Background(), "ghost")
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil; got %+v, %v", got, err)
	}
}

func TestPostgresInsert_Success(t *testing.T) {
	repo, mock := newPostgresWithMock(t)
	mock.ExpectExec(insertUserQuery).
		WithArgs(sqlmock.AnyArg(), "alice", []byte("hash"), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := &User{Username: "alice", PasswordHash: []byte("hash")}
	if err := repo.Insert(context.Background(), u); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if u.ID == "" || u.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at to be populated: %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresInsert_UniqueViolation(t *testing.T) {
	repo, mock := newPostgresWithMock(t)
	mock.ExpectExec(insertUserQuery).
		WithArgs(sqlmock.AnyArg(), "alice", []byte("hash"), sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	err := repo.Insert(context.Background(), &User{Username: "alice", PasswordHash: []byte("hash")})
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestPostgresInsert_DBError(t *testing.T) {
	repo, mock := newPostgresWithMock(t)
	mock.ExpectExec(insertUserQuery).
		WithArgs(sqlmock.AnyArg(), "alice", []byte("hash"), sqlmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	err := repo.Insert(context.Background(), &User{Username: "alice", PasswordHash: []byte("hash")})
	if err == nil || errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected generic db error, got %v", err)
	}
}
