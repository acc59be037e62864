package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/kenread/kenread/internal/logger"
	"github.com/kenread/kenread/models"
)

func newTestDB(t *testing.T, driver string) (*DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	var placeholder sq.PlaceholderFormat = sq.Question
	if driver == DriverPostgres {
		placeholder = sq.Dollar
	}

	return &DB{
		DB:      db,
		driver:  driver,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
		logger:  logger.Nop(),
	}, mock, db
}

func newTestUserRepo(t *testing.T, driver string) (*userRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	wrapped, mock, db := newTestDB(t, driver)
	return &userRepository{db: wrapped, logger: wrapped.logger}, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func TestCreateUser_PostgresSuccess(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, DriverPostgres)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"user_id"}).AddRow(7)
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("reader", "hash", sqlmock.AnyArg()).
		WillReturnRows(rows)

	created, err := repo.CreateUser(context.Background(), models.User{Login: "reader", AuthHash: "hash"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.UserID != 7 {
		t.Errorf("expected UserID=7, got %d", created.UserID)
	}
	if created.CreatedAt == 0 {
		t.Error("expected CreatedAt to be stamped")
	}
}

func TestCreateUser_SQLiteSuccess(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, DriverSQLite)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("reader", "hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(3, 1))

	created, err := repo.CreateUser(context.Background(), models.User{Login: "reader", AuthHash: "hash"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.UserID != 3 {
		t.Errorf("expected UserID=3, got %d", created.UserID)
	}
}

func TestCreateUser_UniqueViolationPostgres(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, DriverPostgres)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateUser(context.Background(), models.User{Login: "reader"})
	if !errors.Is(err, ErrLoginAlreadyExists) {
		t.Fatalf("expected ErrLoginAlreadyExists, got %v", err)
	}
}

func TestCreateUser_UniqueViolationSQLite(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, DriverSQLite)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(sqlite3.Error{
			Code:         sqlite3.ErrConstraint,
			ExtendedCode: sqlite3.ErrConstraintUnique,
		})

	_, err := repo.CreateUser(context.Background(), models.User{Login: "reader"})
	if !errors.Is(err, ErrLoginAlreadyExists) {
		t.Fatalf("expected ErrLoginAlreadyExists, got %v", err)
	}
}

func TestCreateUser_UnexpectedDBError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, DriverPostgres)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(errors.New("db network error"))

	_, err := repo.CreateUser(context.Background(), models.User{Login: "reader"})
	if err == nil || !strings.Contains(err.Error(), "unexpected DB error") {
		t.Fatalf("expected wrapped unexpected DB error, got %v", err)
	}
}

func TestFindUserByLogin_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, DriverPostgres)
	defer db.Close()

	rows := sqlmock.
		NewRows([]string{"user_id", "login", "auth_hash", "created_at"}).
		AddRow(7, "reader", "hash", int64(1700000000000))

	mock.ExpectQuery("SELECT user_id, login, auth_hash, created_at FROM users").
		WithArgs("reader").
		WillReturnRows(rows)

	found, err := repo.FindUserByLogin(context.Background(), "reader")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.UserID != 7 || found.AuthHash != "hash" {
		t.Errorf("unexpected user: %+v", found)
	}
}

func TestFindUserByLogin_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t, DriverPostgres)
	defer db.Close()

	mock.ExpectQuery("SELECT user_id, login, auth_hash, created_at FROM users").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindUserByLogin(context.Background(), "ghost")
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}
