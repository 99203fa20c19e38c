package services

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"shop-api/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

func newUserServiceWithMock(t *testing.T) (*UserService, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	return NewUserService(db, bcrypt.MinCost, zerolog.Nop()), mock, db
}

func TestRegister_Success(t *testing.T) {
	svc, mock, db := newUserServiceWithMock(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE email = ?")).
		WithArgs("alice@example.com").
		WillReturnError(sql.ErrNoRows)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)")).
		WithArgs("alice@example.com", sqlmock.AnyArg(), "customer").
		WillReturnResult(sqlmock.NewResult(1, 1))

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_hash, role, created_at, updated_at FROM users WHERE id = ?")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at", "updated_at"}).
			AddRow(1, "alice@example.com", "hash", "customer", now, now))

	user, err := svc.Register(&models.RegisterRequest{Email: "alice@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if user.ID != 1 || user.Email != "alice@example.com" || user.Role != "customer" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, mock, db := newUserServiceWithMock(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE email = ?")).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	_, err := svc.Register(&models.RegisterRequest{Email: "alice@example.com", Password: "secret"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestAuthenticate_Success(t *testing.T) {
	svc, mock, db := newUserServiceWithMock(t)
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_hash, role, created_at, updated_at FROM users WHERE email = ?")).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at", "updated_at"}).
			AddRow(1, "alice@example.com", string(hash), "customer", now, now))

	user, err := svc.Authenticate(&models.LoginRequest{Email: "alice@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("Authenticate() error: %v", err)
	}
	if user.ID != 1 {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	svc, mock, db := newUserServiceWithMock(t)
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_hash, role, created_at, updated_at FROM users WHERE email = ?")).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at", "updated_at"}).
			AddRow(1, "alice@example.com", string(hash), "customer", now, now))

	_, err = svc.Authenticate(&models.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_UnknownEmail(t *testing.T) {
	svc, mock, db := newUserServiceWithMock(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_hash, role, created_at, updated_at FROM users WHERE email = ?")).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Authenticate(&models.LoginRequest{Email: "nobody@example.com", Password: "secret"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	svc, mock, db := newUserServiceWithMock(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_hash, role, created_at, updated_at FROM users WHERE id = ?")).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.GetUserByID(99)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
