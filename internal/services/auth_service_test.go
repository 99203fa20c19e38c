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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthServiceWithMock(t *testing.T) (*AuthService, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	return NewAuthService(db, "test-secret", zerolog.Nop()), mock, db
}

func TestSessionTTL(t *testing.T) {
	assert.Equal(t, 1*time.Hour, SessionTTL("kiosk"))
	assert.Equal(t, 30*24*time.Hour, SessionTTL("web"))
	assert.Equal(t, 30*24*time.Hour, SessionTTL(""))
	assert.Equal(t, 30*24*time.Hour, SessionTTL("mobile"))
}

func TestNormalizePlatform(t *testing.T) {
	assert.Equal(t, "kiosk", NormalizePlatform("kiosk"))
	assert.Equal(t, "web", NormalizePlatform("web"))
	assert.Equal(t, "web", NormalizePlatform(""))
	assert.Equal(t, "web", NormalizePlatform("something-else"))
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc, _, db := newAuthServiceWithMock(t)
	defer db.Close()

	token, err := svc.GenerateToken(42, "alice@example.com", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateToken_Expired(t *testing.T) {
	svc, _, db := newAuthServiceWithMock(t)
	defer db.Close()

	issued := time.Now().Add(-2 * time.Hour)
	svc.nowFunc = func() time.Time { return issued }
	token, err := svc.GenerateToken(42, "alice@example.com", "customer", time.Hour)
	require.NoError(t, err)

	svc.nowFunc = time.Now
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestIssueSession_PersistsAndPrunes(t *testing.T) {
	svc, mock, db := newAuthServiceWithMock(t)
	defer db.Close()

	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	svc.nowFunc = func() time.Time { return now }

	user := &models.User{ID: 7, Email: "alice@example.com", Role: "customer"}

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE user_id = ? AND expires_at < ?")).
		WithArgs(7, now).
		WillReturnResult(sqlmock.NewResult(0, 2))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions (user_id, token, platform, expires_at) VALUES (?, ?, ?, ?)")).
		WithArgs(7, sqlmock.AnyArg(), "kiosk", now.Add(1*time.Hour)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	token, expiresAt, err := svc.IssueSession(user, "kiosk")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, now.Add(1*time.Hour), expiresAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveSession_Valid(t *testing.T) {
	svc, mock, db := newAuthServiceWithMock(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT s.id, s.expires_at, u.id, u.email, u.role")).
		WithArgs("token-123", "web").
		WillReturnRows(sqlmock.NewRows([]string{"id", "expires_at", "id", "email", "role"}).
			AddRow(1, time.Now().Add(time.Hour), 7, "alice@example.com", "customer"))

	user, err := svc.ResolveSession("token-123", "web")
	require.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, "customer", user.Role)
}

func TestResolveSession_Invalid(t *testing.T) {
	svc, mock, db := newAuthServiceWithMock(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT s.id, s.expires_at, u.id, u.email, u.role")).
		WithArgs("bogus", "web").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.ResolveSession("bogus", "web")
	assert.True(t, errors.Is(err, ErrInvalidSession))
}

func TestResolveSession_ExpiredRowIsPurged(t *testing.T) {
	svc, mock, db := newAuthServiceWithMock(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT s.id, s.expires_at, u.id, u.email, u.role")).
		WithArgs("stale-token", "kiosk").
		WillReturnRows(sqlmock.NewRows([]string{"id", "expires_at", "id", "email", "role"}).
			AddRow(3, time.Now().Add(-time.Minute), 7, "alice@example.com", "customer"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE id = ?")).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := svc.ResolveSession("stale-token", "kiosk")
	assert.True(t, errors.Is(err, ErrSessionExpired))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthenticate_ExpiredTokenPurgesSession(t *testing.T) {
	svc, mock, db := newAuthServiceWithMock(t)
	defer db.Close()

	issued := time.Now().Add(-2 * time.Hour)
	svc.nowFunc = func() time.Time { return issued }
	token, err := svc.GenerateToken(7, "alice@example.com", "customer", time.Hour)
	require.NoError(t, err)
	svc.nowFunc = time.Now

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE token = ?")).
		WithArgs(token).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err = svc.Authenticate(token, "web")
	assert.True(t, errors.Is(err, ErrSessionExpired))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	svc, _, db := newAuthServiceWithMock(t)
	defer db.Close()

	_, err := svc.Authenticate("not-a-jwt", "web")
	assert.True(t, errors.Is(err, ErrInvalidSession))
}

func TestDeleteSession(t *testing.T) {
	svc, mock, db := newAuthServiceWithMock(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE token = ?")).
		WithArgs("token-123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.DeleteSession("token-123"))
	require.NoError(t, mock.ExpectationsWereMet())
}
