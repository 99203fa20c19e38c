package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shop-api/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const (
	kioskSessionTTL = 1 * time.Hour
	webSessionTTL   = 30 * 24 * time.Hour
)

type AuthService struct {
	db        *sql.DB
	secretKey []byte
	logger    zerolog.Logger
	nowFunc   func() time.Time
}

type Claims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func NewAuthService(db *sql.DB, secret string, logger zerolog.Logger) *AuthService {
	return &AuthService{
		db:        db,
		secretKey: []byte(secret),
		logger:    logger,
		nowFunc:   time.Now,
	}
}

// NormalizePlatform maps anything that is not the kiosk platform to web, both
// at login and at verification, so a session is always resolved under the same
// platform key it was created with.
func NormalizePlatform(platform string) string {
	if platform == string(models.PlatformKiosk) {
		return string(models.PlatformKiosk)
	}
	return string(models.PlatformWeb)
}

// SessionTTL is 1 hour for kiosk sessions and 30 days otherwise.
func SessionTTL(platform string) time.Duration {
	if NormalizePlatform(platform) == string(models.PlatformKiosk) {
		return kioskSessionTTL
	}
	return webSessionTTL
}

func (s *AuthService) GenerateToken(userID int, email, role string, ttl time.Duration) (string, error) {
	now := s.nowFunc()

	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error generating token")
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.nowFunc))

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// IssueSession signs a token for the user, prunes that user's expired sessions
// and persists the new session row.
func (s *AuthService) IssueSession(user *models.User, platform string) (string, time.Time, error) {
	platform = NormalizePlatform(platform)
	ttl := SessionTTL(platform)
	expiresAt := s.nowFunc().Add(ttl)

	token, err := s.GenerateToken(user.ID, user.Email, user.Role, ttl)
	if err != nil {
		return "", time.Time{}, err
	}

	_, err = s.db.Exec("DELETE FROM sessions WHERE user_id = ? AND expires_at < ?", user.ID, s.nowFunc())
	if err != nil {
		s.logger.Warn().Err(err).Int("user_id", user.ID).Msg("Failed to prune expired sessions")
	}

	_, err = s.db.Exec(
		"INSERT INTO sessions (user_id, token, platform, expires_at) VALUES (?, ?, ?, ?)",
		user.ID, token, platform, expiresAt,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", user.ID).Msg("Error persisting session")
		return "", time.Time{}, fmt.Errorf("failed to persist session: %w", err)
	}

	s.logger.Info().Int("user_id", user.ID).Str("platform", platform).Time("expires_at", expiresAt).Msg("Session issued")
	return token, expiresAt, nil
}

// ResolveSession looks up the session by token and platform and returns the
// owning user. An expired session row is deleted on detection.
func (s *AuthService) ResolveSession(token, platform string) (*models.User, error) {
	platform = NormalizePlatform(platform)

	var sessionID int
	var expiresAt time.Time
	var user models.User

	err := s.db.QueryRow(
		`SELECT s.id, s.expires_at, u.id, u.email, u.role
		 FROM sessions s
		 JOIN users u ON s.user_id = u.id
		 WHERE s.token = ? AND s.platform = ?`,
		token, platform,
	).Scan(&sessionID, &expiresAt, &user.ID, &user.Email, &user.Role)

	if err == sql.ErrNoRows {
		return nil, ErrInvalidSession
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Error resolving session")
		return nil, fmt.Errorf("database error: %w", err)
	}

	if expiresAt.Before(s.nowFunc()) {
		if _, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", sessionID); err != nil {
			s.logger.Warn().Err(err).Int("session_id", sessionID).Msg("Failed to purge expired session")
		}
		return nil, ErrSessionExpired
	}

	return &user, nil
}

// Authenticate verifies the token signature, then resolves the persisted
// session. A token whose signature is valid but whose claims have expired is
// treated the same as an expired session row.
func (s *AuthService) Authenticate(token, platform string) (*models.User, error) {
	if _, err := s.ValidateToken(token); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			if _, delErr := s.db.Exec("DELETE FROM sessions WHERE token = ?", token); delErr != nil {
				s.logger.Warn().Err(delErr).Msg("Failed to purge session for expired token")
			}
			return nil, ErrSessionExpired
		}
		return nil, ErrInvalidSession
	}

	return s.ResolveSession(token, platform)
}

func (s *AuthService) DeleteSession(token string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE token = ?", token)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error deleting session")
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
