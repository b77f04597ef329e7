package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Fernandol1z6/site-do-estudio/internal/adapters/repository"
	"github.com/Fernandol1z6/site-do-estudio/internal/domain/entities"
	"github.com/Fernandol1z6/site-do-estudio/internal/infrastructure/config"
	"github.com/Fernandol1z6/site-do-estudio/internal/infrastructure/logger"
	"github.com/Fernandol1z6/site-do-estudio/internal/ports"
)

// HashPassword returns the lowercase hex SHA-256 digest of a password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Claims is the JWT payload of an admin access token. The stored session
// stays the source of truth; the token only references it.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionService is the login/session gate for the admin surface. Exactly
// three accounts exist; a single session is active at a time and is
// re-validated (expiry and user-active) on every check.
type SessionService struct {
	users    *repository.UserDirectory
	sessions *repository.SessionRepository
	cfg      config.SessionConfig
	logger   *logger.Logger
	now      func() time.Time
}

// NewSessionService creates a session service.
func NewSessionService(users *repository.UserDirectory, sessions *repository.SessionRepository, cfg config.SessionConfig, logger *logger.Logger) *SessionService {
	return &SessionService{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

var _ ports.SessionService = (*SessionService)(nil)

// WithClock overrides the service clock. Used in tests.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

// GetUsers returns the admin directory, provisioning defaults on first
// access.
func (s *SessionService) GetUsers(ctx context.Context) ([]entities.User, error) {
	return s.users.Load(ctx)
}

// VerifyPassword checks a password against the stored digest of an active
// account. The caller cannot tell an unknown username, an inactive account
// and a wrong password apart.
func (s *SessionService) VerifyPassword(ctx context.Context, username, password string) (bool, *entities.User) {
	users, err := s.users.Load(ctx)
	if err != nil {
		s.logger.Error("Failed to load user directory", "error", err)
		return false, nil
	}

	for i := range users {
		user := &users[i]
		if user.Username != username || !user.Active || !user.HasPassword() {
			continue
		}
		digest := HashPassword(password)
		if subtle.ConstantTimeCompare([]byte(digest), []byte(user.PasswordHash)) == 1 {
			return true, user
		}
		return false, nil
	}
	return false, nil
}

// HasAnyPasswordSet reports whether any account has a password configured.
func (s *SessionService) HasAnyPasswordSet(ctx context.Context) bool {
	users, err := s.users.Load(ctx)
	if err != nil {
		return false
	}
	for _, u := range users {
		if u.HasPassword() {
			return true
		}
	}
	return false
}

// Login authenticates the user and replaces the stored session. The failure
// message never distinguishes the reason.
func (s *SessionService) Login(ctx context.Context, req ports.LoginRequest) (*ports.LoginResponse, error) {
	if !s.HasAnyPasswordSet(ctx) {
		return nil, entities.ErrNoPasswordsSet
	}

	valid, user := s.VerifyPassword(ctx, req.Username, req.Password)
	if !valid {
		s.logger.Warn("Login attempt rejected", "username", req.Username)
		return nil, entities.ErrInvalidCredentials
	}

	session, err := s.CreateSession(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.signToken(session)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID, "username", user.Username)

	sanitized := *user
	sanitized.PasswordHash = ""

	return &ports.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.cfg.Duration.Seconds()),
		User:        &sanitized,
	}, nil
}

// CreateSession persists a fresh session, unconditionally overwriting any
// prior one. Single session per deployment; there is no multi-device
// tracking.
func (s *SessionService) CreateSession(ctx context.Context, user *entities.User) (*entities.Session, error) {
	now := s.now()
	session := &entities.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Username:  user.Username,
		Timestamp: now,
		Expires:   now.Add(s.cfg.Duration),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// CheckSession reports whether the stored session is valid: it must exist,
// parse, not be expired, and reference a user that still exists and is
// active. An expired session is deleted as a side effect.
func (s *SessionService) CheckSession(ctx context.Context) bool {
	session := s.sessions.Load(ctx)
	if session == nil {
		return false
	}

	if session.IsExpired(s.now()) {
		if err := s.sessions.Delete(ctx); err != nil {
			s.logger.Warn("Failed to delete expired session", "error", err)
		}
		return false
	}

	users, err := s.users.Load(ctx)
	if err != nil {
		return false
	}
	for _, u := range users {
		if u.ID == session.UserID && u.Active {
			return true
		}
	}
	return false
}

// ValidateToken verifies an access token signature and returns the stored
// session it references, re-checking expiry and user state.
func (s *SessionService) ValidateToken(ctx context.Context, tokenString string) (*entities.Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, entities.ErrSessionInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, entities.ErrSessionInvalid
	}

	if !s.CheckSession(ctx) {
		return nil, entities.ErrSessionInvalid
	}

	session := s.sessions.Load(ctx)
	if session == nil || session.ID != claims.ID {
		return nil, entities.ErrSessionInvalid
	}
	return session, nil
}

// CurrentUser returns the user referenced by the stored session, nil when
// no session exists.
func (s *SessionService) CurrentUser(ctx context.Context) (*entities.User, error) {
	session := s.sessions.Load(ctx)
	if session == nil {
		return nil, nil
	}

	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == session.UserID {
			return &users[i], nil
		}
	}
	return nil, nil
}

// ClearSession removes the stored session (logout).
func (s *SessionService) ClearSession(ctx context.Context) error {
	return s.sessions.Delete(ctx)
}

// ToggleUser flips an account's active flag. Deactivating the last active
// account is rejected with no state change.
func (s *SessionService) ToggleUser(ctx context.Context, id int64) (*entities.User, error) {
	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, err
	}

	var target *entities.User
	othersActive := 0
	for i := range users {
		if users[i].ID == id {
			target = &users[i]
		} else if users[i].Active {
			othersActive++
		}
	}
	if target == nil {
		return nil, entities.ErrUserNotFound
	}

	if target.Active && othersActive == 0 {
		return nil, entities.ErrLastActiveUser
	}

	target.Active = !target.Active
	if err := s.users.Save(ctx, users); err != nil {
		return nil, err
	}

	s.logger.Info("User toggled", "user_id", target.ID, "active", target.Active)
	return target, nil
}

// EditUserName renames an account and persists the whole directory.
func (s *SessionService) EditUserName(ctx context.Context, id int64, name string) (*entities.User, error) {
	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].ID == id {
			users[i].Name = name
			if err := s.users.Save(ctx, users); err != nil {
				return nil, err
			}
			return &users[i], nil
		}
	}
	return nil, entities.ErrUserNotFound
}

// EditUserPassword replaces an account's password digest. All previously
// valid passwords are invalid immediately after.
func (s *SessionService) EditUserPassword(ctx context.Context, id int64, password, confirm string) error {
	if len(password) < 6 {
		return entities.ErrPasswordTooShort
	}
	if password != confirm {
		return entities.ErrPasswordMismatch
	}

	users, err := s.users.Load(ctx)
	if err != nil {
		return err
	}

	for i := range users {
		if users[i].ID == id {
			users[i].PasswordHash = HashPassword(password)
			if err := s.users.Save(ctx, users); err != nil {
				return err
			}
			s.logger.Info("Password updated", "user_id", id)
			return nil
		}
	}
	return entities.ErrUserNotFound
}

func (s *SessionService) signToken(session *entities.Session) (string, error) {
	claims := &Claims{
		UserID:   session.UserID,
		Username: session.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   session.Username,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(session.Timestamp),
			ExpiresAt: jwt.NewNumericDate(session.Expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}
