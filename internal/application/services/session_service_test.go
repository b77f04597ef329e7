package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fernandol1z6/site-do-estudio/internal/adapters/blobstore"
	"github.com/Fernandol1z6/site-do-estudio/internal/adapters/repository"
	"github.com/Fernandol1z6/site-do-estudio/internal/domain/entities"
	"github.com/Fernandol1z6/site-do-estudio/internal/infrastructure/config"
	"github.com/Fernandol1z6/site-do-estudio/internal/infrastructure/logger"
	"github.com/Fernandol1z6/site-do-estudio/internal/ports"
)

const defaultPassword = "12345678"

func newSessionService(t *testing.T) (*SessionService, *repository.SessionRepository) {
	t.Helper()

	store := blobstore.NewMemoryStore()
	users := repository.NewUserDirectory(store)
	sessions := repository.NewSessionRepository(store)

	cfg := config.SessionConfig{
		Secret:   "test-secret-key-for-signing",
		Duration: 24 * time.Hour,
		Issuer:   "estudio",
	}
	return NewSessionService(users, sessions, cfg, logger.NewNop()), sessions
}

func TestHashPassword(t *testing.T) {
	// The provisioned default hash is the digest of "12345678".
	assert.Equal(t, repository.DefaultPasswordHash, HashPassword(defaultPassword))
	assert.NotEqual(t, HashPassword("a"), HashPassword("b"))
	assert.Len(t, HashPassword("anything"), 64)
}

func TestSessionService_LoginWithDefaultPassword(t *testing.T) {
	svc, _ := newSessionService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, ports.LoginRequest{Username: "admin1", Password: defaultPassword})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(24*60*60), resp.ExpiresIn)
	require.NotNil(t, resp.User)
	assert.Equal(t, "admin1", resp.User.Username)
	assert.Empty(t, resp.User.PasswordHash, "hash must never leave the service")
}

func TestSessionService_LoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newSessionService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, ports.LoginRequest{Username: "admin1", Password: "wrong"})
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)

	_, err = svc.Login(ctx, ports.LoginRequest{Username: "ghost", Password: defaultPassword})
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials, "unknown user and wrong password are indistinguishable")
}

func TestSessionService_LoginRejectsInactiveUser(t *testing.T) {
	svc, _ := newSessionService(t)
	ctx := context.Background()

	_, err := svc.ToggleUser(ctx, 2)
	require.NoError(t, err)

	_, err = svc.Login(ctx, ports.LoginRequest{Username: "admin2", Password: defaultPassword})
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)
}

func TestSessionService_CheckSessionExpiryBoundary(t *testing.T) {
	svc, sessions := newSessionService(t)
	ctx := context.Background()

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return t0 })

	_, err := svc.Login(ctx, ports.LoginRequest{Username: "admin1", Password: defaultPassword})
	require.NoError(t, err)
	assert.True(t, svc.CheckSession(ctx))

	// One instant before the 24h mark the session still holds.
	svc.WithClock(func() time.Time { return t0.Add(24*time.Hour - time.Second) })
	assert.True(t, svc.CheckSession(ctx))

	// At exactly the 24h mark it is expired and removed from storage.
	svc.WithClock(func() time.Time { return t0.Add(24 * time.Hour) })
	assert.False(t, svc.CheckSession(ctx))
	assert.Nil(t, sessions.Load(ctx), "expired session must be deleted")
}

func TestSessionService_CheckSessionRejectsDeactivatedUser(t *testing.T) {
	svc, _ := newSessionService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, ports.LoginRequest{Username: "admin2", Password: defaultPassword})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.True(t, svc.CheckSession(ctx))

	_, err = svc.ToggleUser(ctx, 2)
	require.NoError(t, err)
	assert.False(t, svc.CheckSession(ctx))
}

func TestSessionService_ValidateToken(t *testing.T) {
	svc, _ := newSessionService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, ports.LoginRequest{Username: "admin1", Password: defaultPassword})
	require.NoError(t, err)

	session, err := svc.ValidateToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), session.UserID)
	assert.Equal(t, "admin1", session.Username)

	_, err = svc.ValidateToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, entities.ErrSessionInvalid)
}

func TestSessionService_ValidateTokenAfterNewLogin(t *testing.T) {
	svc, _ := newSessionService(t)
	ctx := context.Background()

	first, err := svc.Login(ctx, ports.LoginRequest{Username: "admin1", Password: defaultPassword})
	require.NoError(t, err)

	// A fresh login replaces the stored session, orphaning the old token.
	_, err = svc.Login(ctx, ports.LoginRequest{Username: "admin2", Password: defaultPassword})
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, first.AccessToken)
	assert.ErrorIs(t, err, entities.ErrSessionInvalid)
}

func TestSessionService_ValidateTokenAfterLogout(t *testing.T) {
	svc, _ := newSessionService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, ports.LoginRequest{Username: "admin1", Password: defaultPassword})
	require.NoError(t, err)

	require.NoError(t, svc.ClearSession(ctx))

	_, err = svc.ValidateToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, entities.ErrSessionInvalid)
}

func TestSessionService_CurrentUser(t *testing.T) {
	svc, _ := newSessionService(t)
	ctx := context.Background()

	user, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	_, err = svc.Login(ctx, ports.LoginRequest{Username: "admin3", Password: defaultPassword})
	require.NoError(t, err)

	user, err = svc.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "admin3", user.Username)
}

func TestSessionService_ToggleUserKeepsOneActive(t *testing.T) {
	svc, _ := newSessionService(t)
	ctx := context.Background()

	for _, id := range []int64{2, 3} {
		user, err := svc.ToggleUser(ctx, id)
		require.NoError(t, err)
		assert.False(t, user.Active)
	}

	// admin1 is the last active account; deactivating it is rejected with
	// no state change.
	_, err := svc.ToggleUser(ctx, 1)
	assert.ErrorIs(t, err, entities.ErrLastActiveUser)

	users, err := svc.GetUsers(ctx)
	require.NoError(t, err)
	assert.True(t, users[0].Active)

	// Reactivating a deactivated account always works.
	user, err := svc.ToggleUser(ctx, 2)
	require.NoError(t, err)
	assert.True(t, user.Active)
}

func TestSessionService_ToggleUnknownUser(t *testing.T) {
	svc, _ := newSessionService(t)

	_, err := svc.ToggleUser(context.Background(), 99)
	assert.ErrorIs(t, err, entities.ErrUserNotFound)
}

func TestSessionService_EditUserName(t *testing.T) {
	svc, _ := newSessionService(t)
	ctx := context.Background()

	user, err := svc.EditUserName(ctx, 2, "Maria")
	require.NoError(t, err)
	assert.Equal(t, "Maria", user.Name)

	users, err := svc.GetUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Maria", users[1].Name)

	_, err = svc.EditUserName(ctx, 99, "Ghost")
	assert.ErrorIs(t, err, entities.ErrUserNotFound)
}

func TestSessionService_EditUserPassword(t *testing.T) {
	svc, _ := newSessionService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.EditUserPassword(ctx, 1, "short", "short"), entities.ErrPasswordTooShort)
	assert.ErrorIs(t, svc.EditUserPassword(ctx, 1, "longenough", "different"), entities.ErrPasswordMismatch)
	assert.ErrorIs(t, svc.EditUserPassword(ctx, 99, "longenough", "longenough"), entities.ErrUserNotFound)

	require.NoError(t, svc.EditUserPassword(ctx, 1, "nova-senha", "nova-senha"))

	// The old password stops working immediately.
	_, err := svc.Login(ctx, ports.LoginRequest{Username: "admin1", Password: defaultPassword})
	assert.ErrorIs(t, err, entities.ErrInvalidCredentials)

	resp, err := svc.Login(ctx, ports.LoginRequest{Username: "admin1", Password: "nova-senha"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}
