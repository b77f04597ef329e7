package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Fernandol1z6/site-do-estudio/internal/domain/entities"
	"github.com/Fernandol1z6/site-do-estudio/internal/ports"
)

// DefaultPasswordHash is the shared SHA-256 hex digest every account is
// provisioned with ("12345678"). Accounts missing a hash are backfilled
// with it on load.
const DefaultPasswordHash = "ef797c8118f02dfb649607dd5d3f8c7623048c9c063d532cc95c5ed7a898a64f"

// MaxUsers is the fixed size of the admin user directory.
const MaxUsers = 3

// UserDirectory persists the fixed 3-account admin directory under its own
// storage key. The directory is always read and written as a whole.
type UserDirectory struct {
	store ports.BlobStore
}

// NewUserDirectory creates a user directory over a blob store.
func NewUserDirectory(store ports.BlobStore) *UserDirectory {
	return &UserDirectory{store: store}
}

func defaultUsers() []entities.User {
	users := make([]entities.User, 0, MaxUsers)
	for i := 1; i <= MaxUsers; i++ {
		users = append(users, entities.User{
			ID:           int64(i),
			Username:     fmt.Sprintf("admin%d", i),
			PasswordHash: DefaultPasswordHash,
			Name:         fmt.Sprintf("Administrador %d", i),
			Active:       true,
		})
	}
	return users
}

// Load returns the user directory, provisioning the three default accounts
// on first access. Accounts stored without a password hash are backfilled
// with the shared default hash and the backfill is persisted immediately.
// A directory that fails to parse is reinitialized.
func (d *UserDirectory) Load(ctx context.Context) ([]entities.User, error) {
	raw, ok, err := d.store.Get(ctx, ports.UsersKey)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	var users []entities.User
	if ok {
		if err := json.Unmarshal(raw, &users); err != nil {
			users = nil
		}
	}

	if len(users) == 0 {
		users = defaultUsers()
		if err := d.Save(ctx, users); err != nil {
			return nil, err
		}
		return users, nil
	}

	backfilled := false
	for i := range users {
		if users[i].PasswordHash == "" {
			users[i].PasswordHash = DefaultPasswordHash
			backfilled = true
		}
	}
	if backfilled {
		if err := d.Save(ctx, users); err != nil {
			return nil, err
		}
	}

	return users, nil
}

// Save persists the whole directory.
func (d *UserDirectory) Save(ctx context.Context, users []entities.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := d.store.Set(ctx, ports.UsersKey, raw); err != nil {
		return fmt.Errorf("persist users: %w", err)
	}
	return nil
}

// SessionRepository persists the single admin session under its own key.
// Creating a session unconditionally overwrites any prior one.
type SessionRepository struct {
	store ports.BlobStore
}

// NewSessionRepository creates a session repository over a blob store.
func NewSessionRepository(store ports.BlobStore) *SessionRepository {
	return &SessionRepository{store: store}
}

// Load returns the stored session, or nil when it is absent or fails to
// parse.
func (r *SessionRepository) Load(ctx context.Context) *entities.Session {
	raw, ok, err := r.store.Get(ctx, ports.SessionKey)
	if err != nil || !ok {
		return nil
	}

	var session entities.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil
	}
	return &session
}

// Save persists the session, replacing any prior one.
func (r *SessionRepository) Save(ctx context.Context, session *entities.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.store.Set(ctx, ports.SessionKey, raw); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Delete removes the stored session.
func (r *SessionRepository) Delete(ctx context.Context) error {
	return r.store.Delete(ctx, ports.SessionKey)
}
