package ports

import (
	"context"
)

// Storage keys for the on-device document, the admin user directory and the
// admin session. Each lives under its own key; the content document is read
// and rewritten wholesale on every mutation.
const (
	ContentKey = "studio_data"
	UsersKey   = "admin_users"
	SessionKey = "admin_session"
)

// BlobStore is the injected persistence abstraction behind the local
// fallback path. Implementations: file-backed (one JSON file per key),
// postgres-backed (key/value table) and in-memory (tests).
type BlobStore interface {
	// Get returns the stored value and whether the key exists at all.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// TableClient is the generic select/insert/update/delete protocol against
// the hosted table service. Singleton reads return entities.ErrNoRows when
// the table is empty; that is a normal result, not a failure.
type TableClient interface {
	// Available reports whether remote access is configured and enabled.
	Available() bool
	// Select fetches all rows of a table into dest, ordered by the given
	// column spec (e.g. "id.desc", "order_index.asc").
	Select(ctx context.Context, table, order string, dest interface{}) error
	// SelectSingle fetches the single row of a singleton table into dest.
	SelectSingle(ctx context.Context, table string, dest interface{}) error
	// Insert inserts rows and decodes the representation returned by the
	// service (with backend-assigned ids) into dest when dest is non-nil.
	Insert(ctx context.Context, table string, rows interface{}, dest interface{}) error
	// Update patches the row with the given id and decodes the updated
	// representation into dest when dest is non-nil.
	Update(ctx context.Context, table string, id int64, row interface{}, dest interface{}) error
	// Delete removes the row with the given id.
	Delete(ctx context.Context, table string, id int64) error
	// DeleteAll removes every row of a table.
	DeleteAll(ctx context.Context, table string) error
}
