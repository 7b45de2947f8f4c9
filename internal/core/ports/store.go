package ports

import "context"

// Keys of the four records kept in the persistent store.
const (
	KeyUsers      = "users"
	KeyEmployees  = "employees"
	KeyAttendance = "attendance"
	KeySequences  = "sequences"
)

// AllKeys lists every key the data access layer touches.
var AllKeys = []string{KeyUsers, KeyEmployees, KeyAttendance, KeySequences}

// KVStore is a durable mapping from string keys to JSON-encoded values.
// Set replaces a value wholesale; there are no partial merges.
type KVStore interface {
	// Get decodes the value stored under key into dst. found is false when
	// the key is absent, in which case dst is left untouched.
	Get(ctx context.Context, key string, dst any) (found bool, err error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error

	// Update runs fn as a single all-or-nothing transaction over keys.
	// Writes made through tx become visible together when fn returns nil
	// and are discarded otherwise.
	Update(ctx context.Context, keys []string, fn func(tx KVTx) error) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// KVTx is the view of the store available inside Update. Reads see the
// transaction's own pending writes.
type KVTx interface {
	Get(key string, dst any) (found bool, err error)
	Set(key string, value any) error
}
