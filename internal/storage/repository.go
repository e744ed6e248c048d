// ABOUTME: BlobStore interface for the opaque key-value substrate behind the health log.
// ABOUTME: Implemented by SQLite, Badger, and an in-memory store for tests.
package storage

// Keys under which each collection is persisted. Each key is decoded
// independently so one corrupt collection never takes down the others.
const (
	KeyLogs        = "hl_logs"
	KeyCourses     = "hl_courses"
	KeyCustomParts = "hl_custom_parts"
	KeyCustomMeds  = "hl_custom_meds"
)

// AllKeys lists every persisted key.
var AllKeys = []string{KeyLogs, KeyCourses, KeyCustomParts, KeyCustomMeds}

// BlobStore defines the raw storage contract. Values are opaque text.
// This interface allows swapping implementations (e.g., for testing).
type BlobStore interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	// Update runs fn in one write transaction. Reads through tx see every
	// write committed before the transaction began, including those of other
	// processes, and fn's writes commit together or not at all. fn may run
	// more than once and must not touch the store except through tx.
	Update(fn func(tx BlobTx) error) error
	Close() error
}

// BlobTx is the view of a BlobStore inside Update.
type BlobTx interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
}
