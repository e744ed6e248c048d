// ABOUTME: SQLite schema for the blob store.
// ABOUTME: A single kv table holds one JSON blob per collection key.
package storage

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(kvSchema)
	return err
}
