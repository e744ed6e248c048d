// ABOUTME: Badger-backed BlobStore, an embedded LSM key-value alternative to SQLite.
// ABOUTME: Opens with Badger's internal logger silenced so CLI output stays clean.
package storage

import (
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v3"
)

// badgerUpdateAttempts bounds retries of a transaction that lost an
// optimistic conflict to a concurrent writer.
const badgerUpdateAttempts = 5

// BadgerStore wraps a Badger database.
type BadgerStore struct {
	db  *badger.DB
	dir string
}

var _ BlobStore = (*BadgerStore)(nil)

// OpenBadger opens or creates a Badger database in dir.
func OpenBadger(dir string) (*BadgerStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create badger directory: %w", err)
	}
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db, dir: dir}, nil
}

// Get reads the raw value stored under key.
func (b *BadgerStore) Get(key string) ([]byte, bool, error) {
	var (
		value []byte
		ok    bool
	)
	err := b.db.View(func(txn *badger.Txn) error {
		var err error
		value, ok, err = badgerTx{txn}.Get(key)
		return err
	})
	return value, ok, err
}

// Set writes value under key.
func (b *BadgerStore) Set(key string, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return badgerTx{txn}.Set(key, value)
	})
}

// Update runs fn in a read-write transaction, retrying on conflict.
func (b *BadgerStore) Update(fn func(tx BlobTx) error) error {
	var err error
	for attempt := 0; attempt < badgerUpdateAttempts; attempt++ {
		err = b.db.Update(func(txn *badger.Txn) error {
			return fn(badgerTx{txn})
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("update: %w", err)
}

// Close closes the Badger database.
func (b *BadgerStore) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

type badgerTx struct {
	txn *badger.Txn
}

func (t badgerTx) Get(key string) ([]byte, bool, error) {
	item, err := t.txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (t badgerTx) Set(key string, value []byte) error {
	if err := t.txn.Set([]byte(key), value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
