package rivulet

import (
	"fmt"

	"github.com/roach88/rivulet/query"
	"github.com/roach88/rivulet/store"
	"github.com/roach88/rivulet/stream"
)

// DB owns one storage engine, one change notifier, and the session that ties
// them together. The notifier's lifecycle matches the database handle: it is
// created here and torn down by Close.
type DB struct {
	*query.Session

	store    *store.Store
	notifier *stream.Notifier
}

// Open opens (creating if necessary) a SQLite-backed database at path.
func Open(path string) (*DB, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	notifier := stream.NewNotifier()
	return &DB{
		Session:  query.NewSession(st, notifier),
		store:    st,
		notifier: notifier,
	}, nil
}

// OpenInMemory opens a private in-memory database.
func OpenInMemory() (*DB, error) {
	st, err := store.OpenInMemory()
	if err != nil {
		return nil, err
	}
	notifier := stream.NewNotifier()
	return &DB{
		Session:  query.NewSession(st, notifier),
		store:    st,
		notifier: notifier,
	}, nil
}

// Store exposes the underlying storage engine.
func (db *DB) Store() *store.Store { return db.store }

// Close tears down the notifier (active subscriptions stop receiving
// signals) and closes the storage engine.
func (db *DB) Close() error {
	db.notifier.Close()
	return db.store.Close()
}
