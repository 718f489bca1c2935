package stagehand

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// ErrNoData is returned by Store.Get when nothing is stored under the key.
var ErrNoData = errors.New("stagehand: no stored data")

const (
	defaultStorageKey = "data"
	storageBucket     = "stagehand"
)

// Store is a small key/value backend for persisted application data.
type Store interface {
	// Get returns the value stored under key, or ErrNoData.
	Get(key string) ([]byte, error)
	// Put stores value under key, replacing any previous value.
	Put(key string, value []byte) error
	Close() error
}

// Defaulter may be implemented by *S to fill in defaults before persisted
// data is decoded over it, and when no data exists at all.
type Defaulter interface {
	SetDefaults()
}

// loadStorage returns the value persisted under key. Absent or undecodable
// data yields the default value of S together with the cause, so the caller
// can log it; the returned value is always usable.
func loadStorage[S any](store Store, key string) (S, error) {
	var v S
	applyDefaults(&v)

	data, err := store.Get(key)
	if err != nil {
		return v, err
	}
	var decoded S
	applyDefaults(&decoded)
	if err := json.Unmarshal(data, &decoded); err != nil {
		return v, fmt.Errorf("stagehand: decode %q: %w", key, err)
	}
	return decoded, nil
}

// saveStorage encodes v as JSON and writes it under key.
func saveStorage[S any](store Store, key string, v S) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("stagehand: encode %q: %w", key, err)
	}
	if err := store.Put(key, data); err != nil {
		return fmt.Errorf("stagehand: write %q: %w", key, err)
	}
	return nil
}

func applyDefaults[S any](v *S) {
	if d, ok := any(v).(Defaulter); ok {
		d.SetDefaults()
	}
}

// MemStore keeps values in memory. Data does not survive the process.
type MemStore struct {
	values map[string][]byte
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string][]byte)}
}

func (s *MemStore) Get(key string) ([]byte, error) {
	v, ok := s.values[key]
	if !ok {
		return nil, ErrNoData
	}
	return append([]byte(nil), v...), nil
}

func (s *MemStore) Put(key string, value []byte) error {
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemStore) Close() error { return nil }

// BoltStore persists values in a bbolt database file.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens (creating if needed) the database at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("stagehand: open store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(storageBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("stagehand: init store %s: %w", path, err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(storageBucket))
		v := b.Get([]byte(key))
		if v == nil {
			return ErrNoData
		}
		// v is only valid inside the transaction.
		value = append([]byte(nil), v...)
		return nil
	})
	return value, err
}

func (s *BoltStore) Put(key string, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(storageBucket))
		return b.Put([]byte(key), value)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
