// Package instance records the assistant instances occtl started, keyed by
// project tag, so that a later invocation stops or toggles only its own
// instance. The record lives in the per-login runtime directory and is
// guarded by an advisory file lock.
package instance

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// FileName is the record file inside the store directory.
const FileName = "instances.json"

// Record describes one started instance.
type Record struct {
	Provider  string    `json:"provider"`
	Root      string    `json:"root"`
	ID        string    `json:"id,omitempty"`       // multiplexer pane or window id
	PID       int       `json:"pid,omitempty"`      // process id when the provider owns the process
	Identity  string    `json:"identity,omitempty"` // Identify result for PID at launch
	Socket    string    `json:"socket,omitempty"`   // multiplexer server socket the ID belongs to
	StartedAt time.Time `json:"started_at"`
}

// Store reads and writes the instance record.
type Store struct {
	dir         string
	lockTimeout time.Duration
}

// NewStore returns a store rooted at dir. The directory is created on first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir, lockTimeout: 5 * time.Second}
}

// Path returns the record file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName)
}

// Get returns the record for tag.
func (s *Store) Get(tag string) (Record, bool, error) {
	var (
		rec   Record
		found bool
	)
	err := s.withLock(func() error {
		records, err := s.read()
		if err != nil {
			return err
		}
		rec, found = records[tag]
		return nil
	})
	return rec, found, err
}

// Put stores rec under tag, replacing any previous record.
func (s *Store) Put(tag string, rec Record) error {
	return s.update(func(records map[string]Record) {
		records[tag] = rec
	})
}

// Delete removes the record for tag. Deleting a missing tag is not an error.
func (s *Store) Delete(tag string) error {
	return s.update(func(records map[string]Record) {
		delete(records, tag)
	})
}

func (s *Store) update(fn func(map[string]Record)) error {
	return s.withLock(func() error {
		records, err := s.read()
		if err != nil {
			return err
		}
		fn(records)
		return s.write(records)
	})
}

func (s *Store) read() (map[string]Record, error) {
	records := make(map[string]Record)
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return records, nil
		}
		return nil, fmt.Errorf("reading instance record: %w", err)
	}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		// A corrupt record only loses bookkeeping; start over.
		return make(map[string]Record), nil
	}
	return records, nil
}

func (s *Store) write(records map[string]Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding instance record: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, ".instances-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing instance record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing instance record: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("replacing instance record: %w", err)
	}
	return nil
}

// withLock acquires an advisory lock on the record before running fn,
// providing cross-process mutual exclusion between occtl invocations.
func (s *Store) withLock(fn func() error) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("creating instance directory: %w", err)
	}
	fl := flock.New(s.Path() + ".lock")

	ctx, cancel := context.WithTimeout(context.Background(), s.lockTimeout)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("acquiring instance lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("timed out acquiring instance lock")
	}
	defer func() { _ = fl.Unlock() }()

	return fn()
}
