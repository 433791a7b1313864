package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrValueTooLarge is returned when a payload exceeds the mirror's capacity
var ErrValueTooLarge = errors.New("value exceeds fallback store capacity")

// MirrorStore implements FallbackStore as a single JSON file holding all
// mirrored keys. It stands in for the small synchronous store of the
// original design: always written alongside the primary, capacity-limited,
// and cheap to read back in full for disaster recovery.
type MirrorStore struct {
	path  string
	limit int
	mu    sync.Mutex
}

// NewMirrorStore creates a mirror store backed by the file at path.
// Values larger than limit bytes are rejected with ErrValueTooLarge.
func NewMirrorStore(path string, limit int) *MirrorStore {
	return &MirrorStore{path: path, limit: limit}
}

// Save mirrors the value for key, rewriting the whole mirror file
func (s *MirrorStore) Save(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(value) > s.limit {
		return fmt.Errorf("%w: %d > %d bytes", ErrValueTooLarge, len(value), s.limit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		// A corrupt mirror is rebuilt from scratch rather than kept broken
		entries = map[string]json.RawMessage{}
	}
	entries[key] = json.RawMessage(value)

	return s.write(entries)
}

// Load reads the mirrored value for key; (nil, false, nil) when absent
func (s *MirrorStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return nil, false, err
	}

	value, ok := entries[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(value), true, nil
}

// Clear removes the mirror file entirely
func (s *MirrorStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove mirror file: %w", err)
	}
	return nil
}

func (s *MirrorStore) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("read mirror file: %w", err)
	}

	entries := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse mirror file: %w", err)
	}
	return entries, nil
}

func (s *MirrorStore) write(entries map[string]json.RawMessage) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode mirror file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create mirror dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "mirror-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
