package community

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrQuotaExceeded is returned when a write would grow a store beyond its
// quota. The store keeps its previous contents.
var ErrQuotaExceeded = errors.New("community: storage quota exceeded")

// Store is a string-keyed blob store, the shape of browser local storage.
type Store interface {
	// Get returns the value under key. The second result is false when the
	// key is absent.
	Get(key string) ([]byte, bool, error)
	// Set replaces the value under key.
	Set(key string, value []byte) error
}

// MemoryStore keeps values in memory. The zero value is ready to use and has
// no quota.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
	quota  int
}

// NewMemoryStore returns a store that holds at most quota bytes of values.
// A quota of zero or less means unlimited.
func NewMemoryStore(quota int) *MemoryStore {
	return &MemoryStore{quota: quota}
}

// Get implements Store.
func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set implements Store.
func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quota > 0 && usage(s.values, key, value) > s.quota {
		return fmt.Errorf("%w: %q needs %d bytes", ErrQuotaExceeded, key, len(value))
	}
	if s.values == nil {
		s.values = make(map[string][]byte)
	}
	s.values[key] = append([]byte(nil), value...)
	return nil
}

// usage returns the total value size after replacing key with value.
func usage(values map[string][]byte, key string, value []byte) int {
	n := len(value)
	for k, v := range values {
		if k != key {
			n += len(v)
		}
	}
	return n
}

// FileStore keeps values in a single JSON object on disk. Every Set rewrites
// the file through a temporary file and a rename.
type FileStore struct {
	mu    sync.Mutex
	path  string
	quota int
}

// NewFileStore returns a store backed by path. The file is created on the
// first write. A quota of zero or less means unlimited.
func NewFileStore(path string, quota int) *FileStore {
	return &FileStore{path: path, quota: quota}
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) read() (map[string][]byte, error) {
	// #nosec G304 -- path is provided by the user
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string][]byte{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("community: %w", err)
	}
	values := map[string][]byte{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("community: read %s: %w", s.path, err)
	}
	return values, nil
}

// Get implements Store.
func (s *FileStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.read()
	if err != nil {
		return nil, false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set implements Store.
func (s *FileStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.read()
	if err != nil {
		return err
	}
	if s.quota > 0 && usage(values, key, value) > s.quota {
		return fmt.Errorf("%w: %q needs %d bytes", ErrQuotaExceeded, key, len(value))
	}
	values[key] = value
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("community: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

func writeFileAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("community: %w", err)
	}
	tmp := f.Name()
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("community: write %s: %w", path, err)
	}
	return nil
}
