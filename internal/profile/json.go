package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// JSONStore keeps every user in one JSON document:
//
//	{"<username>": {"passwordHash": "<hex>", "profile": {...}}}
//
// Each write rewrites the whole file through a temp file and rename. The
// mutex serializes writers in this process only; two processes writing
// the same file race and the last write wins.
type JSONStore struct {
	mu   sync.Mutex
	path string
}

// NewJSONStore returns a store backed by path. The file is created on the
// first write.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the backing file path.
func (s *JSONStore) Path() string {
	return s.path
}

func (s *JSONStore) Get(ctx context.Context, username string) (*Profile, error) {
	rec, err := s.Record(ctx, username)
	if err != nil || rec == nil {
		return nil, err
	}
	p := rec.Profile
	return &p, nil
}

func (s *JSONStore) Record(_ context.Context, username string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return nil, err
	}
	rec, ok := users[username]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *JSONStore) Put(_ context.Context, username string, p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}
	rec, ok := users[username]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, username)
	}
	rec.Profile = p
	users[username] = rec
	return s.save(users)
}

func (s *JSONStore) Create(_ context.Context, username string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := users[username]; ok {
		return fmt.Errorf("%w: %s", ErrExists, username)
	}
	users[username] = rec
	return s.save(users)
}

func (s *JSONStore) Usernames(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(users))
	for name := range users {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func (s *JSONStore) Close() error { return nil }

// load reads the users file. A missing or empty file is an empty store.
func (s *JSONStore) load() (map[string]Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	users := map[string]Record{}
	if len(data) == 0 {
		return users, nil
	}
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse users file %s: %w", s.path, err)
	}
	return users, nil
}

func (s *JSONStore) save(users map[string]Record) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal users: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create users dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".users-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write users file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close users file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace users file: %w", err)
	}
	return nil
}
