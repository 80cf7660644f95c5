package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/zalando/go-keyring"
)

const (
	KeyringService = "linkpop"
	keyringUser    = "session"
)

// KeyringStore keeps the session in the OS credential store.
type KeyringStore struct {
	Service string
}

func NewKeyringStore() *KeyringStore {
	return &KeyringStore{Service: KeyringService}
}

func (k *KeyringStore) Load(ctx context.Context) (*Session, error) {
	raw, err := keyring.Get(k.Service, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session from keyring: %w", err)
	}
	return decode([]byte(raw))
}

func (k *KeyringStore) Save(ctx context.Context, s Session) error {
	if s.Token == "" {
		return ErrEmptyToken
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := keyring.Set(k.Service, keyringUser, string(raw)); err != nil {
		return fmt.Errorf("failed to write session to keyring: %w", err)
	}
	return nil
}

func (k *KeyringStore) Clear(ctx context.Context) error {
	err := keyring.Delete(k.Service, keyringUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to remove session from keyring: %w", err)
	}
	return nil
}

// FileStore keeps the session in a JSON file readable only by the user.
type FileStore struct {
	Path string
}

// DefaultFilePath returns <user config dir>/linkpop/session.json.
func DefaultFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, "linkpop", "session.json"), nil
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (f *FileStore) Load(ctx context.Context) (*Session, error) {
	raw, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	return decode(raw)
}

func (f *FileStore) Save(ctx context.Context, s Session) error {
	if s.Token == "" {
		return ErrEmptyToken
	}
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	// Write-then-rename so a crash never leaves a truncated file behind.
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), ".session-*.json")
	if err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

func (f *FileStore) Clear(ctx context.Context) error {
	err := os.Remove(f.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// MemoryStore is a process-local store.
type MemoryStore struct {
	mu      sync.Mutex
	session *Session
}

func NewMemoryStore(initial *Session) *MemoryStore {
	m := &MemoryStore{}
	if initial.Valid() {
		cp := *initial
		m.session = &cp
	}
	return m
}

func (m *MemoryStore) Load(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, nil
	}
	cp := *m.session
	return &cp, nil
}

func (m *MemoryStore) Save(ctx context.Context, s Session) error {
	if s.Token == "" {
		return ErrEmptyToken
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &s
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}

func decode(raw []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if s.Token == "" {
		return nil, nil
	}
	return &s, nil
}
