// Package session holds the client's single active credential.
//
// Presence of a credential is the only session signal: no expiry is tracked
// locally, an expired token is discovered when the API answers Unauthorized.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/waabox/catalogdeck/internal/logging"
)

// ErrEmptyToken is returned by Set when the token is blank.
var ErrEmptyToken = errors.New("session token must not be empty")

// Store is the Credential Store contract.
type Store interface {
	// Get returns the active credential. It never fails: unreadable storage reads as absent.
	Get() (string, bool)
	// Set persists token as the active credential, replacing any previous one.
	Set(token string) error
	// Clear removes the active credential. Clearing an absent credential is not an error.
	Clear() error
	// IsAuthenticated reports whether Get would return a credential.
	IsAuthenticated() bool
}

// sessionFile is the on-disk shape of the durable credential.
type sessionFile struct {
	Token string `toml:"token"`
}

// FileStore persists the credential in a TOML file so it survives restarts.
type FileStore struct {
	path string
	log  *zap.Logger
	mu   sync.Mutex
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore backed by path. log may be nil.
func NewFileStore(path string, log *zap.Logger) *FileStore {
	return &FileStore{path: path, log: logging.OrNop(log)}
}

// Path returns the file backing the store.
func (s *FileStore) Path() string {
	return s.path
}

// Get reads the credential from disk on every call so that a login performed
// by another catalogdeck process is picked up.
func (s *FileStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var f sessionFile
	if _, err := toml.DecodeFile(s.path, &f); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("unreadable session file", zap.String("path", s.path), zap.Error(err))
		}
		return "", false
	}
	token := strings.TrimSpace(f.Token)
	return token, token != ""
}

// Set writes token to disk with 0600 permissions.
func (s *FileStore) Set(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("opening session file: %w", err)
	}
	if encErr := toml.NewEncoder(f).Encode(sessionFile{Token: token}); encErr != nil {
		f.Close()
		return fmt.Errorf("writing session file: %w", encErr)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing session file: %w", err)
	}
	s.log.Debug("session credential stored", zap.String("path", s.path))
	return nil
}

// Clear removes the session file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	s.log.Debug("session credential cleared", zap.String("path", s.path))
	return nil
}

// IsAuthenticated reports whether a credential is present.
func (s *FileStore) IsAuthenticated() bool {
	_, ok := s.Get()
	return ok
}

// MemoryStore keeps the credential in memory only.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a MemoryStore, optionally seeded with a token.
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: strings.TrimSpace(token)}
}

func (s *MemoryStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *MemoryStore) Set(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) IsAuthenticated() bool {
	_, ok := s.Get()
	return ok
}
