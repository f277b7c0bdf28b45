// Package file implements the profile store as a single JSON file.
package file

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/zetpar/zetpar/internal/profile"
)

type entry struct {
	Password string `json:"password"`
}

// Store is a file-backed implementation of the profile store. The
// whole mapping is read and rewritten on every mutation; profile files
// are tiny and single-process access is assumed.
type Store struct {
	mu     sync.Mutex
	path   string
	cipher *profile.Cipher
	logger *slog.Logger
}

// Ensure Store implements the interface
var _ profile.Store = (*Store)(nil)

// New creates a file store at path, creating an empty profile file
// (and its parent directories) if none exists.
func New(path string, cipher *profile.Cipher, logger *slog.Logger) *Store {
	s := &Store{
		path:   path,
		cipher: cipher,
		logger: logger,
	}
	s.ensureFile()
	return s
}

func (s *Store) ensureFile() {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		s.logger.Warn("could not create profile directory", slog.String("error", err.Error()))
		return
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		if err := os.WriteFile(s.path, []byte("{}"), 0o600); err != nil {
			s.logger.Warn("could not create profile file", slog.String("error", err.Error()))
		}
	}
}

func (s *Store) Save(ctx context.Context, username, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.read()
	if err != nil {
		s.logger.Warn("profile read failed", slog.String("error", err.Error()))
		return false
	}

	encrypted, err := s.cipher.Encrypt(password)
	if err != nil {
		s.logger.Warn("profile encryption failed", slog.String("error", err.Error()))
		return false
	}

	profiles[username] = entry{Password: encrypted}

	if err := s.write(profiles); err != nil {
		s.logger.Warn("profile write failed", slog.String("error", err.Error()))
		return false
	}
	return true
}

func (s *Store) Load(ctx context.Context, username string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.read()
	if err != nil {
		return "", false
	}

	e, ok := profiles[username]
	if !ok {
		return "", false
	}

	password, err := s.cipher.Decrypt(e.Password)
	if err != nil {
		s.logger.Warn("profile decryption failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return "", false
	}
	return password, true
}

func (s *Store) List(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.read()
	if err != nil {
		return nil
	}

	usernames := make([]string, 0, len(profiles))
	for username := range profiles {
		usernames = append(usernames, username)
	}
	return usernames
}

func (s *Store) Delete(ctx context.Context, username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.read()
	if err != nil {
		return false
	}

	if _, ok := profiles[username]; !ok {
		return false
	}
	delete(profiles, username)

	if err := s.write(profiles); err != nil {
		s.logger.Warn("profile write failed", slog.String("error", err.Error()))
		return false
	}
	return true
}

func (s *Store) read() (map[string]entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]entry{}, nil
		}
		return nil, err
	}

	profiles := map[string]entry{}
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (s *Store) write(profiles map[string]entry) error {
	data, err := json.Marshal(profiles)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
