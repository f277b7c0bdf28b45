// Package redis implements the profile store on a redis hash, for
// setups where the profile file should live off the local disk.
package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zetpar/zetpar/internal/profile"
)

// All profiles live in one hash: field = username, value = ciphertext
const profilesKey = "zetpar:profiles"

// Store is a redis-backed implementation of the profile store
type Store struct {
	client *redis.Client
	cipher *profile.Cipher
	logger *slog.Logger
}

// Ensure Store implements the interface
var _ profile.Store = (*Store)(nil)

// New creates a redis store and verifies the connection
func New(cfg Config, cipher *profile.Cipher, logger *slog.Logger) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cipher, logger), nil
}

// NewWithClient creates a redis store with an existing client (for testing)
func NewWithClient(client *redis.Client, cipher *profile.Cipher, logger *slog.Logger) *Store {
	return &Store{
		client: client,
		cipher: cipher,
		logger: logger,
	}
}

// Close closes the redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Save(ctx context.Context, username, password string) bool {
	encrypted, err := s.cipher.Encrypt(password)
	if err != nil {
		s.logger.Warn("profile encryption failed", slog.String("error", err.Error()))
		return false
	}

	if err := s.client.HSet(ctx, profilesKey, username, encrypted).Err(); err != nil {
		s.logger.Warn("profile write failed", slog.String("error", err.Error()))
		return false
	}
	return true
}

func (s *Store) Load(ctx context.Context, username string) (string, bool) {
	encrypted, err := s.client.HGet(ctx, profilesKey, username).Result()
	if err != nil {
		return "", false
	}

	password, err := s.cipher.Decrypt(encrypted)
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
	usernames, err := s.client.HKeys(ctx, profilesKey).Result()
	if err != nil {
		return nil
	}
	return usernames
}

func (s *Store) Delete(ctx context.Context, username string) bool {
	removed, err := s.client.HDel(ctx, profilesKey, username).Result()
	if err != nil {
		s.logger.Warn("profile delete failed", slog.String("error", err.Error()))
		return false
	}
	return removed > 0
}
