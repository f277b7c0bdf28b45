// Package profile persists saved login profiles, with passwords
// encrypted at rest. All operations are best-effort: failures degrade
// to a false/absent/empty result and are never surfaced as errors,
// so callers can treat a broken store as an empty one.
package profile

import "context"

// Store persists username -> encrypted password mappings
type Store interface {
	// Save encrypts and writes the profile, overwriting any existing
	// entry. Returns false on any persistence or encryption failure.
	Save(ctx context.Context, username, password string) bool

	// Load returns the decrypted password for username, or false if
	// the profile is unknown or cannot be decrypted.
	Load(ctx context.Context, username string) (string, bool)

	// List returns the saved usernames, empty on read failure
	List(ctx context.Context) []string

	// Delete removes the profile. Returns false if it did not exist
	// or removal failed.
	Delete(ctx context.Context, username string) bool
}
