// Package steam defines the boundary to the Steam connection library.
// The real wire protocol lives behind the Transport interface; this
// package only fixes the surface the rest of the application programs
// against.
package steam

import (
	"context"
	"fmt"

	"github.com/zetpar/zetpar/internal/model"
)

// Result is the outcome code of a login attempt, following Steam's
// EResult numbering.
type Result int

const (
	ResultNone                  Result = 0
	ResultOK                    Result = 1
	ResultInvalidPassword       Result = 5
	ResultAccountLogonDenied    Result = 63
	ResultTwoFactorCodeMismatch Result = 88
)

// RetryableWithNewCode reports whether the login should be retried
// with a freshly prompted guard code.
func (r Result) RetryableWithNewCode() bool {
	return r == ResultNone || r == ResultTwoFactorCodeMismatch
}

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultInvalidPassword:
		return "invalid password"
	case ResultAccountLogonDenied:
		return "account logon denied"
	case ResultTwoFactorCodeMismatch:
		return "two-factor code mismatch"
	default:
		return fmt.Sprintf("result code %d", int(r))
	}
}

// User identifies the account behind an authenticated connection
type User struct {
	Name    string
	SteamID uint64
}

// Transport is the opaque Steam connection client. Implementations
// wrap a real protocol library; tests use a scripted mock.
type Transport interface {
	// Login performs one login handshake attempt. guardCode may be
	// empty when the account has no second factor enabled.
	Login(ctx context.Context, username, password, guardCode string) (Result, error)

	// Connected reports whether the session is currently established
	Connected() bool

	// SetGamesPlayed reports the given set of titles as being played.
	// An empty slice clears the in-game status.
	SetGamesPlayed(ctx context.Context, appIDs []model.AppID) error

	// RunEventPump blocks processing connection events until the
	// context is cancelled or the connection drops
	RunEventPump(ctx context.Context) error

	// Logout closes the session
	Logout(ctx context.Context) error

	// User returns the authenticated account. Only valid once
	// Connected reports true.
	User() User

	// SetCredentialLocation sets the path of the sentry file used to
	// skip repeated device verification for this account
	SetCredentialLocation(path string)
}
