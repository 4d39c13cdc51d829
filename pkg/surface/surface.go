// Package surface opens the external signing portal and waits for the single
// redirect it sends back to the app's callback URL.
package surface

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrUserCancelled is returned when the browsing surface is dismissed
	// before a redirect arrives.
	ErrUserCancelled = errors.New("user cancelled")

	ErrAlreadySubscribed = errors.New("deep link channel already has a subscriber")
)

// Launcher opens target in an external browsing surface and blocks until the
// first redirect to callbackURL, returning the full redirect URL.
//
// There is no built in timeout, callers bound the wait through ctx.
type Launcher interface {
	Launch(ctx context.Context, target, callbackURL string) (string, error)
}

// matchesCallback reports whether redirect was sent to callbackURL, ignoring
// its query and fragment.
func matchesCallback(redirect, callbackURL string) bool {
	base := redirect
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}

	callback := callbackURL
	if i := strings.IndexAny(callback, "?#"); i >= 0 {
		callback = callback[:i]
	}

	return strings.TrimSuffix(base, "/") == strings.TrimSuffix(callback, "/")
}
