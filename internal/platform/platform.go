// Package platform declares the notification-surface and window-registry
// collaborators the agent drives. Both are given by the hosting environment;
// the agent never reimplements them, it only calls them.
package platform

import (
	"context"

	"github.com/sescandon/nevexp/internal/models"
)

// Notifier is the platform notification-display API. A notification shown
// with a tag replaces any prior notification carrying the same tag.
type Notifier interface {
	Show(ctx context.Context, params models.PresentationParameters) error
	Close(ctx context.Context, tag string) error
}

// Window is one open application window.
type Window interface {
	URL() string
	Focus(ctx context.Context) error
	Navigate(ctx context.Context, url string) error
}

// Windows enumerates, opens, and claims application windows.
type Windows interface {
	// MatchAll lists open windows; includeUncontrolled also returns windows
	// not yet controlled by this agent version.
	MatchAll(ctx context.Context, includeUncontrolled bool) ([]Window, error)
	OpenWindow(ctx context.Context, url string) error
	// Claim takes immediate control of every open window.
	Claim(ctx context.Context) error
}
