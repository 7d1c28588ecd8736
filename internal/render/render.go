// Package render provides headless-browser page rendering. A session pins
// one browser identity and one tab; extraction happens elsewhere on the
// returned HTML snapshot.
package render

import (
	"context"
	"time"

	"github.com/vkozyrev/teamscout/internal/politeness"
)

// Navigator loads a page, waits for its anchor element, and returns the
// rendered HTML snapshot.
type Navigator interface {
	Navigate(ctx context.Context, url, waitSelector string) ([]byte, error)
	Close() error
}

// SessionFactory opens render sessions. Each session carries its own
// identity for its whole lifetime.
type SessionFactory interface {
	NewSession(ctx context.Context, id politeness.Identity) (Navigator, error)
}

// Config controls session behavior.
type Config struct {
	// Timeout bounds a single navigation, anchor wait included.
	Timeout time.Duration
	// DomainQPS caps navigations per host, independent of politeness delays.
	DomainQPS float64
	// BlockedPatterns are sub-resource URL patterns the session refuses to load.
	BlockedPatterns []string
	// Headless toggles visible Chrome for local debugging.
	Headless bool
}
