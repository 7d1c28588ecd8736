// Package politeness paces requests and rotates browser identities so the
// crawler stays under the target site's blocking heuristics.
package politeness

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// Identity is the header set a render session presents for its lifetime.
type Identity struct {
	UserAgent      string
	AcceptLanguage string
}

// Governor draws randomized inter-request delays from a [min, max] window
// and hands out a random identity per render session.
type Governor struct {
	min    time.Duration
	max    time.Duration
	agents []string
}

// New builds a Governor for the given delay window and identity pool.
func New(min, max time.Duration, agents []string) (*Governor, error) {
	if min < 0 || max < min {
		return nil, fmt.Errorf("invalid delay window [%s, %s]", min, max)
	}
	if len(agents) == 0 {
		return nil, fmt.Errorf("identity pool is empty")
	}
	return &Governor{min: min, max: max, agents: agents}, nil
}

// NextDelay returns a duration drawn uniformly from the configured window.
func (g *Governor) NextDelay() time.Duration {
	span := g.max - g.min
	if span <= 0 {
		return g.min
	}
	return g.min + rand.N(span)
}

// Wait sleeps for NextDelay or until the context finishes.
func (g *Governor) Wait(ctx context.Context) error {
	delay := g.NextDelay()
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("politeness wait: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

// Identity picks a browser identity uniformly at random. Callers apply it
// once per session, not per request.
func (g *Governor) Identity() Identity {
	return Identity{
		UserAgent:      g.agents[rand.N(len(g.agents))],
		AcceptLanguage: "en-US,en;q=0.9",
	}
}

// BlockedResources lists URL patterns a render session should refuse to
// fetch. Images, styles, and fonts carry no extractable data.
func BlockedResources() []string {
	return []string{
		"*.png", "*.jpg", "*.jpeg", "*.gif", "*.svg", "*.webp", "*.ico",
		"*.css", "*.woff", "*.woff2", "*.ttf", "*.otf",
	}
}
