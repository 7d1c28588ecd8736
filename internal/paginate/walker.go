// Package paginate drives sequential list-page crawls until the list is
// exhausted.
package paginate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vkozyrev/teamscout/internal/backoff"
	"github.com/vkozyrev/teamscout/internal/politeness"
)

// Fetch loads one page URL and returns its rendered snapshot.
type Fetch func(ctx context.Context, url string) ([]byte, error)

// Walker fetches numbered list pages in order. Page numbers are sequential
// and cannot be skipped, so an unrecoverable page failure aborts the
// remaining walk.
type Walker struct {
	exec        *backoff.Executor
	governor    *politeness.Governor
	maxAttempts int
	emptyStop   int
	logger      *zap.Logger
}

// New builds a Walker. emptyStop is the number of consecutive empty pages
// that terminates a walk.
func New(exec *backoff.Executor, governor *politeness.Governor, maxAttempts, emptyStop int, logger *zap.Logger) *Walker {
	if emptyStop <= 0 {
		emptyStop = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{
		exec:        exec,
		governor:    governor,
		maxAttempts: maxAttempts,
		emptyStop:   emptyStop,
		logger:      logger,
	}
}

// Walk fetches pages 1, 2, ... from urlTemplate (one %d verb for the page
// number), extracts each page's entities, and accumulates them until
// emptyStop consecutive pages yield nothing. A page yielding at least one
// entity resets the streak. Fetches are retried via the backoff executor;
// exhausted retries abort the walk and surface the failure.
func Walk[T any](ctx context.Context, w *Walker, urlTemplate string, fetch Fetch, extract func([]byte) ([]T, error)) ([]T, error) {
	var accumulated []T
	emptyStreak := 0

	for page := 1; ; page++ {
		url := fmt.Sprintf(urlTemplate, page)
		html, err := backoff.Get(ctx, w.exec, "fetch list page", w.maxAttempts, func(ctx context.Context) ([]byte, error) {
			return fetch(ctx, url)
		})
		if err != nil {
			return nil, fmt.Errorf("walk aborted at page %d: %w", page, err)
		}

		entities, err := extract(html)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", page, err)
		}

		if len(entities) == 0 {
			emptyStreak++
			w.logger.Debug("empty list page",
				zap.Int("page", page),
				zap.Int("empty_streak", emptyStreak),
			)
			if emptyStreak >= w.emptyStop {
				w.logger.Info("list exhausted",
					zap.Int("last_page", page),
					zap.Int("total", len(accumulated)),
				)
				return accumulated, nil
			}
		} else {
			emptyStreak = 0
			accumulated = append(accumulated, entities...)
		}

		if err := w.governor.Wait(ctx); err != nil {
			return nil, err
		}
	}
}
