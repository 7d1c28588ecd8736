// Package metrics exposes the crawler's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PagesRendered tracks pages successfully rendered and snapshotted.
	PagesRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "teamscout_pages_rendered_total",
		Help: "The total number of pages successfully rendered.",
	})
	// RenderFailures tracks navigations that failed after all retries.
	RenderFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "teamscout_render_failures_total",
		Help: "The total number of navigations that exhausted their retries.",
	})
	// Retries tracks individual retry attempts across all operations.
	Retries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "teamscout_retries_total",
		Help: "The total number of retry attempts.",
	})
	// EntitiesUpserted tracks reconciled entities by type.
	EntitiesUpserted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "teamscout_entities_upserted_total",
		Help: "The total number of entities reconciled into the store.",
	}, []string{"entity"})
	// EntitiesSkipped tracks entities dropped from a pass after a
	// non-fatal failure.
	EntitiesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "teamscout_entities_skipped_total",
		Help: "The total number of entities skipped within a pass.",
	}, []string{"entity"})
	// PassesCompleted tracks crawl passes that ran to the end.
	PassesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "teamscout_passes_completed_total",
		Help: "The total number of completed crawl passes.",
	})
	// PassesFailed tracks crawl passes aborted by a fatal failure.
	PassesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "teamscout_passes_failed_total",
		Help: "The total number of aborted crawl passes.",
	})
	// PassesSkipped tracks scheduler triggers suppressed by a fresh
	// checkpoint or an already-running pass.
	PassesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "teamscout_passes_skipped_total",
		Help: "The total number of skipped pass triggers.",
	})
)
