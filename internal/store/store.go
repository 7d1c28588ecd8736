// Package store defines the persistence interfaces the crawl pipeline
// writes through. All writes are upserts keyed on natural identifiers;
// each crawl stage touches only the columns it owns.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/vkozyrev/teamscout/internal/stats"
)

// ErrNotFound is returned when a record keyed by a natural key is absent.
var ErrNotFound = errors.New("store: not found")

// TeamStore reconciles team records.
type TeamStore interface {
	// UpsertTeamListing merges the fields visible on the team list page.
	// Detail columns written by a later stage are left untouched.
	UpsertTeamListing(ctx context.Context, team stats.Team) error
	// UpsertTeamDetail merges the about-panel fields and upserts the
	// derived aggregate stats in the same operation, computed from the
	// just-written counts rather than re-read from storage.
	UpsertTeamDetail(ctx context.Context, team stats.Team) error
	// GetTeam fetches a team by its natural key.
	GetTeam(ctx context.Context, teamID string) (stats.Team, error)
}

// RosterStore reconciles team lineups.
type RosterStore interface {
	// ActivateRoster upserts the roster (keyed by team and start date),
	// replaces its player links, and deactivates any other active roster
	// of the team, all in one transaction.
	ActivateRoster(ctx context.Context, roster stats.Roster) (int64, error)
}

// PlayerStore reconciles players and their statistics.
type PlayerStore interface {
	// UpsertPlayer merges the profile fields only.
	UpsertPlayer(ctx context.Context, player stats.Player) error
	// UpsertPlayerStats overwrites the aggregate row wholesale and stores
	// the winrate derived from the just-written counts.
	UpsertPlayerStats(ctx context.Context, playerStats stats.PlayerStats) error
	// ReplaceHeroes swaps the full hero-stat set for a player in one
	// transaction. Stale heroes from earlier crawls do not survive.
	ReplaceHeroes(ctx context.Context, playerID string, heroes []stats.PlayerHeroStat) error
}

// MatchStore reconciles the tournament/match archive of a team.
type MatchStore interface {
	UpsertTournaments(ctx context.Context, teamID string, tournaments []stats.Tournament) error
}

// CheckpointStore gates scheduled passes on the last successful crawl time.
type CheckpointStore interface {
	LastChecked(ctx context.Context, resourceKey string) (time.Time, error)
	MarkChecked(ctx context.Context, resourceKey string, at time.Time) error
}
