package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vkozyrev/teamscout/internal/stats"
	"github.com/vkozyrev/teamscout/internal/store"
)

// TeamStore reconciles teams and their aggregate stats into Postgres.
type TeamStore struct {
	db DB
}

// NewTeamStore constructs a TeamStore on an existing pool.
func NewTeamStore(db DB) *TeamStore {
	return &TeamStore{db: db}
}

// UpsertTeamListing merges the list-page columns for a team. Detail
// columns stay untouched on conflict.
func (s *TeamStore) UpsertTeamListing(ctx context.Context, team stats.Team) error {
	query := `
		INSERT INTO teams (team_id, name, logo_url, region, rating_score)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (team_id) DO UPDATE SET
			name = EXCLUDED.name,
			logo_url = EXCLUDED.logo_url,
			region = EXCLUDED.region,
			rating_score = EXCLUDED.rating_score,
			updated_at = NOW();
	`
	_, err := s.db.Exec(ctx, query,
		team.TeamID, team.Name, team.LogoURL, team.Region, team.RatingScore)
	if err != nil {
		return fmt.Errorf("upsert team listing %s: %w", team.TeamID, err)
	}
	return nil
}

// UpsertTeamDetail merges the about-panel columns and writes the derived
// aggregate stats in the same transaction. The winrate is computed from
// the counts in hand, never re-read from storage.
func (s *TeamStore) UpsertTeamDetail(ctx context.Context, team stats.Team) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin team detail tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	teamQuery := `
		INSERT INTO teams (
			team_id, name, logo_url, region, rating_score, total_winnings,
			matches_total, matches_won, matches_lost, events_count,
			first_places, creation_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (team_id) DO UPDATE SET
			name = EXCLUDED.name,
			logo_url = EXCLUDED.logo_url,
			region = EXCLUDED.region,
			rating_score = EXCLUDED.rating_score,
			total_winnings = EXCLUDED.total_winnings,
			matches_total = EXCLUDED.matches_total,
			matches_won = EXCLUDED.matches_won,
			matches_lost = EXCLUDED.matches_lost,
			events_count = EXCLUDED.events_count,
			first_places = EXCLUDED.first_places,
			creation_date = EXCLUDED.creation_date,
			updated_at = NOW();
	`
	_, err = tx.Exec(ctx, teamQuery,
		team.TeamID, team.Name, team.LogoURL, team.Region, team.RatingScore,
		team.TotalWinnings, team.MatchesTotal, team.MatchesWon,
		team.MatchesLost, team.EventsCount, team.FirstPlaces, team.CreationDate)
	if err != nil {
		return fmt.Errorf("upsert team detail %s: %w", team.TeamID, err)
	}

	statsQuery := `
		INSERT INTO team_stats (team_id, matches_total, matches_won, matches_lost, winrate_percent)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (team_id) DO UPDATE SET
			matches_total = EXCLUDED.matches_total,
			matches_won = EXCLUDED.matches_won,
			matches_lost = EXCLUDED.matches_lost,
			winrate_percent = EXCLUDED.winrate_percent,
			updated_at = NOW();
	`
	aggregate := team.Stats()
	_, err = tx.Exec(ctx, statsQuery,
		aggregate.TeamID, aggregate.MatchesTotal, aggregate.MatchesWon,
		aggregate.MatchesLost, aggregate.WinratePercent)
	if err != nil {
		return fmt.Errorf("upsert team stats %s: %w", team.TeamID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit team detail %s: %w", team.TeamID, err)
	}
	return nil
}

// GetTeam fetches a team by natural key.
func (s *TeamStore) GetTeam(ctx context.Context, teamID string) (stats.Team, error) {
	query := `
		SELECT team_id, name, logo_url, region, rating_score, total_winnings,
			matches_total, matches_won, matches_lost, events_count,
			first_places, creation_date
		FROM teams
		WHERE team_id = $1;
	`
	var team stats.Team
	err := s.db.QueryRow(ctx, query, teamID).Scan(
		&team.TeamID, &team.Name, &team.LogoURL, &team.Region,
		&team.RatingScore, &team.TotalWinnings, &team.MatchesTotal,
		&team.MatchesWon, &team.MatchesLost, &team.EventsCount,
		&team.FirstPlaces, &team.CreationDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return stats.Team{}, store.ErrNotFound
		}
		return stats.Team{}, fmt.Errorf("get team %s: %w", teamID, err)
	}
	return team, nil
}
