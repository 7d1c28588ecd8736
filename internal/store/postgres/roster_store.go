package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vkozyrev/teamscout/internal/stats"
)

// RosterStore reconciles team lineups into Postgres.
type RosterStore struct {
	db DB
}

// NewRosterStore constructs a RosterStore on an existing pool.
func NewRosterStore(db DB) *RosterStore {
	return &RosterStore{db: db}
}

// ActivateRoster upserts the roster keyed by (team, start date), replaces
// its player links, and deactivates every other roster of the team. The
// whole operation is one transaction so a team never ends up with two
// active rosters.
func (s *RosterStore) ActivateRoster(ctx context.Context, roster stats.Roster) (int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin roster tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Deactivate first: a partial unique index allows only one active
	// roster per team at any point in the transaction.
	deactivate := `
		UPDATE rosters SET is_active = FALSE
		WHERE team_id = $1 AND is_active;
	`
	if _, err := tx.Exec(ctx, deactivate, roster.TeamID); err != nil {
		return 0, fmt.Errorf("deactivate prior rosters of %s: %w", roster.TeamID, err)
	}

	rosterID, err := upsertRosterRow(ctx, tx, roster)
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM roster_players WHERE roster_id = $1;`, rosterID); err != nil {
		return 0, fmt.Errorf("clear roster players: %w", err)
	}

	for _, player := range roster.Players {
		if player.PlayerID == "" {
			continue
		}
		// The profile crawl fills the remaining player columns later;
		// here only the link target must exist.
		ensurePlayer := `
			INSERT INTO players (player_id, nickname)
			VALUES ($1, $2)
			ON CONFLICT (player_id) DO UPDATE SET nickname = EXCLUDED.nickname;
		`
		if _, err := tx.Exec(ctx, ensurePlayer, player.PlayerID, player.Nickname); err != nil {
			return 0, fmt.Errorf("ensure player %s: %w", player.PlayerID, err)
		}

		link := `
			INSERT INTO roster_players (roster_id, player_id, role, position, is_active)
			VALUES ($1, $2, $3, $4, $5);
		`
		if _, err := tx.Exec(ctx, link, rosterID, player.PlayerID, player.Role, player.Position, player.IsActive); err != nil {
			return 0, fmt.Errorf("link player %s: %w", player.PlayerID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit roster of %s: %w", roster.TeamID, err)
	}
	return rosterID, nil
}

func upsertRosterRow(ctx context.Context, tx pgx.Tx, roster stats.Roster) (int64, error) {
	var rosterID int64
	lookup := `
		SELECT id FROM rosters
		WHERE team_id = $1 AND start_date IS NOT DISTINCT FROM $2;
	`
	err := tx.QueryRow(ctx, lookup, roster.TeamID, roster.StartDate).Scan(&rosterID)
	switch {
	case err == nil:
		activate := `UPDATE rosters SET is_active = TRUE WHERE id = $1;`
		if _, err := tx.Exec(ctx, activate, rosterID); err != nil {
			return 0, fmt.Errorf("reactivate roster %d: %w", rosterID, err)
		}
		return rosterID, nil
	case errors.Is(err, pgx.ErrNoRows):
		insert := `
			INSERT INTO rosters (team_id, is_active, start_date)
			VALUES ($1, TRUE, $2)
			RETURNING id;
		`
		if err := tx.QueryRow(ctx, insert, roster.TeamID, roster.StartDate).Scan(&rosterID); err != nil {
			return 0, fmt.Errorf("insert roster for %s: %w", roster.TeamID, err)
		}
		return rosterID, nil
	default:
		return 0, fmt.Errorf("lookup roster of %s: %w", roster.TeamID, err)
	}
}
