package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vkozyrev/teamscout/internal/stats"
)

// MatchStore reconciles the tournament/match archive of a team.
type MatchStore struct {
	db DB
}

// NewMatchStore constructs a MatchStore on an existing pool.
func NewMatchStore(db DB) *MatchStore {
	return &MatchStore{db: db}
}

// UpsertTournaments merges the archive of one team: tournaments keyed by
// (team, name), matches by their site match id, and map lists replaced
// per match. Everything runs in one transaction.
func (s *MatchStore) UpsertTournaments(ctx context.Context, teamID string, tournaments []stats.Tournament) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, tournament := range tournaments {
		tournamentID, err := upsertTournamentRow(ctx, tx, teamID, tournament.Name)
		if err != nil {
			return err
		}
		for _, match := range tournament.Matches {
			if match.MatchID == "" {
				continue
			}
			if err := upsertMatchRow(ctx, tx, tournamentID, match); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit archive of %s: %w", teamID, err)
	}
	return nil
}

func upsertTournamentRow(ctx context.Context, tx pgx.Tx, teamID, name string) (int64, error) {
	query := `
		INSERT INTO tournaments (team_id, name)
		VALUES ($1, $2)
		ON CONFLICT (team_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id;
	`
	var id int64
	if err := tx.QueryRow(ctx, query, teamID, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert tournament %q of %s: %w", name, teamID, err)
	}
	return id, nil
}

func upsertMatchRow(ctx context.Context, tx pgx.Tx, tournamentID int64, match stats.Match) error {
	query := `
		INSERT INTO matches (match_id, tournament_id, opponent, format, score, result)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (match_id) DO UPDATE SET
			tournament_id = EXCLUDED.tournament_id,
			opponent = EXCLUDED.opponent,
			format = EXCLUDED.format,
			score = EXCLUDED.score,
			result = EXCLUDED.result;
	`
	_, err := tx.Exec(ctx, query,
		match.MatchID, tournamentID, match.Opponent, match.Format, match.Score, string(match.Result))
	if err != nil {
		return fmt.Errorf("upsert match %s: %w", match.MatchID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM match_maps WHERE match_id = $1;`, match.MatchID); err != nil {
		return fmt.Errorf("clear maps of %s: %w", match.MatchID, err)
	}

	insertMap := `
		INSERT INTO match_maps (match_id, map_number, score, duration, result)
		VALUES ($1, $2, $3, $4, $5);
	`
	for _, m := range match.Maps {
		_, err := tx.Exec(ctx, insertMap, match.MatchID, m.MapNumber, m.Score, m.Duration, string(m.Result))
		if err != nil {
			return fmt.Errorf("insert map %d of %s: %w", m.MapNumber, match.MatchID, err)
		}
	}
	return nil
}
