package postgres

import (
	"context"
	"fmt"

	"github.com/vkozyrev/teamscout/internal/stats"
)

// PlayerStore reconciles players, their aggregate stats, and hero rows.
type PlayerStore struct {
	db DB
}

// NewPlayerStore constructs a PlayerStore on an existing pool.
func NewPlayerStore(db DB) *PlayerStore {
	return &PlayerStore{db: db}
}

// UpsertPlayer merges the profile columns for a player. Stats and hero
// rows written by other stages stay untouched.
func (s *PlayerStore) UpsertPlayer(ctx context.Context, player stats.Player) error {
	query := `
		INSERT INTO players (player_id, nickname, real_name, country, avatar_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (player_id) DO UPDATE SET
			nickname = EXCLUDED.nickname,
			real_name = EXCLUDED.real_name,
			country = EXCLUDED.country,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = NOW();
	`
	_, err := s.db.Exec(ctx, query,
		player.PlayerID, player.Nickname, player.RealName, player.Country, player.AvatarURL)
	if err != nil {
		return fmt.Errorf("upsert player %s: %w", player.PlayerID, err)
	}
	return nil
}

// UpsertPlayerStats overwrites the aggregate stats row wholesale. The
// winrate column is derived from the counts in hand.
func (s *PlayerStore) UpsertPlayerStats(ctx context.Context, playerStats stats.PlayerStats) error {
	query := `
		INSERT INTO player_stats (
			player_id, total_matches, wins, losses, winrate_percent,
			avg_kills, avg_deaths, avg_assists, avg_gpm, avg_xpm
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (player_id) DO UPDATE SET
			total_matches = EXCLUDED.total_matches,
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			winrate_percent = EXCLUDED.winrate_percent,
			avg_kills = EXCLUDED.avg_kills,
			avg_deaths = EXCLUDED.avg_deaths,
			avg_assists = EXCLUDED.avg_assists,
			avg_gpm = EXCLUDED.avg_gpm,
			avg_xpm = EXCLUDED.avg_xpm,
			updated_at = NOW();
	`
	_, err := s.db.Exec(ctx, query,
		playerStats.PlayerID, playerStats.TotalMatches, playerStats.Wins,
		playerStats.Losses, playerStats.WinratePercent(), playerStats.AvgKills,
		playerStats.AvgDeaths, playerStats.AvgAssists, playerStats.AvgGPM,
		playerStats.AvgXPM)
	if err != nil {
		return fmt.Errorf("upsert player stats %s: %w", playerStats.PlayerID, err)
	}
	return nil
}

// ReplaceHeroes swaps the full hero-stat set for a player in one
// transaction, so heroes the player stopped picking disappear.
func (s *PlayerStore) ReplaceHeroes(ctx context.Context, playerID string, heroes []stats.PlayerHeroStat) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin heroes tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM player_hero_stats WHERE player_id = $1;`, playerID); err != nil {
		return fmt.Errorf("clear heroes of %s: %w", playerID, err)
	}

	insert := `
		INSERT INTO player_hero_stats (player_id, hero_name, matches_played, wins, avg_kda, last_game)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, hero := range heroes {
		_, err := tx.Exec(ctx, insert,
			playerID, hero.HeroName, hero.MatchesPlayed, hero.Wins, hero.AvgKDA, hero.LastGame)
		if err != nil {
			return fmt.Errorf("insert hero %s of %s: %w", hero.HeroName, playerID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit heroes of %s: %w", playerID, err)
	}
	return nil
}
