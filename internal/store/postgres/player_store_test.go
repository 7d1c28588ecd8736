package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/vkozyrev/teamscout/internal/stats"
)

func TestUpsertPlayer(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	s := NewPlayerStore(mock)

	player := stats.Player{
		PlayerID:  "11",
		Nickname:  "midboy",
		RealName:  "Ivan Petrov",
		Country:   "Ukraine",
		AvatarURL: "/img/p11.png",
	}

	mock.ExpectExec("INSERT INTO players").
		WithArgs("11", "midboy", "Ivan Petrov", "Ukraine", "/img/p11.png").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.UpsertPlayer(context.Background(), player))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertPlayerStatsDerivesWinrate(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	s := NewPlayerStore(mock)

	ps := stats.PlayerStats{
		PlayerID:     "11",
		TotalMatches: 540,
		Wins:         270,
		Losses:       270,
		AvgKills:     7.8,
		AvgDeaths:    4.1,
		AvgAssists:   11.3,
		AvgGPM:       612,
		AvgXPM:       701,
	}

	mock.ExpectExec("INSERT INTO player_stats").
		WithArgs("11", 540, 270, 270, 50.0, 7.8, 4.1, 11.3, 612.0, 701.0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.UpsertPlayerStats(context.Background(), ps))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertPlayerStatsZeroMatches(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	s := NewPlayerStore(mock)

	// winrate must be 0 with no matches, not a division by zero.
	mock.ExpectExec("INSERT INTO player_stats").
		WithArgs("11", 0, 40, 0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.UpsertPlayerStats(context.Background(), stats.PlayerStats{
		PlayerID: "11",
		Wins:     40,
	}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceHeroesSwapsFullSet(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	s := NewPlayerStore(mock)

	lastGame := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	heroes := []stats.PlayerHeroStat{
		{PlayerID: "11", HeroName: "Invoker", MatchesPlayed: 30, Wins: 22, AvgKDA: 4.5, LastGame: &lastGame},
		{PlayerID: "11", HeroName: "Puck", MatchesPlayed: 12, Wins: 6, AvgKDA: 3.1},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM player_hero_stats").
		WithArgs("11").
		WillReturnResult(pgxmock.NewResult("DELETE", 4))
	mock.ExpectExec("INSERT INTO player_hero_stats").
		WithArgs("11", "Invoker", 30, 22, 4.5, &lastGame).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO player_hero_stats").
		WithArgs("11", "Puck", 12, 6, 3.1, (*time.Time)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, s.ReplaceHeroes(context.Background(), "11", heroes))
	require.NoError(t, mock.ExpectationsWereMet())
}
