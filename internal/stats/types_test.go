package stats

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTeamStatsDerivation(t *testing.T) {
	t.Parallel()
	team := Team{
		TeamID:       "101",
		MatchesTotal: 320,
		MatchesWon:   200,
		MatchesLost:  120,
	}

	require.Equal(t, TeamStats{
		TeamID:         "101",
		MatchesTotal:   320,
		MatchesWon:     200,
		MatchesLost:    120,
		WinratePercent: 62.5,
	}, team.Stats())
}

func TestWinrateNoDivisionByZero(t *testing.T) {
	t.Parallel()
	team := Team{TeamID: "101", MatchesWon: 40}
	require.Equal(t, 0.0, team.WinratePercent())
	require.Equal(t, 0.0, team.Stats().WinratePercent)

	playerStats := PlayerStats{PlayerID: "9921", Wins: 40}
	require.Equal(t, 0.0, playerStats.WinratePercent())
}
