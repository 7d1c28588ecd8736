package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/vkozyrev/teamscout/internal/stats"
	"github.com/vkozyrev/teamscout/internal/store"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestUpsertTeamListing(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	s := NewTeamStore(mock)

	team := stats.Team{
		TeamID:      "101",
		Name:        "Team Alpha",
		LogoURL:     "/img/101.png",
		Region:      "Europe",
		RatingScore: 1450,
	}

	mock.ExpectExec("INSERT INTO teams").
		WithArgs("101", "Team Alpha", "/img/101.png", "Europe", 1450.0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.UpsertTeamListing(context.Background(), team))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertTeamListingIdempotent(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	s := NewTeamStore(mock)

	team := stats.Team{TeamID: "101", Name: "Team Alpha"}
	args := []any{"101", "Team Alpha", "", "", 0.0}

	// The same payload twice issues the same conflict-merging upsert;
	// the second run updates the single existing row in place.
	mock.ExpectExec("INSERT INTO teams").
		WithArgs(args...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO teams").
		WithArgs(args...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.UpsertTeamListing(context.Background(), team))
	require.NoError(t, s.UpsertTeamListing(context.Background(), team))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertTeamDetailWritesDerivedStats(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	s := NewTeamStore(mock)

	created := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
	team := stats.Team{
		TeamID:        "101",
		Name:          "Team Alpha",
		Region:        "Europe",
		RatingScore:   1450,
		TotalWinnings: 1234567,
		MatchesTotal:  320,
		MatchesWon:    200,
		MatchesLost:   120,
		EventsCount:   25,
		FirstPlaces:   4,
		CreationDate:  &created,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO teams").
		WithArgs("101", "Team Alpha", "", "Europe", 1450.0, 1234567.0,
			320, 200, 120, 25, 4, &created).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO team_stats").
		WithArgs("101", 320, 200, 120, 62.5).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, s.UpsertTeamDetail(context.Background(), team))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertTeamDetailRollsBackOnStatsFailure(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	s := NewTeamStore(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO teams").
		WithArgs("101", "", "", "", 0.0, 0.0, 0, 0, 0, 0, 0, (*time.Time)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO team_stats").
		WithArgs("101", 0, 0, 0, 0.0).
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	err := s.UpsertTeamDetail(context.Background(), stats.Team{TeamID: "101"})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTeamNotFound(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	s := NewTeamStore(mock)

	mock.ExpectQuery("SELECT team_id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetTeam(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}
