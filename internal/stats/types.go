// Package stats defines the entity types shared across the crawl pipeline.
package stats

import "time"

// MatchResult is the outcome of a match or a single map from the team's view.
type MatchResult string

// Match result values persisted with matches and map results.
const (
	ResultWin  MatchResult = "win"
	ResultLoss MatchResult = "loss"
	ResultDraw MatchResult = "draw"
)

// Team carries the fields scraped from the team list and team detail pages.
// TeamID is the site's natural key; duplicates are reconciled on it.
type Team struct {
	TeamID        string
	Name          string
	LogoURL       string
	Region        string
	RatingScore   float64
	TotalWinnings float64
	MatchesTotal  int
	MatchesWon    int
	MatchesLost   int
	EventsCount   int
	FirstPlaces   int
	CreationDate  *time.Time
}

// WinratePercent derives the winrate from the match counters.
// Returns 0 when no matches are recorded.
func (t Team) WinratePercent() float64 {
	return winrate(t.MatchesWon, t.MatchesTotal)
}

// TeamStats is the aggregate record upserted alongside a team.
type TeamStats struct {
	TeamID         string
	MatchesTotal   int
	MatchesWon     int
	MatchesLost    int
	WinratePercent float64
}

// Stats derives the aggregate record from the team's own counters.
func (t Team) Stats() TeamStats {
	return TeamStats{
		TeamID:         t.TeamID,
		MatchesTotal:   t.MatchesTotal,
		MatchesWon:     t.MatchesWon,
		MatchesLost:    t.MatchesLost,
		WinratePercent: t.WinratePercent(),
	}
}

// Roster is one lineup of a team. A team accumulates rosters over time;
// at most one is active.
type Roster struct {
	RosterID  int64
	TeamID    string
	IsActive  bool
	StartDate *time.Time
	Players   []RosterPlayer
}

// RosterPlayer links a player into a roster with their role on it.
// Position is derived from the role text, 1..5, or 0 for staff roles.
type RosterPlayer struct {
	PlayerID string
	Nickname string
	Role     string
	Position int
	IsActive bool
}

// Player holds profile fields owned independently of any roster.
type Player struct {
	PlayerID  string
	Nickname  string
	RealName  string
	Country   string
	AvatarURL string
}

// PlayerStats is the per-player aggregate row, overwritten wholesale each crawl.
type PlayerStats struct {
	PlayerID     string
	TotalMatches int
	Wins         int
	Losses       int
	AvgKills     float64
	AvgDeaths    float64
	AvgAssists   float64
	AvgGPM       float64
	AvgXPM       float64
}

// WinratePercent derives the winrate from the match counters.
func (s PlayerStats) WinratePercent() float64 {
	return winrate(s.Wins, s.TotalMatches)
}

// PlayerHeroStat is one hero row for a player, keyed by (PlayerID, HeroName).
type PlayerHeroStat struct {
	PlayerID      string
	HeroName      string
	MatchesPlayed int
	Wins          int
	AvgKDA        float64
	LastGame      *time.Time
}

// Tournament groups the matches a team played in one event.
type Tournament struct {
	Name    string
	Matches []Match
}

// Match is a single series against an opponent, with per-map results.
type Match struct {
	MatchID  string
	Opponent string
	Format   string
	Score    string
	Result   MatchResult
	Maps     []MapResult
}

// MapResult is one map inside a match, ordered by MapNumber.
type MapResult struct {
	MapNumber int
	Score     string
	Duration  string
	Result    MatchResult
}

func winrate(won, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(won) / float64(total) * 100
}
