package extract

import (
	"fmt"

	"github.com/vkozyrev/teamscout/internal/stats"
)

// Player extracts the profile fields from a player page.
func Player(html []byte, playerID string) (stats.Player, error) {
	doc, err := parseDoc(html)
	if err != nil {
		return stats.Player{}, err
	}

	about := doc.Find(AboutAnchor)
	if about.Length() == 0 {
		return stats.Player{}, fmt.Errorf("player %s: %w", playerID, ErrAnchorMissing)
	}

	fields := fieldMap(about)
	avatar, _ := doc.Find(".player-header img").Attr("src")

	return stats.Player{
		PlayerID:  playerID,
		Nickname:  textOf(doc.Find(".player-header .nickname")),
		RealName:  fields["real name"],
		Country:   fields["country"],
		AvatarURL: avatar,
	}, nil
}

// PlayerStats extracts the aggregate stats panel from a player page.
// All numeric fields default to 0 when missing or malformed.
func PlayerStats(html []byte, playerID string) (stats.PlayerStats, error) {
	doc, err := parseDoc(html)
	if err != nil {
		return stats.PlayerStats{}, err
	}

	panel := doc.Find(PlayerStatAnchor)
	if panel.Length() == 0 {
		return stats.PlayerStats{}, fmt.Errorf("stats of player %s: %w", playerID, ErrAnchorMissing)
	}

	fields := fieldMap(panel)
	return stats.PlayerStats{
		PlayerID:     playerID,
		TotalMatches: ParseCount(fields["matches"]),
		Wins:         ParseCount(fields["wins"]),
		Losses:       ParseCount(fields["losses"]),
		AvgKills:     ParseAmount(fields["kills"]),
		AvgDeaths:    ParseAmount(fields["deaths"]),
		AvgAssists:   ParseAmount(fields["assists"]),
		AvgGPM:       ParseAmount(fields["gpm"]),
		AvgXPM:       ParseAmount(fields["xpm"]),
	}, nil
}
