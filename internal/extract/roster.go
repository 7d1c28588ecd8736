package extract

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/vkozyrev/teamscout/internal/stats"
)

// Roster extracts the current lineup from a team page. The roster panel is
// the structural anchor. Player rows without a profile link are kept with
// an empty PlayerID; the writer decides whether to link them.
func Roster(html []byte, teamID string) (stats.Roster, error) {
	doc, err := parseDoc(html)
	if err != nil {
		return stats.Roster{}, err
	}

	panel := doc.Find(RosterAnchor)
	if panel.Length() == 0 {
		return stats.Roster{}, fmt.Errorf("roster of team %s: %w", teamID, ErrAnchorMissing)
	}

	roster := stats.Roster{
		TeamID:    teamID,
		IsActive:  true,
		StartDate: ParseDate(textOf(panel.Find(".since"))),
	}

	panel.Find(".player").Each(func(_ int, row *goquery.Selection) {
		href, _ := row.Find("a").Attr("href")
		role := textOf(row.Find(".role"))
		roster.Players = append(roster.Players, stats.RosterPlayer{
			PlayerID: idFromHref(href),
			Nickname: textOf(row.Find(".nickname")),
			Role:     role,
			Position: RoleToPosition(role),
			IsActive: true,
		})
	})
	return roster, nil
}
