package extract

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/vkozyrev/teamscout/internal/stats"
)

// Tournaments extracts the match archive of a team page: tournaments
// grouping matches, each match carrying its ordered per-map results.
func Tournaments(html []byte, teamID string) ([]stats.Tournament, error) {
	doc, err := parseDoc(html)
	if err != nil {
		return nil, err
	}

	archive := doc.Find(ArchiveAnchor)
	if archive.Length() == 0 {
		return nil, fmt.Errorf("archive of team %s: %w", teamID, ErrAnchorMissing)
	}

	var tournaments []stats.Tournament
	archive.Find(".tournament").Each(func(_ int, block *goquery.Selection) {
		tournament := stats.Tournament{
			Name: textOf(block.Find(".tournament-name")),
		}
		block.Find(".match").Each(func(_ int, row *goquery.Selection) {
			id, _ := row.Attr("data-match-id")
			match := stats.Match{
				MatchID:  id,
				Opponent: textOf(row.Find(".opponent")),
				Format:   textOf(row.Find(".format")),
				Score:    textOf(row.Find(".score")),
				Result:   resultFromClass(row),
			}
			row.Find(".map").Each(func(i int, mapRow *goquery.Selection) {
				match.Maps = append(match.Maps, stats.MapResult{
					MapNumber: i + 1,
					Score:     textOf(mapRow.Find(".map-score")),
					Duration:  textOf(mapRow.Find(".map-duration")),
					Result:    resultFromClass(mapRow),
				})
			})
			tournament.Matches = append(tournament.Matches, match)
		})
		tournaments = append(tournaments, tournament)
	})
	return tournaments, nil
}
