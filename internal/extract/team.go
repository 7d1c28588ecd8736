package extract

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/vkozyrev/teamscout/internal/stats"
)

// Anchor selectors the render client waits for before extraction runs.
const (
	TeamListAnchor   = ".teams-table"
	AboutAnchor      = ".about"
	RosterAnchor     = ".roster"
	HeroesAnchor     = ".heroes"
	ArchiveAnchor    = ".archive"
	PlayerStatAnchor = ".stats"
)

// TeamList extracts the team rows from one list page. A present container
// with no rows yields an empty slice; the pagination walker relies on that
// to detect exhausted lists.
func TeamList(html []byte) ([]stats.Team, error) {
	doc, err := parseDoc(html)
	if err != nil {
		return nil, err
	}

	var teams []stats.Team
	doc.Find(TeamListAnchor + " .team-row").Each(func(_ int, row *goquery.Selection) {
		href, _ := row.Attr("href")
		id := idFromHref(href)
		if id == "" {
			return
		}
		logo, _ := row.Find("img").Attr("src")
		teams = append(teams, stats.Team{
			TeamID:      id,
			Name:        textOf(row.Find(".name")),
			LogoURL:     logo,
			Region:      textOf(row.Find(".region")),
			RatingScore: ParseAmount(textOf(row.Find(".rating"))),
		})
	})
	return teams, nil
}

// TeamDetail extracts the about panel of a team page. The about panel is
// the structural anchor; without it the whole entity is unavailable.
func TeamDetail(html []byte, teamID string) (stats.Team, error) {
	doc, err := parseDoc(html)
	if err != nil {
		return stats.Team{}, err
	}

	about := doc.Find(AboutAnchor)
	if about.Length() == 0 {
		return stats.Team{}, fmt.Errorf("team %s: %w", teamID, ErrAnchorMissing)
	}

	fields := fieldMap(about)
	logo, _ := doc.Find(".team-header img").Attr("src")

	team := stats.Team{
		TeamID:        teamID,
		Name:          textOf(doc.Find(".team-header .name")),
		LogoURL:       logo,
		Region:        fields["region"],
		RatingScore:   ParseAmount(fields["rating"]),
		TotalWinnings: ParseAmount(fields["total winnings"]),
		MatchesTotal:  ParseCount(fields["matches"]),
		MatchesWon:    ParseCount(fields["wins"]),
		MatchesLost:   ParseCount(fields["losses"]),
		EventsCount:   ParseCount(fields["events"]),
		FirstPlaces:   ParseCount(fields["first places"]),
		CreationDate:  ParseDate(fields["creation date"]),
	}
	return team, nil
}
