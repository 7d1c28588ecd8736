package extract

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/vkozyrev/teamscout/internal/stats"
)

// Heroes extracts the per-hero rows from a player's heroes panel.
// The site reports a winrate percentage, not wins; absolute wins are
// derived from the rate and the match count.
func Heroes(html []byte, playerID string) ([]stats.PlayerHeroStat, error) {
	doc, err := parseDoc(html)
	if err != nil {
		return nil, err
	}

	panel := doc.Find(HeroesAnchor)
	if panel.Length() == 0 {
		return nil, fmt.Errorf("heroes of player %s: %w", playerID, ErrAnchorMissing)
	}

	var heroes []stats.PlayerHeroStat
	panel.Find(".hero-row").Each(func(_ int, row *goquery.Selection) {
		name := textOf(row.Find(".hero-name"))
		if name == "" {
			return
		}
		matches := ParseCount(textOf(row.Find(".matches")))
		winrate := ParseAmount(textOf(row.Find(".winrate")))
		heroes = append(heroes, stats.PlayerHeroStat{
			PlayerID:      playerID,
			HeroName:      name,
			MatchesPlayed: matches,
			Wins:          HeroWins(winrate, matches),
			AvgKDA:        ParseAmount(textOf(row.Find(".kda"))),
			LastGame:      ParseDate(textOf(row.Find(".last-game"))),
		})
	})
	return heroes, nil
}
