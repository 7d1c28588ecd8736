package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/vkozyrev/teamscout/internal/stats"
)

func parseDoc(html []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return doc, nil
}

// fieldMap reads a repeated label/value item structure into a map keyed by
// the lowercased label text. Fields are located by label, not position, so
// reordered items on the page do not break extraction.
func fieldMap(panel *goquery.Selection) map[string]string {
	fields := make(map[string]string)
	panel.Find(".item").Each(func(_ int, item *goquery.Selection) {
		label := textOf(item.Find(".label"))
		if label == "" {
			return
		}
		fields[strings.ToLower(label)] = textOf(item.Find(".value"))
	})
	return fields
}

func textOf(s *goquery.Selection) string {
	return strings.TrimSpace(s.First().Text())
}

// idFromHref pulls the trailing path segment out of an entity link,
// e.g. /players/9921 -> 9921.
func idFromHref(href string) string {
	href = strings.Trim(strings.TrimSpace(href), "/")
	if href == "" {
		return ""
	}
	parts := strings.Split(href, "/")
	return parts[len(parts)-1]
}

// resultFromClass maps a win/loss/draw marker class to a MatchResult.
func resultFromClass(s *goquery.Selection) stats.MatchResult {
	switch {
	case s.HasClass("win"):
		return stats.ResultWin
	case s.HasClass("loss"), s.HasClass("lose"):
		return stats.ResultLoss
	default:
		return stats.ResultDraw
	}
}
