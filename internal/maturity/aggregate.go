//
// Package maturity turns per-user, per-question responses into area,
// theme and organization maturity scores.
//
// Everything here is pure computation over records already loaded by
// the caller; results are recomputed on every call.
//
package maturity

import (
	"sort"

	"github.com/nsip/procurement-maturity/internal/model"
)

//
// organization maturity for one theme.
//
type Summary struct {
	Overall float64            `json:"overall"`
	ByArea  map[string]float64 `json:"by_area"`
	// Areas lists the ByArea keys in first-seen order.
	Areas     []string `json:"areas"`
	Responses int      `json:"responses"`
}

//
// AggregateOrganization computes the organization's maturity for theme
// over every matching response of every user.
//
// returns false when org is nil or holds no response for theme; callers
// treat that as insufficient organizational data, not an error.
//
func AggregateOrganization(org *model.Organization, theme string) (*Summary, bool) {
	if org == nil {
		return nil, false
	}

	var all []int
	byArea := map[string][]int{}
	var areas []string
	for _, u := range org.Users {
		for _, r := range u.ResponsesFor(theme) {
			all = append(all, r.Score)
			if _, seen := byArea[r.Area]; !seen {
				areas = append(areas, r.Area)
			}
			byArea[r.Area] = append(byArea[r.Area], r.Score)
		}
	}
	if len(all) == 0 {
		return nil, false
	}

	sum := &Summary{
		Overall:   meanOf(all),
		ByArea:    make(map[string]float64, len(byArea)),
		Areas:     areas,
		Responses: len(all),
	}
	for area, scores := range byArea {
		sum.ByArea[area] = meanOf(scores)
	}
	return sum, true
}

//
// ScoreTheme is the rounded mean score of the responses tagged with
// theme. No matching response gives 0.0.
//
func ScoreTheme(responses []model.Response, theme string) float64 {
	var scores []int
	for _, r := range responses {
		if r.Theme == theme {
			scores = append(scores, r.Score)
		}
	}
	if len(scores) == 0 {
		return 0.0
	}
	return meanOf(scores)
}

//
// ThemeScores scores each theme that has at least one response.
//
func ThemeScores(responses []model.Response, themes []string) map[string]float64 {
	out := map[string]float64{}
	for _, theme := range themes {
		for _, r := range responses {
			if r.Theme == theme {
				out[theme] = ScoreTheme(responses, theme)
				break
			}
		}
	}
	return out
}

//
// CombinedOverall is the rounded mean of per-theme means, not the mean
// of all raw responses; a theme with few questions weighs as much as
// one with many.
// An empty map gives 0.0.
//
func CombinedOverall(themeScores map[string]float64) float64 {
	if len(themeScores) == 0 {
		return 0.0
	}
	// sum in a fixed order so the result does not depend on map iteration
	keys := make([]string, 0, len(themeScores))
	for k := range themeScores {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	total := 0.0
	for _, k := range keys {
		total += themeScores[k]
	}
	return Round1(total / float64(len(keys)))
}
