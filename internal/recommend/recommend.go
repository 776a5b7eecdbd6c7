//
// Package recommend selects the static recommendation for an area score.
//
package recommend

import (
	"strconv"

	"github.com/labstack/gommon/log"

	"github.com/nsip/procurement-maturity/internal/catalog"
	"github.com/nsip/procurement-maturity/internal/maturity"
	"github.com/nsip/procurement-maturity/internal/model"
)

// NoRecommendation is returned whenever a lookup cannot be resolved.
const NoRecommendation = "No recommendation available"

type Selector struct {
	cat *catalog.Catalog
	// performance recommendations by normalized question text
	byQuestion map[string]map[string]string
}

func New(cat *catalog.Catalog) *Selector {
	s := &Selector{cat: cat, byQuestion: map[string]map[string]string{}}
	for _, r := range cat.PerformanceRecommendations {
		key := catalog.NormalizeQuestion(r.Question)
		// first entry wins, as a linear scan would
		if _, dup := s.byQuestion[key]; !dup {
			s.byQuestion[key] = r.Recommendations
		}
	}
	return s
}

//
// For returns the recommendation for area at orgScore within theme.
//
// Source-To-Pay areas are looked up directly. Procurement Performance
// areas go through the question bank: the first question of the area
// gives the question text, which keys the recommendations table.
// Any miss yields NoRecommendation.
//
func (s *Selector) For(area string, orgScore float64, theme string) string {
	key := strconv.Itoa(maturity.ScoreKey(orgScore))

	var table map[string]string
	switch theme {
	case model.SourceToPay:
		table = s.cat.AreaRecommendations[area]
	case model.ProcurementPerformance:
		table = s.performanceTable(area)
	}
	if text, ok := table[key]; ok && text != "" {
		return text
	}
	return NoRecommendation
}

func (s *Selector) performanceTable(area string) map[string]string {
	for _, q := range s.cat.Performance {
		if q.FocusArea == area {
			return s.byQuestion[catalog.NormalizeQuestion(q.Question)]
		}
	}
	return nil
}

//
// ThemeRecommendation is the fixed theme-level advice shown in
// combined mode.
//
func ThemeRecommendation(theme string) string {
	switch theme {
	case model.SourceToPay:
		return "Implement end-to-end process automation and supplier collaboration tools"
	case model.ProcurementPerformance:
		return "Establish comprehensive performance metrics and real-time dashboards"
	default:
		return "Focus on strategic alignment and digital transformation initiatives"
	}
}

//
// Check lists every (theme, area, score) that would fall back to
// NoRecommendation. The question bank and the recommendation tables
// are authored separately and joined on free text, so drift shows up
// here rather than as silent fallbacks.
//
func (s *Selector) Check() []string {
	var problems []string
	check := func(theme string, areas []string) {
		for _, area := range areas {
			for score := 1; score <= 5; score++ {
				if s.For(area, float64(score), theme) == NoRecommendation {
					problems = append(problems, theme+" / "+area+" / "+strconv.Itoa(score))
				}
			}
		}
	}
	check(model.SourceToPay, s.cat.FocusedAreas)
	check(model.ProcurementPerformance, s.cat.PerformanceAreas())
	return problems
}

// LogCheck runs Check and warns about each unresolved lookup.
func (s *Selector) LogCheck() int {
	problems := s.Check()
	for _, p := range problems {
		log.Warnf("no static recommendation for %s", p)
	}
	return len(problems)
}
