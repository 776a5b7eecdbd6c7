//
// Package catalog holds the static assessment content: themes, the
// focused-area question bank of the Source-To-Pay Process theme, the
// question bank of the Procurement Performance theme, and the two
// recommendation tables.
//
// The catalog is loaded once at startup and never modified; a missing
// or malformed resource is fatal.
//
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/nsip/procurement-maturity/internal/model"
)

//go:embed data/*.json
var embedded embed.FS

// resource file names, relative to the catalog directory
const (
	ThemesFile                     = "themes.json"
	SourceToPayFile                = "source_to_pay.json"
	SourceToPayRecommendationsFile = "source_to_pay_recommendations.json"
	PerformanceQuestionsFile       = "performance_questions.json"
	PerformanceRecommendationsFile = "performance_recommendations.json"
)

const (
	StatusActive           = "active"
	StatusUnderDevelopment = "under_development"
)

type Theme struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

func (t Theme) Active() bool {
	return t.Status == StatusActive
}

// Option is one scored response choice.
type Option struct {
	Score int    `json:"score"`
	Text  string `json:"text"`
}

//
// a Source-To-Pay question: scored options authored explicitly.
//
type Question struct {
	Number    int      `json:"number"`
	Question  string   `json:"question"`
	Responses []Option `json:"responses"`
}

//
// a Procurement Performance question: plain option list, where the
// score of an option is its 1-based position.
//
type PerformanceQuestion struct {
	ID        string   `json:"id"`
	Question  string   `json:"question"`
	FocusArea string   `json:"focus_area"`
	Options   []string `json:"options"`
}

//
// recommendations for one performance question, keyed by the
// stringified integer score "1".."5".
//
type QuestionRecommendations struct {
	Key             string            `json:"key"`
	Question        string            `json:"question"`
	Recommendations map[string]string `json:"recommendations"`
}

type Catalog struct {
	Themes []Theme
	// FocusedAreas is the Source-To-Pay area names in catalog order.
	FocusedAreas []string
	SourceToPay  map[string][]Question
	// AreaRecommendations is keyed by focused area, then score key.
	AreaRecommendations map[string]map[string]string
	// Performance is the performance question bank in catalog order.
	Performance                []PerformanceQuestion
	PerformanceRecommendations []QuestionRecommendations
}

// Theme looks up a theme by name.
func (c *Catalog) Theme(name string) (Theme, bool) {
	for _, t := range c.Themes {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

func (c *Catalog) IsActive(name string) bool {
	t, ok := c.Theme(name)
	return ok && t.Active()
}

// HasFocusedArea reports whether area is a Source-To-Pay focused area.
func (c *Catalog) HasFocusedArea(area string) bool {
	_, ok := c.SourceToPay[area]
	return ok
}

// PerformanceAreas lists the distinct performance focus areas in
// catalog order.
func (c *Catalog) PerformanceAreas() []string {
	var out []string
	seen := map[string]bool{}
	for _, q := range c.Performance {
		if !seen[q.FocusArea] {
			seen[q.FocusArea] = true
			out = append(out, q.FocusArea)
		}
	}
	return out
}

//
// one answerable question, in the same shape for both themes.
//
type Item struct {
	Key      string   `json:"key"`
	Theme    string   `json:"theme"`
	Area     string   `json:"area"`
	Number   int      `json:"number"`
	Question string   `json:"question"`
	Options  []Option `json:"options"`
}

// ScoreFor returns the score of the option whose text is selected.
func (i Item) ScoreFor(selected string) (int, bool) {
	for _, o := range i.Options {
		if o.Text == selected {
			return o.Score, true
		}
	}
	return 0, false
}

//
// Items returns the questions to ask for theme. For Source-To-Pay only
// the given focused areas are included, or all of them when areas is
// empty. Unknown or inactive themes give no items.
//
func (c *Catalog) Items(theme string, areas []string) []Item {
	var out []Item
	switch theme {
	case model.SourceToPay:
		if len(areas) == 0 {
			areas = c.FocusedAreas
		}
		for _, area := range areas {
			for _, q := range c.SourceToPay[area] {
				out = append(out, Item{
					Key:      fmt.Sprintf("stp/%s/%d", area, q.Number),
					Theme:    theme,
					Area:     area,
					Number:   q.Number,
					Question: q.Question,
					Options:  q.Responses,
				})
			}
		}
	case model.ProcurementPerformance:
		for n, q := range c.Performance {
			opts := make([]Option, len(q.Options))
			for i, text := range q.Options {
				opts[i] = Option{Score: i + 1, Text: text}
			}
			out = append(out, Item{
				Key:      "perf/" + q.ID,
				Theme:    theme,
				Area:     q.FocusArea,
				Number:   n + 1,
				Question: q.Question,
				Options:  opts,
			})
		}
	}
	return out
}

// NormalizeQuestion is the join key between the question bank and the
// performance recommendations table.
func NormalizeQuestion(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Embedded returns the catalog content compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		// embed paths are fixed at build time
		panic(err)
	}
	return sub
}
