//
// Package report composes the results an organization sees after an
// assessment: its maturity scores next to the industry benchmarks, the
// gap between them, maturity labels, the static recommendations and
// the generated ones.
//
package report

import (
	"context"
	"sort"
	"time"

	"github.com/nsip/procurement-maturity/internal/advisor"
	"github.com/nsip/procurement-maturity/internal/benchmark"
	"github.com/nsip/procurement-maturity/internal/catalog"
	"github.com/nsip/procurement-maturity/internal/ingest"
	"github.com/nsip/procurement-maturity/internal/maturity"
	"github.com/nsip/procurement-maturity/internal/model"
	"github.com/nsip/procurement-maturity/internal/recommend"
	"github.com/nsip/procurement-maturity/internal/util"
)

const (
	StatusOK           = "ok"
	StatusInsufficient = "insufficient_data"

	InsufficientMessage = "No organizational data available for comparison. Encourage more colleagues to participate to see your organization's overall maturity!"
	NoRolesMessage      = "No role information available for action item generation. Designations weren't collected from participants."
)

//
// one scored row: a focused area in a single-theme report, a theme in
// a combined one.
//
type Row struct {
	Name           string         `json:"name"`
	Score          float64        `json:"score"`
	Benchmark      float64        `json:"benchmark"`
	Gap            float64        `json:"gap"`
	Label          maturity.Label `json:"label"`
	Recommendation string         `json:"recommendation"`
	Suggestions    string         `json:"suggestions"`
}

type Report struct {
	Organization string `json:"organization"`
	Theme        string `json:"theme"`
	Combined     bool   `json:"combined"`
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`

	Overall         float64        `json:"overall"`
	Label           maturity.Label `json:"label,omitempty"`
	IndustryAverage float64        `json:"industry_average"`
	Gap             float64        `json:"gap"`
	Participants    int            `json:"participants"`
	Responses       int            `json:"responses"`

	Rows        []Row    `json:"rows,omitempty"`
	Sources     []string `json:"sources,omitempty"`
	Holistic    string   `json:"holistic,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	RoleActions string   `json:"role_actions,omitempty"`

	// Detailed holds the submitting user's own answers, when known.
	Detailed []model.Response `json:"detailed,omitempty"`
}

type Builder struct {
	cat   *catalog.Catalog
	bench *benchmark.Table
	rec   *recommend.Selector
	adv   advisor.Advisor
}

// NewBuilder returns a report builder; a nil advisor disables
// generated recommendations.
func NewBuilder(cat *catalog.Catalog, bench *benchmark.Table, rec *recommend.Selector, adv advisor.Advisor) *Builder {
	if adv == nil {
		adv = advisor.Disabled{}
	}
	return &Builder{cat: cat, bench: bench, rec: rec, adv: adv}
}

//
// Organization reports on org for theme. The Combined Assessment
// pseudo-theme pools every user's answers across the active themes.
//
func (b *Builder) Organization(ctx context.Context, orgName string, org *model.Organization, theme string) *Report {
	if theme != model.CombinedAssessment {
		return b.SingleTheme(ctx, orgName, org, theme)
	}
	var themes []string
	for _, t := range b.cat.Themes {
		if t.Active() {
			themes = append(themes, t.Name)
		}
	}
	var responses []model.Response
	if org != nil {
		for _, u := range org.Users {
			for _, t := range themes {
				responses = append(responses, u.ResponsesFor(t)...)
			}
		}
	}
	return b.Combined(ctx, orgName, org, responses, themes)
}

//
// SingleTheme compares each focused area of the organization with its
// benchmark. With no organizational data for theme the report only
// carries StatusInsufficient.
//
func (b *Builder) SingleTheme(ctx context.Context, orgName string, org *model.Organization, theme string) *Report {
	defer util.TimeTrack(time.Now(), "single-theme report")

	r := &Report{
		Organization: orgName,
		Theme:        theme,
		Participants: org.Participants(),
	}
	sum, ok := maturity.AggregateOrganization(org, theme)
	if !ok {
		r.Status = StatusInsufficient
		r.Message = InsufficientMessage
		return r
	}

	r.Status = StatusOK
	r.Overall = sum.Overall
	r.Label = maturity.LabelFor(sum.Overall)
	r.Responses = sum.Responses
	r.Sources = b.bench.Sources

	avg := b.bench.AreaAverage(theme)
	gap := sum.Overall - avg
	r.IndustryAverage = maturity.Round1(avg)
	r.Gap = maturity.Round1(gap)

	for _, area := range sum.Areas {
		score := sum.ByArea[area]
		bm := b.bench.ForArea(theme, area)
		r.Rows = append(r.Rows, Row{
			Name:           area,
			Score:          score,
			Benchmark:      bm,
			Gap:            maturity.Round1(score - bm),
			Label:          maturity.LabelFor(score),
			Recommendation: b.rec.For(area, score, theme),
			Suggestions:    b.suggest(ctx, area, score, bm),
		})
	}

	b.advise(ctx, r, org, gap)
	return r
}

//
// Combined reports on several themes at once. Theme scores come from
// responses (normally the submitting user's own answers); participants
// and roles come from org.
//
func (b *Builder) Combined(ctx context.Context, orgName string, org *model.Organization, responses []model.Response, themes []string) *Report {
	defer util.TimeTrack(time.Now(), "combined report")

	r := &Report{
		Organization: orgName,
		Theme:        model.CombinedAssessment,
		Combined:     true,
		Participants: org.Participants(),
	}
	scores := maturity.ThemeScores(responses, themes)
	if len(scores) == 0 {
		r.Status = StatusInsufficient
		r.Message = InsufficientMessage
		return r
	}

	r.Status = StatusOK
	r.Overall = maturity.CombinedOverall(scores)
	r.Label = maturity.LabelFor(r.Overall)
	r.Sources = b.bench.Sources

	benchmarks := map[string]float64{}
	for theme := range scores {
		benchmarks[theme] = b.bench.ForTheme(theme)
	}
	r.IndustryAverage = maturity.CombinedOverall(benchmarks)
	gap := r.Overall - r.IndustryAverage
	r.Gap = maturity.Round1(gap)

	for _, theme := range themes {
		score, ok := scores[theme]
		if !ok {
			continue
		}
		r.Responses += countTheme(responses, theme)
		bm := benchmarks[theme]
		r.Rows = append(r.Rows, Row{
			Name:           theme,
			Score:          score,
			Benchmark:      bm,
			Gap:            maturity.Round1(score - bm),
			Label:          maturity.LabelFor(score),
			Recommendation: recommend.ThemeRecommendation(theme),
			Suggestions:    b.suggest(ctx, theme, score, bm),
		})
	}

	b.advise(ctx, r, org, gap)
	return r
}

// advise adds the holistic and role-specific generated text.
func (b *Builder) advise(ctx context.Context, r *Report, org *model.Organization, gap float64) {
	r.Holistic = advisor.Advise(ctx, b.adv, advisor.HolisticPrompt(r.Overall, gap))
	r.Roles = ingest.Roles(org)
	if len(r.Roles) == 0 {
		r.RoleActions = NoRolesMessage
		return
	}
	r.RoleActions = advisor.Advise(ctx, b.adv, advisor.RolePrompt(r.Roles, advisor.GapMagnitude(gap)))
}

func (b *Builder) suggest(ctx context.Context, topic string, score, bm float64) string {
	if !b.adv.Enabled() {
		return advisor.DisabledNotice
	}
	return advisor.Advise(ctx, b.adv, advisor.TopicPrompt(topic, score, bm))
}

func countTheme(responses []model.Response, theme string) int {
	n := 0
	for _, r := range responses {
		if r.Theme == theme {
			n++
		}
	}
	return n
}

// Themes lists the themes present in responses in catalog order.
func (b *Builder) Themes(responses []model.Response) []string {
	present := map[string]bool{}
	for _, r := range responses {
		present[r.Theme] = true
	}
	var out []string
	for _, t := range b.cat.Themes {
		if present[t.Name] {
			out = append(out, t.Name)
			delete(present, t.Name)
		}
	}
	// themes the catalog does not know, in name order
	var rest []string
	for t := range present {
		rest = append(rest, t)
	}
	sort.Strings(rest)
	return append(out, rest...)
}
