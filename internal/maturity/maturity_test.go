package maturity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsip/procurement-maturity/internal/model"
)

func stp(area string, score int) model.Response {
	return model.Response{Theme: model.SourceToPay, Area: area, Score: score}
}

func perf(area string, score int) model.Response {
	return model.Response{Theme: model.ProcurementPerformance, Area: area, Score: score}
}

func TestAggregateOrganizationAcme(t *testing.T) {
	org := &model.Organization{
		Name: "Acme",
		Users: []model.UserRecord{
			{Email: "a@acme.test", Theme: model.SourceToPay, Responses: []model.Response{
				stp("Strategic Sourcing", 4), stp("Payment Process", 5),
			}},
			{Email: "b@acme.test", Theme: model.SourceToPay, Responses: []model.Response{
				stp("Strategic Sourcing", 2), stp("Payment Process", 5),
			}},
		},
	}

	sum, ok := AggregateOrganization(org, model.SourceToPay)
	require.True(t, ok)
	assert.Equal(t, map[string]float64{"Strategic Sourcing": 3.0, "Payment Process": 5.0}, sum.ByArea)
	assert.Equal(t, 4.0, sum.Overall)
	assert.Equal(t, []string{"Strategic Sourcing", "Payment Process"}, sum.Areas)
	assert.Equal(t, 4, sum.Responses)
}

func TestAggregateOrganizationAbsent(t *testing.T) {
	_, ok := AggregateOrganization(nil, model.SourceToPay)
	assert.False(t, ok)

	_, ok = AggregateOrganization(&model.Organization{Name: "Empty"}, model.SourceToPay)
	assert.False(t, ok)

	org := &model.Organization{Users: []model.UserRecord{
		{Email: "a@x.test", Theme: model.ProcurementPerformance, Responses: []model.Response{perf("Reporting", 3)}},
	}}
	_, ok = AggregateOrganization(org, model.SourceToPay)
	assert.False(t, ok)
}

func TestAggregateOrganizationMixesCombinedRecords(t *testing.T) {
	org := &model.Organization{Users: []model.UserRecord{
		{Email: "a@x.test", Theme: model.ProcurementPerformance, Responses: []model.Response{
			perf("Reporting", 4), perf("Savings Tracking", 2),
		}},
		{Email: "b@x.test", Theme: model.CombinedAssessment, Responses: []model.Response{
			stp("Strategic Sourcing", 1),
			perf("Reporting", 5),
		}},
	}}

	sum, ok := AggregateOrganization(org, model.ProcurementPerformance)
	require.True(t, ok)
	assert.Equal(t, 4.5, sum.ByArea["Reporting"])
	assert.Equal(t, 2.0, sum.ByArea["Savings Tracking"])
	// (4+2+5)/3 = 3.666..
	assert.Equal(t, 3.7, sum.Overall)
	assert.NotContains(t, sum.ByArea, "Strategic Sourcing")

	sum, ok = AggregateOrganization(org, model.SourceToPay)
	require.True(t, ok)
	assert.Equal(t, 1.0, sum.Overall)
}

func TestAggregateOrganizationBounds(t *testing.T) {
	org := &model.Organization{}
	for i := 0; i < 40; i++ {
		org.Users = append(org.Users, model.UserRecord{
			Email: string(rune('a'+i%26)) + "@x.test" + string(rune('0'+i/26)),
			Theme: model.SourceToPay,
			Responses: []model.Response{
				stp("Strategic Sourcing", 1+i%5),
				stp("Category Management", 5-i%5),
			},
		})
	}
	sum, ok := AggregateOrganization(org, model.SourceToPay)
	require.True(t, ok)
	assert.GreaterOrEqual(t, sum.Overall, 1.0)
	assert.LessOrEqual(t, sum.Overall, 5.0)
	for _, v := range sum.ByArea {
		assert.GreaterOrEqual(t, v, 1.0)
		assert.LessOrEqual(t, v, 5.0)
	}
}

func TestScoreTheme(t *testing.T) {
	responses := []model.Response{stp("Strategic Sourcing", 4), stp("Payment Process", 3), perf("Reporting", 1)}

	assert.Equal(t, 3.5, ScoreTheme(responses, model.SourceToPay))
	assert.Equal(t, 1.0, ScoreTheme(responses, model.ProcurementPerformance))
	assert.Equal(t, 0.0, ScoreTheme(responses, model.StrategyAndVision))
	assert.Equal(t, 0.0, ScoreTheme(nil, model.SourceToPay))
}

func TestCombinedOverallIsMeanOfThemeMeans(t *testing.T) {
	responses := []model.Response{
		stp("Strategic Sourcing", 4), stp("Payment Process", 4),
		perf("Reporting", 2),
	}
	scores := ThemeScores(responses, []string{model.SourceToPay, model.ProcurementPerformance, model.StrategyAndVision})
	assert.Equal(t, map[string]float64{model.SourceToPay: 4.0, model.ProcurementPerformance: 2.0}, scores)

	assert.Equal(t, 3.0, CombinedOverall(scores))
	// flattening the three raw scores would give 3.3
	assert.Equal(t, 3.3, meanOf([]int{4, 4, 2}))
	assert.Equal(t, 0.0, CombinedOverall(nil))
}

func TestRounding(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   float64
	}{
		{"exact", []int{3, 3}, 3.0},
		{"even split", []int{3, 4, 3, 4, 3, 4, 3, 4, 3, 4, 3, 4, 3, 4, 3, 4, 3, 4, 3, 4}, 3.5},
		// 49/20 = 2.45
		{"x.x5 tie rounds up", []int{2, 2, 3, 2, 3, 2, 3, 2, 3, 2, 3, 2, 3, 2, 3, 2, 3, 2, 3, 2}, 2.5},
		{"thirds", []int{1, 1, 2}, 1.3},
		{"two thirds", []int{1, 2, 2}, 1.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, meanOf(tt.scores))
		})
	}

	assert.Equal(t, 3.4, Round1(3.35))
	assert.Equal(t, 3.4, Round1((3.2+3.5)/2))
	assert.Equal(t, 2.0, Round1(1.95))
}

func TestScoreKey(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{0.3, 1},
		{-4, 1},
		{1.49, 1},
		{2.5, 3},
		{3.2, 3},
		{4.6, 5},
		{5.3, 5},
		{5.9, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScoreKey(tt.score), "score %v", tt.score)
	}
}

func TestLabelFor(t *testing.T) {
	tests := []struct {
		score float64
		want  Label
	}{
		{0, Latent},
		{0.99, Latent},
		{1.0, Discovery},
		{2.0, Reactive},
		{2.99, Reactive},
		{3.0, Proactive},
		{3.999, Proactive},
		{4.0, StrategicValue},
		{4.999, StrategicValue},
		{5.0, StrategicValue},
		{-1, Unknown},
		{5.01, Unknown},
		{6, Unknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LabelFor(tt.score), "score %v", tt.score)
	}
}
