package advisor

import (
	"fmt"
	"math"
	"strings"
)

// HolisticPrompt asks for organization-wide priorities given the
// overall score and the gap to the industry average.
func HolisticPrompt(overall, gap float64) string {
	return fmt.Sprintf(`As a procurement consultant, provide holistic recommendations for an organization
with overall procurement maturity at %.1f/5.0.

The organization is %.1f points below industry standard.
Focus on strategic priorities that would have the most significant impact on
improving overall procurement maturity. Include both short-term quick wins and
long-term transformation initiatives.`, overall, math.Abs(gap))
}

// RolePrompt asks for concrete actions per participant role.
func RolePrompt(roles []string, gapMagnitude float64) string {
	return fmt.Sprintf(`Generate specific action items for different roles in procurement to improve
procurement maturity. Current maturity gap: %.1f below industry standard.

Roles: %s

For each role, provide 2-3 concrete, executable action items that align with
their responsibilities and will contribute to improving overall procurement maturity.`,
		gapMagnitude, strings.Join(roles, ", "))
}

// TopicPrompt asks for improvements to one theme or focused area.
func TopicPrompt(topic string, score, benchmark float64) string {
	return fmt.Sprintf(`As a procurement consultant, provide recommendations for improving the %s capability.
The organization's current maturity level is %.1f/5.0 (industry benchmark: %.1f/5.0).
Focus on strategic priorities that would have the most significant impact.
Provide 2-3 actionable recommendations.`, topic, score, benchmark)
}

// GapMagnitude is the gap passed to role prompts: the shortfall when
// behind the industry, otherwise a nominal half point.
func GapMagnitude(gap float64) float64 {
	if gap < 0 {
		return math.Abs(gap)
	}
	return 0.5
}
