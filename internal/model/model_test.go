package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplaceUser(t *testing.T) {
	org := &Organization{Name: "Acme"}

	org.ReplaceUser(UserRecord{Name: "Ann", Email: "ann@acme.test", Theme: SourceToPay})
	org.ReplaceUser(UserRecord{Name: "Bob", Email: "bob@acme.test", Theme: SourceToPay})
	org.ReplaceUser(UserRecord{Name: "Ann B", Email: " ANN@acme.test", Theme: ProcurementPerformance})

	assert.Equal(t, 2, org.Participants())
	assert.Equal(t, "Bob", org.Users[0].Name)
	// the resubmitted record goes to the end
	assert.Equal(t, "Ann B", org.Users[1].Name)
	assert.Equal(t, ProcurementPerformance, org.Users[1].Theme)
}

func TestParticipantsNil(t *testing.T) {
	var org *Organization
	assert.Equal(t, 0, org.Participants())
}

func TestResponsesFor(t *testing.T) {
	single := UserRecord{
		Theme: SourceToPay,
		Responses: []Response{
			{Theme: SourceToPay, Area: "Strategic Sourcing", Score: 4},
		},
	}
	assert.Len(t, single.ResponsesFor(SourceToPay), 1)
	assert.Empty(t, single.ResponsesFor(ProcurementPerformance))

	combined := UserRecord{
		Theme: CombinedAssessment,
		Responses: []Response{
			{Theme: SourceToPay, Area: "Payment Process", Score: 5},
			{Theme: ProcurementPerformance, Area: "Reporting", Score: 2},
			{Theme: ProcurementPerformance, Area: "Savings Tracking", Score: 3},
		},
	}
	assert.Len(t, combined.ResponsesFor(SourceToPay), 1)
	assert.Len(t, combined.ResponsesFor(ProcurementPerformance), 2)
	assert.Empty(t, combined.ResponsesFor(CombinedAssessment))
}
