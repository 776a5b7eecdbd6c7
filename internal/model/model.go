package model

import (
	"strings"
	"time"
)

// Theme names used across the catalog, benchmarks and stored records.
const (
	SourceToPay            = "Source-To-Pay Process"
	ProcurementPerformance = "Procurement Performance"
	StrategyAndVision      = "Strategy and Vision"
	PeopleAndOrganization  = "People and Organization"
	TechnologyAndEnablers  = "Technology and Enablers"

	// CombinedAssessment marks a user record spanning several themes;
	// each of its responses carries its own theme.
	CombinedAssessment = "Combined Assessment"
)

//
// one user's selected option for one question, in canonical shape.
// the raw focused_area / focus_area attribute is folded into Area
// at ingestion.
//
type Response struct {
	Theme        string `json:"theme"`
	Area         string `json:"area"`
	Question     string `json:"question"`
	SelectedText string `json:"selected_text"`
	Score        int    `json:"score"`
}

// UserInfo is the identity block captured on the first workflow stage.
type UserInfo struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Designation  string `json:"designation,omitempty"`
	Organization string `json:"organization"`
}

type UserRecord struct {
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Designation string     `json:"designation"`
	Theme       string     `json:"theme"`
	Responses   []Response `json:"responses"`
	Timestamp   time.Time  `json:"timestamp"`
	UserInfo    *UserInfo  `json:"user_info,omitempty"`
	// SubmissionID is assigned when the record is saved.
	SubmissionID string `json:"submission_id,omitempty"`
}

//
// all users' submissions for one organization.
// holds at most one UserRecord per email.
//
type Organization struct {
	Name  string       `json:"organization"`
	Users []UserRecord `json:"users"`
}

//
// replace any existing record for the same email, then append.
// email comparison ignores case and surrounding space.
//
func (o *Organization) ReplaceUser(u UserRecord) {
	key := EmailKey(u.Email)
	kept := o.Users[:0]
	for _, existing := range o.Users {
		if EmailKey(existing.Email) != key {
			kept = append(kept, existing)
		}
	}
	o.Users = append(kept, u)
}

// Participants is the number of distinct users that have submitted.
func (o *Organization) Participants() int {
	if o == nil {
		return 0
	}
	return len(o.Users)
}

func EmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ResponsesFor returns the responses of a user record that belong to theme.
func (u UserRecord) ResponsesFor(theme string) []Response {
	if u.Theme != CombinedAssessment {
		if u.Theme != theme {
			return nil
		}
		return u.Responses
	}
	var out []Response
	for _, r := range u.Responses {
		if r.Theme == theme {
			out = append(out, r)
		}
	}
	return out
}
