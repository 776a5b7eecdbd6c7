//
// Package ingest converts raw submission and stored-record json into
// the canonical model shapes.
//
// This is the only place that knows the area attribute is spelled
// focused_area for the Source-To-Pay Process theme and focus_area for
// Procurement Performance, and that the selected option may arrive as
// selected_text or response.
//
package ingest

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/nsip/procurement-maturity/internal/model"
)

// ErrInvalidSubmission is the cause of every rejected submission.
var ErrInvalidSubmission = errors.New("invalid submission")

type Submission struct {
	Organization string
	User         model.UserRecord
}

//
// Parse validates a raw submission:
//
//	{organization, name, email, designation?, user_info?, theme?,
//	 timestamp?, responses: [{theme?, focused_area|focus_area|area,
//	 question, selected_text|response, score}]}
//
// now stamps submissions that carry no timestamp.
//
func Parse(raw []byte, now time.Time) (*Submission, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.Wrap(ErrInvalidSubmission, "body is not valid json")
	}
	doc := gjson.ParseBytes(raw)

	org := strings.TrimSpace(doc.Get("organization").String())
	if org == "" {
		org = strings.TrimSpace(doc.Get("user_info.organization").String())
	}
	if org == "" {
		return nil, errors.Wrap(ErrInvalidSubmission, "organization is required")
	}

	u, err := parseUser(doc, now)
	if err != nil {
		return nil, err
	}
	if u.UserInfo != nil && u.UserInfo.Organization == "" {
		u.UserInfo.Organization = org
	}
	return &Submission{Organization: org, User: u}, nil
}

//
// DecodeOrganization reads a stored organization document, written
// either by this service or by earlier tools using the raw field names.
//
func DecodeOrganization(raw []byte) (*model.Organization, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.New("organization document is not valid json")
	}
	doc := gjson.ParseBytes(raw)
	org := &model.Organization{Name: doc.Get("organization").String()}
	var err error
	doc.Get("users").ForEach(func(_, user gjson.Result) bool {
		var u model.UserRecord
		u, err = parseUser(user, time.Time{})
		if err != nil {
			err = errors.Wrapf(err, "stored user %q", user.Get("email").String())
			return false
		}
		org.Users = append(org.Users, u)
		return true
	})
	if err != nil {
		return nil, err
	}
	return org, nil
}

func parseUser(doc gjson.Result, now time.Time) (model.UserRecord, error) {
	u := model.UserRecord{
		Name:        strings.TrimSpace(doc.Get("name").String()),
		Email:       strings.TrimSpace(doc.Get("email").String()),
		Designation: Designation(doc),
		Theme:       strings.TrimSpace(doc.Get("theme").String()),
		// SubmissionID is only present on stored records
		SubmissionID: doc.Get("submission_id").String(),
	}
	if u.Name == "" || u.Email == "" {
		return u, errors.Wrap(ErrInvalidSubmission, "name and email are required")
	}
	if u.Theme == "" {
		u.Theme = model.CombinedAssessment
	}

	if info := doc.Get("user_info"); info.IsObject() {
		u.UserInfo = &model.UserInfo{
			Name:         info.Get("name").String(),
			Email:        info.Get("email").String(),
			Designation:  info.Get("designation").String(),
			Organization: info.Get("organization").String(),
		}
	}

	ts, err := parseTimestamp(doc.Get("timestamp"), now)
	if err != nil {
		return u, err
	}
	u.Timestamp = ts

	responses := doc.Get("responses")
	if !responses.IsArray() || len(responses.Array()) == 0 {
		return u, errors.Wrap(ErrInvalidSubmission, "at least one response is required")
	}
	for i, r := range responses.Array() {
		resp, err := parseResponse(r, u.Theme)
		if err != nil {
			return u, errors.Wrapf(err, "response %d", i+1)
		}
		u.Responses = append(u.Responses, resp)
	}
	return u, nil
}

//
// areaFields is the lookup order of the area attribute per theme. The
// theme's own spelling comes first; the others follow so that a
// response carrying the other theme's spelling is still grouped
// rather than dropped.
//
func areaFields(theme string) []string {
	switch theme {
	case model.SourceToPay:
		return []string{"area", "focused_area", "focus_area"}
	case model.ProcurementPerformance:
		return []string{"area", "focus_area", "focused_area"}
	default:
		return []string{"area", "focused_area", "focus_area"}
	}
}

func firstString(r gjson.Result, fields ...string) string {
	for _, f := range fields {
		if v := strings.TrimSpace(r.Get(f).String()); v != "" {
			return v
		}
	}
	return ""
}

func parseResponse(r gjson.Result, recordTheme string) (model.Response, error) {
	resp := model.Response{Theme: strings.TrimSpace(r.Get("theme").String())}

	switch {
	case resp.Theme == "" && recordTheme == model.CombinedAssessment:
		return resp, errors.Wrap(ErrInvalidSubmission, "combined assessment responses must carry a theme")
	case resp.Theme == "":
		resp.Theme = recordTheme
	case recordTheme != model.CombinedAssessment && resp.Theme != recordTheme:
		return resp, errors.Wrapf(ErrInvalidSubmission, "response theme %q does not match submission theme %q", resp.Theme, recordTheme)
	}

	resp.Area = firstString(r, areaFields(resp.Theme)...)
	if resp.Area == "" {
		return resp, errors.Wrap(ErrInvalidSubmission, "area is required")
	}
	resp.Question = strings.TrimSpace(r.Get("question").String())
	if resp.Question == "" {
		return resp, errors.Wrap(ErrInvalidSubmission, "question is required")
	}
	resp.SelectedText = firstString(r, "selected_text", "response")

	score := r.Get("score")
	if score.Type != gjson.Number || score.Num != float64(int(score.Num)) {
		return resp, errors.Wrapf(ErrInvalidSubmission, "score %s is not an integer", score.Raw)
	}
	resp.Score = int(score.Num)
	if resp.Score < 1 || resp.Score > 5 {
		return resp, errors.Wrapf(ErrInvalidSubmission, "score %d outside 1..5", resp.Score)
	}
	return resp, nil
}

// accepted timestamp layouts; the second carries no zone, e.g. 2025-07-20T12:30:45.123456
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

func parseTimestamp(v gjson.Result, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(v.String())
	if s == "" {
		return now, nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, errors.Wrapf(ErrInvalidSubmission, "cannot parse timestamp %q", s)
}
