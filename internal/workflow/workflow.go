//
// Package workflow is the assessment session state machine:
//
//	UserInfo -> ThemeSelection -> [FocusedAreaSelection] -> Assessment
//	         -> Confirmation -> Results
//
// Focused-area selection only happens when the Source-To-Pay Process
// theme is assessed on its own. From any later stage a user can go back
// to ThemeSelection, or home to UserInfo.
//
// Sessions are not safe for concurrent use; the owner serializes access.
//
package workflow

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/nsip/procurement-maturity/internal/catalog"
	"github.com/nsip/procurement-maturity/internal/model"
)

type Stage string

const (
	UserInfo             Stage = "user_info"
	ThemeSelection       Stage = "theme_selection"
	FocusedAreaSelection Stage = "focused_area_selection"
	Assessment           Stage = "assessment"
	Confirmation         Stage = "confirmation"
	Results              Stage = "results"
)

// ErrInvalidTransition is the cause of every rejected action.
var ErrInvalidTransition = errors.New("invalid workflow transition")

type Session struct {
	ID     string          `json:"id"`
	Stage  Stage           `json:"stage"`
	User   model.UserInfo  `json:"user"`
	Themes []string        `json:"themes"`
	Areas  []string        `json:"areas,omitempty"`
	// Combined is set when more than one theme is selected.
	Combined bool             `json:"combined"`
	Answers  []model.Response `json:"answers"`
	// answered item keys, parallel to Answers
	keys []string

	// Record is the user record built on submit.
	Record *model.UserRecord `json:"record,omitempty"`

	cat *catalog.Catalog
}

func New(id string, cat *catalog.Catalog) *Session {
	return &Session{ID: id, Stage: UserInfo, cat: cat}
}

func (s *Session) require(stages ...Stage) error {
	for _, st := range stages {
		if s.Stage == st {
			return nil
		}
	}
	return errors.Wrapf(ErrInvalidTransition, "not allowed in stage %s", s.Stage)
}

// SetUser records identity and moves to theme selection.
func (s *Session) SetUser(info model.UserInfo) error {
	if err := s.require(UserInfo); err != nil {
		return err
	}
	info.Name = strings.TrimSpace(info.Name)
	info.Email = strings.TrimSpace(info.Email)
	info.Organization = strings.TrimSpace(info.Organization)
	info.Designation = strings.TrimSpace(info.Designation)
	if info.Name == "" || info.Email == "" || info.Organization == "" {
		return errors.Wrap(ErrInvalidTransition, "name, email and organization are required")
	}
	s.User = info
	s.Stage = ThemeSelection
	return nil
}

//
// SelectThemes starts an assessment of one or more active themes.
// Selecting only Source-To-Pay Process leads to focused-area selection.
//
func (s *Session) SelectThemes(themes []string) error {
	if err := s.require(ThemeSelection); err != nil {
		return err
	}
	var selected []string
	seen := map[string]bool{}
	for _, t := range themes {
		if seen[t] {
			continue
		}
		if !s.cat.IsActive(t) {
			return errors.Wrapf(ErrInvalidTransition, "theme %q cannot be assessed", t)
		}
		seen[t] = true
		selected = append(selected, t)
	}
	if len(selected) == 0 {
		return errors.Wrap(ErrInvalidTransition, "select at least one theme")
	}

	s.Themes = selected
	s.Combined = len(selected) > 1
	s.Areas = nil
	s.resetAnswers()
	if !s.Combined && selected[0] == model.SourceToPay {
		s.Stage = FocusedAreaSelection
	} else {
		s.Stage = Assessment
	}
	return nil
}

// SelectAreas picks the Source-To-Pay focused areas to assess.
func (s *Session) SelectAreas(areas []string) error {
	if err := s.require(FocusedAreaSelection); err != nil {
		return err
	}
	var selected []string
	seen := map[string]bool{}
	for _, a := range areas {
		if !s.cat.HasFocusedArea(a) {
			return errors.Wrapf(ErrInvalidTransition, "unknown focused area %q", a)
		}
		if !seen[a] {
			seen[a] = true
			selected = append(selected, a)
		}
	}
	if len(selected) == 0 {
		return errors.Wrap(ErrInvalidTransition, "select at least one focused area")
	}
	s.Areas = selected
	s.Stage = Assessment
	return nil
}

// Items is the question list of the current assessment.
func (s *Session) Items() []catalog.Item {
	var out []catalog.Item
	for _, theme := range s.Themes {
		var areas []string
		if theme == model.SourceToPay && !s.Combined {
			areas = s.Areas
		}
		out = append(out, s.cat.Items(theme, areas)...)
	}
	return out
}

// Remaining counts the items not yet answered.
func (s *Session) Remaining() int {
	return len(s.Items()) - len(s.keys)
}

//
// Answer records the selected option of one item; answering an item
// again replaces the earlier answer.
//
func (s *Session) Answer(key, selected string) error {
	if err := s.require(Assessment); err != nil {
		return err
	}
	for _, item := range s.Items() {
		if item.Key != key {
			continue
		}
		score, ok := item.ScoreFor(selected)
		if !ok {
			return errors.Wrapf(ErrInvalidTransition, "%q is not an option of %s", selected, key)
		}
		resp := model.Response{
			Theme:        item.Theme,
			Area:         item.Area,
			Question:     item.Question,
			SelectedText: selected,
			Score:        score,
		}
		for i, k := range s.keys {
			if k == key {
				s.Answers[i] = resp
				return nil
			}
		}
		s.keys = append(s.keys, key)
		s.Answers = append(s.Answers, resp)
		return nil
	}
	return errors.Wrapf(ErrInvalidTransition, "unknown question %s", key)
}

//
// Submit builds the user record once every item is answered and moves
// to confirmation. The caller saves the record.
//
func (s *Session) Submit(now time.Time) (model.UserRecord, error) {
	if err := s.require(Assessment); err != nil {
		return model.UserRecord{}, err
	}
	if n := s.Remaining(); n > 0 {
		return model.UserRecord{}, errors.Wrapf(ErrInvalidTransition, "%d questions unanswered", n)
	}
	theme := model.CombinedAssessment
	if !s.Combined {
		theme = s.Themes[0]
	}
	info := s.User
	rec := model.UserRecord{
		Name:        info.Name,
		Email:       info.Email,
		Designation: info.Designation,
		Theme:       theme,
		Responses:   append([]model.Response(nil), s.Answers...),
		Timestamp:   now,
		UserInfo:    &info,
	}
	s.Record = &rec
	s.Stage = Confirmation
	return rec, nil
}

// Reopen undoes Submit, keeping the answers, when the record could not
// be saved.
func (s *Session) Reopen() error {
	if err := s.require(Confirmation); err != nil {
		return err
	}
	s.Record = nil
	s.Stage = Assessment
	return nil
}

func (s *Session) ViewResults() error {
	if err := s.require(Confirmation, Results); err != nil {
		return err
	}
	s.Stage = Results
	return nil
}

// BackToThemes discards the current assessment and returns to theme
// selection.
func (s *Session) BackToThemes() error {
	if err := s.require(FocusedAreaSelection, Assessment, Confirmation, Results); err != nil {
		return err
	}
	s.Themes = nil
	s.Areas = nil
	s.Combined = false
	s.resetAnswers()
	s.Record = nil
	s.Stage = ThemeSelection
	return nil
}

// Home returns to the first stage; the entered identity is kept as a
// default but must be confirmed again.
func (s *Session) Home() {
	s.Themes = nil
	s.Areas = nil
	s.Combined = false
	s.resetAnswers()
	s.Record = nil
	s.Stage = UserInfo
}

func (s *Session) resetAnswers() {
	s.Answers = nil
	s.keys = nil
}
