package catalog

import (
	"encoding/json"
	"io/fs"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// ErrInvalidCatalog is the cause of every load failure.
var ErrInvalidCatalog = errors.New("invalid catalog")

//
// Load reads and validates every catalog resource from fsys.
//
// object-keyed resources (areas, performance questions) are walked with
// gjson so that catalog order is the document order.
//
func Load(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{
		SourceToPay:         map[string][]Question{},
		AreaRecommendations: map[string]map[string]string{},
	}

	loaders := []struct {
		file string
		fn   func(*Catalog, gjson.Result) error
	}{
		{ThemesFile, loadThemes},
		{SourceToPayFile, loadSourceToPay},
		{SourceToPayRecommendationsFile, loadAreaRecommendations},
		{PerformanceQuestionsFile, loadPerformance},
		{PerformanceRecommendationsFile, loadPerformanceRecommendations},
	}
	for _, l := range loaders {
		doc, err := readDocument(fsys, l.file)
		if err != nil {
			return nil, err
		}
		if err := l.fn(c, doc); err != nil {
			return nil, errors.Wrap(err, l.file)
		}
	}
	return c, nil
}

func readDocument(fsys fs.FS, name string) (gjson.Result, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return gjson.Result{}, errors.Wrapf(ErrInvalidCatalog, "cannot read %s: %v", name, err)
	}
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, errors.Wrapf(ErrInvalidCatalog, "%s is not valid json", name)
	}
	return gjson.ParseBytes(raw), nil
}

func invalid(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidCatalog, format, args...)
}

func loadThemes(c *Catalog, doc gjson.Result) error {
	themes := doc.Get("themes")
	if !themes.IsArray() || len(themes.Array()) == 0 {
		return invalid("no themes defined")
	}
	for _, t := range themes.Array() {
		th := Theme{
			Name:        t.Get("name").String(),
			Status:      t.Get("status").String(),
			Description: t.Get("description").String(),
		}
		if th.Name == "" {
			return invalid("theme without a name")
		}
		if th.Status != StatusActive && th.Status != StatusUnderDevelopment {
			return invalid("theme %q has unknown status %q", th.Name, th.Status)
		}
		c.Themes = append(c.Themes, th)
	}
	return nil
}

func loadSourceToPay(c *Catalog, doc gjson.Result) error {
	if !doc.IsObject() {
		return invalid("focused areas must be an object keyed by area")
	}
	var err error
	doc.ForEach(func(key, value gjson.Result) bool {
		area := key.String()
		var qs []Question
		if e := json.Unmarshal([]byte(value.Raw), &qs); e != nil {
			err = invalid("area %q: %v", area, e)
			return false
		}
		if len(qs) == 0 {
			err = invalid("area %q has no questions", area)
			return false
		}
		for _, q := range qs {
			if e := validateQuestion(q); e != nil {
				err = errors.Wrapf(e, "area %q", area)
				return false
			}
		}
		c.FocusedAreas = append(c.FocusedAreas, area)
		c.SourceToPay[area] = qs
		return true
	})
	if err != nil {
		return err
	}
	if len(c.FocusedAreas) == 0 {
		return invalid("no focused areas defined")
	}
	return nil
}

func validateQuestion(q Question) error {
	if q.Question == "" {
		return invalid("question %d has no text", q.Number)
	}
	if len(q.Responses) == 0 {
		return invalid("question %d has no responses", q.Number)
	}
	seen := map[int]bool{}
	for _, r := range q.Responses {
		if r.Score < 1 || r.Score > 5 {
			return invalid("question %d: score %d outside 1..5", q.Number, r.Score)
		}
		if seen[r.Score] {
			return invalid("question %d: duplicate score %d", q.Number, r.Score)
		}
		if r.Text == "" {
			return invalid("question %d: empty response text", q.Number)
		}
		seen[r.Score] = true
	}
	return nil
}

func loadAreaRecommendations(c *Catalog, doc gjson.Result) error {
	if !doc.IsObject() {
		return invalid("recommendations must be an object keyed by area")
	}
	if err := json.Unmarshal([]byte(doc.Raw), &c.AreaRecommendations); err != nil {
		return invalid("%v", err)
	}
	return nil
}

func loadPerformance(c *Catalog, doc gjson.Result) error {
	questions := doc.Get("questions")
	if !questions.IsObject() {
		return invalid("questions must be an object keyed by question id")
	}
	var err error
	questions.ForEach(func(key, value gjson.Result) bool {
		q := PerformanceQuestion{
			ID:        key.String(),
			Question:  value.Get("question").String(),
			FocusArea: value.Get("focus_area").String(),
		}
		for _, o := range value.Get("options").Array() {
			q.Options = append(q.Options, o.String())
		}
		switch {
		case q.Question == "":
			err = invalid("question %s has no text", q.ID)
		case q.FocusArea == "":
			err = invalid("question %s has no focus_area", q.ID)
		case len(q.Options) == 0 || len(q.Options) > 5:
			// option position is the score, so at most five
			err = invalid("question %s must have 1 to 5 options, has %d", q.ID, len(q.Options))
		}
		if err != nil {
			return false
		}
		c.Performance = append(c.Performance, q)
		return true
	})
	if err != nil {
		return err
	}
	if len(c.Performance) == 0 {
		return invalid("no performance questions defined")
	}
	return nil
}

func loadPerformanceRecommendations(c *Catalog, doc gjson.Result) error {
	questions := doc.Get("questions")
	if !questions.IsObject() {
		return invalid("questions must be an object")
	}
	var err error
	questions.ForEach(func(key, value gjson.Result) bool {
		rec := QuestionRecommendations{
			Key:             key.String(),
			Question:        value.Get("question").String(),
			Recommendations: map[string]string{},
		}
		if rec.Question == "" {
			err = invalid("recommendation %s has no question text", rec.Key)
			return false
		}
		value.Get("recommendations").ForEach(func(score, text gjson.Result) bool {
			rec.Recommendations[score.String()] = text.String()
			return true
		})
		c.PerformanceRecommendations = append(c.PerformanceRecommendations, rec)
		return true
	})
	return err
}
