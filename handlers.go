package procmaturity

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/nsip/procurement-maturity/internal/catalog"
	"github.com/nsip/procurement-maturity/internal/export"
	"github.com/nsip/procurement-maturity/internal/ingest"
	"github.com/nsip/procurement-maturity/internal/model"
	"github.com/nsip/procurement-maturity/internal/report"
	"github.com/nsip/procurement-maturity/internal/store"
	"github.com/nsip/procurement-maturity/internal/util"
	"github.com/nsip/procurement-maturity/internal/workflow"
)

//
// map an error to the http error returned to the caller;
// bad input is a 400, anything else a 500.
//
func httpError(err error) error {
	switch errors.Cause(err) {
	case ingest.ErrInvalidSubmission, workflow.ErrInvalidTransition, store.ErrEmptyOrganization:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	log.Errorf("request failed: %v", err)
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

//
// path parameters arrive escaped when they contain a slash
//
func pathParam(c echo.Context, name string) string {
	v := c.Param(name)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func (s *ProcMaturityService) buildThemesHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, s.catalog.Themes)
	}
}

//
// questions of one theme; for Source-To-Pay the focused areas can
// be narrowed with repeated ?area= query params
//
func (s *ProcMaturityService) buildQuestionsHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		theme := pathParam(c, "theme")
		t, ok := s.catalog.Theme(theme)
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown theme %q", theme))
		}
		if !t.Active() {
			return echo.NewHTTPError(http.StatusConflict, fmt.Sprintf("theme %q is %s", theme, t.Status))
		}
		areas := c.QueryParams()["area"]
		for _, a := range areas {
			if !s.catalog.HasFocusedArea(a) {
				return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown focused area %q", a))
			}
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"theme":         t,
			"focused_areas": s.focusedAreas(theme),
			"items":         s.catalog.Items(theme, areas),
		})
	}
}

func (s *ProcMaturityService) focusedAreas(theme string) []string {
	switch theme {
	case model.SourceToPay:
		return s.catalog.FocusedAreas
	case model.ProcurementPerformance:
		return s.catalog.PerformanceAreas()
	}
	return nil
}

func (s *ProcMaturityService) activeThemes() []string {
	var out []string
	for _, t := range s.catalog.Themes {
		if t.Active() {
			out = append(out, t.Name)
		}
	}
	return out
}

func (s *ProcMaturityService) buildBenchmarksHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, s.benchmarks)
	}
}

//
// accepts one user's complete submission, saves it against the
// organization and returns the organization's results
//
func (s *ProcMaturityService) buildSubmissionHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, err := ioutil.ReadAll(c.Request().Body)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		sub, err := ingest.Parse(raw, time.Now().UTC())
		if err != nil {
			return httpError(err)
		}
		sub.User.SubmissionID = util.GenerateID()

		r, err := s.saveAndReport(c, sub.Organization, sub.User)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusCreated, map[string]interface{}{
			"submission_id": sub.User.SubmissionID,
			"report":        r,
		})
	}
}

//
// save the user record, reload the organization with it included
// and build the report for the record's theme
//
func (s *ProcMaturityService) saveAndReport(c echo.Context, orgName string, u model.UserRecord) (*report.Report, error) {
	ctx := c.Request().Context()
	if err := s.store.SaveUser(ctx, orgName, u); err != nil {
		return nil, err
	}
	org, err := s.store.LoadOrganization(ctx, orgName)
	if err != nil {
		return nil, err
	}

	var r *report.Report
	if u.Theme == model.CombinedAssessment {
		r = s.reports.Combined(ctx, orgName, org, u.Responses, s.reports.Themes(u.Responses))
	} else {
		r = s.reports.SingleTheme(ctx, orgName, org, u.Theme)
	}
	r.Detailed = u.Responses
	return r, nil
}

func (s *ProcMaturityService) buildOrganizationsHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		names, err := s.store.Organizations(c.Request().Context())
		if err != nil {
			return httpError(err)
		}
		if names == nil {
			names = []string{}
		}
		return c.JSON(http.StatusOK, names)
	}
}

//
// organization results for ?theme=, which may be the Combined
// Assessment; no data gives a 200 with the insufficient-data status
//
func (s *ProcMaturityService) buildMaturityHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		orgName := pathParam(c, "org")
		theme := c.QueryParam("theme")
		if theme == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "must supply a value for theme")
		}
		if theme != model.CombinedAssessment {
			if _, ok := s.catalog.Theme(theme); !ok {
				return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown theme %q", theme))
			}
		}
		org, err := s.store.LoadOrganization(c.Request().Context(), orgName)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, s.reports.Organization(c.Request().Context(), orgName, org, theme))
	}
}

func (s *ProcMaturityService) buildExportHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		orgName := pathParam(c, "org")
		org, err := s.store.LoadOrganization(c.Request().Context(), orgName)
		if err != nil {
			return httpError(err)
		}
		if org == nil {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("no submissions for %q", orgName))
		}

		f, err := export.Workbook(org, s.activeThemes(), s.benchmarks)
		if err != nil {
			return httpError(err)
		}
		defer f.Close()

		res := c.Response()
		res.Header().Set(echo.HeaderContentType, export.ContentType)
		res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", store.Key(orgName)+".xlsx"))
		res.WriteHeader(http.StatusOK)
		_, err = f.WriteTo(res)
		return err
	}
}

//
// session handlers
//
// every session response carries the session state plus what the
// client needs for the current stage.
//

type sessionView struct {
	Session      *workflow.Session `json:"session"`
	FocusedAreas []string          `json:"focused_areas,omitempty"`
	Items        []catalog.Item    `json:"items,omitempty"`
	Remaining    int               `json:"remaining"`
	Report       *report.Report    `json:"report,omitempty"`
}

func (s *ProcMaturityService) view(ls *liveSession) sessionView {
	v := sessionView{Session: ls.session}
	switch ls.session.Stage {
	case workflow.FocusedAreaSelection:
		v.FocusedAreas = s.catalog.FocusedAreas
	case workflow.Assessment:
		v.Items = ls.session.Items()
		v.Remaining = ls.session.Remaining()
	case workflow.Confirmation, workflow.Results:
		v.Report = ls.report
	}
	return v
}

//
// run fn against the locked session named in the path
//
func (s *ProcMaturityService) withSession(fn func(c echo.Context, ls *liveSession) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		ls, ok := s.sessions.get(c.Param("id"))
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, "no such session")
		}
		ls.Lock()
		defer ls.Unlock()
		if err := fn(c, ls); err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, s.view(ls))
	}
}

func (s *ProcMaturityService) buildStartSessionHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		info := model.UserInfo{}
		if err := c.Bind(&info); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		session := workflow.New(util.GenerateID(), s.catalog)
		if err := session.SetUser(info); err != nil {
			return httpError(err)
		}
		ls := s.sessions.add(session)
		return c.JSON(http.StatusCreated, s.view(ls))
	}
}

// identity again, after going home
func (s *ProcMaturityService) buildSetUserHandler() echo.HandlerFunc {
	return s.withSession(func(c echo.Context, ls *liveSession) error {
		info := model.UserInfo{}
		if err := c.Bind(&info); err != nil {
			return errors.Wrap(workflow.ErrInvalidTransition, err.Error())
		}
		return ls.session.SetUser(info)
	})
}

func (s *ProcMaturityService) buildGetSessionHandler() echo.HandlerFunc {
	return s.withSession(func(c echo.Context, ls *liveSession) error {
		return nil
	})
}

type themesRequest struct {
	Themes []string `json:"themes"`
}

type areasRequest struct {
	Areas []string `json:"areas"`
}

type answerRequest struct {
	Key      string `json:"key"`
	Selected string `json:"selected"`
}

func (s *ProcMaturityService) buildSelectThemesHandler() echo.HandlerFunc {
	return s.withSession(func(c echo.Context, ls *liveSession) error {
		req := themesRequest{}
		if err := c.Bind(&req); err != nil {
			return errors.Wrap(workflow.ErrInvalidTransition, err.Error())
		}
		return ls.session.SelectThemes(req.Themes)
	})
}

func (s *ProcMaturityService) buildSelectAreasHandler() echo.HandlerFunc {
	return s.withSession(func(c echo.Context, ls *liveSession) error {
		req := areasRequest{}
		if err := c.Bind(&req); err != nil {
			return errors.Wrap(workflow.ErrInvalidTransition, err.Error())
		}
		return ls.session.SelectAreas(req.Areas)
	})
}

func (s *ProcMaturityService) buildAnswerHandler() echo.HandlerFunc {
	return s.withSession(func(c echo.Context, ls *liveSession) error {
		req := answerRequest{}
		if err := c.Bind(&req); err != nil {
			return errors.Wrap(workflow.ErrInvalidTransition, err.Error())
		}
		return ls.session.Answer(req.Key, req.Selected)
	})
}

//
// submit saves the finished assessment; a failed save reopens it
// so the answers are not lost
//
func (s *ProcMaturityService) buildSubmitSessionHandler() echo.HandlerFunc {
	return s.withSession(func(c echo.Context, ls *liveSession) error {
		rec, err := ls.session.Submit(time.Now().UTC())
		if err != nil {
			return err
		}
		rec.SubmissionID = util.GenerateID()
		ls.session.Record = &rec

		r, err := s.saveAndReport(c, ls.session.User.Organization, rec)
		if err != nil {
			if rerr := ls.session.Reopen(); rerr != nil {
				log.Warnf("cannot reopen session %s: %v", ls.session.ID, rerr)
			}
			return err
		}
		ls.report = r
		return nil
	})
}

func (s *ProcMaturityService) buildResultsHandler() echo.HandlerFunc {
	return s.withSession(func(c echo.Context, ls *liveSession) error {
		return ls.session.ViewResults()
	})
}

func (s *ProcMaturityService) buildBackHandler() echo.HandlerFunc {
	return s.withSession(func(c echo.Context, ls *liveSession) error {
		if err := ls.session.BackToThemes(); err != nil {
			return err
		}
		ls.report = nil
		return nil
	})
}

func (s *ProcMaturityService) buildHomeHandler() echo.HandlerFunc {
	return s.withSession(func(c echo.Context, ls *liveSession) error {
		ls.session.Home()
		ls.report = nil
		return nil
	})
}
