//
// Package export writes an organization's answers and maturity scores
// to an xlsx workbook.
//
package export

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/nsip/procurement-maturity/internal/benchmark"
	"github.com/nsip/procurement-maturity/internal/maturity"
	"github.com/nsip/procurement-maturity/internal/model"
)

const (
	ResponsesSheet = "Responses"
	SummarySheet   = "Summary"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	responseHeader = []interface{}{"Name", "Email", "Designation", "Theme", "Focus Area", "Question", "Response", "Score", "Submitted"}
	summaryHeader  = []interface{}{"Theme", "Focus Area", "Score", "Benchmark", "Label", "Responses"}
)

//
// Workbook builds the workbook for org: one row per answer on the
// Responses sheet, and per theme an overall row followed by its area
// rows on the Summary sheet.
//
func Workbook(org *model.Organization, themes []string, bench *benchmark.Table) (*excelize.File, error) {
	f := excelize.NewFile()
	// the default sheet becomes Responses
	if err := f.SetSheetName(f.GetSheetName(0), ResponsesSheet); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "cannot name sheet")
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "cannot add sheet")
	}

	if err := writeResponses(f, org); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSummary(f, org, themes, bench); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// Write streams the workbook for org to w.
func Write(w io.Writer, org *model.Organization, themes []string, bench *benchmark.Table) error {
	f, err := Workbook(org, themes, bench)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return errors.Wrap(err, "cannot write workbook")
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrap(err, "bad cell")
	}
	return errors.Wrapf(f.SetSheetRow(sheet, cell, &values), "cannot write %s row %d", sheet, row)
}

func writeResponses(f *excelize.File, org *model.Organization) error {
	if err := setRow(f, ResponsesSheet, 1, responseHeader); err != nil {
		return err
	}
	row := 2
	if org == nil {
		return nil
	}
	for _, u := range org.Users {
		for _, r := range u.Responses {
			values := []interface{}{
				u.Name, u.Email, u.Designation, r.Theme, r.Area, r.Question, r.SelectedText, r.Score,
				u.Timestamp.UTC().Format(time.RFC3339),
			}
			if err := setRow(f, ResponsesSheet, row, values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeSummary(f *excelize.File, org *model.Organization, themes []string, bench *benchmark.Table) error {
	if err := setRow(f, SummarySheet, 1, summaryHeader); err != nil {
		return err
	}
	row := 2
	for _, theme := range themes {
		sum, ok := maturity.AggregateOrganization(org, theme)
		if !ok {
			continue
		}
		values := []interface{}{
			theme, "", sum.Overall, maturity.Round1(bench.AreaAverage(theme)),
			string(maturity.LabelFor(sum.Overall)), sum.Responses,
		}
		if err := setRow(f, SummarySheet, row, values); err != nil {
			return err
		}
		row++
		for _, area := range sum.Areas {
			score := sum.ByArea[area]
			values := []interface{}{
				theme, area, score, bench.ForArea(theme, area), string(maturity.LabelFor(score)), "",
			}
			if err := setRow(f, SummarySheet, row, values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}
