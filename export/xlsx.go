// Package export renders pipeline results for download.
package export

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/jalad-shrimali/cdr-billing/cdr"
	"github.com/jalad-shrimali/cdr-billing/pipeline"
)

/* ──────────── sheet layouts (keep order) ──────────── */

var reportHeader = []string{
	"Extension", "Total Calls", "Answered", "Minutes",
	"Local", "National", "Mobile", "International", "Cost",
}

var callsHeader = []string{
	"Timestamp", "Source", "Destination", "Duration", "Disposition", "Status", "Type",
}

const (
	sheetReport  = "report"
	sheetSummary = "summary"
	sheetCalls   = "calls"
)

// WriteWorkbook writes res as an XLSX workbook with report, summary and calls sheets.
func WriteWorkbook(w io.Writer, res pipeline.Result) error {
	x := excelize.NewFile()
	defer x.Close()

	report := [][]any{toAny(reportHeader)}
	for _, s := range res.Report.Extensions {
		row := []any{s.Extension, s.TotalCalls, s.AnsweredCalls, s.TotalMinutes}
		for _, ct := range cdr.CallTypes {
			row = append(row, s.CallCounts[ct])
		}
		report = append(report, append(row, roundCost(s.TotalCost)))
	}

	r := res.Report
	summary := [][]any{
		{"Total Revenue", roundCost(r.TotalRevenue)},
		{"Total Calls", r.TotalCalls},
		{"Total Minutes", r.TotalMinutes},
		{"Average Cost", roundCost(r.AverageCost)},
		{"Answered Calls", res.Stats.AnsweredCalls},
		{"Success Rate", strconv.Itoa(res.Stats.SuccessRate) + "%"},
		{"Average Duration", FormatDuration(int(math.Round(res.Stats.AverageSeconds)))},
		{"Total Duration", FormatDuration(res.Stats.TotalSeconds)},
	}

	calls := [][]any{toAny(callsHeader)}
	for _, c := range res.Calls {
		calls = append(calls, []any{
			timestampCell(c), c.Source, c.Destination,
			FormatDuration(c.DurationSeconds),
			cdr.DispositionLabel(c.DispositionRaw),
			c.Disposition.String(),
			c.CallType.String(),
		})
	}

	add := func(name string, rows [][]any) error {
		idx, err := x.NewSheet(name)
		if err != nil {
			return err
		}
		for i, row := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := x.SetSheetRow(name, cell, &row); err != nil {
				return fmt.Errorf("export: sheet %s row %d: %w", name, i+1, err)
			}
		}
		if name == sheetReport {
			x.SetActiveSheet(idx)
		}
		return nil
	}
	for _, sh := range []struct {
		name string
		rows [][]any
	}{
		{sheetReport, report},
		{sheetSummary, summary},
		{sheetCalls, calls},
	} {
		if err := add(sh.name, sh.rows); err != nil {
			return err
		}
	}
	if err := x.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	_, err := x.WriteTo(w)
	return err
}

/* ──────────── helpers ──────────── */

// FormatDuration renders seconds as m:ss, or "Xh Ym" from one hour up.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// timestampCell is a date cell when the call date parses, else the raw text.
func timestampCell(c cdr.NormalizedCall) any {
	if t, ok := c.Time(); ok {
		return t
	}
	return c.Timestamp
}

func roundCost(v float64) float64 { return math.Round(v*100) / 100 }

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
