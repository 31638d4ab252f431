package billing

import (
	"math"

	"github.com/jalad-shrimali/cdr-billing/cdr"
)

/* ──────────── report shapes ──────────── */

type ExtensionBillingSummary struct {
	Extension     string                       `json:"extension"`
	TotalCalls    int                          `json:"totalCalls"`
	AnsweredCalls int                          `json:"answeredCalls"`
	TotalMinutes  int                          `json:"totalMinutes"`
	CallCounts    map[cdr.CallTypeCategory]int `json:"callCounts"`
	TotalCost     float64                      `json:"totalCost"`
}

type BillingReport struct {
	Extensions   []ExtensionBillingSummary `json:"extensions"`
	TotalRevenue float64                   `json:"totalRevenue"`
	TotalCalls   int                       `json:"totalCalls"`
	TotalMinutes int                       `json:"totalMinutes"`
	AverageCost  float64                   `json:"averageCost"`
}

/* ──────────── aggregation ──────────── */

// ComputeBillingReport groups calls by extension in first-seen order and
// prices the answered ones.
//
// Each extension's free-minutes pool is spread evenly over all of its calls,
// answered or not: every answered call is discounted by FreeMinutes/len(group)
// minutes, floored at zero billable minutes. Unanswered calls count towards
// TotalCalls and the divisor only.
func ComputeBillingReport(calls []cdr.NormalizedCall, tariff TariffConfig) BillingReport {
	tariff = tariff.Sanitized()

	groups := groupByExtension(calls)
	report := BillingReport{
		Extensions: make([]ExtensionBillingSummary, 0, len(groups)),
		TotalCalls: len(calls),
	}

	for _, g := range groups {
		s := priceGroup(g.ext, g.calls, tariff)
		report.Extensions = append(report.Extensions, s)
		report.TotalRevenue += s.TotalCost
		report.TotalMinutes += s.TotalMinutes
	}
	if n := len(report.Extensions); n > 0 {
		report.AverageCost = report.TotalRevenue / float64(n)
	}
	return report
}

func priceGroup(ext string, calls []cdr.NormalizedCall, tariff TariffConfig) ExtensionBillingSummary {
	s := ExtensionBillingSummary{
		Extension:  ext,
		TotalCalls: len(calls),
		CallCounts: make(map[cdr.CallTypeCategory]int, len(cdr.CallTypes)),
	}
	for _, ct := range cdr.CallTypes {
		s.CallCounts[ct] = 0
	}

	deduction := tariff.FreeMinutes / float64(len(calls))
	for _, c := range calls {
		if !c.Answered() {
			continue
		}
		minutes := CallMinutes(c.DurationSeconds)
		billable := math.Max(0, float64(minutes)-deduction)

		s.AnsweredCalls++
		s.TotalMinutes += minutes
		s.TotalCost += billable * tariff.Rate(c.CallType)
		s.CallCounts[c.CallType]++
	}
	return s
}

// CallMinutes rounds a duration up to whole minutes.
func CallMinutes(seconds int) int {
	if seconds <= 0 {
		return 0
	}
	m := seconds / 60
	if seconds%60 != 0 {
		m++
	}
	return m
}

type extensionGroup struct {
	ext   string
	calls []cdr.NormalizedCall
}

func groupByExtension(calls []cdr.NormalizedCall) []extensionGroup {
	idx := map[string]int{}
	var groups []extensionGroup
	for _, c := range calls {
		ext := c.Extension()
		i, ok := idx[ext]
		if !ok {
			i = len(groups)
			idx[ext] = i
			groups = append(groups, extensionGroup{ext: ext})
		}
		groups[i].calls = append(groups[i].calls, c)
	}
	return groups
}
