// Package pipeline runs a CDR export through tokenizing, normalization,
// classification and billing in one synchronous pass.
package pipeline

import (
	"errors"
	"log/slog"

	"github.com/jalad-shrimali/cdr-billing/billing"
	"github.com/jalad-shrimali/cdr-billing/cdr"
	"github.com/jalad-shrimali/cdr-billing/csvtok"
)

// ErrEmptyInput means the export held no data rows; no report is produced.
var ErrEmptyInput = errors.New("cdr: no call records in input")

// Result is everything downstream consumers may read from one run.
type Result struct {
	Calls  []cdr.NormalizedCall  `json:"calls"`
	Report billing.BillingReport `json:"report"`
	Stats  billing.CallStats     `json:"stats"`
}

// Run processes a complete export under one tariff snapshot.
func Run(text string, tariff billing.TariffConfig) (Result, error) {
	return run(csvtok.Split(text), tariff)
}

// RunBytes is Run for raw uploads; bytes that are not UTF-8 count as empty input.
func RunBytes(b []byte, tariff billing.TariffConfig) (Result, error) {
	return run(csvtok.SplitBytes(b), tariff)
}

// Rebill prices an already-normalized call set, e.g. after a tariff change.
// Categories are recomputed from the raw values before pricing.
func Rebill(calls []cdr.NormalizedCall, tariff billing.TariffConfig) Result {
	annotated := make([]cdr.NormalizedCall, len(calls))
	for i, c := range calls {
		annotated[i] = cdr.Annotate(c)
	}
	return Result{
		Calls:  annotated,
		Report: billing.ComputeBillingReport(annotated, tariff),
		Stats:  billing.ComputeStats(annotated),
	}
}

func run(tbl csvtok.Table, tariff billing.TariffConfig) (Result, error) {
	if tbl.Empty() {
		return Result{}, ErrEmptyInput
	}
	calls := cdr.NormalizeAll(tbl.Header, tbl.Rows)
	res := Result{
		Calls:  calls,
		Report: billing.ComputeBillingReport(calls, tariff),
		Stats:  billing.ComputeStats(calls),
	}
	slog.Debug("pipeline run",
		"rows", len(tbl.Rows),
		"extensions", len(res.Report.Extensions),
		"revenue", res.Report.TotalRevenue)
	return res, nil
}
