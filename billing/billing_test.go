package billing

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/jalad-shrimali/cdr-billing/cdr"
)

func call(src, dst, disp string, secs int) cdr.NormalizedCall {
	return cdr.Annotate(cdr.NormalizedCall{Source: src, Destination: dst, DispositionRaw: disp, DurationSeconds: secs})
}

func TestFreeMinutesCoverSmallExtension(t *testing.T) {
	calls := []cdr.NormalizedCall{
		call("100", "0612345678", "4", 90),
		call("100", "0102030405", "4", 30),
	}
	tariff := TariffConfig{MobileRate: 75, LocalRate: 25, FreeMinutes: 60, NationalRate: 50, InternationalRate: 125}

	r := ComputeBillingReport(calls, tariff)
	if len(r.Extensions) != 1 {
		t.Fatalf("len(Extensions) = %d, want 1", len(r.Extensions))
	}
	s := r.Extensions[0]
	if s.TotalCost != 0 {
		t.Errorf("TotalCost = %v, want 0", s.TotalCost)
	}
	if s.TotalMinutes != 3 {
		t.Errorf("TotalMinutes = %d, want 3", s.TotalMinutes)
	}
	if s.CallCounts[cdr.Mobile] != 1 || s.CallCounts[cdr.Local] != 1 {
		t.Errorf("CallCounts = %v", s.CallCounts)
	}
}

func TestDeductionUsesWholeGroupAsDivisor(t *testing.T) {
	// 4 calls, 1 answered: deduction per answered call is 8/4 = 2 minutes
	calls := []cdr.NormalizedCall{
		call("200", "0102030405", "ANSWERED", 300), // 5 min
		call("200", "0102030405", "BUSY", 0),
		call("200", "0102030405", "NO ANSWER", 0),
		call("200", "0102030405", "8", 12),
	}
	tariff := TariffConfig{LocalRate: 10, FreeMinutes: 8}

	s := ComputeBillingReport(calls, tariff).Extensions[0]
	if s.TotalCalls != 4 || s.AnsweredCalls != 1 {
		t.Errorf("TotalCalls/AnsweredCalls = %d/%d, want 4/1", s.TotalCalls, s.AnsweredCalls)
	}
	if want := (5.0 - 2.0) * 10; s.TotalCost != want {
		t.Errorf("TotalCost = %v, want %v", s.TotalCost, want)
	}
	if s.TotalMinutes != 5 {
		t.Errorf("TotalMinutes = %d, want 5 (unanswered calls excluded)", s.TotalMinutes)
	}
}

func TestRatesPerCallType(t *testing.T) {
	calls := []cdr.NormalizedCall{
		call("100", "0612345678", "4", 60),    // mobile 1 min
		call("100", "0033145678901", "4", 61), // national 2 min
		call("100", "0044207946000", "4", 1),  // international 1 min
		call("100", "201", "4", 120),          // local 2 min
	}
	tariff := TariffConfig{LocalRate: 1, NationalRate: 10, MobileRate: 100, InternationalRate: 1000}

	s := ComputeBillingReport(calls, tariff).Extensions[0]
	if want := 100.0 + 20 + 1000 + 2; s.TotalCost != want {
		t.Errorf("TotalCost = %v, want %v", s.TotalCost, want)
	}
	for _, ct := range cdr.CallTypes {
		if s.CallCounts[ct] != 1 {
			t.Errorf("CallCounts[%v] = %d, want 1", ct, s.CallCounts[ct])
		}
	}
}

func TestGroupingOrderAndFallback(t *testing.T) {
	calls := []cdr.NormalizedCall{
		call("300", "201", "4", 60),
		{CallerID: "clid-9", DispositionRaw: "4", DurationSeconds: 60, Disposition: cdr.Answered},
		call("100", "201", "4", 60),
		{},
		call("300", "201", "0", 0),
	}
	r := ComputeBillingReport(calls, TariffConfig{LocalRate: 1})

	var got []string
	for _, s := range r.Extensions {
		got = append(got, s.Extension)
	}
	want := []string{"300", "clid-9", "100", cdr.UnknownExtension}
	if len(got) != len(want) {
		t.Fatalf("extensions = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("extensions[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	total := 0
	for _, s := range r.Extensions {
		total += s.TotalCalls
	}
	if total != len(calls) || r.TotalCalls != len(calls) {
		t.Errorf("every record must land in exactly one group: %d / %d", total, r.TotalCalls)
	}
}

func TestReportInvariants(t *testing.T) {
	calls := []cdr.NormalizedCall{
		call("100", "0612345678", "4", 95),
		call("100", "+33612345678", "4", 7),
		call("101", "+15551234", "4", 3601),
		call("101", "201", "BUSY", 0),
		call("102", "0700000000", "failed", 40),
		call("102", "0102030405", "répondu", 59),
		call("102", "0102030405", "4", 61),
	}
	tariff := TariffConfig{LocalRate: 0.3, NationalRate: 0.7, InternationalRate: 1.9, MobileRate: 1.1, FreeMinutes: 1.5}
	r := ComputeBillingReport(calls, tariff)

	var sum float64
	minutes := 0
	for _, s := range r.Extensions {
		sum += s.TotalCost
		minutes += s.TotalMinutes
		if s.TotalCost < 0 {
			t.Errorf("%s: TotalCost = %v, want >= 0", s.Extension, s.TotalCost)
		}
		counted := 0
		for _, n := range s.CallCounts {
			counted += n
		}
		if counted != s.AnsweredCalls {
			t.Errorf("%s: CallCounts sum %d, AnsweredCalls %d", s.Extension, counted, s.AnsweredCalls)
		}
	}
	if sum != r.TotalRevenue {
		t.Errorf("sum(TotalCost) = %v, TotalRevenue = %v", sum, r.TotalRevenue)
	}
	if minutes != r.TotalMinutes {
		t.Errorf("sum(TotalMinutes) = %d, TotalMinutes = %d", minutes, r.TotalMinutes)
	}
	if want := r.TotalRevenue / 3; math.Abs(r.AverageCost-want) > 1e-12 {
		t.Errorf("AverageCost = %v, want %v", r.AverageCost, want)
	}
}

func TestComputeBillingReportEmpty(t *testing.T) {
	r := ComputeBillingReport(nil, DefaultTariff())
	if r.AverageCost != 0 || r.TotalRevenue != 0 || r.TotalCalls != 0 || len(r.Extensions) != 0 {
		t.Errorf("empty report = %+v", r)
	}
}

func TestNegativeTariffIsClamped(t *testing.T) {
	calls := []cdr.NormalizedCall{call("100", "201", "4", 60)}
	r := ComputeBillingReport(calls, TariffConfig{LocalRate: -5, FreeMinutes: -100})
	if r.TotalRevenue != 0 {
		t.Errorf("TotalRevenue = %v, want 0", r.TotalRevenue)
	}
}

func TestReportJSONIsStable(t *testing.T) {
	calls := []cdr.NormalizedCall{
		call("100", "0612345678", "4", 90),
		call("101", "+4420", "4", 30),
	}
	a, err := json.Marshal(ComputeBillingReport(calls, DefaultTariff()))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := json.Marshal(ComputeBillingReport(calls, DefaultTariff()))
	if string(a) != string(b) {
		t.Errorf("report JSON differs between runs:\n%s\n%s", a, b)
	}
}

func TestCallMinutes(t *testing.T) {
	tests := []struct{ secs, want int }{
		{0, 0}, {1, 1}, {59, 1}, {60, 1}, {61, 2}, {90, 2}, {-10, 0},
		{math.MaxInt, math.MaxInt/60 + 1},
	}
	for _, tt := range tests {
		if got := CallMinutes(tt.secs); got != tt.want {
			t.Errorf("CallMinutes(%d) = %d, want %d", tt.secs, got, tt.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"25", 25}, {" 1.5 ", 1.5}, {"1,5", 1.5}, {"abc", 0}, {"", 0}, {"-3", 0}, {"NaN", 0}, {"+Inf", 0},
	}
	for _, tt := range tests {
		if got := ParseAmount(tt.in); got != tt.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestComputeStats(t *testing.T) {
	calls := []cdr.NormalizedCall{
		call("100", "201", "4", 90),
		call("100", "201", "BUSY", 0),
		call("101", "201", "ANSWERED", 30),
	}
	st := ComputeStats(calls)
	if st.TotalCalls != 3 || st.AnsweredCalls != 2 || st.TotalSeconds != 120 {
		t.Errorf("stats = %+v", st)
	}
	if st.AverageSeconds != 40 {
		t.Errorf("AverageSeconds = %v, want 40", st.AverageSeconds)
	}
	if st.SuccessRate != 67 {
		t.Errorf("SuccessRate = %d, want 67", st.SuccessRate)
	}

	if empty := ComputeStats(nil); empty != (CallStats{}) {
		t.Errorf("ComputeStats(nil) = %+v", empty)
	}
}

func TestCallsForExtension(t *testing.T) {
	calls := []cdr.NormalizedCall{
		call("100", "201", "4", 1),
		call("201", "100", "4", 2),
		call("300", "400", "4", 3),
	}
	got := CallsForExtension(calls, "100")
	if len(got) != 2 || got[0].DurationSeconds != 1 || got[1].DurationSeconds != 2 {
		t.Errorf("CallsForExtension() = %+v", got)
	}

	// every report row can be listed, including the Unknown bucket
	calls = append(calls, call("", "201", "4", 4), cdr.Annotate(cdr.NormalizedCall{CallerID: "clid-7", Destination: "201", DispositionRaw: "4", DurationSeconds: 5}))
	for _, s := range ComputeBillingReport(calls, DefaultTariff()).Extensions {
		if got := CallsForExtension(calls, s.Extension); len(got) < s.TotalCalls {
			t.Errorf("CallsForExtension(%q) = %d calls, report has %d", s.Extension, len(got), s.TotalCalls)
		}
	}
	if got := CallsForExtension(calls, cdr.UnknownExtension); len(got) != 1 || got[0].DurationSeconds != 4 {
		t.Errorf("CallsForExtension(Unknown) = %+v", got)
	}
}
