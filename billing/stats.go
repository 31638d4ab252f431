package billing

import (
	"math"

	"github.com/jalad-shrimali/cdr-billing/cdr"
)

// CallStats is the dashboard view of a call set.
type CallStats struct {
	TotalCalls     int     `json:"totalCalls"`
	AnsweredCalls  int     `json:"answeredCalls"`
	TotalSeconds   int     `json:"totalSeconds"`
	AverageSeconds float64 `json:"averageSeconds"`
	SuccessRate    int     `json:"successRate"` // answered share, whole percent
}

func ComputeStats(calls []cdr.NormalizedCall) CallStats {
	st := CallStats{TotalCalls: len(calls)}
	for _, c := range calls {
		st.TotalSeconds += c.DurationSeconds
		if c.Answered() {
			st.AnsweredCalls++
		}
	}
	if st.TotalCalls == 0 {
		return st
	}
	st.AverageSeconds = float64(st.TotalSeconds) / float64(st.TotalCalls)
	st.SuccessRate = int(math.Round(float64(st.AnsweredCalls) * 100 / float64(st.TotalCalls)))
	return st
}

// CallsForExtension returns the calls placed from or to ext, in input order.
// "From" uses the same key as report grouping, so ext may be UnknownExtension.
func CallsForExtension(calls []cdr.NormalizedCall, ext string) []cdr.NormalizedCall {
	var out []cdr.NormalizedCall
	for _, c := range calls {
		if c.Extension() == ext || c.Destination == ext {
			out = append(out, c)
		}
	}
	return out
}
