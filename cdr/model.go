// Package cdr turns tokenized switch rows into canonical call records and
// classifies each call by outcome and by destination.
package cdr

// UnknownExtension is the billing bucket for calls with neither a source nor a caller id.
const UnknownExtension = "Unknown"

/* ──────────── disposition ──────────── */

type DispositionCategory uint8

const (
	Other DispositionCategory = iota
	Answered
	NoAnswer
	Busy
	Failed
	Transferred
	Parked
)

func (d DispositionCategory) String() string {
	switch d {
	case Answered:
		return "answered"
	case NoAnswer:
		return "no_answer"
	case Busy:
		return "busy"
	case Failed:
		return "failed"
	case Transferred:
		return "transferred"
	case Parked:
		return "parked"
	default:
		return "other"
	}
}

func (d DispositionCategory) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

/* ──────────── call type ──────────── */

type CallTypeCategory uint8

const (
	Local CallTypeCategory = iota
	National
	Mobile
	International
)

// CallTypes lists every category in report column order.
var CallTypes = []CallTypeCategory{Local, National, Mobile, International}

func (c CallTypeCategory) String() string {
	switch c {
	case National:
		return "national"
	case Mobile:
		return "mobile"
	case International:
		return "international"
	default:
		return "local"
	}
}

func (c CallTypeCategory) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

/* ──────────── record ──────────── */

// NormalizedCall is one CDR row mapped onto the canonical fields.
// Disposition and CallType are derived; Annotate recomputes them from
// DispositionRaw and Destination.
type NormalizedCall struct {
	Timestamp       string `json:"timestamp"`
	Source          string `json:"source"`
	CallerID        string `json:"callerId,omitempty"` // display; the normalizer already folds clid into Source
	Destination     string `json:"destination"`
	DurationSeconds int    `json:"durationSeconds"`
	DispositionRaw  string `json:"dispositionRaw"`

	Disposition DispositionCategory `json:"disposition"`
	CallType    CallTypeCategory    `json:"callType"`
}

// Extension is the billing grouping key: source, else caller id, else
// UnknownExtension. Rows from NormalizeAll never reach the caller id branch
// since Source falls back to clid there; it serves records built by hand.
func (c NormalizedCall) Extension() string {
	switch {
	case c.Source != "":
		return c.Source
	case c.CallerID != "":
		return c.CallerID
	default:
		return UnknownExtension
	}
}

func (c NormalizedCall) Answered() bool { return c.Disposition == Answered }

// Annotate returns c with both derived categories recomputed.
func Annotate(c NormalizedCall) NormalizedCall {
	c.Disposition = ClassifyDisposition(c.DispositionRaw)
	c.CallType = ClassifyDestination(c.Destination)
	return c
}
