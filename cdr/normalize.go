package cdr

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

/* ──────────── column-name synonyms (priority order, case-sensitive) ──────────── */

type field uint8

const (
	fSource field = iota
	fCallerID
	fDestination
	fDuration
	fDisposition
	fTimestamp
	numFields
)

var synonyms = [numFields][]string{
	fSource:      {"src", "clid"},
	fCallerID:    {"clid"},
	fDestination: {"dst", "dstchannel"},
	fDuration:    {"billsec", "duration"},
	fDisposition: {"disposition", "status"},
	fTimestamp:   {"calldate", "start"},
}

/* ──────────── normalizer ──────────── */

// Normalizer maps data rows onto NormalizedCall using one header row.
type Normalizer struct {
	cols [numFields][]int // header positions per field, in synonym priority order
}

func NewNormalizer(header []string) *Normalizer {
	n := &Normalizer{}
	for f, names := range synonyms {
		for _, name := range names {
			if i := colIdx(header, name); i != -1 {
				n.cols[f] = append(n.cols[f], i)
			}
		}
	}
	return n
}

// Normalize never fails: absent columns and short rows read as "", and an
// unparseable duration reads as 0. The derived categories are left unset.
func (n *Normalizer) Normalize(row []string) NormalizedCall {
	return NormalizedCall{
		Timestamp:       n.value(row, fTimestamp),
		Source:          n.value(row, fSource),
		CallerID:        n.value(row, fCallerID),
		Destination:     n.value(row, fDestination),
		DurationSeconds: parseSeconds(n.value(row, fDuration)),
		DispositionRaw:  n.value(row, fDisposition),
	}
}

// NormalizeAll normalizes and annotates every row, keeping input order.
func NormalizeAll(header []string, rows [][]string) []NormalizedCall {
	n := NewNormalizer(header)
	calls := make([]NormalizedCall, 0, len(rows))
	for _, row := range rows {
		calls = append(calls, Annotate(n.Normalize(row)))
	}
	return calls
}

// value returns the first non-empty cell among the field's synonym columns.
func (n *Normalizer) value(row []string, f field) string {
	for _, i := range n.cols[f] {
		if v := pick(row, i); v != "" {
			return v
		}
	}
	return ""
}

/* ──────────── helpers ──────────── */

func colIdx(header []string, key string) int {
	for i, h := range header {
		if h == key {
			return i
		}
	}
	return -1
}

func pick(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}

// maxDurationSeconds caps a single call (about 68 years) so sums over a
// whole export stay far from int overflow.
const maxDurationSeconds = math.MaxInt32

// parseSeconds reads the leading integer of s ("90", "90.6", "90s" -> 90).
// Anything without leading digits or negative is 0; huge values clamp to
// maxDurationSeconds.
func parseSeconds(s string) int {
	s = strings.TrimPrefix(s, "+")
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return min(n, maxDurationSeconds)
}
