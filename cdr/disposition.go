package cdr

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

/* ──────────── switch codes ──────────── */

var dispositionCodes = map[int]DispositionCategory{
	4:  Answered,
	0:  NoAnswer,
	8:  Busy,
	15: Transferred,
	26: Parked,
}

/* ──────────── text tokens (English / French, lower-cased) ──────────── */

var dispositionWords = map[string]DispositionCategory{
	"answered":       Answered,
	"répondu":        Answered,
	"no answer":      NoAnswer,
	"pas de réponse": NoAnswer,
	"busy":           Busy,
	"occupé":         Busy,
	"failed":         Failed,
	"échec":          Failed,
}

// checked in order against the lower-cased value
var dispositionFragments = []struct {
	frag string
	cat  DispositionCategory
}{
	{"transfer", Transferred},
	{"transféré", Transferred},
	{"park", Parked},
	{"parké", Parked},
	{"spy", Other},
	{"écoute", Other},
}

// ClassifyDisposition maps a raw disposition to its category. It is total:
// integers go through the switch-code table, text through the word and
// fragment tables, and anything else is Other.
func ClassifyDisposition(raw string) DispositionCategory {
	raw = strings.TrimSpace(raw)
	if code, err := strconv.Atoi(raw); err == nil {
		if cat, ok := dispositionCodes[code]; ok {
			return cat
		}
		return Other
	}

	// exports from some PBX front-ends carry decomposed accents (e + U+0301)
	s := strings.ToLower(norm.NFC.String(raw))
	if cat, ok := dispositionWords[s]; ok {
		return cat
	}
	for _, f := range dispositionFragments {
		if strings.Contains(s, f.frag) {
			return f.cat
		}
	}
	return Other
}

// DispositionLabel is the display text for a raw disposition. Codes outside
// the switch table keep their number ("Code 99").
func DispositionLabel(raw string) string {
	raw = strings.TrimSpace(raw)
	cat := ClassifyDisposition(raw)
	if cat != Other {
		return labels[cat]
	}
	if _, err := strconv.Atoi(raw); err == nil {
		return "Code " + raw
	}
	if raw == "" {
		return "Unknown"
	}
	return raw
}

var labels = map[DispositionCategory]string{
	Answered:    "Answered",
	NoAnswer:    "No answer",
	Busy:        "Busy",
	Failed:      "Failed",
	Transferred: "Transferred",
	Parked:      "Parked",
}
