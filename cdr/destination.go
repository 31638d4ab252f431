package cdr

import "strings"

// first match wins; 0033 must be tested before 00
var destinationRules = []struct {
	prefixes []string
	cat      CallTypeCategory
}{
	{[]string{"06", "07"}, Mobile},
	{[]string{"0033", "+33"}, National},
	{[]string{"00", "+"}, International},
}

// ClassifyDestination buckets a dialed number by prefix; everything unmatched is Local.
func ClassifyDestination(dst string) CallTypeCategory {
	for _, r := range destinationRules {
		for _, p := range r.prefixes {
			if strings.HasPrefix(dst, p) {
				return r.cat
			}
		}
	}
	return Local
}
