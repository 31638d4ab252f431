// Package billing prices normalized calls per extension under a tariff.
package billing

import (
	"math"
	"strconv"
	"strings"

	"github.com/jalad-shrimali/cdr-billing/cdr"
)

// TariffConfig holds per-minute rates by call type and the free-minutes pool
// granted to each extension per billing run.
type TariffConfig struct {
	LocalRate         float64 `json:"localRate"`
	NationalRate      float64 `json:"nationalRate"`
	InternationalRate float64 `json:"internationalRate"`
	MobileRate        float64 `json:"mobileRate"`
	FreeMinutes       float64 `json:"freeMinutes"`
}

func DefaultTariff() TariffConfig {
	return TariffConfig{
		LocalRate:         25,
		NationalRate:      50,
		InternationalRate: 125,
		MobileRate:        75,
		FreeMinutes:       60,
	}
}

// Rate is the per-minute price for a call type.
func (t TariffConfig) Rate(c cdr.CallTypeCategory) float64 {
	switch c {
	case cdr.National:
		return t.NationalRate
	case cdr.Mobile:
		return t.MobileRate
	case cdr.International:
		return t.InternationalRate
	default:
		return t.LocalRate
	}
}

// Sanitized returns t with every negative, NaN or infinite field set to 0.
func (t TariffConfig) Sanitized() TariffConfig {
	return TariffConfig{
		LocalRate:         nonNegative(t.LocalRate),
		NationalRate:      nonNegative(t.NationalRate),
		InternationalRate: nonNegative(t.InternationalRate),
		MobileRate:        nonNegative(t.MobileRate),
		FreeMinutes:       nonNegative(t.FreeMinutes),
	}
}

// ParseAmount reads a user-entered tariff number. "," is accepted as the
// decimal separator; anything unparseable, negative or non-finite is 0.
func ParseAmount(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return nonNegative(v)
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
