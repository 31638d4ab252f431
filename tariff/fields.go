package tariff

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/jalad-shrimali/cdr-billing/billing"
)

/* ──────────── field names ──────────── */

const (
	FieldLocal         = "localRate"
	FieldNational      = "nationalRate"
	FieldInternational = "internationalRate"
	FieldMobile        = "mobileRate"
	FieldFreeMinutes   = "freeMinutes"
)

var envKeys = map[string]string{
	"TARIFF_LOCAL_RATE":         FieldLocal,
	"TARIFF_NATIONAL_RATE":      FieldNational,
	"TARIFF_INTERNATIONAL_RATE": FieldInternational,
	"TARIFF_MOBILE_RATE":        FieldMobile,
	"TARIFF_FREE_MINUTES":       FieldFreeMinutes,
}

// ParseFields overlays user-entered values onto base. Fields absent from the
// map keep base's value; present but non-numeric fields become 0.
func ParseFields(fields map[string]string, base billing.TariffConfig) billing.TariffConfig {
	set := func(dst *float64, key string) {
		if v, ok := fields[key]; ok {
			*dst = billing.ParseAmount(v)
		}
	}
	cfg := base
	set(&cfg.LocalRate, FieldLocal)
	set(&cfg.NationalRate, FieldNational)
	set(&cfg.InternationalRate, FieldInternational)
	set(&cfg.MobileRate, FieldMobile)
	set(&cfg.FreeMinutes, FieldFreeMinutes)
	return cfg.Sanitized()
}

/* ──────────── environment ──────────── */

// FromEnv reads TARIFF_* variables from the process environment.
func FromEnv(base billing.TariffConfig) billing.TariffConfig {
	fields := map[string]string{}
	for key, field := range envKeys {
		if v, ok := os.LookupEnv(key); ok {
			fields[field] = v
		}
	}
	return ParseFields(fields, base)
}

// FromDotenv reads TARIFF_* variables from a .env style file without touching the environment.
func FromDotenv(path string, base billing.TariffConfig) (billing.TariffConfig, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return base, err
	}
	fields := map[string]string{}
	for key, field := range envKeys {
		if v, ok := env[key]; ok {
			fields[field] = v
		}
	}
	return ParseFields(fields, base), nil
}
