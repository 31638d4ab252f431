package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jalad-shrimali/cdr-billing/billing"
	"github.com/jalad-shrimali/cdr-billing/config"
)

func TestInitialTariffLayersEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tariff.env")
	if err := os.WriteFile(path, []byte("TARIFF_LOCAL_RATE=10\nTARIFF_MOBILE_RATE=3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TARIFF_MOBILE_RATE", "4")

	got, err := initialTariff(&config.Config{TariffEnv: path})
	if err != nil {
		t.Fatalf("initialTariff() error = %v", err)
	}
	def := billing.DefaultTariff()
	if got.LocalRate != 10 || got.MobileRate != 4 || got.NationalRate != def.NationalRate {
		t.Errorf("initialTariff() = %+v", got)
	}
}

func TestInitialTariffMissingEnvFile(t *testing.T) {
	_, err := initialTariff(&config.Config{TariffEnv: filepath.Join(t.TempDir(), "nope.env")})
	if err == nil {
		t.Error("initialTariff() error = nil for a missing tariff file")
	}
}
