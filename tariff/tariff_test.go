package tariff

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/jalad-shrimali/cdr-billing/billing"
)

func TestStoreSnapshotIsACopy(t *testing.T) {
	s := NewStore(billing.DefaultTariff())

	snap := s.Snapshot()
	s.Replace(billing.TariffConfig{LocalRate: 1})

	if snap != billing.DefaultTariff() {
		t.Errorf("earlier snapshot changed: %+v", snap)
	}
	if got := s.Snapshot().LocalRate; got != 1 {
		t.Errorf("Snapshot().LocalRate = %v, want 1", got)
	}
}

func TestStoreReplaceSanitizes(t *testing.T) {
	s := NewStore(billing.TariffConfig{})
	got := s.Replace(billing.TariffConfig{LocalRate: -1, MobileRate: 3})
	if got.LocalRate != 0 || got.MobileRate != 3 {
		t.Errorf("Replace() = %+v", got)
	}
	if s.Snapshot() != got {
		t.Errorf("Snapshot() = %+v, want %+v", s.Snapshot(), got)
	}
}

func TestParseFields(t *testing.T) {
	base := billing.DefaultTariff()
	got := ParseFields(map[string]string{
		FieldLocal:       "10",
		FieldMobile:      "abc",
		FieldFreeMinutes: "2,5",
	}, base)

	want := base
	want.LocalRate = 10
	want.MobileRate = 0
	want.FreeMinutes = 2.5
	if got != want {
		t.Errorf("ParseFields() = %+v, want %+v", got, want)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("TARIFF_LOCAL_RATE", "12")
	t.Setenv("TARIFF_FREE_MINUTES", "oops")

	got := FromEnv(billing.DefaultTariff())
	if got.LocalRate != 12 || got.FreeMinutes != 0 || got.MobileRate != 75 {
		t.Errorf("FromEnv() = %+v", got)
	}
}

func TestFromDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tariff.env")
	body := "TARIFF_NATIONAL_RATE=40\nTARIFF_INTERNATIONAL_RATE=\"99.5\"\nOTHER=1\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := FromDotenv(path, billing.DefaultTariff())
	if err != nil {
		t.Fatalf("FromDotenv() error = %v", err)
	}
	if got.NationalRate != 40 || got.InternationalRate != 99.5 || got.LocalRate != 25 {
		t.Errorf("FromDotenv() = %+v", got)
	}

	if _, err := FromDotenv(filepath.Join(t.TempDir(), "missing.env"), billing.DefaultTariff()); err == nil {
		t.Error("FromDotenv(missing) error = nil")
	}
}

func newTariffDB(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tariff.db")
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	db.MustExec(`CREATE TABLE tariff (
		local_rate, national_rate, international_rate, mobile_rate, free_minutes
	)`)
	for _, r := range rows {
		db.MustExec(`INSERT INTO tariff VALUES ` + r)
	}
	return path
}

func TestLoadSQLite(t *testing.T) {
	path := newTariffDB(t,
		`(1, 2, 3, 4, 5)`,
		`(10, 20.5, 'n/a', 40, NULL)`,
	)

	got, err := LoadSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadSQLite() error = %v", err)
	}
	want := billing.TariffConfig{LocalRate: 10, NationalRate: 20.5, InternationalRate: 0, MobileRate: 40, FreeMinutes: 0}
	if got != want {
		t.Errorf("LoadSQLite() = %+v, want %+v", got, want)
	}
}

func TestLoadSQLiteEmptyTable(t *testing.T) {
	path := newTariffDB(t)
	if _, err := LoadSQLite(context.Background(), path); !errors.Is(err, ErrNoTariffRow) {
		t.Errorf("LoadSQLite() error = %v, want ErrNoTariffRow", err)
	}
}

func TestLoadSQLiteMissingFile(t *testing.T) {
	if _, err := LoadSQLite(context.Background(), filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Error("LoadSQLite(missing) error = nil")
	}
}
