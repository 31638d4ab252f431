package tariff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jalad-shrimali/cdr-billing/billing"
)

// ErrNoTariffRow means the tariff table exists but holds no rows.
var ErrNoTariffRow = errors.New("tariff: no row in tariff table")

// tariffRow is read as text so a hand-edited cell like "n/a" coerces to 0
// instead of failing the scan.
type tariffRow struct {
	Local         sql.NullString `db:"local_rate"`
	National      sql.NullString `db:"national_rate"`
	International sql.NullString `db:"international_rate"`
	Mobile        sql.NullString `db:"mobile_rate"`
	FreeMinutes   sql.NullString `db:"free_minutes"`
}

const latestTariffQuery = `
	SELECT CAST(local_rate AS TEXT)         AS local_rate,
	       CAST(national_rate AS TEXT)      AS national_rate,
	       CAST(international_rate AS TEXT) AS international_rate,
	       CAST(mobile_rate AS TEXT)        AS mobile_rate,
	       CAST(free_minutes AS TEXT)       AS free_minutes
	  FROM tariff
	 ORDER BY rowid DESC
	 LIMIT 1`

// LoadSQLite reads the most recent row of the tariff table from a database
// owned by the host application. The file is opened read-only.
func LoadSQLite(ctx context.Context, path string) (billing.TariffConfig, error) {
	db, err := sqlx.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return billing.TariffConfig{}, fmt.Errorf("tariff: open %q: %w", path, err)
	}
	defer db.Close()

	var row tariffRow
	if err := db.GetContext(ctx, &row, latestTariffQuery); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return billing.TariffConfig{}, ErrNoTariffRow
		}
		return billing.TariffConfig{}, fmt.Errorf("tariff: query %q: %w", path, err)
	}

	return ParseFields(row.fields(), billing.TariffConfig{}), nil
}

func (r tariffRow) fields() map[string]string {
	// NULL reads as "" and so coerces to 0
	return map[string]string{
		FieldLocal:         r.Local.String,
		FieldNational:      r.National.String,
		FieldInternational: r.International.String,
		FieldMobile:        r.Mobile.String,
		FieldFreeMinutes:   r.FreeMinutes.String,
	}
}
