// internal/store/postgres/prices.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"childcare-assistant/internal/models"
)

// PriceBatchSize bounds the rows per upsert statement.
const PriceBatchSize = 300

type PriceStore struct {
	db *sql.DB
}

func NewPriceStore(db *sql.DB) *PriceStore {
	return &PriceStore{db: db}
}

// PriceRows returns the county's rows for year, optionally narrowed to one
// age band and one setting.
func (s *PriceStore) PriceRows(ctx context.Context, code string, year int, age *models.AgeBand, setting *models.CareSetting) ([]models.PriceRow, error) {
	args := []interface{}{code, year}
	var sb strings.Builder
	sb.WriteString(`
		SELECT county_fips, state_fips, state, county, year, age_group, setting,
		       median, p75, source
		FROM prices_ndcp
		WHERE county_fips = $1 AND year = $2`)
	if age != nil {
		args = append(args, string(*age))
		fmt.Fprintf(&sb, " AND age_group = $%d", len(args))
	}
	if setting != nil {
		args = append(args, string(*setting))
		fmt.Fprintf(&sb, " AND setting = $%d", len(args))
	}
	sb.WriteString("\n\t\tORDER BY age_group, setting")

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PriceRow
	for rows.Next() {
		var (
			r              models.PriceRow
			stateFIPS      sql.NullString
			county         sql.NullString
			median, p75    sql.NullFloat64
			source         sql.NullString
			age, careSetup string
		)
		if err := rows.Scan(&r.Code, &stateFIPS, &r.Jurisdiction, &county, &r.Year, &age, &careSetup,
			&median, &p75, &source); err != nil {
			return nil, err
		}
		r.RegionStateCode = stateFIPS.String
		r.County = county.String
		r.AgeBand = models.AgeBand(age)
		r.Setting = models.CareSetting(careSetup)
		r.Median = nullableFloat(median)
		r.P75 = nullableFloat(p75)
		r.Source = source.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpsertPrices writes rows in batches. A conflicting natural key overwrites
// every non-key column, so re-running an ingest is idempotent. Callers must
// pass rows with unique keys; Postgres rejects a batch that updates the same
// row twice.
func UpsertPrices(ctx context.Context, tx *sql.Tx, rows []models.PriceRow) (int, error) {
	written := 0
	for start := 0; start < len(rows); start += PriceBatchSize {
		end := start + PriceBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		query, args := buildPriceUpsert(rows[start:end])
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return written, fmt.Errorf("upsert prices batch %d: %w", start/PriceBatchSize, err)
		}
		written += end - start
	}
	return written, nil
}

const priceColumns = 13

func buildPriceUpsert(batch []models.PriceRow) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO prices_ndcp
		(county_fips, state_fips, state, county, year, age_group, setting, p10, p25, median, p75, p90, source)
		VALUES `)

	args := make([]interface{}, 0, len(batch)*priceColumns)
	for i, r := range batch {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for c := 0; c < priceColumns; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*priceColumns+c+1)
		}
		sb.WriteString(")")
		args = append(args,
			r.Code, r.RegionStateCode, r.Jurisdiction, r.County, r.Year,
			string(r.AgeBand), string(r.Setting),
			r.P10, r.P25, r.Median, r.P75, r.P90, r.Source,
		)
	}

	sb.WriteString(`
		ON CONFLICT (county_fips, year, age_group, setting) DO UPDATE SET
		  state_fips = EXCLUDED.state_fips,
		  state = EXCLUDED.state,
		  county = EXCLUDED.county,
		  p10 = EXCLUDED.p10,
		  p25 = EXCLUDED.p25,
		  median = EXCLUDED.median,
		  p75 = EXCLUDED.p75,
		  p90 = EXCLUDED.p90,
		  source = EXCLUDED.source`)
	return sb.String(), args
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
