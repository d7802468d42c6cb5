// Package ingest loads reference data: county price statistics into
// Postgres and provider rows into the search index.
package ingest

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"childcare-assistant/internal/common/database"
	"childcare-assistant/internal/models"
	"childcare-assistant/internal/store/postgres"
	resolvecost "childcare-assistant/internal/workers/assistant/resolve-cost"
)

// PriceColumns is the header the price CSV must carry, in any order.
var PriceColumns = []string{
	"county_fips", "state_fips", "state", "county", "year", "age_group", "setting",
	"p10", "p25", "median", "p75", "p90", "source",
}

var ErrMissingColumn = errors.New("missing column")

// Rejected is a CSV line that could not be turned into a price row.
type Rejected struct {
	Line   int
	Reason string
}

// PriceFile is the parsed content of one price CSV.
type PriceFile struct {
	Rows     []models.PriceRow
	Rejected []Rejected
}

// ParsePrices reads a price CSV. Rows with unknown age or setting labels
// are rejected, not guessed. Duplicate natural keys keep the last row.
func ParsePrices(r io.Reader) (*PriceFile, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range PriceColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	out := &PriceFile{}
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row, reason := parsePriceRecord(rec, idx)
		if reason != "" {
			out.Rejected = append(out.Rejected, Rejected{Line: line, Reason: reason})
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	out.Rows = Dedupe(out.Rows)
	return out, nil
}

func parsePriceRecord(rec []string, idx map[string]int) (models.PriceRow, string) {
	get := func(col string) string {
		i := idx[col]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	code := get("county_fips")
	if code == "" {
		return models.PriceRow{}, "empty county_fips"
	}
	if len(code) < 5 {
		code = strings.Repeat("0", 5-len(code)) + code
	}

	year, err := strconv.Atoi(get("year"))
	if err != nil {
		return models.PriceRow{}, fmt.Sprintf("invalid year %q", get("year"))
	}
	age, ok := resolvecost.NormalizeAge(get("age_group"))
	if !ok {
		return models.PriceRow{}, fmt.Sprintf("unknown age group %q", get("age_group"))
	}
	setting, ok := resolvecost.NormalizeSetting(get("setting"))
	if !ok {
		return models.PriceRow{}, fmt.Sprintf("unknown setting %q", get("setting"))
	}

	row := models.PriceRow{
		Code:            code,
		RegionStateCode: get("state_fips"),
		Jurisdiction:    strings.ToUpper(get("state")),
		County:          get("county"),
		Year:            year,
		AgeBand:         age,
		Setting:         setting,
		Source:          get("source"),
	}
	amounts := []struct {
		col string
		dst **float64
	}{
		{"p10", &row.P10}, {"p25", &row.P25}, {"median", &row.Median}, {"p75", &row.P75}, {"p90", &row.P90},
	}
	for _, a := range amounts {
		v, err := parseAmount(get(a.col))
		if err != nil {
			return models.PriceRow{}, fmt.Sprintf("invalid %s: %v", a.col, err)
		}
		*a.dst = v
	}
	return row, ""
}

// parseAmount reads an optional weekly price. Blank and "NA" mean unknown.
func parseAmount(s string) (*float64, error) {
	s = strings.TrimPrefix(strings.ReplaceAll(s, ",", ""), "$")
	if s == "" || strings.EqualFold(s, "na") {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Dedupe keeps the last row per natural key, in first-seen order.
func Dedupe(rows []models.PriceRow) []models.PriceRow {
	pos := make(map[models.PriceKey]int, len(rows))
	out := make([]models.PriceRow, 0, len(rows))
	for _, r := range rows {
		if i, ok := pos[r.Key()]; ok {
			out[i] = r
			continue
		}
		pos[r.Key()] = len(out)
		out = append(out, r)
	}
	return out
}

// Counties lists the distinct counties referenced by rows.
func Counties(rows []models.PriceRow) []models.SubRegion {
	seen := make(map[string]bool)
	var out []models.SubRegion
	for _, r := range rows {
		if seen[r.Code] {
			continue
		}
		seen[r.Code] = true
		out = append(out, models.SubRegion{
			Code:            r.Code,
			RegionStateCode: r.RegionStateCode,
			Jurisdiction:    r.Jurisdiction,
			Name:            r.County,
		})
	}
	return out
}

// PriceResult counts what one ingest wrote.
type PriceResult struct {
	CountiesInserted int
	PricesUpserted   int
}

// LoadPrices writes counties and prices in one transaction.
func LoadPrices(ctx context.Context, db *sql.DB, rows []models.PriceRow) (*PriceResult, error) {
	res := &PriceResult{}
	err := database.WithTx(ctx, db, func(tx *sql.Tx) error {
		n, err := postgres.UpsertCounties(ctx, tx, Counties(rows))
		if err != nil {
			return fmt.Errorf("upsert counties: %w", err)
		}
		res.CountiesInserted = n

		if res.PricesUpserted, err = postgres.UpsertPrices(ctx, tx, rows); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
