// internal/store/postgres/regions.go
package postgres

import (
	"context"
	"database/sql"
	"errors"

	"childcare-assistant/internal/models"
)

// RegionStore resolves counties.
type RegionStore struct {
	db *sql.DB
}

func NewRegionStore(db *sql.DB) *RegionStore {
	return &RegionStore{db: db}
}

// SubRegionByCode returns nil without error when no county has code.
func (s *RegionStore) SubRegionByCode(ctx context.Context, code string) (*models.SubRegion, error) {
	return s.one(ctx, `
		SELECT county_fips, state_fips, state, county
		FROM counties
		WHERE county_fips = $1`, code)
}

// SubRegionByName matches the county name exactly, ignoring case.
func (s *RegionStore) SubRegionByName(ctx context.Context, jurisdiction, name string) (*models.SubRegion, error) {
	return s.one(ctx, `
		SELECT county_fips, state_fips, state, county
		FROM counties
		WHERE state = $1 AND LOWER(county) = LOWER($2)
		LIMIT 1`, jurisdiction, name)
}

func (s *RegionStore) one(ctx context.Context, query string, args ...interface{}) (*models.SubRegion, error) {
	var r models.SubRegion
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&r.Code, &r.RegionStateCode, &r.Jurisdiction, &r.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// UpsertCounties inserts counties that are not yet known. Existing rows are
// left untouched.
func UpsertCounties(ctx context.Context, tx *sql.Tx, regions []models.SubRegion) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO counties (county_fips, state_fips, state, county)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (county_fips) DO NOTHING`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range regions {
		res, err := stmt.ExecContext(ctx, r.Code, r.RegionStateCode, r.Jurisdiction, r.Name)
		if err != nil {
			return inserted, err
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	return inserted, nil
}
