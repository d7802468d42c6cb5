// internal/store/postgres/providers.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"childcare-assistant/internal/models"
)

var zipPattern = regexp.MustCompile(`^\d{5}$`)

type ProviderStore struct {
	db *sql.DB
}

func NewProviderStore(db *sql.DB) *ProviderStore {
	return &ProviderStore{db: db}
}

// SearchProviders filters by ZIP when place is five digits, otherwise by city.
// An empty place lists the jurisdiction.
func (s *ProviderStore) SearchProviders(ctx context.Context, jurisdiction, place string, limit int) ([]models.Provider, error) {
	args := []interface{}{jurisdiction}
	where := "state = $1"
	switch place = strings.TrimSpace(place); {
	case place == "":
	case zipPattern.MatchString(place):
		args = append(args, place)
		where += fmt.Sprintf(" AND zip = $%d", len(args))
	default:
		args = append(args, strings.ToUpper(place))
		where += fmt.Sprintf(" AND UPPER(city) = $%d", len(args))
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT name, address, city, zip, state, license_type, license_status,
		       qris_rating, source_url, last_seen
		FROM providers
		WHERE %s
		ORDER BY name
		LIMIT $%d`, where, len(args))
	return s.query(ctx, query, args...)
}

// ListProviders pages through a jurisdiction in name order for indexing.
func (s *ProviderStore) ListProviders(ctx context.Context, jurisdiction string, offset, limit int) ([]models.Provider, error) {
	return s.query(ctx, `
		SELECT name, address, city, zip, state, license_type, license_status,
		       qris_rating, source_url, last_seen
		FROM providers
		WHERE state = $1
		ORDER BY name, zip
		OFFSET $2 LIMIT $3`, jurisdiction, offset, limit)
}

func (s *ProviderStore) query(ctx context.Context, query string, args ...interface{}) ([]models.Provider, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	providers := []models.Provider{}
	for rows.Next() {
		var (
			p                          models.Provider
			address, city, zip, state  sql.NullString
			licenseType, licenseStatus sql.NullString
			qris, sourceURL            sql.NullString
			lastSeen                   sql.NullTime
		)
		if err := rows.Scan(&p.Name, &address, &city, &zip, &state, &licenseType, &licenseStatus,
			&qris, &sourceURL, &lastSeen); err != nil {
			return nil, err
		}
		p.Address = address.String
		p.City = city.String
		p.Zip = zip.String
		p.State = state.String
		p.LicenseType = nullableString(licenseType)
		p.LicenseStatus = nullableString(licenseStatus)
		p.QRISRating = nullableString(qris)
		p.SourceURL = nullableString(sourceURL)
		if lastSeen.Valid {
			t := lastSeen.Time.UTC().Truncate(time.Second)
			p.LastSeen = &t
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
