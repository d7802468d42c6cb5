package resolvecost

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/models"
	"childcare-assistant/internal/store/postgres"
)

// ==========================
// Test Helpers
// ==========================

var (
	countyColumns = []string{"county_fips", "state_fips", "state", "county"}
	priceColumns  = []string{"county_fips", "state_fips", "state", "county", "year", "age_group", "setting", "median", "p75", "source"}
)

const (
	byCodeSQL = `SELECT county_fips, state_fips, state, county\s+FROM counties\s+WHERE county_fips = \$1`
	byNameSQL = `SELECT county_fips, state_fips, state, county\s+FROM counties\s+WHERE state = \$1 AND LOWER\(county\) = LOWER\(\$2\)`
	pricesSQL = `SELECT county_fips, state_fips, state, county, year, age_group, setting,\s+median, p75, source\s+FROM prices_ndcp\s+WHERE county_fips = \$1 AND year = \$2`
)

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func newTestResolver(t *testing.T) (*Resolver, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewResolver(postgres.NewRegionStore(db), postgres.NewPriceStore(db), 2022), mock
}

func fayette() *sqlmock.Rows {
	return sqlmock.NewRows(countyColumns).AddRow("42051", "42", "PA", "Fayette County")
}

// ==========================
// Resolve
// ==========================

func TestResolver_Resolve_ByCode(t *testing.T) {
	r, mock := newTestResolver(t)

	mock.ExpectQuery(byCodeSQL).WithArgs("42051").WillReturnRows(fayette())
	mock.ExpectQuery(pricesSQL + ` AND age_group = \$3 AND setting = \$4`).
		WithArgs("42051", 2022, "infant", "family").
		WillReturnRows(sqlmock.NewRows(priceColumns).
			AddRow("42051", "42", "PA", "Fayette County", 2022, "infant", "family", 140.15, 150.0, "NDCP 2022 (prices_ndcp)"))

	got, err := r.Resolve(context.Background(), Query{
		Jurisdiction:  "PA",
		SubRegionCode: "42051",
		Age:           "Infants",
		Setting:       "home-based",
		Metric:        "75th percentile",
		Units:         "per month",
	})
	require.NoError(t, err)

	assert.Equal(t, "PA", got.State)
	assert.Equal(t, "42051", got.CountyFIPS)
	assert.Equal(t, "Fayette County", got.County)
	assert.Equal(t, []models.CostQuery{
		{AgeGroup: models.AgeInfant, Setting: models.SettingFamily, Metric: "p75", Units: "monthly"},
	}, got.Queries)

	require.Len(t, got.Answers, 1)
	line := got.Answers[0]
	assert.Equal(t, 140.15, *line.Weekly.Median)
	assert.Equal(t, 150.0, *line.Weekly.P75)
	assert.Equal(t, 607.27, *line.Monthly.Median)
	assert.Equal(t, 649.95, *line.Monthly.P75)

	assert.Equal(t, []string{"NDCP 2022 (prices_ndcp)"}, got.Citations)
	assert.Equal(t, []string{"Weekly prices come from NDCP 2022.", "Monthly values derived using ×4.333."}, got.Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolver_Resolve_NameFallbackAndDefaults(t *testing.T) {
	r, mock := newTestResolver(t)

	// unknown code, then the exact name
	mock.ExpectQuery(byCodeSQL).WithArgs("99999").WillReturnRows(sqlmock.NewRows(countyColumns))
	mock.ExpectQuery(byNameSQL).WithArgs("PA", "fayette county").WillReturnRows(fayette())
	mock.ExpectQuery(pricesSQL + `\s+ORDER BY age_group, setting`).
		WithArgs("42051", 2022).
		WillReturnRows(sqlmock.NewRows(priceColumns).
			AddRow("42051", "42", "PA", "Fayette County", 2022, "infant", "center", 200.0, nil, "NDCP 2022").
			AddRow("42051", "42", "PA", "Fayette County", 2022, "toddler", "center", 180.0, 190.0, "NDCP 2022").
			AddRow("42051", "42", "PA", "Fayette County", 2022, "toddler", "family", 120.0, 130.0, ""))

	got, err := r.Resolve(context.Background(), Query{
		Jurisdiction:  "PA",
		SubRegionCode: "99999",
		SubRegionName: "fayette county",
		Age:           "teenager", // unknown labels leave the filter unset
	})
	require.NoError(t, err)

	assert.Len(t, got.Queries, 6)
	assert.Equal(t, models.CostQuery{AgeGroup: models.AgeInfant, Setting: models.SettingCenter, Metric: "median", Units: "weekly"}, got.Queries[0])
	assert.Equal(t, models.CostQuery{AgeGroup: models.AgePreschool, Setting: models.SettingFamily, Metric: "median", Units: "weekly"}, got.Queries[5])

	require.Len(t, got.Answers, 3)
	assert.Nil(t, got.Answers[0].Weekly.P75)
	assert.Nil(t, got.Answers[0].Monthly.P75)
	assert.Equal(t, 866.6, *got.Answers[0].Monthly.Median)
	assert.Equal(t, []string{"NDCP 2022"}, got.Citations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolver_Resolve_CountyHintFromMessage(t *testing.T) {
	r, mock := newTestResolver(t)

	mock.ExpectQuery(byNameSQL).WithArgs("PA", "fayette county").WillReturnRows(fayette())
	mock.ExpectQuery(pricesSQL).WithArgs("42051", 2022).
		WillReturnRows(sqlmock.NewRows(priceColumns).
			AddRow("42051", "42", "PA", "Fayette County", 2022, "infant", "center", 200.0, 220.0, nil))

	got, err := r.Resolve(context.Background(), Query{
		Jurisdiction: "PA",
		Message:      "How much is infant care in Fayette County?",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"NDCP 2022 (prices_ndcp)"}, got.Citations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolver_Resolve_CodeFromOtherJurisdiction(t *testing.T) {
	r, mock := newTestResolver(t)

	mock.ExpectQuery(byCodeSQL).WithArgs("54061").
		WillReturnRows(sqlmock.NewRows(countyColumns).AddRow("54061", "54", "WV", "Monongalia County"))

	_, err := r.Resolve(context.Background(), Query{Jurisdiction: "PA", SubRegionCode: "54061"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeSubRegionNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolver_Resolve_NotFoundKinds(t *testing.T) {
	t.Run("no sub-region", func(t *testing.T) {
		r, mock := newTestResolver(t)
		mock.ExpectQuery(byNameSQL).WithArgs("PA", "Atlantis").WillReturnRows(sqlmock.NewRows(countyColumns))

		_, err := r.Resolve(context.Background(), Query{Jurisdiction: "PA", SubRegionName: "Atlantis"})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeSubRegionNotFound))
		assert.Contains(t, err.Error(), "exact county name in PA")
	})

	t.Run("nothing to resolve", func(t *testing.T) {
		r, _ := newTestResolver(t)
		_, err := r.Resolve(context.Background(), Query{Jurisdiction: "PA", Message: "how much is daycare"})
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeSubRegionNotFound))
	})

	t.Run("resolved county without prices", func(t *testing.T) {
		r, mock := newTestResolver(t)
		mock.ExpectQuery(byCodeSQL).WithArgs("42051").WillReturnRows(fayette())
		mock.ExpectQuery(pricesSQL).WithArgs("42051", 2022).WillReturnRows(sqlmock.NewRows(priceColumns))

		_, err := r.Resolve(context.Background(), Query{Jurisdiction: "PA", SubRegionCode: "42051"})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodePriceNotFound))
		assert.False(t, apperrors.Is(err, apperrors.ErrCodeSubRegionNotFound))
		assert.Contains(t, err.Error(), "No NDCP price rows found for Fayette County, PA.")
	})
}

func TestResolver_Resolve_DatabaseFailure(t *testing.T) {
	r, mock := newTestResolver(t)
	mock.ExpectQuery(byCodeSQL).WithArgs("42051").WillReturnError(errors.New("connection refused"))

	_, err := r.Resolve(context.Background(), Query{Jurisdiction: "PA", SubRegionCode: "42051"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeUpstreamFailure))
}

// ==========================
// Handler
// ==========================

func TestHandler_Execute(t *testing.T) {
	r, mock := newTestResolver(t)
	mock.ExpectQuery(byCodeSQL).WithArgs("42051").WillReturnRows(fayette())
	mock.ExpectQuery(pricesSQL).WithArgs("42051", 2022, "preschool").
		WillReturnRows(sqlmock.NewRows(priceColumns).
			AddRow("42051", "42", "PA", "Fayette County", 2022, "preschool", "center", 150.0, 160.0, "NDCP 2022"))

	h := NewHandler(&Config{ReferenceYear: 2022, Timeout: time.Second}, r, createTestLogger(t))
	out, err := h.Execute(context.Background(), &Input{Jurisdiction: "pa", SubRegionCode: "42051", Age: "pre-school"})

	require.NoError(t, err)
	assert.Equal(t, "PA", out.Cost.State)
	assert.Len(t, out.Cost.Queries, 2)
	assert.NoError(t, mock.ExpectationsWereMet())

	_, err = h.Execute(context.Background(), &Input{})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInputInvalid))
}
