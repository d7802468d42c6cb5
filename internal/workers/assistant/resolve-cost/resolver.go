// internal/workers/assistant/resolve-cost/resolver.go
package resolvecost

import (
	"context"
	"fmt"
	"strings"

	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/models"
)

// SubRegionStore is satisfied by postgres.RegionStore.
type SubRegionStore interface {
	SubRegionByCode(ctx context.Context, code string) (*models.SubRegion, error)
	SubRegionByName(ctx context.Context, jurisdiction, name string) (*models.SubRegion, error)
}

// PriceStore is satisfied by postgres.PriceStore.
type PriceStore interface {
	PriceRows(ctx context.Context, code string, year int, age *models.AgeBand, setting *models.CareSetting) ([]models.PriceRow, error)
}

// Query is one cost question. Message is only consulted for a county name
// when neither SubRegionCode nor SubRegionName is given.
type Query struct {
	Jurisdiction  string
	SubRegionCode string
	SubRegionName string
	Age           string
	Setting       string
	Metric        string
	Units         string
	Message       string
}

var defaultAges = []models.AgeBand{models.AgeInfant, models.AgeToddler, models.AgePreschool}

var defaultSettings = []models.CareSetting{models.SettingCenter, models.SettingFamily}

type Resolver struct {
	regions SubRegionStore
	prices  PriceStore
	year    int
}

func NewResolver(regions SubRegionStore, prices PriceStore, year int) *Resolver {
	return &Resolver{regions: regions, prices: prices, year: year}
}

func (r *Resolver) Resolve(ctx context.Context, q Query) (*models.CostAnswer, error) {
	region, err := r.resolveSubRegion(ctx, q)
	if err != nil {
		return nil, err
	}
	if region == nil {
		return nil, apperrors.NewSubRegionNotFoundError(q.Jurisdiction)
	}

	var agePtr *models.AgeBand
	ages := defaultAges
	if age, ok := NormalizeAge(q.Age); ok {
		agePtr = &age
		ages = []models.AgeBand{age}
	}
	var settingPtr *models.CareSetting
	settings := defaultSettings
	if setting, ok := NormalizeSetting(q.Setting); ok {
		settingPtr = &setting
		settings = []models.CareSetting{setting}
	}

	rows, err := r.prices.PriceRows(ctx, region.Code, r.year, agePtr, settingPtr)
	if err != nil {
		return nil, apperrors.NewUpstreamFailureError("database", err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewPriceNotFoundError(region.Name, q.Jurisdiction)
	}

	metric, units := NormalizeMetric(q.Metric), NormalizeUnits(q.Units)
	queries := make([]models.CostQuery, 0, len(ages)*len(settings))
	for _, a := range ages {
		for _, s := range settings {
			queries = append(queries, models.CostQuery{AgeGroup: a, Setting: s, Metric: metric, Units: units})
		}
	}

	answers := make([]models.CostLine, 0, len(rows))
	for _, row := range rows {
		answers = append(answers, models.CostLine{
			AgeGroup: row.AgeBand,
			Setting:  row.Setting,
			Weekly:   models.PricePair{Median: row.Median, P75: row.P75},
			Monthly:  models.PricePair{Median: MonthlyPtr(row.Median), P75: MonthlyPtr(row.P75)},
		})
	}

	return &models.CostAnswer{
		State:      q.Jurisdiction,
		CountyFIPS: region.Code,
		County:     region.Name,
		Queries:    queries,
		Answers:    answers,
		Notes: []string{
			fmt.Sprintf("Weekly prices come from NDCP %d.", r.year),
			"Monthly values derived using ×4.333.",
		},
		Citations: r.citations(rows),
	}, nil
}

// code first; a code from another jurisdiction counts as no match
func (r *Resolver) resolveSubRegion(ctx context.Context, q Query) (*models.SubRegion, error) {
	if code := strings.TrimSpace(q.SubRegionCode); code != "" {
		region, err := r.regions.SubRegionByCode(ctx, code)
		if err != nil {
			return nil, apperrors.NewUpstreamFailureError("database", err)
		}
		if region != nil && strings.EqualFold(region.Jurisdiction, q.Jurisdiction) {
			return region, nil
		}
	}

	name := strings.TrimSpace(q.SubRegionName)
	if name == "" && strings.TrimSpace(q.SubRegionCode) == "" {
		name = CountyHint(q.Message)
	}
	if name == "" {
		return nil, nil
	}

	region, err := r.regions.SubRegionByName(ctx, q.Jurisdiction, name)
	if err != nil {
		return nil, apperrors.NewUpstreamFailureError("database", err)
	}
	return region, nil
}

func (r *Resolver) citations(rows []models.PriceRow) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range rows {
		if row.Source == "" || seen[row.Source] {
			continue
		}
		seen[row.Source] = true
		out = append(out, row.Source)
	}
	if len(out) == 0 {
		out = []string{fmt.Sprintf("NDCP %d (prices_ndcp)", r.year)}
	}
	return out
}
