// internal/models/cost.go
package models

// CostQuery echoes one (age, setting) combination the caller asked about.
type CostQuery struct {
	AgeGroup AgeBand     `json:"age_group"`
	Setting  CareSetting `json:"setting"`
	Metric   string      `json:"metric"`
	Units    string      `json:"units"`
}

type PricePair struct {
	Median *float64 `json:"median"`
	P75    *float64 `json:"p75"`
}

type CostLine struct {
	AgeGroup AgeBand     `json:"age_group"`
	Setting  CareSetting `json:"setting"`
	Weekly   PricePair   `json:"weekly"`
	Monthly  PricePair   `json:"monthly"`
}

// CostAnswer is the payload of the deterministic price path.
type CostAnswer struct {
	State      string      `json:"state"`
	CountyFIPS string      `json:"county_fips"`
	County     string      `json:"county"`
	Queries    []CostQuery `json:"queries"`
	Answers    []CostLine  `json:"answers"`
	Notes      []string    `json:"notes"`
	Citations  []string    `json:"citations"`
}
