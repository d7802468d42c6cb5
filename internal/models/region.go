// internal/models/region.go
package models

type AgeBand string

const (
	AgeInfant    AgeBand = "infant"
	AgeToddler   AgeBand = "toddler"
	AgePreschool AgeBand = "preschool"
	AgeSchoolAge AgeBand = "school-age"
	AgeMixed     AgeBand = "mixed"
)

type CareSetting string

const (
	SettingCenter CareSetting = "center"
	SettingFamily CareSetting = "family"
)

// SubRegion is a county within a jurisdiction.
type SubRegion struct {
	Code            string `json:"county_fips"`
	RegionStateCode string `json:"state_fips"`
	Jurisdiction    string `json:"state"`
	Name            string `json:"county"`
}

// PriceRow is one weekly price statistic. (Code, Year, AgeBand, Setting) is
// the natural key.
type PriceRow struct {
	Code            string      `json:"county_fips"`
	RegionStateCode string      `json:"state_fips"`
	Jurisdiction    string      `json:"state"`
	County          string      `json:"county"`
	Year            int         `json:"year"`
	AgeBand         AgeBand     `json:"age_group"`
	Setting         CareSetting `json:"setting"`
	P10             *float64    `json:"p10,omitempty"`
	P25             *float64    `json:"p25,omitempty"`
	Median          *float64    `json:"median"`
	P75             *float64    `json:"p75"`
	P90             *float64    `json:"p90,omitempty"`
	Source          string      `json:"source"`
}

// PriceKey identifies a PriceRow.
type PriceKey struct {
	Code    string
	Year    int
	AgeBand AgeBand
	Setting CareSetting
}

func (r PriceRow) Key() PriceKey {
	return PriceKey{Code: r.Code, Year: r.Year, AgeBand: r.AgeBand, Setting: r.Setting}
}
