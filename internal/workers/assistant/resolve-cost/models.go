// internal/workers/assistant/resolve-cost/models.go
package resolvecost

import "childcare-assistant/internal/models"

type Input struct {
	Jurisdiction  string `json:"jurisdiction"`
	Message       string `json:"message"`
	SubRegionCode string `json:"countyFips,omitempty"`
	SubRegionName string `json:"county,omitempty"`
	Age           string `json:"age,omitempty"`
	Setting       string `json:"setting,omitempty"`
	Metric        string `json:"metric,omitempty"`
	Units         string `json:"units,omitempty"`
}

type Output struct {
	Cost *models.CostAnswer `json:"cost"`
}
