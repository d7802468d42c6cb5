// internal/models/request.go
package models

// Hints are optional structured fields a client may send alongside the text.
type Hints struct {
	SubRegionCode string `json:"countyFips,omitempty"`
	SubRegionName string `json:"county,omitempty"`
	Age           string `json:"age,omitempty"`
	Setting       string `json:"setting,omitempty"`
	Metric        string `json:"metric,omitempty"`
	Units         string `json:"units,omitempty"`
	CityOrZip     string `json:"cityOrZip,omitempty"`
}

// ChatRequest is the normalized inbound question.
type ChatRequest struct {
	RequestID    string `json:"requestId,omitempty"`
	Jurisdiction string `json:"state,omitempty"`
	Message      string `json:"message"`
	Intent       string `json:"intent,omitempty"`
	Hints        Hints  `json:"hints"`
}
