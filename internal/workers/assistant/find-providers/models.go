// internal/workers/assistant/find-providers/models.go
package findproviders

type Input struct {
	Jurisdiction string `json:"jurisdiction"`
	CityOrZip    string `json:"cityOrZip"`
	Message      string `json:"message"`
}

type Output = Result
