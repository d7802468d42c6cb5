// internal/models/evidence.go
package models

// EvidenceDocument is a retrievable passage used to ground generated answers.
// Similarity is nil when the document came from the keyword fallback, which
// carries no ranking.
type EvidenceDocument struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	URL          string   `json:"url"`
	Jurisdiction string   `json:"jurisdiction"`
	Intent       *string  `json:"intent"`
	Content      string   `json:"content"`
	Similarity   *float64 `json:"similarity"`
}

// Source is the evidence metadata echoed back to clients.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

func SourcesFromDocuments(docs []EvidenceDocument) []Source {
	out := make([]Source, 0, len(docs))
	for _, d := range docs {
		out = append(out, Source{Title: d.Title, URL: d.URL})
	}
	return out
}
