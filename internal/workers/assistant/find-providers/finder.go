// internal/workers/assistant/find-providers/finder.go
package findproviders

import (
	"context"

	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/models"
)

// ProviderSearcher is satisfied by both the Postgres store and the
// Elasticsearch index.
type ProviderSearcher interface {
	SearchProviders(ctx context.Context, jurisdiction, place string, limit int) ([]models.Provider, error)
}

type Result struct {
	Providers []models.Provider `json:"providers"`
	Place     string            `json:"place"`
	Answer    string            `json:"answer"`
}

type Finder struct {
	searcher ProviderSearcher
	limit    int
}

func NewFinder(searcher ProviderSearcher, limit int) *Finder {
	if limit <= 0 {
		limit = 10
	}
	return &Finder{searcher: searcher, limit: limit}
}

// Find searches jurisdiction for the place named by the hint or message.
// With no place it lists the jurisdiction and names it in the answer.
func (f *Finder) Find(ctx context.Context, jurisdiction, cityOrZip, message string) (*Result, error) {
	place := Place(cityOrZip, message)

	providers, err := f.searcher.SearchProviders(ctx, jurisdiction, place, f.limit)
	if err != nil {
		return nil, apperrors.NewUpstreamFailureError("provider search", err)
	}
	if providers == nil {
		providers = []models.Provider{}
	}

	if place == "" {
		place = jurisdiction
	}
	return &Result{
		Providers: providers,
		Place:     place,
		Answer:    Answer(len(providers), place),
	}, nil
}
