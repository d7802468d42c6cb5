package ingest

import (
	"context"
	"fmt"

	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/models"
)

const DefaultPageSize = 500

// ProviderLister pages through stored providers.
type ProviderLister interface {
	ListProviders(ctx context.Context, jurisdiction string, offset, limit int) ([]models.Provider, error)
}

// ProviderIndexer receives providers in bulk.
type ProviderIndexer interface {
	EnsureIndex(ctx context.Context) error
	IndexProviders(ctx context.Context, providers []models.Provider) (int, error)
}

// IndexProviders copies every provider of jurisdiction from src into dst,
// one page at a time. It returns the number of documents accepted.
func IndexProviders(ctx context.Context, src ProviderLister, dst ProviderIndexer, jurisdiction string, pageSize int, log logger.Logger) (int, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if err := dst.EnsureIndex(ctx); err != nil {
		return 0, fmt.Errorf("ensure index: %w", err)
	}

	total := 0
	for offset := 0; ; offset += pageSize {
		page, err := src.ListProviders(ctx, jurisdiction, offset, pageSize)
		if err != nil {
			return total, fmt.Errorf("list providers at offset %d: %w", offset, err)
		}
		if len(page) == 0 {
			break
		}
		n, err := dst.IndexProviders(ctx, page)
		total += n
		if err != nil {
			return total, err
		}
		log.Debug("indexed provider page", map[string]interface{}{"offset": offset, "accepted": n})
		if len(page) < pageSize {
			break
		}
	}
	return total, nil
}
