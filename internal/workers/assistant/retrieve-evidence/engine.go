// internal/workers/assistant/retrieve-evidence/engine.go
package retrieveevidence

import (
	"context"
	"strings"

	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/common/llm"
	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/common/metrics"
	"childcare-assistant/internal/models"
)

// BroadeningPhrases widen a documentation search that came back nearly empty.
var BroadeningPhrases = []string{
	"child care regulations",
	"licensing requirements",
	"subsidy program manual",
	"provider handbook",
	"eligibility policy",
}

// DocumentStore is satisfied by postgres.DocumentStore.
type DocumentStore interface {
	SimilaritySearch(ctx context.Context, jurisdiction string, intents []string, vector []float64, limit int) ([]models.EvidenceDocument, error)
	KeywordSearch(ctx context.Context, jurisdiction string, intents []string, patterns []string, limit int) ([]models.EvidenceDocument, error)
}

// SearchRequest scopes one retrieval. With IgnoreIntent set the engine runs
// in documentation mode: no intent filter and one broadening retry.
type SearchRequest struct {
	Jurisdiction   string
	Intent         models.Intent
	AllowedIntents []string
	Query          string
	K              int
	IgnoreIntent   bool
}

type Engine struct {
	embedder llm.Embedder
	store    DocumentStore
	cache    *EmbeddingCache
	broadK   int
	logger   logger.Logger
}

func NewEngine(embedder llm.Embedder, store DocumentStore, cache *EmbeddingCache, broadK int, log logger.Logger) *Engine {
	if broadK <= 0 {
		broadK = 12
	}
	return &Engine{embedder: embedder, store: store, cache: cache, broadK: broadK, logger: log}
}

// Search returns at most req.K documents of req.Jurisdiction. An empty
// result is not an error.
func (e *Engine) Search(ctx context.Context, req SearchRequest) ([]models.EvidenceDocument, error) {
	var intents []string
	if !req.IgnoreIntent {
		intents = req.AllowedIntents
		if len(intents) == 0 {
			intents = []string{req.Intent.String()}
		}
	}

	docs, err := e.search(ctx, req.Jurisdiction, intents, req.Query, KeywordPatterns(req.Query), req.K)
	if err != nil {
		return nil, err
	}

	if req.IgnoreIntent && len(docs) < 2 {
		alternatives := append([]string{req.Query}, BroadeningPhrases...)
		more, err := e.search(ctx, req.Jurisdiction, nil, BroadenQuery(req.Query), KeywordPatterns(alternatives...), e.broadK)
		if err != nil {
			return nil, err
		}
		metrics.RetrievalFallbacks.WithLabelValues("broadened").Inc()
		e.logger.Debug("documentation search broadened", map[string]interface{}{
			"before": len(docs),
			"after":  len(more),
		})
		if len(more) > len(docs) {
			docs = more
		}
	}

	return inJurisdiction(docs, req.Jurisdiction), nil
}

// search embeds query for the similarity pass; patterns drive the keyword
// fallback.
func (e *Engine) search(ctx context.Context, jurisdiction string, intents []string, query string, patterns []string, k int) ([]models.EvidenceDocument, error) {
	vec, err := e.embed(ctx, query)
	if err != nil {
		return nil, err
	}

	docs, err := e.store.SimilaritySearch(ctx, jurisdiction, intents, vec, k)
	if err != nil {
		return nil, apperrors.NewUpstreamFailureError("document store", err)
	}
	if len(docs) > 0 {
		return truncate(docs, k), nil
	}

	metrics.RetrievalFallbacks.WithLabelValues("keyword").Inc()
	docs, err = e.store.KeywordSearch(ctx, jurisdiction, intents, patterns, k)
	if err != nil {
		return nil, apperrors.NewUpstreamFailureError("document store", err)
	}
	for i := range docs {
		docs[i].Similarity = nil
	}
	return truncate(docs, k), nil
}

func (e *Engine) embed(ctx context.Context, text string) ([]float64, error) {
	if vec, ok := e.cache.Get(ctx, text); ok {
		return vec, nil
	}
	vec, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return nil, apperrors.NewUpstreamFailureError("embedding", err)
	}
	e.cache.Set(ctx, text, vec)
	return vec, nil
}

// BroadenQuery joins the query and the broadening phrases with " OR ".
func BroadenQuery(query string) string {
	parts := append([]string{query}, BroadeningPhrases...)
	return strings.Join(parts, " OR ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// KeywordPatterns turns each alternative into one ILIKE substring pattern.
// An alternative is matched whole, even when it contains " OR ".
func KeywordPatterns(alternatives ...string) []string {
	var out []string
	for _, part := range alternatives {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, "%"+likeEscaper.Replace(part)+"%")
	}
	return out
}

func inJurisdiction(docs []models.EvidenceDocument, jurisdiction string) []models.EvidenceDocument {
	out := docs[:0]
	for _, d := range docs {
		if strings.EqualFold(d.Jurisdiction, jurisdiction) {
			out = append(out, d)
		}
	}
	return out
}

func truncate(docs []models.EvidenceDocument, k int) []models.EvidenceDocument {
	if k > 0 && len(docs) > k {
		return docs[:k]
	}
	return docs
}
