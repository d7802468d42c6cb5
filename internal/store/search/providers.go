// internal/store/search/providers.go
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"childcare-assistant/internal/models"
)

var (
	ErrSearchFailed = errors.New("PROVIDER_SEARCH_FAILED")
	ErrBulkFailed   = errors.New("PROVIDER_BULK_FAILED")
)

var zipPattern = regexp.MustCompile(`^\d{5}$`)

const providerMapping = `{
  "mappings": {
    "properties": {
      "name":           { "type": "text", "fields": { "raw": { "type": "keyword" } } },
      "address":        { "type": "text" },
      "city":           { "type": "text" },
      "city_upper":     { "type": "keyword" },
      "zip":            { "type": "keyword" },
      "state":          { "type": "keyword" },
      "license_type":   { "type": "keyword" },
      "license_status": { "type": "keyword" },
      "qris_rating":    { "type": "keyword" },
      "source_url":     { "type": "keyword", "index": false },
      "last_seen":      { "type": "date" }
    }
  }
}`

// providerDoc is the indexed form of a provider. city_upper backs the exact,
// case-insensitive city filter.
type providerDoc struct {
	models.Provider
	CityUpper string `json:"city_upper"`
}

// ProviderIndex serves provider lookups from Elasticsearch.
type ProviderIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewProviderIndex(client *elasticsearch.Client, index string) *ProviderIndex {
	return &ProviderIndex{client: client, index: index}
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (p *ProviderIndex) EnsureIndex(ctx context.Context) error {
	res, err := p.client.Indices.Exists([]string{p.index}, p.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", p.index, err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = p.client.Indices.Create(p.index,
		p.client.Indices.Create.WithContext(ctx),
		p.client.Indices.Create.WithBody(strings.NewReader(providerMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", p.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", p.index, res.String())
	}
	return nil
}

// SearchProviders applies the same filters as the SQL store: state, then ZIP
// for five digits or exact city otherwise.
func (p *ProviderIndex) SearchProviders(ctx context.Context, jurisdiction, place string, limit int) ([]models.Provider, error) {
	filters := []map[string]interface{}{
		{"term": map[string]interface{}{"state": jurisdiction}},
	}
	switch place = strings.TrimSpace(place); {
	case place == "":
	case zipPattern.MatchString(place):
		filters = append(filters, map[string]interface{}{"term": map[string]interface{}{"zip": place}})
	default:
		filters = append(filters, map[string]interface{}{"term": map[string]interface{}{"city_upper": strings.ToUpper(place)}})
	}

	body, err := json.Marshal(map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"filter": filters},
		},
		"sort": []interface{}{map[string]interface{}{"name.raw": "asc"}},
		"size": limit,
	})
	if err != nil {
		return nil, err
	}

	req := esapi.SearchRequest{
		Index: []string{p.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, p.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchFailed, res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source providerDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrSearchFailed, err)
	}

	providers := make([]models.Provider, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		providers = append(providers, hit.Source.Provider)
	}
	return providers, nil
}

// IndexProviders writes providers with the bulk API and returns how many
// were accepted. Documents are keyed by state, ZIP and name so re-indexing
// replaces rather than duplicates.
func (p *ProviderIndex) IndexProviders(ctx context.Context, providers []models.Provider) (int, error) {
	if len(providers) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, prov := range providers {
		meta := map[string]interface{}{
			"index": map[string]interface{}{"_index": p.index, "_id": DocumentID(prov)},
		}
		if err := enc.Encode(meta); err != nil {
			return 0, err
		}
		if err := enc.Encode(providerDoc{Provider: prov, CityUpper: strings.ToUpper(prov.City)}); err != nil {
			return 0, err
		}
	}

	res, err := p.client.Bulk(bytes.NewReader(buf.Bytes()),
		p.client.Bulk.WithContext(ctx),
		p.client.Bulk.WithIndex(p.index),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBulkFailed, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, fmt.Errorf("%w: %s", ErrBulkFailed, res.String())
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBulkFailed, err)
	}
	var parsed struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int `json:"status"`
		} `json:"items"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return 0, fmt.Errorf("%w: decode: %v", ErrBulkFailed, err)
	}

	accepted := 0
	for _, item := range parsed.Items {
		for _, result := range item {
			if result.Status >= 200 && result.Status < 300 {
				accepted++
			}
		}
	}
	if parsed.Errors {
		return accepted, fmt.Errorf("%w: %d of %d documents rejected", ErrBulkFailed, len(providers)-accepted, len(providers))
	}
	return accepted, nil
}

// DocumentID is the stable index key of a provider.
func DocumentID(p models.Provider) string {
	name := strings.ToLower(strings.Join(strings.Fields(p.Name), "-"))
	return fmt.Sprintf("%s:%s:%s", p.State, p.Zip, name)
}
