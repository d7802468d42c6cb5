// internal/store/postgres/documents.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"childcare-assistant/internal/models"
)

// DocumentStore reads evidence passages from the documents table.
type DocumentStore struct {
	db *sql.DB
}

func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// SimilaritySearch ranks the jurisdiction's documents by cosine distance to
// vector. A nil intents slice disables the intent filter.
func (s *DocumentStore) SimilaritySearch(ctx context.Context, jurisdiction string, intents []string, vector []float64, limit int) ([]models.EvidenceDocument, error) {
	vec := make([]float32, len(vector))
	for i, v := range vector {
		vec[i] = float32(v)
	}

	args := []interface{}{pgvector.NewVector(vec), jurisdiction}
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, title, url, state, intent, content,
		       1 - (embedding <=> $1::vector) AS similarity
		FROM documents
		WHERE state = $2`)
	if intents != nil {
		args = append(args, pq.Array(intents))
		fmt.Fprintf(&sb, "\n\t\t  AND (intent = ANY($%d) OR intent IS NULL)", len(args))
	}
	args = append(args, limit)
	fmt.Fprintf(&sb, "\n\t\tORDER BY embedding <=> $1::vector, id\n\t\tLIMIT $%d", len(args))

	return s.query(ctx, sb.String(), args...)
}

// KeywordSearch is a case-insensitive substring match over title and content.
// Each pattern is an ILIKE pattern; a document matching any of them qualifies.
// Results carry no similarity.
func (s *DocumentStore) KeywordSearch(ctx context.Context, jurisdiction string, intents []string, patterns []string, limit int) ([]models.EvidenceDocument, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	args := []interface{}{jurisdiction}
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, title, url, state, intent, content,
		       NULL::float8 AS similarity
		FROM documents
		WHERE state = $1`)
	if intents != nil {
		args = append(args, pq.Array(intents))
		fmt.Fprintf(&sb, "\n\t\t  AND (intent = ANY($%d) OR intent IS NULL)", len(args))
	}
	args = append(args, pq.Array(patterns))
	p := len(args)
	fmt.Fprintf(&sb, "\n\t\t  AND (title ILIKE ANY($%d) OR content ILIKE ANY($%d))", p, p)
	args = append(args, limit)
	fmt.Fprintf(&sb, "\n\t\tORDER BY id\n\t\tLIMIT $%d", len(args))

	return s.query(ctx, sb.String(), args...)
}

func (s *DocumentStore) query(ctx context.Context, query string, args ...interface{}) ([]models.EvidenceDocument, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []models.EvidenceDocument{}
	for rows.Next() {
		var (
			d          models.EvidenceDocument
			url        sql.NullString
			intent     sql.NullString
			similarity sql.NullFloat64
		)
		if err := rows.Scan(&d.ID, &d.Title, &url, &d.Jurisdiction, &intent, &d.Content, &similarity); err != nil {
			return nil, err
		}
		d.URL = url.String
		if intent.Valid {
			v := intent.String
			d.Intent = &v
		}
		if similarity.Valid {
			v := similarity.Float64
			d.Similarity = &v
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
