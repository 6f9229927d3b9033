package knowledge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// searchSQL retrieves the nearest documents across both corpora.
//
// Ordering is part of the Store contract: results are returned by descending
// cosine similarity, so callers never re-sort. Rows without an embedding are
// excluded rather than treated as zero-similarity matches.
const searchSQL = `SELECT id, title, content, source, similarity FROM (
	SELECT id, document_title AS title, document_content AS content,
	       '` + SourceHandbook + `' AS source,
	       1 - (embedding <=> $1) AS similarity
	FROM handbook_documents
	WHERE embedding IS NOT NULL
	UNION ALL
	SELECT id, post_title, reply, '` + SourceCommunity + `',
	       1 - (embedding <=> $1)
	FROM community_replies
	WHERE embedding IS NOT NULL
) AS matches
WHERE similarity > $2
ORDER BY similarity DESC
LIMIT $3`

// pendingSQL lists rows across both corpora that still need an embedding.
const pendingSQL = `SELECT id, title, content, source FROM (
	SELECT id, document_title AS title, document_content AS content,
	       '` + SourceHandbook + `' AS source
	FROM handbook_documents
	WHERE embedding IS NULL
	UNION ALL
	SELECT id, post_title, reply, '` + SourceCommunity + `'
	FROM community_replies
	WHERE embedding IS NULL
) AS pending
ORDER BY source, id
LIMIT $1`

// Store provides vector similarity search over the knowledge base
// (PostgreSQL + pgvector).
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewStore creates a knowledge Store.
func NewStore(pool *pgxpool.Pool, logger *slog.Logger) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, logger: logger}, nil
}

// Search returns the stored documents most similar to the query vector,
// ordered by descending similarity. Only documents whose cosine similarity
// exceeds threshold are returned, at most limit of them. An empty result is
// a success with zero elements.
func (s *Store) Search(ctx context.Context, vec []float32, threshold float64, limit int) ([]Match, error) {
	v := pgvector.NewVector(vec)

	rows, err := s.pool.Query(ctx, searchSQL, v, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.Title, &m.Content, &m.Source, &m.Similarity); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading matches: %w", err)
	}

	s.logger.Debug("vector search completed",
		"matches", len(matches), "threshold", threshold, "limit", limit)
	return matches, nil
}

// ListPending returns documents from both corpora that have no embedding yet,
// up to limit rows. Used by the backfill job.
func (s *Store) ListPending(ctx context.Context, limit int32) ([]Document, error) {
	rows, err := s.pool.Query(ctx, pendingSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("querying pending documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Title, &d.Content, &d.Source); err != nil {
			return nil, fmt.Errorf("scanning pending document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading pending documents: %w", err)
	}

	return docs, nil
}

// SetEmbedding writes the embedding for a single document identified by its
// corpus source and row id.
func (s *Store) SetEmbedding(ctx context.Context, source string, id int64, vec []float32) error {
	var sql string
	switch source {
	case SourceHandbook:
		sql = `UPDATE handbook_documents SET embedding = $1, updated_at = now() WHERE id = $2`
	case SourceCommunity:
		sql = `UPDATE community_replies SET embedding = $1, updated_at = now() WHERE id = $2`
	default:
		return fmt.Errorf("unknown source %q", source)
	}

	v := pgvector.NewVector(vec)
	tag, err := s.pool.Exec(ctx, sql, v, id)
	if err != nil {
		return fmt.Errorf("updating embedding for %s/%d: %w", source, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no row %s/%d to update", source, id)
	}
	return nil
}

// InsertReply inserts a community reply without an embedding. The backfill
// job computes embeddings for imported rows later.
func (s *Store) InsertReply(ctx context.Context, r Reply) error {
	var title, description, author *string
	if r.PostTitle != "" {
		title = &r.PostTitle
	}
	if r.PostDescription != "" {
		description = &r.PostDescription
	}
	if r.Author != "" {
		author = &r.Author
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO community_replies (post_title, post_description, author, reply)
		 VALUES ($1, $2, $3, $4)`,
		title, description, author, r.Reply)
	if err != nil {
		return fmt.Errorf("inserting reply: %w", err)
	}
	return nil
}

// Pool exposes the underlying connection pool for readiness probes.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}
