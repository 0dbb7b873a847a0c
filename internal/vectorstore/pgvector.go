package vectorstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ainotes/internal/contextutil"
)

const (
	pgvCreateExtension = `CREATE EXTENSION IF NOT EXISTS vector`

	pgvCreateTableTemplate = `
CREATE TABLE IF NOT EXISTS %s (
    id VARCHAR(255) PRIMARY KEY,
    metadata JSONB NOT NULL DEFAULT '{}',
    embedding VECTOR(%d) NOT NULL
)`

	pgvCreateIndexTemplate = `
CREATE INDEX IF NOT EXISTS %s_meta_idx
ON %s
USING gin (metadata jsonb_path_ops)`

	pgvCheckDimensionSQL = `
SELECT a.atttypmod AS dimension
FROM pg_attribute a
JOIN pg_class c ON a.attrelid = c.oid
WHERE c.relname = ?
AND a.attname = 'embedding'`
)

// pgPoint is one row of a pgvector collection table.
type pgPoint struct {
	ID        string            `gorm:"column:id;primaryKey"`
	Metadata  datatypes.JSONMap `gorm:"column:metadata"`
	Embedding pgvector.Vector   `gorm:"column:embedding"`
}

// pgHit is a search row with its cosine similarity.
type pgHit struct {
	ID       string
	Metadata datatypes.JSONMap
	Score    float32
}

// PgVectorStore implements VectorStore on PostgreSQL with the pgvector
// extension. Each collection is a table named pgvector_<collection>_points.
type PgVectorStore struct {
	db *gorm.DB
}

// NewPgVectorStore creates a new PgVectorStore on an open Postgres connection.
func NewPgVectorStore(db *gorm.DB) *PgVectorStore {
	return &PgVectorStore{db: db}
}

// pgTableName derives a safe table identifier from a collection name.
func pgTableName(collection string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(collection) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return "pgvector_" + b.String() + "_points"
}

// containmentJSON encodes filter for the jsonb @> operator.
func containmentJSON(filter Filter) (string, error) {
	for field, value := range filter {
		switch value.(type) {
		case int, int32, int64, string, bool:
		default:
			return "", fmt.Errorf("%w: %s has type %T", ErrUnsupportedFilter, field, value)
		}
	}
	raw, err := json.Marshal(filter)
	if err != nil {
		return "", fmt.Errorf("failed to encode filter: %w", err)
	}
	return string(raw), nil
}

// Upsert inserts or updates points in the collection.
func (s *PgVectorStore) Upsert(ctx context.Context, collection string, points []Point) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(points) == 0 {
		return nil
	}

	rows := make([]pgPoint, 0, len(points))
	for _, p := range points {
		rows = append(rows, pgPoint{
			ID:        p.ID,
			Metadata:  datatypes.JSONMap(p.Meta),
			Embedding: pgvector.NewVector(p.Vec),
		})
	}

	err := s.db.WithContext(ctx).Table(pgTableName(collection)).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"metadata", "embedding"}),
	}).Create(&rows).Error
	if err != nil {
		logger.ErrorContext(ctx, "failed to upsert points", "collection", collection, "count", len(points), "error", err)
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	logger.DebugContext(ctx, "upserted points", "collection", collection, "count", len(points))
	return nil
}

// Search returns the k nearest points by cosine distance.
func (s *PgVectorStore) Search(ctx context.Context, collection string, query []float32, k int, filter Filter) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return nil, ErrInvalidK
	}

	vec := pgvector.NewVector(query)
	db := s.db.WithContext(ctx).
		Table(pgTableName(collection)).
		Select("id, metadata, 1 - (embedding <=> ?) AS score", vec)
	if len(filter) > 0 {
		cond, err := containmentJSON(filter)
		if err != nil {
			return nil, err
		}
		db = db.Where("metadata @> ?::jsonb", cond)
	}

	var hits []pgHit
	err := db.Clauses(clause.OrderBy{
		Expression: clause.Expr{SQL: "embedding <=> ?", Vars: []any{vec}},
	}).Limit(k).Scan(&hits).Error
	if err != nil {
		logger.ErrorContext(ctx, "failed to search points", "collection", collection, "k", k, "error", err)
		return nil, fmt.Errorf("failed to search points: %w", err)
	}

	results := make([]SearchResult, 0, len(hits))
	for _, h := range hits {
		meta := map[string]any(h.Metadata)
		if meta == nil {
			meta = make(map[string]any)
		}
		results = append(results, SearchResult{PointID: h.ID, Score: h.Score, Meta: meta})
	}

	logger.DebugContext(ctx, "search completed", "collection", collection, "k", k, "results", len(results))
	return results, nil
}

// Delete removes points by their IDs.
func (s *PgVectorStore) Delete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Table(pgTableName(collection)).
		Where("id IN ?", ids).
		Delete(&pgPoint{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete points: %w", err)
	}
	return nil
}

// DeleteByFilter removes every point whose metadata contains filter.
func (s *PgVectorStore) DeleteByFilter(ctx context.Context, collection string, filter Filter) error {
	if len(filter) == 0 {
		return ErrEmptyFilter
	}
	cond, err := containmentJSON(filter)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).
		Table(pgTableName(collection)).
		Where("metadata @> ?::jsonb", cond).
		Delete(&pgPoint{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete points by filter: %w", err)
	}
	return nil
}

// CollectionExists reports whether the collection table exists.
func (s *PgVectorStore) CollectionExists(ctx context.Context, collection string) (bool, error) {
	return s.db.WithContext(ctx).Migrator().HasTable(pgTableName(collection)), nil
}

// EnsureCollection creates the extension, table and metadata index, then
// checks the embedding column has the configured dimension.
func (s *PgVectorStore) EnsureCollection(ctx context.Context, collection string, vectorSize int) error {
	logger := contextutil.LoggerFromContext(ctx)
	table := pgTableName(collection)
	db := s.db.WithContext(ctx)

	if err := db.Exec(pgvCreateExtension).Error; err != nil {
		return fmt.Errorf("create extension: %w", err)
	}
	if err := db.Exec(fmt.Sprintf(pgvCreateTableTemplate, table, vectorSize)).Error; err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	if err := db.Exec(fmt.Sprintf(pgvCreateIndexTemplate, table, table)).Error; err != nil {
		logger.WarnContext(ctx, "failed to create metadata index", "table", table, "error", err)
	}

	var dimension int
	result := db.Raw(pgvCheckDimensionSQL, table).Scan(&dimension)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check dimension: %w", result.Error)
	}
	if result.RowsAffected > 0 && dimension != vectorSize {
		return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, vectorSize, dimension)
	}

	logger.InfoContext(ctx, "collection validated", "collection", collection, "table", table, "vector_size", vectorSize)
	return nil
}

var _ VectorStore = (*PgVectorStore)(nil)
