package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks ainotes/internal/vectorstore VectorStore

import (
	"context"
	"errors"
)

var (
	// ErrInvalidK is returned when Search is called with k <= 0.
	ErrInvalidK = errors.New("k must be greater than 0")
	// ErrDimensionMismatch is returned when an existing collection has a
	// different vector size than the configured one.
	ErrDimensionMismatch = errors.New("collection vector size mismatch")
	// ErrEmptyFilter is returned by DeleteByFilter when no condition is given,
	// which would otherwise wipe the whole collection.
	ErrEmptyFilter = errors.New("filter must have at least one condition")
	// ErrUnsupportedFilter is returned for filter values that cannot be
	// matched exactly.
	ErrUnsupportedFilter = errors.New("unsupported filter value")
)

// Point represents a vector point with metadata.
// ID is the application-level vector id, e.g. "note-42".
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// Filter is a set of exact equality conditions on point metadata.
// All conditions must hold.
type Filter map[string]any

// VectorStore defines the interface for vector storage operations.
// Calls are not part of any relational transaction.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search returns up to k points most similar to query, best first,
	// restricted to points matching filter.
	Search(ctx context.Context, collection string, query []float32, k int, filter Filter) ([]SearchResult, error)

	// Delete removes points by their IDs. Missing ids are not an error.
	Delete(ctx context.Context, collection string, ids []string) error

	// DeleteByFilter removes every point matching filter.
	DeleteByFilter(ctx context.Context, collection string, filter Filter) error

	// EnsureCollection creates the collection if missing and validates its
	// vector size otherwise.
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error

	// CollectionExists reports whether the collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)
}
