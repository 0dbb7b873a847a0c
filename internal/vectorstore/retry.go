package vectorstore

import (
	"context"
	"errors"
	"net"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ainotes/internal/retry"
)

// RetryPolicy controls how vector index calls are retried.
type RetryPolicy = retry.Policy

// RetryingStore retries transient failures of the wrapped store.
type RetryingStore struct {
	inner  VectorStore
	policy RetryPolicy
}

// WithRetry wraps inner with policy. A zero policy returns inner unchanged.
func WithRetry(inner VectorStore, policy RetryPolicy) VectorStore {
	if policy.IsZero() {
		return inner
	}
	return &RetryingStore{inner: inner, policy: policy}
}

func (s *RetryingStore) Upsert(ctx context.Context, collection string, points []Point) error {
	return s.do(ctx, "upsert", func(ctx context.Context) error {
		return s.inner.Upsert(ctx, collection, points)
	})
}

func (s *RetryingStore) Search(ctx context.Context, collection string, query []float32, k int, filter Filter) ([]SearchResult, error) {
	var results []SearchResult
	err := s.do(ctx, "search", func(ctx context.Context) error {
		var err error
		results, err = s.inner.Search(ctx, collection, query, k, filter)
		return err
	})
	return results, err
}

func (s *RetryingStore) Delete(ctx context.Context, collection string, ids []string) error {
	return s.do(ctx, "delete", func(ctx context.Context) error {
		return s.inner.Delete(ctx, collection, ids)
	})
}

func (s *RetryingStore) DeleteByFilter(ctx context.Context, collection string, filter Filter) error {
	return s.do(ctx, "delete_by_filter", func(ctx context.Context) error {
		return s.inner.DeleteByFilter(ctx, collection, filter)
	})
}

func (s *RetryingStore) EnsureCollection(ctx context.Context, collection string, vectorSize int) error {
	return s.do(ctx, "ensure_collection", func(ctx context.Context) error {
		return s.inner.EnsureCollection(ctx, collection, vectorSize)
	})
}

func (s *RetryingStore) CollectionExists(ctx context.Context, collection string) (bool, error) {
	var exists bool
	err := s.do(ctx, "collection_exists", func(ctx context.Context) error {
		var err error
		exists, err = s.inner.CollectionExists(ctx, collection)
		return err
	})
	return exists, err
}

func (s *RetryingStore) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	return retry.Do(ctx, s.policy, "vectorstore."+op, isTransient, fn)
}

// isTransient reports whether err is worth another attempt. Validation
// errors of this package never are.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
			return true
		}
	}
	return false
}
