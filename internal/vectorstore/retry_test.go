package vectorstore_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ainotes/internal/vectorstore"
	"ainotes/internal/vectorstore/mocks"
)

func TestWithRetry_ZeroPolicyIsPassthrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockVectorStore(ctrl)

	assert.Same(t, inner, vectorstore.WithRetry(inner, vectorstore.RetryPolicy{}))
}

func TestRetryingStore(t *testing.T) {
	unavailable := status.Error(codes.Unavailable, "connection refused")
	policy := vectorstore.RetryPolicy{MaxRetries: 2, BackoffBase: time.Millisecond}

	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   error
	}{
		{name: "recovers after transient failures", errs: []error{unavailable, unavailable, nil}, wantCalls: 3},
		{name: "gives up after budget", errs: []error{unavailable, unavailable, unavailable}, wantCalls: 3, wantErr: unavailable},
		{name: "validation errors are not retried", errs: []error{vectorstore.ErrDimensionMismatch}, wantCalls: 1, wantErr: vectorstore.ErrDimensionMismatch},
		{name: "invalid argument is not retried", errs: []error{status.Error(codes.InvalidArgument, "bad")}, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			inner := mocks.NewMockVectorStore(ctrl)

			calls := 0
			inner.EXPECT().Delete(gomock.Any(), "notes-api", []string{"note-1"}).DoAndReturn(
				func(context.Context, string, []string) error {
					err := tt.errs[calls]
					calls++
					return err
				}).Times(tt.wantCalls)

			err := vectorstore.WithRetry(inner, policy).Delete(context.Background(), "notes-api", []string{"note-1"})
			assert.Equal(t, tt.wantCalls, calls)
			if tt.errs[len(tt.errs)-1] == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
		})
	}
}

func TestRetryingStore_SearchPerAttemptTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockVectorStore(ctrl)

	want := []vectorstore.SearchResult{{PointID: "note-1", Score: 0.5}}
	gomock.InOrder(
		inner.EXPECT().Search(gomock.Any(), "c", gomock.Any(), 5, gomock.Any()).DoAndReturn(
			func(ctx context.Context, _ string, _ []float32, _ int, _ vectorstore.Filter) ([]vectorstore.SearchResult, error) {
				<-ctx.Done()
				return nil, fmt.Errorf("search: %w", ctx.Err())
			}),
		inner.EXPECT().Search(gomock.Any(), "c", gomock.Any(), 5, gomock.Any()).Return(want, nil),
	)

	store := vectorstore.WithRetry(inner, vectorstore.RetryPolicy{MaxRetries: 1, Timeout: 5 * time.Millisecond})
	got, err := store.Search(context.Background(), "c", []float32{1}, 5, vectorstore.Filter{"user_id": int64(1)})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
