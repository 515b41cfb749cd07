package fetchcache

import (
	"context"
	"errors"
	"testing"

	"github.com/nitshaW/sales-analytics/pkg/models/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context, query string) (store.Recordset, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(store.Recordset), args.Error(1)
}

func TestCacheGet(t *testing.T) {
	ctx := context.Background()
	rs := store.Recordset{Columns: []string{store.ColCartID}, Rows: make([]store.TransactionRow, 2)}

	t.Run("fetches once per query text", func(t *testing.T) {
		fetcher := &mockFetcher{}
		fetcher.On("Fetch", mock.Anything, "select 1").Return(rs, nil).Once()

		cache := New(fetcher)
		for i := 0; i < 3; i++ {
			got, err := cache.Get(ctx, "select 1")
			require.NoError(t, err)
			assert.Equal(t, rs, got)
		}

		assert.True(t, cache.Cached("select 1"))
		fetcher.AssertExpectations(t)
	})

	t.Run("distinct query texts are distinct entries", func(t *testing.T) {
		fetcher := &mockFetcher{}
		fetcher.On("Fetch", mock.Anything, "select 1").Return(rs, nil).Once()
		fetcher.On("Fetch", mock.Anything, "select 2").Return(store.Recordset{}, nil).Once()

		cache := New(fetcher)
		_, err := cache.Get(ctx, "select 1")
		require.NoError(t, err)
		_, err = cache.Get(ctx, "select 2")
		require.NoError(t, err)

		fetcher.AssertExpectations(t)
	})

	t.Run("failed fetch leaves prior entries intact", func(t *testing.T) {
		fetchErr := errors.New("warehouse unavailable")
		fetcher := &mockFetcher{}
		fetcher.On("Fetch", mock.Anything, "select 1").Return(rs, nil).Once()
		fetcher.On("Fetch", mock.Anything, "select 2").Return(store.Recordset{}, fetchErr)

		cache := New(fetcher)
		_, err := cache.Get(ctx, "select 1")
		require.NoError(t, err)

		_, err = cache.Get(ctx, "select 2")
		assert.ErrorIs(t, err, fetchErr)
		assert.False(t, cache.Cached("select 2"))

		got, err := cache.Get(ctx, "select 1")
		require.NoError(t, err)
		assert.Equal(t, rs, got)
	})

	t.Run("clear invalidates every entry", func(t *testing.T) {
		fetcher := &mockFetcher{}
		fetcher.On("Fetch", mock.Anything, "select 1").Return(rs, nil).Twice()

		cache := New(fetcher)
		_, err := cache.Get(ctx, "select 1")
		require.NoError(t, err)

		cache.Clear()
		assert.False(t, cache.Cached("select 1"))

		_, err = cache.Get(ctx, "select 1")
		require.NoError(t, err)
		fetcher.AssertExpectations(t)
	})
}
