package report

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/nitshaW/sales-analytics/pkg/models/domain"
	"github.com/nitshaW/sales-analytics/pkg/models/store"
	"github.com/nitshaW/sales-analytics/pkg/services/pipeline"
	"github.com/nitshaW/sales-analytics/pkg/store/fetchcache"
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

func ns(s string) sql.NullString  { return sql.NullString{String: s, Valid: true} }
func ni(v int64) sql.NullInt64    { return sql.NullInt64{Int64: v, Valid: true} }
func nf(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }
func nt(t time.Time) sql.NullTime { return sql.NullTime{Time: t, Valid: true} }

func storeRow(day time.Time, venue, venueType, payType, item, cart string, qty int64) store.TransactionRow {
	return store.TransactionRow{
		VenueName:       ns(venue),
		VenueType:       ns(venueType),
		PayType:         ns(payType),
		EventName:       ns("Dinner"),
		ItemName:        ns(item),
		Quantity:        ni(qty),
		Stock:           ni(20),
		Value:           nf(float64(qty) * 10),
		Guests:          ni(qty),
		CartID:          ns(cart),
		EventDate:       nt(day),
		TransactionDate: nt(day),
	}
}

func testRecordset(rows ...store.TransactionRow) store.Recordset {
	return store.Recordset{Columns: store.RequiredColumns, Rows: rows}
}

func setupRunner(t *testing.T, rs store.Recordset) (Runner, *mockFetcher) {
	t.Helper()
	fetcher := &mockFetcher{}
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return(rs, nil)
	registry, err := NewRegistry()
	require.NoError(t, err)
	r := &runner{
		registry: registry,
		cache:    fetchcache.New(fetcher),
		now:      func() time.Time { return time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC) },
	}
	return r, fetcher
}

func TestRunner_Run(t *testing.T) {
	ctx := context.Background()
	june1 := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	june2 := time.Date(2023, 6, 2, 0, 0, 0, 0, time.UTC)

	t.Run("full pass over the catalog default", func(t *testing.T) {
		r, _ := setupRunner(t, testRecordset(
			storeRow(june1, "Bar", "Restaurant", "Card", "Beer", "c1", 2),
			storeRow(june2, "Bar", "Restaurant", "Card", "Beer", "c2", 3),
		))

		result, err := r.Run(ctx, "transactions", Request{})
		require.NoError(t, err)

		assert.Equal(t, "transactions", result.Report)
		require.Len(t, result.Rows, 1)
		assert.Equal(t, "2023-06", result.Rows[0].Bucket.Label())
		assert.InDelta(t, 50.0, result.Rows[0].ValueSum, 1e-9)
		assert.Equal(t, 2, result.Rows[0].TransactionCount)

		// One table per standard metric, no grouping columns beyond the bucket.
		require.Len(t, result.Tables, 4)
		assert.Equal(t, []string{"YearMonth", "Value_sum"}, result.Tables[0].Columns)
		assert.NotEmpty(t, result.Series)
	})

	t.Run("selections become grouping keys in cascade order", func(t *testing.T) {
		r, _ := setupRunner(t, testRecordset(
			storeRow(june1, "Bar", "Restaurant", "Card", "Beer", "c1", 2),
			storeRow(june1, "Bar", "Pool", "Cash", "Wine", "c2", 1),
		))

		result, err := r.Run(ctx, "transaction_type", Request{
			Selections: map[domain.Field][]string{
				domain.FieldVenueType: {"Restaurant", "Pool"},
				domain.FieldPayType:   {"Card", "Cash"},
			},
		})
		require.NoError(t, err)

		assert.Equal(t,
			[]string{"YearMonth", "Venue Type", "Pay Type", "Value_sum"},
			result.Tables[0].Columns)
		require.Len(t, result.Rows, 2)
		assert.Equal(t, []string{"Pool", "Cash"}, result.Rows[0].Keys)
		assert.Equal(t, []string{"Restaurant", "Card"}, result.Rows[1].Keys)
	})

	t.Run("means only when requested and allowed", func(t *testing.T) {
		rs := testRecordset(storeRow(june1, "Bar", "Restaurant", "Card", "Beer", "c1", 2))

		r, _ := setupRunner(t, rs)
		result, err := r.Run(ctx, "transactions", Request{WantMeans: true})
		require.NoError(t, err)
		require.NotNil(t, result.Rows[0].ValueMean)
		assert.InDelta(t, 20.0, *result.Rows[0].ValueMean, 1e-9)

		// daily_inventory never reports means regardless of the request.
		july1 := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
		r, _ = setupRunner(t, testRecordset(
			storeRow(july1, "Bar", "Restaurant", "Card", "Beer", "c1", 2),
		))
		result, err = r.Run(ctx, "daily_inventory", Request{WantMeans: true})
		require.NoError(t, err)
		assert.Nil(t, result.Rows[0].ValueMean)
	})

	t.Run("inventory report defaults to the last month", func(t *testing.T) {
		july1 := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
		r, _ := setupRunner(t, testRecordset(
			storeRow(june1, "Bar", "Restaurant", "Card", "Beer", "c1", 2),
			storeRow(july1, "Bar", "Restaurant", "Card", "Beer", "c2", 3),
		))

		result, err := r.Run(ctx, "daily_inventory", Request{})
		require.NoError(t, err)
		require.Len(t, result.Rows, 1)
		assert.Equal(t, "2023-07-01", result.Rows[0].Bucket.Label())
	})

	t.Run("single mode rejects selections on two fields", func(t *testing.T) {
		r, _ := setupRunner(t, testRecordset())

		_, err := r.Run(ctx, "transactions", Request{
			Selections: map[domain.Field][]string{
				domain.FieldVenueName: {"Bar"},
				domain.FieldVenueType: {"Restaurant"},
			},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at most one field")
	})

	t.Run("selection on a field the report does not filter", func(t *testing.T) {
		r, _ := setupRunner(t, testRecordset())

		_, err := r.Run(ctx, "transactions", Request{
			Selections: map[domain.Field][]string{domain.FieldItemName: {"Beer"}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not filter")
	})

	t.Run("filters that match nothing surface as no data", func(t *testing.T) {
		r, _ := setupRunner(t, testRecordset(
			storeRow(june1, "Bar", "Restaurant", "Card", "Beer", "c1", 2),
		))

		_, err := r.Run(ctx, "transactions", Request{
			Selections: map[domain.Field][]string{domain.FieldVenueName: {"Nowhere"}},
		})
		assert.ErrorIs(t, err, pipeline.ErrNoData)
	})

	t.Run("unknown report", func(t *testing.T) {
		r, _ := setupRunner(t, testRecordset())

		_, err := r.Run(ctx, "nope", Request{})
		require.Error(t, err)
	})

	t.Run("repeat passes reuse one fetch", func(t *testing.T) {
		fetcher := &mockFetcher{}
		fetcher.On("Fetch", mock.Anything, mock.Anything).
			Return(testRecordset(storeRow(june1, "Bar", "Restaurant", "Card", "Beer", "c1", 2)), nil).
			Once()
		registry, err := NewRegistry()
		require.NoError(t, err)
		r := &runner{
			registry: registry,
			cache:    fetchcache.New(fetcher),
			now:      time.Now,
		}

		for i := 0; i < 3; i++ {
			_, err := r.Run(ctx, "transactions", Request{})
			require.NoError(t, err)
		}
		fetcher.AssertExpectations(t)
	})
}

func TestRunner_CandidateValues(t *testing.T) {
	ctx := context.Background()
	june1 := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

	rs := testRecordset(
		storeRow(june1, "Bar", "Restaurant", "Card", "Beer", "c1", 2),
		storeRow(june1, "Bar", "Restaurant", "Cash", "Wine", "c2", 1),
		storeRow(june1, "Cafe", "Pool", "Card", "Soda", "c3", 1),
	)

	t.Run("later stages narrow on earlier selections", func(t *testing.T) {
		r, _ := setupRunner(t, rs)

		values, err := r.CandidateValues(ctx, "transaction_type", domain.FieldPayType, Request{
			Selections: map[domain.Field][]string{domain.FieldVenueType: {"Pool"}},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Card"}, values)
	})

	t.Run("a field's own selection does not hide its alternatives", func(t *testing.T) {
		r, _ := setupRunner(t, rs)

		values, err := r.CandidateValues(ctx, "transaction_type", domain.FieldVenueType, Request{
			Selections: map[domain.Field][]string{domain.FieldVenueType: {"Pool"}},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Pool", "Restaurant"}, values)
	})

	t.Run("field outside the report's filters", func(t *testing.T) {
		r, _ := setupRunner(t, rs)

		_, err := r.CandidateValues(ctx, "transaction_type", domain.FieldItemName, Request{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no filter field")
	})
}
