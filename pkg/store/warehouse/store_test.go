package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/nitshaW/sales-analytics/pkg/models/store"
	"github.com/nitshaW/sales-analytics/pkg/services/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockStore(t *testing.T) (Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStoreWithDB(db, time.Minute), mock
}

func TestWarehouseStore_Fetch(t *testing.T) {
	ctx := context.Background()
	query := "SELECT * FROM transactions"
	queryPattern := regexp.QuoteMeta(query)

	t.Run("maps recognized columns by name", func(t *testing.T) {
		st, mock := setupMockStore(t)

		caldate := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
		rows := sqlmock.NewRows([]string{
			store.ColItemName, store.ColQuantity, store.ColEventDate, "UNRELATED_COLUMN",
		}).AddRow("Beer", int64(3), caldate, "ignored")
		mock.ExpectQuery(queryPattern).WillReturnRows(rows)

		rs, err := st.Fetch(ctx, query)
		require.NoError(t, err)

		assert.Equal(t,
			[]string{store.ColItemName, store.ColQuantity, store.ColEventDate, "UNRELATED_COLUMN"},
			rs.Columns)
		require.Len(t, rs.Rows, 1)
		assert.Equal(t, sql.NullString{String: "Beer", Valid: true}, rs.Rows[0].ItemName)
		assert.Equal(t, sql.NullInt64{Int64: 3, Valid: true}, rs.Rows[0].Quantity)
		assert.Equal(t, sql.NullTime{Time: caldate, Valid: true}, rs.Rows[0].EventDate)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("preserves nulls instead of zero values", func(t *testing.T) {
		st, mock := setupMockStore(t)

		rows := sqlmock.NewRows([]string{store.ColVenueName, store.ColValue, store.ColEventDate}).
			AddRow(nil, nil, nil)
		mock.ExpectQuery(queryPattern).WillReturnRows(rows)

		rs, err := st.Fetch(ctx, query)
		require.NoError(t, err)
		require.Len(t, rs.Rows, 1)
		assert.False(t, rs.Rows[0].VenueName.Valid)
		assert.False(t, rs.Rows[0].Value.Valid)
		assert.False(t, rs.Rows[0].EventDate.Valid)
	})

	t.Run("empty result is a recordset with columns and no rows", func(t *testing.T) {
		st, mock := setupMockStore(t)

		mock.ExpectQuery(queryPattern).WillReturnRows(sqlmock.NewRows([]string{store.ColCartID}))

		rs, err := st.Fetch(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, []string{store.ColCartID}, rs.Columns)
		assert.Empty(t, rs.Rows)
	})

	t.Run("query failure surfaces as a fetch error", func(t *testing.T) {
		st, mock := setupMockStore(t)

		cause := errors.New("network unreachable")
		mock.ExpectQuery(queryPattern).WillReturnError(cause)

		_, err := st.Fetch(ctx, query)
		var fetchErr *pipeline.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, query, fetchErr.Query)
		assert.ErrorIs(t, err, cause)
	})
}
