package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nitshaW/sales-analytics/pkg/models/store"
	"github.com/nitshaW/sales-analytics/pkg/services/pipeline"
	"github.com/rs/zerolog"
	sf "github.com/snowflakedb/gosnowflake"
)

// Store fetches raw transaction rows for a query text. The pipeline treats
// fetches as opaque: no retries here, backoff policy belongs to the caller.
type Store interface {
	Fetch(ctx context.Context, query string) (store.Recordset, error)
}

type warehouseStore struct {
	db      *sql.DB
	timeout time.Duration
}

// NewStore opens a snowflake connection from a profile path.
func NewStore(profilePath string, timeout time.Duration) (Store, error) {
	cfg, err := LoadConfig(profilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dsn, err := sf.DSN(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create DSN: %w", err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	return NewStoreWithDB(db, timeout), nil
}

// NewStoreWithDB wraps an existing connection, which keeps the store
// testable against sqlmock.
func NewStoreWithDB(db *sql.DB, timeout time.Duration) Store {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &warehouseStore{db: db, timeout: timeout}
}

func (w *warehouseStore) Fetch(ctx context.Context, query string) (store.Recordset, error) {
	logger := zerolog.Ctx(ctx)

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	rows, err := w.db.QueryContext(ctx, query)
	if err != nil {
		return store.Recordset{}, &pipeline.FetchError{Query: query, Err: err}
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close transaction query rows")
		}
	}(rows)

	columns, err := rows.Columns()
	if err != nil {
		return store.Recordset{}, &pipeline.FetchError{Query: query, Err: err}
	}

	rs := store.Recordset{Columns: columns}
	for rows.Next() {
		row, err := scanTransactionRow(rows, columns)
		if err != nil {
			return store.Recordset{}, fmt.Errorf("scan transaction row: %w", err)
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return store.Recordset{}, &pipeline.FetchError{Query: query, Err: err}
	}

	return rs, nil
}

// scanTransactionRow scans one row positionally against the column list the
// query produced, so SELECT * results work regardless of column order.
// Unrecognized columns are discarded.
func scanTransactionRow(rows *sql.Rows, columns []string) (store.TransactionRow, error) {
	var row store.TransactionRow

	targets := make([]any, len(columns))
	for i, col := range columns {
		switch col {
		case store.ColVenueName:
			targets[i] = &row.VenueName
		case store.ColVenueType:
			targets[i] = &row.VenueType
		case store.ColPayType:
			targets[i] = &row.PayType
		case store.ColEventName:
			targets[i] = &row.EventName
		case store.ColItemName:
			targets[i] = &row.ItemName
		case store.ColQuantity:
			targets[i] = &row.Quantity
		case store.ColStock:
			targets[i] = &row.Stock
		case store.ColValue:
			targets[i] = &row.Value
		case store.ColGuests:
			targets[i] = &row.Guests
		case store.ColCartID:
			targets[i] = &row.CartID
		case store.ColEventDate:
			targets[i] = &row.EventDate
		case store.ColTransactionDate:
			targets[i] = &row.TransactionDate
		case store.ColAddTierYield:
			targets[i] = &row.AddTierYield
		case store.ColTierYield:
			targets[i] = &row.TierYield
		default:
			targets[i] = new(any)
		}
	}

	if err := rows.Scan(targets...); err != nil {
		return store.TransactionRow{}, err
	}
	return row, nil
}
