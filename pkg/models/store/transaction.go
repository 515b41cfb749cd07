package store

import (
	"database/sql"
)

// Warehouse column names for the transactions table. The fetcher selects
// these by name so a schema drift upstream is caught per column, not as a
// generic scan failure.
const (
	ColVenueName       = "VP_VENUENAME"
	ColVenueType       = "VT_NAME"
	ColPayType         = "TB_GLOBALTYPE"
	ColEventName       = "EF_NAME"
	ColItemName        = "TI_ITEMNAME"
	ColQuantity        = "TB_QTY"
	ColStock           = "STOCK"
	ColValue           = "TB_SUBTOTALAGREE"
	ColGuests          = "TB_GUESTS"
	ColCartID          = "TB_CARTID"
	ColEventDate       = "TI_CALDATE"
	ColTransactionDate = "TB_TRANSDATE"
	ColAddTierYield    = "ADDTIER_YIELD_ALLITEMS"
	ColTierYield       = "TIER_TIER_ALLITEMS"
)

// RequiredColumns must be present in every fetch result. The yield columns
// are optional; only the pool transactions view carries them.
var RequiredColumns = []string{
	ColVenueName,
	ColVenueType,
	ColPayType,
	ColEventName,
	ColItemName,
	ColQuantity,
	ColStock,
	ColValue,
	ColGuests,
	ColCartID,
	ColEventDate,
	ColTransactionDate,
}

// TransactionRow is one line-item charge event as scanned from the
// warehouse, nulls preserved.
type TransactionRow struct {
	VenueName       sql.NullString
	VenueType       sql.NullString
	PayType         sql.NullString
	EventName       sql.NullString
	ItemName        sql.NullString
	Quantity        sql.NullInt64
	Stock           sql.NullInt64
	Value           sql.NullFloat64
	Guests          sql.NullInt64
	CartID          sql.NullString
	EventDate       sql.NullTime
	TransactionDate sql.NullTime
	AddTierYield    sql.NullFloat64
	TierYield       sql.NullFloat64
}

// Recordset is the raw result of one warehouse fetch: the column set the
// query actually produced plus the scanned rows.
type Recordset struct {
	Columns []string
	Rows    []TransactionRow
}
