package domain

import "time"

// Unknown substitutes a missing categorical value after normalization.
const Unknown = "Unknown"

// Field identifies a categorical or derived column of a transaction record.
// Values double as display/export column names.
type Field string

const (
	FieldVenueName Field = "Venue Name"
	FieldVenueType Field = "Venue Type"
	FieldPayType   Field = "Pay Type"
	FieldEventName Field = "Event Name"
	FieldItemName  Field = "Item Name"
	FieldYielding  Field = "Yielding"
)

// TransactionRecord is the canonical in-memory shape of one line-item
// charge event. Categorical fields are never empty after normalization and
// both dates are always set.
type TransactionRecord struct {
	VenueName       string
	VenueType       string
	PayType         string
	EventName       string
	ItemName        string
	Quantity        int
	Stock           int
	Value           float64
	Guests          int
	CartID          string
	EventDate       time.Time
	TransactionDate time.Time

	// Yield indicators, present only on pool transaction views. Positivity
	// of either one makes the record "yielding".
	AddTierYield *float64
	TierYield    *float64

	// Derived fields, populated by the pipeline after normalization.
	Season     string
	Year       int
	YearSeason string
	DayOfWeek  string
	Yielding   string
}

// FieldValue returns the record's value for a categorical or derived field.
func (r TransactionRecord) FieldValue(f Field) string {
	switch f {
	case FieldVenueName:
		return r.VenueName
	case FieldVenueType:
		return r.VenueType
	case FieldPayType:
		return r.PayType
	case FieldEventName:
		return r.EventName
	case FieldItemName:
		return r.ItemName
	case FieldYielding:
		return r.Yielding
	}
	return ""
}
