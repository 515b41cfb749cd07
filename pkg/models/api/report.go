package api

// Report is a catalog entry.
type Report struct {
	Name         string   `json:"name"`
	Title        string   `json:"title"`
	Bucket       string   `json:"bucket"`
	FilterMode   string   `json:"filter_mode"`
	FilterFields []string `json:"filter_fields"`
	Metrics      []string `json:"metrics"`
	AllowMeans   bool     `json:"allow_means"`
}

// Table mirrors a named export table: ordered columns plus a column-name to
// ordered-values mapping.
type Table struct {
	Name    string              `json:"name"`
	Columns []string            `json:"columns"`
	Values  map[string][]string `json:"values"`
}

// Series is one chart-ready line.
type Series struct {
	Name string    `json:"name"`
	X    []string  `json:"x"`
	Y    []float64 `json:"y"`
}

// ReportResult is the response of one report run.
type ReportResult struct {
	Report      string   `json:"report"`
	NoData      bool     `json:"no_data"`
	DroppedRows int      `json:"dropped_rows,omitempty"`
	Tables      []Table  `json:"tables,omitempty"`
	Series      []Series `json:"series,omitempty"`
}

// FieldValues lists the candidate values of one filter field.
type FieldValues struct {
	Field  string   `json:"field"`
	Values []string `json:"values"`
}
