package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/nitshaW/sales-analytics/pkg/models/domain"
)

type TableConfig struct {
	ColumnWidth int
	MaxRows     int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		ColumnWidth: 22,
		MaxRows:     40,
	}
}

// Reporter renders a report result as fixed-width tables on a terminal.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(result *domain.ReportResult) error {
	funcMap := template.FuncMap{
		"formatRow": func(cells []string) string {
			parts := make([]string, len(cells))
			for i, cell := range cells {
				parts[i] = fmt.Sprintf("%-*s", c.config.ColumnWidth, truncate(cell, c.config.ColumnWidth))
			}
			return "| " + strings.Join(parts, " | ") + " |"
		},
		"separator": func(n int) string {
			cell := strings.Repeat("-", c.config.ColumnWidth+2)
			return "+" + strings.Repeat(cell+"+", n)
		},
	}

	tmpl := `
Report: {{.Report}}{{if .Dropped}} ({{.Dropped}} rows dropped for null dates){{end}}
{{range .Tables}}
=== {{.Name}} ===
{{separator (len .Columns)}}
{{formatRow .Columns}}
{{separator (len .Columns)}}
{{range .Rows}}{{formatRow .}}
{{end}}{{separator (len .Columns)}}
{{end}}
`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, c.view(result))
}

type tableView struct {
	Name    string
	Columns []string
	Rows    [][]string
}

type resultView struct {
	Report  string
	Dropped int
	Tables  []tableView
}

func (c *Reporter) view(result *domain.ReportResult) resultView {
	view := resultView{Report: result.Report, Dropped: result.Dropped}
	for _, table := range result.Tables {
		tv := tableView{Name: table.Name, Columns: table.Columns}
		rowCount := 0
		if len(table.Columns) > 0 {
			rowCount = len(table.Values[table.Columns[0]])
		}
		if rowCount > c.config.MaxRows {
			rowCount = c.config.MaxRows
		}
		for i := 0; i < rowCount; i++ {
			row := make([]string, len(table.Columns))
			for j, col := range table.Columns {
				row[j] = table.Values[col][i]
			}
			tv.Rows = append(tv.Rows, row)
		}
		view.Tables = append(view.Tables, tv)
	}
	return view
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
