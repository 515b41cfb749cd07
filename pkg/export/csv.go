package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/nitshaW/sales-analytics/pkg/models/domain"
)

// WriteCSVBundle writes one CSV file per result table into a fresh run
// directory under baseDir and returns the directory path. Files are UTF-8,
// comma separated, with the column names as the header row.
func WriteCSVBundle(baseDir string, result *domain.ReportResult) (string, error) {
	runID := uuid.NewString()[:8]
	dir := filepath.Join(baseDir, fmt.Sprintf("%s-%s", result.Report, runID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	for _, table := range result.Tables {
		if err := writeTable(dir, table); err != nil {
			return "", err
		}
	}
	return dir, nil
}

func writeTable(dir string, table domain.Table) error {
	path := filepath.Join(dir, table.Name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns); err != nil {
		return fmt.Errorf("write header for %s: %w", table.Name, err)
	}

	rowCount := 0
	if len(table.Columns) > 0 {
		rowCount = len(table.Values[table.Columns[0]])
	}
	row := make([]string, len(table.Columns))
	for i := 0; i < rowCount; i++ {
		for j, col := range table.Columns {
			row[j] = table.Values[col][i]
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row for %s: %w", table.Name, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", table.Name, err)
	}
	return nil
}
