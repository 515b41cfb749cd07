package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nitshaW/sales-analytics/pkg/export"
	"github.com/nitshaW/sales-analytics/pkg/models/domain"
	"github.com/nitshaW/sales-analytics/pkg/services/report"
	"github.com/nitshaW/sales-analytics/pkg/store/fetchcache"
	"github.com/nitshaW/sales-analytics/pkg/store/warehouse"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

type runCmd struct {
	profilePath string
	reportName  string
	from        string
	to          string
	dateField   string
	means       bool
	selections  []string
	outDir      string
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "sales-analytics",
		Short: "Run sales analysis reports from the terminal",
	}

	rootCmd.AddCommand(newListCmd(), newRunCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := report.NewRegistry()
			if err != nil {
				return err
			}
			for _, def := range registry.List() {
				fmt.Printf("%-20s %s\n", def.Name, def.Title)
			}
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	rc := &runCmd{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a report and print it or export CSVs",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.profilePath, "profile", "", "Path to the snowflake connection profile")
	cmd.Flags().StringVar(&rc.reportName, "report", "", "Report name (see `list`)")
	cmd.Flags().StringVar(&rc.from, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&rc.to, "to", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&rc.dateField, "date-field", string(domain.DateFieldEvent),
		"Date field to filter on (Event Date or Transaction Date)")
	cmd.Flags().BoolVar(&rc.means, "means", false, "Include per-group means next to the sums")
	cmd.Flags().StringArrayVar(&rc.selections, "select", nil,
		"Filter selection as Field=value1,value2 (repeatable)")
	cmd.Flags().StringVar(&rc.outDir, "out", "", "Write CSV files under this directory instead of printing")

	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.MarkFlagRequired("report")

	return cmd
}

func (rc *runCmd) run(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx, cancel := context.WithTimeout(logger.WithContext(cmd.Context()), 120*time.Second)
	defer cancel()

	req, err := rc.buildRequest()
	if err != nil {
		return err
	}

	warehouseStore, err := warehouse.NewStore(rc.profilePath, 60*time.Second)
	if err != nil {
		return fmt.Errorf("failed to create warehouse store: %w", err)
	}

	registry, err := report.NewRegistry()
	if err != nil {
		return err
	}
	runner := report.NewRunner(registry, fetchcache.New(warehouseStore))

	result, err := runner.Run(ctx, rc.reportName, req)
	if err != nil {
		return fmt.Errorf("failed to run report %q: %w", rc.reportName, err)
	}

	if rc.outDir != "" {
		dir, err := export.WriteCSVBundle(rc.outDir, result)
		if err != nil {
			return err
		}
		fmt.Printf("CSV export written to %s\n", dir)
		return nil
	}

	return export.NewReporter(os.Stdout).Handle(result)
}

func (rc *runCmd) buildRequest() (report.Request, error) {
	req := report.Request{
		DateField:  domain.DateField(rc.dateField),
		WantMeans:  rc.means,
		Selections: make(map[domain.Field][]string),
	}

	if rc.from != "" {
		t, err := time.Parse(dateLayout, rc.from)
		if err != nil {
			return report.Request{}, fmt.Errorf("invalid --from date: %w", err)
		}
		req.From = &t
	}
	if rc.to != "" {
		t, err := time.Parse(dateLayout, rc.to)
		if err != nil {
			return report.Request{}, fmt.Errorf("invalid --to date: %w", err)
		}
		req.To = &t
	}

	for _, sel := range rc.selections {
		field, values, ok := strings.Cut(sel, "=")
		if !ok {
			return report.Request{}, fmt.Errorf("invalid --select %q, expected Field=value1,value2", sel)
		}
		req.Selections[domain.Field(field)] = strings.Split(values, ",")
	}

	return req, nil
}
