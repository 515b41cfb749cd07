package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/nitshaW/sales-analytics/pkg/server"
	"github.com/nitshaW/sales-analytics/pkg/services/report"
	"github.com/nitshaW/sales-analytics/pkg/store/fetchcache"
	"github.com/nitshaW/sales-analytics/pkg/store/warehouse"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	profilePath  string
	fetchTimeout time.Duration
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the sales analytics web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&profilePath, "profile", "p", "snowflake.yaml",
		"Path to the snowflake connection profile")
	rootCmd.Flags().DurationVar(&fetchTimeout, "fetch-timeout", 60*time.Second,
		"Timeout for a single warehouse fetch")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	warehouseStore, err := warehouse.NewStore(profilePath, fetchTimeout)
	if err != nil {
		return fmt.Errorf("failed to create warehouse store: %w", err)
	}

	registry, err := report.NewRegistry()
	if err != nil {
		return fmt.Errorf("failed to create report registry: %w", err)
	}
	runner := report.NewRunner(registry, fetchcache.New(warehouseStore))

	for _, def := range registry.List() {
		logger.Info().Msgf("Report registered: `%s` (%s)", def.Name, def.Title)
	}

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Registry: registry,
			Runner:   runner,
		},
	})

	return api.Start()
}
