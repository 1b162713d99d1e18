package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"complaints-etl/config"
	"complaints-etl/services"
	"complaints-etl/storage"
	"complaints-etl/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := &cobra.Command{
		Use:           "complaints-etl",
		Short:         "Data-cleansing utilities for the NYPD complaint and Airbnb datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLevel(utils.LevelDebug)
		}
	}

	root.AddCommand(complaintsCommand(cfg, logger), airbnbCommand(cfg, logger))

	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func complaintsCommand(cfg *config.Config, logger *utils.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complaints",
		Short: "Normalize the NYPD complaint CSV and load it into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger.Info("=== NYPD complaint ETL starting ===")
			logger.Info("Config: driver %s | sample %d | batch %d | input %s",
				cfg.DBDriver, cfg.SampleSize, cfg.BatchSize, cfg.RawComplaintPath)

			dsn, err := cfg.DSN()
			if err != nil {
				return err
			}
			retry := &utils.RetryConfig{MaxAttempts: cfg.MaxRetries, BaseDelay: 2 * time.Second, Logger: logger}
			writer, err := storage.NewSQLWriter(ctx, cfg.DBDriver, dsn, cfg.BatchSize, retry, logger)
			if err != nil {
				logger.Error("Make sure the database is reachable and DB_* variables are set")
				return err
			}
			defer writer.Close()

			pipeline := services.NewComplaintPipeline(
				storage.NewCSVReader(cfg.RawComplaintPath), writer, cfg.SampleSize, logger, os.Stdout)
			report, err := pipeline.Run(ctx)
			if err != nil {
				return err
			}
			pipeline.Print(report)
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.RawComplaintPath, "input", cfg.RawComplaintPath, "raw complaint CSV")
	cmd.Flags().StringVar(&cfg.DBDriver, "driver", cfg.DBDriver, "database driver: mysql, postgres or sqlite")
	cmd.Flags().IntVar(&cfg.SampleSize, "sample", cfg.SampleSize, "number of rows to sample (0 loads everything)")
	cmd.Flags().IntVar(&cfg.BatchSize, "batch", cfg.BatchSize, "rows per INSERT statement")
	return cmd
}

func airbnbCommand(cfg *config.Config, logger *utils.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "airbnb-sql",
		Short: "Convert Airbnb CSV extracts into INSERT statement scripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Info("=== Airbnb insert script generation ===")
			writer := storage.NewInsertScriptWriter(cfg.AirbnbSchema, cfg.OutputDir())
			svc := services.NewScriptService(writer, cfg.MaxConcurrency, logger)

			counts, err := svc.ConvertDir(cfg.AirbnbDir, services.AirbnbTables)
			total := 0
			for _, n := range counts {
				total += n
			}
			logger.Info("Wrote %d insert statements for %d tables to %s", total, len(counts), cfg.OutputDir())
			return err
		},
	}
	cmd.Flags().StringVar(&cfg.AirbnbDir, "dir", cfg.AirbnbDir, "directory holding the Airbnb CSV extracts")
	cmd.Flags().StringVar(&cfg.AirbnbOutputDir, "out", cfg.AirbnbOutputDir, "output directory (defaults to --dir)")
	cmd.Flags().StringVar(&cfg.AirbnbSchema, "schema", cfg.AirbnbSchema, "target schema for the INSERT statements")
	return cmd
}
