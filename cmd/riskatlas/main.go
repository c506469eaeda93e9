// Command riskatlas builds climate risk atlases: roster generation,
// point-estimate enrichment, Monte Carlo batch analysis, and an HTTP
// API over the run archive.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/risk-atlas/internal/api"
	"github.com/talgya/risk-atlas/internal/atlas"
	"github.com/talgya/risk-atlas/internal/atlasbuild"
	"github.com/talgya/risk-atlas/internal/config"
	"github.com/talgya/risk-atlas/internal/montecarlo"
	"github.com/talgya/risk-atlas/internal/persistence"
	"github.com/talgya/risk-atlas/internal/targets"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var cfgPath string

	rootCmd := &cobra.Command{
		Use:   "riskatlas",
		Short: "Climate risk atlas builder with Monte Carlo uncertainty analysis",
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to YAML config file")

	rootCmd.AddCommand(targetsCmd())
	rootCmd.AddCommand(buildCmd(&cfgPath))
	rootCmd.AddCommand(runCmd(&cfgPath))
	rootCmd.AddCommand(serveCmd(&cfgPath))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func targetsCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Write the built-in 100-location target roster as CSV",
		RunE: func(_ *cobra.Command, _ []string) error {
			list := targets.BuiltIn()
			if err := targets.WriteCSV(out, list); err != nil {
				return err
			}
			slog.Info("roster written", "path", out, "targets", len(list))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "analysis_targets.csv", "output CSV path")
	return cmd
}

func buildCmd(cfgPath *string) *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Enrich a target roster into a point-estimate atlas JSON",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}

			var list []targets.Target
			if in == "" {
				list = targets.BuiltIn()
				slog.Info("using built-in roster", "targets", len(list))
			} else {
				list, err = targets.ReadCSV(in)
				if err != nil {
					return err
				}
				slog.Info("roster loaded", "path", in, "targets", len(list))
			}

			records, err := atlasbuild.Build(list, cfg.BuildDefaultsValue())
			if err != nil {
				return err
			}

			if err := atlas.WriteFile(out, records); err != nil {
				return err
			}
			slog.Info("atlas built", "path", out, "locations", len(records))
			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "input roster CSV (default: built-in roster)")
	cmd.Flags().StringVarP(&out, "out", "o", "global_risk_atlas.json", "output atlas JSON path")
	return cmd
}

func runCmd(cfgPath *string) *cobra.Command {
	var in, out, dbPath string
	var seed int64
	var iterations, workers int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the Monte Carlo batch analysis over an atlas JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			engine := cfg.EngineConfigValue()
			if cmd.Flags().Changed("seed") {
				engine.Seed = seed
			}
			if cmd.Flags().Changed("iterations") {
				engine.Iterations = iterations
			}
			if cmd.Flags().Changed("workers") {
				engine.Workers = workers
			}

			locations, err := atlas.ReadFile(in)
			if err != nil {
				return err
			}
			slog.Info("atlas loaded", "path", in, "locations", humanize.Comma(int64(len(locations))))

			start := time.Now()
			results, err := montecarlo.RunBatch(context.Background(), locations, engine)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			failed := 0
			for _, rec := range results {
				if rec.MonteCarlo != nil && rec.MonteCarlo.Error != "" {
					failed++
				}
			}
			slog.Info("analysis complete",
				"locations", len(results),
				"failed", failed,
				"iterations", humanize.Comma(int64(engine.Iterations)*int64(len(results))),
				"elapsed", elapsed.Round(time.Millisecond),
			)

			if err := atlas.WriteFile(out, results); err != nil {
				return err
			}
			slog.Info("atlas written", "path", out)

			if dbPath != "" {
				db, err := openArchive(dbPath)
				if err != nil {
					return err
				}
				defer db.Close()
				runID, err := db.SaveRun(engine, results)
				if err != nil {
					return err
				}
				fmt.Printf("Run archived as %s\n", runID)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "global_risk_atlas.json", "input atlas JSON path")
	cmd.Flags().StringVarP(&out, "out", "o", "global_risk_atlas_uq.json", "output atlas JSON path")
	cmd.Flags().StringVar(&dbPath, "db", "", "archive the run in this SQLite database")
	cmd.Flags().Int64Var(&seed, "seed", 42, "global random seed")
	cmd.Flags().IntVar(&iterations, "iterations", 50, "Monte Carlo iterations per location")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = all CPUs)")
	return cmd
}

func serveCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP analysis API",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}

			var db *persistence.DB
			if cfg.DB.Path != "" {
				db, err = openArchive(cfg.DB.Path)
				if err != nil {
					return err
				}
				defer db.Close()
				slog.Info("archive opened", "path", cfg.DB.Path)
			}

			if cfg.Server.AdminKey == "" {
				slog.Warn("ATLAS_ADMIN_KEY not set — batch endpoints will be disabled")
			}

			srv := &api.Server{
				Engine:   cfg.EngineConfigValue(),
				DB:       db,
				Port:     cfg.Server.Port,
				AdminKey: cfg.Server.AdminKey,
			}
			srv.Start()

			fmt.Printf("API: http://localhost:%d/api/v1/health\n", cfg.Server.Port)
			fmt.Println("Serving... (Ctrl+C to stop)")

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			slog.Info("received signal, shutting down", "signal", sig)
			return nil
		},
	}

	return cmd
}

func openArchive(path string) (*persistence.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return persistence.Open(path)
}
