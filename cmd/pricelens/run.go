package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pricelens/backend/internal/infrastructure/dataset"
	"github.com/pricelens/backend/internal/infrastructure/store"
	"github.com/pricelens/backend/internal/usecase"
)

var (
	runInput  string
	runOutDir string
	runPrefix string
	runSave   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline and export the five output tables as CSV",
	RunE:  runPipeline,
}

func init() {
	runCmd.Flags().StringVar(&runInput, "input", "", "input CSV path (default from config)")
	runCmd.Flags().StringVar(&runOutDir, "out", "", "export directory (default from config)")
	runCmd.Flags().StringVar(&runPrefix, "prefix", "", "export file prefix (default from config)")
	runCmd.Flags().BoolVar(&runSave, "save", false, "also persist the run to the configured store")
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	log := zap.L().With(zap.String("command", "run"))
	ctx := cmd.Context()

	input := cfg.Pipeline.InputCSV
	if runInput != "" {
		input = runInput
	}
	outDir := cfg.Pipeline.ExportDir
	if runOutDir != "" {
		outDir = runOutDir
	}
	prefix := cfg.Pipeline.ExportPrefix
	if runPrefix != "" {
		prefix = runPrefix
	}

	pipeline, err := usecase.NewPipeline(usecase.PipelineConfig{
		Matching: usecase.MatchConfig{
			Threshold:         cfg.Matching.SimilarityThreshold,
			RequireBrandMatch: cfg.Matching.RequireBrandMatch,
			WeightTolerance:   cfg.Matching.WeightTolerance,
		},
	})
	if err != nil {
		return eris.Wrap(err, "run: configure pipeline")
	}

	records, err := dataset.NewCSVSource(input).Fetch(ctx)
	if err != nil {
		return eris.Wrap(err, "run: read input")
	}
	log.Info("loaded raw records", zap.String("input", input), zap.Int("rows", len(records)))

	result, err := pipeline.Run(ctx, records)
	if err != nil {
		return eris.Wrap(err, "run: pipeline")
	}

	paths, err := dataset.ExportResult(outDir, prefix, result)
	if err != nil {
		return eris.Wrap(err, "run: export")
	}
	log.Info("exported output tables", zap.Strings("files", paths))

	if runSave {
		if cfg.Store.Driver != "sqlite" {
			return eris.Errorf("run: --save requires store.driver=sqlite (got %q)", cfg.Store.Driver)
		}
		db, err := store.NewSQLite(cfg.Store.DSN)
		if err != nil {
			return eris.Wrap(err, "run: open store")
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			return eris.Wrap(err, "run: migrate store")
		}
		runID, err := db.SaveResult(ctx, result)
		if err != nil {
			return eris.Wrap(err, "run: save result")
		}
		log.Info("persisted run", zap.String("run_id", runID))
	}

	return nil
}
