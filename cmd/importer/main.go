package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"go.uber.org/zap"

	"github.com/palemoky/liturgical-calendar-bot/internal/config"
	"github.com/palemoky/liturgical-calendar-bot/internal/database"
	"github.com/palemoky/liturgical-calendar-bot/internal/importer"
	"github.com/palemoky/liturgical-calendar-bot/internal/logger"
)

var (
	configPath   string
	databasePath string
)

func main() {
	_ = godotenv.Load()

	// Initialize logger (always debug mode for the importer)
	logger.Init(true)
	defer logger.Sync()

	rootCmd := &cobra.Command{
		Use:   "importer",
		Short: "Liturgical calendar data importer",
		Long:  "Import calendar entries from JSON files into the bot's SQLite database",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file (ignored if missing)")
	rootCmd.PersistentFlags().StringVarP(&databasePath, "database", "d", "", "SQLite database path (overrides config)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "import <file> <calendar>",
			Short: "Import a JSON array of entries into one calendar",
			Long:  "Import a JSON array of entries. <calendar> is new_calendar, tridentine_calendar or roman_martyrology (or new, tridentine, martyrology).",
			Args:  cobra.ExactArgs(2),
			RunE:  runImport,
		},
		&cobra.Command{
			Use:   "templates [dir]",
			Short: "Write one sample template per calendar",
			Args:  cobra.MaximumNArgs(1),
			RunE:  runTemplates,
		},
		&cobra.Command{
			Use:   "samples [dir]",
			Short: "Import <table>_sample.json for every calendar",
			Args:  cobra.MaximumNArgs(1),
			RunE:  runSamples,
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Print entry counts per calendar",
			Args:  cobra.NoArgs,
			RunE:  runStats,
		},
	)

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("Command execution failed", zap.Error(err))
	}
}

func openRepository() (*database.DB, *database.Repository, error) {
	path := configPath
	if _, err := os.Stat(path); err != nil {
		path = ""
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if databasePath != "" {
		cfg.Database.Path = databasePath
	}

	// Single connection keeps the import transaction on one handle
	db, err := database.Open(cfg.Database.Path, 1, 1)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Opened database", zap.String("path", cfg.Database.Path))
	return db, database.NewRepository(db), nil
}

func newProgress() *mpb.Progress {
	return mpb.New(
		mpb.WithWidth(60),
		mpb.WithRefreshRate(100*time.Millisecond),
	)
}

func runImport(cmd *cobra.Command, args []string) error {
	v, err := database.ParseVariant(args[1])
	if err != nil {
		return err
	}

	db, repo, err := openRepository()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	progress := newProgress()
	res := importer.New(repo, progress).Import(cmd.Context(), args[0], v)
	progress.Wait()

	if !res.Success {
		return fmt.Errorf("import failed: %s", res.Error)
	}
	fmt.Printf("Successfully imported %d entries into %s.\n", res.Count, v.Table())
	return nil
}

func runTemplates(_ *cobra.Command, args []string) error {
	dir := "data/templates"
	if len(args) == 1 {
		dir = args[0]
	}

	paths, err := importer.WriteTemplates(dir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	fmt.Printf("Sample templates created in %s\n", dir)
	return nil
}

func runSamples(cmd *cobra.Command, args []string) error {
	dir := "data/samples"
	if len(args) == 1 {
		dir = args[0]
	}

	db, repo, err := openRepository()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	progress := newProgress()
	results := importer.New(repo, progress).ImportSamples(cmd.Context(), dir)
	progress.Wait()

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Calendar", "File", "Result")
	failed := 0
	for _, res := range results {
		outcome := fmt.Sprintf("%d entries", res.Count)
		if !res.Success {
			failed++
			outcome = "failed: " + res.Error
		}
		if err := table.Append(res.Variant.DisplayName(), res.Path, outcome); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d sample files failed", failed, len(results))
	}
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	db, repo, err := openRepository()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return printStatistics(cmd.Context(), repo)
}

func printStatistics(ctx context.Context, repo *database.Repository) error {
	stats, err := importer.New(repo, nil).Stats(ctx)
	if err != nil {
		return err
	}
	errorCount, err := repo.CountErrors(ctx)
	if err != nil {
		return err
	}

	fmt.Println("\n=== Database Statistics ===")
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Calendar", "Table", "Entries")
	for _, s := range stats {
		if err := table.Append(s.Variant.DisplayName(), s.Variant.Table(), strconv.FormatInt(s.Count, 10)); err != nil {
			return err
		}
	}
	if err := table.Append("Error log", "error_logs", strconv.FormatInt(errorCount, 10)); err != nil {
		return err
	}
	return table.Render()
}
