package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sidd1211/rerender.dev/internal/reporting"
	"github.com/Sidd1211/rerender.dev/internal/shared"
	"github.com/Sidd1211/rerender.dev/internal/storage"
)

type diffFlags struct {
	configPath string
	dbPath     string
	out        string
}

func newDiffCmd() *cobra.Command {
	f := &diffFlags{}

	cmd := &cobra.Command{
		Use:   "diff <base-scan> <head-scan>",
		Short: "Compare two persisted scans and report new and resolved issues",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(args[0], args[1], f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "Path to YAML config (optional)")
	flags.StringVar(&f.dbPath, "db", "", "SQLite database path (default from config)")
	flags.StringVar(&f.out, "out", "", "Output directory (default from config)")

	return cmd
}

func runDiff(baseID, headID string, f *diffFlags) error {
	cfg, _ := shared.LoadConfig(f.configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if f.dbPath == "" {
		f.dbPath = cfg.Database.DSN
	}
	if f.out == "" {
		f.out = cfg.Reporting.OutDir
	}

	db, err := storage.OpenSQLite(f.dbPath)
	if err != nil {
		return exitError(1, "diff: db open: %v", err)
	}
	defer db.Close()

	base, err := db.LoadScan(baseID)
	if err != nil {
		return exitError(1, "diff: load base scan %s: %v", baseID, err)
	}
	head, err := db.LoadScan(headID)
	if err != nil {
		return exitError(1, "diff: load head scan %s: %v", headID, err)
	}
	if err := os.MkdirAll(f.out, 0o755); err != nil {
		return exitError(1, "diff: cannot create out dir: %v", err)
	}

	path, err := reporting.WriteDiffJSON(baseID, headID, f.out, &base, &head)
	if err != nil {
		return exitError(1, "diff: write: %v", err)
	}
	fmt.Printf("Diff OK\n  %s\n", path)
	return nil
}
