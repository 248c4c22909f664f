package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Sidd1211/rerender.dev/internal/engine"
	"github.com/Sidd1211/rerender.dev/internal/reporting"
	"github.com/Sidd1211/rerender.dev/internal/rulepack"
	"github.com/Sidd1211/rerender.dev/internal/shared"
	"github.com/Sidd1211/rerender.dev/internal/storage"
)

type analyzeFlags struct {
	configPath string
	format     string
	out        string
	rulesPath  string
	dbPath     string
	failOn     string
}

func newAnalyzeCmd() *cobra.Command {
	f := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze <file>|-",
		Short: "Scan a component source file (or stdin) and report issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(args[0], f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "Path to YAML config (optional)")
	flags.StringVar(&f.format, "format", "json", "Output format: json, sarif, html, or text")
	flags.StringVar(&f.out, "out", "", "Output directory (default: stdout for json/sarif/text)")
	flags.StringVar(&f.rulesPath, "rules", "", "YAML rule pack appended to the built-in catalog")
	flags.StringVar(&f.dbPath, "db", "", "SQLite database path (persists the scan when set)")
	flags.StringVar(&f.failOn, "fail-on", "", "Exit non-zero if an issue at or above this severity is found")

	return cmd
}

func runAnalyze(target string, f *analyzeFlags) error {
	cfg, _ := shared.LoadConfig(f.configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if f.rulesPath == "" {
		f.rulesPath = cfg.Analysis.RulePack
	}

	code, err := readSource(target)
	if err != nil {
		return exitError(3, "analyze: %v", err)
	}

	eng := engine.Default()
	if f.rulesPath != "" {
		eng, err = rulepack.Extend(f.rulesPath)
		if err != nil {
			return exitError(3, "analyze: rule pack %s: %v", f.rulesPath, err)
		}
	}

	rep := eng.Analyze(code)
	scanID := uuid.NewString()

	if f.dbPath != "" {
		db, err := storage.OpenSQLite(f.dbPath)
		if err != nil {
			return exitError(1, "analyze: db open: %v", err)
		}
		defer db.Close()
		if err := db.CreateSchema(); err != nil {
			return exitError(1, "analyze: db schema: %v", err)
		}
		if err := db.SaveScan(scanID, target, rep); err != nil {
			return exitError(1, "analyze: db save: %v", err)
		}
		slog.Info("scan persisted", "scan", scanID, "db", f.dbPath)
	}

	if err := emit(scanID, &rep, eng.Rules(), target, f); err != nil {
		return err
	}

	if f.failOn != "" {
		threshold := engine.Severity(f.failOn)
		if !threshold.Valid() {
			return exitError(3, "analyze: unknown severity for --fail-on: %s", f.failOn)
		}
		for _, is := range rep.Issues {
			if is.Severity.Rank() >= threshold.Rank() {
				return exitError(2, "analyze: found %s issue %s (threshold %s)", is.Severity, is.ID, threshold)
			}
		}
	}
	return nil
}

func emit(scanID string, rep *engine.Report, rules []engine.Rule, artifact string, f *analyzeFlags) error {
	if f.out != "" {
		if err := os.MkdirAll(f.out, 0o755); err != nil {
			return exitError(1, "analyze: cannot create out dir: %v", err)
		}
	}

	switch f.format {
	case "json":
		if f.out == "" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}
		path, err := reporting.WriteJSON(scanID, f.out, rep)
		if err != nil {
			return exitError(1, "analyze: write json: %v", err)
		}
		fmt.Printf("Analyze OK\n  Scan: %s\n  JSON: %s\n", scanID, path)
	case "sarif":
		if f.out == "" {
			sr, err := reporting.ToSARIF(rep, rules, artifact)
			if err != nil {
				return exitError(1, "analyze: sarif: %v", err)
			}
			return sr.PrettyWrite(os.Stdout)
		}
		path, err := reporting.WriteSARIF(scanID, f.out, rep, rules)
		if err != nil {
			return exitError(1, "analyze: write sarif: %v", err)
		}
		fmt.Printf("Analyze OK\n  Scan: %s\n  SARIF: %s\n", scanID, path)
	case "html":
		if f.out == "" {
			return exitError(3, "analyze: --format html requires --out")
		}
		path, err := reporting.WriteHTML(scanID, f.out, rep)
		if err != nil {
			return exitError(1, "analyze: write html: %v", err)
		}
		fmt.Printf("Analyze OK\n  Scan: %s\n  HTML: %s\n", scanID, path)
	case "text":
		writeText(os.Stdout, rep)
	default:
		return exitError(3, "analyze: unknown format: %s", f.format)
	}
	return nil
}

func writeText(w io.Writer, rep *engine.Report) {
	if rep.Status == engine.StatusError {
		fmt.Fprintf(w, "error: %s\n", rep.Error)
		return
	}
	if rep.TotalIssues == 0 {
		fmt.Fprintln(w, "No issues found.")
		return
	}
	fmt.Fprintf(w, "%d issue(s) found:\n", rep.TotalIssues)
	for _, is := range rep.Issues {
		fmt.Fprintf(w, "  [%s] %s line %d: %s\n      %s\n",
			is.Severity, is.ID, is.Occurrence.LineNumber, is.Title, is.Occurrence.Snippet)
	}
}

func readSource(target string) (string, error) {
	if target == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(target)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
