package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sidd1211/rerender.dev/internal/engine"
	"github.com/Sidd1211/rerender.dev/internal/rulepack"
)

func newRulesCmd() *cobra.Command {
	var format string
	var rulesPath string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rule catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(format, rulesPath)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&format, "format", "text", "Output format: text or json")
	flags.StringVar(&rulesPath, "rules", "", "YAML rule pack appended to the built-in catalog")

	return cmd
}

func runRules(format, rulesPath string) error {
	eng := engine.Default()
	if rulesPath != "" {
		var err error
		eng, err = rulepack.Extend(rulesPath)
		if err != nil {
			return exitError(3, "rules: rule pack %s: %v", rulesPath, err)
		}
	}
	rules := eng.Rules()

	switch format {
	case "json":
		type item struct {
			ID       string `json:"id"`
			Type     string `json:"type"`
			Title    string `json:"title"`
			Severity string `json:"severity"`
			Gated    bool   `json:"gated"`
		}
		out := make([]item, 0, len(rules))
		for _, r := range rules {
			out = append(out, item{r.ID, r.Type, r.Title, string(r.Severity), r.RequiresFact != ""})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "text":
		for _, r := range rules {
			gate := ""
			if r.RequiresFact != "" {
				gate = " (requires " + r.RequiresFact + ")"
			}
			fmt.Printf("%s  %-8s %-15s %s%s\n", r.ID, r.Severity, r.Type, r.Title, gate)
		}
		fmt.Printf("%d rule(s)\n", len(rules))
	default:
		return exitError(3, "rules: unknown format: %s", format)
	}
	return nil
}
