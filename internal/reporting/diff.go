package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Sidd1211/rerender.dev/internal/engine"
)

type DiffPayload struct {
	BaseID   string      `json:"base_id"`
	HeadID   string      `json:"head_id"`
	Summary  diffSummary `json:"summary"`
	New      []diffIssue `json:"new"`
	Resolved []diffIssue `json:"resolved"`
}

type diffSummary struct {
	NewCount      int `json:"new"`
	ResolvedCount int `json:"resolved"`
}

type diffIssue struct {
	RuleID   string `json:"rule_id"`
	Severity string `json:"severity"`
	Line     int    `json:"line"`
	Snippet  string `json:"snippet,omitempty"`
}

// Diff compares two reports of the same fragment across code or catalog
// changes. Identity is rule + line + snippet, counted: the engine never
// merges duplicates, so N occurrences dropping to N-1 shows as one
// resolved issue.
func Diff(baseID, headID string, base, head *engine.Report) DiffPayload {
	baseCount := map[string]int{}
	baseSample := map[string]diffIssue{}
	for _, is := range base.Issues {
		k := issueKey(is)
		baseCount[k]++
		baseSample[k] = asDiff(is)
	}
	headCount := map[string]int{}
	headSample := map[string]diffIssue{}
	for _, is := range head.Issues {
		k := issueKey(is)
		headCount[k]++
		headSample[k] = asDiff(is)
	}

	var added, resolved []diffIssue
	for k, hc := range headCount {
		for i := baseCount[k]; i < hc; i++ {
			added = append(added, headSample[k])
		}
	}
	for k, bc := range baseCount {
		for i := headCount[k]; i < bc; i++ {
			resolved = append(resolved, baseSample[k])
		}
	}

	sort.Slice(added, func(i, j int) bool { return lessDiff(added[i], added[j]) })
	sort.Slice(resolved, func(i, j int) bool { return lessDiff(resolved[i], resolved[j]) })

	return DiffPayload{
		BaseID: baseID, HeadID: headID,
		Summary:  diffSummary{NewCount: len(added), ResolvedCount: len(resolved)},
		New:      added,
		Resolved: resolved,
	}
}

// WriteDiffJSON writes the comparison of two reports to
// <outDir>/diff_<base>__<head>.json.
func WriteDiffJSON(baseID, headID, outDir string, base, head *engine.Report) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	payload := Diff(baseID, headID, base, head)
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(outDir, "diff_"+baseID+"__"+headID+".json")
	return path, os.WriteFile(path, b, 0o644)
}

func issueKey(is engine.Issue) string {
	return fmt.Sprintf("%s|%d|%s", is.ID, is.Occurrence.LineNumber, strings.TrimSpace(is.Occurrence.Snippet))
}

func asDiff(is engine.Issue) diffIssue {
	return diffIssue{
		RuleID:   is.ID,
		Severity: string(is.Severity),
		Line:     is.Occurrence.LineNumber,
		Snippet:  is.Occurrence.Snippet,
	}
}

func lessDiff(a, b diffIssue) bool {
	if a.RuleID != b.RuleID {
		return a.RuleID < b.RuleID
	}
	return a.Line < b.Line
}
