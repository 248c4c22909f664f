package reporting

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Sidd1211/rerender.dev/internal/engine"
)

func issue(id string, sev engine.Severity, line int, snippet string) engine.Issue {
	return engine.Issue{
		ID: id, Type: "performance", Title: "title for " + id, Severity: sev,
		Occurrence: engine.Occurrence{LineNumber: line, Snippet: snippet, CharStart: 0, CharEnd: len(snippet)},
	}
}

func report(issues ...engine.Issue) *engine.Report {
	status := engine.StatusClean
	if len(issues) > 0 {
		status = engine.StatusIssuesFound
	}
	return &engine.Report{
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Status:    status, TotalIssues: len(issues), Issues: issues,
	}
}

func TestWriteJSON_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	rep := report(issue("A001", engine.SeverityHigh, 1, "useEffect(() => {})"))

	path, err := WriteJSON("scan-1", dir, rep)
	if err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var got engine.Report
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.TotalIssues != 1 || got.Issues[0].ID != "A001" {
		t.Fatalf("round trip lost data: %+v", got)
	}
	if got.Issues[0].Occurrence.LineNumber != 1 {
		t.Fatalf("occurrence not serialized: %+v", got.Issues[0])
	}
}

func TestToSARIF(t *testing.T) {
	rep := report(
		issue("A001", engine.SeverityHigh, 3, "useEffect(() => {})"),
		issue("A011", engine.SeverityLow, 7, "style={{"),
	)
	doc, err := ToSARIF(rep, engine.BuiltinRules(), "demo.jsx")
	if err != nil {
		t.Fatalf("ToSARIF: %v", err)
	}
	if len(doc.Runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(doc.Runs))
	}
	run := doc.Runs[0]
	if len(run.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(run.Results))
	}
	if got := len(run.Tool.Driver.Rules); got != len(engine.BuiltinRules()) {
		t.Fatalf("sarif rules = %d, want %d", got, len(engine.BuiltinRules()))
	}
	if lvl := run.Results[0].Level; lvl == nil || *lvl != "error" {
		t.Fatalf("high severity should map to level error, got %v", lvl)
	}
	region := run.Results[0].Locations[0].PhysicalLocation.Region
	if region.StartLine == nil || *region.StartLine != 3 {
		t.Fatalf("start line not carried into sarif region")
	}
}

func TestWriteHTML(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteHTML("scan-clean", dir, report())
	if err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	b, _ := os.ReadFile(path)
	if !strings.Contains(string(b), "No issues found") {
		t.Fatalf("clean report missing clean banner")
	}

	rep := report(issue("A001", engine.SeverityHigh, 1, "useEffect(() => {})"))
	path, err = WriteHTML("scan-dirty", dir, rep)
	if err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	b, _ = os.ReadFile(path)
	out := string(b)
	if strings.Contains(out, "No issues found") {
		t.Fatalf("dirty report must not show the clean banner")
	}
	if !strings.Contains(out, "A001") || !strings.Contains(out, "high") {
		t.Fatalf("issue table missing content:\n%s", out)
	}
}

func TestDiff(t *testing.T) {
	base := report(
		issue("A001", engine.SeverityHigh, 1, "useEffect(() => {})"),
		issue("A010", engine.SeverityInfo, 4, "console.log("),
		issue("A010", engine.SeverityInfo, 4, "console.log("),
	)
	head := report(
		issue("A001", engine.SeverityHigh, 1, "useEffect(() => {})"),
		issue("A010", engine.SeverityInfo, 4, "console.log("),
		issue("A007", engine.SeverityHigh, 9, `<img src="x">`),
	)

	d := Diff("base", "head", base, head)
	if d.Summary.NewCount != 1 || d.New[0].RuleID != "A007" {
		t.Fatalf("new issues wrong: %+v", d.New)
	}
	// one of the two duplicate console issues went away
	if d.Summary.ResolvedCount != 1 || d.Resolved[0].RuleID != "A010" {
		t.Fatalf("resolved issues wrong: %+v", d.Resolved)
	}
}
