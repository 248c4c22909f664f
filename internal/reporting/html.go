package reporting

import (
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/Sidd1211/rerender.dev/internal/engine"
)

var severityOrder = []engine.Severity{
	engine.SeverityHigh, engine.SeverityMedium, engine.SeverityLow, engine.SeverityInfo,
}

func WriteHTML(scanID, outDir string, rep *engine.Report) (string, error) {
	path := filepath.Join(outDir, scanID+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// Head + styles
	fmt.Fprintf(f, "<!doctype html><html><head><meta charset='utf-8'><title>%s</title>", html.EscapeString(scanID))
	fmt.Fprint(f, "<style>body{font-family:system-ui,Arial,sans-serif;padding:20px;line-height:1.4} table{border-collapse:collapse;margin:8px 0} td,th{border:1px solid #ddd;padding:6px} h1,h2{margin:6px 0 4px} .dim{color:#666} .mono{font-family:ui-monospace,Menlo,Consolas,monospace} .clean{color:#2e7d32;font-weight:bold} .sev-high{color:#c62828} .sev-medium{color:#ef6c00} .sev-low{color:#f9a825} .sev-info{color:#666}</style>")
	fmt.Fprint(f, "</head><body>")

	fmt.Fprintf(f, "<h1>rerender report – <span class='mono'>%s</span></h1>", html.EscapeString(scanID))
	fmt.Fprintf(f, "<p class='dim'>Analyzed at %s</p>", rep.Timestamp.Format("2006-01-02 15:04:05 MST"))

	if rep.Status == engine.StatusError {
		fmt.Fprintf(f, "<p class='sev-high'>Analysis failed: %s</p></body></html>", html.EscapeString(rep.Error))
		return path, nil
	}

	if rep.Status == engine.StatusClean {
		fmt.Fprint(f, "<p class='clean'>✓ No issues found</p></body></html>")
		return path, nil
	}

	fmt.Fprintf(f, "<p>Issues: %d</p>", rep.TotalIssues)

	// One table per severity tier, highest first. Issues inside a tier keep
	// the report's ranked order.
	for _, sev := range severityOrder {
		var tier []engine.Issue
		for _, is := range rep.Issues {
			if is.Severity == sev {
				tier = append(tier, is)
			}
		}
		if len(tier) == 0 {
			continue
		}
		fmt.Fprintf(f, "<h2 class='sev-%s'>%s (%d)</h2>", sev, sev, len(tier))
		fmt.Fprint(f, "<table><tr><th>Rule</th><th>Line</th><th>Title</th><th>Snippet</th><th>Fix</th></tr>")
		for _, is := range tier {
			fmt.Fprintf(f, "<tr><td>%s</td><td>%d</td><td>%s</td><td class='mono'>%s</td><td>%s</td></tr>",
				html.EscapeString(is.ID),
				is.Occurrence.LineNumber,
				html.EscapeString(is.Title),
				html.EscapeString(is.Occurrence.Snippet),
				html.EscapeString(is.Fix),
			)
		}
		fmt.Fprint(f, "</table>")
	}

	fmt.Fprint(f, "</body></html>")
	return path, nil
}
