package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/Sidd1211/rerender.dev/internal/engine"
)

const toolURI = "https://github.com/Sidd1211/rerender.dev"

// ToSARIF converts a report into a SARIF 2.1.0 document. artifact is the
// URI recorded for every result location (the analyzed fragment has no real
// path when it arrives over the API, so callers pass a display name).
func ToSARIF(rep *engine.Report, rules []engine.Rule, artifact string) (*sarif.Report, error) {
	doc, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("create sarif report: %w", err)
	}

	run := sarif.NewRunWithInformationURI("rerender", toolURI)
	for _, r := range rules {
		run.AddRule(r.ID).
			WithDescription(r.Title).
			WithFullDescription(sarif.NewMultiformatMessageString(r.Why)).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{
				Level: toSarifLevel(r.Severity),
			})
	}

	for _, is := range rep.Issues {
		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(artifact)).
				WithRegion(sarif.NewRegion().
					WithStartLine(is.Occurrence.LineNumber).
					WithCharOffset(is.Occurrence.CharStart).
					WithCharLength(is.Occurrence.CharEnd - is.Occurrence.CharStart)),
		)
		result := sarif.NewRuleResult(is.ID).
			WithMessage(sarif.NewTextMessage(is.Title)).
			WithLevel(toSarifLevel(is.Severity)).
			WithLocations([]*sarif.Location{location})
		run.AddResult(result)
	}

	doc.AddRun(run)
	return doc, nil
}

// WriteSARIF writes the SARIF form of a report to <outDir>/<scanID>.sarif.
func WriteSARIF(scanID, outDir string, rep *engine.Report, rules []engine.Rule) (string, error) {
	doc, err := ToSARIF(rep, rules, scanID)
	if err != nil {
		return "", err
	}
	path := filepath.Join(outDir, scanID+".sarif")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := doc.PrettyWrite(f); err != nil {
		return "", err
	}
	return path, nil
}

func toSarifLevel(sev engine.Severity) string {
	switch sev {
	case engine.SeverityHigh:
		return "error"
	case engine.SeverityMedium:
		return "warning"
	case engine.SeverityLow, engine.SeverityInfo:
		return "note"
	default:
		return "none"
	}
}
