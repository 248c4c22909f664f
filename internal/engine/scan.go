package engine

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

const invalidInputMsg = "invalid input: code must be a string"

const maxSnippet = 200

// Analyze scans code against the full catalog and returns a ranked report.
// Facts are computed once up front so gating cannot change mid-scan.
func (e *Engine) Analyze(code string) Report {
	facts := DetectFacts(code)

	var issues []Issue
	for _, r := range e.rules {
		if r.RequiresFact != "" && !facts[r.RequiresFact] {
			continue
		}
		for _, occ := range e.scan(r, code) {
			issues = append(issues, Issue{
				ID:         r.ID,
				Type:       r.Type,
				Title:      r.Title,
				Why:        r.Why,
				Fix:        r.Fix,
				Severity:   r.Severity,
				Occurrence: occ,
			})
		}
	}

	// Stable: full ties keep catalog-then-scan order.
	sort.SliceStable(issues, func(i, j int) bool {
		ri, rj := issues[i].Severity.Rank(), issues[j].Severity.Rank()
		if ri != rj {
			return ri > rj
		}
		return issues[i].Occurrence.LineNumber < issues[j].Occurrence.LineNumber
	})

	rep := Report{
		Timestamp:   time.Now().UTC(),
		Status:      StatusClean,
		TotalIssues: len(issues),
		Issues:      issues,
	}
	if len(issues) > 0 {
		rep.Status = StatusIssuesFound
	}
	return rep
}

// AnalyzeValue is the boundary form of Analyze for values decoded from
// JSON: nil or any non-string yields an error-status report, never a panic
// or a Go error.
func (e *Engine) AnalyzeValue(v any) Report {
	code, ok := v.(string)
	if !ok {
		return Report{
			Timestamp: time.Now().UTC(),
			Status:    StatusError,
			Error:     invalidInputMsg,
		}
	}
	return e.Analyze(code)
}

// scan applies one rule to the whole input, left to right, and filters
// suppressed captures. FindAll advances past zero-width matches, so even a
// pathological empty-matching pattern terminates.
func (e *Engine) scan(r Rule, code string) []Occurrence {
	matches := r.Pattern.FindAllStringSubmatchIndex(code, -1)
	if matches == nil {
		return nil
	}
	var out []Occurrence
	for _, m := range matches {
		start, end := m[0], m[1]
		if r.SuppressList != "" && len(m) >= 4 && m[2] >= 0 {
			if _, listed := e.lists[r.SuppressList][code[m[2]:m[3]]]; listed {
				continue
			}
		}
		out = append(out, Occurrence{
			LineNumber: 1 + strings.Count(code[:start], "\n"),
			Snippet:    snippet(code[start:end]),
			CharStart:  start,
			CharEnd:    end,
		})
	}
	return out
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxSnippet {
		// Back up to a rune boundary so the cut never leaves invalid UTF-8.
		cut := maxSnippet
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	return s
}
