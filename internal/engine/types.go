// Package engine implements the rule-based scan of React component source.
// A scan is a pure function of (input text, rule catalog, allow-lists): the
// catalog is immutable after construction and all scan state is call-local,
// so one Engine can serve concurrent requests without locking.
package engine

import (
	"encoding/json"
	"regexp"
	"time"
)

// Severity orders issues in reports. Rank: high=3, medium=2, low=1, info=0.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
	SeverityInfo   Severity = "info"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return true
	}
	return false
}

func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Status is the overall outcome of one analysis.
type Status string

const (
	StatusError       Status = "error"
	StatusClean       Status = "clean"
	StatusIssuesFound Status = "issues_found"
)

// Rule is a single heuristic: a pattern plus the static text reported with
// every match. Rules are plain data; the engine interprets the optional
// fields uniformly, there is no per-rule behavior.
type Rule struct {
	ID       string
	Type     string
	Title    string
	Why      string
	Fix      string
	Severity Severity

	// Pattern is applied against the whole input. RE2 semantics: linear
	// time, no backtracking, safe for concurrent use.
	Pattern *regexp.Regexp

	// RequiresFact names a context fact that must be true for the rule to
	// run at all. Empty means always-on.
	RequiresFact string

	// SuppressList names an allow-list; a match whose first capture value
	// is a member is discarded.
	SuppressList string
}

// Occurrence is one concrete match of a rule against the input.
// CharStart/CharEnd are byte offsets into the original input, half-open.
type Occurrence struct {
	LineNumber int    `json:"lineNumber"`
	Snippet    string `json:"snippet"`
	CharStart  int    `json:"charStart"`
	CharEnd    int    `json:"charEnd"`
}

// Issue is the externally reported unit: an occurrence carrying its rule's
// static fields. Issues are 1:1 with surviving occurrences; overlapping
// matches from different rules are never merged.
type Issue struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Title      string     `json:"title"`
	Why        string     `json:"why"`
	Fix        string     `json:"fix"`
	Severity   Severity   `json:"severity"`
	Occurrence Occurrence `json:"occurrence"`
}

// Report is the result of one analysis call. On the error path Issues is nil
// and Error carries the message; otherwise TotalIssues == len(Issues).
type Report struct {
	Timestamp   time.Time `json:"timestamp"`
	Status      Status    `json:"status"`
	TotalIssues int       `json:"totalIssues"`
	Issues      []Issue   `json:"issues"`
	Error       string    `json:"error,omitempty"`
}

// MarshalJSON keeps the two report shapes distinguishable: error reports
// carry no issues field at all, while clean reports serialize an explicit
// empty array.
func (r Report) MarshalJSON() ([]byte, error) {
	type plain Report
	if r.Status == StatusError {
		return json.Marshal(struct {
			plain
			Issues []Issue `json:"issues,omitempty"`
		}{plain: plain(r)})
	}
	p := plain(r)
	if p.Issues == nil {
		p.Issues = []Issue{}
	}
	return json.Marshal(p)
}
