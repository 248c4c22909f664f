// Package rulepack loads extra rules from YAML packs and appends them to
// the built-in catalog. A malformed pack is a startup failure, never a
// per-request one.
package rulepack

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/Sidd1211/rerender.dev/internal/engine"
)

type pack struct {
	Rules []packRule `yaml:"rules"`
}

type packRule struct {
	ID       string `yaml:"id"`
	Type     string `yaml:"type"`
	Title    string `yaml:"title"`
	Why      string `yaml:"why"`
	Fix      string `yaml:"fix"`
	Severity string `yaml:"severity"` // high|medium|low|info
	Pattern  string `yaml:"pattern"`  // RE2 regex, applied to the raw input

	RequiresFact   string   `yaml:"requires_fact,omitempty"`
	SuppressValues []string `yaml:"suppress_values,omitempty"` // allow-list for the first capture
}

// Load parses a YAML pack and returns its compiled rules plus the
// allow-lists they reference. Pack rules keep file order; callers append
// them after the built-ins so catalog order stays the tie-break order.
func Load(path string) ([]engine.Rule, map[string][]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read rule pack: %w", err)
	}
	return parse(b)
}

func parse(b []byte) ([]engine.Rule, map[string][]string, error) {
	var p pack
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, nil, fmt.Errorf("parse rule pack: %w", err)
	}

	var rules []engine.Rule
	lists := map[string][]string{}
	for _, pr := range p.Rules {
		r, err := compile(pr)
		if err != nil {
			return nil, nil, fmt.Errorf("rule %q: %w", pr.ID, err)
		}
		if len(pr.SuppressValues) > 0 {
			// Each pack rule owns its list; named after the rule so packs
			// cannot collide with the built-in lists or each other.
			name := "pack:" + pr.ID
			lists[name] = pr.SuppressValues
			r.SuppressList = name
		}
		rules = append(rules, r)
	}
	return rules, lists, nil
}

func compile(pr packRule) (engine.Rule, error) {
	if pr.ID == "" || pr.Type == "" || pr.Title == "" || pr.Severity == "" || pr.Pattern == "" {
		return engine.Rule{}, fmt.Errorf("missing required fields (id/type/title/severity/pattern)")
	}
	sev := engine.Severity(pr.Severity)
	if !sev.Valid() {
		return engine.Rule{}, fmt.Errorf("invalid severity %q", pr.Severity)
	}
	re, err := regexp.Compile(pr.Pattern)
	if err != nil {
		return engine.Rule{}, fmt.Errorf("pattern: %w", err)
	}
	if len(pr.SuppressValues) > 0 && re.NumSubexp() < 1 {
		return engine.Rule{}, fmt.Errorf("suppress_values needs a capture group in the pattern")
	}
	return engine.Rule{
		ID:           pr.ID,
		Type:         pr.Type,
		Title:        pr.Title,
		Why:          pr.Why,
		Fix:          pr.Fix,
		Severity:     sev,
		Pattern:      re,
		RequiresFact: pr.RequiresFact,
	}, nil
}

// Extend builds an engine from the built-in catalog plus an optional pack.
// An empty path returns the default engine unchanged.
func Extend(path string) (*engine.Engine, error) {
	if path == "" {
		return engine.Default(), nil
	}
	packRules, packLists, err := Load(path)
	if err != nil {
		return nil, err
	}
	rules := append(engine.BuiltinRules(), packRules...)
	lists := engine.BuiltinLists()
	for name, vals := range packLists {
		lists[name] = vals
	}
	return engine.New(rules, lists)
}
