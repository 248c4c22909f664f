package engine

import (
	"regexp"
	"testing"
)

func TestBuiltinCatalog_Valid(t *testing.T) {
	rules := BuiltinRules()
	if len(rules) == 0 {
		t.Fatal("empty built-in catalog")
	}

	seen := map[string]bool{}
	for _, r := range rules {
		if r.ID == "" || seen[r.ID] {
			t.Fatalf("rule id %q empty or duplicated", r.ID)
		}
		seen[r.ID] = true
		if !r.Severity.Valid() {
			t.Fatalf("rule %s: invalid severity %q", r.ID, r.Severity)
		}
		if r.Title == "" || r.Why == "" || r.Fix == "" {
			t.Fatalf("rule %s: missing descriptive text", r.ID)
		}
		if r.SuppressList != "" && r.Pattern.NumSubexp() < 1 {
			t.Fatalf("rule %s: suppression without a capture group", r.ID)
		}
	}
}

func TestNew_RejectsMalformedCatalogs(t *testing.T) {
	pat := regexp.MustCompile(`x`)
	capPat := regexp.MustCompile(`(x)`)
	ok := Rule{ID: "R1", Type: "performance", Title: "t", Severity: SeverityLow, Pattern: pat}

	cases := []struct {
		name  string
		rules []Rule
		lists map[string][]string
	}{
		{"duplicate id", []Rule{ok, ok}, nil},
		{"empty id", []Rule{{Type: "x", Title: "t", Severity: SeverityLow, Pattern: pat}}, nil},
		{"missing title", []Rule{{ID: "R1", Type: "x", Severity: SeverityLow, Pattern: pat}}, nil},
		{"bad severity", []Rule{{ID: "R1", Type: "x", Title: "t", Severity: "urgent", Pattern: pat}}, nil},
		{"nil pattern", []Rule{{ID: "R1", Type: "x", Title: "t", Severity: SeverityLow}}, nil},
		{"dangling list", []Rule{{ID: "R1", Type: "x", Title: "t", Severity: SeverityLow, Pattern: capPat, SuppressList: "nope"}}, nil},
		{"captureless suppression", []Rule{{ID: "R1", Type: "x", Title: "t", Severity: SeverityLow, Pattern: pat, SuppressList: "l"}}, map[string][]string{"l": {"v"}}},
	}
	for _, tc := range cases {
		if _, err := New(tc.rules, tc.lists); err == nil {
			t.Fatalf("%s: expected error, got nil", tc.name)
		}
	}
}

func TestNew_AcceptsValidCatalog(t *testing.T) {
	e, err := New(BuiltinRules(), BuiltinLists())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got, want := len(e.Rules()), len(BuiltinRules()); got != want {
		t.Fatalf("rule count = %d, want %d", got, want)
	}
}

func TestCatalogOrder_Preserved(t *testing.T) {
	rules := Default().Rules()
	builtin := BuiltinRules()
	for i := range rules {
		if rules[i].ID != builtin[i].ID {
			t.Fatalf("catalog order changed at %d: %s vs %s", i, rules[i].ID, builtin[i].ID)
		}
	}
}
