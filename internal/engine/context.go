package engine

import "regexp"

// Facts are whole-input booleans computed once per call, before any rule
// runs. Gating reads them; nothing mutates them mid-scan.
type Facts map[string]bool

// Fact names referenced by gated rules.
const (
	FactMemoization    = "memoization"
	FactClassComponent = "class_component"
)

var factDetectors = []struct {
	name string
	re   *regexp.Regexp
}{
	{FactMemoization, regexp.MustCompile(`\b(?:React\.memo|memo|useMemo|useCallback)\s*\(`)},
	{FactClassComponent, regexp.MustCompile(`\bclass\s+[A-Za-z_$][\w$]*\s+extends\s+(?:React\.)?(?:Pure)?Component\b`)},
}

// DetectFacts runs every detector against the input. Each fact is an
// independent containment test; adding one is a new table row, never a
// change to existing rules.
func DetectFacts(code string) Facts {
	facts := make(Facts, len(factDetectors))
	for _, d := range factDetectors {
		facts[d.name] = d.re.MatchString(code)
	}
	return facts
}
