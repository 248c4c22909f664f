package engine

import "regexp"

// Named allow-lists referenced by rule SuppressList fields. Membership is
// case-sensitive exact match against the first capture value.
const (
	ListStateInitializers = "state_initializers"
	ListConsoleAllowed    = "console_allowed"
)

var builtinLists = map[string][]string{
	// Built-in constructors and literals that are fine to hand to useState.
	ListStateInitializers: {
		"Number", "String", "Boolean", "Array", "Object", "Symbol", "BigInt",
		"Date", "Map", "Set", "WeakMap", "WeakSet",
		"undefined", "null", "true", "false", "NaN", "Infinity",
	},
	ListConsoleAllowed: {"error", "warn"},
}

// builtinRules is the shipped catalog. Order matters: it is the final
// tie-break when two issues share severity and line, so append only.
//
// Patterns are heuristics over raw text, not syntax. They approximate
// "inside JSX" or "wrapped in memo" checks and are expected to miss nested
// braces and multi-line attribute soup; keep them cheap and RE2-safe.
var builtinRules = []Rule{
	{
		ID:       "A001",
		Type:     "performance",
		Title:    "useEffect without a dependency array",
		Why:      "An effect with no dependency array runs after every render, repeating its work and any subscriptions each time.",
		Fix:      "Add a dependency array as the second argument; use [] for run-once effects.",
		Severity: SeverityHigh,
		Pattern:  regexp.MustCompile(`useEffect\(\s*(?:async\s*)?\(\s*\)\s*=>\s*\{[^{}]*\}\s*\)`),
	},
	{
		ID:       "A002",
		Type:     "performance",
		Title:    "Inline function in a JSX prop",
		Why:      "A new function value is created on every render, so the receiving child sees a changed prop and re-renders.",
		Fix:      "Hoist the handler or wrap it in useCallback.",
		Severity: SeverityMedium,
		Pattern:  regexp.MustCompile(`\b(on[A-Z]\w*)=\{\s*(?:\([^)]*\)\s*=>|function\b|[A-Za-z_$][\w$]*\s*=>)`),
	},
	{
		ID:           "A003",
		Type:         "performance",
		Title:        "Identifier passed directly to useState",
		Why:          "If the identifier is an eagerly computed value, it is recomputed on every render even though useState only reads it once.",
		Fix:          "Pass a lazy initializer: useState(() => compute()).",
		Severity:     SeverityMedium,
		Pattern:      regexp.MustCompile(`useState\(\s*([A-Za-z_$][\w$]*)\s*\)`),
		SuppressList: ListStateInitializers,
	},
	{
		ID:       "A004",
		Type:     "performance",
		Title:    "Inline object literal in a JSX prop",
		Why:      "Object literals produce a new reference each render, defeating memoized children and effect dependency checks.",
		Fix:      "Hoist the object to module scope or memoize it with useMemo.",
		Severity: SeverityMedium,
		Pattern:  regexp.MustCompile(`\b([A-Za-z_$][\w$]*)=\{\{`),
	},
	{
		ID:           "A005",
		Type:         "performance",
		Title:        "Inline function prop defeats memoization",
		Why:          "This file uses a memoization wrapper, but an inline function prop changes identity every render, so the memoized component re-renders anyway.",
		Fix:          "Wrap the handler in useCallback so the memoized child can bail out.",
		Severity:     SeverityHigh,
		Pattern:      regexp.MustCompile(`\b(on[A-Z]\w*)=\{\s*(?:\([^)]*\)\s*=>|function\b|[A-Za-z_$][\w$]*\s*=>)`),
		RequiresFact: FactMemoization,
	},
	{
		ID:       "A006",
		Type:     "correctness",
		Title:    "Array index used as key",
		Why:      "Index keys break reconciliation when the list reorders: React reuses the wrong DOM and component state.",
		Fix:      "Key list items by a stable identifier from the data.",
		Severity: SeverityMedium,
		Pattern:  regexp.MustCompile(`\bkey=\{\s*(i|idx|index)\s*\}`),
	},
	{
		ID:       "A007",
		Type:     "accessibility",
		Title:    "<img> without an alt attribute",
		Why:      "Screen readers announce the raw file name or nothing at all when an image has no alternative text.",
		Fix:      `Add alt text, or alt="" for purely decorative images.`,
		Severity: SeverityHigh,
		Pattern:  regexp.MustCompile(`<img(?:[^>a]|a[^l]|al[^t]|alt[^=])*>`),
	},
	{
		ID:       "A008",
		Type:     "accessibility",
		Title:    "Click handler on a non-interactive <div>",
		Why:      "A div is not focusable and fires no keyboard events, so keyboard and assistive-tech users cannot activate it.",
		Fix:      "Use a <button>, or add role, tabIndex and a key handler.",
		Severity: SeverityMedium,
		Pattern:  regexp.MustCompile(`<div\b[^>]*\bonClick=`),
	},
	{
		ID:       "A009",
		Type:     "performance",
		Title:    "Deep clone via JSON.parse(JSON.stringify(...))",
		Why:      "Serializing and reparsing is slow, drops functions, Dates and undefined, and runs on every render when inlined.",
		Fix:      "Use structuredClone or clone only the fields that change.",
		Severity: SeverityMedium,
		Pattern:  regexp.MustCompile(`JSON\.parse\(\s*JSON\.stringify\(`),
	},
	{
		ID:           "A010",
		Type:         "maintainability",
		Title:        "Console call in component code",
		Why:          "Stray console output runs on every render and leaks implementation detail to production consoles.",
		Fix:          "Remove the call or route it through a logger.",
		Severity:     SeverityInfo,
		Pattern:      regexp.MustCompile(`console\.(\w+)\s*\(`),
		SuppressList: ListConsoleAllowed,
	},
	{
		ID:       "A011",
		Type:     "performance",
		Title:    "Inline style object",
		Why:      "style={{...}} allocates a fresh object per render and bypasses any style memoization below.",
		Fix:      "Hoist the style object or move it to a stylesheet.",
		Severity: SeverityLow,
		Pattern:  regexp.MustCompile(`\bstyle=\{\{`),
	},
	{
		ID:       "A012",
		Type:     "maintainability",
		Title:    "Direct DOM access from component code",
		Why:      "Querying the document bypasses React's rendering model and breaks under concurrent rendering and portals.",
		Fix:      "Use a ref to reach the underlying element.",
		Severity: SeverityMedium,
		Pattern:  regexp.MustCompile(`\bdocument\.(getElementById|querySelectorAll|querySelector|getElementsByClassName|getElementsByTagName)\s*\(`),
	},
	{
		ID:       "A013",
		Type:     "accessibility",
		Title:    `Anchor with href="#"`,
		Why:      "Placeholder anchors scroll to the top, pollute history and announce as links that go nowhere.",
		Fix:      "Use a <button> for actions; reserve <a> for navigation.",
		Severity: SeverityMedium,
		Pattern:  regexp.MustCompile(`<a\b[^>]*href=["']#["']`),
	},
	{
		ID:           "A014",
		Type:         "correctness",
		Title:        "Direct mutation of this.state",
		Why:          "Assigning to this.state skips setState, so React never schedules the re-render and later setState calls may clobber the change.",
		Fix:          "Call this.setState with the new values.",
		Severity:     SeverityHigh,
		Pattern:      regexp.MustCompile(`this\.state\.[\w$]+\s*=[^=]`),
		RequiresFact: FactClassComponent,
	},
	{
		ID:       "A015",
		Type:     "accessibility",
		Title:    "autoFocus attribute",
		Why:      "Stealing focus on mount disorients screen-reader and keyboard users, who lose their place in the page.",
		Fix:      "Let users move focus themselves, or manage focus from an effect with care.",
		Severity: SeverityLow,
		Pattern:  regexp.MustCompile(`\bautoFocus\b`),
	},
}

// BuiltinRules returns a copy of the shipped catalog, in catalog order.
func BuiltinRules() []Rule {
	out := make([]Rule, len(builtinRules))
	copy(out, builtinRules)
	return out
}

// BuiltinLists returns a copy of the shipped allow-lists.
func BuiltinLists() map[string][]string {
	out := make(map[string][]string, len(builtinLists))
	for name, vals := range builtinLists {
		out[name] = append([]string(nil), vals...)
	}
	return out
}
