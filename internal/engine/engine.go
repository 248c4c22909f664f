package engine

import "fmt"

// Engine binds a validated rule catalog to its allow-lists. Immutable once
// built; safe for concurrent Analyze calls.
type Engine struct {
	rules []Rule
	lists map[string]map[string]struct{}
}

// New validates the catalog and returns an Engine. A malformed catalog
// (duplicate id, missing field, invalid severity, dangling allow-list
// reference, suppression on a capture-less pattern) is a configuration
// error: callers must treat it as fatal at startup, never at request time.
func New(rules []Rule, lists map[string][]string) (*Engine, error) {
	sets := make(map[string]map[string]struct{}, len(lists))
	for name, vals := range lists {
		set := make(map[string]struct{}, len(vals))
		for _, v := range vals {
			set[v] = struct{}{}
		}
		sets[name] = set
	}

	seen := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		if r.ID == "" {
			return nil, fmt.Errorf("rule with empty id")
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("rule %s: duplicate id", r.ID)
		}
		seen[r.ID] = struct{}{}
		if r.Type == "" || r.Title == "" {
			return nil, fmt.Errorf("rule %s: type and title are required", r.ID)
		}
		if !r.Severity.Valid() {
			return nil, fmt.Errorf("rule %s: invalid severity %q", r.ID, r.Severity)
		}
		if r.Pattern == nil {
			return nil, fmt.Errorf("rule %s: nil pattern", r.ID)
		}
		if r.SuppressList != "" {
			if _, ok := sets[r.SuppressList]; !ok {
				return nil, fmt.Errorf("rule %s: unknown allow-list %q", r.ID, r.SuppressList)
			}
			if r.Pattern.NumSubexp() < 1 {
				return nil, fmt.Errorf("rule %s: suppression needs a capture group", r.ID)
			}
		}
	}

	e := &Engine{rules: make([]Rule, len(rules)), lists: sets}
	copy(e.rules, rules)
	return e, nil
}

var defaultEngine = func() *Engine {
	e, err := New(BuiltinRules(), BuiltinLists())
	if err != nil {
		panic("engine: built-in catalog invalid: " + err.Error())
	}
	return e
}()

// Default returns the engine built from the shipped catalog.
func Default() *Engine { return defaultEngine }

// Rules returns the catalog in evaluation order.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}
