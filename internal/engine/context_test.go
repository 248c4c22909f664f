package engine

import "testing"

func TestDetectFacts(t *testing.T) {
	cases := []struct {
		name string
		code string
		want map[string]bool
	}{
		{"empty", "", map[string]bool{FactMemoization: false, FactClassComponent: false}},
		{"react memo", "export default React.memo(List);", map[string]bool{FactMemoization: true}},
		{"bare memo", "const List = memo(function List() {});", map[string]bool{FactMemoization: true}},
		{"useMemo", "const rows = useMemo(() => sort(data), [data]);", map[string]bool{FactMemoization: true}},
		{"useCallback", "const onSave = useCallback(save, []);", map[string]bool{FactMemoization: true}},
		{"memo as word", "// add a memo about this", map[string]bool{FactMemoization: false}},
		{"class component", "class App extends React.Component {}", map[string]bool{FactClassComponent: true}},
		{"pure component", "class App extends PureComponent {}", map[string]bool{FactClassComponent: true}},
		{"plain class", "class Store extends Base {}", map[string]bool{FactClassComponent: false}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			facts := DetectFacts(tc.code)
			for name, want := range tc.want {
				if facts[name] != want {
					t.Fatalf("fact %s = %v, want %v", name, facts[name], want)
				}
			}
		})
	}
}
