package golden

import (
	"encoding/json"
	"testing"

	"github.com/Sidd1211/rerender.dev/internal/engine"
)

// A deliberately messy dashboard component that trips most of the catalog.
const sampleDashboard = `import React, { useState, useEffect, memo } from 'react';

class LegacyPanel extends React.Component {
  refresh() {
    this.state.count = this.state.count + 1;
  }
  render() {
    return <div onClick={this.refresh}>count</div>;
  }
}

const Row = memo(function Row({ item }) {
  return <li style={{ padding: 4 }}>{item.label}</li>;
});

function Dashboard({ items }) {
  const [data, setData] = useState(items);
  const [flags, setFlags] = useState(window.initialFlags);

  useEffect(() => {
    console.log('mounted');
    document.getElementById('root').focus();
  });

  const copy = JSON.parse(JSON.stringify(data));

  return (
    <div>
      <img src="/logo.png" />
      <a href="#">skip</a>
      <input autoFocus />
      <ul config={{ dense: true }}>
        {copy.map((item, idx) => (
          <Row key={idx} item={item} onSelect={() => setData(copy)} />
        ))}
      </ul>
    </div>
  );
}

export default Dashboard;
`

func TestSampleDashboard_ContainsKeyIssues(t *testing.T) {
	rep := engine.Default().Analyze(sampleDashboard)

	if rep.Status != engine.StatusIssuesFound {
		t.Fatalf("status = %s, want %s", rep.Status, engine.StatusIssuesFound)
	}
	if rep.TotalIssues != len(rep.Issues) {
		t.Fatalf("totalIssues %d != len(issues) %d", rep.TotalIssues, len(rep.Issues))
	}

	counts := map[string]int{}
	for _, is := range rep.Issues {
		counts[is.ID]++
	}

	required := []string{
		"A001", // effect without dependency array
		"A002", // inline handler prop
		"A004", // inline object prop
		"A005", // inline handler defeating memoization (memo is in scope)
		"A006", // index used as key
		"A007", // img without alt
		"A008", // click handler on a non-interactive div
		"A009", // JSON deep clone
		"A010", // console call outside the allow-list
		"A011", // inline style object
		"A012", // direct DOM access
		"A013", // placeholder anchor
		"A014", // direct state mutation in a class component
		"A015", // autoFocus
	}
	for _, id := range required {
		if counts[id] == 0 {
			t.Errorf("expected at least one %s issue, got none (counts=%v)", id, counts)
		}
	}

	// useState(window.initialFlags) is a member expression, not a bare
	// identifier, so A003 must not fire on it; useState(items) must.
	if counts["A003"] != 1 {
		t.Errorf("A003 count = %d, want 1", counts["A003"])
	}
}

func TestSampleDashboard_SeverityOrdering(t *testing.T) {
	rep := engine.Default().Analyze(sampleDashboard)

	for i := 1; i < len(rep.Issues); i++ {
		prev, cur := rep.Issues[i-1], rep.Issues[i]
		if prev.Severity.Rank() < cur.Severity.Rank() {
			t.Fatalf("issue %d (%s %s) ranked above issue %d (%s %s)",
				i, cur.ID, cur.Severity, i-1, prev.ID, prev.Severity)
		}
		if prev.Severity.Rank() == cur.Severity.Rank() &&
			prev.Occurrence.LineNumber > cur.Occurrence.LineNumber {
			t.Fatalf("same-severity issues out of line order at %d: line %d before line %d",
				i, prev.Occurrence.LineNumber, cur.Occurrence.LineNumber)
		}
	}
}

func TestSampleDashboard_StableOutput(t *testing.T) {
	a := engine.Default().Analyze(sampleDashboard)
	b := engine.Default().Analyze(sampleDashboard)

	// Timestamps differ between runs; the issue list must not.
	aj, err := json.Marshal(a.Issues)
	if err != nil {
		t.Fatal(err)
	}
	bj, err := json.Marshal(b.Issues)
	if err != nil {
		t.Fatal(err)
	}
	if string(aj) != string(bj) {
		t.Fatalf("issue list not stable across runs:\n%s\nvs\n%s", aj, bj)
	}
}
