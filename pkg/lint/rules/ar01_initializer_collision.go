package rules

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shellvet/shellvet/pkg/lint"
	"github.com/shellvet/shellvet/pkg/parser"
)

func init() {
	lint.Register(InitializerCollision)
}

// InitializerCollision detects array initializer entries that silently
// overwrite each other.
var InitializerCollision = lint.RuleDef{
	ID:          "AR01",
	Name:        "arrays.initializer-collision",
	Group:       "arrays",
	Description: "Mixed positional and designated array initializers resolving to the same index silently drop the earlier value.",
	Severity:    lint.SeverityWarning,
	Check:       checkInitializerCollision,
	Rationale: "A positional entry takes the index after the previous entry, so a " +
		"designated entry that moves the counter backwards makes a later positional " +
		"entry land on an index that is already occupied. The earlier value is " +
		"dropped without any error.",
	BadExample:  `a=(A [2]=B [1]=C D)   # D resolves to index 2 and drops B`,
	GoodExample: `a=([0]=A [1]=C [2]=D [3]=B)`,
	Fix:         "Give every entry an explicit index, or reorder entries so no positional entry follows a backwards-pointing designated one.",
}

func checkInitializerCollision(script *parser.Script, _ *lint.Context) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	script.Walk(func(c parser.Construct) bool {
		for _, a := range assignments(c) {
			if a.Array == nil || a.Append {
				continue
			}
			diagnostics = append(diagnostics, collisionsIn(a)...)
		}
		return true
	})
	return diagnostics
}

// collisionsIn simulates effective-index resolution over the initializer
// list. Entries whose index expression is not a static integer stop the
// simulation; nothing past them can be resolved reliably.
func collisionsIn(a *parser.Assignment) []lint.Diagnostic {
	occupants := make(map[int][]*parser.ArrayEntry)
	prev := -1
	for _, entry := range a.Array.Entries {
		idx := prev + 1
		if entry.Index != "" {
			n, err := strconv.Atoi(strings.TrimSpace(entry.Index))
			if err != nil {
				return nil
			}
			idx = n
		}
		occupants[idx] = append(occupants[idx], entry)
		prev = idx
	}

	var collided []int
	for idx, entries := range occupants {
		if len(entries) > 1 {
			collided = append(collided, idx)
		}
	}
	sort.Ints(collided)

	var diagnostics []lint.Diagnostic
	for _, idx := range collided {
		entries := occupants[idx]
		first, last := entries[0], entries[len(entries)-1]
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:   "AR01",
			Severity: lint.SeverityWarning,
			Message: fmt.Sprintf(
				"index %d of array %q is assigned %d times: %s is silently overwritten by %s",
				idx, a.Name, len(entries),
				describeEntry(first), describeEntry(last)),
			Pos:          last.Position,
			SuggestedFix: "give every initializer entry an explicit index",
		})
	}
	return diagnostics
}

func describeEntry(e *parser.ArrayEntry) string {
	if e.Value != nil {
		if v, ok := e.Value.Static(); ok {
			return fmt.Sprintf("value %q (%s)", v, e.Position)
		}
	}
	return fmt.Sprintf("the entry at %s", e.Position)
}
