package rules

import (
	"fmt"

	"github.com/shellvet/shellvet/pkg/lint"
	"github.com/shellvet/shellvet/pkg/parser"
)

func init() {
	lint.Register(LengthTraversal)
}

// LengthTraversal detects loops that index an array by counting up to its
// length.
var LengthTraversal = lint.RuleDef{
	ID:          "AR02",
	Name:        "arrays.length-traversal",
	Group:       "arrays",
	Description: "Iterating seq 1 ${#arr[@]} assumes the array is dense; sparse arrays make length and max index diverge.",
	Severity:    lint.SeverityWarning,
	Check:       checkLengthTraversal,
	Rationale: "${#arr[@]} is the number of populated elements, not the highest " +
		"index plus one. After an unset, or with designated initializers leaving " +
		"gaps, a count-based loop reads unset slots and misses populated ones.",
	BadExample:  `for i in $(seq 1 ${#files[@]}); do use "${files[$i-1]}"; done`,
	GoodExample: `for i in "${!files[@]}"; do use "${files[$i]}"; done`,
	Fix:         "Iterate the populated keys with \"${!arr[@]}\" instead of counting.",
}

func checkLengthTraversal(script *parser.Script, _ *lint.Context) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	script.Walk(func(c parser.Construct) bool {
		loop, ok := c.(*parser.ForLoop)
		if !ok || loop.Var == "" {
			return true
		}
		for _, word := range loop.Words {
			name, ok := seqOverArrayLength(word)
			if !ok {
				continue
			}
			diagnostics = append(diagnostics, lint.Diagnostic{
				RuleID:   "AR02",
				Severity: lint.SeverityWarning,
				Message: fmt.Sprintf(
					"loop counts up to ${#%s[@]}; for a sparse array the length is not the max index, so slots are skipped or read unset",
					name),
				Pos:          loop.Pos(),
				SuggestedFix: fmt.Sprintf(`for %s in "${!%s[@]}"`, loop.Var, name),
			})
		}
		return true
	})
	return diagnostics
}

// seqOverArrayLength matches a word that is a seq invocation whose bound is
// an array length expansion, e.g. $(seq 1 ${#arr[@]}).
func seqOverArrayLength(word *parser.Word) (string, bool) {
	for _, sub := range word.Substitutions() {
		if len(sub.Words) < 2 {
			continue
		}
		if cmd, ok := sub.Words[0].Static(); !ok || cmd != "seq" {
			continue
		}
		for _, arg := range sub.Words[1:] {
			for _, exp := range arg.Expansions() {
				if exp.Form == parser.FormArrayLength {
					return exp.Name, true
				}
			}
		}
	}
	return "", false
}
