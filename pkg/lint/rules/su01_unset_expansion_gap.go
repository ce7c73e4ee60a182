package rules

import (
	"fmt"
	"strings"

	"github.com/shellvet/shellvet/pkg/lint"
	"github.com/shellvet/shellvet/pkg/parser"
)

func init() {
	lint.Register(UnsetExpansionGap)
}

// UnsetExpansionGap detects whole-array and keys-form expansions that
// nounset silently lets through.
var UnsetExpansionGap = lint.RuleDef{
	ID:          "SU01",
	Name:        "strict.unset-expansion-gap",
	Group:       "strict",
	Description: "set -u does not fail on ${a[@]}, ${a[*]}, ${!a[@]} or ${!a[*]} of an unset or empty array, unlike direct element access.",
	Severity:    lint.SeverityWarning,
	Check:       checkUnsetExpansionGap,
	Rationale: "Scripts enable nounset expecting every touch of an unset variable " +
		"to fail loudly. The four collective array forms are exempt: they expand " +
		"to nothing, so a typo in the array name or a forgotten initialization " +
		"passes silently where a scalar reference would have aborted.",
	BadExample: `set -u
declare -a queue
for job in "${queue[@]}"; do run "$job"; done   # runs zero times, no error`,
	GoodExample: `set -u
declare -a queue=()
(( ${#queue[@]} > 0 )) || die "queue is empty"`,
	Fix: "Check ${#arr[@]} explicitly, or expand through the ${arr[@]+\"${arr[@]}\"} guard; nounset will not do it for collective expansions.",
}

func checkUnsetExpansionGap(script *parser.Script, _ *lint.Context) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic

	strict := false
	// Arrays declared but never given an element.
	empty := make(map[string]bool)

	note := func(a *parser.Assignment) {
		switch {
		case a.Array != nil && len(a.Array.Entries) == 0:
			empty[a.Name] = true
		case a.Array != nil, a.Index != "", a.Value != nil:
			delete(empty, a.Name)
		}
	}

	for _, c := range script.Flatten() {
		switch v := c.(type) {
		case *parser.SimpleCommand:
			if name := commandName(v); name == "set" {
				strict = strictModeAfter(v, strict)
			}
			for _, a := range v.Assignments {
				note(a)
			}
		case *parser.DeclareStatement:
			for _, a := range v.Targets {
				if (v.Attrs.IndexedArray || v.Attrs.AssocArray) && a.Value == nil && a.Array == nil {
					empty[a.Name] = true
					continue
				}
				note(a)
			}
		case *parser.UnsetStatement:
			for _, target := range v.Targets {
				if target.Index == "" {
					empty[target.Name] = true
				}
			}
		}

		for _, word := range parser.Words(c) {
			for _, exp := range word.Expansions() {
				diagnostics = append(diagnostics, expansionGapDiags(exp, strict, empty)...)
			}
		}
	}
	return diagnostics
}

func expansionGapDiags(exp *parser.Expansion, strict bool, empty map[string]bool) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic

	collective := exp.Form.IsWholeArray() || exp.Form.IsKeys()

	if strict && collective && empty[exp.Name] && !exp.HasDefault {
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:   "SU01",
			Severity: lint.SeverityWarning,
			Message: fmt.Sprintf(
				"%s expansion of %q: the array is unset or empty here and nounset does not catch this form",
				exp.Form, exp.Name),
			Pos:          exp.Position,
			SuggestedFix: fmt.Sprintf(
				`guard with (( ${#%s[@]} > 0 )) or expand as ${%s[@]+"${%s[@]}"}`,
				exp.Name, exp.Name, exp.Name),
		})
	}

	// The ? modifier on a keys-form expansion errors with the whole key list
	// jammed into one identifier; behavior differs across shell versions.
	if exp.Form.IsKeys() && exp.ErrorIfUnset {
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:   "SU01",
			Severity: lint.SeverityInfo,
			Message: fmt.Sprintf(
				"error-on-unset modifier on the keys expansion of %q produces a malformed, version-dependent error message",
				exp.Name),
			Pos: exp.Position,
		})
	}

	return diagnostics
}

// strictModeAfter applies one set invocation to the current nounset state.
func strictModeAfter(cmd *parser.SimpleCommand, strict bool) bool {
	for i := 0; i < len(cmd.Args); i++ {
		arg, ok := cmd.Args[i].Static()
		if !ok {
			continue
		}
		switch {
		case arg == "-o" && staticArg(cmd, i+1) == "nounset":
			strict = true
			i++
		case arg == "+o" && staticArg(cmd, i+1) == "nounset":
			strict = false
			i++
		case hasShortFlag(arg, 'u'):
			strict = true
		case len(arg) > 1 && arg[0] == '+' && strings.IndexByte(arg[1:], 'u') >= 0:
			strict = false
		}
	}
	return strict
}
