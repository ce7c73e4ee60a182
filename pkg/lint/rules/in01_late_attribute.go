package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shellvet/shellvet/pkg/lint"
	"github.com/shellvet/shellvet/pkg/parser"
)

func init() {
	lint.Register(LateIntegerAttribute)
}

// LateIntegerAttribute detects the integer attribute applied to a variable
// that already holds a value.
var LateIntegerAttribute = lint.RuleDef{
	ID:          "IN01",
	Name:        "integer.late-attribute",
	Group:       "integer",
	Description: "declare -i on a pre-existing variable does not coerce the stored value; later integer comparisons still see the original string.",
	Severity:    lint.SeverityWarning,
	Check:       checkLateIntegerAttribute,
	Rationale: "Setting the integer attribute only affects future assignments. A " +
		"variable that already holds a non-numeric string keeps it, and an integer " +
		"comparison of that string evaluates it as an arithmetic expression with " +
		"surprising results (an unset name inside it becomes 0).",
	BadExample: `v=abc
declare -i v
[[ $v -eq 0 ]] && echo "looks like zero"`,
	GoodExample: `declare -i v=0
[[ $raw =~ ^[0-9]+$ ]] && v=$raw`,
	Fix: "Declare the integer attribute before first assignment, or validate the value with [[ ... =~ ... ]] before comparing it numerically.",
}

var numericLiteral = regexp.MustCompile(`^[+-]?[0-9]+$`)

// arithComparison matches a comparison operator inside (( )).
var arithComparison = regexp.MustCompile(`[<>]=?|[!=]=`)

func checkLateIntegerAttribute(script *parser.Script, _ *lint.Context) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic

	numeric := make(map[string]bool) // name currently holds a static numeric value
	exists := make(map[string]bool)  // name has been assigned
	suspect := make(map[string]bool) // integer attribute applied late
	validated := make(map[string]bool)

	recordAssign := func(a *parser.Assignment) {
		if a.Array != nil || a.Index != "" {
			return
		}
		exists[a.Name] = true
		numeric[a.Name] = false
		if a.Value != nil {
			if v, ok := a.Value.Static(); ok && numericLiteral.MatchString(strings.TrimSpace(v)) {
				numeric[a.Name] = true
			}
		}
	}

	for _, c := range script.Flatten() {
		switch v := c.(type) {
		case *parser.SimpleCommand:
			for _, a := range v.Assignments {
				recordAssign(a)
			}
		case *parser.DeclareStatement:
			for _, a := range v.Targets {
				if v.Attrs.Integer && a.Value == nil && a.Array == nil && exists[a.Name] && !numeric[a.Name] {
					suspect[a.Name] = true
					diagnostics = append(diagnostics, lint.Diagnostic{
						RuleID:   "IN01",
						Severity: lint.SeverityWarning,
						Message: fmt.Sprintf(
							"integer attribute applied to %q after it was assigned; the existing value is not coerced",
							a.Name),
						Pos:          v.Pos(),
						SuggestedFix: "declare -i before the first assignment",
					})
				}
				if a.Value != nil || a.Array != nil {
					recordAssign(a)
				}
			}
		case *parser.UnsetStatement:
			for _, target := range v.Targets {
				delete(exists, target.Name)
				delete(numeric, target.Name)
				delete(suspect, target.Name)
				delete(validated, target.Name)
			}
		case *parser.TestCommand:
			for name := range suspect {
				if isMatchValidation(v, name) {
					validated[name] = true
				}
			}
			for _, operand := range integerComparisons(v) {
				for _, exp := range operand.Expansions() {
					if !suspect[exp.Name] || validated[exp.Name] {
						continue
					}
					diagnostics = append(diagnostics, lint.Diagnostic{
						RuleID:   "IN01",
						Severity: lint.SeverityWarning,
						Message: fmt.Sprintf(
							"integer comparison of %q, whose value predates its integer attribute and was never validated",
							exp.Name),
						Pos:          v.Pos(),
						SuggestedFix: fmt.Sprintf(`validate first: [[ $%s =~ ^[0-9]+$ ]]`, exp.Name),
					})
				}
			}
		case *parser.ArithCommand:
			if !arithComparison.MatchString(v.Expr) {
				continue
			}
			for _, ref := range arithRefs(v.Expr) {
				if ref.Index != "" || !suspect[ref.Name] || validated[ref.Name] {
					continue
				}
				diagnostics = append(diagnostics, lint.Diagnostic{
					RuleID:   "IN01",
					Severity: lint.SeverityWarning,
					Message: fmt.Sprintf(
						"arithmetic comparison of %q, whose value predates its integer attribute and was never validated",
						ref.Name),
					Pos: v.Pos(),
				})
			}
		}
	}
	return diagnostics
}
