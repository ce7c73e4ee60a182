package rules

import (
	"fmt"

	"github.com/shellvet/shellvet/pkg/lint"
	"github.com/shellvet/shellvet/pkg/parser"
)

func init() {
	lint.Register(StringBuiltCommand)
}

// StringBuiltCommand detects commands assembled by scalar string
// concatenation and invoked bare.
var StringBuiltCommand = lint.RuleDef{
	ID:          "QU01",
	Name:        "quoting.string-built-command",
	Group:       "quoting",
	Description: "A command line built up in a scalar with += and invoked bare re-splits on whitespace and globs.",
	Severity:    lint.SeverityError,
	Check:       checkStringBuiltCommand,
	Rationale: "Argument boundaries are lost the moment the pieces are flattened " +
		"into one string. Quoting the appended value, or escaping it with printf %q, " +
		"changes what the string contains but not that the bare expansion is split " +
		"on IFS and glob-expanded again at invocation time.",
	BadExample: `cmd="rsync"
cmd+=" $src $dst"
$cmd`,
	GoodExample: `cmd=(rsync)
cmd+=("$src" "$dst")
"${cmd[@]}"`,
	Fix: "Collect the arguments in an array, appending each as its own quoted element, and invoke \"${cmd[@]}\".",
}

func checkStringBuiltCommand(script *parser.Script, _ *lint.Context) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic

	// Scalars that currently hold a concatenation-built value.
	built := make(map[string]bool)

	for _, c := range script.Flatten() {
		switch v := c.(type) {
		case *parser.SimpleCommand:
			for _, a := range v.Assignments {
				if a.Array != nil || a.Index != "" {
					delete(built, a.Name)
					continue
				}
				if a.Append {
					built[a.Name] = true
				} else {
					// A fresh assignment starts the scalar over.
					built[a.Name] = false
				}
			}
			if v.Name == nil {
				continue
			}
			exp, ok := v.Name.BareExpansion()
			if !ok || exp.Form != parser.FormScalar || !built[exp.Name] {
				continue
			}
			diagnostics = append(diagnostics, lint.Diagnostic{
				RuleID:   "QU01",
				Severity: lint.SeverityError,
				Message: fmt.Sprintf(
					"command is the bare expansion of %q, which was built by string concatenation; arguments containing whitespace or globs are re-split here",
					exp.Name),
				Pos:          v.Pos(),
				SuggestedFix: fmt.Sprintf(`build %s as an array and invoke "${%s[@]}"`, exp.Name, exp.Name),
			})
		case *parser.DeclareStatement:
			for _, a := range v.Targets {
				if a.Array == nil && a.Index == "" && !a.Append {
					built[a.Name] = false
				}
			}
		case *parser.UnsetStatement:
			for _, target := range v.Targets {
				delete(built, target.Name)
			}
		}
	}
	return diagnostics
}
