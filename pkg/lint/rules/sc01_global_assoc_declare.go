package rules

import (
	"fmt"
	"strings"

	"github.com/shellvet/shellvet/pkg/lint"
	"github.com/shellvet/shellvet/pkg/parser"
)

func init() {
	lint.Register(GlobalAssocDeclare)
}

// GlobalAssocDeclare detects declare -g -A inside a function, broken on some
// legacy shell versions.
var GlobalAssocDeclare = lint.RuleDef{
	ID:          "SC01",
	Name:        "scope.global-assoc-declare",
	Group:       "scope",
	Description: "declare -g -A inside a function yields an empty, unusable associative array on affected legacy shell versions.",
	Severity:    lint.SeverityWarning,
	Check:       checkGlobalAssocDeclare,
	ConfigKeys:  []string{"affected-versions"},
	Rationale: "On affected releases the global promotion and the associative " +
		"attribute interact badly: the array appears declared but assignments to " +
		"it vanish, both inside and outside the function. The failure is silent.",
	BadExample: `setup() {
  declare -gA cache
  cache[key]=value   # lost on affected versions
}`,
	GoodExample: `declare -A cache

setup() {
  cache[key]=value
}`,
	Fix: "Declare the associative array at top level and only assign to it inside functions.",
}

// defaultAffectedVersions lists shell releases with the defect. Overridable
// per config via the affected-versions option.
var defaultAffectedVersions = []string{"4.2"}

func checkGlobalAssocDeclare(script *parser.Script, ctx *lint.Context) []lint.Diagnostic {
	affected := lint.GetStringSliceOption(ctx.Options, "affected-versions", defaultAffectedVersions)
	if !versionsAffected(ctx.TargetVersions, affected) {
		return nil
	}

	var diagnostics []lint.Diagnostic
	script.Walk(func(c parser.Construct) bool {
		st, ok := c.(*parser.DeclareStatement)
		if !ok || !st.InFunction || !st.Attrs.Global || !st.Attrs.AssocArray {
			return true
		}
		name := "the array"
		if len(st.Targets) > 0 {
			name = fmt.Sprintf("%q", st.Targets[0].Name)
		}
		diagnostics = append(diagnostics, lint.Diagnostic{
			RuleID:   "SC01",
			Severity: lint.SeverityWarning,
			Message: fmt.Sprintf(
				"declare -g -A in a function: on affected shell versions (%s) %s stays empty no matter what is assigned",
				strings.Join(affected, ", "), name),
			Pos:          st.Pos(),
			SuggestedFix: "declare the associative array at top level",
		})
		return true
	})
	return diagnostics
}

// versionsAffected reports whether any configured target version falls in
// the affected list. With no target versions configured the answer is yes;
// the scripts could run anywhere.
func versionsAffected(targets, affected []string) bool {
	if len(targets) == 0 {
		return true
	}
	for _, t := range targets {
		for _, a := range affected {
			if t == a || strings.HasPrefix(t, a+".") {
				return true
			}
		}
	}
	return false
}
