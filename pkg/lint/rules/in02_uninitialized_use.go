package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shellvet/shellvet/pkg/lint"
	"github.com/shellvet/shellvet/pkg/parser"
)

func init() {
	lint.Register(UninitializedIntegerUse)
}

// UninitializedIntegerUse detects integer-context reads of slots that were
// never explicitly initialized.
var UninitializedIntegerUse = lint.RuleDef{
	ID:          "IN02",
	Name:        "integer.uninitialized-use",
	Group:       "integer",
	Description: "The integer attribute does not zero-initialize; reading a never-assigned slot in arithmetic silently yields 0 or an error under nounset.",
	Severity:    lint.SeverityWarning,
	Check:       checkUninitializedIntegerUse,
	Rationale: "declare -i promises integer behavior for assignments, which is " +
		"easily mistaken for a zero default. Elements of an integer array and " +
		"never-assigned integer scalars remain unset, so arithmetic that reads " +
		"them depends on the unset-expansion behavior of the shell instead of a " +
		"defined value.",
	BadExample: `declare -ai totals
totals[1]=10
(( sum = totals[0] + totals[1] ))`,
	GoodExample: `declare -ai totals=([0]=0 [1]=10)
(( sum = totals[0] + totals[1] ))`,
	Fix: "Initialize every slot before reading it in an integer context.",
}

// slotState tracks one integer-attributed variable.
type slotState struct {
	isArray     bool
	initialized map[string]bool // static indices ("" for the scalar itself)
	opaque      bool            // a non-static index assignment blinds tracking
}

func checkUninitializedIntegerUse(script *parser.Script, _ *lint.Context) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	vars := make(map[string]*slotState)
	everAssigned := make(map[string]bool)

	markAssigned := func(a *parser.Assignment) {
		state, ok := vars[a.Name]
		if !ok {
			return
		}
		switch {
		case a.Array != nil:
			markLiteral(state, a.Array)
		case a.Index != "":
			idx, static := staticIndex(a.Index)
			if !static {
				state.opaque = true
				return
			}
			state.initialized[idx] = true
		default:
			state.initialized[""] = true
		}
	}

	for _, c := range script.Flatten() {
		switch v := c.(type) {
		case *parser.DeclareStatement:
			for _, a := range v.Targets {
				if v.Attrs.Integer && vars[a.Name] == nil {
					vars[a.Name] = &slotState{
						isArray:     v.Attrs.IndexedArray || v.Attrs.AssocArray || a.Array != nil,
						initialized: make(map[string]bool),
					}
					if everAssigned[a.Name] {
						// The attribute arrived late; the slot holds a value.
						vars[a.Name].initialized[""] = true
					}
				}
				if v.Removed.Integer {
					delete(vars, a.Name)
					continue
				}
				if a.Value != nil || a.Array != nil {
					markAssigned(a)
					everAssigned[a.Name] = true
				}
			}
		case *parser.SimpleCommand:
			for _, a := range v.Assignments {
				markAssigned(a)
				everAssigned[a.Name] = true
			}
		case *parser.UnsetStatement:
			for _, target := range v.Targets {
				state, ok := vars[target.Name]
				if !ok {
					continue
				}
				if target.Index == "" {
					delete(vars, target.Name)
					continue
				}
				if idx, static := staticIndex(target.Index); static {
					delete(state.initialized, idx)
				} else {
					state.opaque = true
				}
			}
		case *parser.ArithCommand:
			for _, ref := range arithRefs(v.Expr) {
				if msg, bad := uninitializedRead(vars, ref); bad {
					diagnostics = append(diagnostics, lint.Diagnostic{
						RuleID:       "IN02",
						Severity:     lint.SeverityWarning,
						Message:      msg,
						Pos:          v.Pos(),
						SuggestedFix: "assign the slot before using it in arithmetic",
					})
				}
			}
		case *parser.TestCommand:
			for _, operand := range integerComparisons(v) {
				for _, exp := range operand.Expansions() {
					ref := arithRef{Name: exp.Name, Index: exp.Index}
					if exp.Form != parser.FormScalar && exp.Form != parser.FormIndex {
						continue
					}
					if msg, bad := uninitializedRead(vars, ref); bad {
						diagnostics = append(diagnostics, lint.Diagnostic{
							RuleID:       "IN02",
							Severity:     lint.SeverityWarning,
							Message:      msg,
							Pos:          v.Pos(),
							SuggestedFix: "assign the slot before using it in arithmetic",
						})
					}
				}
			}
		}
	}
	return diagnostics
}

// uninitializedRead reports whether the reference reads a tracked slot that
// was never assigned.
func uninitializedRead(vars map[string]*slotState, ref arithRef) (string, bool) {
	state, ok := vars[ref.Name]
	if !ok || state.opaque {
		return "", false
	}
	if ref.Index == "" {
		if state.isArray {
			// Bare array name in arithmetic reads element 0.
			if !state.initialized["0"] {
				return fmt.Sprintf("element 0 of integer array %q is read but never initialized; it is not auto-zeroed", ref.Name), true
			}
			return "", false
		}
		if !state.initialized[""] {
			return fmt.Sprintf("integer variable %q is read but never initialized; it is not auto-zeroed", ref.Name), true
		}
		return "", false
	}
	if !state.isArray {
		return "", false
	}
	idx, static := staticIndex(ref.Index)
	if !static {
		return "", false
	}
	if !state.initialized[idx] {
		return fmt.Sprintf("element %s of integer array %q is read but never initialized; it is not auto-zeroed", idx, ref.Name), true
	}
	return "", false
}

// markLiteral records the slots an initializer list populates, using the
// same effective-index resolution the shell applies.
func markLiteral(state *slotState, arr *parser.ArrayLiteral) {
	prev := -1
	for _, entry := range arr.Entries {
		idx := prev + 1
		if entry.Index != "" {
			n, err := strconv.Atoi(strings.TrimSpace(entry.Index))
			if err != nil {
				state.opaque = true
				return
			}
			idx = n
		}
		state.initialized[strconv.Itoa(idx)] = true
		prev = idx
	}
}

// staticIndex normalizes an index expression to its literal integer text.
func staticIndex(expr string) (string, bool) {
	s := strings.TrimSpace(expr)
	if _, err := strconv.Atoi(s); err != nil {
		return "", false
	}
	n, _ := strconv.Atoi(s)
	return strconv.Itoa(n), true
}
