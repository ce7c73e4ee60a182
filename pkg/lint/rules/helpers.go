package rules

import (
	"regexp"
	"strings"

	"github.com/shellvet/shellvet/pkg/parser"
)

// assignments returns the assignments attached to a construct, whether it is
// a plain command line or a declare-family statement.
func assignments(c parser.Construct) []*parser.Assignment {
	switch v := c.(type) {
	case *parser.SimpleCommand:
		return v.Assignments
	case *parser.DeclareStatement:
		return v.Targets
	}
	return nil
}

// commandName returns the static name of a simple command, or "".
func commandName(cmd *parser.SimpleCommand) string {
	if cmd.Name == nil {
		return ""
	}
	name, ok := cmd.Name.Static()
	if !ok {
		return ""
	}
	return name
}

// staticArg returns the static text of the i-th argument, or "".
func staticArg(cmd *parser.SimpleCommand, i int) string {
	if i >= len(cmd.Args) {
		return ""
	}
	s, ok := cmd.Args[i].Static()
	if !ok {
		return ""
	}
	return s
}

// hasShortFlag reports whether arg is a combined short-flag word containing
// the given letter, e.g. hasShortFlag("-la", 'a').
func hasShortFlag(arg string, letter byte) bool {
	if len(arg) < 2 || arg[0] != '-' || arg[1] == '-' {
		return false
	}
	return strings.IndexByte(arg[1:], letter) >= 0
}

var arithRefPattern = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)(\[([^\]]+)\])?`)

// arithRef is one variable reference inside an arithmetic expression.
type arithRef struct {
	Name  string
	Index string // empty for scalar references
}

// arithRefs extracts the variable references of an arithmetic expression.
// Inside (( )) both `n` and `$n` refer to the variable n.
func arithRefs(expr string) []arithRef {
	var refs []arithRef
	for _, m := range arithRefPattern.FindAllStringSubmatch(expr, -1) {
		refs = append(refs, arithRef{Name: m[1], Index: m[3]})
	}
	return refs
}

// integerTestOps are the [[ ]] operators that compare operands as integers.
var integerTestOps = map[string]bool{
	"-eq": true, "-ne": true, "-lt": true, "-le": true, "-gt": true, "-ge": true,
}

// integerComparisons returns the operand words of every integer comparison
// in a [[ ]] command.
func integerComparisons(test *parser.TestCommand) []*parser.Word {
	var out []*parser.Word
	for i, arg := range test.Args {
		op, ok := arg.Static()
		if !ok || !integerTestOps[op] {
			continue
		}
		if i > 0 {
			out = append(out, test.Args[i-1])
		}
		if i+1 < len(test.Args) {
			out = append(out, test.Args[i+1])
		}
	}
	return out
}

// isMatchValidation reports whether a [[ ]] command applies the =~ operator
// to an expansion of the given variable.
func isMatchValidation(test *parser.TestCommand, name string) bool {
	for i, arg := range test.Args {
		op, ok := arg.Static()
		if !ok || op != "=~" || i == 0 {
			continue
		}
		for _, exp := range test.Args[i-1].Expansions() {
			if exp.Name == name {
				return true
			}
		}
	}
	return false
}
