package rules

import (
	"regexp"

	"github.com/shellvet/shellvet/pkg/lint"
	"github.com/shellvet/shellvet/pkg/parser"
)

func init() {
	lint.Register(ListingOffsetSkip)
}

// ListingOffsetSkip detects ls -a output trimmed by a fixed line offset.
var ListingOffsetSkip = lint.RuleDef{
	ID:          "LS01",
	Name:        "listing.offset-skip",
	Group:       "listing",
	Description: "Piping ls -a into tail -n +N to drop . and .. assumes they sort first, which is locale- and version-dependent.",
	Severity:    lint.SeverityWarning,
	Check:       checkListingOffsetSkip,
	Rationale: "ls sorts by collation order. In many locales dotfiles interleave " +
		"with . and .., so a fixed offset drops real entries on one machine and " +
		"keeps . on another.",
	BadExample:  `for f in $(ls -a "$dir" | tail -n +3); do rm -- "$f"; done`,
	GoodExample: `for f in "$dir"/.[!.]* "$dir"/..?* "$dir"/*; do [[ -e $f ]] && rm -- "$f"; done`,
	Fix:         "Use ls -A, which excludes . and .. itself, or walk the directory instead of slicing listing output.",
}

var tailOffset = regexp.MustCompile(`^\+[0-9]+$`)

func checkListingOffsetSkip(script *parser.Script, _ *lint.Context) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	script.Walk(func(c parser.Construct) bool {
		pipe, ok := c.(*parser.Pipeline)
		if !ok {
			return true
		}
		for i := 0; i+1 < len(pipe.Commands); i++ {
			ls, ok := pipe.Commands[i].(*parser.SimpleCommand)
			if !ok || !isListAll(ls) {
				continue
			}
			next, ok := pipe.Commands[i+1].(*parser.SimpleCommand)
			if !ok || !isOffsetFilter(next) {
				continue
			}
			diagnostics = append(diagnostics, lint.Diagnostic{
				RuleID:   "LS01",
				Severity: lint.SeverityWarning,
				Message: "skipping a fixed number of ls -a lines to drop . and ..; " +
					"their position in the listing depends on locale and ls version",
				Pos:          ls.Pos(),
				SuggestedFix: "list with ls -A or walk the directory",
			})
		}
		return true
	})
	return diagnostics
}

// isListAll matches an ls invocation that includes the dotfile entries.
func isListAll(cmd *parser.SimpleCommand) bool {
	if commandName(cmd) != "ls" {
		return false
	}
	for _, w := range cmd.Args {
		arg, ok := w.Static()
		if !ok {
			continue
		}
		if arg == "--all" || hasShortFlag(arg, 'a') {
			return true
		}
	}
	return false
}

// isOffsetFilter matches tail invoked with a +N start offset.
func isOffsetFilter(cmd *parser.SimpleCommand) bool {
	if commandName(cmd) != "tail" {
		return false
	}
	for _, w := range cmd.Args {
		arg, ok := w.Static()
		if !ok {
			continue
		}
		if tailOffset.MatchString(arg) {
			return true
		}
	}
	return false
}
