// Package rules contains the built-in lint rules, one file per rule.
//
// Importing this package registers every rule with the lint registry via
// init(). Callers that only want metadata can blank-import it:
//
//	import _ "github.com/shellvet/shellvet/pkg/lint/rules"
//
// Rule IDs group by concern: AR (arrays), QU (quoting), IN (integer
// attribute), SU (strict mode), LS (listing), SC (scope).
package rules
