package token

// Comment is a `# ...` comment collected during lexing. Comments are not part
// of the construct stream but are kept for tooling that wants them.
type Comment struct {
	Text string // includes the leading '#'
	Span Span
}
