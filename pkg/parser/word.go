package parser

import (
	"strings"

	"github.com/shellvet/shellvet/pkg/token"
)

// ExpansionForm is the closed enumeration of parameter expansion shapes the
// rules distinguish. Modeling these as a tagged variant (rather than a generic
// expansion object) keeps rule matching exhaustive and cheap.
type ExpansionForm int

const (
	// FormScalar is $name or ${name}.
	FormScalar ExpansionForm = iota
	// FormIndex is ${name[expr]} with a single index expression.
	FormIndex
	// FormAllAt is ${name[@]}.
	FormAllAt
	// FormAllStar is ${name[*]}.
	FormAllStar
	// FormKeysAt is ${!name[@]}.
	FormKeysAt
	// FormKeysStar is ${!name[*]}.
	FormKeysStar
	// FormLength is ${#name}.
	FormLength
	// FormArrayLength is ${#name[@]} or ${#name[*]}.
	FormArrayLength
)

var formNames = map[ExpansionForm]string{
	FormScalar:      "scalar",
	FormIndex:       "index",
	FormAllAt:       "all-values-@",
	FormAllStar:     "all-values-*",
	FormKeysAt:      "keys-@",
	FormKeysStar:    "keys-*",
	FormLength:      "length",
	FormArrayLength: "array-length",
}

// String returns a printable name for the form.
func (f ExpansionForm) String() string {
	if s, ok := formNames[f]; ok {
		return s
	}
	return "unknown"
}

// IsWholeArray reports whether the form expands all values of an array.
func (f ExpansionForm) IsWholeArray() bool {
	return f == FormAllAt || f == FormAllStar
}

// IsKeys reports whether the form expands the populated keys of an array.
func (f ExpansionForm) IsKeys() bool {
	return f == FormKeysAt || f == FormKeysStar
}

// WordPart is one segment of a word: a literal run, a parameter expansion, a
// command substitution or an arithmetic expansion.
type WordPart interface {
	wordPart()
}

// Literal is a run of plain (possibly quoted) characters.
type Literal struct {
	Value    string
	Quoted   bool
	Position token.Position
}

// Expansion is a parameter expansion.
type Expansion struct {
	Name         string
	Form         ExpansionForm
	Index        string // raw index expression for FormIndex
	ErrorIfUnset bool   // ${name?msg} / ${name:?msg}
	ErrorMessage string
	HasDefault   bool // ${name:-...} family
	Indirect     bool // ${!name}
	Quoted       bool // inside double quotes
	Position     token.Position
}

// CommandSubst is $(...) or `...`. Words holds the first-level words of the
// substituted command, re-lexed so rules can inspect them.
type CommandSubst struct {
	Text      string
	Words     []*Word
	Backquote bool
	Position  token.Position
}

// ArithExpansion is $((...)).
type ArithExpansion struct {
	Expr     string
	Position token.Position
}

func (*Literal) wordPart()        {}
func (*Expansion) wordPart()      {}
func (*CommandSubst) wordPart()   {}
func (*ArithExpansion) wordPart() {}

// Word is one shell word with its expansion structure.
type Word struct {
	Text     string
	Parts    []WordPart
	Position token.Position
}

// Pos returns the word's source position.
func (w *Word) Pos() token.Position { return w.Position }

// Expansions returns every parameter expansion in the word, descending into
// command substitutions.
func (w *Word) Expansions() []*Expansion {
	var out []*Expansion
	for _, p := range w.Parts {
		switch v := p.(type) {
		case *Expansion:
			out = append(out, v)
		case *CommandSubst:
			for _, inner := range v.Words {
				out = append(out, inner.Expansions()...)
			}
		}
	}
	return out
}

// Substitutions returns the command substitutions of the word.
func (w *Word) Substitutions() []*CommandSubst {
	var out []*CommandSubst
	for _, p := range w.Parts {
		if v, ok := p.(*CommandSubst); ok {
			out = append(out, v)
		}
	}
	return out
}

// Static returns the word's value when it consists only of literal parts,
// with quoting resolved. The second result is false when the word contains
// any expansion or substitution.
func (w *Word) Static() (string, bool) {
	var b strings.Builder
	for _, p := range w.Parts {
		lit, ok := p.(*Literal)
		if !ok {
			return "", false
		}
		b.WriteString(lit.Value)
	}
	return b.String(), true
}

// BareExpansion returns the expansion when the word consists of exactly one
// parameter expansion and nothing else, e.g. a command invoked as `$cmd` or
// `"$cmd"`. Quoting is not considered; callers that care read Quoted off the
// returned expansion.
func (w *Word) BareExpansion() (*Expansion, bool) {
	if len(w.Parts) != 1 {
		return nil, false
	}
	exp, ok := w.Parts[0].(*Expansion)
	if !ok {
		return nil, false
	}
	return exp, true
}

// ScanWord analyzes the raw text of one shell word.
func ScanWord(text string, pos token.Position) *Word {
	w := &Word{Text: text, Position: pos}

	partPos := func(i int) token.Position {
		return pos.Advance(text[:i])
	}

	var runStart = -1
	var run strings.Builder
	flushRun := func() {
		if runStart >= 0 && run.Len() > 0 {
			w.Parts = append(w.Parts, &Literal{Value: run.String(), Position: partPos(runStart)})
		}
		runStart = -1
		run.Reset()
	}
	addLiteral := func(at int, s string) {
		if runStart < 0 {
			runStart = at
		}
		run.WriteString(s)
	}

	quoted := false // inside double quotes
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '\'' && !quoted:
			end := strings.IndexByte(text[i+1:], '\'')
			if end < 0 {
				addLiteral(i, text[i+1:])
				i = len(text)
				break
			}
			flushRun()
			w.Parts = append(w.Parts, &Literal{Value: text[i+1 : i+1+end], Quoted: true, Position: partPos(i)})
			i += end + 2
		case c == '"':
			quoted = !quoted
			i++
		case c == '\\':
			if i+1 < len(text) {
				addLiteral(i, text[i+1:i+2])
				i += 2
			} else {
				i++
			}
		case c == '`':
			end := findBackquoteEnd(text, i+1)
			flushRun()
			inner := text[i+1 : end]
			w.Parts = append(w.Parts, newCommandSubst(inner, true, partPos(i), partPos(i+1)))
			i = end + 1
			if i > len(text) {
				i = len(text)
			}
		case c == '$' && i+1 < len(text):
			switch text[i+1] {
			case '(':
				if i+2 < len(text) && text[i+2] == '(' {
					end := findBalanced(text, i+1, '(', ')')
					flushRun()
					inner := strings.TrimSpace(trimSuffixByte(text[i+3:end], ')'))
					w.Parts = append(w.Parts, &ArithExpansion{Expr: inner, Position: partPos(i)})
					i = end + 1
				} else {
					end := findBalanced(text, i+1, '(', ')')
					flushRun()
					inner := text[i+2 : end]
					w.Parts = append(w.Parts, newCommandSubst(inner, false, partPos(i), partPos(i+2)))
					i = end + 1
				}
			case '{':
				end := findBalanced(text, i+1, '{', '}')
				flushRun()
				exp := parseBraceExpansion(text[i+2:end], partPos(i), quoted)
				if exp != nil {
					w.Parts = append(w.Parts, exp)
				} else {
					addLiteral(i, text[i:min(end+1, len(text))])
				}
				i = end + 1
			default:
				name := readVarName(text[i+1:])
				if name == "" {
					addLiteral(i, "$")
					i++
				} else {
					flushRun()
					w.Parts = append(w.Parts, &Expansion{
						Name:     name,
						Form:     FormScalar,
						Quoted:   quoted,
						Position: partPos(i),
					})
					i += 1 + len(name)
				}
			}
		default:
			addLiteral(i, string(c))
			i++
		}
	}
	flushRun()

	// Quoted flags for expansions are set during the scan above only for the
	// $name form; brace expansions carry it via parseBraceExpansion.
	return w
}

// ScanWords lexes text into first-level words and analyzes each. Used for the
// contents of command substitutions.
func ScanWords(text string, at token.Position) []*Word {
	lx := NewLexerAt(text, at)
	var out []*Word
	for {
		tok := lx.NextToken()
		if tok.Type == token.EOF {
			break
		}
		if tok.Type == token.WORD {
			out = append(out, ScanWord(tok.Literal, tok.Pos))
		}
	}
	return out
}

func newCommandSubst(inner string, backquote bool, at, innerAt token.Position) *CommandSubst {
	return &CommandSubst{
		Text:      inner,
		Words:     ScanWords(inner, innerAt),
		Backquote: backquote,
		Position:  at,
	}
}

// parseBraceExpansion analyzes the content of ${...}. Returns nil when the
// content is not a recognizable parameter expansion; the caller degrades it
// to a literal.
func parseBraceExpansion(content string, pos token.Position, quoted bool) *Expansion {
	s := content
	exp := &Expansion{Form: FormScalar, Quoted: quoted, Position: pos}

	excl := strings.HasPrefix(s, "!")
	if excl {
		s = s[1:]
	}
	hash := false
	if strings.HasPrefix(s, "#") && len(s) > 1 {
		hash = true
		s = s[1:]
	}

	name := readVarName(s)
	if name == "" {
		return nil
	}
	exp.Name = name
	s = s[len(name):]

	subscript := ""
	if strings.HasPrefix(s, "[") {
		end := findBalanced(s, 0, '[', ']')
		if end >= len(s) {
			return nil
		}
		subscript = s[1:end]
		s = s[end+1:]
	}

	switch {
	case hash && (subscript == "@" || subscript == "*"):
		exp.Form = FormArrayLength
	case hash:
		exp.Form = FormLength
	case excl && subscript == "@":
		exp.Form = FormKeysAt
	case excl && subscript == "*":
		exp.Form = FormKeysStar
	case excl:
		exp.Indirect = true
	case subscript == "@":
		exp.Form = FormAllAt
	case subscript == "*":
		exp.Form = FormAllStar
	case subscript != "":
		exp.Form = FormIndex
		exp.Index = subscript
	}

	// Modifier suffix. Only the error-on-unset and default families matter to
	// the rules; substring/pattern operators are ignored.
	switch {
	case strings.HasPrefix(s, ":?"):
		exp.ErrorIfUnset = true
		exp.ErrorMessage = s[2:]
	case strings.HasPrefix(s, "?"):
		exp.ErrorIfUnset = true
		exp.ErrorMessage = s[1:]
	case strings.HasPrefix(s, ":-"), strings.HasPrefix(s, ":="), strings.HasPrefix(s, ":+"):
		exp.HasDefault = true
	case s == "" || strings.HasPrefix(s, ":"):
		// bare expansion or substring; nothing to record
	case strings.HasPrefix(s, "-"), strings.HasPrefix(s, "="), strings.HasPrefix(s, "+"):
		exp.HasDefault = true
	}

	return exp
}

// readVarName reads a variable name or special parameter from the front of s.
func readVarName(s string) string {
	if s == "" {
		return ""
	}
	// Special parameters expand as scalars.
	switch s[0] {
	case '?', '#', '@', '*', '!', '$', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return s[:1]
	}
	n := 0
	for n < len(s) && (isNameByte(s[n]) || (n > 0 && s[n] >= '0' && s[n] <= '9')) {
		n++
	}
	return s[:n]
}

func isNameByte(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}

// IsName reports whether s is a valid shell identifier.
func IsName(s string) bool {
	if s == "" {
		return false
	}
	if s[0] >= '0' && s[0] <= '9' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isNameByte(s[i]) {
			return false
		}
	}
	return true
}

// findBalanced returns the index of the close byte matching the open byte at
// text[start]. Quoted segments are skipped. Returns len(text) when no match
// is found.
func findBalanced(text string, start int, open, close byte) int {
	depth := 0
	i := start
	for i < len(text) {
		switch text[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		case '\\':
			i++
		case '\'':
			end := strings.IndexByte(text[i+1:], '\'')
			if end < 0 {
				return len(text)
			}
			i += end + 1
		case '"':
			end := findDoubleQuoteEnd(text, i+1)
			i = end
		}
		i++
	}
	return len(text)
}

func findDoubleQuoteEnd(text string, start int) int {
	i := start
	for i < len(text) {
		switch text[i] {
		case '"':
			return i
		case '\\':
			i++
		}
		i++
	}
	return len(text)
}

func findBackquoteEnd(text string, start int) int {
	i := start
	for i < len(text) {
		switch text[i] {
		case '`':
			return i
		case '\\':
			i++
		}
		i++
	}
	return len(text)
}

func trimSuffixByte(s string, b byte) string {
	if len(s) > 0 && s[len(s)-1] == b {
		return s[:len(s)-1]
	}
	return s
}
