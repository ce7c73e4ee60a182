// Package parser tokenizes shell source and builds the lightweight construct
// stream the lint rules operate on. It is not a full shell grammar: constructs
// the rules never look at are either passed through as plain commands or
// skipped as unparsed regions, never treated as fatal.
package parser

import (
	"regexp"
	"strings"

	"github.com/shellvet/shellvet/pkg/token"
)

// Lexer tokenizes shell input into words and operators.
type Lexer struct {
	input      string
	pos        int  // current position in input
	readPos    int  // reading position (after current char)
	ch         byte // current char under examination
	line       int  // current line number (1-based)
	col        int  // current column number (1-based)
	baseOffset int  // offset of input[0] in the enclosing source

	// Heredoc bodies pending after the next newline.
	heredocs     []heredoc
	afterNewline bool

	// Comments collected during lexing
	Comments []*token.Comment
}

type heredoc struct {
	delim     string
	stripTabs bool
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// NewLexerAt creates a Lexer whose positions are reported relative to at.
// Used when re-lexing embedded text such as array literals and command
// substitutions.
func NewLexerAt(input string, at token.Position) *Lexer {
	l := &Lexer{
		input:      input,
		line:       at.Line,
		col:        at.Column - 1,
		baseOffset: at.Offset,
	}
	if l.col < 0 {
		l.col = 0
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.baseOffset + l.pos,
	}
}

// PushHeredoc registers a heredoc delimiter; the body following the next
// newline is skipped up to and including the delimiter line.
func (l *Lexer) PushHeredoc(delim string, stripTabs bool) {
	l.heredocs = append(l.heredocs, heredoc{delim: delim, stripTabs: stripTabs})
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	if l.afterNewline {
		l.afterNewline = false
		if len(l.heredocs) > 0 {
			l.skipHeredocBodies()
		}
	}

	l.skipBlanksAndComments()

	pos := l.currentPos()

	switch l.ch {
	case 0:
		return token.Token{Type: token.EOF, Pos: pos}
	case '\n':
		l.readChar()
		l.afterNewline = true
		return token.Token{Type: token.NEWLINE, Literal: "\n", Pos: pos}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.OROR, Literal: "||", Pos: pos}
		}
		l.readChar()
		return token.Token{Type: token.PIPE, Literal: "|", Pos: pos}
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.ANDAND, Literal: "&&", Pos: pos}
		}
		l.readChar()
		return token.Token{Type: token.AMP, Literal: "&", Pos: pos}
	case ';':
		if l.peekChar() == ';' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.DSEMI, Literal: ";;", Pos: pos}
		}
		l.readChar()
		return token.Token{Type: token.SEMI, Literal: ";", Pos: pos}
	case '(':
		if l.peekChar() == '(' {
			return l.readArith(pos)
		}
		l.readChar()
		return token.Token{Type: token.LPAREN, Literal: "(", Pos: pos}
	case ')':
		l.readChar()
		return token.Token{Type: token.RPAREN, Literal: ")", Pos: pos}
	case '<':
		return l.readLess(pos)
	case '>':
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.DGREAT, Literal: ">>", Pos: pos}
		}
		l.readChar()
		return token.Token{Type: token.GREAT, Literal: ">", Pos: pos}
	default:
		return l.readWordToken(pos)
	}
}

func (l *Lexer) readLess(pos token.Position) token.Token {
	l.readChar() // first '<'
	if l.ch != '<' {
		return token.Token{Type: token.LESS, Literal: "<", Pos: pos}
	}
	l.readChar() // second '<'
	switch l.ch {
	case '<':
		l.readChar()
		return token.Token{Type: token.TLESS, Literal: "<<<", Pos: pos}
	case '-':
		l.readChar()
		return token.Token{Type: token.DLESSD, Literal: "<<-", Pos: pos}
	default:
		return token.Token{Type: token.DLESS, Literal: "<<", Pos: pos}
	}
}

// assignPrefix matches a complete assignment prefix, e.g. "A=", "A+=",
// "A[2]=". Used to tell an array literal `A=(...)` apart from a subshell.
var assignPrefix = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\[[^\]]*\])?\+?=$`)

// readWordToken reads one shell word, keeping quoted segments, expansions and
// array literals inside it. An unterminated quote yields an ILLEGAL token so
// the parser can skip the region instead of failing the file.
func (l *Lexer) readWordToken(pos token.Position) token.Token {
	start := l.pos
	ok := true

loop:
	for l.ch != 0 {
		switch {
		case l.ch == '\\':
			l.readChar()
			if l.ch != 0 {
				l.readChar()
			}
		case l.ch == '\'':
			if !l.skipSingleQuote() {
				ok = false
				break loop
			}
		case l.ch == '"':
			if !l.skipDoubleQuote() {
				ok = false
				break loop
			}
		case l.ch == '`':
			if !l.skipBackquote() {
				ok = false
				break loop
			}
		case l.ch == '$':
			switch l.peekChar() {
			case '(':
				l.readChar()
				l.skipParens()
			case '{':
				l.readChar()
				l.skipBraces()
			default:
				l.readChar()
			}
		case l.ch == '(' && assignPrefix.MatchString(l.input[start:l.pos]):
			l.skipParens()
		case isMeta(l.ch):
			break loop
		default:
			l.readChar()
		}
	}

	lit := l.input[start:l.pos]
	if !ok {
		// Consume the rest of the line so the caller sees a bounded region.
		for l.ch != 0 && l.ch != '\n' {
			l.readChar()
		}
		return token.Token{Type: token.ILLEGAL, Literal: l.input[start:l.pos], Pos: pos}
	}
	return token.Token{Type: token.WORD, Literal: lit, Pos: pos}
}

// readArith scans a complete `(( ... ))` command, returning the inner
// expression text. Balanced parentheses inside the expression are handled.
func (l *Lexer) readArith(pos token.Position) token.Token {
	l.readChar() // first '('
	l.readChar() // second '('

	startInner := l.pos
	endInner := -1
	depth := 2
	for l.ch != 0 {
		switch l.ch {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				endInner = l.pos - 1
				l.readChar()
			}
		}
		if depth == 0 {
			break
		}
		l.readChar()
	}
	if endInner < 0 || endInner < startInner {
		endInner = l.pos
	}
	return token.Token{Type: token.ARITH, Literal: strings.TrimSpace(l.input[startInner:endInner]), Pos: pos}
}

// skipBlanksAndComments skips spaces, tabs, line continuations and comments.
func (l *Lexer) skipBlanksAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
			l.readChar()
		}
		if l.ch == '\\' && l.peekChar() == '\n' {
			l.readChar()
			l.readChar()
			continue
		}
		if l.ch == '#' {
			l.collectComment()
			continue
		}
		break
	}
}

// collectComment collects a `# ...` comment up to end of line.
func (l *Lexer) collectComment() {
	startPos := l.currentPos()
	startOffset := l.pos

	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}

	l.Comments = append(l.Comments, &token.Comment{
		Text: l.input[startOffset:l.pos],
		Span: token.Span{Start: startPos, End: l.currentPos()},
	})
}

// skipHeredocBodies consumes pending heredoc bodies up to their delimiters.
func (l *Lexer) skipHeredocBodies() {
	for _, h := range l.heredocs {
		for l.ch != 0 {
			lineStart := l.pos
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			line := l.input[lineStart:l.pos]
			if l.ch == '\n' {
				l.readChar()
			}
			if h.stripTabs {
				line = strings.TrimLeft(line, "\t")
			}
			if strings.TrimRight(line, " \t\r") == h.delim {
				break
			}
		}
	}
	l.heredocs = nil
}

// skipSingleQuote consumes a '...' segment. Returns false if unterminated.
func (l *Lexer) skipSingleQuote() bool {
	l.readChar() // opening quote
	for l.ch != 0 {
		if l.ch == '\'' {
			l.readChar()
			return true
		}
		l.readChar()
	}
	return false
}

// skipDoubleQuote consumes a "..." segment, honoring backslash escapes and
// nested substitutions. Returns false if unterminated.
func (l *Lexer) skipDoubleQuote() bool {
	l.readChar() // opening quote
	for l.ch != 0 {
		switch {
		case l.ch == '"':
			l.readChar()
			return true
		case l.ch == '\\':
			l.readChar()
			if l.ch != 0 {
				l.readChar()
			}
		case l.ch == '`':
			if !l.skipBackquote() {
				return false
			}
		case l.ch == '$' && l.peekChar() == '(':
			l.readChar()
			l.skipParens()
		case l.ch == '$' && l.peekChar() == '{':
			l.readChar()
			l.skipBraces()
		default:
			l.readChar()
		}
	}
	return false
}

// skipBackquote consumes a `...` segment. Returns false if unterminated.
func (l *Lexer) skipBackquote() bool {
	l.readChar() // opening backquote
	for l.ch != 0 {
		switch l.ch {
		case '`':
			l.readChar()
			return true
		case '\\':
			l.readChar()
			if l.ch != 0 {
				l.readChar()
			}
		default:
			l.readChar()
		}
	}
	return false
}

// skipParens consumes a balanced (...) group starting at the current '('.
// Quoted strings inside are skipped so their parentheses are not counted.
func (l *Lexer) skipParens() {
	l.skipBalanced('(', ')')
}

// skipBraces consumes a balanced {...} group starting at the current '{'.
func (l *Lexer) skipBraces() {
	l.skipBalanced('{', '}')
}

func (l *Lexer) skipBalanced(open, close byte) {
	depth := 0
	for l.ch != 0 {
		switch l.ch {
		case open:
			depth++
			l.readChar()
		case close:
			depth--
			l.readChar()
			if depth == 0 {
				return
			}
		case '\\':
			l.readChar()
			if l.ch != 0 {
				l.readChar()
			}
		case '\'':
			l.skipSingleQuote()
		case '"':
			l.skipDoubleQuote()
		default:
			l.readChar()
		}
	}
}

// isMeta reports whether ch terminates a word.
func isMeta(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '|', '&', ';', '(', ')', '<', '>':
		return true
	}
	return false
}

// Tokenize returns all tokens from the input. Mostly useful in tests.
func Tokenize(input string) []token.Token {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens
}
