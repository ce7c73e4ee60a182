// Package token defines the lexical tokens of the shell subset understood by
// the shellvet analyzer, along with source positions for diagnostics.
package token

// TokenType identifies the lexical class of a token.
type TokenType int

// Token types produced by the lexer.
//
// WORD deliberately covers command names, arguments, assignments and reserved
// words alike. The shell grammar is position-sensitive: `for` starts a loop in
// command position but is an ordinary argument in `echo for`. The parser,
// which knows the position, decides what each word means.
const (
	ILLEGAL TokenType = iota
	EOF
	NEWLINE
	WORD

	// Operators
	PIPE   // |
	AMP    // &
	SEMI   // ;
	DSEMI  // ;;
	ANDAND // &&
	OROR   // ||
	LPAREN // (
	RPAREN // )
	LESS   // <
	GREAT  // >
	DGREAT // >>
	DLESS  // <<
	DLESSD // <<- (heredoc, tab-stripping)
	TLESS  // <<< (herestring)

	// ARITH is a complete `(( ... ))` arithmetic command; Literal holds the
	// inner expression text.
	ARITH
)

var typeNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	NEWLINE: "NEWLINE",
	WORD:    "WORD",
	PIPE:    "|",
	AMP:     "&",
	SEMI:    ";",
	DSEMI:   ";;",
	ANDAND:  "&&",
	OROR:    "||",
	LPAREN:  "(",
	RPAREN:  ")",
	LESS:    "<",
	GREAT:   ">",
	DGREAT:  ">>",
	DLESS:   "<<",
	DLESSD:  "<<-",
	TLESS:   "<<<",
	ARITH:   "ARITH",
}

// String returns a printable name for the token type.
func (t TokenType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// Token is a single lexical token with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// reservedWords are recognized by the parser in command position only.
var reservedWords = map[string]bool{
	"if": true, "then": true, "elif": true, "else": true, "fi": true,
	"for": true, "in": true, "do": true, "done": true,
	"while": true, "until": true,
	"case": true, "esac": true,
	"function": true,
	"{": true, "}": true,
	"[[": true, "]]": true,
}

// IsReserved reports whether lit is a shell reserved word.
func IsReserved(lit string) bool {
	return reservedWords[lit]
}
