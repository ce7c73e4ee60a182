package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shellvet/shellvet/pkg/parser"
	"github.com/shellvet/shellvet/pkg/token"
)

func tokenTypes(toks []token.Token) []token.TokenType {
	out := make([]token.TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestLexerOperators(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.TokenType
	}{
		{
			name:  "simple command",
			input: "echo hello world",
			want:  []token.TokenType{token.WORD, token.WORD, token.WORD, token.EOF},
		},
		{
			name:  "pipeline",
			input: "ls | wc -l",
			want:  []token.TokenType{token.WORD, token.PIPE, token.WORD, token.WORD, token.EOF},
		},
		{
			name:  "and or chains",
			input: "a && b || c",
			want:  []token.TokenType{token.WORD, token.ANDAND, token.WORD, token.OROR, token.WORD, token.EOF},
		},
		{
			name:  "semicolons",
			input: "a; b;; c",
			want:  []token.TokenType{token.WORD, token.SEMI, token.WORD, token.DSEMI, token.WORD, token.EOF},
		},
		{
			name:  "redirects",
			input: "cmd < in > out >> log <<< str",
			want: []token.TokenType{
				token.WORD, token.LESS, token.WORD, token.GREAT, token.WORD,
				token.DGREAT, token.WORD, token.TLESS, token.WORD, token.EOF,
			},
		},
		{
			name:  "heredoc operators",
			input: "cat <<EOF; cat <<-END",
			want: []token.TokenType{
				token.WORD, token.DLESS, token.WORD, token.SEMI,
				token.WORD, token.DLESSD, token.WORD, token.EOF,
			},
		},
		{
			name:  "subshell",
			input: "(cd /tmp)",
			want:  []token.TokenType{token.LPAREN, token.WORD, token.WORD, token.RPAREN, token.EOF},
		},
		{
			name:  "arithmetic command",
			input: "(( i++ ))",
			want:  []token.TokenType{token.ARITH, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.Tokenize(tt.input)
			assert.Equal(t, tt.want, tokenTypes(got))
		})
	}
}

func TestLexerWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"quoted segment stays in word", `echo "a b"`, `"a b"`},
		{"single quotes", `echo 'a b'`, `'a b'`},
		{"command substitution", `echo $(ls -t | head)`, `$(ls -t | head)`},
		{"brace expansion", `echo ${map[key]}`, `${map[key]}`},
		{"backquotes", "echo `date`", "`date`"},
		{"escaped space", `echo a\ b`, `a\ b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := parser.Tokenize(tt.input)
			require.GreaterOrEqual(t, len(toks), 3)
			assert.Equal(t, token.WORD, toks[1].Type)
			assert.Equal(t, tt.want, toks[1].Literal)
		})
	}
}

func TestLexerArrayLiteralIsOneWord(t *testing.T) {
	toks := parser.Tokenize(`a=(A [1]=B "C D")`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.WORD, toks[0].Type)
	assert.Equal(t, `a=(A [1]=B "C D")`, toks[0].Literal)
}

func TestLexerArithLiteral(t *testing.T) {
	toks := parser.Tokenize("(( i = (a + b) * 2 ))")
	require.Len(t, toks, 2)
	assert.Equal(t, token.ARITH, toks[0].Type)
	assert.Equal(t, "i = (a + b) * 2", toks[0].Literal)
}

func TestLexerUnterminatedQuote(t *testing.T) {
	toks := parser.Tokenize("echo 'oops")
	require.Len(t, toks, 3)
	assert.Equal(t, token.WORD, toks[0].Type)
	assert.Equal(t, token.ILLEGAL, toks[1].Type)
	assert.Equal(t, "'oops", toks[1].Literal)
	assert.Equal(t, token.EOF, toks[2].Type)
}

func TestLexerComments(t *testing.T) {
	lx := parser.NewLexer("# header\necho hi # trailing\n")
	for {
		if tok := lx.NextToken(); tok.Type == token.EOF {
			break
		}
	}
	require.Len(t, lx.Comments, 2)
	assert.Equal(t, "# header", lx.Comments[0].Text)
	assert.Equal(t, "# trailing", lx.Comments[1].Text)
	assert.Equal(t, 1, lx.Comments[0].Span.Start.Line)
	assert.Equal(t, 2, lx.Comments[1].Span.Start.Line)
}

func TestLexerLineContinuation(t *testing.T) {
	toks := parser.Tokenize("echo a \\\n b")
	assert.Equal(t, []token.TokenType{token.WORD, token.WORD, token.WORD, token.EOF}, tokenTypes(toks))
}

func TestLexerPositions(t *testing.T) {
	toks := parser.Tokenize("echo hi\nls")
	require.Len(t, toks, 5)
	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, toks[0].Pos)
	assert.Equal(t, token.Position{Line: 1, Column: 6, Offset: 5}, toks[1].Pos)
	assert.Equal(t, 2, toks[3].Pos.Line)
	assert.Equal(t, 1, toks[3].Pos.Column)
}
