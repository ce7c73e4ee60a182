package parser

import (
	"regexp"
	"strings"

	"github.com/shellvet/shellvet/pkg/token"
)

// Parser builds the construct stream from the token stream. Parsing never
// fails a whole file: a construct the parser cannot make sense of becomes an
// UnparsedRegion spanning to the end of its line and analysis continues.
type Parser struct {
	src       string
	lex       *Lexer
	cur       token.Token
	peek      token.Token
	script    *Script
	funcDepth int
}

// Parse parses one script. name identifies the source in diagnostics.
func Parse(name, input string) *Script {
	p := &Parser{src: input, lex: NewLexer(input)}
	p.next()
	p.next()
	p.script = &Script{Name: name}
	p.script.Constructs = p.parseList(nil, nil)
	p.script.Comments = p.lex.Comments
	return p.script
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) atWord(lit string) bool {
	return p.cur.Type == token.WORD && p.cur.Literal == lit
}

func (p *Parser) skipSeparators() {
	for p.cur.Type == token.NEWLINE || p.cur.Type == token.SEMI ||
		p.cur.Type == token.AMP || p.cur.Type == token.ANDAND ||
		p.cur.Type == token.OROR {
		p.next()
	}
}

// parseList parses commands until EOF, a stop word in command position, or a
// stop token type. The stop token is not consumed.
func (p *Parser) parseList(stopWords map[string]bool, stopTypes map[token.TokenType]bool) []Construct {
	var out []Construct
	for {
		for p.cur.Type == token.NEWLINE || p.cur.Type == token.SEMI ||
			p.cur.Type == token.AMP || p.cur.Type == token.ANDAND ||
			p.cur.Type == token.OROR {
			p.next()
		}
		if p.cur.Type == token.EOF {
			return out
		}
		if stopTypes != nil && stopTypes[p.cur.Type] {
			return out
		}
		if p.cur.Type == token.RPAREN && stopTypes == nil {
			// Stray close paren; skip it rather than loop forever.
			p.next()
			continue
		}
		if p.cur.Type == token.DSEMI {
			p.next()
			continue
		}
		if stopWords != nil && p.cur.Type == token.WORD && stopWords[p.cur.Literal] {
			return out
		}
		if c := p.parsePipeline(); c != nil {
			out = append(out, c)
		}
	}
}

var stopRParen = map[token.TokenType]bool{token.RPAREN: true}

// parsePipeline parses one command, folding `a | b | c` into a Pipeline.
func (p *Parser) parsePipeline() Construct {
	first := p.parseUnit()
	if p.cur.Type != token.PIPE {
		return first
	}
	pipe := &Pipeline{Position: firstPos(first, p.cur.Pos)}
	if first != nil {
		pipe.Commands = append(pipe.Commands, first)
	}
	for p.cur.Type == token.PIPE {
		p.next()
		for p.cur.Type == token.NEWLINE {
			p.next()
		}
		if u := p.parseUnit(); u != nil {
			pipe.Commands = append(pipe.Commands, u)
		}
	}
	return pipe
}

func firstPos(c Construct, fallback token.Position) token.Position {
	if c != nil {
		return c.Pos()
	}
	return fallback
}

// parseUnit parses a single command without pipeline handling.
func (p *Parser) parseUnit() Construct {
	pos := p.cur.Pos
	switch p.cur.Type {
	case token.ARITH:
		c := &ArithCommand{Expr: p.cur.Literal, Position: pos}
		p.next()
		p.skipRedirects()
		return c
	case token.LPAREN:
		p.next()
		body := p.parseList(nil, stopRParen)
		if p.cur.Type == token.RPAREN {
			p.next()
		}
		p.skipRedirects()
		return &Subshell{Body: body, Position: pos}
	case token.ILLEGAL:
		p.recover(pos, "unrecognized or unterminated construct")
		return nil
	case token.WORD:
		switch p.cur.Literal {
		case "for":
			return p.parseFor()
		case "while":
			return p.parseWhile(false)
		case "until":
			return p.parseWhile(true)
		case "if":
			return p.parseIf()
		case "case":
			return p.parseCase()
		case "function":
			return p.parseFunction()
		case "{":
			p.next()
			body := p.parseList(map[string]bool{"}": true}, nil)
			if p.atWord("}") {
				p.next()
			}
			p.skipRedirects()
			return &Group{Body: body, Position: pos}
		case "[[":
			return p.parseTest()
		case "declare", "typeset", "local", "readonly", "export":
			return p.parseDeclare()
		case "unset":
			return p.parseUnset()
		}
		if p.peek.Type == token.LPAREN && IsName(p.cur.Literal) {
			return p.parseFunctionParen()
		}
		return p.parseSimple()
	default:
		p.recover(pos, "unexpected token "+p.cur.Type.String())
		return nil
	}
}

// assignWordPrefix matches an assignment at the start of a word.
var assignWordPrefix = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(\[[^\]]*\])?(\+?)=`)

func isAssignWord(lit string) bool {
	return assignWordPrefix.MatchString(lit)
}

// parseSimple parses leading assignments, a command name and its arguments.
func (p *Parser) parseSimple() Construct {
	pos := p.cur.Pos
	cmd := &SimpleCommand{Position: pos}

	for p.cur.Type == token.WORD && cmd.Name == nil && isAssignWord(p.cur.Literal) {
		cmd.Assignments = append(cmd.Assignments, p.parseAssignWord(p.cur))
		p.next()
	}

	for {
		switch p.cur.Type {
		case token.WORD:
			w := ScanWord(p.cur.Literal, p.cur.Pos)
			if cmd.Name == nil {
				cmd.Name = w
			} else {
				cmd.Args = append(cmd.Args, w)
			}
			p.next()
		case token.LESS, token.GREAT, token.DGREAT, token.TLESS, token.DLESS, token.DLESSD:
			p.parseRedirect()
		default:
			if cmd.Name == nil && len(cmd.Assignments) == 0 {
				return nil
			}
			return cmd
		}
	}
}

// parseRedirect consumes one redirection operator and its operand. Heredoc
// bodies are skipped by the lexer after the next newline.
func (p *Parser) parseRedirect() {
	op := p.cur.Type
	p.next()
	if p.cur.Type != token.WORD {
		return
	}
	if op == token.DLESS || op == token.DLESSD {
		delim, _ := ScanWord(p.cur.Literal, p.cur.Pos).Static()
		if delim == "" {
			delim = p.cur.Literal
		}
		p.lex.PushHeredoc(delim, op == token.DLESSD)
	}
	p.next()
}

func (p *Parser) skipRedirects() {
	for {
		switch p.cur.Type {
		case token.LESS, token.GREAT, token.DGREAT, token.TLESS, token.DLESS, token.DLESSD:
			p.parseRedirect()
		default:
			return
		}
	}
}

// parseAssignWord splits `name[idx]+=value` into an Assignment. Array
// literals re-lex the parenthesized text at its real source position.
func (p *Parser) parseAssignWord(tok token.Token) *Assignment {
	m := assignWordPrefix.FindStringSubmatch(tok.Literal)
	a := &Assignment{
		Name:     m[1],
		Append:   m[3] == "+",
		Position: tok.Pos,
	}
	if m[2] != "" {
		a.Index = m[2][1 : len(m[2])-1]
	}
	prefix := m[0]
	value := tok.Literal[len(prefix):]
	valuePos := tok.Pos.Advance(prefix)

	if strings.HasPrefix(value, "(") && strings.HasSuffix(value, ")") {
		a.Array = p.parseArrayLiteral(value[1:len(value)-1], valuePos.Advance("("), valuePos)
		return a
	}
	a.Value = ScanWord(value, valuePos)
	return a
}

// parseArrayLiteral analyzes the contents of an array initializer list.
func (p *Parser) parseArrayLiteral(text string, at, litPos token.Position) *ArrayLiteral {
	arr := &ArrayLiteral{Position: litPos}
	lx := NewLexerAt(text, at)
	for {
		tok := lx.NextToken()
		if tok.Type == token.EOF {
			break
		}
		if tok.Type != token.WORD {
			continue
		}
		arr.Entries = append(arr.Entries, parseArrayEntry(tok))
	}
	return arr
}

// parseArrayEntry classifies one initializer word as positional or
// designated ([expr]=value).
func parseArrayEntry(tok token.Token) *ArrayEntry {
	entry := &ArrayEntry{Position: tok.Pos}
	lit := tok.Literal
	if strings.HasPrefix(lit, "[") {
		end := findBalanced(lit, 0, '[', ']')
		if end < len(lit) {
			rest := lit[end+1:]
			if strings.HasPrefix(rest, "=") || strings.HasPrefix(rest, "+=") {
				entry.Index = lit[1:end]
				value := strings.TrimPrefix(strings.TrimPrefix(rest, "+"), "=")
				entry.Value = ScanWord(value, tok.Pos.Advance(lit[:len(lit)-len(value)]))
				return entry
			}
		}
	}
	entry.Value = ScanWord(lit, tok.Pos)
	return entry
}

// declare-family flag letters mapped onto attributes. Letters without a
// matching attribute (trace, function listing) are ignored.
func applyAttrFlags(attrs *Attributes, letters string) {
	for i := 0; i < len(letters); i++ {
		switch letters[i] {
		case 'a':
			attrs.IndexedArray = true
		case 'A':
			attrs.AssocArray = true
		case 'i':
			attrs.Integer = true
		case 'g':
			attrs.Global = true
		case 'r':
			attrs.Readonly = true
		case 'x':
			attrs.Export = true
		case 'n':
			attrs.Nameref = true
		case 'l':
			attrs.Lowercase = true
		case 'u':
			attrs.Uppercase = true
		}
	}
}

// parseDeclare parses declare/typeset/local/readonly/export.
func (p *Parser) parseDeclare() Construct {
	pos := p.cur.Pos
	st := &DeclareStatement{
		Keyword:    p.cur.Literal,
		InFunction: p.funcDepth > 0,
		Position:   pos,
	}
	switch st.Keyword {
	case "readonly":
		st.Attrs.Readonly = true
	case "export":
		st.Attrs.Export = true
	}
	p.next()

	for p.cur.Type == token.WORD {
		lit := p.cur.Literal
		switch {
		case lit == "--":
			p.next()
		case len(lit) > 1 && lit[0] == '-':
			applyAttrFlags(&st.Attrs, lit[1:])
			p.next()
		case len(lit) > 1 && lit[0] == '+':
			applyAttrFlags(&st.Removed, lit[1:])
			p.next()
		case isAssignWord(lit):
			st.Targets = append(st.Targets, p.parseAssignWord(p.cur))
			p.next()
		default:
			if name, index, ok := splitNameIndex(lit); ok {
				st.Targets = append(st.Targets, &Assignment{
					Name:     name,
					Index:    index,
					Position: p.cur.Pos,
				})
			}
			p.next()
		}
	}
	p.skipRedirects()
	return st
}

// parseUnset parses an unset invocation.
func (p *Parser) parseUnset() Construct {
	pos := p.cur.Pos
	st := &UnsetStatement{Position: pos}
	p.next()

	for p.cur.Type == token.WORD {
		lit := p.cur.Literal
		if strings.HasPrefix(lit, "-") {
			// -v / -f selectors; targets are named the same way either way.
			p.next()
			continue
		}
		w := ScanWord(lit, p.cur.Pos)
		target := lit
		if s, ok := w.Static(); ok {
			target = s
		}
		if name, index, ok := splitNameIndex(target); ok {
			st.Targets = append(st.Targets, &UnsetTarget{
				Name:     name,
				Index:    index,
				Position: p.cur.Pos,
			})
		}
		p.next()
	}
	p.skipRedirects()
	return st
}

// splitNameIndex splits "name" or "name[expr]" into its parts.
func splitNameIndex(s string) (name, index string, ok bool) {
	br := strings.IndexByte(s, '[')
	if br < 0 {
		if !IsName(s) {
			return "", "", false
		}
		return s, "", true
	}
	if !strings.HasSuffix(s, "]") || !IsName(s[:br]) {
		return "", "", false
	}
	return s[:br], s[br+1 : len(s)-1], true
}

// parseFor parses both loop header forms.
func (p *Parser) parseFor() Construct {
	pos := p.cur.Pos
	p.next()

	if p.cur.Type == token.ARITH {
		loop := &ForLoop{Arith: p.cur.Literal, Position: pos}
		p.next()
		loop.Body = p.parseLoopBody(pos)
		return loop
	}

	if p.cur.Type != token.WORD || !IsName(p.cur.Literal) {
		p.recover(pos, "malformed for loop header")
		return nil
	}
	loop := &ForLoop{Var: p.cur.Literal, Position: pos}
	p.next()

	if p.atWord("in") {
		p.next()
		for p.cur.Type == token.WORD {
			loop.Words = append(loop.Words, ScanWord(p.cur.Literal, p.cur.Pos))
			p.next()
		}
	}

	loop.Body = p.parseLoopBody(pos)
	return loop
}

// parseWhile parses while/until loops.
func (p *Parser) parseWhile(until bool) Construct {
	pos := p.cur.Pos
	p.next()
	loop := &WhileLoop{Until: until, Position: pos}
	loop.Cond = p.parseList(map[string]bool{"do": true}, nil)
	loop.Body = p.parseLoopBody(pos)
	return loop
}

// parseLoopBody expects `do ... done` after optional separators.
func (p *Parser) parseLoopBody(start token.Position) []Construct {
	p.skipSeparators()
	if !p.atWord("do") {
		p.recover(start, "loop without do")
		return nil
	}
	p.next()
	body := p.parseList(map[string]bool{"done": true}, nil)
	if p.atWord("done") {
		p.next()
		p.skipRedirects()
	}
	return body
}

// parseIf parses if/elif/else/fi.
func (p *Parser) parseIf() Construct {
	pos := p.cur.Pos
	p.next()
	st := &IfStatement{Position: pos}
	st.Cond = p.parseList(map[string]bool{"then": true}, nil)
	if !p.atWord("then") {
		p.recover(pos, "if without then")
		return st
	}
	p.next()
	stops := map[string]bool{"elif": true, "else": true, "fi": true}
	st.Then = p.parseList(stops, nil)
	for p.atWord("elif") {
		clausePos := p.cur.Pos
		p.next()
		clause := &ElifClause{Position: clausePos}
		clause.Cond = p.parseList(map[string]bool{"then": true}, nil)
		if p.atWord("then") {
			p.next()
		}
		clause.Body = p.parseList(stops, nil)
		st.Elifs = append(st.Elifs, clause)
	}
	if p.atWord("else") {
		p.next()
		st.Else = p.parseList(map[string]bool{"fi": true}, nil)
	}
	if p.atWord("fi") {
		p.next()
		p.skipRedirects()
	}
	return st
}

// parseCase parses a case statement. Item bodies end at `;;`.
func (p *Parser) parseCase() Construct {
	pos := p.cur.Pos
	p.next()
	st := &CaseStatement{Position: pos}
	if p.cur.Type == token.WORD {
		st.Word = ScanWord(p.cur.Literal, p.cur.Pos)
		p.next()
	}
	p.skipSeparators()
	if !p.atWord("in") {
		p.recover(pos, "case without in")
		return st
	}
	p.next()

	for {
		p.skipSeparatorsAndDsemi()
		if p.cur.Type == token.EOF || p.atWord("esac") {
			break
		}
		item := &CaseItem{Position: p.cur.Pos}
		if p.cur.Type == token.LPAREN {
			p.next()
		}
		for {
			if p.cur.Type == token.WORD && p.cur.Literal != "esac" {
				item.Patterns = append(item.Patterns, p.cur.Literal)
				p.next()
			}
			if p.cur.Type == token.PIPE {
				p.next()
				continue
			}
			break
		}
		if p.cur.Type != token.RPAREN {
			p.recover(item.Position, "malformed case pattern")
			continue
		}
		p.next()
		item.Body = p.parseList(map[string]bool{"esac": true}, map[token.TokenType]bool{token.DSEMI: true})
		st.Items = append(st.Items, item)
	}
	if p.atWord("esac") {
		p.next()
	}
	return st
}

func (p *Parser) skipSeparatorsAndDsemi() {
	for p.cur.Type == token.NEWLINE || p.cur.Type == token.SEMI ||
		p.cur.Type == token.DSEMI || p.cur.Type == token.AMP {
		p.next()
	}
}

// parseTest parses `[[ ... ]]` into its word list. Operator tokens inside the
// brackets are carried as plain words.
func (p *Parser) parseTest() Construct {
	pos := p.cur.Pos
	p.next()
	st := &TestCommand{Position: pos}
	for {
		if p.cur.Type == token.EOF {
			p.recover(pos, "unterminated [[ test")
			return st
		}
		if p.atWord("]]") {
			p.next()
			p.skipRedirects()
			return st
		}
		switch p.cur.Type {
		case token.NEWLINE:
			p.next()
		case token.WORD, token.LESS, token.GREAT, token.ANDAND, token.OROR,
			token.LPAREN, token.RPAREN, token.PIPE:
			lit := p.cur.Literal
			if lit == "" {
				lit = p.cur.Type.String()
			}
			st.Args = append(st.Args, ScanWord(lit, p.cur.Pos))
			p.next()
		default:
			p.recover(pos, "unterminated [[ test")
			return st
		}
	}
}

// parseFunction parses the `function name` form.
func (p *Parser) parseFunction() Construct {
	pos := p.cur.Pos
	p.next()
	if p.cur.Type != token.WORD {
		p.recover(pos, "function without a name")
		return nil
	}
	name := p.cur.Literal
	p.next()
	if p.cur.Type == token.LPAREN && p.peek.Type == token.RPAREN {
		p.next()
		p.next()
	}
	return p.finishFunction(name, pos)
}

// parseFunctionParen parses the `name()` form.
func (p *Parser) parseFunctionParen() Construct {
	pos := p.cur.Pos
	name := p.cur.Literal
	p.next() // name
	p.next() // (
	if p.cur.Type == token.RPAREN {
		p.next()
	}
	return p.finishFunction(name, pos)
}

func (p *Parser) finishFunction(name string, pos token.Position) Construct {
	p.skipSeparators()
	fn := &FunctionDecl{FuncName: name, Position: pos}
	p.funcDepth++
	switch {
	case p.atWord("{"):
		p.next()
		fn.Body = p.parseList(map[string]bool{"}": true}, nil)
		if p.atWord("}") {
			p.next()
		}
	case p.cur.Type == token.LPAREN:
		p.next()
		fn.Body = p.parseList(nil, stopRParen)
		if p.cur.Type == token.RPAREN {
			p.next()
		}
	default:
		if c := p.parsePipeline(); c != nil {
			fn.Body = []Construct{c}
		}
	}
	p.funcDepth--
	p.skipRedirects()
	return fn
}

// recover records an unparsed region from start to the end of the current
// line and resynchronizes there.
func (p *Parser) recover(start token.Position, reason string) {
	for p.cur.Type != token.NEWLINE && p.cur.Type != token.EOF {
		p.next()
	}
	end := p.cur.Pos
	startOff := start.Offset
	endOff := end.Offset
	if startOff < 0 {
		startOff = 0
	}
	if endOff > len(p.src) {
		endOff = len(p.src)
	}
	text := ""
	if startOff <= endOff && endOff <= len(p.src) {
		text = p.src[startOff:endOff]
	}
	p.script.Regions = append(p.script.Regions, UnparsedRegion{
		Reason: reason,
		Text:   strings.TrimRight(text, "\n"),
		Span:   token.Span{Start: start, End: end},
	})
	if p.cur.Type == token.NEWLINE {
		p.next()
	}
}
