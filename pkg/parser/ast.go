package parser

import "github.com/shellvet/shellvet/pkg/token"

// Construct is one recognized shell construct. Constructs are immutable value
// objects scoped to a single script; rules never mutate them.
type Construct interface {
	Pos() token.Position
	construct()
}

// Script is the parse result for one input: the ordered construct stream plus
// any regions that could not be parsed. A region failing to parse never fails
// the script; everything else is still analyzed.
type Script struct {
	Name       string
	Constructs []Construct
	Regions    []UnparsedRegion
	Comments   []*token.Comment
}

// UnparsedRegion is a span of source that the parser skipped.
type UnparsedRegion struct {
	Reason string
	Text   string
	Span   token.Span
}

// SimpleCommand is a command invocation, optionally with leading assignments.
// A bare assignment line is a SimpleCommand with a nil Name.
type SimpleCommand struct {
	Assignments []*Assignment
	Name        *Word
	Args        []*Word
	Position    token.Position
}

// Pipeline is two or more commands connected by `|`.
type Pipeline struct {
	Commands []Construct
	Position token.Position
}

// Assignment is `name=value`, `name+=value`, `name[idx]=value` or
// `name=(...)`. It appears on SimpleCommand and DeclareStatement, not on the
// construct stream directly.
type Assignment struct {
	Name     string
	Index    string // raw subscript text, empty when none
	Append   bool   // +=
	Value    *Word  // nil for bare targets and array literals
	Array    *ArrayLiteral
	Position token.Position
}

// ArrayLiteral is the parenthesized initializer list of an array assignment.
type ArrayLiteral struct {
	Entries  []*ArrayEntry
	Position token.Position
}

// ArrayEntry is one initializer. Index is the raw index expression for a
// designated entry ([i]=v) and empty for a positional one.
type ArrayEntry struct {
	Index    string
	Value    *Word
	Position token.Position
}

// Attributes are the variable attributes a declare-family builtin can request.
type Attributes struct {
	Integer      bool // -i
	IndexedArray bool // -a
	AssocArray   bool // -A
	Global       bool // -g
	Readonly     bool // -r
	Export       bool // -x
	Nameref      bool // -n
	Lowercase    bool // -l
	Uppercase    bool // -u
}

// DeclareStatement is a declare/typeset/local/readonly/export invocation.
type DeclareStatement struct {
	Keyword    string
	Attrs      Attributes
	Removed    Attributes // attributes switched off with +x
	Targets    []*Assignment
	InFunction bool
	Position   token.Position
}

// UnsetStatement is an unset invocation.
type UnsetStatement struct {
	Targets  []*UnsetTarget
	Position token.Position
}

// UnsetTarget names a variable, or a single array element when Index is set.
type UnsetTarget struct {
	Name     string
	Index    string
	Position token.Position
}

// ForLoop is `for name [in words]; do ...; done` or `for ((...)); do ...`.
// A nil Words with empty Arith means the implicit "$@" form.
type ForLoop struct {
	Var      string
	Words    []*Word
	Arith    string
	Body     []Construct
	Position token.Position
}

// WhileLoop is a while or until loop.
type WhileLoop struct {
	Until    bool
	Cond     []Construct
	Body     []Construct
	Position token.Position
}

// IfStatement is an if/elif/else/fi chain.
type IfStatement struct {
	Cond     []Construct
	Then     []Construct
	Elifs    []*ElifClause
	Else     []Construct
	Position token.Position
}

// ElifClause is one elif branch.
type ElifClause struct {
	Cond     []Construct
	Body     []Construct
	Position token.Position
}

// CaseStatement is a case/esac statement.
type CaseStatement struct {
	Word     *Word
	Items    []*CaseItem
	Position token.Position
}

// CaseItem is one pattern list and its body.
type CaseItem struct {
	Patterns []string
	Body     []Construct
	Position token.Position
}

// FunctionDecl is a function definition, either form.
type FunctionDecl struct {
	FuncName string
	Body     []Construct
	Position token.Position
}

// TestCommand is a `[[ ... ]]` conditional.
type TestCommand struct {
	Args     []*Word
	Position token.Position
}

// ArithCommand is a `(( ... ))` arithmetic command.
type ArithCommand struct {
	Expr     string
	Position token.Position
}

// Subshell is a parenthesized command list.
type Subshell struct {
	Body     []Construct
	Position token.Position
}

// Group is a `{ ...; }` brace group.
type Group struct {
	Body     []Construct
	Position token.Position
}

func (c *SimpleCommand) Pos() token.Position    { return c.Position }
func (c *Pipeline) Pos() token.Position         { return c.Position }
func (c *DeclareStatement) Pos() token.Position { return c.Position }
func (c *UnsetStatement) Pos() token.Position   { return c.Position }
func (c *ForLoop) Pos() token.Position          { return c.Position }
func (c *WhileLoop) Pos() token.Position        { return c.Position }
func (c *IfStatement) Pos() token.Position      { return c.Position }
func (c *CaseStatement) Pos() token.Position    { return c.Position }
func (c *FunctionDecl) Pos() token.Position     { return c.Position }
func (c *TestCommand) Pos() token.Position      { return c.Position }
func (c *ArithCommand) Pos() token.Position     { return c.Position }
func (c *Subshell) Pos() token.Position         { return c.Position }
func (c *Group) Pos() token.Position            { return c.Position }

func (*SimpleCommand) construct()    {}
func (*Pipeline) construct()         {}
func (*DeclareStatement) construct() {}
func (*UnsetStatement) construct()   {}
func (*ForLoop) construct()          {}
func (*WhileLoop) construct()        {}
func (*IfStatement) construct()      {}
func (*CaseStatement) construct()    {}
func (*FunctionDecl) construct()     {}
func (*TestCommand) construct()      {}
func (*ArithCommand) construct()     {}
func (*Subshell) construct()         {}
func (*Group) construct()            {}

// Walk visits constructs in depth-first source order. If fn returns false the
// children of the current construct are not visited.
func Walk(constructs []Construct, fn func(Construct) bool) {
	for _, c := range constructs {
		if !fn(c) {
			continue
		}
		switch v := c.(type) {
		case *Pipeline:
			Walk(v.Commands, fn)
		case *ForLoop:
			Walk(v.Body, fn)
		case *WhileLoop:
			Walk(v.Cond, fn)
			Walk(v.Body, fn)
		case *IfStatement:
			Walk(v.Cond, fn)
			Walk(v.Then, fn)
			for _, e := range v.Elifs {
				Walk(e.Cond, fn)
				Walk(e.Body, fn)
			}
			Walk(v.Else, fn)
		case *CaseStatement:
			for _, item := range v.Items {
				Walk(item.Body, fn)
			}
		case *FunctionDecl:
			Walk(v.Body, fn)
		case *Subshell:
			Walk(v.Body, fn)
		case *Group:
			Walk(v.Body, fn)
		}
	}
}

// Walk visits every construct of the script in source order.
func (s *Script) Walk(fn func(Construct) bool) {
	Walk(s.Constructs, fn)
}

// Flatten returns all constructs of the script in depth-first source order.
// Rules that scan for ordered statement windows use this.
func (s *Script) Flatten() []Construct {
	var out []Construct
	s.Walk(func(c Construct) bool {
		out = append(out, c)
		return true
	})
	return out
}

// Words returns the words directly attached to a construct, in source order.
// Bodies of compound constructs are not descended into; use Walk for that.
func Words(c Construct) []*Word {
	switch v := c.(type) {
	case *SimpleCommand:
		var out []*Word
		for _, a := range v.Assignments {
			out = append(out, assignmentWords(a)...)
		}
		if v.Name != nil {
			out = append(out, v.Name)
		}
		out = append(out, v.Args...)
		return out
	case *DeclareStatement:
		var out []*Word
		for _, a := range v.Targets {
			out = append(out, assignmentWords(a)...)
		}
		return out
	case *ForLoop:
		return v.Words
	case *CaseStatement:
		if v.Word != nil {
			return []*Word{v.Word}
		}
	case *TestCommand:
		return v.Args
	}
	return nil
}

func assignmentWords(a *Assignment) []*Word {
	var out []*Word
	if a.Value != nil {
		out = append(out, a.Value)
	}
	if a.Array != nil {
		for _, e := range a.Array.Entries {
			if e.Value != nil {
				out = append(out, e.Value)
			}
		}
	}
	return out
}
