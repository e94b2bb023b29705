package ast

import (
	"bytes"

	"github.com/logoc/logoc/source/decl"
	"github.com/logoc/logoc/source/token"
)

// The base Node interface
type Node interface {
	Children() []Node
	GetToken() *token.Token
	String() string
}

// Nodes in alphabetical order. Other structures and functions are in a separate section at the bottom.

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) Children() []Node       { return []Node{} }
func (b *BooleanLiteral) GetToken() *token.Token { return &b.Token }
func (b *BooleanLiteral) String() string         { return b.Token.Literal }

type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) Children() []Node       { return []Node{} }
func (fl *FloatLiteral) GetToken() *token.Token { return &fl.Token }
func (fl *FloatLiteral) String() string         { return fl.Token.Literal }

// A word once the parser knows what it calls. An incomplete call is one with too few
// inputs found inside a list: that's only an error if the list turns out to be code.
type FunctionCall struct {
	Token         token.Token
	Decl          *decl.Declaration
	Args          []Node
	Parenthesized bool
	Incomplete    bool
}

func (fc *FunctionCall) Children() []Node       { return fc.Args }
func (fc *FunctionCall) GetToken() *token.Token { return &fc.Token }
func (fc *FunctionCall) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(fc.Decl.Name)
	for _, arg := range fc.Args {
		out.WriteString(" ")
		out.WriteString(arg.String())
	}
	out.WriteString(")")

	return out.String()
}

func (fc *FunctionCall) Is(f decl.Flags) bool { return fc.Decl.Is(f) }

type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) Children() []Node       { return []Node{} }
func (il *IntegerLiteral) GetToken() *token.Token { return &il.Token }
func (il *IntegerLiteral) String() string         { return il.Token.Literal }

// Items is how the list reads as data. If the list is in a position where it's run as
// code, Code holds its statements as well.
type ListLiteral struct {
	Token token.Token
	Items []Node
	Code  []Node
}

func (ll *ListLiteral) Children() []Node {
	if ll.Code != nil {
		return ll.Code
	}
	return ll.Items
}
func (ll *ListLiteral) GetToken() *token.Token { return &ll.Token }
func (ll *ListLiteral) String() string {
	var out bytes.Buffer

	out.WriteString("[")
	for i, item := range ll.Items {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(item.String())
	}
	out.WriteString("]")

	return out.String()
}

func (ll *ListLiteral) IsCode() bool { return ll.Code != nil }

type QuotedWord struct {
	Token token.Token
	Value string
}

func (qw *QuotedWord) Children() []Node       { return []Node{} }
func (qw *QuotedWord) GetToken() *token.Token { return &qw.Token }
func (qw *QuotedWord) String() string         { return "\"" + qw.Value }

type ThingReference struct {
	Token token.Token
	Name  string
}

func (tr *ThingReference) Children() []Node       { return []Node{} }
func (tr *ThingReference) GetToken() *token.Token { return &tr.Token }
func (tr *ThingReference) String() string         { return ":" + tr.Name }

// A bare word in a list read as data.
type Word struct {
	Token token.Token
	Value string
}

func (w *Word) Children() []Node       { return []Node{} }
func (w *Word) GetToken() *token.Token { return &w.Token }
func (w *Word) String() string         { return w.Value }

// And other useful stuff.

// Calls f on each node of the tree in depth-first order, descending into a node's
// children only if f returns true.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, child := range n.Children() {
		Inspect(child, f)
	}
}

// Whether the node is a literal list which can be run as code.
func IsCode(n Node) bool {
	ll, ok := n.(*ListLiteral)
	return ok && ll.IsCode()
}

func Statements(nodes []Node) string {
	var out bytes.Buffer
	for i, n := range nodes {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(n.String())
	}
	return out.String()
}
