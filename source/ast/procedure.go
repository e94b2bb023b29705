package ast

import (
	"github.com/logoc/logoc/source/decl"
	"github.com/logoc/logoc/source/token"
)

// A user procedure. After the first pass of the parser its body is only the raw lines
// of tokens between the header and END; the second pass fills in Body.
type Procedure struct {
	Decl     *decl.Declaration
	Raw      [][]token.Token
	Body     []Node
	Defaults []Node // One for each optional parameter, parsed when first needed.
	Source   string
	Token    *token.Token
}

func (p *Procedure) Name() string { return p.Decl.Name }

func (p *Procedure) String() string {
	return "to " + p.Decl.String() + "\n" + Statements(p.Body) + "\nend"
}

type Program struct {
	Name       string
	Entry      *Procedure // The top-level instructions.
	Procedures []*Procedure
	Table      *decl.Table
}

func (p *Program) Lookup(name string) (*Procedure, bool) {
	d, ok := p.Table.Resolve(name)
	if !ok {
		return nil, false
	}
	for _, proc := range p.Procedures {
		if proc.Decl == d {
			return proc, true
		}
	}
	return nil, false
}
