package parser

import (
	"fmt"
	"io"

	"github.com/logoc/logoc/source/ast"
	"github.com/logoc/logoc/source/decl"
	"github.com/logoc/logoc/source/err"
	"github.com/logoc/logoc/source/lexer"
	"github.com/logoc/logoc/source/settings"
	"github.com/logoc/logoc/source/token"
)

// The parser works in two passes. The first, in collect.go, reads every file, putting the
// declarations in the table and keeping the body of each procedure as raw lines of
// tokens. Only when all the files have been read can the second pass, in expression.go,
// parse the bodies, because a call can't be parsed without knowing how many inputs the
// thing called takes, and procedures can be declared after they're used.
type Parser struct {

	// Temporary state: things that are used to parse one line.

	toks   []token.Token
	pos    int
	inList int // How deep we are in lists being parsed as code.

	// State of the first pass.

	current   *ast.Procedure // The procedure whose body we're collecting, if any.
	inferKind bool           // Whether its header leaves it to the body to say if it's a function.
	skipping  bool           // Whether we're skipping the body of a broken declaration.

	// Permanent state.

	Errors     err.Errors
	Table      *decl.Table
	Name       string
	Entry      *ast.Procedure
	Procedures []*ast.Procedure
	procs      map[*decl.Declaration]*ast.Procedure
	defaults   map[*decl.Declaration]bool // Declarations whose defaults have been parsed, or are being.
}

func New() *Parser {
	entry := &decl.Declaration{Name: "main", Flags: decl.USER_PROCEDURE}
	return &Parser{
		Errors:   []*err.Error{},
		Table:    decl.Builtins(),
		Name:     "main",
		Entry:    &ast.Procedure{Decl: entry},
		procs:    map[*decl.Declaration]*ast.Procedure{},
		defaults: map[*decl.Declaration]bool{},
	}
}

// Lexes the source and collects what's in it.
func (p *Parser) AddSource(source, input string) {
	l := lexer.NewLexer(source, input)
	toks := l.Tokens()
	p.Errors = append(p.Errors, l.Ers...)
	p.Collect(source, toks)
}

func (p *Parser) AddReader(source string, r io.RuneReader) {
	l := lexer.NewStreamLexer(source, r)
	toks := l.Tokens()
	p.Errors = append(p.Errors, l.Ers...)
	p.Collect(source, toks)
}

// Seals the declaration table and parses every body. Parsing goes on after errors, so
// that as many as possible get reported.
func (p *Parser) Parse() *ast.Program {
	p.Table.Seal()
	p.parseBody(p.Entry)
	for _, proc := range p.Procedures {
		p.parseBody(proc)
	}
	// Defaults are parsed when a call needs them. Those of procedures nothing calls still
	// have to be checked.
	for _, proc := range p.Procedures {
		p.parseDefaults(proc.Decl)
	}
	return &ast.Program{Name: p.Name, Entry: p.Entry, Procedures: p.Procedures, Table: p.Table}
}

// The procedure with a body which goes with the declaration, if there is one.
func (p *Parser) Procedure(d *decl.Declaration) (*ast.Procedure, bool) {
	proc, ok := p.procs[d]
	return proc, ok
}

func (p *Parser) parseBody(proc *ast.Procedure) {
	proc.Body = []ast.Node{}
	for _, line := range proc.Raw {
		proc.Body = append(proc.Body, p.parseLine(line)...)
	}
	if settings.SHOW_PARSER && (settings.PROCEDURE_TO_PEEK == "" || proc.Decl.Name == settings.PROCEDURE_TO_PEEK) {
		fmt.Println(proc.String())
	}
}

func (p *Parser) Throw(errorID string, tok *token.Token, args ...any) {
	p.Errors = err.Throw(errorID, p.Errors, tok, args...)
}

func (p *Parser) ErrorsExist() bool {
	return len(p.Errors) > 0
}

func (p *Parser) ReturnErrors() string {
	return err.GetList(p.Errors)
}
