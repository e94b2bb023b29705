package parser

import (
	"strconv"
	"strings"

	"github.com/logoc/logoc/source/ast"
	"github.com/logoc/logoc/source/decl"
	"github.com/logoc/logoc/source/err"
	"github.com/logoc/logoc/source/token"
)

// What a header says besides the declaration itself.
type header struct {
	d       *decl.Declaration
	def     int
	hasDef  bool
	kindSet bool // Whether it says if it's a function, rather than leaving it to the body.
}

// Splits the tokens of a file into lines and sorts them: declarations go in the table, the
// lines between a header and its END go in the body of the procedure, and anything else is
// part of the top level of the program.
func (p *Parser) Collect(source string, toks []token.Token) {
	if p.Table.Sealed() {
		err.Internal("%s was added after the program was parsed", source)
	}
	for _, line := range splitLines(toks) {
		p.collectLine(source, line)
	}
	if p.current != nil {
		p.Throw("decl/end/missing", p.current.Token, p.current.Decl.Name)
		p.finish()
	}
	p.skipping = false
}

func splitLines(toks []token.Token) [][]token.Token {
	result := [][]token.Token{}
	line := []token.Token{}
	for _, tok := range toks {
		switch tok.Type {
		case token.NEWLINE, token.EOF:
			if len(line) > 0 {
				result = append(result, line)
			}
			line = []token.Token{}
		case token.ILLEGAL: // The lexer has already said what's wrong with it.
		default:
			line = append(line, tok)
		}
	}
	return result
}

func (p *Parser) collectLine(source string, line []token.Token) {
	first := line[0]
	switch {
	case first.Type == token.END:
		if len(line) > 1 {
			p.Throw("parse/unexpected", &line[1])
		}
		switch {
		case p.skipping:
			p.skipping = false
		case p.current != nil:
			p.finish()
		default:
			p.Throw("decl/end/stray", &first)
		}
	case p.skipping:
	case token.TokenTypeIsHeadword(first.Type) || first.Type == token.PROGRAM:
		if p.current != nil {
			name := first.Literal
			if len(line) > 1 {
				name = line[1].Literal
			}
			p.Throw("decl/nested", &first, name, p.current.Decl.Name)
			return
		}
		if first.Type == token.PROGRAM {
			p.collectProgram(line)
			return
		}
		p.collectDeclaration(source, line)
	case p.current != nil:
		p.current.Raw = append(p.current.Raw, line)
	default:
		p.Entry.Raw = append(p.Entry.Raw, line)
	}
}

func (p *Parser) collectProgram(line []token.Token) {
	if len(line) < 2 || !token.TokenTypeIsWordlike(line[1].Type) {
		p.Throw("decl/program", &line[0])
		return
	}
	p.Name = line[1].Literal
	p.Entry.Decl.Name = line[1].Literal
	if len(line) > 2 {
		p.Throw("parse/unexpected", &line[2])
	}
}

// DECLARE and PRIMITIVE are complete in one line, and go straight into the table. The
// others start a body, and we can't say whether a TO is a function until we've seen it, so
// they're added when we get to the END.
func (p *Parser) collectDeclaration(source string, line []token.Token) {
	head := line[0]
	hasBody := head.Type == token.TO || head.Type == token.PROCEDURE || head.Type == token.FUNCTION
	h, ok := p.parseHeader(line)
	if !ok {
		p.skipping = hasBody
		return
	}
	h.d.DeriveArity(h.def, h.hasDef)
	if hasBody {
		p.current = &ast.Procedure{Decl: h.d, Source: source, Token: h.d.Token}
		p.inferKind = !h.kindSet
		return
	}
	if _, id, args := p.Table.Define(h.d); id != "" {
		p.Throw(id, h.d.Token, args...)
	}
}

func (p *Parser) finish() {
	proc := p.current
	p.current = nil
	d := proc.Decl
	if p.inferKind && p.outputs(proc.Raw) {
		d.Flags |= decl.FUNCTION
	}
	canonical, id, args := p.Table.Define(d)
	if id != "" {
		p.Throw(id, d.Token, args...)
		return
	}
	if _, ok := p.procs[canonical]; ok {
		p.Throw("decl/redeclared", d.Token, d.Name)
		return
	}
	// The body's own defaults are the ones that get used.
	canonical.Optional = d.Optional
	proc.Decl = canonical
	p.procs[canonical] = proc
	p.Procedures = append(p.Procedures, proc)
}

// Whether a body uses OUTPUT anywhere.
func (p *Parser) outputs(lines [][]token.Token) bool {
	output, _ := p.Table.Lookup("output")
	for _, line := range lines {
		for _, tok := range line {
			if tok.Type != token.WORD {
				continue
			}
			if d, ok := p.Table.Lookup(tok.Literal); ok && d == output {
				return true
			}
		}
	}
	return false
}

// A header is the headword, the name, perhaps an alias, and then the inputs: :required,
// [:optional default], and [:rest], in that order. There can also be a list of flags,
// VOID, and last of all a number giving the default number of inputs.
func (p *Parser) parseHeader(line []token.Token) (*header, bool) {
	head := line[0]
	h := &header{d: &decl.Declaration{Flags: decl.USER_PROCEDURE}}
	d := h.d
	switch head.Type {
	case token.PRIMITIVE:
		d.Flags = decl.PRIMITIVE
		h.kindSet = true
	case token.DECLARE, token.PROCEDURE:
		h.kindSet = true
	case token.FUNCTION:
		d.Flags |= decl.FUNCTION
		h.kindSet = true
	}
	if len(line) < 2 || line[1].Type != token.WORD {
		p.Throw("decl/name", &head, head.Literal)
		return nil, false
	}
	d.Name = line[1].Literal
	d.Token = &line[1]
	i := 2
	if i < len(line) && line[i].Type == token.WORD {
		d.Alias = line[i].Literal
		i++
	}
	for ; i < len(line); i++ {
		tok := line[i]
		if h.hasDef {
			p.Throw("decl/param", &line[i], d.Name)
			return nil, false
		}
		switch tok.Type {
		case token.THING:
			if len(d.Optional) > 0 || d.Rest != "" {
				p.Throw("decl/order", &line[i], tok.Literal)
				return nil, false
			}
			d.Required = append(d.Required, tok.Literal)
		case token.LBRACK:
			j := closing(line, i)
			if j < 0 {
				p.Throw("decl/rest", &line[i], d.Name)
				return nil, false
			}
			if !p.parseBracketed(h, line[i+1:j], &line[i]) {
				return nil, false
			}
			i = j
		case token.VOID:
			d.Flags &^= decl.FUNCTION
			h.kindSet = true
		case token.INT:
			n, e := strconv.Atoi(tok.Literal)
			if e != nil {
				p.Throw("decl/param", &line[i], d.Name)
				return nil, false
			}
			h.def, h.hasDef = n, true
		default:
			p.Throw("decl/param", &line[i], d.Name)
			return nil, false
		}
	}
	return h, true
}

// What's in brackets in a header is an optional input with its default, the rest input,
// or a list of flags.
func (p *Parser) parseBracketed(h *header, inner []token.Token, open *token.Token) bool {
	d := h.d
	if len(inner) == 0 {
		p.Throw("decl/rest", open, d.Name)
		return false
	}
	first := inner[0]
	switch {
	case first.Type == token.THING:
		if d.Rest != "" {
			p.Throw("decl/order", &inner[0], first.Literal)
			return false
		}
		if len(inner) == 1 {
			d.Rest = first.Literal
			return true
		}
		d.Optional = append(d.Optional, decl.Optional{Name: first.Literal, Default: inner[1:]})
		return true
	case token.TokenTypeIsWordlike(first.Type):
		for i, tok := range inner {
			flag, ok := flags[strings.ToLower(tok.Literal)]
			if !ok || !token.TokenTypeIsWordlike(tok.Type) {
				p.Throw("decl/flag", &inner[i], tok.Literal)
				return false
			}
			switch flag {
			case decl.FUNCTION:
				d.Flags |= decl.FUNCTION
				h.kindSet = true
			case 0:
				d.Flags &^= decl.FUNCTION
				h.kindSet = true
			case decl.INLINE, decl.CONTROL:
				if !d.Is(decl.PRIMITIVE) {
					p.Throw("decl/flag/primitive", &inner[i], strings.ToLower(tok.Literal), d.Name)
					return false
				}
				d.Flags |= flag
			default:
				d.Flags |= flag
			}
		}
		return true
	}
	p.Throw("decl/rest", open, d.Name)
	return false
}

// The flags a header can give. "procedure" is the absence of "function".
var flags = map[string]decl.Flags{
	"function":   decl.FUNCTION,
	"procedure":  0,
	"arithmetic": decl.ARITHMETIC,
	"logic":      decl.LOGIC,
	"inline":     decl.INLINE,
	"control":    decl.CONTROL,
	"c":          decl.EXTERNAL,
}

// The position of the bracket closing the one at i, or -1.
func closing(toks []token.Token, i int) int {
	depth := 0
	for j := i; j < len(toks); j++ {
		switch toks[j].Type {
		case token.LBRACK:
			depth++
		case token.RBRACK:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}
