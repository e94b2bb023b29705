package parser

import (
	"strconv"

	"github.com/logoc/logoc/source/ast"
	"github.com/logoc/logoc/source/decl"
	"github.com/logoc/logoc/source/err"
	"github.com/logoc/logoc/source/token"
)

// Data and functions for sorting out the operator precedences.

const (
	_ int = iota
	LOWEST
	EQUALS      // = or <>
	LESSGREATER // < or <= or > or >=
	SUM         // + or -
	PRODUCT     // * or /
)

var precedences = map[token.TokenType]int{
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.LE:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.GE:       LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
}

// Operators are only another way of calling these.
var operators = map[token.TokenType]string{
	token.EQ:       "equalp",
	token.NOT_EQ:   "notequalp",
	token.LT:       "lessp",
	token.LE:       "lessequalp",
	token.GT:       "greaterp",
	token.GE:       "greaterequalp",
	token.PLUS:     "sum",
	token.MINUS:    "difference",
	token.ASTERISK: "product",
	token.SLASH:    "quotient",
}

// Parses one line of a body. After an error the rest of the line is skipped, since there's
// no telling where the next instruction starts.
func (p *Parser) parseLine(line []token.Token) []ast.Node {
	savedToks, savedPos := p.toks, p.pos
	p.toks, p.pos = line, 0
	result := p.parseStatements()
	p.toks, p.pos = savedToks, savedPos
	return result
}

func (p *Parser) parseStatements() []ast.Node {
	result := []ast.Node{}
	for !p.atEnd() {
		errorCount := len(p.Errors)
		stmt := p.parseStatement()
		if len(p.Errors) > errorCount {
			return result
		}
		result = append(result, stmt)
	}
	return result
}

// An instruction has to be a call to something that doesn't output.
func (p *Parser) parseStatement() ast.Node {
	node := p.parseExpression(false)
	if node == nil {
		return nil
	}
	if call, ok := node.(*ast.FunctionCall); ok && !call.Decl.IsFunction() {
		return node
	}
	p.Throw("parse/unused", node.GetToken(), node.String())
	return nil
}

// If mustReturn is set, the expression is an operand or an input to something, so it must
// have a value.
func (p *Parser) parseExpression(mustReturn bool) ast.Node {
	left := p.parseOperand(mustReturn)
	return p.parseInfix(left, EQUALS)
}

// Precedence climbing.
func (p *Parser) parseInfix(left ast.Node, minPrecedence int) ast.Node {
	for left != nil {
		op := p.peek(0)
		precedence, ok := precedences[op.Type]
		if !ok || precedence < minPrecedence {
			return left
		}
		if call, ok := left.(*ast.FunctionCall); ok && !call.Decl.IsFunction() {
			p.Throw("parse/noreturn", &call.Token, call.Decl.Name)
			return nil
		}
		p.next()
		right := p.parseOperand(true)
		for right != nil {
			lookahead, ok := precedences[p.peek(0).Type]
			if !ok || lookahead <= precedence {
				break
			}
			right = p.parseInfix(right, precedence+1)
		}
		if right == nil {
			return nil
		}
		left = p.makeCall(op, operators[op.Type], left, right)
	}
	return nil
}

func (p *Parser) parseOperand(mustReturn bool) ast.Node {
	tok := p.next()
	switch tok.Type {
	case token.INT, token.FLOAT:
		return number(tok)
	case token.TRUE, token.FALSE:
		return &ast.BooleanLiteral{Token: tok, Value: tok.Type == token.TRUE}
	case token.QUOTED:
		return &ast.QuotedWord{Token: tok, Value: tok.Literal}
	case token.THING:
		return &ast.ThingReference{Token: tok, Name: tok.Literal}
	case token.LBRACK:
		return p.parseList(tok, false, false)
	case token.NEGATE:
		operand := p.parseOperand(true)
		if operand == nil {
			return nil
		}
		return p.makeCall(tok, "minus", operand)
	case token.LPAREN:
		return p.parseParenthesized(mustReturn)
	case token.WORD:
		return p.parseCall(tok, mustReturn, false)
	}
	if token.TokenTypeIsInfix(tok.Type) {
		p.Throw("parse/infix", &tok)
		return nil
	}
	p.Throw("parse/unexpected", &tok)
	return nil
}

// A word straight after an open parenthesis is a call which takes everything up to the
// close parenthesis as its inputs. Anything else is just grouping.
func (p *Parser) parseParenthesized(mustReturn bool) ast.Node {
	var result ast.Node
	if p.peek(0).Type == token.WORD {
		result = p.parseCall(p.next(), mustReturn, true)
	} else {
		result = p.parseExpression(true)
	}
	if result == nil {
		return nil
	}
	if p.peek(0).Type != token.RPAREN {
		tok := p.peek(0)
		p.Throw("parse/paren/close", &tok)
		return nil
	}
	p.next()
	return result
}

func (p *Parser) parseCall(tok token.Token, mustReturn, parenthesized bool) ast.Node {
	d, ok := p.Table.Resolve(tok.Literal)
	if !ok {
		p.Throw("parse/unknown", &tok)
		return nil
	}
	if mustReturn && !d.IsFunction() {
		p.Throw("parse/noreturn", &tok, d.Name)
		return nil
	}
	p.parseDefaults(d)
	call := &ast.FunctionCall{Token: tok, Decl: d, Parenthesized: parenthesized}
	if parenthesized {
		for !p.atEnd() && p.peek(0).Type != token.RPAREN {
			arg := p.parseArgument(d, len(call.Args))
			if arg == nil {
				return nil
			}
			call.Args = append(call.Args, arg)
		}
		if !d.AcceptsMore(len(call.Args) - 1) {
			p.Throw("parse/args/many", call.Args[d.Max].GetToken(), d.Name, d.Max)
			return nil
		}
	} else {
		for !p.argumentsEnd(d, len(call.Args), mustReturn) {
			arg := p.parseArgument(d, len(call.Args))
			if arg == nil {
				return nil
			}
			call.Args = append(call.Args, arg)
		}
	}
	if len(call.Args) < d.Min {
		// In a list, a call short of inputs may never be run, so the complaint is left
		// until the list is compiled as code.
		if p.inList == 0 {
			p.Throw("parse/args/few", &tok, d.Name, d.Min, len(call.Args))
			return nil
		}
		call.Incomplete = true
	}
	return call
}

// Decides whether a call which isn't in parentheses has all the inputs it's getting. A
// nested call gets no more than its default number; one that is a whole instruction can
// go up to its maximum.
func (p *Parser) argumentsEnd(d *decl.Declaration, count int, nested bool) bool {
	if p.atEnd() {
		return true
	}
	if !d.AcceptsMore(count) {
		return true
	}
	if nested && count >= d.Def {
		return true
	}
	next := p.peek(0)
	if p.isProcedure(next) {
		return true
	}
	if next.Type == token.LPAREN && p.isProcedure(p.peek(1)) {
		return true
	}
	return next.Type == token.RPAREN || next.Type == token.RBRACK
}

func (p *Parser) isProcedure(tok token.Token) bool {
	if tok.Type != token.WORD {
		return false
	}
	d, ok := p.Table.Resolve(tok.Literal)
	return ok && !d.IsFunction()
}

// A list in a position where a control primitive expects instructions, or a condition, is
// parsed as code as well as data.
func (p *Parser) parseArgument(d *decl.Declaration, pos int) ast.Node {
	body, condition := d.IsBody(pos), d.IsCondition(pos)
	if p.peek(0).Type == token.LBRACK && (body || condition) {
		return p.parseList(p.next(), body, condition)
	}
	return p.parseExpression(true)
}

func (p *Parser) parseList(open token.Token, body, condition bool) ast.Node {
	inner := p.slurpList()
	ll := &ast.ListLiteral{Token: open, Items: listData(inner)}
	if !body && !condition {
		return ll
	}
	savedToks, savedPos := p.toks, p.pos
	p.toks, p.pos = inner, 0
	p.inList++
	if body {
		ll.Code = p.parseStatements()
	} else {
		ll.Code = []ast.Node{}
		if p.atEnd() {
			p.Throw("parse/unexpected", &open)
		} else if cond := p.parseExpression(true); cond != nil {
			ll.Code = append(ll.Code, cond)
			if !p.atEnd() {
				tok := p.peek(0)
				p.Throw("parse/unexpected", &tok)
			}
		}
	}
	p.inList--
	p.toks, p.pos = savedToks, savedPos
	return ll
}

// Returns the tokens between the bracket just read and the one that closes it, and moves
// past them.
func (p *Parser) slurpList() []token.Token {
	start := p.pos
	depth := 1
	for ; p.pos < len(p.toks); p.pos++ {
		switch p.toks[p.pos].Type {
		case token.LBRACK:
			depth++
		case token.RBRACK:
			depth--
			if depth == 0 {
				inner := p.toks[start:p.pos]
				p.pos++
				return inner
			}
		}
	}
	// The lexer has already complained about the missing bracket.
	return p.toks[start:]
}

// How a list reads as data: numbers are numbers, and everything else is a word.
func listData(toks []token.Token) []ast.Node {
	result := []ast.Node{}
	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		switch tok.Type {
		case token.LBRACK:
			j := closing(toks, i)
			if j < 0 {
				j = len(toks)
			}
			result = append(result, &ast.ListLiteral{Token: tok, Items: listData(toks[i+1 : j])})
			i = j
		case token.INT, token.FLOAT:
			result = append(result, number(tok))
		case token.NEGATE:
			word := "-"
			if i+1 < len(toks) && toks[i+1].Type != token.LBRACK && toks[i+1].Type != token.LPAREN {
				i++
				word += dataWord(toks[i])
			}
			result = append(result, &ast.Word{Token: tok, Value: word})
		default:
			result = append(result, &ast.Word{Token: tok, Value: dataWord(tok)})
		}
	}
	return result
}

func dataWord(tok token.Token) string {
	switch tok.Type {
	case token.QUOTED:
		return "\"" + tok.Literal
	case token.THING:
		return ":" + tok.Literal
	}
	return tok.Literal
}

func number(tok token.Token) ast.Node {
	if tok.Type == token.INT {
		if n, e := strconv.ParseInt(tok.Literal, 10, 64); e == nil {
			return &ast.IntegerLiteral{Token: tok, Value: n}
		}
		// Too big for an integer.
	}
	f, _ := strconv.ParseFloat(tok.Literal, 64)
	return &ast.FloatLiteral{Token: tok, Value: f}
}

// The defaults of a procedure's optional inputs are parsed the first time a call to it is.
func (p *Parser) parseDefaults(d *decl.Declaration) {
	if p.defaults[d] {
		return
	}
	p.defaults[d] = true
	proc, ok := p.Procedure(d)
	if !ok || len(d.Optional) == 0 {
		return
	}
	savedToks, savedPos, savedList := p.toks, p.pos, p.inList
	p.inList = 0
	proc.Defaults = make([]ast.Node, len(d.Optional))
	for i, opt := range d.Optional {
		p.toks, p.pos = opt.Default, 0
		proc.Defaults[i] = p.parseExpression(true)
		if proc.Defaults[i] != nil && !p.atEnd() {
			tok := p.peek(0)
			p.Throw("parse/unexpected", &tok)
		}
	}
	p.toks, p.pos, p.inList = savedToks, savedPos, savedList
}

func (p *Parser) makeCall(tok token.Token, name string, args ...ast.Node) ast.Node {
	d, ok := p.Table.Resolve(name)
	if !ok {
		err.Internal("the runtime doesn't declare %s", name)
	}
	return &ast.FunctionCall{Token: tok, Decl: d, Args: args}
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.toks)
}

// Past the end of the line, this gives an EOF token placed after the last one.
func (p *Parser) peek(n int) token.Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	eof := token.Token{Type: token.EOF, Literal: "EOF"}
	if len(p.toks) > 0 {
		last := p.toks[len(p.toks)-1]
		eof.Line, eof.Source, eof.ChStart, eof.ChEnd = last.Line, last.Source, last.ChEnd, last.ChEnd
	}
	return eof
}

func (p *Parser) next() token.Token {
	tok := p.peek(0)
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}
