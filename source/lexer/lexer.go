package lexer

import (
	"fmt"
	"io"
	"strings"

	"github.com/logoc/logoc/source/dtypes"
	"github.com/logoc/logoc/source/err"
	"github.com/logoc/logoc/source/settings"
	"github.com/logoc/logoc/source/token"
)

type lexer struct {
	runes      *RuneSupplier
	source     string
	lineNo     int
	tstart     int                       // The column at the start of a token.
	afterSpace bool                      // Whether a sign here would be unary, if it's glued to what follows.
	brackets   dtypes.Stack[token.Token] // Open brackets and parentheses.
	pending    []token.Token
	Ers        err.Errors
}

func NewLexer(source, input string) *lexer {
	return NewStreamLexer(source, strings.NewReader(input))
}

func NewStreamLexer(source string, r io.RuneReader) *lexer {
	return &lexer{
		runes:      NewRuneSupplier(r),
		source:     source,
		lineNo:     1,
		afterSpace: true,
		brackets:   *dtypes.NewStack[token.Token](),
		Ers:        []*err.Error{},
	}
}

// Lexes the whole input. The last token is always EOF.
func (l *lexer) Tokens() []token.Token {
	result := []token.Token{}
	for {
		tok := l.NextToken()
		result = append(result, tok)
		if tok.Type == token.EOF {
			return result
		}
	}
}

func (l *lexer) NextToken() token.Token {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok
	}
	if l.skipWhitespace() {
		l.afterSpace = true
	}
	l.lineNo, l.tstart = l.runes.Position()
	wasAfterSpace := l.afterSpace
	l.afterSpace = false
	r := l.runes.ReadRune()
	switch r {
	case 0:
		for {
			opener, ok := l.brackets.Pop()
			if !ok {
				break
			}
			l.Ers = err.Throw("lex/bracket/open", l.Ers, &opener, opener.Literal)
		}
		return l.MakeToken(token.EOF, "EOF")
	case '\n':
		// Any parentheses still open are the parser's problem: it will find the end of the line.
		l.brackets = *dtypes.NewStack[token.Token]()
		l.afterSpace = true
		return l.MakeToken(token.NEWLINE, "\n")
	case '[', '(':
		l.afterSpace = true
		tok := l.MakeToken(token.TokenType(string(r)), string(r))
		l.brackets.Push(tok)
		return tok
	case ']', ')':
		tok := l.MakeToken(token.TokenType(string(r)), string(r))
		opener, ok := l.brackets.Pop()
		if !ok {
			return l.Throw("lex/bracket/close", string(r))
		}
		if (opener.Literal == "[") != (r == ']') {
			l.Ers = err.Throw("lex/bracket/mismatch", l.Ers, &tok, opener.Literal)
		}
		return tok
	case '+', '-':
		next := l.runes.PeekRune()
		if !wasAfterSpace || isWhitespace(next) || next == 0 || next == ']' || next == ')' {
			if r == '+' {
				return l.MakeToken(token.PLUS, "+")
			}
			return l.MakeToken(token.MINUS, "-")
		}
		return l.readSigned(r)
	case '*':
		return l.MakeToken(token.ASTERISK, "*")
	case '/':
		return l.MakeToken(token.SLASH, "/")
	case '=':
		return l.MakeToken(token.EQ, "=")
	case '<':
		switch l.runes.PeekRune() {
		case '=':
			l.runes.ReadRune()
			return l.MakeToken(token.LE, "<=")
		case '>':
			l.runes.ReadRune()
			return l.MakeToken(token.NOT_EQ, "<>")
		}
		return l.MakeToken(token.LT, "<")
	case '>':
		if l.runes.PeekRune() == '=' {
			l.runes.ReadRune()
			return l.MakeToken(token.GE, ">=")
		}
		return l.MakeToken(token.GT, ">")
	case ':':
		name, _ := l.readWord(false)
		if name == "" {
			return l.Throw("lex/thing")
		}
		return l.MakeToken(token.THING, name)
	case '"':
		word, _ := l.readWord(true)
		return l.MakeToken(token.QUOTED, word)
	}
	l.runes.UnreadRune(r)
	word, literal := l.readWord(false)
	return l.MakeToken(classify(word, literal), word)
}

// Deals with a sign glued to what follows it. A signed number is a single token; any
// other operand after a minus gets a NEGATE in front of it, and a plus is dropped.
func (l *lexer) readSigned(sign rune) token.Token {
	if !isDigit(l.runes.PeekRune()) {
		if sign == '+' {
			l.afterSpace = true
			return l.NextToken()
		}
		return l.MakeToken(token.NEGATE, "-")
	}
	word, literal := l.readWord(false)
	tokType := classify(word, literal)
	if tokType == token.INT || tokType == token.FLOAT {
		if sign == '-' {
			word = "-" + word
		}
		return l.MakeToken(tokType, word)
	}
	neg := l.MakeToken(token.NEGATE, "-")
	l.pending = append(l.pending, l.MakeToken(tokType, word))
	return neg
}

// Reads a word up to the next delimiter. Quoted words only end at whitespace and
// brackets, whereas bare words and thing names also end at infix operators. The second
// return value is true if any part of the word was protected with bars or a backslash.
func (l *lexer) readWord(quoted bool) (string, bool) {
	var sb strings.Builder
	literal := false
	for {
		r := l.runes.ReadRune()
		switch {
		case r == 0:
			return sb.String(), literal
		case r == '|':
			literal = true
			for {
				r = l.runes.ReadRune()
				if r == 0 {
					l.Throw("lex/pipe")
					return sb.String(), literal
				}
				if r == '|' {
					break
				}
				sb.WriteRune(r)
			}
		case r == '\\':
			literal = true
			r = l.runes.ReadRune()
			if r == 0 {
				l.Throw("lex/escape")
				return sb.String(), literal
			}
			sb.WriteRune(r)
		case l.continues(r):
		case isDelimiter(r, quoted):
			l.runes.UnreadRune(r)
			return sb.String(), literal
		default:
			sb.WriteRune(r)
		}
	}
}

// Skips spaces, comments, and continued lines, and reports whether there were any.
// Newlines are skipped only inside square brackets, since a list can run over several
// lines but an instruction can't.
func (l *lexer) skipWhitespace() bool {
	skipped := false
	for {
		_, col := l.runes.Position()
		r := l.runes.ReadRune()
		switch {
		case r == ' ' || r == '\t' || r == '\r':
		case l.continues(r):
		case r == ';' || (r == '#' && col == 0):
			l.skipComment()
		case r == '\n' && l.inList():
		default:
			l.runes.UnreadRune(r)
			return skipped
		}
		skipped = true
	}
}

// A newline with the continuation marker on either side of it is elided. If this returns
// true then the marker and the newline have both been consumed.
func (l *lexer) continues(r rune) bool {
	if r != '~' && r != '\n' {
		return false
	}
	next := l.runes.ReadRune()
	if (r == '~' && next == '\n') || (r == '\n' && next == '~') {
		return true
	}
	l.runes.UnreadRune(next)
	return false
}

func (l *lexer) skipComment() {
	for {
		r := l.runes.ReadRune()
		if r == '\n' || r == 0 {
			l.runes.UnreadRune(r)
			return
		}
	}
}

func (l *lexer) inList() bool {
	return l.brackets.FindFunc(func(t token.Token) bool { return t.Literal == "[" }) >= 0
}

func classify(word string, literal bool) token.TokenType {
	if literal {
		return token.WORD
	}
	switch {
	case isInteger(word):
		return token.INT
	case isFloat(word):
		return token.FLOAT
	}
	return token.LookupWord(word)
}

func isInteger(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isDigit(r) {
			return false
		}
	}
	return true
}

// A float has digits on both sides of exactly one decimal point.
func isFloat(s string) bool {
	point := strings.IndexRune(s, '.')
	if point < 1 {
		return false
	}
	return isInteger(s[:point]) && isInteger(s[point+1:])
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func isDelimiter(r rune, quoted bool) bool {
	switch r {
	case ' ', '\t', '\r', '\n', '[', ']', '(', ')', ';':
		return true
	case '+', '-', '*', '/', '=', '<', '>':
		return !quoted
	}
	return false
}

func (l *lexer) MakeToken(tokenType token.TokenType, st string) token.Token {
	if settings.SHOW_LEXER {
		fmt.Println(tokenType, st)
	}
	_, chNo := l.runes.Position()
	return token.Token{Type: tokenType, Literal: st, Source: l.source, Line: l.lineNo, ChStart: l.tstart, ChEnd: chNo}
}

func (l *lexer) Throw(errorID string, args ...any) token.Token {
	tok := l.MakeToken(token.ILLEGAL, errorID)
	l.Ers = err.Throw(errorID, l.Ers, &tok, args...)
	return tok
}
