package lexer

import (
	"bufio"
	"strings"
	"testing"

	"github.com/logoc/logoc/source/token"
)

func TestDeclarationAndCall(t *testing.T) {
	input :=
		`to square :size
  repeat 4 [fd :size rt 90]
end
print sum 1 2 3`
	items := []testItem{
		{token.TO, "to", 1},
		{token.WORD, "square", 1},
		{token.THING, "size", 1},
		{token.NEWLINE, "\n", 1},
		{token.WORD, "repeat", 2},
		{token.INT, "4", 2},
		{token.LBRACK, "[", 2},
		{token.WORD, "fd", 2},
		{token.THING, "size", 2},
		{token.WORD, "rt", 2},
		{token.INT, "90", 2},
		{token.RBRACK, "]", 2},
		{token.NEWLINE, "\n", 2},
		{token.END, "end", 3},
		{token.NEWLINE, "\n", 3},
		{token.WORD, "print", 4},
		{token.WORD, "sum", 4},
		{token.INT, "1", 4},
		{token.INT, "2", 4},
		{token.INT, "3", 4},
		{token.EOF, "EOF", 4},
	}
	testLexingString(t, input, items)
}

func TestSignsAndOperators(t *testing.T) {
	input := `print 3-2 -4 - :x (-5) -:y +7 2.5 a<=b c<>d`
	items := []testItem{
		{token.WORD, "print", 1},
		{token.INT, "3", 1},
		{token.MINUS, "-", 1},
		{token.INT, "2", 1},
		{token.INT, "-4", 1},
		{token.MINUS, "-", 1},
		{token.THING, "x", 1},
		{token.LPAREN, "(", 1},
		{token.INT, "-5", 1},
		{token.RPAREN, ")", 1},
		{token.NEGATE, "-", 1},
		{token.THING, "y", 1},
		{token.INT, "7", 1},
		{token.FLOAT, "2.5", 1},
		{token.WORD, "a", 1},
		{token.LE, "<=", 1},
		{token.WORD, "b", 1},
		{token.WORD, "c", 1},
		{token.NOT_EQ, "<>", 1},
		{token.WORD, "d", 1},
		{token.EOF, "EOF", 1},
	}
	testLexingString(t, input, items)
}

func TestWordsCommentsAndContinuations(t *testing.T) {
	input :=
		`print "hello;comment
#whole line
make "a|b c|d "x+y
TO Foo\ Bar
print ~
3 # 4`
	items := []testItem{
		{token.WORD, "print", 1},
		{token.QUOTED, "hello", 1},
		{token.NEWLINE, "\n", 1},
		{token.NEWLINE, "\n", 2},
		{token.WORD, "make", 3},
		{token.QUOTED, "ab cd", 3},
		{token.QUOTED, "x+y", 3},
		{token.NEWLINE, "\n", 3},
		{token.TO, "TO", 4},
		{token.WORD, "Foo Bar", 4},
		{token.NEWLINE, "\n", 4},
		{token.WORD, "print", 5},
		{token.INT, "3", 6},
		{token.WORD, "#", 6},
		{token.INT, "4", 6},
		{token.EOF, "EOF", 6},
	}
	testLexingString(t, input, items)
}

func TestListsSpanLines(t *testing.T) {
	input := "print [a\n~ b\nc]\nstop"
	items := []testItem{
		{token.WORD, "print", 1},
		{token.LBRACK, "[", 1},
		{token.WORD, "a", 1},
		{token.WORD, "b", 2},
		{token.WORD, "c", 3},
		{token.RBRACK, "]", 3},
		{token.NEWLINE, "\n", 3},
		{token.WORD, "stop", 4},
		{token.EOF, "EOF", 4},
	}
	testLexingString(t, input, items)
}

func TestStreamInput(t *testing.T) {
	l := NewStreamLexer("stream", bufio.NewReader(strings.NewReader("make \"x -1.5\n")))
	items := []testItem{
		{token.WORD, "make", 1},
		{token.QUOTED, "x", 1},
		{token.FLOAT, "-1.5", 1},
		{token.NEWLINE, "\n", 1},
		{token.EOF, "EOF", 2},
	}
	runTest(t, l, items)
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		input   string
		errorId string
	}{
		{`print :`, "lex/thing"},
		{`print ]`, "lex/bracket/close"},
		{`print [a`, "lex/bracket/open"},
		{`print "|ab`, "lex/pipe"},
		{`print (a]`, "lex/bracket/mismatch"},
		{`print a\`, "lex/escape"},
	}
	for _, test := range tests {
		l := NewLexer("errors", test.input)
		l.Tokens()
		if len(l.Ers) == 0 {
			t.Fatalf("Lexing %q: expected error %s, got none", test.input, test.errorId)
		}
		if l.Ers[0].ErrorId != test.errorId {
			t.Fatalf("Lexing %q: expected error %s, got %s", test.input, test.errorId, l.Ers[0].ErrorId)
		}
	}
}

type testItem struct {
	expectedType    token.TokenType
	expectedLiteral string
	expectedLine    int
}

func testLexingString(t *testing.T, input string, items []testItem) {
	l := NewLexer("dummy source", input)
	runTest(t, l, items)
	if len(l.Ers) > 0 {
		t.Fatalf("unexpected lexer error: %s", l.Ers[0].Message)
	}
}

func runTest(t *testing.T, l *lexer, items []testItem) {
	for i, tt := range items {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q with literal %q, got=%q with literal %q",
				i, tt.expectedType, tt.expectedLiteral, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
		if tok.Line != tt.expectedLine {
			t.Fatalf("tests[%d] - line wrong. expected=%d, got=%d",
				i, tt.expectedLine, tok.Line)
		}
	}
}

func TestContinuationInsideWord(t *testing.T) {
	input := "print ab~\ncd\n~ef"
	items := []testItem{
		{token.WORD, "print", 1},
		{token.WORD, "abcdef", 1},
		{token.EOF, "EOF", 3},
	}
	testLexingString(t, input, items)
}
