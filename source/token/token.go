package token

import "strings"

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Literals and names
	WORD   = "word"   // forward, sum, [data words] ...
	QUOTED = "quoted" // "hello
	THING  = "thing"  // :size
	INT    = "int"    // 1343456
	FLOAT  = "float"  // 1.23

	NEWLINE = "\n"

	// Infix operators
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"
	EQ       = "="
	NOT_EQ   = "<>"
	LT       = "<"
	LE       = "<="
	GT       = ">"
	GE       = ">="

	// A minus sign glued to the operand that follows it.
	NEGATE = "NEGATE"

	LPAREN = "("
	RPAREN = ")"
	LBRACK = "["
	RBRACK = "]"

	// Keywords
	TO        = "to"
	END       = "end"
	PRIMITIVE = "primitive"
	PROCEDURE = "procedure"
	FUNCTION  = "function"
	PROGRAM   = "program"
	DECLARE   = "declare"
	TRUE      = "true"
	FALSE     = "false"
	VOID      = "void"
)

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	ChStart int
	ChEnd   int
	Source  string
}

var keywords = map[string]TokenType{
	"to":        TO,
	"end":       END,
	"primitive": PRIMITIVE,
	"procedure": PROCEDURE,
	"function":  FUNCTION,
	"program":   PROGRAM,
	"declare":   DECLARE,
	"true":      TRUE,
	"false":     FALSE,
	"void":      VOID,
}

// Keywords are not case-sensitive, so neither is this.
func LookupWord(word string) TokenType {
	if tok, ok := keywords[strings.ToLower(word)]; ok {
		return tok
	}
	return WORD
}

// Whether the token opens a declaration which runs to the end of its line.
func TokenTypeIsHeadword(t TokenType) bool {
	return t == TO || t == PROCEDURE || t == FUNCTION || t == DECLARE || t == PRIMITIVE
}

// Whether the token type can be read back as a bare word inside list data.
func TokenTypeIsWordlike(t TokenType) bool {
	switch t {
	case WORD, TO, END, PRIMITIVE, PROCEDURE, FUNCTION, PROGRAM, DECLARE, TRUE, FALSE, VOID:
		return true
	}
	return false
}

func TokenTypeIsInfix(t TokenType) bool {
	switch t {
	case PLUS, MINUS, ASTERISK, SLASH, EQ, NOT_EQ, LT, LE, GT, GE:
		return true
	}
	return false
}
