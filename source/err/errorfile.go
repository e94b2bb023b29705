package err

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/logoc/logoc/source/text"
	"github.com/logoc/logoc/source/token"
)

// A map from error identifiers to functions that supply the corresponding error messages and explanations.
//
// Errors in the map are in alphabetical order of their identifers.
//
// Major categories are comp, decl, lex, and parse.
//
// Two otherwise identical errors thrown in different places in the Go code must be assigned
// different identifiers, if only by suffixing /a, /b, etc to the identifier.

var ErrorCreatorMap = map[string]ErrorCreator{

	// TEMPLATE
	"": {
		Message: func(tok *token.Token, args ...any) string {
			return ""
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return ""
		},
	},

	"comp/args/few": {
		Message: func(tok *token.Token, args ...any) string {
			return "not enough inputs to " + emph(args[0])
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return emph(args[0]) + " needs at least " + emphNum(args[1]) + " input" + plural(args[1]) +
				". Inside an instruction list a short call is allowed to parse, in case the list is " +
				"only ever used as data, but this list is run as code, so the call can't be compiled."
		},
	},

	"comp/body/literal": {
		Message: func(tok *token.Token, args ...any) string {
			return emph(args[0]) + " needs a literal instruction list"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "Instruction lists are compiled ahead of time, so the input to " + emph(args[0]) +
				" has to be written out in square brackets where it's used, rather than computed " +
				"or taken from a variable."
		},
	},

	"comp/emit": {
		Message: func(tok *token.Token, args ...any) string {
			return "failed to format generated code: " + fmt.Sprint(args[0])
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "This is a bug in the compiler rather than in your code. The Go source generated " +
				"for your program could not be formatted."
		},
	},

	"comp/goto/catch": {
		Message: func(tok *token.Token, args ...any) string {
			return "can't use " + emph("goto") + " inside " + emph("catch")
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "The body of a " + emph("catch") + " is compiled as a separate block which can't " +
				"jump to the labels of the procedure that contains it. Use " + emph("throw") +
				" to get out of the " + emph("catch") + " and put the " + emph("goto") + " after it."
		},
	},

	"comp/goto/label": {
		Message: func(tok *token.Token, args ...any) string {
			return "no " + emph("tag") + " called " + emph(args[0]) + " in " + emph(args[1])
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "A " + emph("goto") + " can only jump to a " + emph("tag") + " in the same " +
				"procedure, at the top level of its body."
		},
	},

	"comp/output/procedure": {
		Message: func(tok *token.Token, args ...any) string {
			return "can't use " + emph("output") + " in " + emph(args[0]) + ", which doesn't output"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return emph(args[0]) + " has been declared as a procedure rather than a function, so " +
				"it can't return a value. Declare it with " + emph("function") + " instead, or with a " +
				emph("[function]") + " flag list."
		},
	},

	"comp/stop/function": {
		Message: func(tok *token.Token, args ...any) string {
			return "can't use " + emph("stop") + " in " + emph(args[0]) + ", which must output"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return emph(args[0]) + " is a function, and so every way out of it must supply a value " +
				"with " + emph("output") + "."
		},
	},

	"comp/tag/duplicate": {
		Message: func(tok *token.Token, args ...any) string {
			return "the tag " + emph(args[0]) + " appears more than once in " + emph(args[1])
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "A " + emph("goto") + " would have no way to tell which one it meant."
		},
	},

	"comp/tag/literal": {
		Message: func(tok *token.Token, args ...any) string {
			return emph(args[0]) + " needs a quoted word"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "Labels are resolved when the program is compiled, so the input to " + emph(args[0]) +
				" must be written as a literal, e.g. " + emph("\"loop") + "."
		},
	},

	"comp/tag/nested": {
		Message: func(tok *token.Token, args ...any) string {
			return "a " + emph("tag") + " must be at the top level of a procedure body"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "A " + emph("tag") + " can't be inside an instruction list, since jumping into " +
				"the middle of a loop or a conditional has no sensible meaning."
		},
	},

	"decl/arity": {
		Message: func(tok *token.Token, args ...any) string {
			return "the default number of inputs of " + emph(args[0]) + " must be between " +
				emphNum(args[1]) + " and " + describeMax(args[2])
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "The number at the end of a declaration says how many inputs " + emph(args[0]) +
				" takes when it isn't in parentheses. It can't be fewer than the required inputs, or " +
				"more than all the inputs together."
		},
	},

	"decl/end/missing": {
		Message: func(tok *token.Token, args ...any) string {
			return "no " + emph("end") + " for " + emph(args[0])
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "Every " + emph("to") + " needs an " + emph("end") + " on a line of its own to finish the definition."
		},
	},

	"decl/end/stray": {
		Message: func(tok *token.Token, args ...any) string {
			return emph("end") + " without " + emph("to")
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "There is no definition here for " + emph("end") + " to finish." + blame(errors, pos, "decl/name", "decl/nested")
		},
	},

	"decl/flag/primitive": {
		Message: func(tok *token.Token, args ...any) string {
			return emph(args[0]) + " only describes a primitive, and " + emph(args[1]) + " isn't one"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "The " + emph("inline") + " and " + emph("control") + " flags say how a primitive is to be called. " +
				"A procedure, whether it has a body here or is declared with " + emph("declare") +
				", is always called in a context of its own, so they would mean nothing. The flags " +
				emph("arithmetic") + ", " + emph("logic") + " and " + emph("c") + " are accepted anywhere, " +
				"but only matter when two declarations of the same name are compared."
		},
	},

	"decl/flag": {
		Message: func(tok *token.Token, args ...any) string {
			return emph(args[0]) + " isn't a declaration flag"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "The flags which can go in a declaration's flag list are " + emph("function") + ", " +
				emph("procedure") + ", " + emph("inline") + ", " + emph("control") + ", " + emph("arithmetic") +
				", " + emph("logic") + " and " + emph("c") + "."
		},
	},

	"decl/name": {
		Message: func(tok *token.Token, args ...any) string {
			return emph(args[0]) + " needs a name"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "The first thing after " + emph(args[0]) + " should be the name of what is being declared, as a plain word."
		},
	},

	"decl/nested": {
		Message: func(tok *token.Token, args ...any) string {
			return "can't declare " + emph(args[0]) + " inside the definition of " + emph(args[1])
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "Definitions can't be nested. Perhaps the previous definition is missing its " + emph("end") + "?"
		},
	},

	"decl/order": {
		Message: func(tok *token.Token, args ...any) string {
			return "input " + emph(":"+fmt.Sprint(args[0])) + " is out of order"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "Required inputs come first, then optional inputs in brackets with their defaults, " +
				"then at most one rest input, e.g. " + emph("to foo :a [:b 2] [:rest]") + "."
		},
	},

	"decl/param": {
		Message: func(tok *token.Token, args ...any) string {
			return "unexpected " + text.DescribeTok(tok) + " in declaration of " + emph(args[0])
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "After the name of a procedure there should only be its inputs, such as " + emph(":size") +
				", an optional flag list, and an optional number of default inputs."
		},
	},

	"decl/program": {
		Message: func(tok *token.Token, args ...any) string {
			return emph("program") + " needs a name"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "The name of the program is used as the name of the generated Go package, " +
				"so it should be a plain word."
		},
	},

	"decl/redeclared": {
		Message: func(tok *token.Token, args ...any) string {
			return emph(args[0]) + " is already declared differently"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "A name can be declared more than once only if every declaration agrees about its " +
				"inputs and flags." + blame(errors, pos, "decl/redeclared")
		},
	},

	"decl/rest": {
		Message: func(tok *token.Token, args ...any) string {
			return "malformed input list in declaration of " + emph(args[0])
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "An input in square brackets should be either an optional input with a default, " +
				"like " + emph("[:b 2]") + ", or the rest input, like " + emph("[:rest]") + "."
		},
	},

	"lex/bracket/close": {
		Message: func(tok *token.Token, args ...any) string {
			return "unexpected " + emph(tok.Literal)
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "There is no " + text.DescribeOpposite(tok) + " for this to close."
		},
	},

	"lex/bracket/mismatch": {
		Message: func(tok *token.Token, args ...any) string {
			return emph(args[0]) + " is closed by " + emph(tok.Literal)
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "Brackets and parentheses must be closed in the reverse order to the one they were opened in."
		},
	},

	"lex/bracket/open": {
		Message: func(tok *token.Token, args ...any) string {
			return "unclosed " + emph(args[0])
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "The file ended while there was still a bracket or parenthesis open."
		},
	},

	"lex/escape": {
		Message: func(tok *token.Token, args ...any) string {
			return "nothing to escape after " + emph("\\")
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "A backslash makes the character after it part of the word, but here the input ends instead."
		},
	},

	"lex/pipe": {
		Message: func(tok *token.Token, args ...any) string {
			return "unclosed " + emph("|")
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "Vertical bars come in pairs: everything between them is taken literally as part of the word."
		},
	},

	"lex/thing": {
		Message: func(tok *token.Token, args ...any) string {
			return emph(":") + " must be followed by a name"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "A colon in front of a word means the value of the variable with that name, e.g. " + emph(":size") + "."
		},
	},

	"parse/args/few": {
		Message: func(tok *token.Token, args ...any) string {
			return "not enough inputs to " + emph(args[0])
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return emph(args[0]) + " needs at least " + emphNum(args[1]) + " input" + plural(args[1]) +
				" but only got " + emphNum(args[2]) + "." + blame(errors, pos, "parse/unknown")
		},
	},

	"parse/args/many": {
		Message: func(tok *token.Token, args ...any) string {
			return "too many inputs to " + emph(args[0])
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return emph(args[0]) + " can take at most " + emphNum(args[1]) + " input" + plural(args[1]) +
				", even in parentheses."
		},
	},

	"parse/infix": {
		Message: func(tok *token.Token, args ...any) string {
			return emph(tok.Literal) + " has nothing on its left"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "An infix operator needs a value on each side of it."
		},
	},

	"parse/noreturn": {
		Message: func(tok *token.Token, args ...any) string {
			return emph(args[0]) + " doesn't output a value"
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return emph(args[0]) + " is a procedure rather than a function, so it can't be used as an input to anything."
		},
	},

	"parse/paren/close": {
		Message: func(tok *token.Token, args ...any) string {
			return "expected " + emph(")") + ", got " + text.DescribeTok(tok)
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "A parenthesized expression should be closed once its value is complete." + blame(errors, pos, "parse/args/many")
		},
	},

	"parse/unexpected": {
		Message: func(tok *token.Token, args ...any) string {
			return "unexpected " + text.DescribeTok(tok)
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "The parser was expecting a value here." + blame(errors, pos, "parse/unknown", "lex/bracket/close")
		},
	},

	"parse/unknown": {
		Message: func(tok *token.Token, args ...any) string {
			return "I don't know how to " + emph(tok.Literal)
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return emph(tok.Literal) + " isn't a primitive, and there's no " + emph("to") + ", " +
				emph("declare") + " or " + emph("primitive") + " declaring it in any of the files being compiled."
		},
	},

	"parse/unused": {
		Message: func(tok *token.Token, args ...any) string {
			return "you don't say what to do with " + emph(args[0])
		},
		Explanation: func(errors Errors, pos int, tok *token.Token, args ...any) string {
			return "Each instruction should be a call to a procedure. A value on its own, or the output " +
				"of a function, has to be passed to something, e.g. " + emph("print") + " or " + emph("make") + "."
		},
	},
}

func blame(errors Errors, pos int, args ...string) string {
	if pos == 0 {
		return ""
	}
	for _, v := range args {
		if errors[pos-1].ErrorId == v {
			very := ""
			if (errors[pos].Token.Line - errors[pos-1].Token.Line) <= 1 {
				very = "very "
			}
			return "\n\nIn this case the problem is " + very + "likely a knock-on effect of the previous error ([" +
				strconv.Itoa(pos-1) + "] " + errors[pos-1].Message + ".)"
		}
	}
	return ""
}

func emph(s any) string {
	if t, ok := s.(string); ok {
		s = strings.TrimSpace(t)
	}
	return fmt.Sprintf("'%v'", s)
}

func emphNum(i any) string {
	return fmt.Sprintf("%v", i)
}

func plural(i any) string {
	if n, ok := i.(int); ok && n == 1 {
		return ""
	}
	return "s"
}

// Arities with no upper bound are passed as negative numbers.
func describeMax(i any) string {
	if n, ok := i.(int); ok && n < 0 {
		return "any number"
	}
	return emphNum(i)
}
