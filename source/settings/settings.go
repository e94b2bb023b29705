// All this does is contain in one place the constants controlling which bits of the inner workings of the
// lexer/parser/compiler are displayed for debugging purposes. In a release they must all be set to false
// except SHOW_TESTS.

package settings

const (
	PROCEDURE_TO_PEEK = "" // Shows the tokens and the parsed body of the procedure named in the string, if non-empty.

	// These do what it sounds like.
	SHOW_LEXER             = false
	SHOW_PARSER            = false
	SHOW_COMPILER          = false
	SHOW_COMPILER_COMMENTS = false // Emits a Go comment before the code for each lowered statement.

	SHOW_TESTS = true // Says whether the tests should say what is being tested, useful if one of them crashes and we don't know which.
)

// Limits of the runtime.
const (
	MAX_DEPTH      = 10000   // Frames, before STACK_OVERFLOW.
	MAX_LIST_ITEMS = 1 << 26 // Items in a list, before OUT_OF_MEMORY.
)

// The import path of the runtime which generated code links against.
const (
	RUNTIME_PATH = "github.com/logoc/logoc/source/rt"
	VALUES_PATH  = "github.com/logoc/logoc/source/values"
)
