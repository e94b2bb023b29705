package err

import (
	"fmt"
	"strconv"

	"github.com/logoc/logoc/source/text"
	"github.com/logoc/logoc/source/token"
)

// The compile-time error type. Runtime errors live in the rt package, since they have to
// be linked into the generated programs.
type Error struct {
	ErrorId string
	Message string
	Args    []any
	Token   *token.Token
}

type Errors []*Error

type ErrorCreator struct {
	Message     func(tok *token.Token, args ...any) string
	Explanation func(errors Errors, pos int, tok *token.Token, args ...any) string
}

func (e *Error) Error() string {
	return e.Message + text.DescribePos(e.Token)
}

// Makes an error from its id, which must be in the ErrorCreatorMap.
func CreateErr(errorID string, tok *token.Token, args ...any) *Error {
	creator, ok := ErrorCreatorMap[errorID]
	if !ok {
		Internal("error id %q is not in the error creator map", errorID)
	}
	return &Error{ErrorId: errorID, Message: creator.Message(tok, args...), Args: args, Token: tok}
}

// Appends the error with the given id to the list.
func Throw(errorID string, errors Errors, tok *token.Token, args ...any) Errors {
	return append(errors, CreateErr(errorID, tok, args...))
}

// Lists the errors, one per line, in the form in which the driver reports them.
func GetList(errors Errors) string {
	result := ""
	for i, e := range errors {
		result = result + "[" + strconv.Itoa(i) + "] " + text.ERROR + ": " + e.Message + text.DescribePos(e.Token) + ".\n"
	}
	return result
}

// Returns the longer explanation of the error in position pos.
func Explain(errors Errors, pos int) string {
	if pos < 0 || pos >= len(errors) {
		return ""
	}
	e := errors[pos]
	return ErrorCreatorMap[e.ErrorId].Explanation(errors, pos, e.Token, e.Args...)
}

// An InternalError means that the compiler itself is broken. It is panicked with, and only
// the command line recovers it.
type InternalError struct {
	Message string
}

func (e InternalError) Error() string {
	return "internal error: " + e.Message
}

func Internal(format string, args ...any) {
	panic(InternalError{Message: fmt.Sprintf(format, args...)})
}
