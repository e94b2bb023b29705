package rt

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/logoc/logoc/source/values"
)

type Code int

const (
	NO_ERROR Code = iota
	THROWN
	VARIABLE_NOT_SET
	WRONG_TYPE
	NOT_A_NUMBER
	DIVIDE_BY_ZERO
	DOMAIN
	OUTPUT_EXPECTED
	NO_TEST
	STACK_OVERFLOW
	OUT_OF_MEMORY
	NOT_DEFINED
)

var codeNames = []string{"no error", "thrown", "variable not set", "wrong type", "not a number",
	"divide by zero", "domain", "output expected", "no test", "stack overflow", "out of memory", "not defined"}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return "unknown error"
}

// Fatal errors can't be caught.
func (c Code) Fatal() bool {
	return c == STACK_OVERFLOW || c == OUT_OF_MEMORY
}

// The tag of every error which isn't made by THROW.
const ERROR_TAG = "error"

// A Logo runtime error.
type Error struct {
	Code      Code
	Tag       string
	Time      time.Time
	Message   string
	Payload   *values.Value
	File      string
	Procedure string
	Line      int
	Primitive string
	Caught    bool
}

func (e *Error) Error() string {
	result := e.Message
	if e.Procedure != "" {
		result = result + " in " + e.Procedure
	}
	if e.Line > 0 {
		result = result + fmt.Sprintf(" at line %d", e.Line)
		if e.File != "" {
			result = result + " of '" + e.File + "'"
		}
	}
	return result
}

// What a routine returns to get out early, after OUTPUT or STOP. It never escapes Invoke.
var Stop = errors.New("stop")

func (st *State) raise(ctx Context, site Site, code Code, message string) *Error {
	e := &Error{Code: code, Tag: ERROR_TAG, Time: time.Now().UTC(), Message: message}
	st.locate(ctx, site, e)
	return e
}

// Fills in whatever the error doesn't already know about where it happened.
func (st *State) locate(ctx Context, site Site, e *Error) {
	if e.Procedure == "" {
		e.Procedure = st.frames[st.procedureFrame(ctx)].routine
	}
	if e.Line == 0 {
		e.File, e.Line = site.File, site.Line
	}
	if e.Primitive == "" {
		e.Primitive = site.Name
	}
}

// Turns whatever a primitive returned into a Logo error.
func (st *State) annotate(ctx Context, site Site, e error) error {
	if errors.Is(e, Stop) {
		return e
	}
	var rte *Error
	if errors.As(e, &rte) {
		st.locate(ctx, site, rte)
		return rte
	}
	code := WRONG_TYPE
	switch {
	case errors.Is(e, values.ErrDivideByZero):
		code = DIVIDE_BY_ZERO
	case errors.Is(e, values.ErrDomain):
		code = DOMAIN
	case errors.Is(e, values.ErrNotANumber):
		code = NOT_A_NUMBER
	}
	return st.raise(ctx, site, code, e.Error())
}

func (st *State) Throw(ctx Context, site Site, tag values.Value, payload ...values.Value) error {
	name, ok := tag.AsWord()
	if !ok {
		return st.raise(ctx, site, WRONG_TYPE, "throw doesn't like "+tag.String()+" as input")
	}
	e := st.raise(ctx, site, THROWN, "can't find catch tag for "+name)
	e.Tag = name
	if len(payload) > 0 {
		e.Payload = &payload[0]
		if st.fold(name) == ERROR_TAG {
			e.Message = values.Format(payload[0])
		}
	}
	return e
}

// Decides whether a CATCH with the given tag intercepts the error returned by its body.
// If it does, the error is recorded for ERROR to find, the repeat counters are put back to
// how they were when the body started, and the result is nil. Otherwise the error is
// passed on.
func (st *State) Catch(ctx Context, e error, tag values.Value, depth int) error {
	if e == nil || errors.Is(e, Stop) {
		return e
	}
	var rte *Error
	if !errors.As(e, &rte) || rte.Code.Fatal() {
		return e
	}
	name, ok := tag.AsWord()
	if !ok || st.fold(name) != st.fold(rte.Tag) {
		return e
	}
	rte.Caught = true
	st.SetError(ctx, rte)
	st.TruncateRepeats(ctx, depth)
	if st.trace {
		st.Log.Debug().Str("tag", name).Str("code", rte.Code.String()).Str("message", rte.Message).Msg("caught")
	}
	return nil
}

func (st *State) SetError(ctx Context, e *Error) {
	st.frames[st.procedureFrame(ctx)].err = e
}

// Returns the last error caught by the nearest procedure, and forgets it.
func (st *State) TakeError(ctx Context) *Error {
	f := &st.frames[st.procedureFrame(ctx)]
	e := f.err
	f.err = nil
	return e
}

// The list ERROR outputs: the code, the message, the procedure, and the line.
func (e *Error) AsList() values.Value {
	message := values.Word(e.Message)
	if e.Payload != nil && !strings.EqualFold(e.Tag, ERROR_TAG) {
		message = *e.Payload
	}
	return values.List(values.Int(int64(e.Code)), message, values.Word(e.Procedure), values.Int(int64(e.Line)))
}
