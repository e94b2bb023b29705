package rt

import (
	"github.com/logoc/logoc/source/values"
)

// The state of TEST in a procedure.
type Test int8

const (
	TEST_UNDEFINED Test = iota
	TEST_TRUE
	TEST_FALSE
)

// The condition of IF, IFELSE, UNTIL, and WHILE must be a boolean.
func (st *State) Truth(ctx Context, site Site, v values.Value) (bool, error) {
	b, ok := v.AsBool()
	if !ok {
		return false, st.raise(ctx, site, WRONG_TYPE, site.Name+" doesn't like "+describe(v)+" as input")
	}
	return b, nil
}

// The count of REPEAT must be an integer.
func (st *State) Count(ctx Context, site Site, v values.Value) (int64, error) {
	n, ok := v.AsInteger()
	if !ok {
		return 0, st.raise(ctx, site, WRONG_TYPE, site.Name+" doesn't like "+describe(v)+" as input")
	}
	return n, nil
}

// REPEAT and FOREVER push a counter for each iteration, starting from 1, and pop it at the
// end of the iteration. A loop left early doesn't pop. That is safe because the only ways
// out of a loop body are an error or STOP or OUTPUT, which leave the frame and with it the
// counters, and CATCH or GOTO, which call TruncateRepeats. Anything new which can leave a
// loop body and stay in the frame must truncate too.
func (st *State) PushRepeat(ctx Context, i int64) {
	st.frames[ctx].repeats = append(st.frames[ctx].repeats, i)
}

func (st *State) PopRepeat(ctx Context) {
	f := &st.frames[ctx]
	if len(f.repeats) > 0 {
		f.repeats = f.repeats[:len(f.repeats)-1]
	}
}

func (st *State) RepeatDepth(ctx Context) int {
	return len(st.frames[ctx].repeats)
}

// Drops the counters of loops which were left early, by CATCH or GOTO.
func (st *State) TruncateRepeats(ctx Context, depth int) {
	f := &st.frames[ctx]
	if depth < len(f.repeats) {
		f.repeats = f.repeats[:depth]
	}
}

// The counter of the innermost loop, looking back along the chain of callers if the
// current frame isn't in one.
func (st *State) RepCount(ctx Context) (int64, error) {
	for c := ctx; c >= Global; c = st.frames[c].parent {
		if r := st.frames[c].repeats; len(r) > 0 {
			return r[len(r)-1], nil
		}
	}
	return 0, st.raise(ctx, Site{}, VARIABLE_NOT_SET, "repcount used outside of repeat or forever")
}

func (st *State) SetTest(ctx Context, b bool) {
	t := TEST_FALSE
	if b {
		t = TEST_TRUE
	}
	st.frames[st.procedureFrame(ctx)].test = t
}

// Whether the last TEST in the nearest procedure came out as want. It's an error if there
// wasn't one.
func (st *State) Tested(ctx Context, site Site, want bool) (bool, error) {
	t := st.frames[st.procedureFrame(ctx)].test
	if t == TEST_UNDEFINED {
		return false, st.raise(ctx, site, NO_TEST, site.Name+" without test")
	}
	return (t == TEST_TRUE) == want, nil
}

func describe(v values.Value) string {
	if v.Kind() == values.UNSET {
		return "nothing"
	}
	return v.String()
}
