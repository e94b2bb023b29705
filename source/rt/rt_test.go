package rt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/logoc/logoc/source/values"
)

func newTestState() (*State, *bytes.Buffer) {
	var out bytes.Buffer
	return NewState(Options{Out: &out, Err: &out, Program: "test"}), &out
}

func site(name string) Site {
	return Site{File: "test.logo", Line: 7, Name: name}
}

func codeOf(t *testing.T, e error) Code {
	var rte *Error
	if !errors.As(e, &rte) {
		t.Fatalf("wanted a runtime error, got %v", e)
	}
	return rte.Code
}

// Calls a procedure the way generated code does.
func call(t *testing.T, st *State, ctx Context, name string, r Routine) values.Value {
	c, e := st.Enter(ctx, "test.logo", name, 1, false)
	if e != nil {
		t.Fatal(e)
	}
	v, e := st.Invoke(c, r)
	if e != nil {
		t.Fatal(e)
	}
	return v
}

func TestRepcount(t *testing.T) {
	st, _ := newTestState()
	_, e := st.Apply(Global, site("repcount"), Repcount)
	if codeOf(t, e) != VARIABLE_NOT_SET {
		t.Fatalf("repcount outside a loop: got %v", e)
	}
	st.PushRepeat(Global, 1)
	st.PushRepeat(Global, 3)
	v, e := st.Apply(Global, site("repcount"), Repcount)
	if e != nil || !values.Equal(v, values.Int(3)) {
		t.Fatalf("repcount in a loop: got %v, %v", v, e)
	}
	// A procedure called from inside the loop sees the caller's counter.
	got := call(t, st, Global, "inner", func(st *State, ctx Context) error {
		v, e := st.Apply(ctx, site("repcount"), Repcount)
		if e != nil {
			return e
		}
		return st.Output(ctx, v)
	})
	if !values.Equal(got, values.Int(3)) {
		t.Fatalf("repcount from a called procedure: got %v", got)
	}
	st.PopRepeat(Global)
	if v, _ := st.Apply(Global, site("repcount"), Repcount); !values.Equal(v, values.Int(1)) {
		t.Fatalf("repcount after pop: got %v", v)
	}
}

func TestDynamicScopeAndLocal(t *testing.T) {
	st, _ := newTestState()
	setVar := func(ctx Context, name string, v values.Value) {
		if _, e := st.Apply(ctx, site("make"), Make, values.Word(name), v); e != nil {
			t.Fatal(e)
		}
	}
	setVar(Global, "x", values.Int(5))
	got := call(t, st, Global, "reader", func(st *State, ctx Context) error {
		v, e := st.Lookup(ctx, site("reader"), "X")
		if e != nil {
			return e
		}
		return st.Output(ctx, v)
	})
	if !values.Equal(got, values.Int(5)) {
		t.Fatalf("reading a global from a procedure: got %v", got)
	}
	call(t, st, Global, "shadow", func(st *State, ctx Context) error {
		if _, e := st.Apply(ctx, site("local"), Local, values.Word("x")); e != nil {
			return e
		}
		if _, e := st.GetThing(ctx, "x"); codeOf(t, e) != VARIABLE_NOT_SET {
			t.Fatalf("a fresh local should have no value, got %v", e)
		}
		setVar(ctx, "x", values.Int(7))
		if v, _ := st.GetThing(ctx, "x"); !values.Equal(v, values.Int(7)) {
			t.Fatalf("local x: got %v", v)
		}
		return nil
	})
	if v, _ := st.GetThing(Global, "x"); !values.Equal(v, values.Int(5)) {
		t.Fatalf("LOCAL leaked: global x is %v", v)
	}
	call(t, st, Global, "setter", func(st *State, ctx Context) error {
		setVar(ctx, "x", values.Int(9))
		setVar(ctx, "fresh", values.Int(1))
		return nil
	})
	if v, _ := st.GetThing(Global, "x"); !values.Equal(v, values.Int(9)) {
		t.Fatalf("MAKE without LOCAL should set the global: got %v", v)
	}
	if t1 := st.FindThing(Global, "fresh"); t1 == nil {
		t.Fatal("MAKE of an unbound name should create a global")
	}
}

func TestSetThingKinds(t *testing.T) {
	st, _ := newTestState()
	outer, _ := st.Enter(Global, "f", "outer", 1, false)
	prim, _ := st.Enter(outer, "f", "make", 2, true)
	st.SetThing(prim, "a", values.Int(1), PROCEDURE_LOCAL)
	st.SetThing(prim, "b", values.Int(2), CONTEXT_LOCAL)
	st.SetThing(prim, "c", values.Int(3), GLOBAL)
	if _, ok := st.frames[outer].things["a"]; !ok {
		t.Fatal("procedure-local binding should skip the primitive frame")
	}
	if _, ok := st.frames[prim].things["b"]; !ok {
		t.Fatal("context-local binding should be in the current frame")
	}
	if _, ok := st.frames[Global].things["c"]; !ok {
		t.Fatal("global binding should be in the root")
	}
	st.Leave(outer)
	if st.FindThing(Global, "a") != nil || len(st.frames) != 1 {
		t.Fatal("Leave should discard the frame and everything above it")
	}
}

func TestCatch(t *testing.T) {
	st, _ := newTestState()
	thrown := st.Throw(Global, site("throw"), values.Word("Oops"), values.Word("payload"))
	if e := st.Catch(Global, thrown, values.Word("other"), 0); e != thrown {
		t.Fatal("a catch with the wrong tag shouldn't intercept")
	}
	if e := st.Catch(Global, thrown, values.Word("OOPS"), 0); e != nil {
		t.Fatalf("tags should match without regard to case: got %v", e)
	}
	info, _ := st.Apply(Global, site("error"), ErrorInfo)
	if got := info.String(); got != "[1 payload test 7]" {
		t.Fatalf("error after throw: got %s", got)
	}
	if info, _ := st.Apply(Global, site("error"), ErrorInfo); info.String() != "[]" {
		t.Fatalf("error should forget what it reported, got %s", info)
	}

	_, divide := st.Apply(Global, site("quotient"), Quotient, values.Int(10), values.Int(0))
	if codeOf(t, divide) != DIVIDE_BY_ZERO {
		t.Fatalf("quotient 10 0: got %v", divide)
	}
	if e := st.Catch(Global, divide, values.Word("error"), 0); e != nil {
		t.Fatalf("catch \"error should intercept primitive errors, got %v", e)
	}
	if e := st.Catch(Global, st.Throw(Global, site("throw"), values.Word("mine")), values.Word("error"), 0); e == nil {
		t.Fatal("catch \"error shouldn't intercept other throws")
	}

	fatal := &Error{Code: STACK_OVERFLOW, Tag: ERROR_TAG}
	if e := st.Catch(Global, fatal, values.Word("error"), 0); e != fatal {
		t.Fatal("fatal errors must not be caught")
	}
	if e := st.Catch(Global, Stop, values.Word("error"), 0); e != Stop {
		t.Fatal("stop must pass through a catch")
	}
}

func TestCatchRestoresRepeats(t *testing.T) {
	st, _ := newTestState()
	st.PushRepeat(Global, 2)
	depth := st.RepeatDepth(Global)
	st.PushRepeat(Global, 1)
	st.PushRepeat(Global, 1)
	e := st.Throw(Global, site("throw"), values.Word("out"))
	if st.Catch(Global, e, values.Word("out"), depth) != nil || st.RepeatDepth(Global) != 1 {
		t.Fatalf("repeat depth after catch: %d", st.RepeatDepth(Global))
	}
}

func TestLeavingALoopEarlyDropsItsCounters(t *testing.T) {
	st, _ := newTestState()
	for i := 0; i < 2; i++ {
		// OUTPUT from inside REPEAT, which never pops.
		got := call(t, st, Global, "counter", func(st *State, ctx Context) error {
			st.PushRepeat(ctx, 1)
			v, e := st.Apply(ctx, site("repcount"), Repcount)
			if e != nil {
				return e
			}
			return st.Output(ctx, v)
		})
		if !values.Equal(got, values.Int(1)) {
			t.Fatalf("call %d: got %v", i, got)
		}
	}
	// The next frame made at the same depth starts with no counters.
	c, _ := st.Enter(Global, "test.logo", "after", 1, false)
	if st.RepeatDepth(c) != 0 || st.RepeatDepth(Global) != 0 {
		t.Fatalf("counters survived their frame: %d, %d", st.RepeatDepth(c), st.RepeatDepth(Global))
	}
	if _, e := st.Apply(c, site("repcount"), Repcount); codeOf(t, e) != VARIABLE_NOT_SET {
		t.Fatalf("repcount after the loop was left: got %v", e)
	}
	st.Leave(c)
}

func TestPrimitiveErrors(t *testing.T) {
	st, _ := newTestState()
	_, e := st.Apply(Global, site("sqrt"), Sqrt, values.Int(-1))
	if codeOf(t, e) != DOMAIN {
		t.Fatalf("sqrt -1: got %v", e)
	}
	var rte *Error
	errors.As(e, &rte)
	if rte.Primitive != "sqrt" || rte.Line != 7 || rte.Tag != ERROR_TAG || rte.Procedure != "test" {
		t.Fatalf("error not annotated: %+v", rte)
	}
	if _, e := st.Apply(Global, site("sum"), Sum, values.Word("abc"), values.Int(1)); codeOf(t, e) != NOT_A_NUMBER {
		t.Fatalf("sum \"abc 1: got %v", e)
	}
	if _, e := st.Truth(Global, site("if"), values.Int(1)); codeOf(t, e) != WRONG_TYPE {
		t.Fatalf("if 1: got %v", e)
	}
	if _, e := st.Lookup(Global, site("print"), "nothing"); codeOf(t, e) != VARIABLE_NOT_SET {
		t.Fatalf(":nothing: got %v", e)
	}
}

func TestOutputAndStop(t *testing.T) {
	st, _ := newTestState()
	if v := call(t, st, Global, "three", func(st *State, ctx Context) error {
		return st.Output(ctx, values.Int(3))
	}); !values.Equal(v, values.Int(3)) {
		t.Fatalf("output 3: got %v", v)
	}
	if v := call(t, st, Global, "early", func(st *State, ctx Context) error {
		return Stop
	}); !v.IsUnset() {
		t.Fatalf("stop: got %v", v)
	}
	c, _ := st.Enter(Global, "test.logo", "broken", 1, false)
	_, e := st.Invoke(c, func(st *State, ctx Context) error {
		return st.OutputExpected(ctx, site("broken"))
	})
	if codeOf(t, e) != OUTPUT_EXPECTED || !strings.Contains(e.Error(), "broken didn't output") {
		t.Fatalf("falling off a function: got %v", e)
	}
	if len(st.frames) != 1 {
		t.Fatalf("Invoke left %d frames", len(st.frames))
	}
}

func TestStackOverflow(t *testing.T) {
	var out bytes.Buffer
	st := NewState(Options{Out: &out, Err: &out, MaxDepth: 50})
	var recurse Routine
	recurse = func(st *State, ctx Context) error {
		c, e := st.Enter(ctx, "test.logo", "recurse", 1, false)
		if e != nil {
			return e
		}
		_, e = st.Invoke(c, recurse)
		return e
	}
	e := st.Run(recurse)
	if codeOf(t, e) != STACK_OVERFLOW {
		t.Fatalf("wanted stack overflow, got %v", e)
	}
	if st.Catch(Global, e, values.Word("error"), 0) == nil {
		t.Fatal("stack overflow was caught")
	}
}

func TestTest(t *testing.T) {
	st, _ := newTestState()
	call(t, st, Global, "tester", func(st *State, ctx Context) error {
		if _, e := st.Tested(ctx, site("iftrue"), true); codeOf(t, e) != NO_TEST {
			t.Fatalf("iftrue without test: got %v", e)
		}
		if _, e := st.Apply(ctx, site("test"), TestPrim, values.False); e != nil {
			return e
		}
		if b, _ := st.Tested(ctx, site("iffalse"), false); !b {
			t.Fatal("test false should make iffalse run")
		}
		return nil
	})
}

func TestPropertyLists(t *testing.T) {
	st, _ := newTestState()
	st.Apply(Global, site("pprop"), Pprop, values.Word("Turtle"), values.Word("Colour"), values.Word("red"))
	st.Apply(Global, site("pprop"), Pprop, values.Word("turtle"), values.Word("size"), values.Int(3))
	v, _ := st.Apply(Global, site("gprop"), Gprop, values.Word("TURTLE"), values.Word("colour"))
	if !values.Equal(v, values.Word("red")) {
		t.Fatalf("gprop: got %v", v)
	}
	st.Apply(Global, site("remprop"), Remprop, values.Word("turtle"), values.Word("size"))
	v, _ = st.Apply(Global, site("plist"), Plist, values.Word("turtle"))
	if v.String() != "[colour red]" {
		t.Fatalf("plist: got %v", v)
	}
	v, _ = st.Apply(Global, site("gprop"), Gprop, values.Word("nobody"), values.Word("x"))
	if v.String() != "[]" {
		t.Fatalf("gprop of a missing property: got %v", v)
	}
}

func TestPrintAndMain(t *testing.T) {
	st, out := newTestState()
	st.Apply(Global, site("print"), Print, values.List(values.Word("a"), values.List(values.Int(1))), values.Float(2.5))
	st.Apply(Global, site("show"), Show, values.List(values.Word("a")))
	st.Apply(Global, site("type"), Type, values.Word("x"))
	if got := out.String(); got != "a [1] 2.5\n[a]\nx" {
		t.Fatalf("output: got %q", got)
	}

	var buf bytes.Buffer
	status := Main(func(st *State, ctx Context) error {
		return st.Throw(ctx, site("throw"), values.Word("error"), values.Word("went wrong"))
	}, Options{Out: &buf, Err: &buf, Program: "main"})
	if status != 1 || !strings.Contains(buf.String(), "went wrong in main at line 7 of 'test.logo'") {
		t.Fatalf("Main: status %d, output %q", status, buf.String())
	}
}

func TestRegistry(t *testing.T) {
	p, ok := LookupPrimitive("BF")
	if !ok || p.Name != "butfirst" {
		t.Fatal("aliases should find their primitive")
	}
	for _, p := range Primitives {
		if p.Min > p.Def || (p.Max != MANY && p.Def > p.Max) {
			t.Fatalf("%s has a bad arity", p.Name)
		}
		if (p.Fn == nil) != p.Control || (p.Fn != nil && p.GoName == "") {
			t.Fatalf("%s: only control primitives lack a Go function", p.Name)
		}
	}
}

func TestLinked(t *testing.T) {
	st, _ := newTestState()
	if _, e := st.Linked(Global, site("nowhere"), "nowhere"); codeOf(t, e) != NOT_DEFINED {
		t.Fatalf("unregistered procedure: got %v", e)
	}
	Register("Linked.Square", func(st *State, ctx Context) error {
		v, e := st.Lookup(ctx, site("square"), "n")
		if e != nil {
			return e
		}
		sq, e := st.Inline(ctx, site("product"), Product, v, v)
		if e != nil {
			return e
		}
		return st.Output(ctx, sq)
	})
	r, e := st.Linked(Global, site("linked.square"), "LINKED.SQUARE")
	if e != nil {
		t.Fatal(e)
	}
	got := call(t, st, Global, "linked.square", func(st *State, ctx Context) error {
		st.Bind(ctx, "n", values.Int(12))
		return r(st, ctx)
	})
	if !values.Equal(got, values.Int(144)) {
		t.Errorf("linked procedure output %s", got)
	}
	RegisterPrimitive(&Primitive{Name: "linked.twice", Fn: func(st *State, ctx Context, args ...values.Value) (values.Value, error) {
		return values.List(args[0], args[0]), nil
	}, Min: 1, Def: 1, Max: 1, Function: true})
	v, e := st.ApplyLinked(Global, site("linked.twice"), "linked.twice", values.Word("a"))
	if e != nil || v.String() != "[a a]" {
		t.Errorf("linked primitive: got %v, %v", v, e)
	}
	if _, e := st.ApplyLinked(Global, site("linked.none"), "linked.none"); codeOf(t, e) != NOT_DEFINED {
		t.Errorf("unregistered primitive: got %v", e)
	}
	// Names are folded as the compiler folds them, not just lowered.
	Register("Linked.Straße", func(st *State, ctx Context) error { return nil })
	if _, e := st.Linked(Global, site("linked.strasse"), "LINKED.STRASSE"); e != nil {
		t.Errorf("folded lookup of a registered procedure: %v", e)
	}
	RegisterPrimitive(&Primitive{Name: "linked.größe", Fn: func(st *State, ctx Context, args ...values.Value) (values.Value, error) {
		return values.Int(1), nil
	}, Function: true})
	if _, e := st.ApplyLinked(Global, site("linked.grösse"), "LINKED.GRÖSSE"); e != nil {
		t.Errorf("folded lookup of a registered primitive: %v", e)
	}
}
