package compiler

import (
	"github.com/logoc/logoc/source/ast"
)

// The control primitives aren't called: they become Go control flow. Their instruction
// lists have been parsed as code, and are compiled in place.

func (cp *Compiler) control(fc *ast.FunctionCall) {
	switch fc.Decl.Name {
	case "if", "ifelse":
		cp.ifElse(fc)
	case "repeat":
		cp.repeat(fc)
	case "forever":
		cp.forever(fc)
	case "until":
		cp.loopUntil(fc, true)
	case "while":
		cp.loopUntil(fc, false)
	case "catch":
		cp.catch(fc)
	case "throw":
		cp.throw(fc)
	case "tag":
		cp.tag(fc, false)
	case "goto":
		cp.goTo(fc)
	case "output":
		cp.output(fc)
	case "stop":
		cp.stop(fc)
	case "iftrue":
		cp.ifTested(fc, true)
	case "iffalse":
		cp.ifTested(fc, false)
	}
}

// The primitives which control handles. Any other primitive flagged as control is linked
// like any other.
var lowered = map[string]bool{
	"if": true, "ifelse": true, "repeat": true, "forever": true, "until": true, "while": true,
	"catch": true, "throw": true, "tag": true, "goto": true, "output": true, "stop": true,
	"iftrue": true, "iffalse": true,
}

// The instruction list in the given position, if it's written out where it's used.
func (cp *Compiler) body(fc *ast.FunctionCall, i int) ([]ast.Node, bool) {
	ll, ok := fc.Args[i].(*ast.ListLiteral)
	if !ok || !ll.IsCode() {
		cp.Throw("comp/body/literal", fc.Args[i].GetToken(), fc.Decl.Name)
		return nil, false
	}
	return ll.Code, true
}

// A literal condition can be settled now.
func literalTruth(n ast.Node) (bool, bool) {
	b, ok := n.(*ast.BooleanLiteral)
	if !ok {
		return false, false
	}
	return b.Value, true
}

func (cp *Compiler) ifElse(fc *ast.FunctionCall) {
	then, ok := cp.body(fc, 1)
	if !ok {
		return
	}
	var otherwise []ast.Node
	if len(fc.Args) > 2 {
		if otherwise, ok = cp.body(fc, 2); !ok {
			return
		}
	}
	if b, ok := literalTruth(fc.Args[0]); ok {
		if b {
			cp.statements(then, false)
		} else {
			cp.statements(otherwise, false)
		}
		return
	}
	b := cp.truth(fc, fc.Args[0])
	cp.emit("if %s {", b)
	cp.statements(then, false)
	if len(otherwise) > 0 {
		cp.emit("} else {")
		cp.statements(otherwise, false)
	}
	cp.emit("}")
}

// Evaluates the condition and checks that it's a boolean.
func (cp *Compiler) truth(fc *ast.FunctionCall, cond ast.Node) string {
	v := cp.value(cond)
	b := cp.temp("b")
	cp.emit("%s, err := st.Truth(ctx, %s, %s)", b, cp.site(&fc.Token, fc.Decl.Name), v)
	cp.check()
	return b
}

// Each time round, the loop pushes its count, so that REPCOUNT can find it. A loop left
// early leaves its count behind, but that's cleared when the frame goes, or by CATCH or
// GOTO, which truncate the counts to what they were.
func (cp *Compiler) repeat(fc *ast.FunctionCall) {
	body, ok := cp.body(fc, 1)
	if !ok {
		return
	}
	v := cp.value(fc.Args[0])
	n := cp.temp("n")
	cp.emit("%s, err := st.Count(ctx, %s, %s)", n, cp.site(&fc.Token, fc.Decl.Name), v)
	cp.check()
	i := cp.temp("i")
	cp.emit("for %s := int64(1); %s <= %s; %s++ {", i, i, n, i)
	cp.emit("st.PushRepeat(ctx, %s)", i)
	cp.statements(body, false)
	cp.emit("st.PopRepeat(ctx)")
	cp.emit("}")
}

func (cp *Compiler) forever(fc *ast.FunctionCall) {
	body, ok := cp.body(fc, 0)
	if !ok {
		return
	}
	i := cp.temp("i")
	cp.emit("for %s := int64(1); ; %s++ {", i, i)
	cp.emit("st.PushRepeat(ctx, %s)", i)
	cp.statements(body, false)
	cp.emit("st.PopRepeat(ctx)")
	cp.emit("}")
}

// UNTIL stops when the condition is true and WHILE when it's false. The condition is
// tested before each time round.
func (cp *Compiler) loopUntil(fc *ast.FunctionCall, until bool) {
	cond, ok := fc.Args[0].(*ast.ListLiteral)
	if !ok || !cond.IsCode() || len(cond.Code) != 1 {
		cp.Throw("comp/body/literal", fc.Args[0].GetToken(), fc.Decl.Name)
		return
	}
	body, ok := cp.body(fc, 1)
	if !ok {
		return
	}
	if b, ok := literalTruth(cond.Code[0]); ok {
		if b == until {
			return
		}
		cp.emit("for {")
		cp.statements(body, false)
		cp.emit("}")
		return
	}
	cp.emit("for {")
	b := cp.truth(fc, cond.Code[0])
	if until {
		cp.emit("if %s {", b)
	} else {
		cp.emit("if !%s {", b)
	}
	cp.emit("break")
	cp.emit("}")
	cp.statements(body, false)
	cp.emit("}")
}

// The body runs in a closure, so that an error from anywhere in it comes out in one place.
// If the tag matches, the error is kept for ERROR to find and we carry on after the CATCH;
// if not, it goes on up.
func (cp *Compiler) catch(fc *ast.FunctionCall) {
	body, ok := cp.body(fc, 1)
	if !ok {
		return
	}
	tag := cp.value(fc.Args[0])
	d := cp.temp("d")
	cp.emit("%s := st.RepeatDepth(ctx)", d)
	cp.emit("if err := func() error {")
	cp.inCatch++
	cp.statements(body, false)
	cp.inCatch--
	cp.emit("return nil")
	cp.emit("}(); err != nil {")
	cp.emit("if err := st.Catch(ctx, err, %s, %s); err != nil {", tag, d)
	cp.emit("return err")
	cp.emit("}")
	cp.emit("}")
}

func (cp *Compiler) throw(fc *ast.FunctionCall) {
	args := make([]string, len(fc.Args))
	for i, arg := range fc.Args {
		args[i] = cp.value(arg)
	}
	cp.emit("return st.Throw(ctx, %s%s)", cp.site(&fc.Token, fc.Decl.Name), trailing(args))
}

func (cp *Compiler) tag(fc *ast.FunctionCall, top bool) {
	name, ok := cp.labelOf(fc, "tag")
	if !ok {
		cp.Throw("comp/tag/literal", &fc.Token, fc.Decl.Name)
		return
	}
	if !top {
		cp.Throw("comp/tag/nested", &fc.Token)
		return
	}
	key := fold(name)
	if cp.targets.Contains(key) && cp.labels[key] == fc.GetToken() {
		cp.emit("%s:", labelName(name))
	}
}

// A GOTO leaves any loops it's in, so their counts go.
func (cp *Compiler) goTo(fc *ast.FunctionCall) {
	name, ok := cp.labelOf(fc, "goto")
	if !ok {
		cp.Throw("comp/tag/literal", &fc.Token, fc.Decl.Name)
		return
	}
	if cp.inCatch > 0 {
		cp.Throw("comp/goto/catch", &fc.Token)
		return
	}
	if _, ok := cp.labels[fold(name)]; !ok {
		cp.Throw("comp/goto/label", &fc.Token, name, cp.proc.Name())
		return
	}
	cp.emit("st.TruncateRepeats(ctx, 0)")
	cp.emit("goto %s", labelName(name))
}

func (cp *Compiler) output(fc *ast.FunctionCall) {
	if !cp.proc.Decl.IsFunction() {
		cp.Throw("comp/output/procedure", &fc.Token, cp.proc.Name())
		return
	}
	v := cp.value(fc.Args[0])
	cp.emit("return st.Output(ctx, %s)", v)
}

func (cp *Compiler) stop(fc *ast.FunctionCall) {
	if cp.proc.Decl.IsFunction() {
		cp.Throw("comp/stop/function", &fc.Token, cp.proc.Name())
		return
	}
	cp.emit("return rt.Stop")
}

func (cp *Compiler) ifTested(fc *ast.FunctionCall, want bool) {
	body, ok := cp.body(fc, 0)
	if !ok {
		return
	}
	b := cp.temp("b")
	cp.emit("%s, err := st.Tested(ctx, %s, %t)", b, cp.site(&fc.Token, fc.Decl.Name), want)
	cp.check()
	cp.emit("if %s {", b)
	cp.statements(body, false)
	cp.emit("}")
}
