package compiler_test

import (
	goparser "go/parser"
	gotoken "go/token"
	"strings"
	"testing"

	"github.com/logoc/logoc/source/compiler"
	"github.com/logoc/logoc/source/err"
	"github.com/logoc/logoc/source/parser"
	"github.com/logoc/logoc/source/test_helper"
)

// Each test compiles the program and checks that the Go has the fragments wanted in it.
type loweringTest struct {
	input string
	want  []string
}

func TestLowering(t *testing.T) {
	tests := []loweringTest{
		{`print sum 1 2 3`, []string{
			`t1, err := st.Inline(ctx, rt.Site{File: "test", Line: 1, Name: "sum"}, rt.Sum, values.Int(1), values.Int(2))`,
			`if _, err := st.Apply(ctx, rt.Site{File: "test", Line: 1, Name: "print"}, rt.Print, t1, values.Int(3)); err != nil {`,
		}},
		{`pr [a [b 2.5] "c]`, []string{
			`values.List(values.Word("a"), values.List(values.Word("b"), values.Float(2.5)), values.Word("\"c"))`,
		}},
		{`print []`, []string{`rt.Print, values.EmptyList)`}},
		{`make "x true print :x`, []string{
			`rt.Make, values.Word("x"), values.True)`,
			`t1, err := st.Lookup(ctx, rt.Site{File: "test", Line: 1, Name: ""}, "x")`,
		}},
		{"to square :side\nrepeat 4 [print :side]\nend\nsquare 10", []string{
			`func logo_square(st *rt.State, ctx rt.Context) error {`,
			`c1, err := st.Enter(ctx, "test", "square", 4, false)`,
			`st.Bind(c1, "side", values.Int(10))`,
			`if _, err := st.Invoke(c1, logo_square); err != nil {`,
			`n1, err := st.Count(ctx, rt.Site{File: "test", Line: 2, Name: "repeat"}, values.Int(4))`,
			`for i2 := int64(1); i2 <= n1; i2++ {`,
			`st.PushRepeat(ctx, i2)`,
			`st.PopRepeat(ctx)`,
		}},
		{"to double :x\noutput :x * 2\nend\nprint double 3", []string{
			`t2, err := st.Inline(ctx, rt.Site{File: "test", Line: 2, Name: "product"}, rt.Product, t1, values.Int(2))`,
			`return st.Output(ctx, t2)`,
			`return st.OutputExpected(ctx, rt.Site{File: "test", Line: 1, Name: "double"})`,
			`t1, err := st.Invoke(c2, logo_double)`,
		}},
		{"to stopper\nstop\nend\nstopper", []string{`return rt.Stop`}},
		{`ifelse 1 < 2 [print "yes] [print "no]`, []string{
			`b2, err := st.Truth(ctx, rt.Site{File: "test", Line: 1, Name: "ifelse"}, t1)`,
			`if b2 {`,
			`} else {`,
		}},
		{`forever [print repcount]`, []string{
			`for i1 := int64(1); ; i1++ {`,
			`t2, err := st.Apply(ctx, rt.Site{File: "test", Line: 1, Name: "repcount"}, rt.Repcount)`,
		}},
		{"make \"i 0\nuntil [:i > 3] [make \"i :i + 1]", []string{
			`b3, err := st.Truth(ctx, rt.Site{File: "test", Line: 2, Name: "until"}, t2)`,
			`if b3 {`,
			`break`,
		}},
		{"make \"i 0\nwhile [:i < 3] [make \"i :i + 1]", []string{`if !b3 {`}},
		{`while [true] [print 1]`, []string{"for {"}},
		{`catch "oops [throw "oops]`, []string{
			`d1 := st.RepeatDepth(ctx)`,
			`if err := func() error {`,
			`return st.Throw(ctx, rt.Site{File: "test", Line: 1, Name: "throw"}, values.Word("oops"))`,
			`if err := st.Catch(ctx, err, values.Word("oops"), d1); err != nil {`,
		}},
		{`throw "error [went wrong]`, []string{
			`values.Word("error"), values.List(values.Word("went"), values.Word("wrong")))`,
		}},
		{"tag \"top\nprint 1\ngoto \"TOP", []string{
			`tag_top:`,
			`st.TruncateRepeats(ctx, 0)`,
			`goto tag_top`,
		}},
		{`test 1 = 1 iftrue [print "yes] iffalse [print "no]`, []string{
			`rt.TestPrim, t1)`,
			`b2, err := st.Tested(ctx, rt.Site{File: "test", Line: 1, Name: "iftrue"}, true)`,
			`b3, err := st.Tested(ctx, rt.Site{File: "test", Line: 1, Name: "iffalse"}, false)`,
		}},
		{"declare forward :distance\nforward 10", []string{
			`r1, err := st.Linked(ctx, rt.Site{File: "test", Line: 2, Name: "forward"}, "forward")`,
			`st.Bind(c2, "distance", values.Int(10))`,
			`if _, err := st.Invoke(c2, r1); err != nil {`,
		}},
		{"primitive beep\nbeep", []string{
			`if _, err := st.ApplyLinked(ctx, rt.Site{File: "test", Line: 2, Name: "beep"}, "beep"); err != nil {`,
		}},
		{"to poly :n [:size 10] [:more]\nprint :size\nend\n(poly 3 4 5 6)", []string{
			`if !st.IsBound(ctx, "size") {`,
			`st.Bind(ctx, "size", values.Int(10))`,
			`st.Bind(ctx, "more", values.EmptyList)`,
			`st.Bind(c1, "size", values.Int(4))`,
			`st.Bind(c1, "more", values.List(values.Int(5), values.Int(6)))`,
		}},
		{"program hello\nprint 1", []string{
			`package main`,
			`os.Exit(rt.Main(logoEntry, rt.Options{Trace: false, Program: "hello"}))`,
		}},
	}
	for _, test := range tests {
		got := compile(t, compiler.Options{}, test.input)
		for _, want := range test.want {
			if !strings.Contains(got, want) {
				t.Fatalf("Compiling %q: wanted\n%s\nin\n%s", test.input, want, got)
			}
		}
	}
}

func TestFolding(t *testing.T) {
	for _, input := range []string{`if true [print 1]`, `if false [print 0] [print 1]`, `until [false] [print 1]`} {
		got := compile(t, compiler.Options{}, input)
		if strings.Contains(got, "st.Truth") || !strings.Contains(got, "rt.Print") {
			t.Fatalf("Compiling %q: the condition should have been folded:\n%s", input, got)
		}
	}
	got := compile(t, compiler.Options{}, `until [true] [print 1]`)
	if strings.Contains(got, "rt.Print") {
		t.Fatalf("until [true] should compile to nothing:\n%s", got)
	}
}

func TestUnusedTagsArentEmitted(t *testing.T) {
	got := compile(t, compiler.Options{}, "tag \"unused\nprint 1")
	if strings.Contains(got, "tag_unused") {
		t.Fatalf("a tag nothing jumps to was emitted:\n%s", got)
	}
}

func TestObjectOnly(t *testing.T) {
	got := compile(t, compiler.Options{ObjectOnly: true, Package: "shapes"}, "to square :s\nprint :s\nend")
	for _, want := range []string{`package shapes`, `var Entry rt.Routine = logoEntry`, `"square": logo_square,`, `rt.Register(name, r)`} {
		if !strings.Contains(got, want) {
			t.Fatalf("wanted %s in\n%s", want, got)
		}
	}
	if strings.Contains(got, "func main()") || strings.Contains(got, `"os"`) {
		t.Fatalf("a library shouldn't have a main:\n%s", got)
	}
	got = compile(t, compiler.Options{ObjectOnly: true}, "program Turtle_Shapes\nprint 1")
	if !strings.Contains(got, "package turtleshapes") {
		t.Fatalf("the package should be named after the program:\n%s", got)
	}
}

func TestProceduresAcrossFiles(t *testing.T) {
	got := compile(t, compiler.Options{}, "declare twice :x [function]\nprint twice 2", "to twice :x\noutput :x * 2\nend")
	if !strings.Contains(got, "st.Invoke(c2, logo_twice)") || strings.Contains(got, "st.Linked") {
		t.Fatalf("a procedure defined in another file should be called directly:\n%s", got)
	}
}

func TestRoutineName(t *testing.T) {
	tests := []test_helper.TestItem{
		{`square`, `logo_square`},
		{`Square`, `logo_square`},
		{`draw.box`, `logo_draw_x2E_box`},
		{`a_b`, `logo_a_x5F_b`},
		{`bête`, `logo_b_xEA_te`},
		{`2x`, `logo_2x`},
	}
	for _, test := range tests {
		if got := compiler.RoutineName(test.Input); got != test.Want {
			t.Fatalf("RoutineName(%q): wanted %s, got %s", test.Input, test.Want, got)
		}
	}
}

func TestCompilerErrors(t *testing.T) {
	tests := []test_helper.TestItem{
		{`print 1`, `OK`},
		{`output 1`, `comp/output/procedure`},
		{"to f\noutput 1\nstop\nend", `comp/stop/function`},
		{`goto "nowhere`, `comp/goto/label`},
		{"tag \"a\ncatch \"x [goto \"a]", `comp/goto/catch`},
		{`repeat 2 [tag "a]`, `comp/tag/nested`},
		{"tag \"a\ntag \"A", `comp/tag/duplicate`},
		{`tag :x`, `comp/tag/literal`},
		{`goto first [a]`, `comp/tag/literal`},
		{"make \"b [print 1]\nrepeat 2 :b", `comp/body/literal`},
		{`until "true [print 1]`, `comp/body/literal`},
		{"declare forward :d\nrepeat 2 [forward]", `comp/args/few`},
	}
	test_helper.RunTest(t, "", tests, testCompilerErrors)
}

func testCompilerErrors(p *parser.Parser, s string) (string, error) {
	p.AddSource("test", s)
	prog := p.Parse()
	if p.ErrorsExist() {
		return "parser: " + p.Errors[0].ErrorId, p.Errors[0]
	}
	_, errs := compiler.Compile(prog, compiler.Options{})
	if len(errs) == 0 {
		return "OK", nil
	}
	return errs[0].ErrorId, nil
}

// Compiles the sources, which are all called "test", and checks that the result is Go.
func compile(t *testing.T, opts compiler.Options, sources ...string) string {
	t.Helper()
	p := parser.New()
	for _, source := range sources {
		p.AddSource("test", source)
	}
	prog := p.Parse()
	if p.ErrorsExist() {
		t.Fatal("parser errors:\n" + p.ReturnErrors())
	}
	src, errs := compiler.Compile(prog, opts)
	if len(errs) > 0 {
		t.Fatal("compiler errors:\n" + err.GetList(errs))
	}
	if _, e := goparser.ParseFile(gotoken.NewFileSet(), "test.go", src, goparser.AllErrors); e != nil {
		t.Fatalf("the output isn't valid Go: %v\n%s", e, src)
	}
	return string(src)
}
