package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/logoc/logoc/source/ast"
	"github.com/logoc/logoc/source/decl"
	"github.com/logoc/logoc/source/dtypes"
	"github.com/logoc/logoc/source/err"
	"github.com/logoc/logoc/source/settings"
	"github.com/logoc/logoc/source/text"
	"github.com/logoc/logoc/source/token"
)

// The compiler turns a parsed program into the text of a Go file. Each routine becomes a
// Go function taking the runtime state and a context; each statement of it becomes a
// block of Go, so that the Go labels which TAG lowers to are only ever at the top level
// of a function, with no declarations for a GOTO to jump over.
type Compiler struct {

	// Temporary state: things that are used to compile one routine.

	proc    *ast.Procedure
	temps   int
	labels  map[string]*token.Token // The folded names of the routine's tags.
	targets dtypes.Set[string]      // The labels something jumps to.
	inCatch int

	// Permanent state.

	prog   *ast.Program
	opts   Options
	out    strings.Builder
	Errors err.Errors
}

type Options struct {
	ObjectOnly bool   // Emit a package to be linked into another program, rather than one with a main.
	Package    string // The name of that package. By default it comes from the name of the program.
	Trace      bool
}

func New(prog *ast.Program, opts Options) *Compiler {
	cp := &Compiler{
		prog:   prog,
		opts:   opts,
		Errors: []*err.Error{},
	}
	return cp
}

// Compiles the program and returns it as formatted Go source. If there are errors the
// result is nil and they're in cp.Errors.
func (cp *Compiler) Compile() []byte {
	cp.preamble()
	cp.routine(cp.prog.Entry, ENTRY)
	for _, proc := range cp.prog.Procedures {
		cp.routine(proc, RoutineName(proc.Name()))
	}
	if cp.ErrorsExist() {
		return nil
	}
	src := []byte(cp.out.String())
	formatted, e := imports.Process(cp.filename(), src, &imports.Options{FormatOnly: true, Comments: true, TabIndent: true, TabWidth: 8})
	if e != nil {
		if settings.SHOW_COMPILER {
			println(string(src))
		}
		cp.Throw("comp/emit", &token.Token{Source: cp.filename()}, e)
		return nil
	}
	if settings.SHOW_COMPILER {
		println(string(formatted))
	}
	return formatted
}

// Convenience function for when nothing but the result is wanted.
func Compile(prog *ast.Program, opts Options) ([]byte, err.Errors) {
	cp := New(prog, opts)
	result := cp.Compile()
	return result, cp.Errors
}

func (cp *Compiler) PackageName() string {
	if !cp.opts.ObjectOnly {
		return "main"
	}
	if cp.opts.Package != "" {
		return cp.opts.Package
	}
	return text.FlattenedFilename(cp.prog.Name)
}

func (cp *Compiler) filename() string {
	return text.FlattenedFilename(cp.prog.Name) + ".go"
}

func (cp *Compiler) preamble() {
	cp.emit("// Code generated by logoc from %s. DO NOT EDIT.", cp.prog.Name)
	cp.emit("")
	cp.emit("package %s", cp.PackageName())
	cp.emit("")
	cp.emit("import (")
	if !cp.opts.ObjectOnly {
		cp.emit(`"os"`)
		cp.emit("")
	}
	cp.emit("rt %q", settings.RUNTIME_PATH)
	cp.emit("values %q", settings.VALUES_PATH)
	cp.emit(")")
	cp.emit("")
	// Not every program has a literal in it.
	cp.emit("var _ values.Value")
	cp.emit("")
	if !cp.opts.ObjectOnly {
		cp.emit("func main() {")
		cp.emit("os.Exit(rt.Main(%s, rt.Options{Trace: %t, Program: %q}))", ENTRY, cp.opts.Trace, cp.prog.Name)
		cp.emit("}")
		cp.emit("")
		return
	}
	// A library exports its entry and its procedures, and registers the procedures so that
	// programs which declare them can find them.
	cp.emit("var Entry rt.Routine = %s", ENTRY)
	cp.emit("")
	cp.emit("var Routines = map[string]rt.Routine{")
	for _, proc := range cp.prog.Procedures {
		cp.emit("%q: %s,", proc.Name(), RoutineName(proc.Name()))
	}
	cp.emit("}")
	cp.emit("")
	cp.emit("func init() {")
	cp.emit("for name, r := range Routines {")
	cp.emit("rt.Register(name, r)")
	cp.emit("}")
	cp.emit("}")
	cp.emit("")
}

func (cp *Compiler) routine(proc *ast.Procedure, goName string) {
	cp.proc = proc
	cp.temps = 0
	cp.inCatch = 0
	cp.findLabels(proc.Body)
	cp.emit("// %s", oneLine(proc.Decl.String()))
	cp.emit("func %s(st *rt.State, ctx rt.Context) error {", goName)
	cp.prologue(proc)
	cp.statements(proc.Body, true)
	if proc.Decl.IsFunction() {
		cp.emit("return st.OutputExpected(ctx, %s)", cp.site(proc.Token, proc.Name()))
	} else {
		cp.emit("return nil")
	}
	cp.emit("}")
	cp.emit("")
}

// The caller binds the optional inputs it supplies. Those it doesn't get their defaults,
// which are evaluated in the callee's context so that they can refer to the inputs before
// them.
func (cp *Compiler) prologue(proc *ast.Procedure) {
	d := proc.Decl
	for i, opt := range d.Optional {
		if i >= len(proc.Defaults) || proc.Defaults[i] == nil {
			break
		}
		cp.emit("if !st.IsBound(ctx, %q) {", opt.Name)
		v := cp.value(proc.Defaults[i])
		cp.emit("st.Bind(ctx, %q, %s)", opt.Name, v)
		cp.emit("}")
	}
	if d.Rest != "" {
		cp.emit("if !st.IsBound(ctx, %q) {", d.Rest)
		cp.emit("st.Bind(ctx, %q, values.EmptyList)", d.Rest)
		cp.emit("}")
	}
}

// Every TAG at the top level of the body gives a label. Labels nothing jumps to aren't
// emitted, since Go won't have them.
func (cp *Compiler) findLabels(body []ast.Node) {
	cp.labels = map[string]*token.Token{}
	cp.targets = dtypes.Set[string]{}
	for _, stmt := range body {
		if name, ok := cp.labelOf(stmt, "tag"); ok {
			key := fold(name)
			if _, dup := cp.labels[key]; dup {
				cp.Throw("comp/tag/duplicate", stmt.GetToken(), name, cp.proc.Name())
				continue
			}
			cp.labels[key] = stmt.GetToken()
		}
	}
	for _, stmt := range body {
		ast.Inspect(stmt, func(n ast.Node) bool {
			if name, ok := cp.labelOf(n, "goto"); ok {
				cp.targets.Add(fold(name))
			}
			return true
		})
	}
}

// If the node is a call to the given one of TAG and GOTO with a quoted word, returns the word.
func (cp *Compiler) labelOf(n ast.Node, primitive string) (string, bool) {
	fc, ok := n.(*ast.FunctionCall)
	if !ok || !fc.Is(decl.CONTROL) || fc.Decl.Name != primitive || len(fc.Args) != 1 {
		return "", false
	}
	qw, ok := fc.Args[0].(*ast.QuotedWord)
	if !ok {
		return "", false
	}
	return qw.Value, true
}

func (cp *Compiler) statements(stmts []ast.Node, top bool) {
	for _, stmt := range stmts {
		if settings.SHOW_COMPILER_COMMENTS {
			cp.emit("// %s", oneLine(stmt.String()))
		}
		if fc, ok := stmt.(*ast.FunctionCall); ok && fc.Is(decl.CONTROL) && fc.Decl.Name == "tag" && fc.Decl.GoName == "" {
			cp.tag(fc, top)
			continue
		}
		cp.emit("{")
		cp.statement(stmt)
		cp.emit("}")
	}
}

func (cp *Compiler) statement(stmt ast.Node) {
	fc, ok := stmt.(*ast.FunctionCall)
	if !ok {
		err.Internal("can't compile a %T as a statement", stmt)
	}
	cp.call(fc, false)
}

// Lowers the expression, emitting whatever it needs done first, and returns the Go
// expression for its value.
func (cp *Compiler) value(n ast.Node) string {
	switch n := n.(type) {
	case *ast.BooleanLiteral:
		if n.Value {
			return "values.True"
		}
		return "values.False"
	case *ast.FloatLiteral:
		return "values.Float(" + strconv.FormatFloat(n.Value, 'g', -1, 64) + ")"
	case *ast.FunctionCall:
		return cp.call(n, true)
	case *ast.IntegerLiteral:
		return "values.Int(" + strconv.FormatInt(n.Value, 10) + ")"
	case *ast.ListLiteral:
		return cp.list(n)
	case *ast.QuotedWord:
		return "values.Word(" + strconv.Quote(n.Value) + ")"
	case *ast.ThingReference:
		t := cp.temp("t")
		cp.emit("%s, err := st.Lookup(ctx, %s, %q)", t, cp.site(&n.Token, ""), n.Name)
		cp.check()
		return t
	case *ast.Word:
		return "values.Word(" + strconv.Quote(n.Value) + ")"
	}
	err.Internal("can't compile a %T as a value", n)
	return ""
}

// A list as data, whether or not it was also parsed as code.
func (cp *Compiler) list(ll *ast.ListLiteral) string {
	if len(ll.Items) == 0 {
		return "values.EmptyList"
	}
	items := make([]string, len(ll.Items))
	for i, item := range ll.Items {
		items[i] = cp.value(item)
	}
	return "values.List(" + strings.Join(items, ", ") + ")"
}

// Lowers a call. If its value is wanted the result is the temporary holding it.
func (cp *Compiler) call(fc *ast.FunctionCall, wanted bool) string {
	d := fc.Decl
	if fc.Incomplete {
		cp.Throw("comp/args/few", &fc.Token, d.Name, d.Min)
		return "values.Unset"
	}
	if d.Is(decl.PRIMITIVE) && d.Is(decl.CONTROL) && lowered[d.Name] {
		cp.control(fc)
		return ""
	}
	args := make([]string, len(fc.Args))
	for i, arg := range fc.Args {
		args[i] = cp.value(arg)
	}
	result := "_"
	if wanted {
		result = cp.temp("t")
	}
	site := cp.site(&fc.Token, d.Name)
	switch {
	case d.Is(decl.PRIMITIVE) && d.GoName != "":
		method := "Apply"
		if d.Is(decl.INLINE) {
			method = "Inline"
		}
		cp.callAndCheck(result, fmt.Sprintf("st.%s(ctx, %s, rt.%s%s)", method, site, d.GoName, trailing(args)))
	case d.Is(decl.PRIMITIVE):
		cp.callAndCheck(result, fmt.Sprintf("st.ApplyLinked(ctx, %s, %q%s)", site, d.Name, trailing(args)))
	default:
		cp.invoke(fc, args, result)
	}
	return result
}

// A call of a procedure gets a context of its own, in which its inputs are bound by name.
// A procedure which is declared but has no body here is found at run time.
func (cp *Compiler) invoke(fc *ast.FunctionCall, args []string, result string) {
	d := fc.Decl
	routine := RoutineName(d.Name)
	if _, ok := cp.prog.Lookup(d.Name); !ok {
		routine = cp.temp("r")
		cp.emit("%s, err := st.Linked(ctx, %s, %q)", routine, cp.site(&fc.Token, d.Name), d.Name)
		cp.check()
	}
	c := cp.temp("c")
	cp.emit("%s, err := st.Enter(ctx, %q, %q, %d, false)", c, fc.Token.Source, d.Name, fc.Token.Line)
	cp.check()
	params := d.Params()
	fixed := len(d.Required) + len(d.Optional)
	for i, arg := range args {
		if i < fixed {
			cp.emit("st.Bind(%s, %q, %s)", c, params[i], arg)
		}
	}
	if d.Rest != "" && len(args) > fixed {
		cp.emit("st.Bind(%s, %q, values.List(%s))", c, d.Rest, strings.Join(args[fixed:], ", "))
	}
	cp.callAndCheck(result, fmt.Sprintf("st.Invoke(%s, %s)", c, routine))
}

func (cp *Compiler) callAndCheck(result, call string) {
	if result == "_" {
		cp.emit("if _, err := %s; err != nil {", call)
		cp.emit("return err")
		cp.emit("}")
		return
	}
	cp.emit("%s, err := %s", result, call)
	cp.check()
}

// Emitters.

func (cp *Compiler) emit(format string, args ...any) {
	fmt.Fprintf(&cp.out, format, args...)
	cp.out.WriteByte('\n')
}

func (cp *Compiler) check() {
	cp.emit("if err != nil {")
	cp.emit("return err")
	cp.emit("}")
}

func (cp *Compiler) temp(prefix string) string {
	cp.temps++
	return prefix + strconv.Itoa(cp.temps)
}

func (cp *Compiler) site(tok *token.Token, name string) string {
	if tok == nil {
		return fmt.Sprintf("rt.Site{Name: %q}", name)
	}
	return fmt.Sprintf("rt.Site{File: %q, Line: %d, Name: %q}", tok.Source, tok.Line, name)
}

func trailing(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return ", " + strings.Join(args, ", ")
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

func (cp *Compiler) Throw(errorID string, tok *token.Token, args ...any) {
	cp.Errors = err.Throw(errorID, cp.Errors, tok, args...)
}

func (cp *Compiler) ErrorsExist() bool {
	return len(cp.Errors) > 0
}

func (cp *Compiler) ReturnErrors() string {
	return err.GetList(cp.Errors)
}
