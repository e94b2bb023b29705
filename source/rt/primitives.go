package rt

import (
	"golang.org/x/text/cases"

	"github.com/logoc/logoc/source/values"
)

type PrimitiveFunc func(st *State, ctx Context, args ...values.Value) (values.Value, error)

// For Max, meaning that a primitive takes any number of inputs.
const MANY = -1

// The compiler seeds its declaration table from this. Control primitives have no Fn,
// since the compiler turns them into Go control flow rather than calls.
type Primitive struct {
	Name       string
	Alias      string
	GoName     string // What generated code calls it by, as rt.<GoName>.
	Fn         PrimitiveFunc
	Min        int
	Def        int
	Max        int
	Function   bool
	Inline     bool
	Control    bool
	Arithmetic bool
	Bodies     []int // The positions of inputs which are instruction lists.
	Conditions []int // The positions of inputs which are lists holding one expression.
}

var Primitives = []*Primitive{
	// Control
	{Name: "if", Min: 2, Def: 2, Max: 3, Control: true, Bodies: []int{1, 2}},
	{Name: "ifelse", Min: 3, Def: 3, Max: 3, Control: true, Bodies: []int{1, 2}},
	{Name: "repeat", Min: 2, Def: 2, Max: 2, Control: true, Bodies: []int{1}},
	{Name: "forever", Min: 1, Def: 1, Max: 1, Control: true, Bodies: []int{0}},
	{Name: "until", Min: 2, Def: 2, Max: 2, Control: true, Bodies: []int{1}, Conditions: []int{0}},
	{Name: "while", Min: 2, Def: 2, Max: 2, Control: true, Bodies: []int{1}, Conditions: []int{0}},
	{Name: "catch", Min: 2, Def: 2, Max: 2, Control: true, Bodies: []int{1}},
	{Name: "throw", Min: 1, Def: 1, Max: 2, Control: true},
	{Name: "tag", Min: 1, Def: 1, Max: 1, Control: true},
	{Name: "goto", Min: 1, Def: 1, Max: 1, Control: true},
	{Name: "output", Alias: "op", Min: 1, Def: 1, Max: 1, Control: true},
	{Name: "stop", Min: 0, Def: 0, Max: 0, Control: true},
	{Name: "iftrue", Alias: "ift", Min: 1, Def: 1, Max: 1, Control: true, Bodies: []int{0}},
	{Name: "iffalse", Alias: "iff", Min: 1, Def: 1, Max: 1, Control: true, Bodies: []int{0}},

	// Arithmetic
	{Name: "sum", GoName: "Sum", Fn: Sum, Min: 2, Def: 2, Max: MANY, Function: true, Inline: true, Arithmetic: true},
	{Name: "difference", GoName: "Difference", Fn: Difference, Min: 2, Def: 2, Max: 2, Function: true, Inline: true, Arithmetic: true},
	{Name: "product", GoName: "Product", Fn: Product, Min: 2, Def: 2, Max: MANY, Function: true, Inline: true, Arithmetic: true},
	{Name: "quotient", GoName: "Quotient", Fn: Quotient, Min: 1, Def: 2, Max: 2, Function: true, Inline: true, Arithmetic: true},
	{Name: "remainder", GoName: "Remainder", Fn: Remainder, Min: 2, Def: 2, Max: 2, Function: true, Inline: true, Arithmetic: true},
	{Name: "minus", GoName: "Minus", Fn: Minus, Min: 1, Def: 1, Max: 1, Function: true, Inline: true, Arithmetic: true},
	{Name: "sqrt", GoName: "Sqrt", Fn: Sqrt, Min: 1, Def: 1, Max: 1, Function: true, Arithmetic: true},

	// Comparison and logic
	{Name: "equalp", GoName: "Equalp", Fn: Equalp, Min: 2, Def: 2, Max: 2, Function: true, Inline: true},
	{Name: "notequalp", GoName: "Notequalp", Fn: Notequalp, Min: 2, Def: 2, Max: 2, Function: true, Inline: true},
	{Name: "lessp", GoName: "Lessp", Fn: Lessp, Min: 2, Def: 2, Max: 2, Function: true, Inline: true, Arithmetic: true},
	{Name: "greaterp", GoName: "Greaterp", Fn: Greaterp, Min: 2, Def: 2, Max: 2, Function: true, Inline: true, Arithmetic: true},
	{Name: "lessequalp", GoName: "Lessequalp", Fn: Lessequalp, Min: 2, Def: 2, Max: 2, Function: true, Inline: true, Arithmetic: true},
	{Name: "greaterequalp", GoName: "Greaterequalp", Fn: Greaterequalp, Min: 2, Def: 2, Max: 2, Function: true, Inline: true, Arithmetic: true},
	{Name: "and", GoName: "And", Fn: And, Min: 2, Def: 2, Max: MANY, Function: true},
	{Name: "or", GoName: "Or", Fn: Or, Min: 2, Def: 2, Max: MANY, Function: true},
	{Name: "not", GoName: "Not", Fn: Not, Min: 1, Def: 1, Max: 1, Function: true},

	// Variables
	{Name: "make", GoName: "Make", Fn: Make, Min: 2, Def: 2, Max: 2},
	{Name: "name", GoName: "Name", Fn: Name, Min: 2, Def: 2, Max: 2},
	{Name: "local", GoName: "Local", Fn: Local, Min: 1, Def: 1, Max: MANY},
	{Name: "global", GoName: "GlobalVar", Fn: GlobalVar, Min: 1, Def: 1, Max: MANY},
	{Name: "thing", GoName: "ThingOf", Fn: ThingOf, Min: 1, Def: 1, Max: 1, Function: true},

	// Loops, errors, and TEST
	{Name: "repcount", GoName: "Repcount", Fn: Repcount, Min: 0, Def: 0, Max: 0, Function: true},
	{Name: "error", GoName: "ErrorInfo", Fn: ErrorInfo, Min: 0, Def: 0, Max: 0, Function: true},
	{Name: "test", GoName: "TestPrim", Fn: TestPrim, Min: 1, Def: 1, Max: 1},

	// Property lists
	{Name: "pprop", GoName: "Pprop", Fn: Pprop, Min: 3, Def: 3, Max: 3},
	{Name: "gprop", GoName: "Gprop", Fn: Gprop, Min: 2, Def: 2, Max: 2, Function: true},
	{Name: "remprop", GoName: "Remprop", Fn: Remprop, Min: 2, Def: 2, Max: 2},
	{Name: "plist", GoName: "Plist", Fn: Plist, Min: 1, Def: 1, Max: 1, Function: true},

	// Lists
	{Name: "list", GoName: "ListOf", Fn: ListOf, Min: 2, Def: 2, Max: MANY, Function: true},
	{Name: "first", GoName: "First", Fn: First, Min: 1, Def: 1, Max: 1, Function: true},
	{Name: "butfirst", Alias: "bf", GoName: "Butfirst", Fn: Butfirst, Min: 1, Def: 1, Max: 1, Function: true},
	{Name: "fput", GoName: "Fput", Fn: Fput, Min: 2, Def: 2, Max: 2, Function: true},
	{Name: "lput", GoName: "Lput", Fn: Lput, Min: 2, Def: 2, Max: 2, Function: true},
	{Name: "count", GoName: "CountOf", Fn: CountOf, Min: 1, Def: 1, Max: 1, Function: true},
	{Name: "emptyp", GoName: "Emptyp", Fn: Emptyp, Min: 1, Def: 1, Max: 1, Function: true},

	// Output
	{Name: "print", Alias: "pr", GoName: "Print", Fn: Print, Min: 1, Def: 1, Max: MANY},
	{Name: "show", GoName: "Show", Fn: Show, Min: 1, Def: 1, Max: MANY},
	{Name: "type", GoName: "Type", Fn: Type, Min: 1, Def: 1, Max: MANY},
}

var primitiveIndex = map[string]*Primitive{}

// Two primitives with the same name or alias would be a bug in this file, so it's caught
// as soon as anything links against the runtime.
func init() {
	for _, p := range Primitives {
		for _, name := range []string{p.Name, p.Alias} {
			if name == "" {
				continue
			}
			name = Fold(name)
			if _, ok := primitiveIndex[name]; ok {
				panic("rt: primitive " + name + " is registered twice")
			}
			primitiveIndex[name] = p
		}
	}
}

// Folds a name the way the compiler's declaration table does, so that what it resolves
// and what is registered here agree.
func Fold(name string) string {
	return cases.Fold().String(name)
}

func LookupPrimitive(name string) (*Primitive, bool) {
	p, ok := primitiveIndex[Fold(name)]
	return p, ok
}
