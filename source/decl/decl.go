package decl

import (
	"strconv"
	"strings"

	"github.com/logoc/logoc/source/token"
)

type Flags uint16

const (
	PRIMITIVE Flags = 1 << iota
	USER_PROCEDURE
	FUNCTION
	INLINE
	CONTROL
	ARITHMETIC
	LOGIC
	EXTERNAL // Defined outside Logo, in code linked with the program.
)

// For Max, meaning that there is no limit.
const MANY = -1

type Optional struct {
	Name    string
	Default []token.Token // Parsed when the parser first meets a call.
}

// Everything the parser needs to know about a name to decide how many inputs a call to it
// takes. The arity is a triple: a call must have at least Min inputs and at most Max; a
// call nested in another one takes Def unless it's in parentheses.
type Declaration struct {
	Name       string
	Alias      string
	Required   []string
	Optional   []Optional
	Rest       string
	Min        int
	Def        int
	Max        int
	Flags      Flags
	GoName     string // For primitives, the function in the runtime.
	Bodies     []int  // Positions of inputs which are instruction lists.
	Conditions []int  // Positions of inputs which are lists holding a condition.
	Token      *token.Token
	stamped    bool
}

func (d *Declaration) Is(f Flags) bool {
	return d.Flags&f != 0
}

func (d *Declaration) IsFunction() bool {
	return d.Is(FUNCTION)
}

func (d *Declaration) IsBody(pos int) bool {
	return contains(d.Bodies, pos)
}

func (d *Declaration) IsCondition(pos int) bool {
	return contains(d.Conditions, pos)
}

// The parameters of a procedure in the order its inputs are bound.
func (d *Declaration) Params() []string {
	result := append([]string{}, d.Required...)
	for _, opt := range d.Optional {
		result = append(result, opt.Name)
	}
	if d.Rest != "" {
		result = append(result, d.Rest)
	}
	return result
}

// Works out the arity from the parameters. The default is the number of required
// parameters unless the declaration gives it explicitly.
func (d *Declaration) DeriveArity(def int, explicit bool) {
	d.Min = len(d.Required)
	d.Max = len(d.Required) + len(d.Optional)
	if d.Rest != "" {
		d.Max = MANY
	}
	d.Def = d.Min
	if explicit {
		d.Def = def
	}
}

// Returns an error id and its arguments if the arity makes no sense, or "" if it's fine.
// Once a declaration has passed it is stamped and not checked again.
func (d *Declaration) Check() (string, []any) {
	if d.stamped {
		return "", nil
	}
	if d.Min < 0 || d.Def < d.Min || (d.Max != MANY && d.Def > d.Max) {
		return "decl/arity", []any{d.Name, d.Min, d.Max}
	}
	d.stamped = true
	return "", nil
}

func (d *Declaration) Stamped() bool {
	return d.stamped
}

// Whether two declarations of the same name agree closely enough that the second is
// harmless.
func (d *Declaration) SameAs(e *Declaration) bool {
	const loose = EXTERNAL | LOGIC
	if d.Min != e.Min || d.Def != e.Def || d.Max != e.Max || d.Flags&^loose != e.Flags&^loose {
		return false
	}
	// Primitives take their inputs by position.
	if d.Is(PRIMITIVE) {
		return true
	}
	// Callers bind the inputs of procedures by name, so the names have to agree too.
	mine, theirs := d.Params(), e.Params()
	if len(mine) != len(theirs) {
		return false
	}
	for i := range mine {
		if !strings.EqualFold(mine[i], theirs[i]) {
			return false
		}
	}
	return true
}

func (d *Declaration) AcceptsMore(n int) bool {
	return d.Max == MANY || n < d.Max
}

func (d *Declaration) String() string {
	max := "many"
	if d.Max != MANY {
		max = strconv.Itoa(d.Max)
	}
	return d.Name + " (" + strconv.Itoa(d.Min) + ", " + strconv.Itoa(d.Def) + ", " + max + ")"
}

func contains(positions []int, pos int) bool {
	for _, p := range positions {
		if p == pos {
			return true
		}
	}
	return false
}
