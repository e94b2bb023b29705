package decl

import (
	"golang.org/x/text/cases"

	"github.com/logoc/logoc/source/err"
	"github.com/logoc/logoc/source/rt"
)

// The declaration table maps names and aliases, without regard to case, to declarations.
// Pass 1 of the parser fills it, and then it's sealed: from then on it can be consulted
// but not changed.
type Table struct {
	entries map[string]*Declaration
	order   []*Declaration
	sealed  bool
	folder  cases.Caser
}

func NewTable() *Table {
	return &Table{entries: map[string]*Declaration{}, folder: cases.Fold()}
}

// A table holding the primitives of the runtime.
func Builtins() *Table {
	t := NewTable()
	for _, p := range rt.Primitives {
		d := &Declaration{Name: p.Name, Alias: p.Alias, GoName: p.GoName, Min: p.Min, Def: p.Def, Max: p.Max,
			Flags: PRIMITIVE, Bodies: p.Bodies, Conditions: p.Conditions}
		if p.Max == rt.MANY {
			d.Max = MANY
		}
		for _, f := range []struct {
			on   bool
			flag Flags
		}{{p.Function, FUNCTION}, {p.Inline, INLINE}, {p.Control, CONTROL}, {p.Arithmetic, ARITHMETIC}} {
			if f.on {
				d.Flags |= f.flag
			}
		}
		if _, id, _ := t.Define(d); id != "" {
			err.Internal("the runtime's declaration of %s is invalid: %s", p.Name, id)
		}
	}
	return t
}

func (t *Table) Key(name string) string {
	return t.folder.String(name)
}

// Adds the declaration under its name and alias. If either is taken by a declaration
// which agrees with it, nothing changes and the existing one is returned, so that it and
// this one can be used interchangeably; if by one which doesn't, the result is an error
// id and its arguments.
func (t *Table) Define(d *Declaration) (*Declaration, string, []any) {
	if t.sealed {
		err.Internal("declaration of %s after the declaration table was sealed", d.Name)
	}
	if id, args := d.Check(); id != "" {
		return nil, id, args
	}
	for _, name := range []string{d.Name, d.Alias} {
		if name == "" {
			continue
		}
		if existing, ok := t.entries[t.Key(name)]; ok {
			if existing == d || existing.SameAs(d) {
				return existing, "", nil
			}
			return existing, "decl/redeclared", []any{name}
		}
	}
	t.entries[t.Key(d.Name)] = d
	if d.Alias != "" {
		t.entries[t.Key(d.Alias)] = d
	}
	t.order = append(t.order, d)
	return d, "", nil
}

// For use while the table is being built.
func (t *Table) Lookup(name string) (*Declaration, bool) {
	d, ok := t.entries[t.Key(name)]
	return d, ok
}

func (t *Table) Seal() {
	t.sealed = true
}

func (t *Table) Sealed() bool {
	return t.sealed
}

// For use once the table is complete. Resolving a name before then would give an answer
// that a later declaration could change, so it's an internal error.
func (t *Table) Resolve(name string) (*Declaration, bool) {
	if !t.sealed {
		err.Internal("tried to resolve %s before the declaration table was sealed", name)
	}
	return t.Lookup(name)
}

// The declarations in the order they were made.
func (t *Table) All() []*Declaration {
	return t.order
}
