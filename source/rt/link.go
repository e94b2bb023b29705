package rt

import (
	"fmt"

	"github.com/logoc/logoc/source/values"
)

// Procedures and primitives which a program declares but doesn't define are found here
// when they're called. Packages compiled on their own register their procedures from init,
// and Go code can add primitives the same way.
var (
	linkedRoutines   = map[string]Routine{}
	linkedPrimitives = map[string]*Primitive{}
)

func Register(name string, r Routine) {
	name = Fold(name)
	if _, ok := linkedRoutines[name]; ok {
		panic("rt: procedure " + name + " is registered twice")
	}
	linkedRoutines[name] = r
}

func RegisterPrimitive(p *Primitive) {
	for _, name := range []string{p.Name, p.Alias} {
		if name == "" {
			continue
		}
		name = Fold(name)
		if _, ok := primitiveIndex[name]; ok {
			panic("rt: primitive " + name + " is registered twice")
		}
		if _, ok := linkedPrimitives[name]; ok {
			panic("rt: primitive " + name + " is registered twice")
		}
		linkedPrimitives[name] = p
	}
}

// The routine registered for a declared procedure.
func (st *State) Linked(ctx Context, site Site, name string) (Routine, error) {
	if r, ok := linkedRoutines[Fold(name)]; ok {
		return r, nil
	}
	return nil, st.raise(ctx, site, NOT_DEFINED, fmt.Sprintf("%s is declared but not defined", name))
}

// Calls a primitive registered by name rather than one built into the runtime.
func (st *State) ApplyLinked(ctx Context, site Site, name string, args ...values.Value) (values.Value, error) {
	p, ok := linkedPrimitives[Fold(name)]
	if !ok || p.Fn == nil {
		return values.Unset, st.raise(ctx, site, NOT_DEFINED, fmt.Sprintf("primitive %s is declared but not defined", name))
	}
	return st.Apply(ctx, site, p.Fn, args...)
}
