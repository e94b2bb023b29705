package rt

import (
	"fmt"

	"github.com/logoc/logoc/source/values"
)

// How SetThing chooses the frame a variable lives in.
type Binding int

const (
	DYNAMIC         Binding = iota // Whichever binding is visible, or a new global one.
	CONTEXT_LOCAL                  // The current frame.
	PROCEDURE_LOCAL                // The nearest frame which isn't a primitive's.
	GLOBAL                         // The root frame.
)

// A variable. It can exist without a value, which is what LOCAL and GLOBAL make, and
// which is not the same as having the unset value.
type Thing struct {
	Binding Binding
	value   values.Value
	set     bool
}

func (t *Thing) Get() (values.Value, bool) {
	return t.value, t.set
}

func (t *Thing) Set(v values.Value) {
	t.value, t.set = v, true
}

// Looks for the name in each frame from ctx back to the root, following the dynamic chain.
func (st *State) FindThing(ctx Context, name string) *Thing {
	name = st.fold(name)
	for c := ctx; c >= Global; c = st.frames[c].parent {
		if t, ok := st.frames[c].things[name]; ok {
			return t
		}
	}
	return nil
}

func (st *State) GetThing(ctx Context, name string) (values.Value, error) {
	if t := st.FindThing(ctx, name); t != nil {
		if v, ok := t.Get(); ok {
			return v, nil
		}
	}
	return values.Unset, st.raise(ctx, Site{}, VARIABLE_NOT_SET, fmt.Sprintf("%s has no value", name))
}

func (st *State) SetThing(ctx Context, name string, v values.Value, kind Binding) {
	folded := st.fold(name)
	switch kind {
	case DYNAMIC:
		if t := st.FindThing(ctx, folded); t != nil {
			t.Set(v)
			return
		}
		st.define(Global, folded, DYNAMIC, v, true)
	case CONTEXT_LOCAL:
		st.define(ctx, folded, kind, v, true)
	case PROCEDURE_LOCAL:
		st.define(st.procedureFrame(ctx), folded, kind, v, true)
	case GLOBAL:
		st.define(Global, folded, kind, v, true)
	}
}

// Gives the nearest procedure its own binding for the name, without a value. If it
// already has one, nothing changes.
func (st *State) DeclareLocal(ctx Context, name string) {
	c := st.procedureFrame(ctx)
	if _, ok := st.frames[c].things[st.fold(name)]; !ok {
		st.define(c, st.fold(name), PROCEDURE_LOCAL, values.Unset, false)
	}
}

func (st *State) DeclareGlobal(name string) {
	if _, ok := st.frames[Global].things[st.fold(name)]; !ok {
		st.define(Global, st.fold(name), GLOBAL, values.Unset, false)
	}
}

func (st *State) define(ctx Context, folded string, kind Binding, v values.Value, set bool) {
	f := &st.frames[ctx]
	if f.things == nil {
		f.things = map[string]*Thing{}
	}
	f.things[folded] = &Thing{Binding: kind, value: v, set: set}
}
