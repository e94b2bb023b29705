package rt

import (
	"github.com/logoc/logoc/source/values"
)

// Primitives which read or change the State: variables, loops, errors, TEST, and property
// lists. These run in a frame of their own, so anything which belongs to "the current
// procedure" means the nearest frame which isn't a primitive's.

func Make(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	name, e := wordInput("make", args[0])
	if e != nil {
		return values.Unset, e
	}
	st.SetThing(ctx, name, args[1], DYNAMIC)
	return values.Unset, nil
}

func Name(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	return Make(st, ctx, args[1], args[0])
}

// Takes names as separate inputs or as a list.
func Local(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	names, e := namesInput("local", args)
	if e != nil {
		return values.Unset, e
	}
	for _, name := range names {
		st.DeclareLocal(ctx, name)
	}
	return values.Unset, nil
}

func GlobalVar(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	names, e := namesInput("global", args)
	if e != nil {
		return values.Unset, e
	}
	for _, name := range names {
		st.DeclareGlobal(name)
	}
	return values.Unset, nil
}

func ThingOf(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	name, e := wordInput("thing", args[0])
	if e != nil {
		return values.Unset, e
	}
	return st.GetThing(ctx, name)
}

func Repcount(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	n, e := st.RepCount(ctx)
	if e != nil {
		return values.Unset, e
	}
	return values.Int(n), nil
}

// Outputs the last error caught in the current procedure, and forgets it, or outputs the
// empty list if there isn't one.
func ErrorInfo(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	e := st.TakeError(ctx)
	if e == nil {
		return values.EmptyList, nil
	}
	return e.AsList(), nil
}

func TestPrim(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	b, ok := args[0].AsBool()
	if !ok {
		return values.Unset, wrongInput("test", args[0])
	}
	st.SetTest(ctx, b)
	return values.Unset, nil
}

func Pprop(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	name, prop, e := st.propInputs("pprop", args)
	if e != nil {
		return values.Unset, e
	}
	pl, ok := st.plists[name]
	if !ok {
		pl = values.NewPropList()
	}
	st.plists[name] = values.PropPut(pl, prop, args[2])
	return values.Unset, nil
}

func Gprop(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	name, prop, e := st.propInputs("gprop", args)
	if e != nil {
		return values.Unset, e
	}
	if v, ok := values.PropGet(st.plists[name], prop); ok {
		return v, nil
	}
	return values.EmptyList, nil
}

func Remprop(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	name, prop, e := st.propInputs("remprop", args)
	if e != nil {
		return values.Unset, e
	}
	if pl, ok := st.plists[name]; ok {
		st.plists[name] = values.PropRemove(pl, prop)
	}
	return values.Unset, nil
}

func Plist(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	name, e := wordInput("plist", args[0])
	if e != nil {
		return values.Unset, e
	}
	return values.List(values.PropItems(st.plists[st.fold(name)])...), nil
}

// Property list names and property names are folded like any other names.
func (st *State) propInputs(primitive string, args []values.Value) (string, string, error) {
	name, e := wordInput(primitive, args[0])
	if e != nil {
		return "", "", e
	}
	prop, e := wordInput(primitive, args[1])
	if e != nil {
		return "", "", e
	}
	return st.fold(name), st.fold(prop), nil
}

func wordInput(primitive string, v values.Value) (string, error) {
	w, ok := v.AsWord()
	if !ok || w == "" {
		return "", wrongInput(primitive, v)
	}
	return w, nil
}

func namesInput(primitive string, args []values.Value) ([]string, error) {
	names := []string{}
	for _, arg := range args {
		items := []values.Value{arg}
		if arg.Kind() == values.LIST {
			items = arg.Items()
		}
		for _, item := range items {
			w, e := wordInput(primitive, item)
			if e != nil {
				return nil, e
			}
			names = append(names, w)
		}
	}
	return names, nil
}
