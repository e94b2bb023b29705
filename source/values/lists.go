package values

import (
	"github.com/pkg/errors"
	"src.elv.sh/pkg/persistent/vector"
)

// The list primitives also work on words, treating them as lists of characters.

func First(v Value) (Value, error) {
	if vec, ok := v.AsList(); ok {
		if vec.Len() == 0 {
			return Unset, wrongType("first", v)
		}
		item, _ := vec.Index(0)
		return item.(Value), nil
	}
	if w, ok := v.AsWord(); ok && w != "" {
		return Word(string([]rune(w)[:1])), nil
	}
	return Unset, wrongType("first", v)
}

func ButFirst(v Value) (Value, error) {
	if vec, ok := v.AsList(); ok {
		if vec.Len() == 0 {
			return Unset, wrongType("butfirst", v)
		}
		return ListFromVector(vec.SubVector(1, vec.Len())), nil
	}
	if w, ok := v.AsWord(); ok && w != "" {
		return Word(string([]rune(w)[1:])), nil
	}
	return Unset, wrongType("butfirst", v)
}

func Fput(item, list Value) (Value, error) {
	vec, ok := list.AsList()
	if !ok {
		return Unset, wrongType("fput", list)
	}
	result := vector.Empty.Conj(item)
	for it := vec.Iterator(); it.HasElem(); it.Next() {
		result = result.Conj(it.Elem())
	}
	return ListFromVector(result), nil
}

func Lput(item, list Value) (Value, error) {
	vec, ok := list.AsList()
	if !ok {
		return Unset, wrongType("lput", list)
	}
	return ListFromVector(vec.Conj(item)), nil
}

func Count(v Value) (Value, error) {
	switch v.kind {
	case LIST:
		vec, _ := v.AsList()
		return Int(int64(vec.Len())), nil
	case PLIST:
		return Int(int64(PropLen(v))), nil
	}
	if w, ok := v.AsWord(); ok {
		return Int(int64(len([]rune(w)))), nil
	}
	return Unset, wrongType("count", v)
}

func Emptyp(v Value) (Value, error) {
	if vec, ok := v.AsList(); ok {
		return Bool(vec.Len() == 0), nil
	}
	if w, ok := v.AsWord(); ok {
		return Bool(w == ""), nil
	}
	return Unset, wrongType("emptyp", v)
}

func wrongType(name string, v Value) error {
	return errors.Wrapf(ErrWrongType, "%s doesn't like %s as input", name, describe(v))
}

func describe(v Value) string {
	if v.kind == LIST && len(v.Items()) == 0 {
		return "[]"
	}
	if v.kind == UNSET {
		return "nothing"
	}
	return v.String()
}
