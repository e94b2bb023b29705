package values

import (
	"src.elv.sh/pkg/persistent/hash"
)

func propKeysEqual(a, b any) bool {
	return a.(string) == b.(string)
}

func propKeyHash(k any) uint32 {
	return hash.String(k.(string))
}

// These return a new property list and leave the one they're given alone. Anything which
// isn't a property list is treated as an empty one.

func PropPut(pl Value, prop string, val Value) Value {
	m, ok := pl.AsPropList()
	if !ok {
		m, _ = NewPropList().AsPropList()
	}
	return Value{PLIST, m.Assoc(prop, val)}
}

func PropGet(pl Value, prop string) (Value, bool) {
	m, ok := pl.AsPropList()
	if !ok {
		return Unset, false
	}
	val, ok := m.Index(prop)
	if !ok {
		return Unset, false
	}
	return val.(Value), true
}

func PropRemove(pl Value, prop string) Value {
	m, ok := pl.AsPropList()
	if !ok {
		return NewPropList()
	}
	return Value{PLIST, m.Dissoc(prop)}
}

func PropLen(pl Value) int {
	m, ok := pl.AsPropList()
	if !ok {
		return 0
	}
	return m.Len()
}
