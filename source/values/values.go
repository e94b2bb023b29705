package values

import (
	"src.elv.sh/pkg/persistent/hashmap"
	"src.elv.sh/pkg/persistent/vector"
)

type Kind uint8

// The order of the kinds is fixed: the runtime and generated code both rely on it.
const (
	UNSET Kind = iota
	BOOLEAN
	INTEGER
	FLOAT
	WORD
	LIST
	PLIST
)

var kindNames = []string{"unset", "boolean", "integer", "float", "word", "list", "property list"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// A Logo value. Lists and property lists are persistent, so a Value can be copied and
// shared freely: nothing ever changes one in place.
type Value struct {
	kind Kind
	v    any
}

var (
	Unset     = Value{}
	True      = Value{BOOLEAN, true}
	False     = Value{BOOLEAN, false}
	EmptyList = Value{LIST, vector.Empty}
)

func (v Value) Kind() Kind {
	return v.kind
}

func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

func Int(i int64) Value {
	return Value{INTEGER, i}
}

func Float(f float64) Value {
	return Value{FLOAT, f}
}

func Word(s string) Value {
	return Value{WORD, s}
}

func List(items ...Value) Value {
	vec := vector.Empty
	for _, item := range items {
		vec = vec.Conj(item)
	}
	return Value{LIST, vec}
}

func ListFromVector(vec vector.Vector) Value {
	return Value{LIST, vec}
}

func NewPropList() Value {
	return Value{PLIST, hashmap.New(propKeysEqual, propKeyHash)}
}

func (v Value) IsUnset() bool {
	return v.kind == UNSET
}
