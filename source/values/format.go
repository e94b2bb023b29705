package values

import (
	"sort"
	"strings"
)

// The form SHOW uses: lists keep their brackets.
func (v Value) String() string {
	var sb strings.Builder
	v.write(&sb, true)
	return sb.String()
}

// The form PRINT and TYPE use: the brackets of an outermost list are dropped.
func Format(v Value) string {
	if v.kind != LIST {
		return v.String()
	}
	var sb strings.Builder
	for i, item := range v.Items() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		item.write(&sb, false)
	}
	return sb.String()
}

func (v Value) write(sb *strings.Builder, outermost bool) {
	switch v.kind {
	case UNSET:
	case LIST:
		sb.WriteByte('[')
		for i, item := range v.Items() {
			if i > 0 {
				sb.WriteByte(' ')
			}
			item.write(sb, false)
		}
		sb.WriteByte(']')
	case PLIST:
		List(PropItems(v)...).write(sb, outermost)
	default:
		w, _ := v.AsWord()
		if !outermost && (w == "" || strings.ContainsAny(w, " \t\n[]()|")) {
			sb.WriteString("|" + w + "|")
			return
		}
		sb.WriteString(w)
	}
}

// Numbers are equal if they have the same value whatever their kind, and words are
// compared without regard to case.
func Equal(a, b Value) bool {
	if a.kind == UNSET || b.kind == UNSET {
		return a.kind == b.kind
	}
	if a.kind == LIST || b.kind == LIST {
		x, y := a.Items(), b.Items()
		if a.kind != b.kind || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	if a.kind == PLIST || b.kind == PLIST {
		return a.kind == b.kind && Equal(List(PropItems(a)...), List(PropItems(b)...))
	}
	if x, ok := a.AsNumber(); ok {
		if y, ok := b.AsNumber(); ok {
			if x.kind == INTEGER && y.kind == INTEGER {
				return x.v.(int64) == y.v.(int64)
			}
			fx, _ := x.AsFloat()
			fy, _ := y.AsFloat()
			return fx == fy
		}
	}
	x, _ := a.AsWord()
	y, _ := b.AsWord()
	return strings.EqualFold(x, y)
}

// The property names and values of a property list, alternately, in order of name.
func PropItems(v Value) []Value {
	m, ok := v.AsPropList()
	if !ok {
		return nil
	}
	names := []string{}
	for it := m.Iterator(); it.HasElem(); it.Next() {
		k, _ := it.Elem()
		names = append(names, k.(string))
	}
	sort.Strings(names)
	result := make([]Value, 0, 2*len(names))
	for _, name := range names {
		val, _ := m.Index(name)
		result = append(result, Word(name), val.(Value))
	}
	return result
}
