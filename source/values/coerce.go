package values

import (
	"math"
	"strconv"
	"strings"

	"src.elv.sh/pkg/persistent/hashmap"
	"src.elv.sh/pkg/persistent/vector"
)

// Words are parsed as numbers on demand, so none of these ever panic: they report
// whether the coercion made sense instead.

func (v Value) AsBool() (bool, bool) {
	b, ok := v.v.(bool)
	return b, ok && v.kind == BOOLEAN
}

func (v Value) RepresentsInteger() bool {
	_, ok := v.AsInteger()
	return ok
}

func (v Value) RepresentsFloat() bool {
	_, ok := v.AsFloat()
	return ok
}

// A float with no fractional part represents an integer, as does a word which spells one.
func (v Value) AsInteger() (int64, bool) {
	switch v.kind {
	case INTEGER:
		return v.v.(int64), true
	case FLOAT:
		return floatToInteger(v.v.(float64))
	case WORD:
		n, ok := parseNumber(v.v.(string))
		if !ok {
			return 0, false
		}
		return n.AsInteger()
	}
	return 0, false
}

func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case INTEGER:
		return float64(v.v.(int64)), true
	case FLOAT:
		return v.v.(float64), true
	case WORD:
		n, ok := parseNumber(v.v.(string))
		if !ok {
			return 0, false
		}
		return n.AsFloat()
	}
	return 0, false
}

// Returns the value as an INTEGER or a FLOAT, if it can be one.
func (v Value) AsNumber() (Value, bool) {
	switch v.kind {
	case INTEGER, FLOAT:
		return v, true
	case WORD:
		return parseNumber(v.v.(string))
	}
	return Unset, false
}

// Numbers and booleans are words too, as far as Logo is concerned.
func (v Value) AsWord() (string, bool) {
	switch v.kind {
	case WORD:
		return v.v.(string), true
	case BOOLEAN:
		if v.v.(bool) {
			return "true", true
		}
		return "false", true
	case INTEGER:
		return strconv.FormatInt(v.v.(int64), 10), true
	case FLOAT:
		return formatFloat(v.v.(float64)), true
	}
	return "", false
}

func (v Value) AsList() (vector.Vector, bool) {
	vec, ok := v.v.(vector.Vector)
	return vec, ok && v.kind == LIST
}

func (v Value) AsPropList() (hashmap.Map, bool) {
	m, ok := v.v.(hashmap.Map)
	return m, ok && v.kind == PLIST
}

// The members of a list, or nil if the value isn't one.
func (v Value) Items() []Value {
	vec, ok := v.AsList()
	if !ok {
		return nil
	}
	result := make([]Value, 0, vec.Len())
	for it := vec.Iterator(); it.HasElem(); it.Next() {
		result = append(result, it.Elem().(Value))
	}
	return result
}

func floatToInteger(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// Accepts an optional sign, digits with at most one decimal point, and an optional
// exponent. Unlike strconv, it doesn't accept 'inf', 'NaN', hex, or underscores, none of
// which are Logo numbers.
func parseNumber(s string) (Value, bool) {
	body := strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	digits, point, exponent := 0, false, false
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case '0' <= c && c <= '9':
			digits++
		case c == '.' && !point && !exponent:
			point = true
		case (c == 'e' || c == 'E') && digits > 0 && !exponent:
			exponent = true
			if i+1 < len(body) && (body[i+1] == '+' || body[i+1] == '-') {
				i++
			}
			if i+1 == len(body) {
				return Unset, false
			}
		default:
			return Unset, false
		}
	}
	if digits == 0 {
		return Unset, false
	}
	if !point && !exponent {
		if i, e := strconv.ParseInt(s, 10, 64); e == nil {
			return Int(i), true
		}
	}
	f, e := strconv.ParseFloat(s, 64)
	if e != nil && !math.IsInf(f, 0) {
		return Unset, false
	}
	return Float(f), true
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
