package values

import (
	"math"

	"github.com/JohnCGriffin/overflow"
	"github.com/pkg/errors"
)

var (
	ErrDivideByZero = errors.New("division by zero")
	ErrDomain       = errors.New("input out of range")
	ErrNotANumber   = errors.New("not a number")
	ErrWrongType    = errors.New("wrong type of input")
)

// A binary operator. Which implementation is used depends on the operands: Ints if both
// are integers, Floats if either is a float. A word counts as whichever kind of number
// it spells.
type Op struct {
	Name   string
	Ints   func(a, b int64) (Value, error)
	Floats func(a, b float64) (Value, error)
}

func (op Op) Apply(a, b Value) (Value, error) {
	x, ok := a.AsNumber()
	if !ok {
		return Unset, notANumber(op.Name, a)
	}
	y, ok := b.AsNumber()
	if !ok {
		return Unset, notANumber(op.Name, b)
	}
	if x.kind == INTEGER && y.kind == INTEGER {
		return op.Ints(x.v.(int64), y.v.(int64))
	}
	fx, _ := x.AsFloat()
	fy, _ := y.AsFloat()
	return op.Floats(fx, fy)
}

// Applies the operator from left to right along the operands.
func (op Op) Fold(operands []Value) (Value, error) {
	if len(operands) == 0 {
		return Unset, errors.Wrapf(ErrWrongType, "%s needs at least one input", op.Name)
	}
	result, ok := operands[0].AsNumber()
	if !ok {
		return Unset, notANumber(op.Name, operands[0])
	}
	for _, operand := range operands[1:] {
		var e error
		result, e = op.Apply(result, operand)
		if e != nil {
			return Unset, e
		}
	}
	return result, nil
}

func notANumber(name string, v Value) error {
	return errors.Wrapf(ErrNotANumber, "%s doesn't like %s as input", name, v.String())
}

func floats(f func(a, b float64) float64) func(a, b float64) (Value, error) {
	return func(a, b float64) (Value, error) {
		return Float(f(a, b)), nil
	}
}

var Sum = Op{
	Name: "sum",
	Ints: func(a, b int64) (Value, error) {
		if r, ok := overflow.Add64(a, b); ok {
			return Int(r), nil
		}
		return Float(float64(a) + float64(b)), nil
	},
	Floats: floats(func(a, b float64) float64 { return a + b }),
}

var Difference = Op{
	Name: "difference",
	Ints: func(a, b int64) (Value, error) {
		if r, ok := overflow.Sub64(a, b); ok {
			return Int(r), nil
		}
		return Float(float64(a) - float64(b)), nil
	},
	Floats: floats(func(a, b float64) float64 { return a - b }),
}

var Product = Op{
	Name: "product",
	Ints: func(a, b int64) (Value, error) {
		if r, ok := overflow.Mul64(a, b); ok {
			return Int(r), nil
		}
		return Float(float64(a) * float64(b)), nil
	},
	Floats: floats(func(a, b float64) float64 { return a * b }),
}

// Dividing one integer by another only gives an integer if it comes out exactly.
var Quotient = Op{
	Name: "quotient",
	Ints: func(a, b int64) (Value, error) {
		if b == 0 {
			return Unset, errors.Wrap(ErrDivideByZero, "quotient")
		}
		if a%b == 0 {
			if r, ok := overflow.Div64(a, b); ok {
				return Int(r), nil
			}
		}
		return Float(float64(a) / float64(b)), nil
	},
	Floats: func(a, b float64) (Value, error) {
		if b == 0 {
			return Unset, errors.Wrap(ErrDivideByZero, "quotient")
		}
		return Float(a / b), nil
	},
}

// The result has the sign of the dividend.
var Remainder = Op{
	Name: "remainder",
	Ints: func(a, b int64) (Value, error) {
		if b == 0 {
			return Unset, errors.Wrap(ErrDivideByZero, "remainder")
		}
		if b == -1 {
			return Int(0), nil
		}
		return Int(a % b), nil
	},
	Floats: func(a, b float64) (Value, error) {
		if b == 0 {
			return Unset, errors.Wrap(ErrDivideByZero, "remainder")
		}
		return Float(math.Mod(a, b)), nil
	},
}

var Lessp = Op{
	Name:   "lessp",
	Ints:   func(a, b int64) (Value, error) { return Bool(a < b), nil },
	Floats: func(a, b float64) (Value, error) { return Bool(a < b), nil },
}

var Greaterp = Op{
	Name:   "greaterp",
	Ints:   func(a, b int64) (Value, error) { return Bool(a > b), nil },
	Floats: func(a, b float64) (Value, error) { return Bool(a > b), nil },
}

var Lessequalp = Op{
	Name:   "lessequalp",
	Ints:   func(a, b int64) (Value, error) { return Bool(a <= b), nil },
	Floats: func(a, b float64) (Value, error) { return Bool(a <= b), nil },
}

var Greaterequalp = Op{
	Name:   "greaterequalp",
	Ints:   func(a, b int64) (Value, error) { return Bool(a >= b), nil },
	Floats: func(a, b float64) (Value, error) { return Bool(a >= b), nil },
}

func Minus(v Value) (Value, error) {
	x, ok := v.AsNumber()
	if !ok {
		return Unset, notANumber("minus", v)
	}
	if x.kind == INTEGER {
		if r, ok := overflow.Sub64(0, x.v.(int64)); ok {
			return Int(r), nil
		}
		return Float(-float64(x.v.(int64))), nil
	}
	return Float(-x.v.(float64)), nil
}

func Sqrt(v Value) (Value, error) {
	f, ok := v.AsFloat()
	if !ok {
		return Unset, notANumber("sqrt", v)
	}
	if f < 0 {
		return Unset, errors.Wrapf(ErrDomain, "sqrt doesn't like %s as input", v.String())
	}
	return Float(math.Sqrt(f)), nil
}
