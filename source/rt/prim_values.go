package rt

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/logoc/logoc/source/settings"
	"github.com/logoc/logoc/source/values"
)

// Arithmetic, comparison, logic, lists, and output. None of these care which frame they
// run in, which is why the arithmetic ones can be inlined.

func Sum(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	return values.Sum.Fold(args)
}

func Difference(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	return values.Difference.Apply(args[0], args[1])
}

func Product(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	return values.Product.Fold(args)
}

// With one input, the reciprocal.
func Quotient(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	if len(args) == 1 {
		return values.Quotient.Apply(values.Int(1), args[0])
	}
	return values.Quotient.Apply(args[0], args[1])
}

func Remainder(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	return values.Remainder.Apply(args[0], args[1])
}

func Minus(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	return values.Minus(args[0])
}

func Sqrt(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	return values.Sqrt(args[0])
}

func Equalp(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	return values.Bool(values.Equal(args[0], args[1])), nil
}

func Notequalp(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	return values.Bool(!values.Equal(args[0], args[1])), nil
}

func Lessp(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	return values.Lessp.Apply(args[0], args[1])
}

func Greaterp(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	return values.Greaterp.Apply(args[0], args[1])
}

func Lessequalp(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	return values.Lessequalp.Apply(args[0], args[1])
}

func Greaterequalp(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	return values.Greaterequalp.Apply(args[0], args[1])
}

func And(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	result := true
	for _, arg := range args {
		b, ok := arg.AsBool()
		if !ok {
			return values.Unset, wrongInput("and", arg)
		}
		result = result && b
	}
	return values.Bool(result), nil
}

func Or(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	result := false
	for _, arg := range args {
		b, ok := arg.AsBool()
		if !ok {
			return values.Unset, wrongInput("or", arg)
		}
		result = result || b
	}
	return values.Bool(result), nil
}

func Not(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	b, ok := args[0].AsBool()
	if !ok {
		return values.Unset, wrongInput("not", args[0])
	}
	return values.Bool(!b), nil
}

func ListOf(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	if e := checkLength(len(args)); e != nil {
		return values.Unset, e
	}
	return values.List(args...), nil
}

func First(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	return values.First(args[0])
}

func Butfirst(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	return values.ButFirst(args[0])
}

func Fput(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	if e := checkLength(len(args[1].Items()) + 1); e != nil {
		return values.Unset, e
	}
	return values.Fput(args[0], args[1])
}

func Lput(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	if e := checkLength(len(args[1].Items()) + 1); e != nil {
		return values.Unset, e
	}
	return values.Lput(args[0], args[1])
}

func CountOf(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	return values.Count(args[0])
}

func Emptyp(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	return values.Emptyp(args[0])
}

func Print(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	fmt.Fprintln(st.Out, join(args, values.Format))
	return values.Unset, nil
}

func Show(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	fmt.Fprintln(st.Out, join(args, values.Value.String))
	return values.Unset, nil
}

func Type(st *State, ctx Context, args ...values.Value) (values.Value, error) {
	fmt.Fprint(st.Out, join(args, values.Format))
	return values.Unset, nil
}

func join(args []values.Value, f func(values.Value) string) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = f(arg)
	}
	return strings.Join(parts, " ")
}

// There's no catching the Go runtime running out of memory, so lists are limited to a
// length which can't get near it.
func checkLength(n int) error {
	if n > settings.MAX_LIST_ITEMS {
		return &Error{Code: OUT_OF_MEMORY, Tag: ERROR_TAG, Time: time.Now().UTC(), Message: fmt.Sprintf("out of memory: list of %d items", n)}
	}
	return nil
}

func wrongInput(name string, v values.Value) error {
	return errors.Wrapf(values.ErrWrongType, "%s doesn't like %s as input", name, describe(v))
}
