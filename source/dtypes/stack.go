package dtypes

type Stack[T any] struct {
	vals []T
}

func NewStack[T any]() *Stack[T] { return &Stack[T]{vals: []T{}} }

func (s *Stack[T]) Push(val T) {
	s.vals = append(s.vals, val)
}

func (s *Stack[T]) Pop() (T, bool) {
	if len(s.vals) == 0 {
		var zero T
		return zero, false
	}
	top := s.vals[len(s.vals)-1]
	s.vals = s.vals[:len(s.vals)-1]
	return top, true
}

func (s *Stack[T]) HeadValue() (T, bool) {
	if len(s.vals) == 0 {
		var zero T
		return zero, false
	}
	return s.vals[len(s.vals)-1], true
}

func (s *Stack[T]) Len() int {
	return len(s.vals)
}

// Returns how far down the stack the first value satisfying f is, or -1 if there isn't one.
func (s *Stack[T]) FindFunc(f func(T) bool) int {
	level := -1
	for i := len(s.vals) - 1; i >= 0; i-- {
		level++
		if f(s.vals[i]) {
			return level
		}
	}
	return -1
}
