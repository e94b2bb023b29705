package dtypes

import (
	"fmt"
	"sort"
)

type Set[E comparable] map[E]struct{}

func MakeFromSlice[E comparable](slice []E) Set[E] {
	S := Set[E]{}
	for _, v := range slice {
		S.Add(v)
	}
	return S
}

func (S Set[E]) String() string {
	result := "{"
	sep := ""
	for _, e := range S.ToSlice() {
		result += sep + fmt.Sprintf("%v", e)
		sep = ", "
	}
	return result + "}"
}

// Elements come back in order of their printed form, so that anything generated from
// them is deterministic.
func (S Set[E]) ToSlice() []E {
	result := []E{}
	for e := range S {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		return fmt.Sprint(result[i]) < fmt.Sprint(result[j])
	})
	return result
}

func (S Set[E]) Add(e E) Set[E] {
	S[e] = struct{}{}
	return S
}

func (S Set[E]) Contains(e E) bool {
	_, found := S[e]
	return found
}
