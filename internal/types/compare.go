package types

import "fmt"

const maxCompareDepth = 10

// Equals reports whether x and y are equal, recursing into List/Map/Set/
// Pair members up to a bounded depth so a cyclic structure can't hang
// equality checking. Adapted from the teacher's EqualDepth/CompareDepth
// split described in lang/types/value.go's Ordered doc comment.
func Equals(x, y Value) (bool, error) { return EqualDepth(x, y, maxCompareDepth) }

func EqualDepth(x, y Value, depth int) (bool, error) {
	if depth < 1 {
		return false, fmt.Errorf("comparison exceeded maximum recursion depth")
	}

	switch xv := x.(type) {
	case *List:
		yv, ok := y.(*List)
		if !ok || xv.Len() != yv.Len() {
			return false, nil
		}
		for i := 0; i < xv.Len(); i++ {
			eq, err := EqualDepth(xv.Index(i), yv.Index(i), depth-1)
			if err != nil || !eq {
				return eq, err
			}
		}
		return true, nil
	case *Map:
		yv, ok := y.(*Map)
		if !ok || xv.Len() != yv.Len() {
			return false, nil
		}
		for _, k := range xv.order {
			xval, _ := xv.index.Get(k)
			yval, found, err := yv.Get(k)
			if err != nil {
				return false, err
			}
			if !found {
				return false, nil
			}
			eq, err := EqualDepth(xval, yval, depth-1)
			if err != nil || !eq {
				return eq, err
			}
		}
		return true, nil
	case *Set:
		yv, ok := y.(*Set)
		if !ok || xv.Len() != yv.Len() {
			return false, nil
		}
		for _, v := range xv.order {
			if !yv.index.Has(v) {
				return false, nil
			}
		}
		return true, nil
	case Pair:
		yv, ok := y.(Pair)
		if !ok {
			return false, nil
		}
		eq, err := EqualDepth(xv.First, yv.First, depth-1)
		if err != nil || !eq {
			return eq, err
		}
		return EqualDepth(xv.Second, yv.Second, depth-1)
	}

	if ord, ok := x.(Ordered); ok {
		c, err := ord.Cmp(y, depth-1)
		if err != nil {
			return false, nil // incomparable types are simply unequal
		}
		return c == 0, nil
	}

	return x == y, nil
}

// Compare performs a three-way comparison for the relational operators
// (<, <=, >, >=), bounded the same way Equals is.
func Compare(x, y Value) (int, error) { return CompareDepth(x, y, maxCompareDepth) }

func CompareDepth(x, y Value, depth int) (int, error) {
	if depth < 1 {
		return 0, fmt.Errorf("comparison exceeded maximum recursion depth")
	}
	ord, ok := x.(Ordered)
	if !ok {
		return 0, fmt.Errorf("%s is not ordered", x.TypeName())
	}
	return ord.Cmp(y, depth-1)
}
