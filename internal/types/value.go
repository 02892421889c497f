// Package types implements Nova's runtime value model: a tagged union over
// every kind of value the interpreter manipulates (Null, Bool, Int, Long,
// Double, Char, String, List, Map, Set, Range, Pair, Function, Regex,
// ExternalObject, plus the Class/Object/concurrency/annotation tags defined
// by internal/class, internal/concurrency, and internal/annotation, which
// import this package and implement Value rather than being defined here).
//
// The interface shape and the dispatch-by-capability pattern (Ordered,
// Iterable, Indexable, HasBinary, HasUnary, HasAttrs, ...) is adapted
// directly from the teacher's lang/types/value.go, generalized from a
// Starlark-flavored value set to Nova's.
package types

import "fmt"

// Value is the interface implemented by every value the MIR interpreter
// manipulates.
type Value interface {
	// String returns the value's display representation (what toString
	// produces for primitives; composite types quote their structure).
	String() string

	// TypeName is the name observable via typeof(v).
	TypeName() string

	// Freeze marks the value, and everything transitively reachable from it
	// through collections, immutable. Further mutation through the
	// interpreter fails dynamically. A Function's Freeze does nothing, so
	// values reached only through a closure are not frozen, and no
	// interpreter path freezes a value passed to a child task.
	Freeze()

	// Truth returns the value's truthiness for use in conditions.
	Truth() Bool
}

// Ordered is implemented by values that support relative comparison
// (<, <=, >, >=), as distinct from just equality.
type Ordered interface {
	Value
	// Cmp compares two values of the same underlying type. Negative means
	// x < y, positive means x > y, zero means equal. depth bounds recursion
	// for cyclic structures; implementations that recurse into components
	// should call CompareDepth, not Cmp, directly.
	Cmp(y Value, depth int) (int, error)
}

// Iterable abstracts a sequence that can be iterated but whose length is not
// necessarily known up front (e.g. a lazily generated sequence).
type Iterable interface {
	Value
	Iterate() Iterator
}

// Sequence is an Iterable of known length.
type Sequence interface {
	Iterable
	Len() int
}

// Indexable is a sequence of known length supporting random access.
type Indexable interface {
	Value
	Index(i int) Value
	Len() int
}

// Sliceable supports the x[i:j:step] slice operator.
type Sliceable interface {
	Indexable
	Slice(start, end, step int) Value
}

// HasSetIndex is an Indexable whose elements may be assigned (x[i] = y).
type HasSetIndex interface {
	Indexable
	SetIndex(i int, v Value) error
}

// Iterator yields a sequence of values. Done must be called once the caller
// is finished with it (it decrements the source's active-iterator count, so
// mutation-during-iteration can be detected).
type Iterator interface {
	Next(p *Value) bool
	Done()
}

// Mapping is a key->value mapping, such as Map or Set (membership only).
type Mapping interface {
	Value
	Get(k Value) (v Value, found bool, err error)
}

// IterableMapping is a Mapping that can also be enumerated in insertion
// order.
type IterableMapping interface {
	Mapping
	Iterate() Iterator
	Items() []Pair
}

// HasSetKey supports map update via x[k] = v.
type HasSetKey interface {
	Mapping
	SetKey(k, v Value) error
}

// Side indicates which operand of a binary operator the receiver occupies,
// since `x + y` may dispatch through either operand's HasBinary.
type Side bool

const (
	Left  Side = false
	Right Side = true
)

// HasBinary is implemented by values usable as either operand of a binary
// operator. Declining to handle an operator returns (nil, nil); callers
// should go through the Binary package function, not this method directly,
// so built-in numeric widening still applies.
type HasBinary interface {
	Value
	Binary(op string, y Value, side Side) (Value, error)
}

// HasUnary is implemented by values usable as the operand of a unary
// operator (-x, !x).
type HasUnary interface {
	Value
	Unary(op string) (Value, error)
}

// HasAttrs is implemented by values whose fields/methods are readable via
// dot-selection (y = x.f).
type HasAttrs interface {
	Value
	// Attr returns the named attribute, or (nil, nil) if there is none.
	Attr(name string) (Value, error)
	AttrNames() []string
}

// HasSetField is implemented by values whose fields are writable via dot
// assignment (x.f = y).
type HasSetField interface {
	HasAttrs
	SetField(name string, v Value) error
}

// NoSuchAttrError is returned by HasAttrs.Attr / HasSetField.SetField to
// signal that the named attribute does not exist.
type NoSuchAttrError string

func (e NoSuchAttrError) Error() string { return string(e) }

// Callable is implemented by any value that can appear in call position
// (Function, Class — instantiation — and bound methods).
type Callable interface {
	Value
	Name() string
}

// HasIsA is implemented by values whose `is`/`as` type test means more than
// plain TypeName equality — a class instance's superclass chain and
// declared interfaces (spec.md §4.5). Values without it (every builtin
// primitive tag) fall back to comparing TypeName directly.
type HasIsA interface {
	Value
	IsA(name string) bool
}

func typeErr(op string, v Value) error {
	return fmt.Errorf("unsupported operand type for %s: %s", op, v.TypeName())
}
