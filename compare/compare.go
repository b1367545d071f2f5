// Package compare defines the comparator protocol shared by the B-tree,
// splay tree and ordered-map layers: a total order over a key type, plus a
// probe form that can test a bare target against an element without
// materializing an element-shaped value.
package compare

import "cmp"

// Func is a total-order relation over T. The sign convention matches the
// standard library's cmp.Compare: negative when a < b, zero when equal,
// positive when a > b.
type Func[T any] func(a, b T) int

// Probe compares a fixed target (captured by the closure) against a
// candidate element. It exists so a map can descend a tree of Pair[K, V]
// comparing only the K portion, without constructing a full Pair to hold
// the target.
type Probe[T any] func(candidate T) int

// FromElement builds a Probe that compares target against each candidate
// using cmp. This is how a set's find_eq(element) is expressed in terms of
// the generic probe-based descent used by both tree backends.
func FromElement[T any](cmp Func[T], target T) Probe[T] {
	return func(candidate T) int { return cmp(target, candidate) }
}

// Natural returns the default comparator for an ordered type, using the
// standard library's three-way compare.
func Natural[T cmp.Ordered]() Func[T] {
	return func(a, b T) int { return cmp.Compare(a, b) }
}

// Reverse flips a comparator, producing descending order.
func Reverse[T any](f Func[T]) Func[T] {
	return func(a, b T) int { return f(b, a) }
}
