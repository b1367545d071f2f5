// Package ordered documents the shared ordered-container contract that
// both btree.Tree and splaytree.Tree satisfy. Per the design notes, no
// runtime dispatch is needed; each caller picks a concrete tree type at
// compile time; so this is a reference shape for documentation and for
// writing backend-agnostic tests, not an interface either tree is forced
// to implement explicitly.
package ordered

// Iterator is the shape common to btree.Iter[T] and splaytree.Iter[T]:
// dereferenceable at any non-end position, advances/retreats in place,
// and compares by identity of position against an iterator of its own
// type I (so *btree.Iter[T] is an Iterator[T, btree.Iter[T]]).
type Iterator[T any, I any] interface {
	Deref() T
	Next() bool
	Prev() bool
	Equal(other I) bool
}

// Set is the shape common to btree.Tree[T] and splaytree.Tree[T]'s public
// surface (spec §6), parameterized over the concrete iterator type so
// implementations aren't forced through a boxed Iterator.
type Set[T any, I any] interface {
	Drop()
	Insert(element T) bool
	Remove(it I)
	Start() I
	End() I
	Find(target T) I
	FindEq(target T) I
	FindLT(target T) I
	FindGT(target T) I
	FindLE(target T) I
	FindGE(target T) I
	Contains(element T) bool
}
