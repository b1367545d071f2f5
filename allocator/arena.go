// Package allocator implements the allocator contract consumed by the
// ordered containers: alloc / alloc_zeroed / alloc_array / dealloc,
// realized as an arena of indices rather than raw pointers.
//
// Per the design notes, parent back-pointers in the B-tree create a cycle
// per parent/child edge. Modeling each node as an index into a slice owned
// by the arena (instead of a raw *Node) removes that ownership cycle:
// edges are plain int32s, and iterator invalidation on mutation is
// explicit because a Ref only remains meaningful as long as the arena's
// backing slice isn't invalidated by the caller holding it across an
// incompatible mutation.
package allocator

import "github.com/cockroachdb/errors"

// Ref is a handle to a slot in an Arena[T]. The zero value refers to slot
// 0; use Nil[T]() for "no node" (analogous to a null pointer).
type Ref[T any] struct {
	idx int32
}

// Nil returns the reference that denotes "no node".
func Nil[T any]() Ref[T] { return Ref[T]{idx: -1} }

// Valid reports whether r refers to a live slot.
func (r Ref[T]) Valid() bool { return r.idx >= 0 }

// Int32 exposes the raw index, e.g. for use as a page-table child index.
func (r Ref[T]) Int32() int32 { return r.idx }

// Arena owns a growable collection of T slots, handing out stable indices
// and reusing indices freed by Dealloc. It never shrinks its backing
// storage; a freed slot is zeroed and returned to a free list instead.
type Arena[T any] struct {
	slots []T
	free  []int32
}

// New returns an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Alloc reserves a slot, returning a zero-valued T. Allocation failure in
// this Go realization can only mean slice growth failing to find memory,
// which the runtime itself treats as fatal; there is no recoverable path,
// matching the allocator contract's "allocation failure is fatal."
func (a *Arena[T]) Alloc() Ref[T] {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		var zero T
		a.slots[idx] = zero
		return Ref[T]{idx: idx}
	}
	var zero T
	a.slots = append(a.slots, zero)
	idx := len(a.slots) - 1
	if idx > 1<<31-1 {
		panic(errors.AssertionFailedf("allocator: arena exceeded int32 index range"))
	}
	return Ref[T]{idx: int32(idx)}
}

// AllocZeroed is distinct from Alloc in the source allocator contract
// (which exposes both a general alloc and an explicitly zeroing variant);
// Go slices are already zero-initialized on growth, so this is Alloc in
// all but name; kept separate to mirror the two-call-site contract.
func (a *Arena[T]) AllocZeroed() Ref[T] {
	return a.Alloc()
}

// AllocArray reserves n slots and returns their references in allocation
// order. Freed slots are reused first, so the slots need not be contiguous.
func (a *Arena[T]) AllocArray(n int) []Ref[T] {
	refs := make([]Ref[T], n)
	for i := range refs {
		refs[i] = a.Alloc()
	}
	return refs
}

// Dealloc returns r's slot to the free list after zeroing it, so any
// references it held become unreachable and can be collected.
func (a *Arena[T]) Dealloc(r Ref[T]) {
	if !r.Valid() {
		return
	}
	var zero T
	a.slots[r.idx] = zero
	a.free = append(a.free, r.idx)
}

// At resolves a reference to its slot. Panics (via an assertion error,
// not a plain index-out-of-range) if r is Nil or out of range, since
// dereferencing an invalid reference is a contract violation.
func (a *Arena[T]) At(r Ref[T]) *T {
	if !r.Valid() || int(r.idx) >= len(a.slots) {
		panic(errors.AssertionFailedf("allocator: dereference of invalid ref %d", r.idx))
	}
	return &a.slots[r.idx]
}

// Len reports how many slots (live or freed-but-unreused) the arena has
// ever handed out.
func (a *Arena[T]) Len() int { return len(a.slots) }

// RefFromIndex reconstructs a reference from a raw index previously
// obtained via Ref.Int32. Used by containers (e.g. the page table's
// branch/leaf child slots) that store child links as a bare int32 because
// a single slot may address either of two different arenas depending on
// tree depth, so the Ref type itself can't be threaded through storage.
func RefFromIndex[T any](idx int32) Ref[T] {
	return Ref[T]{idx: idx}
}
