// Package btree implements an in-memory, arena-indexed B-tree ordered set.
//
// Node layout mirrors dbms/index/btree.go's on-disk node (parent pointer,
// element count, sorted elements, child pointers) but holds everything in
// Go slices inside an allocator.Arena instead of a fixed-size page; edges
// are arena indices (allocator.Ref), not raw pointers, so a node's parent
// back-reference never forms an ownership cycle.
//
// Grounded on dbms/index/btree/btree.go for the borrow/merge delete
// algorithm (the original_source/src/btree.cpp delete path was an
// unfinished stub) and on original_source/src/btree.hpp for node shape
// (parent, parent_index, elements, children).
package btree

import (
	"cmp"
	"unsafe"

	"github.com/btree-query-bench/containers/allocator"
	"github.com/btree-query-bench/containers/compare"
)

// Node is a B-tree node: up to m elements in ascending order, and either
// zero children (a leaf) or len(elems)+1 children (internal).
type Node[T any] struct {
	parent      allocator.Ref[Node[T]]
	parentIndex int
	elems       []T
	children    []allocator.Ref[Node[T]]
}

func (n *Node[T]) leaf() bool { return len(n.children) == 0 }

// Tree is a B-tree ordered set of arity m (order m+1).
type Tree[T any] struct {
	arena *allocator.Arena[Node[T]]
	root  allocator.Ref[Node[T]]
	cmp   compare.Func[T]
	m     int
	size  int
}

// DefaultArity computes M so a node occupies roughly one 4 KiB page:
// M = max(4, (4096 - 4*ptr_size) / (sizeof(E) + ptr_size)).
func DefaultArity[T any]() int {
	var zero T
	elemSize := uint64(unsafe.Sizeof(zero))
	ptrSize := uint64(unsafe.Sizeof(uintptr(0)))
	m := (4096 - 4*ptrSize) / (elemSize + ptrSize)
	if m < 4 {
		m = 4
	}
	return int(m)
}

// New returns an empty tree over a naturally-ordered type, using the
// default arity.
func New[T cmp.Ordered]() *Tree[T] {
	return NewFunc[T](compare.Natural[T]())
}

// NewFunc returns an empty tree using an explicit comparator and the
// default arity.
func NewFunc[T any](cmpFn compare.Func[T]) *Tree[T] {
	return NewWithArity(cmpFn, DefaultArity[T]())
}

// NewWithArity returns an empty tree with a caller-chosen maximum element
// count per node.
func NewWithArity[T any](cmpFn compare.Func[T], m int) *Tree[T] {
	if m < 1 {
		m = 1
	}
	return &Tree[T]{
		arena: allocator.New[Node[T]](),
		root:  allocator.Nil[Node[T]](),
		cmp:   cmpFn,
		m:     m,
	}
}

// Size returns the number of elements currently in the tree.
func (t *Tree[T]) Size() int { return t.size }

// RootID returns the arena index of the root node, for debug traversal
// (see the debug package). The second return is false for an empty tree.
func (t *Tree[T]) RootID() (int32, bool) {
	if !t.root.Valid() {
		return 0, false
	}
	return t.root.Int32(), true
}

// NodeElems returns a copy of the elements stored at node id, for debug
// traversal.
func (t *Tree[T]) NodeElems(id int32) []T {
	n := t.arena.At(allocator.RefFromIndex[Node[T]](id))
	return append([]T{}, n.elems...)
}

// NodeChildren returns the arena indices of node id's children (empty for
// a leaf), for debug traversal.
func (t *Tree[T]) NodeChildren(id int32) []int32 {
	n := t.arena.At(allocator.RefFromIndex[Node[T]](id))
	ids := make([]int32, len(n.children))
	for i, c := range n.children {
		ids[i] = c.Int32()
	}
	return ids
}

// Arity returns M, the maximum number of elements per node.
func (t *Tree[T]) Arity() int { return t.m }

func (t *Tree[T]) minElems() int { return (t.m + 1) / 2 }

// Drop releases all nodes. The tree is left empty and reusable.
func (t *Tree[T]) Drop() {
	t.arena = allocator.New[Node[T]]()
	t.root = allocator.Nil[Node[T]]()
	t.size = 0
}

// ─── search ───────────────────────────────────────────────────────────────

// searchProbe binary-searches n's elements for probe, returning either the
// hit position or the insertion position (first index whose element
// compares greater than the target).
func (t *Tree[T]) searchProbe(n *Node[T], probe compare.Probe[T]) (int, bool) {
	lo, hi := 0, len(n.elems)
	for lo < hi {
		mid := (lo + hi) / 2
		c := probe(n.elems[mid])
		switch {
		case c == 0:
			return mid, true
		case c < 0:
			hi = mid
		default:
			lo = mid + 1
		}
	}
	return lo, false
}

// descend walks from the root toward the target, returning the node and
// index of a hit, or the leaf-level insertion position on a miss.
func (t *Tree[T]) descend(probe compare.Probe[T]) (ref allocator.Ref[Node[T]], idx int, hit bool) {
	if !t.root.Valid() {
		return allocator.Nil[Node[T]](), 0, false
	}
	ref = t.root
	for {
		n := t.arena.At(ref)
		i, h := t.searchProbe(n, probe)
		if h {
			return ref, i, true
		}
		if n.leaf() {
			return ref, i, false
		}
		ref = n.children[i]
	}
}

// ─── iteration ────────────────────────────────────────────────────────────

// Iter is a (node, intra-node index) pair, dereferenceable at any
// non-end position.
type Iter[T any] struct {
	tree *Tree[T]
	node allocator.Ref[Node[T]]
	idx  int
}

// Deref returns the element at the iterator's position. Undefined at end.
func (it Iter[T]) Deref() T {
	return it.tree.arena.At(it.node).elems[it.idx]
}

// DerefPtr returns a pointer to the element at the iterator's position.
func (it Iter[T]) DerefPtr() *T {
	return &it.tree.arena.At(it.node).elems[it.idx]
}

// Equal reports whether two iterators denote the same position.
func (it Iter[T]) Equal(other Iter[T]) bool {
	return it.node == other.node && it.idx == other.idx
}

// normalizeForward resolves a leaf-level position that may sit one past
// the last element of its node into a proper iterator, ascending through
// parent links the way ++ does.
func (t *Tree[T]) normalizeForward(ref allocator.Ref[Node[T]], idx int) Iter[T] {
	for {
		n := t.arena.At(ref)
		if idx < len(n.elems) {
			return Iter[T]{t, ref, idx}
		}
		if !n.parent.Valid() {
			return Iter[T]{t, ref, idx}
		}
		idx = n.parentIndex
		ref = n.parent
	}
}

// normalizeBackward resolves a leaf-level position one before the first
// candidate (idx-1) into a proper iterator, ascending the way -- does.
// Returns false if there is no predecessor at all.
func (t *Tree[T]) normalizeBackward(ref allocator.Ref[Node[T]], idx int) (Iter[T], bool) {
	for {
		if idx > 0 {
			return Iter[T]{t, ref, idx - 1}, true
		}
		n := t.arena.At(ref)
		if !n.parent.Valid() {
			return Iter[T]{}, false
		}
		idx = n.parentIndex
		ref = n.parent
	}
}

// Start returns an iterator at the smallest element.
func (t *Tree[T]) Start() Iter[T] {
	if !t.root.Valid() {
		return t.End()
	}
	ref := t.root
	for {
		n := t.arena.At(ref)
		if n.leaf() {
			return Iter[T]{t, ref, 0}
		}
		ref = n.children[0]
	}
}

// End returns the sentinel one-past-last iterator.
func (t *Tree[T]) End() Iter[T] {
	if !t.root.Valid() {
		return Iter[T]{t, allocator.Nil[Node[T]](), 0}
	}
	n := t.arena.At(t.root)
	return Iter[T]{t, t.root, len(n.elems)}
}

// Next advances the iterator to the in-order successor, returning false
// when there is none (the iterator is then at end). Advancing from end is
// undefined.
func (it *Iter[T]) Next() bool {
	t := it.tree
	n := t.arena.At(it.node)
	if !n.leaf() {
		it.node = n.children[it.idx+1]
		for {
			cn := t.arena.At(it.node)
			if cn.leaf() {
				it.idx = 0
				return true
			}
			it.node = cn.children[0]
		}
	}
	it.idx++
	for {
		cn := t.arena.At(it.node)
		if it.idx < len(cn.elems) {
			return true
		}
		if !cn.parent.Valid() {
			return false
		}
		it.idx = cn.parentIndex
		it.node = cn.parent
	}
}

// Prev retreats the iterator. Retreating from Start is undefined.
func (it *Iter[T]) Prev() bool {
	t := it.tree
	n := t.arena.At(it.node)
	if !n.leaf() {
		it.node = n.children[it.idx]
		for {
			cn := t.arena.At(it.node)
			if cn.leaf() {
				it.idx = len(cn.elems) - 1
				return true
			}
			it.node = cn.children[len(cn.children)-1]
		}
	}
	it.idx--
	for {
		if it.idx >= 0 {
			return true
		}
		cn := t.arena.At(it.node)
		if !cn.parent.Valid() {
			return false
		}
		it.idx = cn.parentIndex - 1
		it.node = cn.parent
	}
}

// ─── find ─────────────────────────────────────────────────────────────────

func (t *Tree[T]) probeFor(target T) compare.Probe[T] {
	return compare.FromElement(t.cmp, target)
}

// Find is an alias for FindEq.
func (t *Tree[T]) Find(target T) Iter[T] { return t.FindEq(target) }

func (t *Tree[T]) FindEq(target T) Iter[T] { return t.FindEqProbe(t.probeFor(target)) }
func (t *Tree[T]) FindLT(target T) Iter[T] { return t.FindLTProbe(t.probeFor(target)) }
func (t *Tree[T]) FindGT(target T) Iter[T] { return t.FindGTProbe(t.probeFor(target)) }
func (t *Tree[T]) FindLE(target T) Iter[T] { return t.FindLEProbe(t.probeFor(target)) }
func (t *Tree[T]) FindGE(target T) Iter[T] { return t.FindGEProbe(t.probeFor(target)) }

// FindEqProbe, and its siblings below, let a map probe by bare key instead
// of a full element; see omap.

func (t *Tree[T]) FindEqProbe(probe compare.Probe[T]) Iter[T] {
	ref, idx, hit := t.descend(probe)
	if !hit {
		return t.End()
	}
	return Iter[T]{t, ref, idx}
}

func (t *Tree[T]) FindGEProbe(probe compare.Probe[T]) Iter[T] {
	ref, idx, hit := t.descend(probe)
	if hit {
		return Iter[T]{t, ref, idx}
	}
	return t.normalizeForward(ref, idx)
}

func (t *Tree[T]) FindGTProbe(probe compare.Probe[T]) Iter[T] {
	ref, idx, hit := t.descend(probe)
	if hit {
		it := Iter[T]{t, ref, idx}
		it.Next()
		return it
	}
	return t.normalizeForward(ref, idx)
}

func (t *Tree[T]) FindLEProbe(probe compare.Probe[T]) Iter[T] {
	ref, idx, hit := t.descend(probe)
	if hit {
		return Iter[T]{t, ref, idx}
	}
	it, ok := t.normalizeBackward(ref, idx)
	if !ok {
		return t.End()
	}
	return it
}

func (t *Tree[T]) FindLTProbe(probe compare.Probe[T]) Iter[T] {
	ref, idx, hit := t.descend(probe)
	if hit {
		it := Iter[T]{t, ref, idx}
		if !it.Prev() {
			return t.End()
		}
		return it
	}
	it, ok := t.normalizeBackward(ref, idx)
	if !ok {
		return t.End()
	}
	return it
}

// Contains reports whether element (by the tree's comparator) is present.
func (t *Tree[T]) Contains(element T) bool {
	_, _, hit := t.descend(t.probeFor(element))
	return hit
}

// ─── insert ───────────────────────────────────────────────────────────────

// Insert adds element, returning false if an equal element is already
// present (duplicates are rejected, not updated).
func (t *Tree[T]) Insert(element T) bool {
	if !t.root.Valid() {
		ref := t.arena.Alloc()
		n := t.arena.At(ref)
		n.parent = allocator.Nil[Node[T]]()
		n.parentIndex = 0
		n.elems = append(n.elems, element)
		t.root = ref
		t.size++
		return true
	}

	promoted, newChild, split, inserted := t.insertNode(t.root, element)
	if !inserted {
		return false
	}
	if split {
		newRoot := t.arena.Alloc()
		nr := t.arena.At(newRoot)
		nr.parent = allocator.Nil[Node[T]]()
		nr.elems = append(nr.elems, promoted)
		nr.children = append(nr.children, t.root, newChild)
		t.fixChildBackrefs(newRoot)
		t.root = newRoot
	}
	t.size++
	return true
}

func (t *Tree[T]) insertNode(ref allocator.Ref[Node[T]], element T) (promoted T, newChild allocator.Ref[Node[T]], split, inserted bool) {
	n := t.arena.At(ref)
	i, hit := t.searchProbe(n, t.probeFor(element))
	if hit {
		return promoted, newChild, false, false
	}
	if n.leaf() {
		return t.insertIntoLeaf(ref, i, element)
	}
	child := n.children[i]
	p, nc, didSplit, ok := t.insertNode(child, element)
	if !ok {
		return promoted, newChild, false, false
	}
	if !didSplit {
		return promoted, newChild, false, true
	}
	return t.insertIntoInternal(ref, i, p, nc)
}

func (t *Tree[T]) insertIntoLeaf(ref allocator.Ref[Node[T]], i int, element T) (T, allocator.Ref[Node[T]], bool, bool) {
	n := t.arena.At(ref)
	if len(n.elems) < t.m {
		insertAt(&n.elems, i, element)
		var zero T
		return zero, allocator.Nil[Node[T]](), false, true
	}

	tmp := make([]T, 0, t.m+1)
	tmp = append(tmp, n.elems[:i]...)
	tmp = append(tmp, element)
	tmp = append(tmp, n.elems[i:]...)

	mid := len(tmp) / 2
	promoted := tmp[mid]
	n.elems = append([]T{}, tmp[:mid]...)

	sibRef := t.arena.Alloc()
	sib := t.arena.At(sibRef)
	sib.elems = append([]T{}, tmp[mid+1:]...)

	return promoted, sibRef, true, true
}

func (t *Tree[T]) insertIntoInternal(ref allocator.Ref[Node[T]], i int, promoted T, newChild allocator.Ref[Node[T]]) (T, allocator.Ref[Node[T]], bool, bool) {
	n := t.arena.At(ref)
	if len(n.elems) < t.m {
		insertAt(&n.elems, i, promoted)
		insertAt(&n.children, i+1, newChild)
		t.fixChildBackrefs(ref)
		var zero T
		return zero, allocator.Nil[Node[T]](), false, true
	}

	tmpElems := make([]T, 0, t.m+1)
	tmpElems = append(tmpElems, n.elems[:i]...)
	tmpElems = append(tmpElems, promoted)
	tmpElems = append(tmpElems, n.elems[i:]...)

	tmpChildren := make([]allocator.Ref[Node[T]], 0, t.m+2)
	tmpChildren = append(tmpChildren, n.children[:i+1]...)
	tmpChildren = append(tmpChildren, newChild)
	tmpChildren = append(tmpChildren, n.children[i+1:]...)

	mid := len(tmpElems) / 2
	promotedUp := tmpElems[mid]

	n.elems = append([]T{}, tmpElems[:mid]...)
	n.children = append([]allocator.Ref[Node[T]]{}, tmpChildren[:mid+1]...)
	t.fixChildBackrefs(ref)

	sibRef := t.arena.Alloc()
	sib := t.arena.At(sibRef)
	sib.elems = append([]T{}, tmpElems[mid+1:]...)
	sib.children = append([]allocator.Ref[Node[T]]{}, tmpChildren[mid+1:]...)
	t.fixChildBackrefs(sibRef)

	return promotedUp, sibRef, true, true
}

// insertAt grows s by one and shifts elements right of i to make room for
// v at position i.
func insertAt[E any](s *[]E, i int, v E) {
	var zero E
	*s = append(*s, zero)
	copy((*s)[i+1:], (*s)[i:len(*s)-1])
	(*s)[i] = v
}

// fixChildBackrefs resets parent/parentIndex on every child of ref to
// match its current position, after any change to ref's children slice.
func (t *Tree[T]) fixChildBackrefs(ref allocator.Ref[Node[T]]) {
	n := t.arena.At(ref)
	for idx, c := range n.children {
		cn := t.arena.At(c)
		cn.parent = ref
		cn.parentIndex = idx
	}
}

// ─── delete ───────────────────────────────────────────────────────────────

// Remove deletes the element at it. A no-op if it is the end iterator.
func (t *Tree[T]) Remove(it Iter[T]) {
	if it.Equal(t.End()) {
		return
	}
	ref, idx := it.node, it.idx
	n := t.arena.At(ref)

	if !n.leaf() {
		succRef := n.children[idx+1]
		for {
			sn := t.arena.At(succRef)
			if sn.leaf() {
				break
			}
			succRef = sn.children[0]
		}
		sn := t.arena.At(succRef)
		n.elems[idx] = sn.elems[0]
		ref, idx, n = succRef, 0, sn
	}

	copy(n.elems[idx:], n.elems[idx+1:])
	n.elems = n.elems[:len(n.elems)-1]
	t.size--
	t.rebalance(ref)
}

// rebalance restores the fill invariant bottom-up from a leaf that has
// just lost an element: borrow from a sibling with slack, else merge with
// one, recursing on the depleted parent.
func (t *Tree[T]) rebalance(ref allocator.Ref[Node[T]]) {
	for {
		n := t.arena.At(ref)
		if ref == t.root {
			if len(n.elems) == 0 && !n.leaf() {
				newRoot := n.children[0]
				t.root = newRoot
				rn := t.arena.At(newRoot)
				rn.parent = allocator.Nil[Node[T]]()
				rn.parentIndex = 0
				t.arena.Dealloc(ref)
			}
			return
		}

		min := t.minElems()
		if len(n.elems) >= min {
			return
		}

		parentRef := n.parent
		pIdx := n.parentIndex
		parent := t.arena.At(parentRef)

		if pIdx > 0 {
			leftRef := parent.children[pIdx-1]
			if len(t.arena.At(leftRef).elems) > min {
				t.borrowFromLeft(parentRef, pIdx, leftRef, ref)
				return
			}
		}
		if pIdx < len(parent.children)-1 {
			rightRef := parent.children[pIdx+1]
			if len(t.arena.At(rightRef).elems) > min {
				t.borrowFromRight(parentRef, pIdx, ref, rightRef)
				return
			}
		}

		if pIdx > 0 {
			leftRef := parent.children[pIdx-1]
			t.mergeNodes(parentRef, pIdx-1, leftRef, ref)
		} else {
			rightRef := parent.children[pIdx+1]
			t.mergeNodes(parentRef, pIdx, ref, rightRef)
		}
		ref = parentRef
	}
}

func (t *Tree[T]) borrowFromLeft(parentRef allocator.Ref[Node[T]], pIdx int, leftRef, childRef allocator.Ref[Node[T]]) {
	parent := t.arena.At(parentRef)
	left := t.arena.At(leftRef)
	child := t.arena.At(childRef)
	sepIdx := pIdx - 1

	insertAt(&child.elems, 0, parent.elems[sepIdx])
	parent.elems[sepIdx] = left.elems[len(left.elems)-1]
	left.elems = left.elems[:len(left.elems)-1]

	if !left.leaf() {
		moved := left.children[len(left.children)-1]
		left.children = left.children[:len(left.children)-1]
		insertAt(&child.children, 0, moved)
		t.fixChildBackrefs(childRef)
	}
}

func (t *Tree[T]) borrowFromRight(parentRef allocator.Ref[Node[T]], pIdx int, childRef, rightRef allocator.Ref[Node[T]]) {
	parent := t.arena.At(parentRef)
	child := t.arena.At(childRef)
	right := t.arena.At(rightRef)
	sepIdx := pIdx

	child.elems = append(child.elems, parent.elems[sepIdx])
	parent.elems[sepIdx] = right.elems[0]
	copy(right.elems, right.elems[1:])
	right.elems = right.elems[:len(right.elems)-1]

	if !right.leaf() {
		moved := right.children[0]
		copy(right.children, right.children[1:])
		right.children = right.children[:len(right.children)-1]
		child.children = append(child.children, moved)
		t.fixChildBackrefs(childRef)
		t.fixChildBackrefs(rightRef)
	}
}

func (t *Tree[T]) mergeNodes(parentRef allocator.Ref[Node[T]], sepIdx int, leftRef, rightRef allocator.Ref[Node[T]]) {
	parent := t.arena.At(parentRef)
	left := t.arena.At(leftRef)
	right := t.arena.At(rightRef)

	left.elems = append(left.elems, parent.elems[sepIdx])
	left.elems = append(left.elems, right.elems...)
	if !left.leaf() {
		left.children = append(left.children, right.children...)
		t.fixChildBackrefs(leftRef)
	}

	copy(parent.elems[sepIdx:], parent.elems[sepIdx+1:])
	parent.elems = parent.elems[:len(parent.elems)-1]
	copy(parent.children[sepIdx+1:], parent.children[sepIdx+2:])
	parent.children = parent.children[:len(parent.children)-1]
	t.fixChildBackrefs(parentRef)

	t.arena.Dealloc(rightRef)
}
