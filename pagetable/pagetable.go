// Package pagetable implements a stable-identifier store: a 512-way radix
// trie over dense leaves, mapping monotonically assigned 64-bit ids to
// fixed-size element slots. Once written, a slot's address never changes,
// so a reference returned by Lookup stays valid for the table's lifetime.
//
// Grounded on original_source/src/page_table.{hpp,cpp} (ds::pt::Page_Table),
// generalized from C++ templates + intrusive void* children to Go generics
// over an allocator.Arena, sized against the same 4 KiB page convention
// used for the B-tree's default arity.
package pagetable

import (
	"math/bits"
	"unsafe"

	"github.com/cockroachdb/errors"

	"github.com/btree-query-bench/containers/allocator"
)

const (
	pageBytes    = 4096
	childrenWide = 512 // 9 bits of id routed per branch level
	eachBits     = 9
)

// branchNode is a 512-way fan-out node. children[i] is either -1 (empty)
// or a raw arena index; into the branch arena for every level except the
// one directly above the leaves, where it indexes the leaf arena instead.
// Which arena a given slot addresses is determined entirely by depth, the
// same way the original's `void*` children were cast based on depth.
type branchNode struct {
	children [childrenWide]int32
}

// leafNode holds LEAF_LEN contiguous element slots.
type leafNode[T any] struct {
	elems []T
}

// Table is the page table described in spec §4.1: add(value) -> id,
// lookup(id) -> &value | none.
type Table[T any] struct {
	branches *allocator.Arena[branchNode]
	leaves   *allocator.Arena[leafNode[T]]

	rootIsLeaf bool
	rootBranch allocator.Ref[branchNode]
	rootLeaf   allocator.Ref[leafNode[T]]

	depth  uint8
	nextID uint64

	leafLen  int
	leafBase uint // log2(leafLen)
}

// New returns an empty page table sized for T: LEAF_LEN is the largest
// power of two <= 4096 / round_up_pow2(sizeof(T)), clamped to >= 1.
func New[T any]() *Table[T] {
	ll := leafLenFor[T]()
	return &Table[T]{
		branches: allocator.New[branchNode](),
		leaves:   allocator.New[leafNode[T]](),
		leafLen:  ll,
		leafBase: uint(bits.TrailingZeros(uint(ll))),
	}
}

func roundUpPow2(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

func leafLenFor[T any]() int {
	var zero T
	size := uint64(unsafe.Sizeof(zero))
	if size == 0 {
		size = 1
	}
	rounded := roundUpPow2(size)
	perPage := pageBytes / rounded
	if perPage < 1 {
		perPage = 1
	}
	// perPage is already a power of two (pageBytes and rounded both are,
	// and pageBytes/rounded divides evenly whenever rounded <= pageBytes);
	// largestPow2LE below is defensive in case rounded > pageBytes made the
	// division truncate to something that isn't.
	return int(largestPow2LE(perPage))
}

func largestPow2LE(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	p := uint64(1)
	for p*2 <= n {
		p *= 2
	}
	return p
}

// LeafLen returns the number of elements stored per leaf for this table's
// element type; exposed mainly for tests asserting the sizing formula.
func (t *Table[T]) LeafLen() int { return t.leafLen }

// Len returns the number of ids ever assigned (== next id to hand out).
func (t *Table[T]) Len() uint64 { return t.nextID }

func (t *Table[T]) newLeaf() allocator.Ref[leafNode[T]] {
	ref := t.leaves.Alloc()
	t.leaves.At(ref).elems = make([]T, t.leafLen)
	return ref
}

func (t *Table[T]) newBranch() allocator.Ref[branchNode] {
	ref := t.branches.Alloc()
	bn := t.branches.At(ref)
	for i := range bn.children {
		bn.children[i] = -1
	}
	return ref
}

// Add assigns the next id (monotonically, from 0) to value and returns it.
func (t *Table[T]) Add(value T) uint64 {
	id := t.nextID
	t.nextID++

	base := t.leafBase
	baseMask := uint64(1)<<base - 1
	eachMask := uint64(1)<<eachBits - 1

	if t.depth == 0 {
		ref := t.newLeaf()
		t.leaves.At(ref).elems[0] = value
		t.rootLeaf = ref
		t.rootIsLeaf = true
		t.depth = 1
		return id
	}

	depth := t.depth
	totalShift := uint(depth-1)*eachBits + base
	if id == uint64(1)<<totalShift {
		newBranch := t.newBranch()
		nb := t.branches.At(newBranch)
		if t.rootIsLeaf {
			nb.children[0] = t.rootLeaf.Int32()
		} else {
			nb.children[0] = t.rootBranch.Int32()
		}
		t.rootBranch = newBranch
		t.rootIsLeaf = false
		depth++
		t.depth = depth
	}

	if depth == 1 {
		t.leaves.At(t.rootLeaf).elems[id&baseMask] = value
		return id
	}

	curBranch := t.rootBranch
	for i := depth - 1; i >= 1; i-- {
		shift := uint(i-1)*eachBits + base
		index := (id >> shift) & eachMask
		bn := t.branches.At(curBranch)
		child := bn.children[index]

		if i > 1 {
			if child < 0 {
				nr := t.newBranch()
				// newBranch may grow the branch arena, so bn can be stale.
				t.branches.At(curBranch).children[index] = nr.Int32()
				child = nr.Int32()
			}
			curBranch = allocator.RefFromIndex[branchNode](child)
			continue
		}

		if child < 0 {
			nr := t.newLeaf()
			bn.children[index] = nr.Int32()
			child = nr.Int32()
		}
		leafRef := allocator.RefFromIndex[leafNode[T]](child)
		t.leaves.At(leafRef).elems[id&baseMask] = value
		return id
	}

	panic(errors.AssertionFailedf("pagetable: add(%d) fell through descent", id))
}

// Lookup returns a pointer to the element stored at id, or nil and false
// if id has never been assigned. The pointer remains valid across any
// later Add calls; slots are never relocated once written.
func (t *Table[T]) Lookup(id uint64) (*T, bool) {
	if id >= t.nextID || t.depth == 0 {
		return nil, false
	}

	base := t.leafBase
	baseMask := uint64(1)<<base - 1
	eachMask := uint64(1)<<eachBits - 1

	if t.depth == 1 {
		return &t.leaves.At(t.rootLeaf).elems[id&baseMask], true
	}

	curBranch := t.rootBranch
	for i := t.depth - 1; i >= 1; i-- {
		shift := uint(i-1)*eachBits + base
		index := (id >> shift) & eachMask
		bn := t.branches.At(curBranch)
		child := bn.children[index]
		if child < 0 {
			panic(errors.AssertionFailedf("pagetable: lookup(%d) hit an unset slot below next_id", id))
		}

		if i > 1 {
			curBranch = allocator.RefFromIndex[branchNode](child)
			continue
		}

		leafRef := allocator.RefFromIndex[leafNode[T]](child)
		return &t.leaves.At(leafRef).elems[id&baseMask], true
	}

	return nil, false
}

// Drop releases the table's storage. Like the trees, the page table owns
// its arenas outright rather than taking an allocator handle per call;
// every slot it ever allocates is reachable only through this table.
func (t *Table[T]) Drop() {
	*t = *New[T]()
}
