package btree

import (
	"testing"

	"github.com/btree-query-bench/containers/compare"
)

func collect(t *testing.T, tr *Tree[int]) []int {
	t.Helper()
	var out []int
	for it := tr.Start(); !it.Equal(tr.End()); it.Next() {
		out = append(out, it.Deref())
	}
	return out
}

func assertSlice(t *testing.T, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("mismatch at %d: got %v, want %v", i, got, want)
		}
	}
}

func checkStructure[T any](t *testing.T, tr *Tree[T], ref int32, depth int, leafDepth *int) {
	t.Helper()
	elems := tr.NodeElems(ref)
	children := tr.NodeChildren(ref)

	if len(children) == 0 {
		if *leafDepth == -1 {
			*leafDepth = depth
		} else if *leafDepth != depth {
			t.Errorf("leaf at depth %d, expected %d (all leaves must be equal depth)", depth, *leafDepth)
		}
	} else if len(children) != len(elems)+1 {
		t.Errorf("node has %d elements but %d children", len(elems), len(children))
	}
	if m := tr.Arity(); depth > 0 && (len(elems) < (m+1)/2 || len(elems) > m) {
		t.Errorf("non-root node has %d elements, want %d to %d", len(elems), (m+1)/2, m)
	}

	for _, c := range children {
		checkStructure[T](t, tr, c, depth+1, leafDepth)
	}
}

// S1. B-tree arity 4, ascending: insert 0..99; after each, in-order walk
// yields 0..i; final tree has equi-depth leaves and 2-4 elements per
// non-root node.
func TestAscendingArity4(t *testing.T) {
	tr := NewWithArity[int](compare.Natural[int](), 4)
	for i := 0; i < 100; i++ {
		if !tr.Insert(i) {
			t.Fatalf("Insert(%d) unexpectedly returned false", i)
		}
		assertSlice(t, collect(t, tr), seq(i+1))
	}

	root, ok := tr.RootID()
	if !ok {
		t.Fatal("expected non-empty tree")
	}
	leafDepth := -1
	checkStructure[int](t, tr, root, 0, &leafDepth)
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// S2. B-tree arity 4, split sequence.
func TestSplitSequenceArity4(t *testing.T) {
	tr := NewWithArity[int](compare.Natural[int](), 4)
	for _, v := range []int{10, 7, 13, 61, -1, 2, 31} {
		tr.Insert(v)
	}
	assertSlice(t, collect(t, tr), []int{-1, 2, 7, 10, 13, 31, 61})

	root, _ := tr.RootID()
	if n := len(tr.NodeElems(root)); n != 1 {
		t.Errorf("expected root with 1 element, got %d", n)
	}
	children := tr.NodeChildren(root)
	if len(children) != 2 {
		t.Fatalf("expected 2 children of root, got %d", len(children))
	}
	for _, c := range children {
		if n := len(tr.NodeElems(c)); n != 3 {
			t.Errorf("expected child with 3 elements, got %d", n)
		}
	}
}

// S3. B-tree find family on {1, 3}.
func TestFindFamily(t *testing.T) {
	tr := New[int]()
	tr.Insert(1)
	tr.Insert(3)

	if !tr.Find(2).Equal(tr.End()) {
		t.Errorf("find(2) should be end")
	}
	if got := tr.FindLT(3).Deref(); got != 1 {
		t.Errorf("find_lt(3) = %d, want 1", got)
	}
	if !tr.FindLT(1).Equal(tr.End()) {
		t.Errorf("find_lt(1) should be end")
	}
	if !tr.FindGT(3).Equal(tr.End()) {
		t.Errorf("find_gt(3) should be end")
	}
	if got := tr.FindGE(2).Deref(); got != 3 {
		t.Errorf("find_ge(2) = %d, want 3", got)
	}
	if !tr.FindLE(0).Equal(tr.End()) {
		t.Errorf("find_le(0) should be end")
	}
	if got := tr.FindLE(4).Deref(); got != 3 {
		t.Errorf("find_le(4) = %d, want 3", got)
	}
}

func TestInsertRejectsDuplicates(t *testing.T) {
	tr := New[int]()
	if !tr.Insert(5) {
		t.Fatal("first insert should return true")
	}
	if tr.Insert(5) {
		t.Fatal("second insert of same element should return false")
	}
	if tr.Size() != 1 {
		t.Fatalf("expected size 1, got %d", tr.Size())
	}
}

func TestRemoveNoOpAtEnd(t *testing.T) {
	tr := New[int]()
	tr.Insert(1)
	tr.Remove(tr.End())
	if tr.Size() != 1 {
		t.Fatalf("expected no-op remove, size %d", tr.Size())
	}
}

func TestInsertDeleteManyMaintainsOrderAndFill(t *testing.T) {
	tr := NewWithArity[int](compare.Natural[int](), 4)
	const n = 500
	for i := 0; i < n; i++ {
		tr.Insert(i)
	}
	for i := 0; i < n; i += 2 {
		tr.Remove(tr.FindEq(i))
	}
	if tr.Size() != n/2 {
		t.Fatalf("expected %d elements remaining, got %d", n/2, tr.Size())
	}
	want := make([]int, 0, n/2)
	for i := 1; i < n; i += 2 {
		want = append(want, i)
	}
	assertSlice(t, collect(t, tr), want)

	root, ok := tr.RootID()
	if ok {
		leafDepth := -1
		checkStructure[int](t, tr, root, 0, &leafDepth)
	}
}

func TestBidirectionalIteration(t *testing.T) {
	tr := NewWithArity[int](compare.Natural[int](), 4)
	for i := 0; i < 50; i++ {
		tr.Insert(i)
	}

	it := tr.End()
	it.Prev()
	var got []int
	for {
		got = append(got, it.Deref())
		if !it.Prev() {
			break
		}
	}
	want := make([]int, 50)
	for i := range want {
		want[i] = 49 - i
	}
	assertSlice(t, got, want)
}

func TestRoundTripFindGEThenPrev(t *testing.T) {
	tr := New[int]()
	for _, v := range []int{10, 20, 30, 40} {
		tr.Insert(v)
	}
	it := tr.FindGE(25)
	if got := it.Deref(); got != 30 {
		t.Fatalf("find_ge(25) = %d, want 30", got)
	}
	if !it.Prev() {
		t.Fatal("expected a predecessor")
	}
	if got := it.Deref(); got != 20 {
		t.Fatalf("predecessor of find_ge(25) = %d, want 20", got)
	}
}

func TestDefaultArityAtLeastFour(t *testing.T) {
	if m := DefaultArity[int](); m < 4 {
		t.Errorf("expected default arity >= 4, got %d", m)
	}
}
