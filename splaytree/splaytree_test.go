package splaytree

import "testing"

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

// S4. Insert 1, 2, 3 in order; the root equals the last-inserted element
// each time; find(2) then splays 2 to the root.
func TestInsertSplaysToRoot(t *testing.T) {
	tr := New[int]()
	for _, v := range []int{1, 2, 3} {
		tr.Insert(v)
		id, ok := tr.RootID()
		if !ok {
			t.Fatal("expected a root")
		}
		if got := tr.NodeElem(id); got != v {
			t.Fatalf("after insert(%d), root = %d, want %d", v, got, v)
		}
	}

	tr.Find(2)
	id, _ := tr.RootID()
	if got := tr.NodeElem(id); got != 2 {
		t.Fatalf("after find(2), root = %d, want 2", got)
	}
}

// S5. Build {1, 2, 3}; remove(find(2)); contains(2) is false,
// contains(1)/contains(3) hold; Count() == 2; removing a missing element
// is a no-op.
func TestRemoveMiddleElement(t *testing.T) {
	tr := New[int]()
	tr.Insert(1)
	tr.Insert(2)
	tr.Insert(3)

	tr.Remove(tr.Find(2))

	if tr.Contains(2) {
		t.Error("expected contains(2) == false after removal")
	}
	if !tr.Contains(1) || !tr.Contains(3) {
		t.Error("expected 1 and 3 to remain")
	}
	if got := tr.Count(); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}

	tr.Remove(tr.Find(4))
	if got := tr.Count(); got != 2 {
		t.Errorf("Count() after no-op remove = %d, want 2", got)
	}
}

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
	if tr.Count() != 1 {
		t.Fatalf("expected count 1, got %d", tr.Count())
	}
}

func TestRemoveNoOpAtEnd(t *testing.T) {
	tr := New[int]()
	tr.Insert(1)
	tr.Remove(tr.End())
	if tr.Count() != 1 {
		t.Fatalf("expected no-op remove, count %d", tr.Count())
	}
}

func TestInOrderWalkMatchesSortedOrder(t *testing.T) {
	tr := New[int]()
	values := []int{50, 20, 80, 10, 30, 70, 90, 5, 15, 25, 35}
	for _, v := range values {
		tr.Insert(v)
	}
	want := append([]int(nil), values...)
	for i := 0; i < len(want); i++ {
		for j := i + 1; j < len(want); j++ {
			if want[j] < want[i] {
				want[i], want[j] = want[j], want[i]
			}
		}
	}
	assertSlice(t, collect(t, tr), want)
}

func TestInsertDeleteManyMaintainsOrder(t *testing.T) {
	tr := New[int]()
	const n = 300
	for i := 0; i < n; i++ {
		tr.Insert(i)
	}
	for i := 0; i < n; i += 2 {
		tr.Remove(tr.FindEq(i))
	}
	if got := tr.Count(); got != n/2 {
		t.Fatalf("expected %d elements remaining, got %d", n/2, got)
	}
	want := make([]int, 0, n/2)
	for i := 1; i < n; i += 2 {
		want = append(want, i)
	}
	assertSlice(t, collect(t, tr), want)
}

func TestBidirectionalIteration(t *testing.T) {
	tr := New[int]()
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

func TestNodeChildrenOmitsAbsent(t *testing.T) {
	tr := New[int]()
	tr.Insert(10)
	tr.Insert(20)
	id, _ := tr.RootID()
	children := tr.NodeChildren(id)
	if len(children) != 1 {
		t.Fatalf("expected 1 child (left only), got %d", len(children))
	}
}
