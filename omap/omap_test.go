package omap

import "testing"

func TestBTreeMapInsertFindRemove(t *testing.T) {
	m := NewBTreeMap[int, string]()
	if !m.Insert(1, "one") {
		t.Fatal("first insert should succeed")
	}
	if m.Insert(1, "uno") {
		t.Fatal("duplicate key insert should fail")
	}
	m.Insert(2, "two")
	m.Insert(3, "three")

	it := m.FindEq(2)
	if it.Equal(m.End()) {
		t.Fatal("expected key 2 to be found")
	}
	if got := it.Deref().Value; got != "two" {
		t.Errorf("got value %q, want %q", got, "two")
	}

	if !m.Contains(1) {
		t.Error("expected Contains(1)")
	}
	if m.Contains(99) {
		t.Error("expected !Contains(99)")
	}

	m.Remove(m.FindEq(2))
	if m.Contains(2) {
		t.Error("expected key 2 removed")
	}
	if m.Size() != 2 {
		t.Errorf("Size() = %d, want 2", m.Size())
	}
}

func TestBTreeMapOrderedWalk(t *testing.T) {
	m := NewBTreeMap[int, int]()
	for _, k := range []int{5, 1, 4, 2, 3} {
		m.Insert(k, k*10)
	}
	var keys []int
	for it := m.Start(); !it.Equal(m.End()); it.Next() {
		keys = append(keys, it.Deref().Key)
	}
	want := []int{1, 2, 3, 4, 5}
	if len(keys) != len(want) {
		t.Fatalf("got %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("got %v, want %v", keys, want)
		}
	}
}

func TestSplayMapInsertFindRemove(t *testing.T) {
	m := NewSplayMap[string, int]()
	if !m.Insert("a", 1) {
		t.Fatal("first insert should succeed")
	}
	if m.Insert("a", 2) {
		t.Fatal("duplicate key insert should fail")
	}
	m.Insert("b", 2)
	m.Insert("c", 3)

	it := m.FindEq("b")
	if it.Equal(m.End()) {
		t.Fatal("expected key b to be found")
	}
	if got := it.Deref().Value; got != 2 {
		t.Errorf("got value %d, want 2", got)
	}

	if !m.Contains("a") {
		t.Error("expected Contains(a)")
	}

	m.Remove(m.FindEq("b"))
	if m.Contains("b") {
		t.Error("expected key b removed")
	}
	if m.Count() != 2 {
		t.Errorf("Count() = %d, want 2", m.Count())
	}
}

func TestMapStartIterEndIterAliasFindGE(t *testing.T) {
	m := NewBTreeMap[int, int]()
	m.Insert(10, 1)
	m.Insert(20, 2)
	m.Insert(30, 3)

	if !m.StartIter(15).Equal(m.FindGE(15)) {
		t.Error("StartIter should alias FindGE")
	}
	if !m.EndIter(15).Equal(m.FindGE(15)) {
		t.Error("EndIter should alias FindGE")
	}
}
