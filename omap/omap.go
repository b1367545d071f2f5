// Package omap implements an ordered map as a set of (key, value) pairs
// ordered on key only, over either the btree or splaytree backend
// (spec §4.4). Duplicate keys are rejected on insert; there is no
// update-on-conflict form.
package omap

import (
	"cmp"

	"github.com/btree-query-bench/containers/btree"
	"github.com/btree-query-bench/containers/compare"
	"github.com/btree-query-bench/containers/splaytree"
)

// Pair is a key/value element whose ordering considers only Key.
type Pair[K any, V any] struct {
	Key   K
	Value V
}

func pairCompare[K any, V any](keyCmp compare.Func[K]) compare.Func[Pair[K, V]] {
	return func(a, b Pair[K, V]) int { return keyCmp(a.Key, b.Key) }
}

func keyProbe[K any, V any](keyCmp compare.Func[K], key K) compare.Probe[Pair[K, V]] {
	return func(candidate Pair[K, V]) int { return keyCmp(key, candidate.Key) }
}

// BTreeMap is an ordered map backed by a B-tree.
type BTreeMap[K any, V any] struct {
	tree   *btree.Tree[Pair[K, V]]
	keyCmp compare.Func[K]
}

// NewBTreeMap returns an empty map over a naturally-ordered key type,
// using the B-tree's default arity.
func NewBTreeMap[K cmp.Ordered, V any]() *BTreeMap[K, V] {
	return NewBTreeMapFunc[K, V](compare.Natural[K]())
}

// NewBTreeMapFunc returns an empty map using an explicit key comparator.
func NewBTreeMapFunc[K any, V any](keyCmp compare.Func[K]) *BTreeMap[K, V] {
	return &BTreeMap[K, V]{
		tree:   btree.NewFunc[Pair[K, V]](pairCompare[K, V](keyCmp)),
		keyCmp: keyCmp,
	}
}

func (m *BTreeMap[K, V]) Drop()    { m.tree.Drop() }
func (m *BTreeMap[K, V]) Size() int { return m.tree.Size() }

// Insert adds (key, value), returning false if key is already present.
func (m *BTreeMap[K, V]) Insert(key K, value V) bool {
	return m.tree.Insert(Pair[K, V]{Key: key, Value: value})
}

func (m *BTreeMap[K, V]) probe(key K) compare.Probe[Pair[K, V]] {
	return keyProbe[K, V](m.keyCmp, key)
}

func (m *BTreeMap[K, V]) FindEq(key K) btree.Iter[Pair[K, V]] { return m.tree.FindEqProbe(m.probe(key)) }
func (m *BTreeMap[K, V]) FindLT(key K) btree.Iter[Pair[K, V]] { return m.tree.FindLTProbe(m.probe(key)) }
func (m *BTreeMap[K, V]) FindGT(key K) btree.Iter[Pair[K, V]] { return m.tree.FindGTProbe(m.probe(key)) }
func (m *BTreeMap[K, V]) FindLE(key K) btree.Iter[Pair[K, V]] { return m.tree.FindLEProbe(m.probe(key)) }
func (m *BTreeMap[K, V]) FindGE(key K) btree.Iter[Pair[K, V]] { return m.tree.FindGEProbe(m.probe(key)) }

// StartIter and EndIter are aliases for FindGE, per spec §6.
func (m *BTreeMap[K, V]) StartIter(key K) btree.Iter[Pair[K, V]] { return m.FindGE(key) }
func (m *BTreeMap[K, V]) EndIter(key K) btree.Iter[Pair[K, V]]   { return m.FindGE(key) }

func (m *BTreeMap[K, V]) Start() btree.Iter[Pair[K, V]] { return m.tree.Start() }
func (m *BTreeMap[K, V]) End() btree.Iter[Pair[K, V]]   { return m.tree.End() }

func (m *BTreeMap[K, V]) Contains(key K) bool {
	return !m.FindEq(key).Equal(m.End())
}

func (m *BTreeMap[K, V]) Remove(it btree.Iter[Pair[K, V]]) { m.tree.Remove(it) }

// SplayMap is an ordered map backed by a splay tree.
type SplayMap[K any, V any] struct {
	tree   *splaytree.Tree[Pair[K, V]]
	keyCmp compare.Func[K]
}

// NewSplayMap returns an empty map over a naturally-ordered key type.
func NewSplayMap[K cmp.Ordered, V any]() *SplayMap[K, V] {
	return NewSplayMapFunc[K, V](compare.Natural[K]())
}

// NewSplayMapFunc returns an empty map using an explicit key comparator.
func NewSplayMapFunc[K any, V any](keyCmp compare.Func[K]) *SplayMap[K, V] {
	return &SplayMap[K, V]{
		tree:   splaytree.NewFunc[Pair[K, V]](pairCompare[K, V](keyCmp)),
		keyCmp: keyCmp,
	}
}

func (m *SplayMap[K, V]) Drop()     { m.tree.Drop() }
func (m *SplayMap[K, V]) Count() int { return m.tree.Count() }

// Insert adds (key, value), returning false if key is already present.
func (m *SplayMap[K, V]) Insert(key K, value V) bool {
	return m.tree.Insert(Pair[K, V]{Key: key, Value: value})
}

func (m *SplayMap[K, V]) probe(key K) compare.Probe[Pair[K, V]] {
	return keyProbe[K, V](m.keyCmp, key)
}

func (m *SplayMap[K, V]) FindEq(key K) splaytree.Iter[Pair[K, V]] {
	return m.tree.FindEqProbe(m.probe(key))
}
func (m *SplayMap[K, V]) FindLT(key K) splaytree.Iter[Pair[K, V]] {
	return m.tree.FindLTProbe(m.probe(key))
}
func (m *SplayMap[K, V]) FindGT(key K) splaytree.Iter[Pair[K, V]] {
	return m.tree.FindGTProbe(m.probe(key))
}
func (m *SplayMap[K, V]) FindLE(key K) splaytree.Iter[Pair[K, V]] {
	return m.tree.FindLEProbe(m.probe(key))
}
func (m *SplayMap[K, V]) FindGE(key K) splaytree.Iter[Pair[K, V]] {
	return m.tree.FindGEProbe(m.probe(key))
}

// StartIter and EndIter are aliases for FindGE, per spec §6.
func (m *SplayMap[K, V]) StartIter(key K) splaytree.Iter[Pair[K, V]] { return m.FindGE(key) }
func (m *SplayMap[K, V]) EndIter(key K) splaytree.Iter[Pair[K, V]]   { return m.FindGE(key) }

func (m *SplayMap[K, V]) Start() splaytree.Iter[Pair[K, V]] { return m.tree.Start() }
func (m *SplayMap[K, V]) End() splaytree.Iter[Pair[K, V]]   { return m.tree.End() }

func (m *SplayMap[K, V]) Contains(key K) bool {
	return m.tree.Contains(Pair[K, V]{Key: key})
}

func (m *SplayMap[K, V]) Remove(it splaytree.Iter[Pair[K, V]]) { m.tree.Remove(it) }
