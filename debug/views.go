package debug

import (
	"strconv"

	"github.com/btree-query-bench/containers/btree"
	"github.com/btree-query-bench/containers/splaytree"
)

// BTreeView adapts a btree.Tree[T] to Describable for ExportDOT/RenderPNG.
type BTreeView[T any] struct {
	Tree   *btree.Tree[T]
	Format func(T) string
}

func (v BTreeView[T]) Root() string {
	id, ok := v.Tree.RootID()
	if !ok {
		return ""
	}
	return strconv.Itoa(int(id))
}

func (v BTreeView[T]) Describe(id string) NodeShape {
	raw, _ := strconv.Atoi(id)
	elemsT := v.Tree.NodeElems(int32(raw))
	elems := make([]string, len(elemsT))
	for i, e := range elemsT {
		elems[i] = v.Format(e)
	}
	childIDs := v.Tree.NodeChildren(int32(raw))
	children := make([]string, len(childIDs))
	for i, c := range childIDs {
		children[i] = strconv.Itoa(int(c))
	}
	return NodeShape{ID: id, Elems: elems, Children: children}
}

// SplayView adapts a splaytree.Tree[T] to Describable for
// ExportDOT/RenderPNG.
type SplayView[T any] struct {
	Tree   *splaytree.Tree[T]
	Format func(T) string
}

func (v SplayView[T]) Root() string {
	id, ok := v.Tree.RootID()
	if !ok {
		return ""
	}
	return strconv.Itoa(int(id))
}

func (v SplayView[T]) Describe(id string) NodeShape {
	raw, _ := strconv.Atoi(id)
	elem := v.Tree.NodeElem(int32(raw))
	childIDs := v.Tree.NodeChildren(int32(raw))
	children := make([]string, len(childIDs))
	for i, c := range childIDs {
		children[i] = strconv.Itoa(int(c))
	}
	return NodeShape{ID: id, Elems: []string{v.Format(elem)}, Children: children}
}
