// Package debug renders trees as Graphviz .dot files (and, when the dot
// binary is present, PNGs), for visual inspection during development. It
// carries no invariants of its own; it is a debug/inspection aid, not
// part of the core algorithm surface (SPEC_FULL.md §4.5).
//
// Grounded on dbms/index/shared/tree.go's Print/ExportDOT, generalized
// from that disk B-tree's fixed page-cell layout to any tree that can
// describe itself through the small Describable interface below.
package debug

import (
	"fmt"
	"os"
	"os/exec"
)

// NodeShape describes one node of a tree being exported: its elements
// (already formatted for display) and the child node ids reachable from
// it, in left-to-right order. An empty Children means a leaf.
type NodeShape struct {
	ID       string
	Elems    []string
	Children []string
}

// Describable is implemented by anything ExportDOT can walk: a root node
// id (empty string for an empty tree) plus a way to look up any node's
// shape by id.
type Describable interface {
	Root() string
	Describe(id string) NodeShape
}

// ExportDOT writes tree as a Graphviz digraph to filename.
func ExportDOT(tree Describable, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintln(f, "digraph Tree {")
	fmt.Fprintln(f, "  graph [ranksep=0.6, nodesep=0.4, bgcolor=\"#ffffff\", rankdir=TB];")
	fmt.Fprintln(f, "  node [shape=none, fontname=\"Helvetica\", fontsize=10];")
	fmt.Fprintln(f, "  edge [arrowsize=0.7, color=\"#444444\"];")

	root := tree.Root()
	if root == "" {
		fmt.Fprintln(f, "  empty [label=\"(empty)\"];")
		fmt.Fprintln(f, "}")
		return nil
	}

	visited := map[string]bool{}
	var walk func(id string)
	walk = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true

		n := tree.Describe(id)
		kind := "INTERNAL"
		color := "#DAE8FC"
		if len(n.Children) == 0 {
			kind = "LEAF"
			color = "#D5E8D4"
		}

		label := fmt.Sprintf(`<<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0" CELLPADDING="4">`+
			`<TR><TD BGCOLOR="%s"><B>%s</B></TD></TR>`, color, kind)
		for _, e := range n.Elems {
			label += fmt.Sprintf("<TR><TD>%s</TD></TR>", e)
		}
		label += "</TABLE>>"

		fmt.Fprintf(f, "  %q [label=%s];\n", id, label)
		for _, c := range n.Children {
			fmt.Fprintf(f, "  %q -> %q;\n", id, c)
			walk(c)
		}
	}
	walk(root)

	fmt.Fprintln(f, "}")
	return nil
}

// RenderPNG exports tree as a .dot file at dotPath and, if the dot binary
// is on PATH, renders it to a .png beside it. Errors from the Graphviz
// invocation are non-fatal; the .dot file is still usable on its own.
func RenderPNG(tree Describable, dotPath, pngPath string) error {
	if err := ExportDOT(tree, dotPath); err != nil {
		return err
	}
	cmd := exec.Command("dot", "-Tpng", dotPath, "-o", pngPath)
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "graphviz render failed (is 'dot' installed?): %v\n", err)
		return nil
	}
	return nil
}
