// Package multree implements the arena-based MUL-tree representation used
// by the preprocessing algorithm: each node lives at a fixed integer index
// and refers to its parent and children by index, instead of the cyclic
// parent/children pointers gotree's tree.Node uses. This is built once per
// input tree from a parsed gotree tree.Tree (read-only conversion) and
// mutated in place by the preprocess package.
package multree

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/evolbioinfo/gotree/tree"
)

// Node is one MUL-tree vertex. Down and Up are populated by the
// preprocess package; they are nil until then.
type Node struct {
	ID       int
	Label    string // leaf label (gene on ingest, species after pruning); empty for internal nodes
	Parent   int    // -1 for the root
	Children []int
	Down     *bitset.BitSet
	Up       *bitset.BitSet
	pruned   bool
}

func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Pruned reports whether the node has been removed from the tree by an
// edit (edge contraction, unifurcation suppression or leaf pruning).
func (n *Node) Pruned() bool {
	return n.pruned
}

// Tree is an unrooted MUL-tree with a distinguished traversal root.
type Tree struct {
	Nodes []*Node
	Root  int
}

// FromGotree converts a parsed gotree tree into the arena representation.
// No unrooting or profile work happens here; callers run Unroot and the
// preprocess package's profile builders afterward.
func FromGotree(tre *tree.Tree) (*Tree, error) {
	gnodes := tre.Nodes()
	nodes := make([]*Node, len(gnodes))
	for _, gn := range gnodes {
		nodes[gn.Id()] = &Node{ID: gn.Id(), Parent: -1}
	}
	var convErr error
	tre.PostOrder(func(cur, prev *gtreeNode, e *gtreeEdge) (keep bool) {
		if convErr != nil {
			return false
		}
		n := nodes[cur.Id()]
		if cur.Tip() {
			n.Label = cur.Name()
			if n.Label == "" {
				convErr = fmt.Errorf("multree: leaf with empty label (id %d)", cur.Id())
				return false
			}
		} else {
			children, err := childrenOf(cur)
			if err != nil {
				convErr = err
				return false
			}
			for _, c := range children {
				cn := nodes[c.Id()]
				cn.Parent = cur.Id()
				n.Children = append(n.Children, c.Id())
			}
		}
		return true
	})
	if convErr != nil {
		return nil, convErr
	}
	return &Tree{Nodes: nodes, Root: tre.Root().Id()}, nil
}

// childrenOf returns a node's children using the parent back-reference to
// distinguish them among gotree's undirected neighbor list.
func childrenOf(node *gtreeNode) ([]*gtreeNode, error) {
	p, err := node.Parent()
	if err != nil && err.Error() != "The node has no parent : May be the root?" {
		return nil, fmt.Errorf("multree: %w", err)
	}
	children := make([]*gtreeNode, 0, node.Nneigh())
	for _, neigh := range node.Neigh() {
		if neigh != p {
			children = append(children, neigh)
		}
	}
	return children, nil
}

// gtreeNode/gtreeEdge are local aliases so the rest of this file reads
// cleanly; they are exactly gotree's types.
type gtreeNode = tree.Node
type gtreeEdge = tree.Edge

// NumLeaves returns the number of non-pruned leaves.
func (t *Tree) NumLeaves() int {
	n := 0
	for _, node := range t.Nodes {
		if node != nil && !node.pruned && node.IsLeaf() {
			n++
		}
	}
	return n
}

// Leaves returns all non-pruned leaves.
func (t *Tree) Leaves() []*Node {
	var leaves []*Node
	for _, node := range t.Nodes {
		if node != nil && !node.pruned && node.IsLeaf() {
			leaves = append(leaves, node)
		}
	}
	return leaves
}

// LeafLabels returns the labels of all non-pruned leaves, in arena order.
func (t *Tree) LeafLabels() []string {
	leaves := t.Leaves()
	labels := make([]string, len(leaves))
	for i, l := range leaves {
		labels[i] = l.Label
	}
	return labels
}

// PostOrder visits every non-pruned node post-order (children before
// parent), mirroring gotree's traversal callback shape.
func (t *Tree) PostOrder(visit func(n *Node)) {
	var walk func(id int)
	walk = func(id int) {
		n := t.Nodes[id]
		for _, c := range n.Children {
			if !t.Nodes[c].pruned {
				walk(c)
			}
		}
		visit(n)
	}
	walk(t.Root)
}

// PreOrder visits every non-pruned node pre-order (parent before
// children).
func (t *Tree) PreOrder(visit func(n *Node)) {
	var walk func(id int)
	walk = func(id int) {
		n := t.Nodes[id]
		visit(n)
		for _, c := range n.Children {
			if !t.Nodes[c].pruned {
				walk(c)
			}
		}
	}
	walk(t.Root)
}

// Newick serializes the tree, omitting edge lengths and internal-node
// labels (spec: stripped on emission). Built with a small stdlib recursive
// writer -- see DESIGN.md for why this doesn't round-trip back through
// gotree's tree.Tree.
func (t *Tree) Newick() string {
	var b strings.Builder
	t.writeNode(&b, t.Root)
	b.WriteByte(';')
	return b.String()
}

func (t *Tree) writeNode(b *strings.Builder, id int) {
	n := t.Nodes[id]
	children := liveChildren(t, n)
	if len(children) == 0 {
		b.WriteString(n.Label)
		return
	}
	b.WriteByte('(')
	for i, c := range children {
		if i > 0 {
			b.WriteByte(',')
		}
		t.writeNode(b, c)
	}
	b.WriteByte(')')
}
