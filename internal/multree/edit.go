package multree

// This file holds the structural edits shared by unrooting, invalid-edge
// contraction and duplicate-species pruning. All three reduce to one
// primitive: remove a node, splicing its children into its own parent's
// child list at the position it occupied. Contracting an internal edge and
// suppressing a unifurcation are the same operation applied to nodes with
// >=2 and ==1 children respectively; pruning a leaf is the same operation
// applied to a node with 0 children.

// removeFromParent splices node id out of the tree. id must not be the
// root. Its former children (if any) become direct children of its
// parent, replacing id's position. id is marked pruned and detached.
func (t *Tree) removeFromParent(id int) {
	n := t.Nodes[id]
	if n.Parent < 0 {
		panic("multree: cannot remove the root from itself")
	}
	p := t.Nodes[n.Parent]
	pos := -1
	for i, c := range p.Children {
		if c == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		panic("multree: node missing from its parent's child list")
	}
	for _, c := range n.Children {
		t.Nodes[c].Parent = p.ID
	}
	newChildren := make([]int, 0, len(p.Children)-1+len(n.Children))
	newChildren = append(newChildren, p.Children[:pos]...)
	newChildren = append(newChildren, n.Children...)
	newChildren = append(newChildren, p.Children[pos+1:]...)
	p.Children = newChildren
	n.Parent = -1
	n.Children = nil
	n.pruned = true
}

// rerootAt promotes node id (the root's sole live child) to be the new
// root, discarding the old one.
func (t *Tree) rerootAt(id int) {
	t.Nodes[t.Root].pruned = true
	t.Nodes[id].Parent = -1
	t.Root = id
}

func liveChildren(t *Tree, n *Node) []int {
	live := make([]int, 0, len(n.Children))
	for _, c := range n.Children {
		if !t.Nodes[c].pruned {
			live = append(live, c)
		}
	}
	return live
}

// SuppressUnifurcations removes every node with exactly one live child,
// repeating until none remain, re-rooting if the root itself ends up with
// a single child.
func (t *Tree) SuppressUnifurcations() {
	for {
		changed := false
		t.PostOrder(func(n *Node) {
			if n.ID == t.Root {
				return
			}
			if len(liveChildren(t, n)) == 1 {
				t.removeFromParent(n.ID)
				changed = true
			}
		})
		root := t.Nodes[t.Root]
		if live := liveChildren(t, root); len(live) == 1 {
			t.rerootAt(live[0])
			changed = true
		}
		if !changed {
			break
		}
	}
}

// Unroot collapses a root degree-2 bifurcation into whichever child is
// internal, then suppresses all unifurcations. Returns ok=false when the
// tree is trivial (the root's two children are both leaves, i.e. the
// whole tree has only two leaves) or ends up with fewer than 3 branches at
// the traversal root: a non-discarded tree's pseudo-root must have degree
// >= 3.
func (t *Tree) Unroot() (ok bool, err error) {
	t.SuppressUnifurcations()
	root := t.Nodes[t.Root]
	if children := liveChildren(t, root); len(children) == 2 {
		left, right := t.Nodes[children[0]], t.Nodes[children[1]]
		switch {
		case left.IsLeaf() && right.IsLeaf():
			return false, nil
		case left.IsLeaf():
			t.removeFromParent(right.ID)
		default:
			t.removeFromParent(left.ID)
		}
		t.SuppressUnifurcations()
	}
	if len(liveChildren(t, t.Nodes[t.Root])) < 3 {
		return false, nil
	}
	return true, nil
}

// ContractEdge removes the edge above node id, merging id into its
// parent. id must be a non-root internal node (the invalid-edge
// contractor never marks leaves or the root).
func (t *Tree) ContractEdge(id int) {
	n := t.Nodes[id]
	if n.IsLeaf() {
		panic("multree: ContractEdge called on a leaf")
	}
	t.removeFromParent(id)
}

// PruneLeaf removes a single leaf. Callers must suppress unifurcations
// afterward (via SuppressUnifurcations) once all duplicates for a tree
// have been removed, rather than after each individual prune.
func (t *Tree) PruneLeaf(id int) {
	n := t.Nodes[id]
	if !n.IsLeaf() {
		panic("multree: PruneLeaf called on an internal node")
	}
	t.removeFromParent(id)
}

// RelabelLeaf overwrites a leaf's label (used to rewrite a gene label to
// its species label when pruning duplicates).
func (t *Tree) RelabelLeaf(id int, label string) {
	n := t.Nodes[id]
	if !n.IsLeaf() {
		panic("multree: RelabelLeaf called on an internal node")
	}
	n.Label = label
}
