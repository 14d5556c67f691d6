package preprocess

import "fastmulrfs/internal/multree"

// children returns a node's non-pruned children as Node pointers. The
// multree package exposes Children as raw ids plus a Pruned() getter;
// every stage here wants the dereferenced, live-only form.
func children(t *multree.Tree, n *multree.Node) []*multree.Node {
	out := make([]*multree.Node, 0, len(n.Children))
	for _, id := range n.Children {
		c := t.Nodes[id]
		if !c.Pruned() {
			out = append(out, c)
		}
	}
	return out
}
