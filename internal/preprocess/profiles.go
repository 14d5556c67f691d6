package preprocess

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"fastmulrfs/internal/multree"
	"fastmulrfs/internal/species"
)

// buildDownProfiles computes down(v), the set of species appearing below v,
// for every node. Leaves get a singleton set from their gene's species via
// g2s; internal nodes get the union of their children's down sets.
func buildDownProfiles(t *multree.Tree, reg *species.Registry, g2s map[string]string) error {
	var err error
	t.PostOrder(func(n *multree.Node) {
		if err != nil {
			return
		}
		size := uint(reg.Len())
		if n.IsLeaf() {
			sp, ok := g2s[n.Label]
			if !ok {
				err = fmt.Errorf("%w: %q", ErrUnknownGene, n.Label)
				return
			}
			ord, ok := reg.TryOrdinal(sp)
			if !ok {
				err = fmt.Errorf("%w: species %q for gene %q not in registry", ErrUnknownGene, sp, n.Label)
				return
			}
			down := bitset.New(size)
			down.Set(uint(ord))
			n.Down = down
			return
		}
		down := bitset.New(size)
		for _, c := range children(t, n) {
			down.InPlaceUnion(c.Down)
		}
		n.Down = down
	})
	return err
}

// buildUpProfiles computes up(v), the set of species on the far side of v's
// parent edge, for every non-root node except deeper leaves, which never
// need one. The root's children are handled separately since the
// root itself carries no up profile: up(c) for a root child is simply the
// union of its siblings' down sets. Deeper nodes add their parent's up set
// to that union.
func buildUpProfiles(t *multree.Tree, reg *species.Registry) {
	size := uint(reg.Len())
	root := t.Nodes[t.Root]
	rootChildren := children(t, root)
	for _, c := range rootChildren {
		up := bitset.New(size)
		for _, sib := range rootChildren {
			if sib.ID != c.ID {
				up.InPlaceUnion(sib.Down)
			}
		}
		c.Up = up
	}
	t.PreOrder(func(n *multree.Node) {
		if n.ID == t.Root || n.Parent == t.Root || n.IsLeaf() {
			return
		}
		parent := t.Nodes[n.Parent]
		up := parent.Up.Clone()
		for _, sib := range children(t, parent) {
			if sib.ID != n.ID {
				up.InPlaceUnion(sib.Down)
			}
		}
		n.Up = up
	})
}
