// Package compare computes the normalized Robinson-Foulds distance between
// two trees, restricted to their shared leaf set, ported from the
// dendropy-based compare_trees/compute_total_rf_score reference tools.
package compare

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"fastmulrfs/internal/multree"
	"fastmulrfs/internal/species"
)

var ErrTooFewSharedLeaves = errors.New("fewer than 4 leaves shared between the two trees")

// Result mirrors compare_two_trees.py's compare_trees return tuple.
type Result struct {
	NL int     // size of the shared leaf set
	I1 int     // internal edges of tree 1 restricted to the shared leaf set
	I2 int     // internal edges of tree 2 restricted to the shared leaf set
	FN int     // edges of tree 1 missing from tree 2 (false negatives)
	FP int     // edges of tree 2 missing from tree 1 (false positives)
	RF float64 // normalized RF distance: (FN+FP) / (2*NL-6)
}

// Compare restricts t1 and t2 to their shared leaf set and reports their
// normalized RF distance over that restriction.
func Compare(t1, t2 *multree.Tree) (Result, error) {
	shared := intersectLabels(t1.LeafLabels(), t2.LeafLabels())
	if len(shared) < 4 {
		return Result{}, fmt.Errorf("%w: shared=%d", ErrTooFewSharedLeaves, len(shared))
	}
	reg := species.NewRegistry(shared)
	bip1 := bipartitions(t1, reg)
	bip2 := bipartitions(t2, reg)
	fn := countMissing(bip1, bip2)
	fp := countMissing(bip2, bip1)
	nl := len(shared)
	return Result{
		NL: nl,
		I1: len(bip1),
		I2: len(bip2),
		FN: fn,
		FP: fp,
		RF: float64(fn+fp) / (2*float64(nl) - 6),
	}, nil
}

// Total accumulates compute_total_rf_score.py's running sums: one species
// tree scored against every gene tree in gtrees, restricted independently
// per comparison since each gene tree may share a different leaf subset
// with the species tree.
func Total(stree *multree.Tree, gtrees []*multree.Tree) (totalFN, totalFP int, totalRF float64, err error) {
	for i, g := range gtrees {
		res, cerr := Compare(stree, g)
		if cerr != nil {
			return 0, 0, 0, fmt.Errorf("gene tree %d: %w", i+1, cerr)
		}
		totalFN += res.FN
		totalFP += res.FP
		totalRF += res.RF
	}
	return totalFN, totalFP, totalRF, nil
}

func intersectLabels(a, b []string) []string {
	bSet := make(map[string]bool, len(b))
	for _, l := range b {
		bSet[l] = true
	}
	seen := make(map[string]bool)
	var out []string
	for _, l := range a {
		if bSet[l] && !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

// bipartitions returns the set of non-trivial bipartitions of t restricted
// to reg's leaf set, keyed by a canonical string so repeated nodes that
// collapse to the same restricted bipartition are not double counted.
func bipartitions(t *multree.Tree, reg *species.Registry) map[string]bool {
	down := restrictedDownProfiles(t, reg)
	nl := reg.Len()
	out := make(map[string]bool)
	t.PostOrder(func(n *multree.Node) {
		if n.ID == t.Root {
			return
		}
		d := down[n.ID]
		count := int(d.Count())
		if count < 2 || count > nl-2 {
			return
		}
		out[canonicalKey(d)] = true
	})
	return out
}

// restrictedDownProfiles computes, for every node, the set of reg-ordinal
// species below it, treating leaves absent from reg as contributing
// nothing -- the bitset equivalent of dendropy's retain_taxa_with_labels.
func restrictedDownProfiles(t *multree.Tree, reg *species.Registry) map[int]*bitset.BitSet {
	size := uint(reg.Len())
	down := make(map[int]*bitset.BitSet, len(t.Nodes))
	t.PostOrder(func(n *multree.Node) {
		d := bitset.New(size)
		if n.IsLeaf() {
			if ord, ok := reg.TryOrdinal(n.Label); ok {
				d.Set(uint(ord))
			}
		} else {
			for _, id := range n.Children {
				c := t.Nodes[id]
				if !c.Pruned() {
					d.InPlaceUnion(down[id])
				}
			}
		}
		down[n.ID] = d
	})
	return down
}

// canonicalKey gives a bipartition the same string regardless of which
// side of the split a node's down-set happened to describe, by always
// reporting the side that excludes ordinal 0.
func canonicalKey(d *bitset.BitSet) string {
	if d.Test(0) {
		d = d.Complement()
	}
	var b strings.Builder
	for i, ok := d.NextSet(0); ok; i, ok = d.NextSet(i + 1) {
		b.WriteString(strconv.FormatUint(uint64(i), 10))
		b.WriteByte(',')
	}
	return b.String()
}

func countMissing(have, reference map[string]bool) int {
	n := 0
	for k := range have {
		if !reference[k] {
			n++
		}
	}
	return n
}
