package preprocess

import "fastmulrfs/internal/multree"

// edgeCounts tallies every non-root edge of the input tree by the category
// the invalid-edge classification assigns it to.
type edgeCounts struct {
	nLM int // non-root leaves (always kept, never contracted)
	nX  int // edges with down(v) intersecting up(v): invalid, contracted
	nR  int // edges where down(v) or up(v) is a singleton: will be trivial once duplicates are pruned
	nO  int // edges that remain a genuine non-trivial bipartition
}

// contractInvalidEdges walks every non-root edge once, classifying it from
// the down/up profiles built in buildDownProfiles/buildUpProfiles, then
// contracts every edge flagged invalid. Leaves are tallied but never
// contracted; internal nodes whose down and up sets share a species
// indicate the edge's bipartition can never be valid for a singly-labeled
// species tree; those are contracted.
func contractInvalidEdges(t *multree.Tree) edgeCounts {
	var counts edgeCounts
	var toContract []int
	t.PostOrder(func(n *multree.Node) {
		if n.ID == t.Root {
			return
		}
		if n.IsLeaf() {
			counts.nLM++
			return
		}
		switch {
		case n.Down.IntersectionCardinality(n.Up) > 0:
			counts.nX++
			toContract = append(toContract, n.ID)
		case n.Down.Count() == 1 || n.Up.Count() == 1:
			counts.nR++
		default:
			counts.nO++
		}
	})
	for _, id := range toContract {
		t.ContractEdge(id)
	}
	return counts
}
