package preprocess

import (
	"fastmulrfs/internal/labelmap"
	"fastmulrfs/internal/multree"
)

// pruneDuplicateSpecies reduces the duplicated gene copies of each species
// down to one leaf: every surviving leaf is relabeled from its gene to its
// species, only the label map's canonical gene per species is kept, every
// other copy is pruned, and the resulting unifurcations are suppressed
// once, after all duplicates for this tree are gone. Returns nLMX (the
// preprocessed tree's leaf count) and c (the number of species with more
// than one surviving copy).
func pruneDuplicateSpecies(t *multree.Tree, lm *labelmap.LabelMap) (nLMX, c int) {
	var toPrune []int
	seenDuplicate := make(map[string]bool)
	for _, leaf := range t.Leaves() {
		gene := leaf.Label
		sp := lm.G2S[gene]
		if gene == lm.Canonical(sp) {
			t.RelabelLeaf(leaf.ID, sp)
			nLMX++
			continue
		}
		toPrune = append(toPrune, leaf.ID)
		if !seenDuplicate[sp] {
			seenDuplicate[sp] = true
			c++
		}
	}
	for _, id := range toPrune {
		t.PruneLeaf(id)
	}
	t.SuppressUnifurcations()
	return nLMX, c
}
