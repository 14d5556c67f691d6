package preprocess

// computeShift computes the integer RF score shift from Algorithm 1:
//
//	shift = nLMX + c + nEM - nEMX - 2*nR - nLM
//
// where nLM/nEM describe the input tree, nLMX/c/nEMX describe the
// preprocessed tree and the duplicate species it removed, and nR counts
// edges whose bipartition is known to collapse to a trivial one once
// duplicates are pruned. This is the quantity that makes
// RF(T, raw) = RF(T, preprocessed) + shift hold for every singly-labeled
// species tree T.
func computeShift(nLM, nEM, nR, c, nEMX, nLMX int) int {
	return nLMX + c + nEM - nEMX - 2*nR - nLM
}
