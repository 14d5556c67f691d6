// Package preprocess implements Algorithm 1 of the FastMulRFS paper: the
// per-tree transformation from a MUL-tree to a singly-labeled tree plus an
// integer score shift, such that RF(T, raw) = RF(T, preprocessed) + shift
// for any singly-labeled species tree T.
package preprocess

import (
	"errors"
	"fmt"

	"fastmulrfs/internal/labelmap"
	"fastmulrfs/internal/multree"
	"fastmulrfs/internal/species"
)

var (
	ErrUnknownGene  = errors.New("leaf label not present in label map")
	ErrTreeTooSmall = errors.New("tree too small")
)

// Counts holds the per-edge/per-leaf tallies from edge classification and
// duplicate pruning, exposed so callers can print a verbose diagnostic
// line ("S, c, E_M, E_MX, R, L_M").
type Counts struct {
	NLM  int // non-root leaves of the input tree
	NEM  int // non-root edges of the input tree (NLM + NX + NR + NO)
	NX   int // edges contracted for an invalid bipartition
	NR   int // surviving edges that will become trivial once duplicates are pruned
	NO   int // surviving edges that remain non-trivial bipartitions
	NLMX int // leaves (= distinct species) of the preprocessed tree
	C    int // species with more than one copy in the input tree
	NEMX int // non-root edges of the preprocessed tree (NO + NLMX)
}

// Result is the output of preprocessing one MUL-tree.
type Result struct {
	Tree   *multree.Tree
	Shift  int
	Counts Counts
}

// Preprocess runs unrooting through shift calculation on an already
// ingested MUL-tree whose leaves are labeled by gene copies. mtre is
// mutated in place; Result.Tree is the same value, pruned and relabeled.
func Preprocess(mtre *multree.Tree, reg *species.Registry, lm *labelmap.LabelMap) (*Result, error) {
	ok, err := mtre.Unroot()
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: tree has <=2 leaves after collapsing its root", ErrTreeTooSmall)
	}
	if err := buildDownProfiles(mtre, reg, lm.G2S); err != nil {
		return nil, err
	}
	buildUpProfiles(mtre, reg)
	edges := contractInvalidEdges(mtre)
	nLMX, c := pruneDuplicateSpecies(mtre, lm)
	nEM := edges.nLM + edges.nX + edges.nR + edges.nO
	nEMX := edges.nO + nLMX
	shift := computeShift(edges.nLM, nEM, edges.nR, c, nEMX, nLMX)
	return &Result{
		Tree:  mtre,
		Shift: shift,
		Counts: Counts{
			NLM: edges.nLM, NEM: nEM, NX: edges.nX, NR: edges.nR, NO: edges.nO,
			NLMX: nLMX, C: c, NEMX: nEMX,
		},
	}, nil
}
