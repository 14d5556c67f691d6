package preprocess

import (
	"sort"
	"strings"
	"testing"

	"fastmulrfs/internal/labelmap"
	"fastmulrfs/internal/multree"
	"fastmulrfs/internal/species"
	"fastmulrfs/internal/treeio"
)

func setup(t *testing.T, mapText, nwk string) (*multree.Tree, *species.Registry, *labelmap.LabelMap) {
	t.Helper()
	lm, err := labelmap.Load(strings.NewReader(mapText))
	if err != nil {
		t.Fatalf("labelmap.Load: %s", err)
	}
	reg := species.NewRegistry(lm.Order)
	gtre, err := treeio.Parse(nwk)
	if err != nil {
		t.Fatalf("treeio.Parse: %s", err)
	}
	mtre, err := multree.FromGotree(gtre)
	if err != nil {
		t.Fatalf("multree.FromGotree: %s", err)
	}
	return mtre, reg, lm
}

func sortedLeaves(tre *multree.Tree) []string {
	labels := tre.LeafLabels()
	sort.Strings(labels)
	return labels
}

// A single duplicated species (A) with one copy on each side of the split.
func TestPreprocessS1SingleDuplicateAcrossSides(t *testing.T) {
	mtre, reg, lm := setup(t, "A:a1,a2\nB:b1\nC:c1\nD:d1\n", "((a1,b1),(a2,(c1,d1)));")
	res, err := Preprocess(mtre, reg, lm)
	if err != nil {
		t.Fatalf("Preprocess: %s", err)
	}
	if got, want := res.Counts.NLM, 5; got != want {
		t.Errorf("nLM = %d, want %d", got, want)
	}
	if got, want := res.Counts.NEM, 7; got != want {
		t.Errorf("nEM = %d, want %d", got, want)
	}
	if got, want := res.Counts.NR, 0; got != want {
		t.Errorf("nR = %d, want %d", got, want)
	}
	if got, want := res.Counts.C, 1; got != want {
		t.Errorf("c = %d, want %d", got, want)
	}
	if got, want := res.Counts.NLMX, 4; got != want {
		t.Errorf("nLMX = %d, want %d", got, want)
	}
	if got, want := res.Counts.NEMX, 5; got != want {
		t.Errorf("nEMX = %d, want %d", got, want)
	}
	if got, want := res.Shift, 2; got != want {
		t.Errorf("shift = %d, want %d", got, want)
	}
	want := []string{"A", "B", "C", "D"}
	if got := sortedLeaves(res.Tree); !equalStrings(got, want) {
		t.Errorf("leaves = %v, want %v", got, want)
	}
}

// A singly-labeled input tree is a fixed point of preprocessing: shift = 0.
func TestPreprocessS3IdempotentOnSinglyLabeled(t *testing.T) {
	mtre, reg, lm := setup(t, "A:a1\nB:b1\nC:c1\nD:d1\nE:e1\n", "((((a1,b1),c1),d1),e1);")
	res, err := Preprocess(mtre, reg, lm)
	if err != nil {
		t.Fatalf("Preprocess: %s", err)
	}
	if res.Shift != 0 {
		t.Errorf("shift = %d, want 0", res.Shift)
	}
	if res.Counts.C != 0 {
		t.Errorf("c = %d, want 0 (no duplicated species)", res.Counts.C)
	}
	want := []string{"A", "B", "C", "D", "E"}
	if got := sortedLeaves(res.Tree); !equalStrings(got, want) {
		t.Errorf("leaves = %v, want %v", got, want)
	}
}

// Three nested copies of one species.
func TestPreprocessS4NestedTriplicate(t *testing.T) {
	mtre, reg, lm := setup(t, "A:a1,a2,a3\nB:b1\nC:c1\nD:d1\n", "(((a1,a2),a3),((b1,c1),d1));")
	res, err := Preprocess(mtre, reg, lm)
	if err != nil {
		t.Fatalf("Preprocess: %s", err)
	}
	if res.Counts.C != 1 {
		t.Errorf("c = %d, want 1", res.Counts.C)
	}
	want := []string{"A", "B", "C", "D"}
	if got := sortedLeaves(res.Tree); !equalStrings(got, want) {
		t.Errorf("leaves = %v, want %v", got, want)
	}
	if res.Shift < 0 {
		t.Errorf("shift = %d, must be non-negative", res.Shift)
	}
}

// Too few leaves before preprocessing is the batch driver's gate, not
// Preprocess's; Preprocess itself only discards a tree that collapses to
// <=2 leaves once unrooted.
func TestPreprocessUnrootDiscardsTrivialPair(t *testing.T) {
	mtre, reg, lm := setup(t, "A:a1\nB:b1\n", "(a1,b1);")
	_, err := Preprocess(mtre, reg, lm)
	if err == nil {
		t.Fatalf("expected ErrTreeTooSmall for a trivial 2-leaf tree")
	}
}

func TestPreprocessUnknownGeneIsFatal(t *testing.T) {
	mtre, reg, lm := setup(t, "A:a1\nB:b1\nC:c1\nD:d1\n", "((a1,b1),(zzz,(c1,d1)));")
	_, err := Preprocess(mtre, reg, lm)
	if err == nil {
		t.Fatalf("expected an error for a leaf label absent from the label map")
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
