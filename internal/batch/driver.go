// Package batch drives the preprocessing pipeline over a whole gene-tree
// file, one Newick line at a time: trim, skip-gate, run the core
// algorithm, skip-gate again, serialize.
package batch

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"fastmulrfs/internal/labelmap"
	"fastmulrfs/internal/multree"
	"fastmulrfs/internal/preprocess"
	"fastmulrfs/internal/species"
	"fastmulrfs/internal/treeio"
)

// SkipReason names why an input line produced no output line.
type SkipReason string

const (
	SkipEmptyLine    SkipReason = "empty line"
	SkipTooFewBefore SkipReason = "fewer than 4 leaves before preprocessing"
	SkipTooFewAfter  SkipReason = "fewer than 4 distinct species after preprocessing"
)

// minLeaves is the skip-gate threshold: trees with fewer than 4 leaves,
// before or after preprocessing, cannot carry a non-trivial bipartition
// and are dropped.
const minLeaves = 4

// Diagnostic is emitted for every input line, whether it survived or not.
// Verbose callers print it; non-verbose callers only care about Skipped
// and Newick.
type Diagnostic struct {
	Line    int // 1-based input line number
	Skipped SkipReason
	Newick  string // preprocessed output, empty if Skipped != ""
	Counts  preprocess.Counts
	Shift   int
}

// Run preprocesses every line of lines against lm, writing one output
// Newick per surviving line, in input order, to out. It returns one
// Diagnostic per input line (including skipped ones) for callers that want
// to report them (e.g. -verbose).
func Run(lines []string, lm *labelmap.LabelMap, out io.Writer) ([]Diagnostic, error) {
	reg := species.NewRegistry(lm.Order)
	diags := make([]Diagnostic, 0, len(lines))
	var outputs []string
	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			diags = append(diags, Diagnostic{Line: lineNo, Skipped: SkipEmptyLine})
			continue
		}
		gtre, err := treeio.Parse(line)
		if err != nil {
			return diags, fmt.Errorf("line %d: %w", lineNo, err)
		}
		mtre, err := multree.FromGotree(gtre)
		if err != nil {
			return diags, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if mtre.NumLeaves() < minLeaves {
			diags = append(diags, Diagnostic{Line: lineNo, Skipped: SkipTooFewBefore})
			continue
		}
		res, err := preprocess.Preprocess(mtre, reg, lm)
		if err != nil {
			if errors.Is(err, preprocess.ErrTreeTooSmall) {
				diags = append(diags, Diagnostic{Line: lineNo, Skipped: SkipTooFewBefore})
				continue
			}
			return diags, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if res.Tree.NumLeaves() < minLeaves {
			diags = append(diags, Diagnostic{Line: lineNo, Skipped: SkipTooFewAfter, Counts: res.Counts, Shift: res.Shift})
			continue
		}
		nwk := res.Tree.Newick()
		outputs = append(outputs, nwk)
		diags = append(diags, Diagnostic{Line: lineNo, Newick: nwk, Counts: res.Counts, Shift: res.Shift})
	}
	if err := treeio.WriteLines(out, outputs); err != nil {
		return diags, fmt.Errorf("writing output: %w", err)
	}
	return diags, nil
}

// VerboseLine formats the diagnostic counts one reference implementation
// prints to standard output: S (surviving species), c, E_M, E_MX, R, L_M.
func VerboseLine(d Diagnostic) string {
	if d.Skipped != "" {
		return fmt.Sprintf("line %d: skipped (%s)", d.Line, d.Skipped)
	}
	return fmt.Sprintf("line %d: S=%d c=%d E_M=%d E_MX=%d R=%d L_M=%d shift=%d",
		d.Line, d.Counts.NLMX, d.Counts.C, d.Counts.NEM, d.Counts.NEMX, d.Counts.NR, d.Counts.NLM, d.Shift)
}
