// Package harness implements the shift-identity verification harness: for
// every surviving gene tree, it scores the raw MUL-tree and the
// preprocessed tree against a fixed species tree and asserts that the
// shift identity holds, exactly as check_mulrf_scores_v3.py's
// check_mulrf_scores did.
package harness

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"fastmulrfs/internal/labelmap"
	"fastmulrfs/internal/multree"
	"fastmulrfs/internal/preprocess"
	"fastmulrfs/internal/scorer"
	"fastmulrfs/internal/species"
	"fastmulrfs/internal/treeio"
)

var ErrIdentityViolation = errors.New("shift identity violated")

// Options configures one harness run.
type Options struct {
	ScorerBinary string
	// SpeciesTree must already be unrooted with internal node labels and
	// edge lengths stripped (treeio.Parse followed by multree.Tree.Unroot
	// and Newick does this); the harness does not re-derive it per tree.
	SpeciesTree   string
	GeneTreeLines []string // one raw newick per gene tree
	LabelMap      *labelmap.LabelMap
	TempPrefix    string // unique prefix for this run's scratch files
}

// Run scores every gene tree twice (raw vs. preprocessed) concurrently per
// tree via an errgroup, and returns the cumulative raw RF score. It stops
// at the first tree whose shift identity fails, reporting the offending
// 1-based line.
func Run(ctx context.Context, opts Options) (totalRF float64, err error) {
	reg := species.NewRegistry(opts.LabelMap.Order)
	for i, line := range opts.GeneTreeLines {
		lineNo := i + 1

		rawGtre, err := treeio.Parse(line)
		if err != nil {
			return totalRF, fmt.Errorf("line %d: %w", lineNo, err)
		}
		rawTree, err := multree.FromGotree(rawGtre)
		if err != nil {
			return totalRF, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if ok, err := rawTree.Unroot(); err != nil || !ok {
			return totalRF, fmt.Errorf("line %d: %w", lineNo, preprocess.ErrTreeTooSmall)
		}

		prepGtre, err := treeio.Parse(line)
		if err != nil {
			return totalRF, fmt.Errorf("line %d: %w", lineNo, err)
		}
		prepTree, err := multree.FromGotree(prepGtre)
		if err != nil {
			return totalRF, fmt.Errorf("line %d: %w", lineNo, err)
		}
		result, err := preprocess.Preprocess(prepTree, reg, opts.LabelMap)
		if err != nil {
			return totalRF, fmt.Errorf("line %d: %w", lineNo, err)
		}

		var mscore, mxscore float64
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			s, err := scorer.Score(gctx, opts.ScorerBinary, opts.SpeciesTree, rawTree.Newick(),
				fmt.Sprintf("%s-%d-raw", opts.TempPrefix, lineNo))
			if err != nil {
				return err
			}
			mscore = s
			return nil
		})
		g.Go(func() error {
			s, err := scorer.Score(gctx, opts.ScorerBinary, opts.SpeciesTree, result.Tree.Newick(),
				fmt.Sprintf("%s-%d-preprocessed", opts.TempPrefix, lineNo))
			if err != nil {
				return err
			}
			mxscore = s
			return nil
		})
		if err := g.Wait(); err != nil {
			return totalRF, fmt.Errorf("line %d: %w", lineNo, err)
		}

		if mxscore+float64(result.Shift) != mscore {
			return totalRF, fmt.Errorf("line %d: %w: raw=%v preprocessed=%v shift=%d",
				lineNo, ErrIdentityViolation, mscore, mxscore, result.Shift)
		}
		totalRF += mscore
	}
	return totalRF, nil
}
