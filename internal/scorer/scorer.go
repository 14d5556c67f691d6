// Package scorer invokes the external MulRFScorer binary: the verification
// harness uses it to compute the RF distance between a species tree and a
// gene tree, exactly as check_mulrf_scores_v3.py's score_with_MulRF did.
package scorer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

var ErrScorerFailed = errors.New("scorer failed")

// Score runs binary on the (speciesTree, geneTree) pair and returns the RF
// distance it prints. tmpPrefix names the tree-pair and result files this
// call creates; callers must supply a prefix unique to this invocation so
// concurrent scorer runs never collide on the same temp files.
func Score(ctx context.Context, binary, speciesTree, geneTree, tmpPrefix string) (float64, error) {
	treeFile := tmpPrefix + ".tree"
	outFile := tmpPrefix + ".out"

	if err := writeTreePair(treeFile, speciesTree, geneTree); err != nil {
		return 0, fmt.Errorf("%w: writing tree-pair file: %s", ErrScorerFailed, err)
	}
	defer func() {
		_ = os.Remove(treeFile)
	}()

	cmd := exec.CommandContext(ctx, binary, "-i", treeFile, "-o", outFile)
	defer func() {
		_ = os.Remove(outFile)
	}()
	if output, err := cmd.CombinedOutput(); err != nil {
		return 0, fmt.Errorf("%w: %s: %s", ErrScorerFailed, err, string(output))
	}

	score, err := parseScore(outFile)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrScorerFailed, err)
	}
	return score, nil
}

func writeTreePair(path, speciesTree, geneTree string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	if _, err := fmt.Fprintln(f, speciesTree); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(f, geneTree); err != nil {
		return err
	}
	return nil
}

// parseScore implements the scorer's result-file protocol: the first
// line's last whitespace-separated token, with a trailing ']' stripped, is
// the numeric score.
func parseScore(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening result file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, fmt.Errorf("reading result file: %w", err)
		}
		return 0, fmt.Errorf("result file is empty")
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) == 0 {
		return 0, fmt.Errorf("result file's first line has no tokens")
	}
	last := strings.TrimSuffix(fields[len(fields)-1], "]")
	score, err := strconv.ParseFloat(last, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable score %q: %w", last, err)
	}
	return score, nil
}
