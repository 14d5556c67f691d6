// Package treeio ingests Newick trees, one per line, using gotree's Newick
// parser, and provides line scanning shared by the batch driver and
// verification harness.
package treeio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/evolbioinfo/gotree/io/newick"
	"github.com/evolbioinfo/gotree/tree"
)

var (
	ErrInvalidFormat = errors.New("invalid newick format")
	ErrInvalidFile   = errors.New("invalid file")
)

// ReadLines returns one string per input line, underscores preserved and
// leading and trailing whitespace (including the newline) trimmed. Blank lines are kept in the slice (as
// empty strings) so 1-based line numbers used in diagnostics elsewhere
// stay aligned with the input file; callers decide whether to skip them.
func ReadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %s", ErrInvalidFile, path, err)
	}
	defer func() {
		_ = file.Close()
	}()
	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %s", ErrInvalidFile, path, err)
	}
	return lines, nil
}

// ReadSingleTree reads exactly one Newick tree from a file, rejecting files
// with more than one non-blank line (used for the species tree input,
// which must be singular).
func ReadSingleTree(path string) (*tree.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %s", ErrInvalidFile, path, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalidFile, path)
	}
	if bytes.Count(data, []byte{'\n'}) != 0 {
		return nil, fmt.Errorf("%w: %s must contain exactly one newick tree", ErrInvalidFile, path)
	}
	return Parse(string(data))
}

// Parse parses a single Newick line into a gotree tree, stripping edge
// lengths, comments and supports immediately since nothing downstream of
// ingest reads them (spec: "Edge lengths and internal-node labels are
// ignored").
func Parse(line string) (*tree.Tree, error) {
	tre, err := newick.NewParser(strings.NewReader(line)).Parse()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, err)
	}
	tre.ClearLengths(true, true)
	tre.ClearComments()
	tre.ClearSupports()
	return tre, nil
}

// WriteLines writes newick strings, one per line, to w.
func WriteLines(w io.Writer, lines []string) error {
	buffered := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := buffered.WriteString(line); err != nil {
			return err
		}
		if err := buffered.WriteByte('\n'); err != nil {
			return err
		}
	}
	return buffered.Flush()
}
