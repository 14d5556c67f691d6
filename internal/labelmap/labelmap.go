// Package labelmap parses the gene-copy-to-species label map file shared by
// the preprocessing tool and the verification harness.
package labelmap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrMalformedLine  = errors.New("malformed label map line")
	ErrLabelCollision = errors.New("gene label collides with a species label")
	ErrEmptyMap       = errors.New("empty label map")
)

// LabelMap maps gene copies to species and back. Read-only after
// construction; safe to share across trees in a run.
type LabelMap struct {
	G2S map[string]string   // gene -> species
	S2G map[string][]string // species -> ordered genes, first is canonical
	// Order records species in the order they first appear in the map
	// file, so species-ordinal assignment (see internal/species) is
	// deterministic across runs instead of depending on map iteration
	// order.
	Order []string
}

// Load parses a label-map stream, one record per line of the form
// "species:gene1,gene2,...". Trailing blank lines are ignored. If a gene
// label appears twice, the last binding wins (implementation-defined, per
// spec).
func Load(r io.Reader) (*LabelMap, error) {
	lm := &LabelMap{
		G2S: make(map[string]string),
		S2G: make(map[string][]string),
	}
	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		species, genes, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %s", lineNo, ErrMalformedLine, err)
		}
		for _, gene := range genes {
			if gene == species {
				return nil, fmt.Errorf("line %d: %w: %q", lineNo, ErrLabelCollision, gene)
			}
		}
		if _, seen := lm.S2G[species]; !seen {
			lm.Order = append(lm.Order, species)
		}
		lm.S2G[species] = append(lm.S2G[species], genes...)
		for _, gene := range genes {
			lm.G2S[gene] = species
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading label map: %w", err)
	}
	if len(lm.Order) == 0 {
		return nil, ErrEmptyMap
	}
	for gene := range lm.G2S {
		if _, isSpecies := lm.S2G[gene]; isSpecies {
			return nil, fmt.Errorf("%w: %q", ErrLabelCollision, gene)
		}
	}
	return lm, nil
}

func parseLine(line string) (species string, genes []string, err error) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return "", nil, fmt.Errorf("missing ':' separator")
	}
	species = line[:idx]
	if species == "" {
		return "", nil, fmt.Errorf("empty species label")
	}
	rest := line[idx+1:]
	if rest == "" {
		return "", nil, fmt.Errorf("species %q has no genes", species)
	}
	genes = strings.Split(rest, ",")
	for i, g := range genes {
		if g == "" {
			return "", nil, fmt.Errorf("species %q has an empty gene label", species)
		}
		genes[i] = g
	}
	return species, genes, nil
}

// Canonical returns the canonical (first-listed) gene for a species.
func (lm *LabelMap) Canonical(species string) string {
	genes := lm.S2G[species]
	if len(genes) == 0 {
		panic(fmt.Sprintf("labelmap: species %q has no genes", species))
	}
	return genes[0]
}
