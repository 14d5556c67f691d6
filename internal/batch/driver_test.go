package batch

import (
	"bytes"
	"strings"
	"testing"

	"fastmulrfs/internal/labelmap"
)

func loadMap(t *testing.T, text string) *labelmap.LabelMap {
	t.Helper()
	lm, err := labelmap.Load(strings.NewReader(text))
	if err != nil {
		t.Fatalf("labelmap.Load: %s", err)
	}
	return lm
}

func TestRunSkipsEmptyLines(t *testing.T) {
	lm := loadMap(t, "A:a1\nB:b1\nC:c1\nD:d1\n")
	lines := []string{"", "  ", "((((a1,b1),c1),d1));"}
	var out bytes.Buffer
	diags, err := Run(lines, lm, &out)
	if err != nil {
		t.Fatalf("Run: %s", err)
	}
	if diags[0].Skipped != SkipEmptyLine || diags[1].Skipped != SkipEmptyLine {
		t.Fatalf("expected both blank lines skipped, got %+v", diags[:2])
	}
	if diags[2].Skipped != "" {
		t.Fatalf("expected the real tree to survive, got skip reason %q", diags[2].Skipped)
	}
}

func TestRunSkipsTooFewLeavesBeforePreprocessing(t *testing.T) {
	lm := loadMap(t, "A:a1\nB:b1\nC:c1\n")
	lines := []string{"(a1,b1,c1);"}
	var out bytes.Buffer
	diags, err := Run(lines, lm, &out)
	if err != nil {
		t.Fatalf("Run: %s", err)
	}
	if diags[0].Skipped != SkipTooFewBefore {
		t.Fatalf("expected SkipTooFewBefore, got %q", diags[0].Skipped)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestRunSkipsTooFewSpeciesAfterPreprocessing(t *testing.T) {
	// four gene leaves but only three distinct species survive pruning
	lm := loadMap(t, "A:a1,a2\nB:b1\nC:c1\n")
	lines := []string{"((a1,a2),(b1,c1));"}
	var out bytes.Buffer
	diags, err := Run(lines, lm, &out)
	if err != nil {
		t.Fatalf("Run: %s", err)
	}
	if diags[0].Skipped != SkipTooFewAfter {
		t.Fatalf("expected SkipTooFewAfter, got %q (newick %q)", diags[0].Skipped, diags[0].Newick)
	}
}

func TestRunPreservesInputOrderInOutput(t *testing.T) {
	lm := loadMap(t, "A:a1\nB:b1\nC:c1\nD:d1\nE:e1\n")
	lines := []string{
		"((((a1,b1),c1),d1));",
		"",
		"((((a1,c1),b1),e1));",
	}
	var out bytes.Buffer
	_, err := Run(lines, lm, &out)
	if err != nil {
		t.Fatalf("Run: %s", err)
	}
	got := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(got) != 2 {
		t.Fatalf("expected 2 output lines, got %d: %v", len(got), got)
	}
	if !strings.Contains(got[0], "A") || !strings.Contains(got[1], "E") {
		t.Fatalf("unexpected ordering: %v", got)
	}
}

func TestRunHaltsOnUnknownGene(t *testing.T) {
	lm := loadMap(t, "A:a1\nB:b1\nC:c1\nD:d1\n")
	lines := []string{"((((a1,b1),c1),zzz));"}
	var out bytes.Buffer
	_, err := Run(lines, lm, &out)
	if err == nil {
		t.Fatalf("expected a fatal error for an unknown gene label")
	}
}
