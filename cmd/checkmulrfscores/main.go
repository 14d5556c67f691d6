/*
checkmulrfscores verifies the FastMulRFS shift identity: for every gene
tree, the RF distance from a fixed species tree to the preprocessed tree
plus the computed score shift must equal the RF distance to the raw
MUL-tree, as scored by an external MulRF-distance binary.

# MIT License

# Copyright (c) 2026 James Willson

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.

usage: checkmulrfscores [flags]...

flags:

	-s string
	  	file containing the singly-labeled species tree (required)
	-g string
	  	file containing gene family trees, one newick string per line (required)
	-a string
	  	label-map file (required)
	-x string
	  	MulRFScorer binary, including full path (required)

examples:

	checkmulrfscores -s species.nwk -g genetrees.nwk -a labelmap.txt -x ./MulRFScorer
*/
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fastmulrfs/internal/harness"
	"fastmulrfs/internal/labelmap"
	"fastmulrfs/internal/multree"
	"fastmulrfs/internal/treeio"
)

const (
	ErrorMessage = "checkmulrfscores encountered an error ::"
	TimeFormat   = "2006-01-02_15-04-05"
)

type Args struct {
	speciesTreeFile string
	geneTreeFile    string
	mapFile         string
	scorerBinary    string
	prefix          string
}

func Usage() {
	fmt.Fprint(flag.CommandLine.Output(), // nolint
		"usage: checkmulrfscores [flags]...\n",
		"\n",
		"flags:\n\n",
	)
	flag.PrintDefaults()
	fmt.Fprint(flag.CommandLine.Output(), // nolint
		"\n",
		"examples:\n\n",
		"\tcheckmulrfscores -s species.nwk -g genetrees.nwk -a labelmap.txt -x ./MulRFScorer\n\n",
	)
}

func parseArgs() Args {
	flag.Usage = Usage
	s := flag.String("s", "", "file containing the singly-labeled species tree (required)")
	g := flag.String("g", "", "file containing gene family trees, one newick string per line (required)")
	a := flag.String("a", "", "label-map file (required)")
	x := flag.String("x", "", "MulRFScorer binary, including full path (required)")
	flag.Parse()
	if *s == "" || *g == "" || *a == "" || *x == "" {
		parserError("-s, -g, -a and -x are all required")
	}
	return Args{speciesTreeFile: *s, geneTreeFile: *g, mapFile: *a, scorerBinary: *x}
}

func parserError(message string) {
	fmt.Fprintln(os.Stderr, message+"\n")
	Usage()
	os.Exit(1)
}

func main() {
	var exit int
	defer func() {
		os.Exit(exit)
	}()
	buf := &bytes.Buffer{} // capture pre logfile setup logging
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.SetOutput(io.MultiWriter(os.Stderr, buf))
	args := parseArgs()
	args.prefix = fmt.Sprintf("checkmulrfscores-%s", time.Now().Local().Format(TimeFormat))
	logPath := args.prefix + ".log"
	if logf, err := os.Create(logPath); err == nil {
		logf.Write(buf.Bytes()) // nolint
		log.SetOutput(io.MultiWriter(os.Stderr, logf))
		defer func() {
			log.SetOutput(os.Stderr)
			_ = logf.Close()
		}()
	} else {
		log.Printf("failed to create log file %s, %s", logPath, err)
	}
	log.Printf("invoked as: checkmulrfscores %s", strings.Join(os.Args[1:], " "))
	total, err := run(args)
	if err != nil {
		log.Printf("%s %s", ErrorMessage, err)
		exit = 1
		return
	}
	fmt.Printf("%v\n", total)
}

func run(args Args) (float64, error) {
	mapFile, err := os.Open(args.mapFile)
	if err != nil {
		return 0, fmt.Errorf("opening label map: %w", err)
	}
	defer func() {
		_ = mapFile.Close()
	}()
	lm, err := labelmap.Load(mapFile)
	if err != nil {
		return 0, fmt.Errorf("loading label map: %w", err)
	}

	sgtre, err := treeio.ReadSingleTree(args.speciesTreeFile)
	if err != nil {
		return 0, fmt.Errorf("reading species tree: %w", err)
	}
	stree, err := multree.FromGotree(sgtre)
	if err != nil {
		return 0, err
	}
	if ok, err := stree.Unroot(); err != nil || !ok {
		return 0, fmt.Errorf("species tree is too small to unroot")
	}

	geneLines, err := treeio.ReadLines(args.geneTreeFile)
	if err != nil {
		return 0, fmt.Errorf("reading gene trees: %w", err)
	}

	opts := harness.Options{
		ScorerBinary:  args.scorerBinary,
		SpeciesTree:   stree.Newick(),
		GeneTreeLines: geneLines,
		LabelMap:      lm,
		TempPrefix:    filepath.Join(os.TempDir(), args.prefix),
	}
	return harness.Run(context.Background(), opts)
}
