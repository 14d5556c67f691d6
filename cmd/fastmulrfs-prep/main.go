/*
fastmulrfs-prep transforms a file of MUL-trees (gene-family trees whose
leaves are labeled by gene copies) into singly-labeled trees suitable for
scoring with a standard Robinson-Foulds engine, per the FastMulRFS
preprocessing algorithm.

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

usage: fastmulrfs-prep [flags]...

flags:

	-i string
	  	input gene-tree file, one newick string per line (required)
	-a string
	  	label-map file (required)
	-o string
	  	output file (default appends "-for-fastrfs" before the input's extension)
	-verbose
	  	print per-tree diagnostic counts to standard output

examples:

	fastmulrfs-prep -i genetrees.nwk -a labelmap.txt -o genetrees-prepped.nwk
*/
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"fastmulrfs/internal/batch"
	"fastmulrfs/internal/labelmap"
	"fastmulrfs/internal/treeio"
)

const ErrorMessage = "fastmulrfs-prep encountered an error ::"

type Args struct {
	inFile  string
	mapFile string
	outFile string
	verbose bool
}

func Usage() {
	fmt.Fprint(flag.CommandLine.Output(), // nolint
		"usage: fastmulrfs-prep [flags]...\n",
		"\n",
		"flags:\n\n",
	)
	flag.PrintDefaults()
	fmt.Fprint(flag.CommandLine.Output(), // nolint
		"\n",
		"examples:\n\n",
		"\tfastmulrfs-prep -i genetrees.nwk -a labelmap.txt -o genetrees-prepped.nwk\n\n",
	)
}

func parseArgs() Args {
	flag.Usage = Usage
	in := flag.String("i", "", "input gene-tree file, one newick string per line (required)")
	mapFile := flag.String("a", "", "label-map file (required)")
	out := flag.String("o", "", "output file (default appends \"-for-fastrfs\" before the input's extension)")
	verbose := flag.Bool("verbose", false, "print per-tree diagnostic counts to standard output")
	flag.Parse()
	if *in == "" || *mapFile == "" {
		parserError("-i and -a are required")
	}
	return Args{inFile: *in, mapFile: *mapFile, outFile: *out, verbose: *verbose}
}

func parserError(message string) {
	fmt.Fprintln(os.Stderr, message+"\n")
	Usage()
	os.Exit(1)
}

// defaultOutFile inserts "-for-fastrfs" before the input file's extension.
func defaultOutFile(inFile string) string {
	dir, base := splitPath(inFile)
	parts := strings.Split(base, ".")
	if len(parts) > 1 {
		stem := strings.Join(parts[:len(parts)-1], ".")
		ext := parts[len(parts)-1]
		base = fmt.Sprintf("%s-for-fastrfs.%s", stem, ext)
	} else {
		base = base + "-for-fastrfs"
	}
	if dir == "" {
		return base
	}
	return dir + string(os.PathSeparator) + base
}

func splitPath(path string) (dir, base string) {
	idx := strings.LastIndexByte(path, os.PathSeparator)
	if idx < 0 {
		return "", path
	}
	return path[:idx], path[idx+1:]
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
	if args.outFile == "" {
		args.outFile = defaultOutFile(args.inFile)
		log.Printf("output file was not set, using %q", args.outFile)
	}
	logPath := args.outFile + ".log"
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
	log.Printf("invoked as: fastmulrfs-prep %s", strings.Join(os.Args[1:], " "))
	if err := run(args); err != nil {
		log.Printf("%s %s", ErrorMessage, err)
		exit = 1
	}
}

func run(args Args) error {
	mapFile, err := os.Open(args.mapFile)
	if err != nil {
		return fmt.Errorf("opening label map: %w", err)
	}
	defer func() {
		_ = mapFile.Close()
	}()
	lm, err := labelmap.Load(mapFile)
	if err != nil {
		return fmt.Errorf("loading label map: %w", err)
	}

	lines, err := treeio.ReadLines(args.inFile)
	if err != nil {
		return err
	}

	outFile, err := os.Create(args.outFile)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if cerr := outFile.Close(); cerr != nil {
			log.Printf("error closing %s, %s", args.outFile, cerr)
		}
	}()

	diags, err := batch.Run(lines, lm, outFile)
	if err != nil {
		return err
	}
	for _, d := range diags {
		switch {
		case args.verbose:
			fmt.Println(batch.VerboseLine(d))
		case d.Skipped != "":
			log.Print(batch.VerboseLine(d))
		}
	}
	return nil
}
