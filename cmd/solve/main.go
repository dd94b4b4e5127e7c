// Command solve reads a TSPLIB instance, builds an initial tour with the
// nearest-neighbor heuristic, improves it with k-opt local search, and
// writes the resulting tour to stdout as one city id per line.
//
// Usage:
//
//	solve <tsp-file> [--candidates K] [--kopt {2,3,5}] [--trials T] [--seed S]
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/katalvlaran/lktsp/greedy"
	"github.com/katalvlaran/lktsp/kopt"
	"github.com/katalvlaran/lktsp/tour"
	"github.com/katalvlaran/lktsp/tsplib"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("solve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	candidates := fs.Int("candidates", 10, "candidate shortlist width used by both nearest-neighbor construction and k-opt")
	koptWidth := fs.Int("kopt", 2, "k-opt candidate-list width: 2, 3, or 5")
	trials := fs.Int("trials", 0, "max accepted k-opt moves (0 = unlimited)")
	seed := fs.Int64("seed", 0, "RNG seed for k-opt neighborhood shuffling")

	const usage = "usage: solve <tsp-file> [--candidates K] [--kopt {2,3,5}] [--trials T] [--seed S]"
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, usage)
		return 2
	}
	// flag stops at the first non-flag argument, so parse what follows the
	// file path as well.
	path := fs.Arg(0)
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(stderr, usage)
		return 2
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(stderr, "solve: %v\n", err)
		return 1
	}
	defer f.Close()

	ds, err := tsplib.Load(f)
	if err != nil {
		fmt.Fprintf(stderr, "solve: %v\n", err)
		return 1
	}

	width := *candidates
	if n := ds.Len(); width >= n {
		width = n - 1
	}
	if width > 0 {
		if err := ds.Candidates(width); err != nil {
			fmt.Fprintf(stderr, "solve: %v\n", err)
			return 1
		}
	}

	order, err := greedy.Build(ds, 0)
	if err != nil {
		fmt.Fprintf(stderr, "solve: %v\n", err)
		return 1
	}

	tr := tour.NewTwoLevelList(ds)
	if err := tr.Apply(order); err != nil {
		fmt.Fprintf(stderr, "solve: %v\n", err)
		return 1
	}

	opts := kopt.DefaultOptions()
	opts.KOptWidth = *koptWidth
	opts.MaxTrials = *trials
	opts.Seed = *seed
	opts.ShuffleNeighborhood = *seed != 0
	if _, err := kopt.Improve(tr, ds, opts); err != nil {
		fmt.Fprintf(stderr, "solve: %v\n", err)
		return 1
	}

	w := bufio.NewWriter(stdout)
	defer w.Flush()
	v, ok := tr.Get(0)
	if !ok {
		fmt.Fprintln(stderr, "solve: empty tour")
		return 1
	}
	for i := 0; i < tr.Len(); i++ {
		fmt.Fprintln(w, v.ID())
		next, ok := tr.Successor(v)
		if !ok {
			fmt.Fprintln(stderr, "solve: broken tour during output")
			return 1
		}
		v = next
	}
	return 0
}
