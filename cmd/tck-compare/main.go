// SPDX-License-Identifier: MIT
//
// tck-compare decides strong timed bisimilarity between two NTAs and
// renders whichever certificate the core produced (contradiction DAG
// or witness graph) as DOT, per spec.md §6's external-interface
// contract. The NTA textual parser itself is out of scope for the core
// (spec.md §1); this driver instead reads each input file as a JSON
// encoding of vcg.System, a stand-in input format chosen because no
// grammar is specified and JSON needs no new dependency to decode.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tck-go/tbisim/bisim"
	"github.com/tck-go/tbisim/contradiction"
	"github.com/tck-go/tbisim/dot"
	"github.com/tck-go/tbisim/vcg"
	"github.com/tck-go/tbisim/witness"
	"github.com/tck-go/tbisim/zone"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("tck-compare", flag.ContinueOnError)
	fs.SetOutput(stderr)
	relation := fs.String("r", "", "relationship to decide (only \"strong-timed-bisim\" is accepted)")
	outPath := fs.String("o", "", "output file (default stdout)")
	orderHint := fs.Int("n", 0, "exploration-order tuning hint")
	blockSize := fs.Int64("block-size", 0, "zone container capacity allocator hint")
	tableSize := fs.Int64("table-size", 0, "non-bisim cache table-size allocator hint")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: tck-compare [flags] left.json right.json\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}

	if *relation != "" && *relation != "strong-timed-bisim" {
		fmt.Fprintf(stderr, "ERROR: unsupported relationship %q\n", *relation)
		return 1
	}

	rest := fs.Args()
	if len(rest) != 2 {
		fmt.Fprintf(stderr, "ERROR: expected two positional NTA filenames, got %d\n", len(rest))
		return 1
	}

	out := stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(stderr, "ERROR: %v\n", err)
			return 1
		}
		defer f.Close()
		out = f
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	start := time.Now()
	stats, err := compare(ctx, rest[0], rest[1], out, *orderHint, *blockSize, *tableSize)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}
	printStats(stderr, stats, start)
	return 0
}

type runStats struct {
	answer  bisim.Answer
	visited int
	cached  int
}

func compare(ctx context.Context, leftPath, rightPath string, out *os.File, orderHint int, blockSize, tableSize int64) (runStats, error) {
	sysLeft, err := loadSystem(leftPath)
	if err != nil {
		return runStats{}, fmt.Errorf("loading %s: %w", leftPath, err)
	}
	sysRight, err := loadSystem(rightPath)
	if err != nil {
		return runStats{}, fmt.Errorf("loading %s: %w", rightPath, err)
	}
	if sysLeft.NumClocks < 0 || sysRight.NumClocks < 0 {
		return runStats{}, fmt.Errorf("incompatible-systems: negative clock count")
	}

	layout := zone.Layout{O1: sysLeft.NumClocks, O2: sysRight.NumClocks}
	a := vcg.New(sysLeft, layout, zone.Left)
	b := vcg.New(sysRight, layout, zone.Right)

	res, err := bisim.Run(a, b,
		bisim.WithContext(ctx),
		bisim.WithOrderHint(orderHint),
		bisim.WithTableSizeHint(int(tableSize)),
		bisim.WithContainerOptions(zone.WithCapacityHint(int(blockSize))),
	)
	if err != nil {
		return runStats{}, err
	}
	stats := runStats{answer: res.Answer, visited: res.VisitedStates, cached: res.Cache.Len()}

	switch res.Answer {
	case bisim.NotBisimilar:
		dag, ok, err := contradiction.Build(a, b, res.Cache, res.InitialLeft, res.InitialRight, contradiction.WithContext(ctx))
		if err != nil {
			return stats, err
		}
		if !ok {
			return stats, contradiction.ErrNoCertificate
		}
		fmt.Fprint(out, dot.Contradiction(dag, sysLeft, sysRight, layout, sysLeft.Name+"_vs_"+sysRight.Name))
	case bisim.Bisimilar:
		g, err := witness.Build(a, b, res)
		if err != nil {
			return stats, err
		}
		fmt.Fprint(out, dot.Witness(g, sysLeft, sysRight, layout, sysLeft.Name+"_vs_"+sysRight.Name))
	default:
		return stats, bisim.ErrRecursionBound
	}
	return stats, nil
}

func loadSystem(path string) (*vcg.System, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sys vcg.System
	if err := json.Unmarshal(data, &sys); err != nil {
		return nil, err
	}
	return &sys, nil
}

func printStats(stderr *os.File, stats runStats, start time.Time) {
	var ru syscall.Rusage
	maxRSS := int64(0)
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &ru); err == nil {
		// ru.Maxrss is kilobytes on Linux, bytes on Darwin; this driver
		// targets Linux per the environment this module ships to.
		maxRSS = int64(ru.Maxrss) * 1024
	}
	fmt.Fprintf(stderr, "answer=%s\n", stats.answer)
	fmt.Fprintf(stderr, "visited-states=%d\n", stats.visited)
	fmt.Fprintf(stderr, "cached-non-bisim-entries=%d\n", stats.cached)
	fmt.Fprintf(stderr, "cpu-time-seconds=%.3f\n", time.Since(start).Seconds())
	fmt.Fprintf(stderr, "max-resident-memory-bytes=%d\n", maxRSS)
}
