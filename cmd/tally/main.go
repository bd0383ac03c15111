package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"toystore/internal/persistence/indexdb"
	"toystore/internal/persistence/results"
)

func main() {
	var (
		inPath = flag.String("in", "", "results file (.zst supported)")
		dbPath = flag.String("db", "", "sqlite index (lists runs, or tallies -run)")
		runID  = flag.String("run", "", "run id to tally from the index")
	)
	flag.Parse()

	switch {
	case *inPath != "":
		ids, err := results.Read(*inPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read results:", err)
			os.Exit(1)
		}
		fmt.Printf("draws=%d\n", len(ids))
		for _, c := range results.Tally(ids) {
			fmt.Printf("%d\t%d\t%.2f%%\n", c.ID, c.N, c.Share*100)
		}
	case *dbPath != "":
		if err := fromIndex(*dbPath, *runID); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "missing -in or -db")
		os.Exit(2)
	}
}

func fromIndex(path, runID string) error {
	idx, err := indexdb.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer idx.Close()
	ctx := context.Background()

	if runID == "" {
		runs, err := idx.Runs(ctx)
		if err != nil {
			return err
		}
		for _, r := range runs {
			fmt.Printf("%s\t%s\tseed=%d\tcapacity=%d\tdraws=%d\t%s\n",
				r.ID, r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"), r.Seed, r.Capacity, r.Draws, r.Output)
		}
		return nil
	}

	pool, err := idx.Pool(ctx, runID)
	if err != nil {
		return err
	}
	counts, err := idx.Counts(ctx, runID)
	if err != nil {
		return err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	fmt.Printf("run=%s draws=%d\n", runID, total)
	for i, t := range pool {
		share := 0.0
		if total > 0 {
			share = float64(counts[t.ID]) / float64(total) * 100
		}
		fmt.Printf("[%d] %s\t%d\t%.2f%%\n", i, t, counts[t.ID], share)
	}
	return nil
}
