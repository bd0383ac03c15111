package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"toystore/internal/bootstrap"
	"toystore/internal/config"
	"toystore/internal/persistence/indexdb"
	"toystore/internal/persistence/results"
	"toystore/internal/toys"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to toystore.yaml (default: built-in demo)")
		capacity   = flag.Int("capacity", 0, "sampling pool capacity (overrides config)")
		seed       = flag.Int64("seed", 0, "random seed (overrides config; 0 keeps config)")
		draws      = flag.Int("draws", -1, "number of draws to write (overrides config)")
		outPath    = flag.String("out", "", "results file; .zst suffix compresses (overrides config)")
		catPath    = flag.String("catalog", "", "JSON toy catalog (overrides config)")
		dbPath     = flag.String("db", "", "sqlite index to record the run in (overrides config)")
		inspect    = flag.Bool("inspect", false, "print the pool and weight ordering")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[toystore] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(2)
	}
	if *capacity > 0 {
		cfg.Capacity = *capacity
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *draws >= 0 {
		cfg.Draws = *draws
	}
	if *outPath != "" {
		cfg.Output = *outPath
	}
	if *catPath != "" {
		cfg.Catalog = *catPath
	}
	if *dbPath != "" {
		cfg.IndexDB = *dbPath
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	res, err := bootstrap.Store(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	st := res.Store
	logger.Printf("stored=%d overflowed=%d malformed=%d capacity=%d seed=%d",
		res.Report.Stored, res.Report.Overflowed, res.Report.Malformed, st.Cap(), res.Seed)

	if *inspect {
		printInspect(st)
	}
	if cfg.Draws == 0 {
		return
	}

	if err := writeDraws(cfg, res, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Printf("wrote %d draws to %s", cfg.Draws, cfg.Output)
}

func writeDraws(cfg config.Config, res bootstrap.Result, logger *log.Logger) error {
	st := res.Store
	if cfg.IndexDB == "" {
		if results.Compressed(cfg.Output) {
			w, err := results.Create(cfg.Output)
			if err != nil {
				return err
			}
			if err := st.WriteResults(w, cfg.Draws); err != nil {
				_ = w.Close()
				return err
			}
			return w.Close()
		}
		return st.WriteResultsToFile(cfg.Output, cfg.Draws)
	}

	ids, err := st.GetN(cfg.Draws)
	if err != nil {
		return err
	}
	if err := results.Write(cfg.Output, ids); err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	idx, err := indexdb.OpenSQLite(cfg.IndexDB)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer idx.Close()
	runID, err := idx.RecordRun(context.Background(), indexdb.Run{
		Seed:     res.Seed,
		Capacity: st.Cap(),
		Output:   cfg.Output,
	}, st.Pool(), ids)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	logger.Printf("indexed run %s in %s", runID, cfg.IndexDB)
	return nil
}

func printInspect(st *toys.Store) {
	fmt.Printf("pool (%d/%d):\n", st.Len(), st.Cap())
	for i, t := range st.Pool() {
		fmt.Printf("  [%d] %s\n", i, t)
	}
	fmt.Println("by weight:")
	for _, t := range st.ByWeight() {
		fmt.Printf("  %s\n", t)
	}
}
