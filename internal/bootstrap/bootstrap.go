package bootstrap

import (
	"fmt"
	"log"
	"time"

	"toystore/internal/catalog"
	"toystore/internal/config"
	"toystore/internal/toys"
)

// Result is a populated store plus what it took to build it.
type Result struct {
	Store  *toys.Store
	Seed   int64
	Report toys.PutReport
	// CatalogDigest is empty when no catalog was configured.
	CatalogDigest string
}

// Store builds a store from cfg: config entries first, then catalog toys.
// A zero seed is replaced with one taken from the clock and reported back.
func Store(cfg config.Config, logger *log.Logger) (Result, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	st, err := toys.New(cfg.Capacity, toys.WithSeed(seed), toys.WithLogger(logger))
	if err != nil {
		return Result{}, err
	}
	res := Result{Store: st, Seed: seed}

	entries := append([]string(nil), cfg.Entries...)
	if cfg.Catalog != "" {
		cat, err := catalog.Load(cfg.Catalog)
		if err != nil {
			return Result{}, fmt.Errorf("load catalog: %w", err)
		}
		entries = append(entries, cat.Entries()...)
		res.CatalogDigest = cat.Digest
	}

	rep, err := st.PutWithReport(entries)
	res.Report = rep
	if err != nil {
		return res, fmt.Errorf("put entries: %w", err)
	}
	return res, nil
}
