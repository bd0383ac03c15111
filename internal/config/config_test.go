package config

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Capacity != 3 || cfg.Draws != 10 || cfg.Output != "results.txt" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.Entries) != 3 {
		t.Fatalf("default entries=%d want=3", len(cfg.Entries))
	}
}

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
capacity: 5
seed: 7
draws: 100
output: out.txt.zst
entries:
  - "10 1 ball"
  - "11 2 kite"
server:
  addr: " 127.0.0.1:9000 "
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Capacity != 5 || cfg.Seed != 7 || cfg.Draws != 100 || cfg.Output != "out.txt.zst" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if len(cfg.Entries) != 2 || cfg.Entries[0] != "10 1 ball" {
		t.Fatalf("entries=%v", cfg.Entries)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("addr=%q", cfg.Server.Addr)
	}
	if cfg.Server.MaxDrawsPerRequest != 10000 {
		t.Fatalf("max draws default lost: %d", cfg.Server.MaxDrawsPerRequest)
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := []string{
		"capacity: 0",
		"draws: -1",
		"output: ''\ndraws: 3",
		"capacity: [1",
	}
	for _, c := range cases {
		if _, err := Parse([]byte(c)); err == nil {
			t.Fatalf("expected error for %q", c)
		}
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toystore.yaml")
	if err := os.WriteFile(path, []byte("capacity: 3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan Config, 4)
	done := make(chan error, 1)
	var logs bytes.Buffer
	go func() {
		done <- Watch(ctx, path, log.New(&logs, "", 0), func(c Config) { got <- c })
	}()

	// Give the watcher time to register before writing.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case c := <-got:
			// A truncate-then-write can surface an intermediate reload.
			if c.Capacity != 9 {
				continue
			}
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("watch: %v", err)
			}
			return
		case <-tick.C:
			_ = os.WriteFile(path, []byte("capacity: 9\n"), 0o644)
		case <-deadline:
			t.Fatalf("no reload observed")
		}
	}
}

func TestLoad_CatalogRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "toystore.yaml")
	body := "catalog: toys.json\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if want := filepath.Join(dir, "toys.json"); cfg.Catalog != want {
		t.Fatalf("catalog=%q want=%q", cfg.Catalog, want)
	}

	abs := filepath.Join(t.TempDir(), "elsewhere.json")
	if err := os.WriteFile(path, []byte("catalog: "+abs+"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Catalog != abs {
		t.Fatalf("absolute catalog rewritten: %q", cfg.Catalog)
	}
}
