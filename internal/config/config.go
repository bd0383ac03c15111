package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Capacity int    `yaml:"capacity"`
	Seed     int64  `yaml:"seed"` // 0 seeds from the clock
	Draws    int    `yaml:"draws"`
	Output   string `yaml:"output"`

	// Entries are "<id> <weight> <name>" lines. Catalog, when set, is a JSON
	// catalog whose toys are inserted after Entries.
	Entries []string `yaml:"entries,omitempty"`
	Catalog string   `yaml:"catalog,omitempty"`

	IndexDB string `yaml:"index_db,omitempty"`

	Server ServerConfig `yaml:"server"`
}

type ServerConfig struct {
	Addr               string `yaml:"addr"`
	MaxDrawsPerRequest int    `yaml:"max_draws_per_request"`
}

func Defaults() Config {
	return Config{
		Capacity: 3,
		Draws:    10,
		Output:   "results.txt",
		Entries: []string{
			"1 2 конструктор",
			"2 2 робот",
			"3 6 кукла",
		},
		Server: ServerConfig{
			Addr:               ":8080",
			MaxDrawsPerRequest: 10000,
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	cfg, err = Parse(raw)
	if err != nil {
		return cfg, err
	}
	if cfg.Catalog != "" && !filepath.IsAbs(cfg.Catalog) {
		cfg.Catalog = filepath.Join(filepath.Dir(path), cfg.Catalog)
	}
	return cfg, nil
}

// Parse decodes a YAML document over Defaults. Keys present in the document
// replace the defaults wholesale, including the entries list.
func Parse(raw []byte) (Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("toystore.yaml: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("toystore.yaml: %w", err)
	}
	return cfg, nil
}

func (c *Config) Normalize() {
	if c == nil {
		return
	}
	c.Output = strings.TrimSpace(c.Output)
	c.Catalog = strings.TrimSpace(c.Catalog)
	c.IndexDB = strings.TrimSpace(c.IndexDB)
	c.Server.Addr = strings.TrimSpace(c.Server.Addr)
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.MaxDrawsPerRequest <= 0 {
		c.Server.MaxDrawsPerRequest = 10000
	}
}

func (c Config) Validate() error {
	if c.Capacity < 1 {
		return fmt.Errorf("capacity must be >= 1 (got %d)", c.Capacity)
	}
	if c.Draws < 0 {
		return fmt.Errorf("draws must be >= 0 (got %d)", c.Draws)
	}
	if c.Draws > 0 && c.Output == "" {
		return fmt.Errorf("output is required when draws > 0")
	}
	return nil
}
