package catalog

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"toystore/internal/toys"
)

//go:embed toys.schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("toys.schema.json", schemaJSON)
	})
	return schema, schemaErr
}

// Catalog is a validated list of toys in file order.
type Catalog struct {
	Toys   []toys.Toy `json:"toys"`
	Digest string     `json:"-"`
}

func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return c, nil
}

func Parse(raw []byte) (*Catalog, error) {
	s, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if err := s.Validate(doc); err != nil {
		return nil, err
	}
	var c Catalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	// Digest the re-encoded toys so whitespace changes do not move it.
	canon, _ := json.Marshal(c.Toys)
	c.Digest = sha256Hex(canon)
	return &c, nil
}

// Entries renders the catalog as "<id> <weight> <name>" batch lines.
func (c *Catalog) Entries() []string {
	out := make([]string, 0, len(c.Toys))
	for _, t := range c.Toys {
		out = append(out, strconv.Itoa(t.ID)+" "+strconv.Itoa(t.Weight)+" "+t.Name)
	}
	return out
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
