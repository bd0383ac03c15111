package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse_EntriesAndDigest(t *testing.T) {
	c, err := Parse([]byte(`{"toys":[
	  {"id":1,"name":"constructor","weight":2},
	  {"id":2,"name":"robot","weight":2},
	  {"id":3,"name":"doll","weight":6}
	]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []string{"1 2 constructor", "2 2 robot", "3 6 doll"}
	got := c.Entries()
	if len(got) != len(want) {
		t.Fatalf("entries=%v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entries[%d]=%q want=%q", i, got[i], want[i])
		}
	}

	// Same toys, different whitespace.
	c2, err := Parse([]byte(`{"toys":[{"id":1,"name":"constructor","weight":2},{"id":2,"name":"robot","weight":2},{"id":3,"name":"doll","weight":6}]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Digest == "" || c.Digest != c2.Digest {
		t.Fatalf("digest mismatch: %q vs %q", c.Digest, c2.Digest)
	}
}

func TestParse_SchemaRejects(t *testing.T) {
	cases := []string{
		`{}`,
		`{"toys":[{"id":1,"name":"teddy bear","weight":2}]}`,
		`{"toys":[{"id":"1","name":"a","weight":2}]}`,
		`{"toys":[{"id":1,"name":"a","weight":2.5}]}`,
		`{"toys":[{"id":1,"name":"a"}]}`,
		`{"toys":[],"extra":true}`,
		`not json`,
	}
	for _, c := range cases {
		if _, err := Parse([]byte(c)); err == nil {
			t.Fatalf("expected error for %s", c)
		}
	}
}

func TestLoad_File(t *testing.T) {
	p := filepath.Join(t.TempDir(), "toys.json")
	if err := os.WriteFile(p, []byte(`{"toys":[{"id":9,"name":"kite","weight":1}]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Toys) != 1 || c.Toys[0].Name != "kite" {
		t.Fatalf("toys=%+v", c.Toys)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
