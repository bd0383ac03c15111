package results

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteRead_Plain(t *testing.T) {
	p := filepath.Join(t.TempDir(), "results.txt")
	ids := []int{1, 3, 3, 2, 3}
	if err := Write(p, ids); err != nil {
		t.Fatalf("write: %v", err)
	}
	raw, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read raw: %v", err)
	}
	if string(raw) != "1\n3\n3\n2\n3\n" {
		t.Fatalf("raw=%q", raw)
	}
	got, err := Read(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(ids) {
		t.Fatalf("got=%v want=%v", got, ids)
	}
	for i := range ids {
		if got[i] != ids[i] {
			t.Fatalf("got[%d]=%d want=%d", i, got[i], ids[i])
		}
	}
}

func TestWriteRead_Zstd(t *testing.T) {
	p := filepath.Join(t.TempDir(), "results.txt.zst")
	ids := make([]int, 1000)
	for i := range ids {
		ids[i] = i % 3
	}
	if err := Write(p, ids); err != nil {
		t.Fatalf("write: %v", err)
	}
	raw, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read raw: %v", err)
	}
	// zstd frame magic 0xFD2FB528, little endian.
	if len(raw) < 4 || raw[0] != 0x28 || raw[1] != 0xB5 || raw[2] != 0x2F || raw[3] != 0xFD {
		t.Fatalf("expected zstd frame")
	}
	got, err := Read(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(ids) || got[999] != 0 || got[500] != 2 {
		t.Fatalf("round trip mismatch: len=%d", len(got))
	}
}

func TestCreate_Truncates(t *testing.T) {
	p := filepath.Join(t.TempDir(), "results.txt")
	if err := Write(p, []int{1, 2, 3, 4}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := Write(p, []int{7}); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Read(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 || got[0] != 7 {
		t.Fatalf("got=%v want=[7]", got)
	}
}

func TestRead_BadLine(t *testing.T) {
	p := filepath.Join(t.TempDir(), "results.txt")
	if err := os.WriteFile(p, []byte("1\nx\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Read(p); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestTally(t *testing.T) {
	got := Tally([]int{3, 1, 3, 2, 3, 1})
	if len(got) != 3 {
		t.Fatalf("tally=%+v", got)
	}
	if got[0].ID != 3 || got[0].N != 3 || got[0].Share != 0.5 {
		t.Fatalf("top=%+v", got[0])
	}
	if got[1].ID != 1 || got[2].ID != 2 {
		t.Fatalf("order=%+v", got)
	}
}
