package results

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Compressed reports whether path is written zstd-framed.
func Compressed(path string) bool { return strings.HasSuffix(path, ".zst") }

// Writer writes newline-separated draw ids, zstd-framed when the path ends
// in .zst. It implements io.Writer so a store can stream into it directly.
type Writer struct {
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// Create truncates path and opens it for writing.
func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	out := &Writer{f: f}
	var dst io.Writer = f
	if Compressed(path) {
		enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		out.enc = enc
		dst = enc
	}
	out.w = bufio.NewWriterSize(dst, 64*1024)
	return out, nil
}

func (w *Writer) Write(p []byte) (int, error) { return w.w.Write(p) }

func (w *Writer) WriteID(id int) error {
	if _, err := w.w.WriteString(strconv.Itoa(id)); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Close flushes and releases the file. It is safe to call once; the file is
// closed even when flushing fails.
func (w *Writer) Close() error {
	var first error
	if w.w != nil {
		first = w.w.Flush()
		w.w = nil
	}
	if w.enc != nil {
		if err := w.enc.Close(); err != nil && first == nil {
			first = err
		}
		w.enc = nil
	}
	if w.f != nil {
		if err := w.f.Close(); err != nil && first == nil {
			first = err
		}
		w.f = nil
	}
	return first
}

// Write stores ids at path.
func Write(path string, ids []int) error {
	w, err := Create(path)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := w.WriteID(id); err != nil {
			_ = w.Close()
			return err
		}
	}
	return w.Close()
}

// Read loads every id from a results file. Blank lines are ignored.
func Read(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var src io.Reader = f
	if Compressed(path) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		src = dec
	}

	var ids []int
	sc := bufio.NewScanner(src)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		id, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filepath.Base(path), line, err)
		}
		ids = append(ids, id)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

type Count struct {
	ID    int
	N     int
	Share float64
}

// Tally counts each id, most frequent first and ties by id.
func Tally(ids []int) []Count {
	byID := map[int]int{}
	for _, id := range ids {
		byID[id]++
	}
	out := make([]Count, 0, len(byID))
	for id, n := range byID {
		out = append(out, Count{ID: id, N: n, Share: float64(n) / float64(len(ids))})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].N != out[j].N {
			return out[i].N > out[j].N
		}
		return out[i].ID < out[j].ID
	})
	return out
}
