package toys

import (
	"bufio"
	"io"
	"os"
	"strconv"
)

// Sampling bands over a roll in [0, 100). They are fixed and ignore the
// stored weights: 20% first pooled toy, 20% second, 60% third.
const (
	rollRange  = 100
	firstBand  = 20
	secondBand = 40
)

// Bands is the number of pool slots Get can return.
const Bands = 3

// Get returns the id of one of the first three pooled toys.
func (s *Store) Get() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked()
}

// GetN draws n ids under a single lock acquisition.
func (s *Store) GetN(n int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		id, err := s.getLocked()
		if err != nil {
			return out, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (s *Store) getLocked() (int, error) {
	if s.count < Bands {
		return 0, ErrTooFewToys
	}
	slot := bandFor(s.rng.Intn(rollRange))
	drawsTotal.WithLabelValues(strconv.Itoa(slot)).Inc()
	return s.ids[slot], nil
}

func bandFor(roll int) int {
	switch {
	case roll < firstBand:
		return 0
	case roll < secondBand:
		return 1
	default:
		return 2
	}
}

// WriteResults draws n times and writes each id on its own line.
func (s *Store) WriteResults(w io.Writer, n int) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < n; i++ {
		id, err := s.Get()
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(strconv.Itoa(id) + "\n"); err != nil {
			return &ResourceError{Op: "write", Err: err}
		}
	}
	if err := bw.Flush(); err != nil {
		return &ResourceError{Op: "flush", Err: err}
	}
	return nil
}

// WriteResultsToFile truncates path and writes n draws to it. Failures are
// logged on the store's logger and returned; the file is always closed.
func (s *Store) WriteResultsToFile(path string, n int) (err error) {
	defer func() {
		if err != nil {
			s.log.Printf("write results: %v", err)
		}
	}()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return &ResourceError{Op: "open", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &ResourceError{Op: "close", Path: path, Err: cerr}
		}
	}()

	if err := s.WriteResults(f, n); err != nil {
		if re, ok := err.(*ResourceError); ok {
			re.Path = path
		}
		return err
	}
	return nil
}
