package toys

import (
	"log"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/seehuhn/mt19937"
)

// Store keeps every inserted toy in insertion order and in a heaviest-first
// heap, plus a fixed-capacity sampling pool holding the first Cap() of them.
// Once the pool is full, further toys still land in Records and ByWeight but
// are never sampled.
type Store struct {
	mu sync.Mutex

	capacity int
	count    int
	ids      []int
	names    []string
	weights  []int

	records  []Toy
	byWeight weightHeap

	rng *rand.Rand
	log *log.Logger
}

type Option func(*Store)

// WithSeed seeds the store's Mersenne Twister so draws are reproducible.
func WithSeed(seed int64) Option {
	return func(s *Store) { s.rng = newRand(seed) }
}

// WithSource replaces the random source entirely.
func WithSource(src rand.Source) Option {
	return func(s *Store) { s.rng = rand.New(src) }
}

// WithLogger sets where capacity and malformed-entry notices go.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func newRand(seed int64) *rand.Rand {
	mt := mt19937.New()
	mt.Seed(seed)
	return rand.New(mt)
}

func New(capacity int, opts ...Option) (*Store, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	registerMetrics()
	s := &Store{
		capacity: capacity,
		ids:      make([]int, capacity),
		names:    make([]string, capacity),
		weights:  make([]int, capacity),
	}
	for _, o := range opts {
		o(s)
	}
	if s.rng == nil {
		s.rng = newRand(time.Now().UnixNano())
	}
	if s.log == nil {
		s.log = log.New(os.Stderr, "[toys] ", log.LstdFlags)
	}
	return s, nil
}

// AddToy parses id and weight and inserts the toy. A parse failure is
// returned as *FormatError and leaves the store untouched. A full pool is
// reported on the logger, not returned.
func (s *Store) AddToy(id, name, weight string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.addLocked(id, name, weight)
	return err
}

func (s *Store) addLocked(id, name, weight string) (pooled bool, err error) {
	toyID, err := parseField("id", id)
	if err != nil {
		return false, err
	}
	toyWeight, err := parseField("weight", weight)
	if err != nil {
		return false, err
	}
	t := Toy{ID: toyID, Name: name, Weight: toyWeight}
	s.records = append(s.records, t)
	s.byWeight.add(t)
	toysInserted.Inc()

	if s.count >= s.capacity {
		toysOverflowed.Inc()
		s.log.Printf("pool full (%d/%d), toy %d %q kept out of sampling", s.count, s.capacity, t.ID, t.Name)
		return false, nil
	}
	s.ids[s.count] = t.ID
	s.names[s.count] = t.Name
	s.weights[s.count] = t.Weight
	s.count++
	return true, nil
}

// PutReport summarizes one batch.
type PutReport struct {
	Stored     int
	Overflowed int
	Malformed  int
}

// Put inserts "<id> <weight> <name>" lines. See PutWithReport.
func (s *Store) Put(entries []string) error {
	_, err := s.PutWithReport(entries)
	return err
}

// PutWithReport inserts "<id> <weight> <name>" lines. Lines that do not split
// into exactly three fields are logged and skipped. A non-numeric id or weight
// stops the batch and is returned; lines before it stay inserted.
func (s *Store) PutWithReport(entries []string) (PutReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rep PutReport
	for _, entry := range entries {
		parts := splitEntry(entry)
		if len(parts) != 3 {
			rep.Malformed++
			toysMalformed.Inc()
			s.log.Print((&MalformedEntryError{Line: entry, Fields: len(parts)}).Error())
			continue
		}
		pooled, err := s.addLocked(parts[0], parts[2], parts[1])
		if err != nil {
			return rep, err
		}
		if pooled {
			rep.Stored++
		} else {
			rep.Overflowed++
		}
	}
	return rep, nil
}

// Len is the number of toys in the sampling pool.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *Store) Cap() int { return s.capacity }

// Records returns every inserted toy in insertion order.
func (s *Store) Records() []Toy {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Toy, len(s.records))
	copy(out, s.records)
	return out
}

// Pool returns the sampled toys, rebuilt from the pool arrays.
func (s *Store) Pool() []Toy {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Toy, s.count)
	for i := 0; i < s.count; i++ {
		out[i] = Toy{ID: s.ids[i], Name: s.names[i], Weight: s.weights[i]}
	}
	return out
}

// Heaviest returns the toy with the largest weight across all records.
func (s *Store) Heaviest() (Toy, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byWeight.peek()
}

// ByWeight returns all records heaviest first.
func (s *Store) ByWeight() []Toy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byWeight.drain()
}

// splitEntry splits on single spaces and drops trailing empty fields, so
// "1 2 A " is three fields while "1  2 A" is four.
func splitEntry(entry string) []string {
	parts := strings.Split(entry, " ")
	if len(parts) == 1 {
		return parts
	}
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
