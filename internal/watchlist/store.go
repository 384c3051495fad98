package watchlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var (
	ErrNoSymbols     = errors.New("symbol source is empty")
	ErrSymbolTooLong = errors.New("symbol too long")
)

type entry struct {
	mu  sync.RWMutex
	rec Record
}

// Store is the fixed list of watched symbols. The updater is the only writer;
// the renderer reads copies. Each entry has its own lock so a reader never
// observes a half-written field.
type Store struct {
	entries []*entry
}

func New(symbols []string) (*Store, error) {
	if len(symbols) == 0 {
		return nil, ErrNoSymbols
	}
	s := &Store{entries: make([]*entry, 0, len(symbols))}
	for _, sym := range symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" {
			return nil, fmt.Errorf("empty symbol")
		}
		if len(sym) > MaxSymbolLen {
			return nil, fmt.Errorf("%w: %q (max %d)", ErrSymbolTooLong, sym, MaxSymbolLen)
		}
		s.entries = append(s.entries, &entry{rec: Record{Symbol: sym}})
	}
	return s, nil
}

// Load reads one symbol per line. Blank lines and lines starting with '#'
// are skipped.
func Load(r io.Reader) (*Store, error) {
	sc := bufio.NewScanner(r)
	var symbols []string
	line := 0
	for sc.Scan() {
		line++
		sym := strings.TrimSpace(sc.Text())
		if sym == "" || strings.HasPrefix(sym, "#") {
			continue
		}
		if len(sym) > MaxSymbolLen {
			return nil, fmt.Errorf("line %d: %w: %q (max %d)", line, ErrSymbolTooLong, sym, MaxSymbolLen)
		}
		symbols = append(symbols, sym)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read symbols: %w", err)
	}
	return New(symbols)
}

func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open symbols: %w", err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s *Store) Len() int {
	return len(s.entries)
}

// Get returns a copy of the record at i.
func (s *Store) Get(i int) Record {
	e := s.entries[i]
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rec
}

// Snapshot copies every record in load order.
func (s *Store) Snapshot() []Record {
	out := make([]Record, len(s.entries))
	for i := range s.entries {
		out[i] = s.Get(i)
	}
	return out
}

func (s *Store) Symbols() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		// symbol never changes after New
		out[i] = e.rec.Symbol
	}
	return out
}

// Update replaces the market fields of record i. Names longer than MaxNameLen
// are cut at the limit.
func (s *Store) Update(i int, name string, price, previousPrice float64) {
	if len(name) > MaxNameLen {
		name = name[:MaxNameLen]
	}
	e := s.entries[i]
	e.mu.Lock()
	e.rec.Name = name
	e.rec.Price = price
	e.rec.PreviousPrice = previousPrice
	e.rec.UpdatedAt = time.Now()
	e.mu.Unlock()
}
