/*
Package memory In-memory persistence backend

Store keeps plain records, never domain objects. Queries rebuild fresh
aggregates from records on every call, so callers never share a stale
instance. Units of work run one at a time and restore a snapshot of the
store when the work function fails.
*/
package memory

import (
	"sort"
	"sync"
	"time"

	"storefront/domain/shared"
)

type productRecord struct {
	id        string
	name      string
	price     shared.Money
	seq       int64
	createdAt time.Time
	updatedAt time.Time
}

type orderRecord struct {
	id          string
	productIDs  []string
	totalAmount shared.Money // stored copy; queries recompute
	seq         int64
	createdAt   time.Time
	updatedAt   time.Time
}

// Store shared record storage for the in-memory repositories
type Store struct {
	mu       sync.RWMutex
	products map[string]productRecord
	orders   map[string]orderRecord
	seq      int64

	// txMu serializes units of work
	txMu sync.Mutex
}

func NewStore() *Store {
	return &Store{
		products: make(map[string]productRecord),
		orders:   make(map[string]orderRecord),
	}
}

type snapshot struct {
	products map[string]productRecord
	orders   map[string]orderRecord
	seq      int64
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{
		products: make(map[string]productRecord, len(s.products)),
		orders:   make(map[string]orderRecord, len(s.orders)),
		seq:      s.seq,
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.orders {
		v.productIDs = append([]string(nil), v.productIDs...)
		snap.orders[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = snap.products
	s.orders = snap.orders
	s.seq = snap.seq
}

// nextSeq must be called with mu held
func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

// orderIDsFor lists orders referencing productID; mu must be held
func (s *Store) orderIDsFor(productID string) []string {
	records := make([]orderRecord, 0)
	for _, o := range s.orders {
		for _, pid := range o.productIDs {
			if pid == productID {
				records = append(records, o)
				break
			}
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq < records[j].seq })

	ids := make([]string, len(records))
	for i, o := range records {
		ids[i] = o.id
	}
	return ids
}

// sumOf recomputes a stored total from current product records; mu must be held
func (s *Store) sumOf(productIDs []string) shared.Money {
	prices := make([]shared.Money, 0, len(productIDs))
	for _, pid := range productIDs {
		if p, ok := s.products[pid]; ok {
			prices = append(prices, p.price)
		}
	}
	return shared.Sum(prices...)
}

// ProductCount number of stored products
func (s *Store) ProductCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// OrderCount number of stored orders
func (s *Store) OrderCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}
