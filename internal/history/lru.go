package history

import (
	"fmt"
	"sync"
)

// LRUStore is an in-memory LRU cache that delegates to an optional
// backing Store. With a nil backing store, evicted entries are gone.
type LRUStore struct {
	mu   sync.Mutex
	cap  int
	back Store

	// Doubly-linked list for LRU ordering (most recent at head).
	head, tail *lruEntry
	items      map[string]*lruEntry
}

type lruEntry struct {
	key   string
	entry *Entry
	prev  *lruEntry
	next  *lruEntry
}

// NewLRUStore creates an LRU cache with the given capacity. back may be
// nil. Capacity must be >= 1.
func NewLRUStore(cap int, back Store) *LRUStore {
	if cap < 1 {
		cap = 1
	}
	return &LRUStore{
		cap:   cap,
		back:  back,
		items: make(map[string]*lruEntry, cap),
	}
}

// Save writes the entry to the cache and delegates to the backing store.
func (s *LRUStore) Save(entry *Entry) error {
	s.mu.Lock()
	s.put(entry.ID, entry)
	s.mu.Unlock()

	if s.back == nil {
		return nil
	}
	return s.back.Save(entry)
}

// Load checks the cache first. On miss, loads from the backing store
// and promotes the entry into the cache.
func (s *LRUStore) Load(runID string) (*Entry, error) {
	s.mu.Lock()
	if e, ok := s.items[runID]; ok {
		s.moveToFront(e)
		entry := e.entry
		s.mu.Unlock()
		return entry, nil
	}
	s.mu.Unlock()

	if s.back == nil {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	entry, err := s.back.Load(runID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.put(runID, entry)
	s.mu.Unlock()

	return entry, nil
}

// Recent returns up to n cached entries, most recently used first.
func (s *LRUStore) Recent(n int) []*Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Entry
	for e := s.head; e != nil && len(out) < n; e = e.next {
		out = append(out, e.entry)
	}
	return out
}

// Len returns the number of cached entries.
func (s *LRUStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// put inserts or refreshes key. Caller holds s.mu.
func (s *LRUStore) put(key string, entry *Entry) {
	if e, ok := s.items[key]; ok {
		e.entry = entry
		s.moveToFront(e)
		return
	}
	e := &lruEntry{key: key, entry: entry}
	s.items[key] = e
	s.pushFront(e)
	if len(s.items) > s.cap {
		s.evict()
	}
}

func (s *LRUStore) pushFront(e *lruEntry) {
	e.prev = nil
	e.next = s.head
	if s.head != nil {
		s.head.prev = e
	}
	s.head = e
	if s.tail == nil {
		s.tail = e
	}
}

func (s *LRUStore) moveToFront(e *lruEntry) {
	if s.head == e {
		return
	}
	s.remove(e)
	s.pushFront(e)
}

func (s *LRUStore) remove(e *lruEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		s.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		s.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}

func (s *LRUStore) evict() {
	if s.tail == nil {
		return
	}
	e := s.tail
	s.remove(e)
	delete(s.items, e.key)
}
