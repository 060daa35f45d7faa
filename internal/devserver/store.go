package devserver

import (
	"sync"
	"time"

	"github.com/matzehuels/bridges/pkg/document"
)

// Entry is the latest document stored for a user and assignment.
type Entry struct {
	Revision   string            `json:"revision"`
	Document   document.Document `json:"document"`
	ReceivedAt time.Time         `json:"received_at"`
	Revisions  int               `json:"revisions"`
}

// Store keeps documents in memory.
type Store struct {
	mu   sync.RWMutex
	docs map[string]Entry
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{docs: make(map[string]Entry)}
}

func storeKey(user, assignment string) string { return user + "/" + assignment }

// Put replaces the document for user and assignment.
func (s *Store) Put(user, assignment, revision string, doc document.Document) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := storeKey(user, assignment)
	e := Entry{
		Revision:   revision,
		Document:   doc,
		ReceivedAt: time.Now().UTC(),
		Revisions:  s.docs[key].Revisions + 1,
	}
	s.docs[key] = e
	return e
}

// Get returns the document for user and assignment.
func (s *Store) Get(user, assignment string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.docs[storeKey(user, assignment)]
	return e, ok
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
