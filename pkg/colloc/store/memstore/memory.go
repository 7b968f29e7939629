// Package memstore is an in-memory store.Store implementation for tests
// and the pure library path.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/colloc/pkg/colloc/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu       sync.RWMutex
	nextID   int64
	docs     map[int64]store.Doc
	uriIndex map[string]int64
	results  map[string]store.ResultSet
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		nextID:   1,
		docs:     make(map[int64]store.Doc),
		uriIndex: make(map[string]int64),
		results:  make(map[string]store.ResultSet),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertDoc inserts or updates a document, keyed by URI.
func (s *Store) UpsertDoc(ctx context.Context, d store.Doc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.URI == "" {
		return nil
	}

	if existingID, ok := s.uriIndex[d.URI]; ok {
		d.ID = existingID
	} else {
		d.ID = s.nextID
		s.nextID++
		s.uriIndex[d.URI] = d.ID
	}

	s.docs[d.ID] = copyDoc(d)
	return nil
}

// GetDocByURI returns a document by URI.
func (s *Store) GetDocByURI(ctx context.Context, uri string) (store.Doc, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := s.uriIndex[uri]; ok {
		if doc, exists := s.docs[id]; exists {
			return copyDoc(doc), true, nil
		}
	}
	return store.Doc{}, false, nil
}

// ListDocs returns all documents in insertion order. The order is part of
// the contract: the corpus stream is rebuilt from it deterministically.
func (s *Store) ListDocs(ctx context.Context) ([]store.Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Doc, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, copyDoc(doc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SaveResultSet stores a ranked table, assigning an ID when absent.
func (s *Store) SaveResultSet(ctx context.Context, rs store.ResultSet) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rs.ID == "" {
		rs.ID = store.NewResultSetID()
	}
	if rs.CreatedAt.IsZero() {
		rs.CreatedAt = time.Now()
	}
	s.results[rs.ID] = copyResultSet(rs)
	return rs.ID, nil
}

// GetResultSet returns a saved table by ID.
func (s *Store) GetResultSet(ctx context.Context, id string) (store.ResultSet, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rs, ok := s.results[id]; ok {
		return copyResultSet(rs), true, nil
	}
	return store.ResultSet{}, false, nil
}

// ListResultSets returns all saved tables ordered by ID (ULIDs sort by
// creation time).
func (s *Store) ListResultSets(ctx context.Context) ([]store.ResultSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.ResultSet, 0, len(s.results))
	for _, rs := range s.results {
		out = append(out, copyResultSet(rs))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func copyDoc(d store.Doc) store.Doc {
	tokens := make([]string, len(d.Tokens))
	copy(tokens, d.Tokens)
	d.Tokens = tokens
	return d
}

func copyResultSet(rs store.ResultSet) store.ResultSet {
	rows := make([]store.ResultRow, len(rs.Rows))
	copy(rows, rs.Rows)
	rs.Rows = rows
	return rs
}
