package store

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Store persists corpus documents and saved collocation result sets.
type Store interface {
	Close() error

	// Docs
	UpsertDoc(ctx context.Context, d Doc) error
	GetDocByURI(ctx context.Context, uri string) (Doc, bool, error)
	ListDocs(ctx context.Context) ([]Doc, error)

	// Result sets
	SaveResultSet(ctx context.Context, rs ResultSet) (string, error)
	GetResultSet(ctx context.Context, id string) (ResultSet, bool, error)
	ListResultSets(ctx context.Context) ([]ResultSet, error)
}

// Doc is a stored document: its ordered token list is the unit the corpus
// stream is rebuilt from, so token order must be preserved exactly.
type Doc struct {
	ID      int64
	URI     string
	Title   string
	AddedAt time.Time
	Tokens  []string
}

// ResultSet is a persisted ranked collocation table.
type ResultSet struct {
	ID        string
	Measure   string
	MinCount  int64
	CreatedAt time.Time
	Rows      []ResultRow
}

// ResultRow is one ranked collocation. Word3 is empty for bigrams.
type ResultRow struct {
	Word1, Word2, Word3 string
	Count               int64
	Score               float64
}

var entropy = ulid.Monotonic(rand.Reader, 0)

// NewResultSetID returns a fresh ULID for a result set.
func NewResultSetID() string {
	return ulid.MustNew(ulid.Now(), entropy).String()
}
