// Package sqlite persists corpus documents and saved collocation result
// sets in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/colloc/pkg/colloc/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and initializes the
// schema.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS docs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uri TEXT UNIQUE NOT NULL,
	title TEXT,
	added_at TEXT
);

CREATE TABLE IF NOT EXISTS doc_tokens (
	doc_id INTEGER NOT NULL,
	pos INTEGER NOT NULL,
	token TEXT NOT NULL,
	PRIMARY KEY(doc_id, pos),
	FOREIGN KEY(doc_id) REFERENCES docs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS result_sets (
	id TEXT PRIMARY KEY,
	measure TEXT NOT NULL,
	min_count INTEGER NOT NULL,
	created_at TEXT
);

CREATE TABLE IF NOT EXISTS result_rows (
	set_id TEXT NOT NULL,
	ord INTEGER NOT NULL,
	word1 TEXT NOT NULL,
	word2 TEXT NOT NULL,
	word3 TEXT,
	count INTEGER NOT NULL,
	score REAL NOT NULL,
	PRIMARY KEY(set_id, ord),
	FOREIGN KEY(set_id) REFERENCES result_sets(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertDoc inserts or updates a document and its ordered token list.
func (s *sqliteStore) UpsertDoc(ctx context.Context, d store.Doc) error {
	if d.URI == "" {
		return nil
	}
	if d.AddedAt.IsZero() {
		d.AddedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO docs (uri, title, added_at)
VALUES (?, ?, ?)
ON CONFLICT(uri) DO UPDATE SET
	title=excluded.title,
	added_at=excluded.added_at
RETURNING id;
`
	var id int64
	if err := tx.QueryRowContext(ctx, stmt, d.URI, d.Title, d.AddedAt.Format(time.RFC3339)).Scan(&id); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM doc_tokens WHERE doc_id = ?`, id); err != nil {
		return err
	}
	for pos, tok := range d.Tokens {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO doc_tokens (doc_id, pos, token) VALUES (?, ?, ?)`, id, pos, tok); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetDocByURI returns a document by URI with its tokens in position order.
func (s *sqliteStore) GetDocByURI(ctx context.Context, uri string) (store.Doc, bool, error) {
	var d store.Doc
	var added string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, uri, title, added_at FROM docs WHERE uri = ?`, uri).
		Scan(&d.ID, &d.URI, &d.Title, &added)
	if err == sql.ErrNoRows {
		return store.Doc{}, false, nil
	}
	if err != nil {
		return store.Doc{}, false, err
	}
	d.AddedAt, _ = time.Parse(time.RFC3339, added)

	tokens, err := s.docTokens(ctx, d.ID)
	if err != nil {
		return store.Doc{}, false, err
	}
	d.Tokens = tokens
	return d, true, nil
}

// ListDocs returns all documents in insertion order with their tokens.
func (s *sqliteStore) ListDocs(ctx context.Context) ([]store.Doc, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, uri, title, added_at FROM docs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []store.Doc
	for rows.Next() {
		var d store.Doc
		var added string
		if err := rows.Scan(&d.ID, &d.URI, &d.Title, &added); err != nil {
			return nil, err
		}
		d.AddedAt, _ = time.Parse(time.RFC3339, added)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range docs {
		tokens, err := s.docTokens(ctx, docs[i].ID)
		if err != nil {
			return nil, err
		}
		docs[i].Tokens = tokens
	}
	return docs, nil
}

func (s *sqliteStore) docTokens(ctx context.Context, docID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT token FROM doc_tokens WHERE doc_id = ? ORDER BY pos`, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var tok string
		if err := rows.Scan(&tok); err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, rows.Err()
}

// SaveResultSet stores a ranked table, assigning a ULID when absent.
func (s *sqliteStore) SaveResultSet(ctx context.Context, rs store.ResultSet) (string, error) {
	if rs.ID == "" {
		rs.ID = store.NewResultSetID()
	}
	if rs.CreatedAt.IsZero() {
		rs.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO result_sets (id, measure, min_count, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	measure=excluded.measure,
	min_count=excluded.min_count,
	created_at=excluded.created_at`,
		rs.ID, rs.Measure, rs.MinCount, rs.CreatedAt.Format(time.RFC3339)); err != nil {
		return "", err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM result_rows WHERE set_id = ?`, rs.ID); err != nil {
		return "", err
	}
	for ord, row := range rs.Rows {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO result_rows (set_id, ord, word1, word2, word3, count, score)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rs.ID, ord, row.Word1, row.Word2, row.Word3, row.Count, row.Score); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return rs.ID, nil
}

// GetResultSet returns a saved table by ID with rows in rank order.
func (s *sqliteStore) GetResultSet(ctx context.Context, id string) (store.ResultSet, bool, error) {
	var rs store.ResultSet
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, measure, min_count, created_at FROM result_sets WHERE id = ?`, id).
		Scan(&rs.ID, &rs.Measure, &rs.MinCount, &created)
	if err == sql.ErrNoRows {
		return store.ResultSet{}, false, nil
	}
	if err != nil {
		return store.ResultSet{}, false, err
	}
	rs.CreatedAt, _ = time.Parse(time.RFC3339, created)

	rows, err := s.db.QueryContext(ctx, `
SELECT word1, word2, word3, count, score
FROM result_rows WHERE set_id = ? ORDER BY ord`, id)
	if err != nil {
		return store.ResultSet{}, false, err
	}
	defer rows.Close()

	for rows.Next() {
		var r store.ResultRow
		var w3 sql.NullString
		if err := rows.Scan(&r.Word1, &r.Word2, &w3, &r.Count, &r.Score); err != nil {
			return store.ResultSet{}, false, err
		}
		r.Word3 = w3.String
		rs.Rows = append(rs.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return store.ResultSet{}, false, err
	}
	return rs, true, nil
}

// ListResultSets returns saved tables without their rows, newest-last
// (ULIDs sort by creation time).
func (s *sqliteStore) ListResultSets(ctx context.Context) ([]store.ResultSet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, measure, min_count, created_at FROM result_sets ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.ResultSet
	for rows.Next() {
		var rs store.ResultSet
		var created string
		if err := rows.Scan(&rs.ID, &rs.Measure, &rs.MinCount, &created); err != nil {
			return nil, err
		}
		rs.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, rs)
	}
	return out, rows.Err()
}
