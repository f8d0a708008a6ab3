// Package keyindex keeps a persistent index of citation keys and DOIs
// across normalization runs, so that splitting a bibliography over
// several files does not hide duplicate keys or doubly-entered works.
package keyindex

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "modernc.org/sqlite"
)

// Index is a handle to the on-disk key index.
type Index struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS keys (
	key  TEXT PRIMARY KEY,
	doi  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS keys_doi ON keys(doi) WHERE doi != '';
`

// Open opens or creates the index database at path.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening key index: %w", err)
	}
	// The sqlite driver serializes writers; a single connection avoids
	// SQLITE_BUSY on concurrent use.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating key index schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the database handle.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Seen reports whether the key was recorded by an earlier run.
func (ix *Index) Seen(key string) (bool, error) {
	var n int
	err := ix.db.QueryRow(`SELECT COUNT(*) FROM keys WHERE key = ?`, key).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("querying key %s: %w", key, err)
	}
	return n > 0, nil
}

// KeyForDOI returns the key recorded with the given DOI, or "" when the
// DOI is unknown. The DOI should be normalized with NormalizeDOI first.
func (ix *Index) KeyForDOI(doi string) (string, error) {
	if doi == "" {
		return "", nil
	}
	var key string
	err := ix.db.QueryRow(`SELECT key FROM keys WHERE doi = ? LIMIT 1`, doi).Scan(&key)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying doi %s: %w", doi, err)
	}
	return key, nil
}

// Add records a key with an optional DOI, replacing an earlier record
// for the same key.
func (ix *Index) Add(key, doi string) error {
	_, err := ix.db.Exec(
		`INSERT INTO keys (key, doi) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET doi = excluded.doi`, key, doi)
	if err != nil {
		return fmt.Errorf("recording key %s: %w", key, err)
	}
	return nil
}

var doiPrefix = regexp.MustCompile(`(?i)^(?:https?://(?:dx\.)?doi\.org/|doi:\s*)`)

// NormalizeDOI reduces resolver URLs and labeled DOIs to the bare
// lower-cased identifier, so lookups are insensitive to how the DOI was
// written.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = doiPrefix.ReplaceAllString(doi, "")
	return strings.ToLower(doi)
}
