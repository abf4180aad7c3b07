// Package index implements the category index: hierarchy lookup, the
// merchant type-anchor table, and nearest-neighbor search over
// pre-computed category embeddings, all backed by a single SQLite file.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/plumline/taxon/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Store is the read-mostly category index shared across requests. It is
// the only long-lived state in the pipeline.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (or creates) the category index at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath is required")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping index: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Migrate creates the index schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS categories (
		code        TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		full_path   TEXT NOT NULL,
		external_id TEXT NOT NULL DEFAULT '',
		depth       INTEGER NOT NULL,
		attributes  TEXT NOT NULL DEFAULT '[]',
		embedding   BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_categories_depth ON categories(depth);

	CREATE TABLE IF NOT EXISTS type_anchors (
		label TEXT PRIMARY KEY,
		code  TEXT NOT NULL REFERENCES categories(code)
	);`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate index schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ByCode returns the category with the given code, or nil when absent.
func (s *Store) ByCode(ctx context.Context, code string) (*model.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT code, name, full_path, external_id, depth, attributes
		FROM categories WHERE code = ?`, code)

	var cat model.Category
	var attrsJSON string
	err := row.Scan(&cat.Code, &cat.Name, &cat.FullPath, &cat.ExternalID, &cat.Depth, &attrsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up category %q: %w", code, err)
	}

	if err := json.Unmarshal([]byte(attrsJSON), &cat.Attributes); err != nil {
		return nil, fmt.Errorf("corrupt attribute schema for category %q: %w", code, err)
	}
	return &cat, nil
}

// ByTypeLabel resolves a merchant-supplied type label to a category code
// via the curated anchor table. The match is case-insensitive; a miss
// returns the empty string, not an error.
func (s *Store) ByTypeLabel(ctx context.Context, label string) (string, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return "", nil
	}

	row := s.db.QueryRowContext(ctx, `SELECT code FROM type_anchors WHERE label = ?`, label)

	var code string
	err := row.Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up type anchor %q: %w", label, err)
	}
	return code, nil
}

// UpsertCategories writes taxonomy nodes into the index, preserving any
// existing embeddings.
func (s *Store) UpsertCategories(ctx context.Context, categories []model.Category) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO categories (code, name, full_path, external_id, depth, attributes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			name = excluded.name,
			full_path = excluded.full_path,
			external_id = excluded.external_id,
			depth = excluded.depth,
			attributes = excluded.attributes`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, cat := range categories {
		attrsJSON, marshalErr := json.Marshal(cat.Attributes)
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal attributes for %q: %w", cat.Code, marshalErr)
		}
		if _, execErr := stmt.ExecContext(ctx, cat.Code, cat.Name, cat.FullPath, cat.ExternalID, cat.Depth, string(attrsJSON)); execErr != nil {
			return fmt.Errorf("failed to upsert category %q: %w", cat.Code, execErr)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit categories: %w", err)
	}
	return nil
}

// UpsertAnchors replaces the merchant type-anchor table. Labels are
// stored lowercased so lookups stay case-insensitive.
func (s *Store) UpsertAnchors(ctx context.Context, anchors map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for label, code := range anchors {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO type_anchors (label, code) VALUES (?, ?)
			ON CONFLICT(label) DO UPDATE SET code = excluded.code`,
			strings.ToLower(strings.TrimSpace(label)), code); err != nil {
			return fmt.Errorf("failed to upsert anchor %q: %w", label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit anchors: %w", err)
	}
	return nil
}

// SetEmbedding stores the embedding vector for a category.
func (s *Store) SetEmbedding(ctx context.Context, code string, vector []float32) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE categories SET embedding = ? WHERE code = ?`, encodeVector(vector), code)
	if err != nil {
		return fmt.Errorf("failed to store embedding for %q: %w", code, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("no category %q to store embedding for", code)
	}
	return nil
}

// MissingEmbeddings returns categories that have no stored vector yet.
func (s *Store) MissingEmbeddings(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, name, full_path, external_id, depth
		FROM categories WHERE embedding IS NULL ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query unembedded categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.Code, &cat.Name, &cat.FullPath, &cat.ExternalID, &cat.Depth); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

// SearchOptions filters a nearest-neighbor query.
type SearchOptions struct {
	Prefix    string
	Threshold float64
	Limit     int
	MaxDepth  int
}

// Match is one similarity-search hit.
type Match struct {
	Code       string
	Path       string
	Depth      int
	Similarity float64
}

// Search runs a brute-force cosine scan over the stored category
// vectors. At ~12k rows this stays comfortably in-process; anything
// larger would want a real vector index.
func (s *Store) Search(ctx context.Context, vector []float32, opts SearchOptions) ([]Match, error) {
	if opts.Limit <= 0 {
		opts.Limit = 10
	}

	query := `SELECT code, full_path, depth, embedding FROM categories WHERE embedding IS NOT NULL`
	var args []any
	if opts.MaxDepth > 0 {
		query += ` AND depth <= ?`
		args = append(args, opts.MaxDepth)
	}
	if opts.Prefix != "" {
		query += ` AND code LIKE ?`
		args = append(args, opts.Prefix+"%")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("similarity search query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var matches []Match
	for rows.Next() {
		var m Match
		var blob []byte
		if err := rows.Scan(&m.Code, &m.Path, &m.Depth, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}

		stored, decodeErr := decodeVector(blob)
		if decodeErr != nil {
			return nil, fmt.Errorf("corrupt embedding for category %q: %w", m.Code, decodeErr)
		}

		m.Similarity = cosineSimilarity(vector, stored)
		if m.Similarity >= opts.Threshold {
			matches = append(matches, m)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("similarity search scan failed: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].Code < matches[j].Code
	})

	if len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}
	return matches, nil
}
