// Package store is the document store for imported dialogue records,
// backed by sqlite. It offers upsert-by-id, point lookup, count/filter
// queries, and keyword search, which is all the importer, verifier, and
// manager need.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"counselkit/internal/dataset"
)

// RequiredIndexes are the secondary indexes the importer builds and the
// verifier checks for.
var RequiredIndexes = []string{"idx_records_topic", "idx_records_imported_at"}

// Store wraps the sqlite database holding imported records.
type Store struct {
	db *sql.DB
	sq sq.StatementBuilderType
}

// Open opens (creating if needed) the record database at dbPath.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("make db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA foreign_keys = ON;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, sq: sq.StatementBuilder.PlaceholderFormat(sq.Question)}, nil
}

func migrate(db *sql.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS records (
        id TEXT PRIMARY KEY,
        context TEXT NOT NULL,
        response TEXT NOT NULL,
        orig_context TEXT NOT NULL DEFAULT '',
        orig_response TEXT NOT NULL DEFAULT '',
        topic TEXT NOT NULL DEFAULT '',
        content_hash TEXT NOT NULL,
        imported_at TEXT NOT NULL
    )`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create records table: %w", err)
	}
	return nil
}

// EnsureIndexes builds the secondary indexes if they are missing.
// The uniqueness index on id comes with the primary key.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	stmts := []string{
		"CREATE INDEX IF NOT EXISTS idx_records_topic ON records(topic)",
		"CREATE INDEX IF NOT EXISTS idx_records_imported_at ON records(imported_at)",
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// Indexes lists the index names present on the records table.
func (s *Store) Indexes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "PRAGMA index_list('records')")
	if err != nil {
		return nil, fmt.Errorf("list indexes: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var seq int
		var name, origin string
		var unique, partial int
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			return nil, fmt.Errorf("scan index row: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ContentHash is the identity-of-content key used for conflict detection.
func ContentHash(r dataset.Record) string {
	h := sha256.New()
	for _, part := range []string{r.Context, r.Response, r.OrigContext, r.OrigResponse, r.Topic} {
		h.Write([]byte(part))
		h.Write([]byte{0x1f})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the stored record with the given id, or nil if absent.
func (s *Store) Get(ctx context.Context, id string) (*dataset.Record, error) {
	q := s.sq.Select("id", "context", "response", "orig_context", "orig_response", "topic").
		From("records").Where(sq.Eq{"id": id}).Limit(1)
	sqlStr, args, _ := q.ToSql()

	var r dataset.Record
	err := s.db.QueryRowContext(ctx, sqlStr, args...).
		Scan(&r.ID, &r.Context, &r.Response, &r.OrigContext, &r.OrigResponse, &r.Topic)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", id, err)
	}
	return &r, nil
}

// Upsert writes a record keyed by id. The single statement is the unit of
// atomicity: a record is either fully written or not at all.
func (s *Store) Upsert(ctx context.Context, r dataset.Record) error {
	now := time.Now().UTC().Format(time.RFC3339)
	q := s.sq.Insert("records").
		Columns("id", "context", "response", "orig_context", "orig_response", "topic", "content_hash", "imported_at").
		Values(r.ID, r.Context, r.Response, r.OrigContext, r.OrigResponse, r.Topic, ContentHash(r), now).
		Suffix("ON CONFLICT(id) DO UPDATE SET context=excluded.context, response=excluded.response, " +
			"orig_context=excluded.orig_context, orig_response=excluded.orig_response, " +
			"topic=excluded.topic, content_hash=excluded.content_hash, imported_at=excluded.imported_at")
	sqlStr, args, _ := q.ToSql()
	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("upsert record %s: %w", r.ID, err)
	}
	return nil
}

// Hash returns the stored content hash for id, or "" if absent.
func (s *Store) Hash(ctx context.Context, id string) (string, error) {
	q := s.sq.Select("content_hash").From("records").Where(sq.Eq{"id": id}).Limit(1)
	sqlStr, args, _ := q.ToSql()

	var hash string
	err := s.db.QueryRowContext(ctx, sqlStr, args...).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get content hash for %s: %w", id, err)
	}
	return hash, nil
}

// Count returns the total number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	return s.countWhere(ctx, nil)
}

// CountTranslated returns records with a non-empty target-side context.
func (s *Store) CountTranslated(ctx context.Context) (int, error) {
	return s.countWhere(ctx, sq.NotEq{"context": ""})
}

// CountSource returns records carrying the original source-side context.
func (s *Store) CountSource(ctx context.Context) (int, error) {
	return s.countWhere(ctx, sq.NotEq{"orig_context": ""})
}

// CountMissingRequired returns records missing a required field.
func (s *Store) CountMissingRequired(ctx context.Context) (int, error) {
	return s.countWhere(ctx, sq.Or{sq.Eq{"context": ""}, sq.Eq{"response": ""}})
}

func (s *Store) countWhere(ctx context.Context, pred interface{}) (int, error) {
	q := s.sq.Select("COUNT(*)").From("records")
	if pred != nil {
		q = q.Where(pred)
	}
	sqlStr, args, _ := q.ToSql()

	var n int
	if err := s.db.QueryRowContext(ctx, sqlStr, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// Search returns up to limit records whose given-language context or
// response contains the keyword.
func (s *Store) Search(ctx context.Context, keyword string, sourceLang bool, limit int) ([]dataset.Record, error) {
	pattern := "%" + keyword + "%"
	var pred sq.Sqlizer
	if sourceLang {
		pred = sq.Or{sq.Like{"orig_context": pattern}, sq.Like{"orig_response": pattern}}
	} else {
		pred = sq.Or{sq.Like{"context": pattern}, sq.Like{"response": pattern}}
	}

	q := s.sq.Select("id", "context", "response", "orig_context", "orig_response", "topic").
		From("records").Where(pred).Limit(uint64(limit))
	return s.queryRecords(ctx, q)
}

// ByTopic returns up to limit records with the given topic.
func (s *Store) ByTopic(ctx context.Context, topic string, limit int) ([]dataset.Record, error) {
	q := s.sq.Select("id", "context", "response", "orig_context", "orig_response", "topic").
		From("records").Where(sq.Eq{"topic": topic}).Limit(uint64(limit))
	return s.queryRecords(ctx, q)
}

// Sample returns n records in random order.
func (s *Store) Sample(ctx context.Context, n int) ([]dataset.Record, error) {
	q := s.sq.Select("id", "context", "response", "orig_context", "orig_response", "topic").
		From("records").OrderBy("RANDOM()").Limit(uint64(n))
	return s.queryRecords(ctx, q)
}

// All returns every stored record ordered by id.
func (s *Store) All(ctx context.Context) ([]dataset.Record, error) {
	q := s.sq.Select("id", "context", "response", "orig_context", "orig_response", "topic").
		From("records").OrderBy("id")
	return s.queryRecords(ctx, q)
}

// AnyID returns the id of an arbitrary stored record, or "" when empty.
func (s *Store) AnyID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM records LIMIT 1").Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("pick sample id: %w", err)
	}
	return id, nil
}

// Clear removes all records. Used by the importer's reset mode.
func (s *Store) Clear(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM records")
	if err != nil {
		return 0, fmt.Errorf("clear records: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *Store) queryRecords(ctx context.Context, q sq.SelectBuilder) ([]dataset.Record, error) {
	sqlStr, args, _ := q.ToSql()
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []dataset.Record
	for rows.Next() {
		var r dataset.Record
		if err := rows.Scan(&r.ID, &r.Context, &r.Response, &r.OrigContext, &r.OrigResponse, &r.Topic); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
