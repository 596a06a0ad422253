package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"vaxcert/internal/registry/models"
	id "vaxcert/pkg/domain"
	"vaxcert/pkg/platform/outbox"
	"vaxcert/pkg/platform/sentinel"
)

// Keyspaces of the kv table.
const (
	keyspaceMeta  = "meta"
	keyspaceOwner = "owner"
	keyspaceAttrs = "attrs"
	keyspaceNonce = "nonce"
)

// Keys of the meta keyspace.
const (
	keyAdmin  = "admin"
	keyName   = "name"
	keySymbol = "symbol"
	keyNextID = "next_id"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv (
	keyspace TEXT NOT NULL,
	key      TEXT NOT NULL,
	value    BLOB NOT NULL,
	PRIMARY KEY (keyspace, key)
);
CREATE TABLE IF NOT EXISTS outbox (
	id             TEXT PRIMARY KEY,
	aggregate_type TEXT NOT NULL,
	aggregate_id   TEXT NOT NULL,
	event_type     TEXT NOT NULL,
	payload        BLOB NOT NULL,
	created_at     INTEGER NOT NULL,
	processed_at   INTEGER
);
CREATE INDEX IF NOT EXISTS outbox_pending ON outbox (processed_at);
`

// SQLiteStore persists the registry keyspace in a single SQLite file.
// Token keys are zero-padded so the owner and attrs keyspaces sort by id.
type SQLiteStore struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewSQLite opens (creating if needed) the database at path.
func NewSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		path = "vaxcert.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer; the pool would otherwise hand out connections that race on the file lock.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// Path returns the configured database path.
func (s *SQLiteStore) Path() string { return s.path }

// Ping is used by readiness checks.
func (s *SQLiteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// RunInTx runs fn inside one SQLite transaction, committing iff fn returns nil.
func (s *SQLiteStore) RunInTx(ctx context.Context, fn func(ctx context.Context, txn *SQLiteTxn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback after commit is no-op
	}()

	if err := fn(ctx, &SQLiteTxn{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// SQLiteTxn is the store view bound to one transaction.
type SQLiteTxn struct {
	tx *sql.Tx
}

func (t *SQLiteTxn) get(ctx context.Context, keyspace, key string, dst any) error {
	var raw []byte
	err := t.tx.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE keyspace = ? AND key = ?`, keyspace, key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read %s/%s: %w", keyspace, key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s/%s: %w", keyspace, key, err)
	}
	return nil
}

func (t *SQLiteTxn) put(ctx context.Context, keyspace, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", keyspace, key, err)
	}
	if _, err := t.tx.ExecContext(ctx,
		`INSERT INTO kv(keyspace, key, value) VALUES(?, ?, ?)
		 ON CONFLICT(keyspace, key) DO UPDATE SET value = excluded.value`,
		keyspace, key, raw,
	); err != nil {
		return fmt.Errorf("write %s/%s: %w", keyspace, key, err)
	}
	return nil
}

func (t *SQLiteTxn) ReadRegistry(ctx context.Context) (*models.Registry, error) {
	reg := &models.Registry{}
	if err := t.get(ctx, keyspaceMeta, keyAdmin, &reg.Admin); err != nil {
		return nil, err
	}
	if err := t.get(ctx, keyspaceMeta, keyName, &reg.Name); err != nil {
		return nil, err
	}
	if err := t.get(ctx, keyspaceMeta, keySymbol, &reg.Symbol); err != nil {
		return nil, err
	}
	return reg, nil
}

func (t *SQLiteTxn) WriteRegistry(ctx context.Context, reg *models.Registry) error {
	if err := t.put(ctx, keyspaceMeta, keyAdmin, reg.Admin); err != nil {
		return err
	}
	if err := t.put(ctx, keyspaceMeta, keyName, reg.Name); err != nil {
		return err
	}
	return t.put(ctx, keyspaceMeta, keySymbol, reg.Symbol)
}

func (t *SQLiteTxn) ReadCounter(ctx context.Context) (uint64, error) {
	var n uint64
	err := t.get(ctx, keyspaceMeta, keyNextID, &n)
	if errors.Is(err, sentinel.ErrNotFound) {
		return 0, nil
	}
	return n, err
}

func (t *SQLiteTxn) WriteCounter(ctx context.Context, n uint64) error {
	return t.put(ctx, keyspaceMeta, keyNextID, n)
}

func (t *SQLiteTxn) ReadOwner(ctx context.Context, tokenID id.TokenID) (id.Identity, error) {
	var owner id.Identity
	if err := t.get(ctx, keyspaceOwner, tokenID.PaddedString(), &owner); err != nil {
		return "", err
	}
	return owner, nil
}

func (t *SQLiteTxn) WriteOwner(ctx context.Context, tokenID id.TokenID, owner id.Identity) error {
	return t.put(ctx, keyspaceOwner, tokenID.PaddedString(), owner)
}

func (t *SQLiteTxn) ReadAttrs(ctx context.Context, tokenID id.TokenID) (*models.VaccineAttrs, error) {
	attrs := &models.VaccineAttrs{}
	if err := t.get(ctx, keyspaceAttrs, tokenID.PaddedString(), attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

func (t *SQLiteTxn) WriteAttrs(ctx context.Context, tokenID id.TokenID, attrs *models.VaccineAttrs) error {
	return t.put(ctx, keyspaceAttrs, tokenID.PaddedString(), attrs)
}

func (t *SQLiteTxn) ReadNonce(ctx context.Context, identity id.Identity) (uint64, error) {
	var n uint64
	err := t.get(ctx, keyspaceNonce, identity.String(), &n)
	if errors.Is(err, sentinel.ErrNotFound) {
		return 0, nil
	}
	return n, err
}

func (t *SQLiteTxn) WriteNonce(ctx context.Context, identity id.Identity, n uint64) error {
	return t.put(ctx, keyspaceNonce, identity.String(), n)
}

func (t *SQLiteTxn) AppendOutbox(ctx context.Context, entry *outbox.Entry) error {
	if _, err := t.tx.ExecContext(ctx,
		`INSERT INTO outbox(id, aggregate_type, aggregate_id, event_type, payload, created_at)
		 VALUES(?, ?, ?, ?, ?, ?)`,
		entry.ID.String(), entry.AggregateType, entry.AggregateID, entry.EventType,
		entry.Payload, entry.CreatedAt.UnixNano(),
	); err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// Outbox operations used by the publishing worker.

func (s *SQLiteStore) FetchUnprocessed(ctx context.Context, limit int) ([]*outbox.Entry, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at
		 FROM outbox WHERE processed_at IS NULL ORDER BY rowid LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch unprocessed entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*outbox.Entry
	for rows.Next() {
		var (
			rawID   string
			created int64
			e       outbox.Entry
		)
		if err := rows.Scan(&rawID, &e.AggregateType, &e.AggregateID, &e.EventType, &e.Payload, &created); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		if e.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("parse outbox id: %w", err)
		}
		e.CreatedAt = time.Unix(0, created).UTC()
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) MarkProcessed(ctx context.Context, entryID uuid.UUID, processedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE outbox SET processed_at = ? WHERE id = ? AND processed_at IS NULL`,
		processedAt.UnixNano(), entryID.String())
	if err != nil {
		return fmt.Errorf("mark outbox entry processed: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("outbox entry %s: %w", entryID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) CountPending(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outbox WHERE processed_at IS NULL`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending entries: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM outbox WHERE processed_at IS NOT NULL AND processed_at < ?`, before.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("delete processed entries: %w", err)
	}
	return res.RowsAffected()
}
