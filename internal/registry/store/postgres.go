package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"vaxcert/internal/registry/models"
	id "vaxcert/pkg/domain"
	"vaxcert/pkg/platform/outbox"
	"vaxcert/pkg/platform/sentinel"
)

// registryLockKey is the advisory lock every registry transaction takes,
// so concurrent calls serialize the way a single writer would.
const registryLockKey int64 = 0x7661786365727401

// PostgresStore persists the registry keyspace in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// RunInTx runs fn in one SQL transaction holding the registry advisory lock.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(ctx context.Context, txn *PostgresTxn) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classifyPgErr(fmt.Errorf("begin registry tx: %w", err))
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback after commit is no-op; error already captured
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, registryLockKey); err != nil {
		return classifyPgErr(fmt.Errorf("acquire registry lock: %w", err))
	}

	if err := fn(ctx, &PostgresTxn{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return classifyPgErr(fmt.Errorf("commit registry tx: %w", err))
	}
	return nil
}

// PostgresTxn is the store view bound to one registry transaction.
type PostgresTxn struct {
	tx *sql.Tx
}

func (t *PostgresTxn) readMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := t.tx.QueryRowContext(ctx, `SELECT value FROM registry_meta WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", classifyPgErr(fmt.Errorf("read %s: %w", key, err))
	}
	return value, nil
}

func (t *PostgresTxn) writeMeta(ctx context.Context, key, value string) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO registry_meta (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, key, value)
	if err != nil {
		return classifyPgErr(fmt.Errorf("write %s: %w", key, err))
	}
	return nil
}

func (t *PostgresTxn) ReadRegistry(ctx context.Context) (*models.Registry, error) {
	admin, err := t.readMeta(ctx, keyAdmin)
	if err != nil {
		return nil, err
	}
	name, err := t.readMeta(ctx, keyName)
	if err != nil {
		return nil, err
	}
	symbol, err := t.readMeta(ctx, keySymbol)
	if err != nil {
		return nil, err
	}
	return &models.Registry{Admin: id.Identity(admin), Name: name, Symbol: symbol}, nil
}

func (t *PostgresTxn) WriteRegistry(ctx context.Context, reg *models.Registry) error {
	if err := t.writeMeta(ctx, keyAdmin, reg.Admin.String()); err != nil {
		return err
	}
	if err := t.writeMeta(ctx, keyName, reg.Name); err != nil {
		return err
	}
	return t.writeMeta(ctx, keySymbol, reg.Symbol)
}

func (t *PostgresTxn) ReadCounter(ctx context.Context) (uint64, error) {
	raw, err := t.readMeta(ctx, keyNextID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", keyNextID, err)
	}
	return n, nil
}

func (t *PostgresTxn) WriteCounter(ctx context.Context, n uint64) error {
	return t.writeMeta(ctx, keyNextID, strconv.FormatUint(n, 10))
}

func (t *PostgresTxn) ReadOwner(ctx context.Context, tokenID id.TokenID) (id.Identity, error) {
	key, err := tokenKey(tokenID)
	if err != nil {
		return "", sentinel.ErrNotFound
	}
	var owner string
	err = t.tx.QueryRowContext(ctx, `SELECT owner FROM certificate_owners WHERE token_id = $1`, key).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", classifyPgErr(fmt.Errorf("read owner: %w", err))
	}
	return id.Identity(owner), nil
}

func (t *PostgresTxn) WriteOwner(ctx context.Context, tokenID id.TokenID, owner id.Identity) error {
	key, err := tokenKey(tokenID)
	if err != nil {
		return err
	}
	_, err = t.tx.ExecContext(ctx, `
		INSERT INTO certificate_owners (token_id, owner, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (token_id) DO UPDATE SET owner = EXCLUDED.owner, updated_at = NOW()
	`, key, owner.String())
	if err != nil {
		return classifyPgErr(fmt.Errorf("write owner: %w", err))
	}
	return nil
}

func (t *PostgresTxn) ReadAttrs(ctx context.Context, tokenID id.TokenID) (*models.VaccineAttrs, error) {
	key, err := tokenKey(tokenID)
	if err != nil {
		return nil, sentinel.ErrNotFound
	}
	var raw []byte
	err = t.tx.QueryRowContext(ctx, `SELECT attrs FROM certificate_attrs WHERE token_id = $1`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, classifyPgErr(fmt.Errorf("read attrs: %w", err))
	}
	attrs := &models.VaccineAttrs{}
	if err := json.Unmarshal(raw, attrs); err != nil {
		return nil, fmt.Errorf("decode attrs: %w", err)
	}
	return attrs, nil
}

func (t *PostgresTxn) WriteAttrs(ctx context.Context, tokenID id.TokenID, attrs *models.VaccineAttrs) error {
	key, err := tokenKey(tokenID)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("encode attrs: %w", err)
	}
	_, err = t.tx.ExecContext(ctx, `
		INSERT INTO certificate_attrs (token_id, attrs, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (token_id) DO UPDATE SET attrs = EXCLUDED.attrs, updated_at = NOW()
	`, key, string(raw))
	if err != nil {
		return classifyPgErr(fmt.Errorf("write attrs: %w", err))
	}
	return nil
}

// ReadNonce returns 0 for identities that never signed a call.
func (t *PostgresTxn) ReadNonce(ctx context.Context, identity id.Identity) (uint64, error) {
	var raw string
	err := t.tx.QueryRowContext(ctx, `SELECT nonce::TEXT FROM call_nonces WHERE identity = $1`, identity.String()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, classifyPgErr(fmt.Errorf("read nonce: %w", err))
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decode nonce: %w", err)
	}
	return n, nil
}

func (t *PostgresTxn) WriteNonce(ctx context.Context, identity id.Identity, n uint64) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO call_nonces (identity, nonce, updated_at)
		VALUES ($1, $2::NUMERIC, NOW())
		ON CONFLICT (identity) DO UPDATE SET nonce = EXCLUDED.nonce, updated_at = NOW()
	`, identity.String(), strconv.FormatUint(n, 10))
	if err != nil {
		return classifyPgErr(fmt.Errorf("write nonce: %w", err))
	}
	return nil
}

func (t *PostgresTxn) AppendOutbox(ctx context.Context, entry *outbox.Entry) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.ID, entry.AggregateType, entry.AggregateID, entry.EventType, string(entry.Payload), entry.CreatedAt)
	if err != nil {
		return classifyPgErr(fmt.Errorf("insert outbox entry: %w", err))
	}
	return nil
}

// tokenKey maps a TokenID onto the BIGINT column. Ids past MaxInt64 cannot be
// stored; the allocator would need 2^63 mints to reach them.
func tokenKey(tokenID id.TokenID) (int64, error) {
	if uint64(tokenID) > math.MaxInt64 {
		return 0, fmt.Errorf("token id %d exceeds storage range: %w", uint64(tokenID), sentinel.ErrOverflow)
	}
	return int64(tokenID), nil
}

// classifyPgErr tags connection-level failures as unavailable.
func classifyPgErr(err error) error {
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01") {
		return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
	}
	return err
}

// Outbox operations used by the publishing worker.

func (s *PostgresStore) FetchUnprocessed(ctx context.Context, limit int) ([]*outbox.Entry, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at
		FROM outbox
		WHERE processed_at IS NULL
		ORDER BY created_at ASC, id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch unprocessed entries: %w", err)
	}
	defer rows.Close()

	var entries []*outbox.Entry
	for rows.Next() {
		var e outbox.Entry
		if err := rows.Scan(&e.ID, &e.AggregateType, &e.AggregateID, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox entries: %w", err)
	}
	return entries, nil
}

func (s *PostgresStore) MarkProcessed(ctx context.Context, entryID uuid.UUID, processedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE outbox SET processed_at = $2 WHERE id = $1 AND processed_at IS NULL`, entryID, processedAt)
	if err != nil {
		return fmt.Errorf("mark outbox entry processed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("outbox entry %s: %w", entryID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) CountPending(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outbox WHERE processed_at IS NULL`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending entries: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM outbox WHERE processed_at IS NOT NULL AND processed_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("delete processed entries: %w", err)
	}
	return res.RowsAffected()
}
