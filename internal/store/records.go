package store

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"demoload/internal/services"
)

// KindStats summarizes the stored records of one entity kind.
type KindStats struct {
	EntityKind string
	Records    int
	LastImport time.Time
	LastSource string
	LastLimit  *int
}

// Import replaces every stored record of entityKind with the records in the
// JSONL file at recordsPath, keeping at most *limit records when limit is
// non-nil. The replacement happens in one transaction, so a failed import
// leaves the previous records in place. It returns the imported count.
func (s *Store) Import(ctx context.Context, entityKind, recordsPath string, limit *int) (int, error) {
	ctx = ensureContext(ctx)
	if entityKind == "" {
		return 0, services.Wrap(services.ErrImport, "import", "validate", "entity kind is empty", nil)
	}
	if limit != nil && *limit <= 0 {
		return 0, services.Wrap(services.ErrImport, "import", "validate",
			fmt.Sprintf("limit must be positive, got %d", *limit), nil)
	}

	f, err := os.Open(recordsPath)
	if err != nil {
		return 0, services.Wrap(services.ErrImport, "import", "open records", recordsPath, err)
	}
	defer f.Close()

	var imported int
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return err
		}
		n, err := s.replaceKind(ctx, tx, entityKind, recordsPath, f, limit)
		imported = n
		return err
	})
	if err != nil {
		return 0, services.Wrap(services.ErrImport, "import", "store records",
			fmt.Sprintf("%s from %s", entityKind, recordsPath), err)
	}
	return imported, nil
}

// createdAtLayout is fixed width so stored timestamps also sort as text.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

func (s *Store) replaceKind(ctx context.Context, tx *sql.Tx, entityKind, recordsPath string, r io.Reader, limit *int) (int, error) {
	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE entity_kind = ?`, entityKind); err != nil {
		return 0, fmt.Errorf("clear %s records: %w", entityKind, err)
	}

	importID := uuid.NewString()
	var limitArg sql.NullInt64
	if limit != nil {
		limitArg = sql.NullInt64{Int64: int64(*limit), Valid: true}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO imports (id, entity_kind, source_path, record_limit, created_at) VALUES (?, ?, ?, ?, ?)`,
		importID, entityKind, recordsPath, limitArg, s.now().UTC().Format(createdAtLayout),
	); err != nil {
		return 0, fmt.Errorf("record import: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (entity_kind, seq, payload, import_id) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	count := 0
	for line := 1; scanner.Scan(); line++ {
		if limit != nil && count >= *limit {
			break
		}
		payload := bytes.TrimSpace(scanner.Bytes())
		if len(payload) == 0 {
			continue
		}
		if !json.Valid(payload) {
			return 0, fmt.Errorf("line %d is not valid json", line)
		}
		count++
		if _, err := stmt.ExecContext(ctx, entityKind, count, string(payload), importID); err != nil {
			return 0, fmt.Errorf("insert line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("read records: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE imports SET record_count = ? WHERE id = ?`, count, importID); err != nil {
		return 0, fmt.Errorf("finalize import: %w", err)
	}
	return count, nil
}

// Count returns the number of stored records for entityKind.
func (s *Store) Count(ctx context.Context, entityKind string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT COUNT(1) FROM records WHERE entity_kind = ?`, entityKind).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s records: %w", entityKind, err)
	}
	return n, nil
}

// Records returns up to n stored payloads for entityKind in import order.
// n <= 0 returns every record.
func (s *Store) Records(ctx context.Context, entityKind string, n int) ([]json.RawMessage, error) {
	if n <= 0 {
		n = -1
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT payload FROM records WHERE entity_kind = ? ORDER BY seq LIMIT ?`, entityKind, n)
	if err != nil {
		return nil, fmt.Errorf("query %s records: %w", entityKind, err)
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, json.RawMessage(payload))
	}
	return out, rows.Err()
}

const statsQuery = `
        SELECT i.entity_kind,
               (SELECT COUNT(1) FROM records r WHERE r.entity_kind = i.entity_kind),
               i.created_at, i.source_path, i.record_limit
          FROM imports i
         WHERE i.seq = (SELECT MAX(x.seq) FROM imports x WHERE x.entity_kind = i.entity_kind)`

// Stats returns per-kind record counts with the most recent import, ordered
// by entity kind.
func (s *Store) Stats(ctx context.Context) ([]KindStats, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), statsQuery+` ORDER BY i.entity_kind`)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var out []KindStats
	for rows.Next() {
		st, err := scanStats(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ErrNoImports is returned by LastImport when a kind was never imported.
var ErrNoImports = errors.New("no imports recorded")

// LastImport returns the most recent import of entityKind.
func (s *Store) LastImport(ctx context.Context, entityKind string) (KindStats, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), statsQuery+` AND i.entity_kind = ?`, entityKind)
	st, err := scanStats(row)
	if errors.Is(err, sql.ErrNoRows) {
		return KindStats{}, ErrNoImports
	}
	return st, err
}

func scanStats(row interface{ Scan(...any) error }) (KindStats, error) {
	var (
		st      KindStats
		created string
		limit   sql.NullInt64
	)
	if err := row.Scan(&st.EntityKind, &st.Records, &created, &st.LastSource, &limit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return KindStats{}, err
		}
		return KindStats{}, fmt.Errorf("scan stats: %w", err)
	}
	ts, err := time.Parse(createdAtLayout, created)
	if err != nil {
		return KindStats{}, fmt.Errorf("parse import time %q: %w", created, err)
	}
	st.LastImport = ts
	if limit.Valid {
		v := int(limit.Int64)
		st.LastLimit = &v
	}
	return st, nil
}
