package llmlog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS llm_calls (
	id          TEXT PRIMARY KEY,
	timestamp   TEXT NOT NULL,
	latency_ms  INTEGER NOT NULL,
	document    TEXT,
	page_id     TEXT,
	prompt_key  TEXT NOT NULL,
	model       TEXT NOT NULL,
	response    TEXT,
	success     INTEGER NOT NULL,
	error       TEXT
);
CREATE INDEX IF NOT EXISTS idx_llm_calls_prompt_key ON llm_calls (prompt_key);
CREATE INDEX IF NOT EXISTS idx_llm_calls_document ON llm_calls (document);
`

// Store persists Call records in a local sqlite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the call log database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open call log: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize call log schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record writes one call. Failures are returned, not fatal; callers log and
// continue.
func (s *Store) Record(ctx context.Context, call *Call) error {
	if call == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO llm_calls
			(id, timestamp, latency_ms, document, page_id, prompt_key, model, response, success, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		call.ID,
		call.Timestamp.UTC().Format(time.RFC3339Nano),
		call.LatencyMs,
		call.Document,
		call.PageID,
		call.PromptKey,
		call.Model,
		call.Response,
		call.Success,
		call.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to record llm call: %w", err)
	}
	return nil
}

// QueryFilter specifies filters for listing recorded calls.
type QueryFilter struct {
	Document  string
	PromptKey string
	Success   *bool
	Limit     int
}

// List retrieves calls matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter QueryFilter) ([]Call, error) {
	var conditions []string
	var args []any

	if filter.Document != "" {
		conditions = append(conditions, "document = ?")
		args = append(args, filter.Document)
	}
	if filter.PromptKey != "" {
		conditions = append(conditions, "prompt_key = ?")
		args = append(args, filter.PromptKey)
	}
	if filter.Success != nil {
		conditions = append(conditions, "success = ?")
		args = append(args, *filter.Success)
	}

	query := `SELECT id, timestamp, latency_ms, document, page_id, prompt_key, model, response, success, error
		FROM llm_calls`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list llm calls: %w", err)
	}
	defer rows.Close()

	var calls []Call
	for rows.Next() {
		var call Call
		var ts string
		if err := rows.Scan(
			&call.ID, &ts, &call.LatencyMs, &call.Document, &call.PageID,
			&call.PromptKey, &call.Model, &call.Response, &call.Success, &call.Error,
		); err != nil {
			return nil, fmt.Errorf("failed to scan llm call: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			call.Timestamp = parsed
		}
		calls = append(calls, call)
	}
	return calls, rows.Err()
}

// CountByPromptKey returns call counts grouped by prompt key.
func (s *Store) CountByPromptKey(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT prompt_key, COUNT(*) FROM llm_calls GROUP BY prompt_key`)
	if err != nil {
		return nil, fmt.Errorf("failed to count llm calls: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	return counts, rows.Err()
}
