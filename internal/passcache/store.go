package passcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"recut/internal/config"
	"recut/internal/fileutil"
	"recut/internal/refine"
	"recut/internal/services"
	"recut/internal/speakers"
)

const lockRetryDelay = 50 * time.Millisecond

// Store is the SQLite-backed pass cache.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Entry summarizes one cached pass.
type Entry struct {
	Key           string
	PassID        string
	Mode          string
	Ranges        int
	Cues          int
	OutputSeconds float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Key derives a cache key from content parts, typically the source
// transcript bytes followed by the edit payload.
func Key(parts ...[]byte) string {
	return fileutil.Digest(parts...)
}

// Open connects to the cache database configured in cfg.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "passcache", "open", "Failed to create cache directory", err)
	}
	return OpenPath(cfg.CacheDBPath())
}

// OpenPath connects to the cache database at path, creating it if needed.
func OpenPath(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "passcache", "open", "Failed to create cache directory", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "passcache", "open", "Failed to open cache database", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, services.Wrap(services.ErrTransient, "passcache", "open", fmt.Sprintf("Failed to apply %q", pragma), execErr)
		}
	}

	store := &Store{
		db:   db,
		path: dbPath,
		lock: flock.New(dbPath + ".lock"),
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		marker := services.ErrTransient
		if errors.Is(err, ErrSchemaMismatch) {
			marker = services.ErrConfiguration
		}
		return nil, services.Wrap(marker, "passcache", "open", "Failed to initialize cache schema", err)
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// withLock runs fn while holding the cross-process write lock.
func (s *Store) withLock(ctx context.Context, fn func() error) error {
	ok, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil && ctx.Err() == nil {
		return services.Wrap(services.ErrTransient, "passcache", "lock", "Failed to acquire cache lock", err)
	}
	if !ok {
		return services.Wrap(services.ErrConflict, "passcache", "lock", "Cache is locked by another process", ctx.Err())
	}
	defer func() { _ = s.lock.Unlock() }()
	return fn()
}

// PutPass stores result under key, replacing any previous entry.
func (s *Store) PutPass(ctx context.Context, key string, result refine.Result) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return services.Wrap(services.ErrValidation, "passcache", "put pass", "Cache key is empty", nil)
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return services.Wrap(services.ErrValidation, "passcache", "put pass", "Failed to encode pass", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return s.withLock(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO passes (
                key, pass_id, mode, range_count, cue_count, output_seconds, result_json, created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
            ON CONFLICT(key) DO UPDATE SET
                pass_id = excluded.pass_id,
                mode = excluded.mode,
                range_count = excluded.range_count,
                cue_count = excluded.cue_count,
                output_seconds = excluded.output_seconds,
                result_json = excluded.result_json,
                updated_at = excluded.updated_at`,
			key,
			result.PassID,
			result.Mode,
			len(result.Ranges),
			len(result.Captions),
			result.OutputDuration,
			string(payload),
			now,
			now,
		)
		if err != nil {
			return services.Wrap(services.ErrTransient, "passcache", "put pass", "Failed to store pass", err)
		}
		return nil
	})
}

// GetPass loads the pass stored under key. The boolean is false on a miss.
func (s *Store) GetPass(ctx context.Context, key string) (refine.Result, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT result_json FROM passes WHERE key = ?", key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return refine.Result{}, false, nil
	}
	if err != nil {
		return refine.Result{}, false, services.Wrap(services.ErrTransient, "passcache", "get pass", "Failed to read pass", err)
	}
	var result refine.Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return refine.Result{}, false, services.Wrap(services.ErrValidation, "passcache", "get pass", "Cached pass is corrupt", err)
	}
	return result, true, nil
}

// FindPass looks up an entry by key prefix, so short keys shown in listings
// can be used on the command line.
func (s *Store) FindPass(ctx context.Context, prefix string) (Entry, refine.Result, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return Entry{}, refine.Result{}, services.Wrap(services.ErrValidation, "passcache", "find pass", "Cache key is empty", nil)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, pass_id, mode, range_count, cue_count, output_seconds, created_at, updated_at, result_json
         FROM passes WHERE key LIKE ? ESCAPE '\' LIMIT 2`,
		escapeLike(prefix)+"%",
	)
	if err != nil {
		return Entry{}, refine.Result{}, services.Wrap(services.ErrTransient, "passcache", "find pass", "Failed to query cache", err)
	}
	defer rows.Close()

	var (
		matches []Entry
		payload string
	)
	for rows.Next() {
		entry, raw, err := scanEntry(rows)
		if err != nil {
			return Entry{}, refine.Result{}, err
		}
		matches = append(matches, entry)
		payload = raw
	}
	if err := rows.Err(); err != nil {
		return Entry{}, refine.Result{}, services.Wrap(services.ErrTransient, "passcache", "find pass", "Failed to iterate cache", err)
	}
	switch len(matches) {
	case 0:
		return Entry{}, refine.Result{}, services.Wrap(services.ErrNotFound, "passcache", "find pass", fmt.Sprintf("No cached pass matches %q", prefix), nil)
	case 1:
	default:
		return Entry{}, refine.Result{}, services.Wrap(services.ErrConflict, "passcache", "find pass", fmt.Sprintf("Key prefix %q is ambiguous", prefix), nil)
	}
	var result refine.Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return Entry{}, refine.Result{}, services.Wrap(services.ErrValidation, "passcache", "find pass", "Cached pass is corrupt", err)
	}
	return matches[0], result, nil
}

// List returns cached pass summaries, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, pass_id, mode, range_count, cue_count, output_seconds, created_at, updated_at, ''
         FROM passes ORDER BY updated_at DESC, key`,
	)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "passcache", "list", "Failed to query cache", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, _, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrTransient, "passcache", "list", "Failed to iterate cache", err)
	}
	return entries, nil
}

// Clear removes every cached pass and assignment, returning the number of
// rows deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	var removed int64
	err := s.withLock(ctx, func() error {
		for _, table := range []string{"passes", "assignments"} {
			res, err := s.db.ExecContext(ctx, "DELETE FROM "+table)
			if err != nil {
				return services.Wrap(services.ErrTransient, "passcache", "clear", "Failed to clear "+table, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return services.Wrap(services.ErrTransient, "passcache", "clear", "Failed to count removed rows", err)
			}
			removed += n
		}
		return nil
	})
	return removed, err
}

// PutAssignment stores the resolved assignment for a source.
func (s *Store) PutAssignment(ctx context.Context, sourceKey string, assignment speakers.Assignment) error {
	sourceKey = strings.TrimSpace(sourceKey)
	if sourceKey == "" {
		return services.Wrap(services.ErrValidation, "passcache", "put assignment", "Source key is empty", nil)
	}
	if assignment == nil {
		assignment = speakers.Assignment{}
	}
	payload, err := json.Marshal(assignment)
	if err != nil {
		return services.Wrap(services.ErrValidation, "passcache", "put assignment", "Failed to encode assignment", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return s.withLock(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO assignments (source_key, assignment_json, updated_at) VALUES (?, ?, ?)
             ON CONFLICT(source_key) DO UPDATE SET
                assignment_json = excluded.assignment_json,
                updated_at = excluded.updated_at`,
			sourceKey, string(payload), now,
		)
		if err != nil {
			return services.Wrap(services.ErrTransient, "passcache", "put assignment", "Failed to store assignment", err)
		}
		return nil
	})
}

// GetAssignment loads the cached assignment for a source.
func (s *Store) GetAssignment(ctx context.Context, sourceKey string) (speakers.Assignment, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT assignment_json FROM assignments WHERE source_key = ?", sourceKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, services.Wrap(services.ErrTransient, "passcache", "get assignment", "Failed to read assignment", err)
	}
	assignment := speakers.Assignment{}
	if err := json.Unmarshal([]byte(payload), &assignment); err != nil {
		return nil, false, services.Wrap(services.ErrValidation, "passcache", "get assignment", "Cached assignment is corrupt", err)
	}
	return assignment, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, string, error) {
	var (
		entry            Entry
		created, updated string
		payload          string
	)
	if err := row.Scan(
		&entry.Key,
		&entry.PassID,
		&entry.Mode,
		&entry.Ranges,
		&entry.Cues,
		&entry.OutputSeconds,
		&created,
		&updated,
		&payload,
	); err != nil {
		return Entry{}, "", services.Wrap(services.ErrTransient, "passcache", "scan", "Failed to read cache row", err)
	}
	entry.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	entry.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return entry, payload, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
