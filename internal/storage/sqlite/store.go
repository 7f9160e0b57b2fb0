// Package sqlite persists finished runs, boss kills, chapter progress and
// player preferences in a SQLite database.
package sqlite

import (
	"arena-roguelite/internal/run"
	"arena-roguelite/internal/storage/sqlite/migrations"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// ErrDuplicateRun is returned when a result with the same run id exists.
var ErrDuplicateRun = errors.New("run result already recorded")

const prefAutoAdvance = "auto_advance"

// Store implements run.ResultSink, run.Progress, reward.BossLog and
// room.Preferences.
type Store struct {
	db *sql.DB

	// DefaultAutoAdvance answers AutoAdvance when the player never chose.
	DefaultAutoAdvance bool
}

func toMillis(t time.Time) int64    { return t.UTC().UnixMilli() }
func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

// Open opens the database at path and applies pending migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db, DefaultAutoAdvance: true}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveResult records a finished run.
func (s *Store) SaveResult(r run.Result) error {
	return s.SaveResultContext(context.Background(), r)
}

// SaveResultContext is SaveResult with a caller context.
func (s *Store) SaveResultContext(ctx context.Context, r run.Result) error {
	if strings.TrimSpace(r.RunID) == "" {
		return fmt.Errorf("run id is required")
	}
	abilities, err := json.Marshal(r.Abilities)
	if err != nil {
		return fmt.Errorf("encode abilities: %w", err)
	}
	finished := r.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO run_results (
		   run_id, seed, chapter, difficulty, endless, endless_wave, victory,
		   first_completion, rooms_cleared, kills, play_time_ms, abilities,
		   gold, gems, hero_xp, finished_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Seed, r.Chapter, r.Difficulty, r.Endless, r.EndlessWave, r.Victory,
		r.FirstCompletion, r.RoomsCleared, r.Kills, r.PlayTime.Milliseconds(), string(abilities),
		r.Gold, r.Gems, r.HeroXP, toMillis(finished),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateRun
		}
		return fmt.Errorf("save run result: %w", err)
	}
	return nil
}

// RecentResults returns up to limit results, newest first.
func (s *Store) RecentResults(ctx context.Context, limit int) ([]run.Result, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, seed, chapter, difficulty, endless, endless_wave, victory,
		        first_completion, rooms_cleared, kills, play_time_ms, abilities,
		        gold, gems, hero_xp, finished_at
		   FROM run_results
		  ORDER BY finished_at DESC, run_id
		  LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query run results: %w", err)
	}
	defer rows.Close()

	var out []run.Result
	for rows.Next() {
		var (
			r         run.Result
			playMS    int64
			abilities string
			finished  int64
		)
		if err := rows.Scan(&r.RunID, &r.Seed, &r.Chapter, &r.Difficulty, &r.Endless, &r.EndlessWave,
			&r.Victory, &r.FirstCompletion, &r.RoomsCleared, &r.Kills, &playMS, &abilities,
			&r.Gold, &r.Gems, &r.HeroXP, &finished); err != nil {
			return nil, fmt.Errorf("scan run result: %w", err)
		}
		if err := json.Unmarshal([]byte(abilities), &r.Abilities); err != nil {
			return nil, fmt.Errorf("decode abilities of %s: %w", r.RunID, err)
		}
		r.PlayTime = time.Duration(playMS) * time.Millisecond
		r.FinishedAt = fromMillis(finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

// RecordBossKill counts a boss defeat for the chapter.
func (s *Store) RecordBossKill(chapter int, kind string) error {
	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO boss_kills (chapter, kind, kills, first_at) VALUES (?, ?, 1, ?)
		 ON CONFLICT (chapter, kind) DO UPDATE SET kills = kills + 1`,
		chapter, kind, toMillis(time.Now()))
	if err != nil {
		return fmt.Errorf("record boss kill: %w", err)
	}
	return nil
}

// BossKills returns the kill count per boss kind for a chapter.
func (s *Store) BossKills(ctx context.Context, chapter int) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, kills FROM boss_kills WHERE chapter = ? ORDER BY kind`, chapter)
	if err != nil {
		return nil, fmt.Errorf("query boss kills: %w", err)
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan boss kill: %w", err)
		}
		out[kind] = n
	}
	return out, rows.Err()
}

// CompleteChapter records a chapter win and reports whether it was the
// first one.
func (s *Store) CompleteChapter(chapter int) (bool, error) {
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin chapter completion: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	err = tx.QueryRowContext(ctx, `SELECT completions FROM chapter_progress WHERE chapter = ?`, chapter).Scan(&n)
	first := errors.Is(err, sql.ErrNoRows)
	if err != nil && !first {
		return false, fmt.Errorf("read chapter progress: %w", err)
	}
	if first {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO chapter_progress (chapter, completions, first_at) VALUES (?, 1, ?)`,
			chapter, toMillis(time.Now()))
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE chapter_progress SET completions = completions + 1 WHERE chapter = ?`, chapter)
	}
	if err != nil {
		return false, fmt.Errorf("write chapter progress: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit chapter progress: %w", err)
	}
	return first, nil
}

// Unlocked reports whether a chapter may be started. Chapter 1 always can;
// every other chapter needs its predecessor completed.
func (s *Store) Unlocked(ctx context.Context, chapter int) (bool, error) {
	if chapter <= 1 {
		return chapter == 1, nil
	}
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM chapter_progress WHERE chapter = ?`, chapter-1).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read chapter progress: %w", err)
	}
	return true, nil
}

// HighestUnlocked returns the highest chapter that may be started.
func (s *Store) HighestUnlocked(ctx context.Context) (int, error) {
	var top sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(chapter) FROM chapter_progress`).Scan(&top); err != nil {
		return 0, fmt.Errorf("read chapter progress: %w", err)
	}
	if !top.Valid {
		return 1, nil
	}
	return int(top.Int64) + 1, nil
}

// AutoAdvance reports whether cleared rooms advance without a door. Read
// failures fall back to DefaultAutoAdvance.
func (s *Store) AutoAdvance() bool {
	v, ok, err := s.preference(context.Background(), prefAutoAdvance)
	if err != nil || !ok {
		return s.DefaultAutoAdvance
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return s.DefaultAutoAdvance
	}
	return b
}

// SetAutoAdvance stores the auto-advance preference.
func (s *Store) SetAutoAdvance(ctx context.Context, on bool) error {
	return s.setPreference(ctx, prefAutoAdvance, strconv.FormatBool(on))
}

func (s *Store) preference(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read preference %s: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) setPreference(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, toMillis(time.Now()))
	if err != nil {
		return fmt.Errorf("write preference %s: %w", key, err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
