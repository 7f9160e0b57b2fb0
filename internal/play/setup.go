package play

import (
	"arena-roguelite/internal/config"
	"arena-roguelite/internal/game"
	"arena-roguelite/internal/run"
	"arena-roguelite/internal/spawn"
	"arena-roguelite/internal/storage/jsonl"
	"arena-roguelite/internal/storage/sqlite"
	"context"
	"fmt"
	"log/slog"
)

// Storage is the persistence shared by every run of a process.
type Storage struct {
	Store  *sqlite.Store
	RunLog *jsonl.Log // nil when disabled
}

// OpenStorage opens the database and, if enabled, the JSONL run log.
func OpenStorage(cfg config.Config) (*Storage, error) {
	path, err := cfg.DatabasePath()
	if err != nil {
		return nil, fmt.Errorf("database path: %w", err)
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	store.DefaultAutoAdvance = cfg.AutoAdvance

	st := &Storage{Store: store}
	if cfg.RunLog {
		dir, err := cfg.Dir()
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("data dir: %w", err)
		}
		if st.RunLog, err = jsonl.New(dir); err != nil {
			store.Close()
			return nil, err
		}
	}
	return st, nil
}

// Close releases the database.
func (s *Storage) Close() error { return s.Store.Close() }

// Results is the sink every finished run is written to.
func (s *Storage) Results() run.ResultSink {
	if s.RunLog == nil {
		return s.Store
	}
	return run.Sinks{s.Store, s.RunLog}
}

// NewGame builds and starts a run from cfg. A chapter that is still locked
// falls back to the highest unlocked one.
func NewGame(ctx context.Context, cfg config.Config, st *Storage, logger *slog.Logger) (*game.Game, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tables, err := cfg.Tables()
	if err != nil {
		return nil, err
	}
	if _, ok := tables.Chapter(cfg.Chapter); !ok {
		return nil, fmt.Errorf("unknown chapter %d", cfg.Chapter)
	}

	chapter := cfg.Chapter
	opts := game.Options{
		Tables:     tables,
		Difficulty: cfg.Level(),
		Endless:    cfg.Endless,
		Seed:       cfg.RunSeed(),
		TickRate:   cfg.TickRate,
		NewSpawner: spawn.New,
		Logger:     logger,
	}
	if st != nil {
		ok, err := st.Store.Unlocked(ctx, chapter)
		if err != nil {
			return nil, err
		}
		if !ok {
			top, err := st.Store.HighestUnlocked(ctx)
			if err != nil {
				return nil, err
			}
			if _, ok := tables.Chapter(top); ok {
				logger.Info("chapter locked", "chapter", chapter, "using", top)
				chapter = top
			}
		}
		opts.Results = st.Results()
		opts.Progress = st.Store
		opts.Bosses = st.Store
		opts.Prefs = st.Store
	}
	opts.Chapter = chapter

	g, err := game.New(opts)
	if err != nil {
		return nil, fmt.Errorf("build game: %w", err)
	}
	g.Start()
	return g, nil
}
