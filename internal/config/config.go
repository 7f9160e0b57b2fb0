// Package config reads run and server settings from ARENA_* environment
// variables. Command-line flags layer on top in the binaries.
package config

import (
	"arena-roguelite/internal/scaling"
	"arena-roguelite/internal/storage/jsonl"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the environment-derived configuration.
type Config struct {
	Chapter    int    `env:"ARENA_CHAPTER"    envDefault:"1"`
	Difficulty string `env:"ARENA_DIFFICULTY" envDefault:"normal"`
	Endless    bool   `env:"ARENA_ENDLESS"`
	// Seed 0 draws one from the clock.
	Seed int64 `env:"ARENA_SEED"`

	// ChaptersFile replaces the embedded chapter tables when set.
	ChaptersFile string `env:"ARENA_CHAPTERS_FILE"`
	DataDir      string `env:"ARENA_DATA_DIR"`
	Database     string `env:"ARENA_DB"`
	RunLog       bool   `env:"ARENA_RUN_LOG" envDefault:"true"`

	TickRate    int           `env:"ARENA_TICK_RATE"    envDefault:"60"`
	FrameRate   time.Duration `env:"ARENA_FRAME"        envDefault:"33ms"`
	AutoAdvance bool          `env:"ARENA_AUTO_ADVANCE" envDefault:"true"`

	SSHPort int    `env:"ARENA_SSH_PORT" envDefault:"2222"`
	HostKey string `env:"ARENA_HOST_KEY" envDefault:"server_host_key"`

	LogLevel slog.Level `env:"ARENA_LOG_LEVEL" envDefault:"info"`
	LogFile  string     `env:"ARENA_LOG_FILE"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges that the environment parser cannot.
func (c Config) Validate() error {
	switch {
	case c.Chapter < 1:
		return fmt.Errorf("chapter must be at least 1, got %d", c.Chapter)
	case c.TickRate <= 0:
		return fmt.Errorf("tick rate must be positive, got %d", c.TickRate)
	case c.FrameRate <= 0:
		return fmt.Errorf("frame interval must be positive, got %s", c.FrameRate)
	case c.SSHPort <= 0 || c.SSHPort > 65535:
		return fmt.Errorf("ssh port out of range: %d", c.SSHPort)
	}
	if !strings.EqualFold(strings.TrimSpace(c.Difficulty), c.Level().Label) {
		return fmt.Errorf("unknown difficulty %q", c.Difficulty)
	}
	return nil
}

// Level resolves the difficulty preset.
func (c Config) Level() scaling.Difficulty { return scaling.DifficultyByLabel(c.Difficulty) }

// Tables loads ChaptersFile, or the embedded tables when it is unset.
func (c Config) Tables() (*scaling.Tables, error) {
	if c.ChaptersFile == "" {
		return scaling.Default(), nil
	}
	f, err := os.Open(c.ChaptersFile)
	if err != nil {
		return nil, fmt.Errorf("open chapters file: %w", err)
	}
	defer f.Close()
	t, err := scaling.Load(f)
	if err != nil {
		return nil, fmt.Errorf("load chapters file %s: %w", c.ChaptersFile, err)
	}
	return t, nil
}

// Dir returns DataDir, or the XDG data directory when it is unset.
func (c Config) Dir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	return jsonl.DataDir()
}

// DatabasePath returns Database, or arena.db inside Dir.
func (c Config) DatabasePath() (string, error) {
	if c.Database != "" {
		return c.Database, nil
	}
	dir, err := c.Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return filepath.Join(dir, "arena.db"), nil
}

// RunSeed returns Seed, or a clock-derived seed when it is zero.
func (c Config) RunSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}

// Logger builds a text logger at LogLevel. Terminal play owns the screen,
// so callers pass a file or io.Discard rather than stderr.
func (c Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

// OpenLog opens LogFile for appending, or returns io.Discard when unset.
func (c Config) OpenLog() (io.WriteCloser, error) {
	if c.LogFile == "" {
		return nopCloser{io.Discard}, nil
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
