package config

import (
	"arena-roguelite/internal/scaling"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Chapter != 1 || cfg.Difficulty != "normal" || cfg.TickRate != 60 || cfg.SSHPort != 2222 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.FrameRate != 33*time.Millisecond || !cfg.AutoAdvance || !cfg.RunLog {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("log level = %v", cfg.LogLevel)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ARENA_CHAPTER", "3")
	t.Setenv("ARENA_DIFFICULTY", "Nightmare")
	t.Setenv("ARENA_ENDLESS", "true")
	t.Setenv("ARENA_SEED", "77")
	t.Setenv("ARENA_LOG_LEVEL", "debug")
	t.Setenv("ARENA_FRAME", "50ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Chapter != 3 || !cfg.Endless || cfg.RunSeed() != 77 || cfg.FrameRate != 50*time.Millisecond {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Level() != scaling.Nightmare {
		t.Errorf("difficulty = %+v", cfg.Level())
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v", cfg.LogLevel)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, key, value, want string
	}{
		{"not a number", "ARENA_CHAPTER", "two", "parse env:"},
		{"chapter zero", "ARENA_CHAPTER", "0", "chapter"},
		{"bad difficulty", "ARENA_DIFFICULTY", "brutal", "difficulty"},
		{"bad port", "ARENA_SSH_PORT", "70000", "port"},
		{"bad tick rate", "ARENA_TICK_RATE", "-1", "tick rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v; want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestPathsFollowDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	cfg := Config{DataDir: dir}
	got, err := cfg.DatabasePath()
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(dir, "arena.db") {
		t.Errorf("db path = %q", got)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("data dir not created: %v", err)
	}

	cfg.Database = "/elsewhere.db"
	if got, _ := cfg.DatabasePath(); got != "/elsewhere.db" {
		t.Errorf("explicit db path ignored: %q", got)
	}
}

func TestTablesFromFile(t *testing.T) {
	if tb, err := (Config{}).Tables(); err != nil || len(tb.Chapters()) == 0 {
		t.Fatalf("embedded tables: %v", err)
	}

	if _, err := (Config{ChaptersFile: filepath.Join(t.TempDir(), "missing.yaml")}).Tables(); err == nil {
		t.Fatal("missing file accepted")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("chapters: [: nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (Config{ChaptersFile: bad}).Tables(); err == nil {
		t.Fatal("malformed file accepted")
	}
}

func TestOpenLog(t *testing.T) {
	w, err := (Config{}).OpenLog()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "arena.log")
	cfg := Config{LogFile: path, LogLevel: slog.LevelWarn}
	w, err = cfg.OpenLog()
	if err != nil {
		t.Fatal(err)
	}
	logger := cfg.Logger(w)
	logger.Info("hidden")
	logger.Warn("shown")
	w.Close()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Errorf("log file = %q", data)
	}
}
