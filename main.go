// arena-roguelite plays one run in the local terminal.
//
// Usage:
//
//	arena-roguelite [--chapter 1] [--difficulty normal] [--endless] [--seed N]
//
// Settings default from ARENA_* environment variables.
package main

import (
	"arena-roguelite/internal/config"
	"arena-roguelite/internal/play"
	"arena-roguelite/internal/run"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}
	flag.IntVar(&cfg.Chapter, "chapter", cfg.Chapter, "chapter to play")
	flag.StringVar(&cfg.Difficulty, "difficulty", cfg.Difficulty, "normal, hard or nightmare")
	flag.BoolVar(&cfg.Endless, "endless", cfg.Endless, "endless waves instead of a chapter")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "run seed (0 = random)")
	flag.StringVar(&cfg.ChaptersFile, "chapters", cfg.ChaptersFile, "YAML chapter tables replacing the built-in ones")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		fail(err)
	}

	logOut, err := cfg.OpenLog()
	if err != nil {
		fail(err)
	}
	defer logOut.Close()
	logger := cfg.Logger(logOut)

	st, err := play.OpenStorage(cfg)
	if err != nil {
		fail(err)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, err := play.NewGame(ctx, cfg, st, logger)
	if err != nil {
		fail(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fail(err)
	}
	if err := screen.Init(); err != nil {
		fail(err)
	}
	res := play.New(screen, g, cfg.FrameRate, logger).Run(ctx)
	screen.Fini()

	printSummary(res)
}

func printSummary(r run.Result) {
	outcome := "Run over"
	if r.Victory {
		outcome = "Victory"
	}
	fmt.Printf("%s in chapter %d (%s): %d rooms, %d kills, %d gold, %d gems, %s\n",
		outcome, r.Chapter, r.Difficulty, r.RoomsCleared, r.Kills, r.Gold, r.Gems, r.PlayTime.Round(time.Second))
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
