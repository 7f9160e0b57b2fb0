package run

import (
	"errors"
	"time"
)

// Result is the record of a finished run handed to persistence.
type Result struct {
	RunID           string        `json:"run_id"`
	Seed            int64         `json:"seed"`
	Chapter         int           `json:"chapter"`
	Difficulty      string        `json:"difficulty"`
	Endless         bool          `json:"endless"`
	EndlessWave     int           `json:"endless_wave"`
	Victory         bool          `json:"victory"`
	FirstCompletion bool          `json:"first_completion,omitempty"`
	RoomsCleared    int           `json:"rooms_cleared"`
	Kills           int           `json:"kills"`
	PlayTime        time.Duration `json:"play_time_ns"`
	Abilities       []string      `json:"abilities"`
	Gold            int           `json:"gold"`
	Gems            int           `json:"gems"`
	HeroXP          int           `json:"hero_xp"`
	FinishedAt      time.Time     `json:"finished_at"`
}

// ResultSink persists finished runs.
type ResultSink interface {
	SaveResult(Result) error
}

// Sinks fans a result out to several sinks. Every sink is tried; the
// errors are joined.
type Sinks []ResultSink

func (ss Sinks) SaveResult(r Result) error {
	var errs []error
	for _, s := range ss {
		if s == nil {
			continue
		}
		if err := s.SaveResult(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Progress records chapter completions. CompleteChapter reports whether
// this was the first completion of the chapter.
type Progress interface {
	CompleteChapter(chapter int) (first bool, err error)
}
