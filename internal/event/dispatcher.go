package event

import (
	"context"
	"log/slog"
)

// Sink receives events synchronously, in emission order.
type Sink interface {
	Handle(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Handle(e Event) { f(e) }

// Dispatcher fans events out to every subscribed sink. It is the single
// path from the core to its collaborators. A nil *Dispatcher drops events.
type Dispatcher struct {
	sinks []Sink
}

// NewDispatcher returns a dispatcher with the given sinks attached.
func NewDispatcher(sinks ...Sink) *Dispatcher {
	d := &Dispatcher{}
	for _, s := range sinks {
		d.Subscribe(s)
	}
	return d
}

// Subscribe attaches a sink. Nil sinks are ignored.
func (d *Dispatcher) Subscribe(s Sink) {
	if s == nil {
		return
	}
	d.sinks = append(d.sinks, s)
}

// Emit delivers e to every sink.
func (d *Dispatcher) Emit(e Event) {
	if d == nil {
		return
	}
	for _, s := range d.sinks {
		s.Handle(e)
	}
}

// Recorder keeps every event it sees. Handy for tests and replays.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Handle(e Event) { r.Events = append(r.Events, e) }

// Reset drops everything recorded so far.
func (r *Recorder) Reset() { r.Events = r.Events[:0] }

// Of returns the recorded events of type T, in order.
func Of[T Event](r *Recorder) []T {
	var out []T
	for _, e := range r.Events {
		if t, ok := e.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// LogSink mirrors events to a structured logger at debug level.
type LogSink struct {
	Logger *slog.Logger
}

func (l LogSink) Handle(e Event) {
	if l.Logger == nil || !l.Logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Logger.Debug("event", "name", e.Name(), "payload", e)
}
