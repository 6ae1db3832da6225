// Package sink delivers typing actions to their destinations.
package sink

import "github.com/ghosttype/ghosttype/internal/engine"

// Sink consumes the ordered action stream of one run. Emit is called once per
// action; Close flushes anything buffered. Sinks render output only, pacing
// is the caller's job.
type Sink interface {
	Emit(act engine.Action) error
	Close() error
}

// Multi fans every action out to all given sinks in order.
func Multi(sinks ...Sink) Sink {
	return &multiSink{sinks: sinks}
}

type multiSink struct {
	sinks []Sink
}

func (m *multiSink) Emit(act engine.Action) error {
	for _, s := range m.sinks {
		if err := s.Emit(act); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiSink) Close() error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Discard swallows every action. Useful with --no-record dry runs and tests.
func Discard() Sink {
	return discardSink{}
}

type discardSink struct{}

func (discardSink) Emit(engine.Action) error { return nil }

func (discardSink) Close() error { return nil }
