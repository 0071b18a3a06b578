package session

import (
	"sync"
	"time"

	"github.com/sarchlab/virtualtime/monitoring"
	"github.com/sarchlab/virtualtime/recording"
	"github.com/sarchlab/virtualtime/vclock"
)

// A Handler is notified of every timer occurrence that elapses while a
// session runs.
type Handler interface {
	Handle(tm *vclock.Timer) error
}

// minSnooze keeps an overdue timer, or a clock running at negative speed,
// from spinning the run loop.
const minSnooze = time.Millisecond

// A Session owns a warped clock and the real-time wait the clock itself
// leaves to its caller: it repeatedly advances the clock to its current
// warped time, hands the elapsed timers to the registered handlers, and
// sleeps for the snooze the clock reports.
//
// All clock and timer manipulation belongs on the session's goroutine; see
// the concurrency note on vclock.Clock.
type Session struct {
	id       string
	clock    *vclock.Clock
	recorder recording.DataRecorder
	monitor  *monitoring.Monitor
	handlers []Handler

	stop     chan struct{}
	stopOnce sync.Once
}

// ID returns the unique identifier of the session.
func (s *Session) ID() string {
	return s.id
}

// Clock returns the warped clock the session drives.
func (s *Session) Clock() *vclock.Clock {
	return s.clock
}

// DataRecorder returns the recorder firings are written to, or nil if
// recording is off.
func (s *Session) DataRecorder() recording.DataRecorder {
	return s.recorder
}

// Monitor returns the monitor serving this session, or nil if monitoring is
// off.
func (s *Session) Monitor() *monitoring.Monitor {
	return s.monitor
}

// RegisterHandler registers a handler for elapsed timers.
func (s *Session) RegisterHandler(h Handler) {
	s.handlers = append(s.handlers, h)
}

// Schedule adds a timer at the current warped time and returns the snooze
// hint from the clock.
func (s *Session) Schedule(tm *vclock.Timer) time.Duration {
	return s.clock.Add(s.clock.Now(), tm)
}

// Step advances the clock to the current warped time once and dispatches
// the elapsed timers, without sleeping. It returns what the clock reported,
// and the first handler error, if any.
func (s *Session) Step() (vclock.Ramifications, error) {
	r := s.clock.Set(s.clock.Now())

	for _, tm := range r.Elapsed {
		for _, h := range s.handlers {
			if err := h.Handle(tm); err != nil {
				return r, err
			}
		}
	}

	return r, nil
}

// Run drives the clock until Stop is called or a handler fails: advance,
// dispatch, sleep for the reported snooze, repeat.
func (s *Session) Run() error {
	for {
		r, err := s.Step()
		if err != nil {
			return err
		}

		snooze := r.Snooze
		if snooze < minSnooze {
			snooze = minSnooze
		}

		select {
		case <-s.stop:
			return nil
		case <-time.After(snooze):
		}
	}
}

// Stop makes Run return after the step in progress. Safe to call from a
// handler or from another goroutine, and more than once.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Terminate stops the session and releases the recorder.
func (s *Session) Terminate() {
	s.Stop()

	if s.recorder != nil {
		s.recorder.Close()
	}
}
