package main

import (
	"fmt"
	"time"

	"github.com/sarchlab/virtualtime/session"
	"github.com/sarchlab/virtualtime/vclock"
)

type TimerPrinter struct {
	clock *vclock.Clock
}

func (p *TimerPrinter) Handle(tm *vclock.Timer) error {
	fmt.Printf("%s fired at %s\n",
		tm.ID(), p.clock.Now().Format(time.RFC3339Nano))

	return nil
}

func main() {
	s := session.MakeBuilder().
		WithoutMonitoring().
		Build()

	clock := s.Clock()
	s.RegisterHandler(&TimerPrinter{clock: clock})

	// Run warped time at 600x so an hour of timers plays back in six
	// seconds of wall time.
	clock.Change(clock.Now(), clock.Now(), 600)

	heartbeat := vclock.NewRepeatingTimer(10 * time.Minute)
	s.Schedule(heartbeat)
	s.Schedule(vclock.NewTimer(15 * time.Minute))
	s.Schedule(vclock.NewTimer(45 * time.Minute))

	deadline := vclock.NewTimer(time.Hour)
	s.Schedule(deadline)

	done := &stopAfter{session: s, last: deadline}
	s.RegisterHandler(done)

	if err := s.Run(); err != nil {
		panic(err)
	}

	s.Terminate()
}

type stopAfter struct {
	session *session.Session
	last    *vclock.Timer
}

func (h *stopAfter) Handle(tm *vclock.Timer) error {
	if tm == h.last {
		h.session.Stop()
	}

	return nil
}
