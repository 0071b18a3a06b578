package vclock

import (
	"log"
	"time"
)

// A Timer is a passive record of a delay, expressed in warped-clock time,
// after which the timer is due. Timers are owned by the caller; the Clock
// only keeps references to them. The identity of a timer is the pointer, not
// its field values, so two timers with the same delay are distinct schedule
// entries.
//
// A Timer must not be copied after it has been added to a Clock.
type Timer struct {
	id        string
	delay     time.Duration
	repeat    bool
	cancelled bool
}

// NewTimer creates a one-shot timer that is due the given delay after the
// instant it is added at.
func NewTimer(delay time.Duration) *Timer {
	return &Timer{
		id:    GetIDGenerator().Generate(),
		delay: delay,
	}
}

// NewRepeatingTimer creates a timer that is due every delay. The delay must
// be positive, or the repeat expansion in Clock.Set would never terminate.
func NewRepeatingTimer(delay time.Duration) *Timer {
	if delay <= 0 {
		log.Panic("repeating timer must have a positive delay")
	}

	return &Timer{
		id:     GetIDGenerator().Generate(),
		delay:  delay,
		repeat: true,
	}
}

// ID returns the identifier assigned to the timer at creation.
func (t *Timer) ID() string {
	return t.id
}

// Delay returns the warped-clock duration after which the timer is due.
func (t *Timer) Delay() time.Duration {
	return t.delay
}

// Repeats tells if the timer fires every Delay rather than once.
func (t *Timer) Repeats() bool {
	return t.repeat
}

// Cancel marks the timer as cancelled. The flag is advisory data read by the
// engine: a cancelled timer never appears in an elapsed set, and its schedule
// entries are swept away lazily by the next Set call. Cancellation is not
// meant to be undone.
func (t *Timer) Cancel() {
	t.cancelled = true
}

// Cancelled returns true if the owner has cancelled the timer.
func (t *Timer) Cancelled() bool {
	return t.cancelled
}
