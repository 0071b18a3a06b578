package vclock

import (
	"time"
)

// idleSnooze is the warped-time snooze reported by Set when nothing is
// scheduled: check back in an hour.
const idleSnooze = time.Hour

// Ramifications is what a Set call reports back: the timers that elapsed
// before the target instant, in key order, and how long to wait on the
// reference clock before the next occurrence might be due.
type Ramifications struct {
	Elapsed []*Timer
	Snooze  time.Duration
}

// A Clock reports warped time: an affine function of a reference clock. By
// default it follows its reference, but it can change speed, stop, and jump
// backward or forward. It also keeps a schedule of timers, expressed in
// warped time, and reports which of them elapse as the clock moves forward.
//
// The Clock does not interact with any OS-level timer facility. The caller
// owns the wait: it sleeps for the snooze duration reported by Add or Set
// and then calls Set again with the new warped "now". The session package
// provides such a loop.
//
// A Clock is not safe for concurrent use. It assumes a single owner
// goroutine; callers that share one provide their own synchronization.
type Clock struct {
	*HookableBase

	f        Transform
	schedule *Schedule
	ref      ReferenceClock
}

// New creates a Clock on top of the given reference clock. The new clock
// follows the reference at unit speed until Change is called.
func New(ref ReferenceClock) *Clock {
	return &Clock{
		HookableBase: NewHookableBase(),
		f:            IdentityTransform(),
		schedule:     NewSchedule(),
		ref:          ref,
	}
}

// Change rebases the clock so that what it used to report as instant a it
// now reports as b, and sets the speed to v going forward (0 for a stopped
// clock, 1 for normal speed, and so on).
//
// The a-to-b jump is relative to the current warped clock, not to the
// reference. The speed, however, is absolute: saying 2 twice does not make
// the clock run at 4 times the reference.
//
// Neither a nor b has to be current time in any sense. They only form a
// duration, and "current time" has no meaning in this part of the
// interface. Already-scheduled occurrences keep their keys.
func (c *Clock) Change(a, b time.Time, v float64) {
	c.f = c.f.Rebase(b.Sub(a), v)

	c.InvokeHook(HookCtx{
		Domain: c,
		Pos:    HookPosClockChange,
		Item:   c.f,
	})
}

// At translates a reference instant to warped time.
func (c *Clock) At(ref time.Time) time.Time {
	return c.f.Apply(ref)
}

// Now reports the current warped time.
func (c *Clock) Now() time.Time {
	return c.At(c.ref.Now())
}

// Transform returns the affine function currently in effect.
func (c *Clock) Transform() Transform {
	return c.f
}

// Pending returns a snapshot of the schedule in key order. It is meant for
// inspection and does not mutate the clock.
func (c *Clock) Pending() []Occurrence {
	return c.schedule.Occurrences()
}

// Add schedules tm, assuming the warped time is now. Timers are expressed
// as a duration, so a 30 min timer added at 10:00 is due at 10:30. If that
// instant is occupied the occurrence lands a tick later.
//
// The Clock does not own the timer. The same timer can be added more than
// once, forming distinct occurrences; callers who see a reason to do so
// handle the duplicate firings themselves.
//
// The return value is a snooze hint like the one Set reports, measured from
// the new occurrence: the earliest entry on the schedule may be a different,
// earlier timer than the one just added.
func (c *Clock) Add(now time.Time, tm *Timer) time.Duration {
	key := c.schedule.Insert(now.Add(tm.Delay()), tm)

	head, _ := c.schedule.Min()
	return c.f.Scale(head.Sub(key))
}

// Remove detaches every occurrence of tm from the schedule without touching
// the keys. This is not the same as cancelling: cancellation is a flag on
// the timer that the engine merely observes, while removal unlinks the
// timer from the schedule so the caller can safely destroy it.
func (c *Clock) Remove(tm *Timer) {
	n := c.schedule.Detach(tm)
	if n == 0 {
		return
	}

	c.InvokeHook(HookCtx{
		Domain: c,
		Pos:    HookPosTimerDetach,
		Item:   tm,
		Detail: n,
	})
}

// Set moves the clock to warped instant t. Oddly, this does not change what
// the clock reports; Change does that. Set consumes the occurrences that
// elapsed before t, schedules the next occurrences of repeating timers, and
// tells the caller how long to wait, on the reference clock, until the next
// occurrence ought to be due.
//
//   - The elapsed set is sorted by key.
//   - Cancelled timers are absent, and so are removed ones.
//   - A repeating timer may be present multiple times. A once-a-day timer is
//     listed ~365 times if the clock moves forward a year.
//   - Moving backward makes nothing elapse. Occurrences are consumed by
//     moving forward past them, so there is nothing left in the past.
//
// Cancelled occurrences just past t are swept away as a side effect, even
// though they are not yet due. Cancellation frees schedule space lazily, on
// the next Set call, not immediately.
func (c *Clock) Set(t time.Time) Ramifications {
	c.expandRepeats(t)

	cut := c.schedule.firstAfter(t)
	for cut < c.schedule.Len() && c.schedule.slots[cut].dead() {
		cut++
	}

	snooze := idleSnooze
	if cut < c.schedule.Len() {
		snooze = c.schedule.slots[cut].due.Sub(t)
	}

	r := Ramifications{
		Elapsed: c.consume(cut),
		Snooze:  c.f.Scale(snooze),
	}

	c.schedule.eraseFirst(cut)

	return r
}

// expandRepeats makes sure that every live repeating timer due at or before
// t has at least one occurrence strictly after t, so consuming everything up
// to t never leaves the timer without a future occurrence. Occurrences are generated
// into a side buffer while the schedule is scanned and merged afterwards,
// so the scan never meets its own output.
func (c *Clock) expandRepeats(t time.Time) {
	type occurrence struct {
		at time.Time
		tm *Timer
	}

	var generated []occurrence

	n := c.schedule.firstAfter(t)
	for _, sl := range c.schedule.slots[:n] {
		if sl.dead() || !sl.timer.Repeats() {
			continue
		}

		k := sl.due
		for {
			k = k.Add(sl.timer.Delay())
			generated = append(generated, occurrence{at: k, tm: sl.timer})
			if k.After(t) {
				break
			}
		}
	}

	for _, o := range generated {
		c.schedule.Insert(o.at, o.tm)
	}
}

// consume reports the slots before the cut: live ones form the elapsed set,
// dead ones are swept. The slots themselves are erased by the caller.
func (c *Clock) consume(cut int) []*Timer {
	var elapsed []*Timer

	for _, sl := range c.schedule.slots[:cut] {
		if sl.dead() {
			c.InvokeHook(HookCtx{
				Domain: c,
				Pos:    HookPosTimerSweep,
				Item:   sl.timer,
				Detail: sl.due,
			})

			continue
		}

		c.InvokeHook(HookCtx{
			Domain: c,
			Pos:    HookPosTimerFire,
			Item:   sl.timer,
			Detail: sl.due,
		})

		elapsed = append(elapsed, sl.timer)
	}

	return elapsed
}
