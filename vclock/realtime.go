package vclock

import "time"

// ReferenceClock supplies the real "now" that a Clock warps. It is the only
// thing the engine needs from the outside world.
type ReferenceClock interface {
	Now() time.Time
}

// WallClock is the ReferenceClock backed by the system clock.
type WallClock struct{}

// Now returns the current system time.
func (WallClock) Now() time.Time {
	return time.Now()
}
