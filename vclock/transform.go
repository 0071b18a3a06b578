package vclock

import "time"

// A Transform is an affine function of time, f(x) = speed*x + shift. It maps
// an instant on the reference clock to an instant on the warped clock, and
// scales durations between the two time scales.
//
// The speed is floating-point, so repeated application accumulates rounding
// error in the sub-microsecond range. This is an accepted trade-off; the
// schedule works on integer nanoseconds and is not affected.
type Transform struct {
	speed float64
	shift time.Duration
}

// IdentityTransform returns the transform that reports reference time
// unchanged. A freshly built Clock starts with it, so the clock follows its
// reference at unit speed until told otherwise.
func IdentityTransform() Transform {
	return Transform{speed: 1, shift: 0}
}

// Apply translates an instant on the reference clock to the warped scale.
func (f Transform) Apply(x time.Time) time.Time {
	warped := time.Duration(f.speed * float64(x.UnixNano()))
	return time.Unix(0, 0).Add(warped + f.shift).In(x.Location())
}

// Scale converts a duration between the two time scales. The shift does not
// apply to a pure duration.
func (f Transform) Scale(d time.Duration) time.Duration {
	return time.Duration(f.speed * float64(d))
}

// Rebase derives a new transform that runs at the given speed and is shifted
// by an additional dt. The speed is absolute, not relative: rebasing twice
// with speed 2 still gives speed 2. The shifts accumulate.
func (f Transform) Rebase(dt time.Duration, speed float64) Transform {
	return Transform{speed: speed, shift: f.shift + dt}
}

// Speed returns the current speed relative to the reference clock. Zero means
// the warped clock is frozen.
func (f Transform) Speed() float64 {
	return f.speed
}

// Shift returns the accumulated offset of the transform.
func (f Transform) Shift() time.Duration {
	return f.shift
}
