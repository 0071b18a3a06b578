package vclock

import (
	"sort"
	"time"
)

// tick is the smallest representable step between two schedule keys.
const tick = time.Nanosecond

// A slot is one entry on the schedule: a warped-clock instant mapped to a
// timer reference. A slot whose timer has been detached by Clock.Remove
// keeps its key but references nothing; the detached state is explicit and
// is checked before the timer is ever inspected.
type slot struct {
	due   time.Time
	timer *Timer
}

func (s slot) detached() bool {
	return s.timer == nil
}

// dead tells if the slot no longer needs to fire, either because it was
// detached or because its timer was cancelled.
func (s slot) dead() bool {
	return s.timer == nil || s.timer.Cancelled()
}

// A Schedule is an ordered collection of timer occurrences keyed by
// warped-clock time. Keys are strictly unique: inserting at an occupied
// instant bumps the candidate key forward one tick at a time until a free
// instant is found, which preserves the relative order of timers nominally
// due at the same instant.
//
// The schedule holds references only. It never owns, copies, or frees a
// Timer.
type Schedule struct {
	slots []slot
}

// NewSchedule creates an empty schedule.
func NewSchedule() *Schedule {
	return &Schedule{}
}

// Len returns the number of occurrences on the schedule, detached slots
// included.
func (s *Schedule) Len() int {
	return len(s.slots)
}

// Insert places tm on the schedule at the given instant, bumping the key
// forward past occupied instants. It returns the key actually used.
func (s *Schedule) Insert(at time.Time, tm *Timer) time.Time {
	i := s.firstNotBefore(at)
	for i < len(s.slots) && s.slots[i].due.Equal(at) {
		at = at.Add(tick)
		i++
	}

	s.slots = append(s.slots, slot{})
	copy(s.slots[i+1:], s.slots[i:])
	s.slots[i] = slot{due: at, timer: tm}

	return at
}

// Min returns the earliest key on the schedule. The second return value is
// false if the schedule is empty.
func (s *Schedule) Min() (time.Time, bool) {
	if len(s.slots) == 0 {
		return time.Time{}, false
	}

	return s.slots[0].due, true
}

// Detach empties every slot that references tm, keeping the keys in place.
// It returns the number of slots detached.
func (s *Schedule) Detach(tm *Timer) int {
	n := 0
	for i := range s.slots {
		if s.slots[i].timer == tm {
			s.slots[i].timer = nil
			n++
		}
	}

	return n
}

// An Occurrence is a read-only view of one schedule slot. Timer is nil if
// the slot has been detached.
type Occurrence struct {
	Due   time.Time
	Timer *Timer
}

// Occurrences returns a snapshot of the schedule in key order.
func (s *Schedule) Occurrences() []Occurrence {
	occ := make([]Occurrence, 0, len(s.slots))
	for _, sl := range s.slots {
		occ = append(occ, Occurrence{Due: sl.due, Timer: sl.timer})
	}

	return occ
}

// firstNotBefore returns the index of the first slot with key >= t.
func (s *Schedule) firstNotBefore(t time.Time) int {
	return sort.Search(len(s.slots), func(i int) bool {
		return !s.slots[i].due.Before(t)
	})
}

// firstAfter returns the index of the first slot with key > t.
func (s *Schedule) firstAfter(t time.Time) int {
	return sort.Search(len(s.slots), func(i int) bool {
		return s.slots[i].due.After(t)
	})
}

// eraseFirst drops the first n slots from the schedule. The vacated tail is
// zeroed so the backing array does not retain consumed timers.
func (s *Schedule) eraseFirst(n int) {
	m := copy(s.slots, s.slots[n:])
	for i := m; i < len(s.slots); i++ {
		s.slots[i] = slot{}
	}

	s.slots = s.slots[:m]
}
