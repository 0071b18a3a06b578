package vclock

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Schedule", func() {
	var (
		schedule *Schedule
		at       time.Time
	)

	BeforeEach(func() {
		schedule = NewSchedule()
		at = time.Date(2024, 2, 11, 10, 0, 0, 0, time.UTC)
	})

	It("should keep occurrences in key order", func() {
		t1 := NewTimer(time.Minute)
		t2 := NewTimer(time.Minute)
		t3 := NewTimer(time.Minute)

		schedule.Insert(at.Add(30*time.Minute), t1)
		schedule.Insert(at.Add(10*time.Minute), t2)
		schedule.Insert(at.Add(20*time.Minute), t3)

		occ := schedule.Occurrences()
		Expect(occ).To(HaveLen(3))
		Expect(occ[0].Timer).To(BeIdenticalTo(t2))
		Expect(occ[1].Timer).To(BeIdenticalTo(t3))
		Expect(occ[2].Timer).To(BeIdenticalTo(t1))
	})

	It("should bump colliding keys one tick forward", func() {
		t1 := NewTimer(time.Minute)
		t2 := NewTimer(time.Minute)

		k1 := schedule.Insert(at, t1)
		k2 := schedule.Insert(at, t2)

		Expect(k1.Equal(at)).To(BeTrue())
		Expect(k2.Equal(at.Add(tick))).To(BeTrue())
	})

	It("should bump past a contiguous run of occupied keys", func() {
		t1 := NewTimer(time.Minute)
		t2 := NewTimer(time.Minute)
		t3 := NewTimer(time.Minute)

		schedule.Insert(at, t1)
		schedule.Insert(at.Add(tick), t2)
		k := schedule.Insert(at, t3)

		Expect(k.Equal(at.Add(2 * tick))).To(BeTrue())

		occ := schedule.Occurrences()
		Expect(occ[0].Timer).To(BeIdenticalTo(t1))
		Expect(occ[1].Timer).To(BeIdenticalTo(t2))
		Expect(occ[2].Timer).To(BeIdenticalTo(t3))
	})

	It("should preserve insertion order among same-instant timers", func() {
		timers := make([]*Timer, 5)
		for i := range timers {
			timers[i] = NewTimer(time.Minute)
			schedule.Insert(at, timers[i])
		}

		occ := schedule.Occurrences()
		for i, o := range occ {
			Expect(o.Timer).To(BeIdenticalTo(timers[i]))
		}
	})

	It("should report the minimum key", func() {
		_, ok := schedule.Min()
		Expect(ok).To(BeFalse())

		schedule.Insert(at.Add(10*time.Minute), NewTimer(time.Minute))
		schedule.Insert(at.Add(5*time.Minute), NewTimer(time.Minute))

		min, ok := schedule.Min()
		Expect(ok).To(BeTrue())
		Expect(min.Equal(at.Add(5 * time.Minute))).To(BeTrue())
	})

	It("should detach all occurrences of a timer, keys intact", func() {
		tm := NewTimer(time.Minute)
		other := NewTimer(time.Minute)

		schedule.Insert(at, tm)
		schedule.Insert(at.Add(10*time.Minute), other)
		schedule.Insert(at.Add(20*time.Minute), tm)

		n := schedule.Detach(tm)
		Expect(n).To(Equal(2))
		Expect(schedule.Len()).To(Equal(3))

		occ := schedule.Occurrences()
		Expect(occ[0].Timer).To(BeNil())
		Expect(occ[0].Due.Equal(at)).To(BeTrue())
		Expect(occ[1].Timer).To(BeIdenticalTo(other))
		Expect(occ[2].Timer).To(BeNil())
	})

	It("should treat detached and cancelled slots as dead", func() {
		tm := NewTimer(time.Minute)
		cancelled := NewTimer(time.Minute)
		cancelled.Cancel()

		schedule.Insert(at, tm)
		schedule.Insert(at.Add(time.Minute), cancelled)
		schedule.Detach(tm)

		Expect(schedule.slots[0].detached()).To(BeTrue())
		Expect(schedule.slots[0].dead()).To(BeTrue())
		Expect(schedule.slots[1].detached()).To(BeFalse())
		Expect(schedule.slots[1].dead()).To(BeTrue())
	})

	It("should not retain erased timers in the backing array", func() {
		schedule.Insert(at, NewTimer(time.Minute))
		schedule.Insert(at.Add(time.Minute), NewTimer(time.Minute))
		keep := NewTimer(time.Minute)
		schedule.Insert(at.Add(2*time.Minute), keep)

		schedule.eraseFirst(2)

		Expect(schedule.Len()).To(Equal(1))
		Expect(schedule.slots[0].timer).To(BeIdenticalTo(keep))

		tail := schedule.slots[:3]
		Expect(tail[1].timer).To(BeNil())
		Expect(tail[2].timer).To(BeNil())
	})
})
