package vclock

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Transform", func() {
	// Instants within ~100 days of the epoch keep the float64 math exact,
	// so these specs can compare instants for equality.
	base := time.Unix(0, 0).UTC().Add(24 * time.Hour)

	It("should report reference time unchanged by default", func() {
		f := IdentityTransform()

		x := base.Add(90 * time.Minute)
		Expect(f.Apply(x).Equal(x)).To(BeTrue())
		Expect(f.Scale(time.Minute)).To(Equal(time.Minute))
	})

	It("should scale durations by speed only", func() {
		f := IdentityTransform().Rebase(2*time.Hour, 2)

		Expect(f.Scale(time.Minute)).To(Equal(2 * time.Minute))
	})

	It("should shift instants", func() {
		f := IdentityTransform().Rebase(30*time.Minute, 1)

		x := base.Add(time.Hour)
		Expect(f.Apply(x).Equal(x.Add(30 * time.Minute))).To(BeTrue())
	})

	It("should treat the speed as absolute when rebasing", func() {
		f := IdentityTransform().
			Rebase(0, 2).
			Rebase(0, 2)

		Expect(f.Speed()).To(Equal(2.0))
	})

	It("should accumulate shifts when rebasing", func() {
		f := IdentityTransform().
			Rebase(10*time.Minute, 1).
			Rebase(5*time.Minute, 3)

		Expect(f.Shift()).To(Equal(15 * time.Minute))
		Expect(f.Speed()).To(Equal(3.0))
	})

	It("should freeze time at speed zero", func() {
		f := IdentityTransform().Rebase(time.Hour, 0)

		r1 := base.Add(time.Hour)
		r2 := base.Add(9 * time.Hour)
		Expect(f.Apply(r1).Equal(f.Apply(r2))).To(BeTrue())
	})

	It("should allow a negative speed", func() {
		f := IdentityTransform().Rebase(0, -1)

		Expect(f.Scale(time.Minute)).To(Equal(-time.Minute))
	})
})
