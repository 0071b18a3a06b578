package session

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/virtualtime/vclock"
)

type fixedReference struct {
	now time.Time
}

func (r fixedReference) Now() time.Time {
	return r.now
}

var _ = Describe("Session", func() {
	var (
		mockCtrl *gomock.Controller
		session  *Session
		start    time.Time
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		start = time.Date(2024, 2, 11, 10, 0, 0, 0, time.UTC)

		session = MakeBuilder().
			WithoutMonitoring().
			WithoutRecording().
			WithReferenceClock(fixedReference{now: start}).
			Build()
	})

	AfterEach(func() {
		mockCtrl.Finish()
		session.Terminate()
	})

	It("should expose the clock it drives", func() {
		Expect(session.Clock()).NotTo(BeNil())
		Expect(session.Clock().Now().Equal(start)).To(BeTrue())
	})

	It("should report the snooze of a scheduled timer", func() {
		tm := vclock.NewTimer(10 * time.Minute)
		session.Schedule(tm)

		r, err := session.Step()
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Elapsed).To(BeEmpty())
		Expect(r.Snooze).To(Equal(10 * time.Minute))
	})

	It("should dispatch elapsed timers to handlers", func() {
		handler := NewMockHandler(mockCtrl)
		session.RegisterHandler(handler)

		tm := vclock.NewTimer(0)
		session.Schedule(tm)

		handler.EXPECT().Handle(tm).Return(nil)

		r, err := session.Step()
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Elapsed).To(Equal([]*vclock.Timer{tm}))
	})

	It("should run until stopped from a handler", func() {
		handler := NewMockHandler(mockCtrl)
		session.RegisterHandler(handler)

		tm := vclock.NewTimer(0)
		session.Schedule(tm)

		handler.EXPECT().Handle(tm).DoAndReturn(func(*vclock.Timer) error {
			session.Stop()
			return nil
		})

		Expect(session.Run()).To(Succeed())
	})

	It("should surface handler errors", func() {
		handler := NewMockHandler(mockCtrl)
		session.RegisterHandler(handler)

		tm := vclock.NewTimer(0)
		session.Schedule(tm)

		handlerErr := errors.New("no good")
		handler.EXPECT().Handle(tm).Return(handlerErr)

		Expect(session.Run()).To(MatchError(handlerErr))
	})

	It("should keep a stopped session stopped", func() {
		session.Stop()
		session.Stop()

		Expect(session.Run()).To(Succeed())
	})

	It("should refuse a monitor port without monitoring", func() {
		Expect(func() {
			MakeBuilder().
				WithoutMonitoring().
				WithMonitorPort(4500).
				Build()
		}).To(Panic())
	})
})
