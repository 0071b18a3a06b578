package recording

import (
	"time"

	"github.com/sarchlab/virtualtime/vclock"
)

const (
	firingsTable = "firings"
	sweepsTable  = "sweeps"
)

// A FiringRecord is one row in the firings table. Due is the warped-clock
// key of the occurrence in nanoseconds since the epoch.
type FiringRecord struct {
	TimerID string
	Due     int64
	Repeats bool
}

// A SweepRecord is one row in the sweeps table. TimerID is empty when the
// swept slot had been detached.
type SweepRecord struct {
	TimerID string
	Due     int64
}

// FiringLog is a vclock hook that records timer firings and sweeps through a
// DataRecorder, so a run can be inspected after the fact.
type FiringLog struct {
	recorder DataRecorder
}

// NewFiringLog creates a FiringLog and its tables on the given recorder.
func NewFiringLog(recorder DataRecorder) *FiringLog {
	recorder.CreateTable(firingsTable, FiringRecord{})
	recorder.CreateTable(sweepsTable, SweepRecord{})

	return &FiringLog{recorder: recorder}
}

// Func records firing and sweep hook invocations. Other positions are
// ignored.
func (l *FiringLog) Func(ctx vclock.HookCtx) {
	switch ctx.Pos {
	case vclock.HookPosTimerFire:
		tm := ctx.Item.(*vclock.Timer)
		l.recorder.InsertData(firingsTable, FiringRecord{
			TimerID: tm.ID(),
			Due:     ctx.Detail.(time.Time).UnixNano(),
			Repeats: tm.Repeats(),
		})
	case vclock.HookPosTimerSweep:
		rec := SweepRecord{
			Due: ctx.Detail.(time.Time).UnixNano(),
		}
		if tm, ok := ctx.Item.(*vclock.Timer); ok && tm != nil {
			rec.TimerID = tm.ID()
		}

		l.recorder.InsertData(sweepsTable, rec)
	}
}
