package vclock

import (
	"log"
)

// FireLogger is a hook that prints timer firings and sweeps.
type FireLogger struct {
	Logger *log.Logger
}

// NewFireLogger returns a FireLogger that writes into the given logger.
func NewFireLogger(logger *log.Logger) *FireLogger {
	return &FireLogger{Logger: logger}
}

// Func writes the firing information into the logger.
func (h *FireLogger) Func(ctx HookCtx) {
	switch ctx.Pos {
	case HookPosTimerFire:
		tm := ctx.Item.(*Timer)
		h.Logger.Printf("fire, timer %s, due %s", tm.ID(), ctx.Detail)
	case HookPosTimerSweep:
		tm, ok := ctx.Item.(*Timer)
		if !ok || tm == nil {
			h.Logger.Printf("sweep, detached slot, due %s", ctx.Detail)
			return
		}
		h.Logger.Printf("sweep, timer %s, due %s", tm.ID(), ctx.Detail)
	case HookPosClockChange:
		f := ctx.Item.(Transform)
		h.Logger.Printf("change, speed %f, shift %s", f.Speed(), f.Shift())
	}
}
