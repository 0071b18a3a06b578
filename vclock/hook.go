package vclock

// HookPos defines the enum of possible hooking positions
type HookPos struct {
	Name string
}

// HookPosTimerFire is a hook position that triggers when a timer occurrence
// elapses during a Set call.
var HookPosTimerFire = &HookPos{Name: "TimerFire"}

// HookPosTimerSweep is a hook position that triggers when a cancelled or
// detached occurrence is dropped from the schedule.
var HookPosTimerSweep = &HookPos{Name: "TimerSweep"}

// HookPosTimerDetach is a hook position that triggers when a timer is
// removed from the schedule.
var HookPosTimerDetach = &HookPos{Name: "TimerDetach"}

// HookPosClockChange is a hook position that triggers when the clock is
// shifted or its speed changes.
var HookPosClockChange = &HookPos{Name: "ClockChange"}

// HookCtx is the context that holds all the information about the site that
// a hook is triggered
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// Hookable defines an object that accept Hooks
type Hookable interface {
	// AcceptHook registers a hook
	AcceptHook(hook Hook)
}

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// A HookableBase provides some utility function for other type that
// implement the Hookable interface.
type HookableBase struct {
	Hooks []Hook
}

// NewHookableBase creates a HookableBase object
func NewHookableBase() *HookableBase {
	h := new(HookableBase)
	h.Hooks = make([]Hook, 0)
	return h
}

// AcceptHook register a hook
func (h *HookableBase) AcceptHook(hook Hook) {
	h.Hooks = append(h.Hooks, hook)
}

// InvokeHook triggers the registered Hooks
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}
