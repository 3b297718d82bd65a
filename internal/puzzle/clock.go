package puzzle

import (
	"context"

	"github.com/looplab/fsm"
)

// ClockState is the state of a session countdown.
type ClockState string

const (
	ClockStopped ClockState = "stopped"
	ClockRunning ClockState = "running"
	ClockFrozen  ClockState = "frozen"
)

// Signal is what a clock tick tells its owner.
type Signal int

const (
	SignalNone Signal = iota
	// SignalPanic fires once per run when the countdown reaches the
	// low-time threshold.
	SignalPanic
	// SignalExpired fires when the countdown hits zero.
	SignalExpired
)

const (
	clockEventStart  = "start"
	clockEventFreeze = "freeze"
	clockEventResume = "resume"
	clockEventStop   = "stop"
	clockEventExpire = "expire"
)

// Clock counts a session down one second per Tick. It has no goroutine of
// its own; the owner delivers ticks.
type Clock struct {
	fsm       *fsm.FSM
	remaining int
	panicked  bool
}

func NewClock() *Clock {
	return &Clock{
		fsm: fsm.NewFSM(
			string(ClockStopped),
			fsm.Events{
				{Name: clockEventStart, Src: []string{string(ClockStopped)}, Dst: string(ClockRunning)},
				{Name: clockEventFreeze, Src: []string{string(ClockRunning)}, Dst: string(ClockFrozen)},
				{Name: clockEventResume, Src: []string{string(ClockFrozen)}, Dst: string(ClockRunning)},
				{Name: clockEventStop, Src: []string{string(ClockRunning), string(ClockFrozen)}, Dst: string(ClockStopped)},
				{Name: clockEventExpire, Src: []string{string(ClockRunning)}, Dst: string(ClockStopped)},
			},
			fsm.Callbacks{},
		),
	}
}

// Start resets the countdown to limit seconds and runs it.
func (c *Clock) Start(limit int) {
	c.Stop()
	c.remaining = limit
	c.panicked = false
	c.fire(clockEventStart)
}

// Tick decrements a running clock by one second.
func (c *Clock) Tick() Signal {
	if c.State() != ClockRunning {
		return SignalNone
	}
	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		c.fire(clockEventExpire)
		return SignalExpired
	}
	if c.remaining <= panicThreshold && !c.panicked {
		c.panicked = true
		return SignalPanic
	}
	return SignalNone
}

// Freeze suspends a running clock. It reports false if the clock was not
// running.
func (c *Clock) Freeze() bool {
	return c.fire(clockEventFreeze)
}

// Resume restarts a frozen clock.
func (c *Clock) Resume() bool {
	return c.fire(clockEventResume)
}

// Stop halts the clock from any state.
func (c *Clock) Stop() {
	c.fire(clockEventStop)
}

func (c *Clock) State() ClockState {
	return ClockState(c.fsm.Current())
}

// Remaining returns the seconds left on the countdown.
func (c *Clock) Remaining() int {
	return c.remaining
}

func (c *Clock) fire(event string) bool {
	if !c.fsm.Can(event) {
		return false
	}
	return c.fsm.Event(context.Background(), event) == nil
}
