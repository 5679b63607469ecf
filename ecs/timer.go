package ecs

import "time"

// TimerMode selects whether a Timer stops or wraps around when it finishes.
type TimerMode uint8

const (
	// TimerOnce finishes a single time and then stays finished until Reset.
	TimerOnce TimerMode = iota
	// TimerRepeating wraps around each time it finishes, carrying over the excess.
	TimerRepeating
)

func (m TimerMode) String() string {
	switch m {
	case TimerOnce:
		return "once"
	case TimerRepeating:
		return "repeating"
	default:
		return "unknown"
	}
}

// Timer accumulates frame deltas and reports when its Duration has elapsed.
// Store it in a component or singleton and Tick it once per frame.
type Timer struct {
	Duration time.Duration
	Mode     TimerMode

	elapsed       time.Duration
	finished      bool
	timesFinished uint32
	paused        bool
}

// NewTimer creates a stopped-at-zero timer.
func NewTimer(duration time.Duration, mode TimerMode) Timer {
	return Timer{Duration: duration, Mode: mode}
}

// TimerFromSeconds creates a timer from fractional seconds.
func TimerFromSeconds(seconds float64, mode TimerMode) Timer {
	return NewTimer(SecondsToDuration(seconds), mode)
}

// Tick advances the timer by delta. A repeating timer may finish several times
// in one tick; TimesFinishedThisTick reports how many.
func (t *Timer) Tick(delta time.Duration) *Timer {
	t.timesFinished = 0

	if t.paused {
		if t.Mode == TimerRepeating {
			t.finished = false
		}
		return t
	}

	if t.Mode == TimerOnce && t.finished {
		return t
	}

	if delta > 0 {
		t.elapsed += delta
	}

	if t.elapsed < t.Duration {
		if t.Mode == TimerRepeating {
			t.finished = false
		}
		return t
	}

	t.finished = true
	switch {
	case t.Mode == TimerOnce:
		t.timesFinished = 1
		t.elapsed = t.Duration
	case t.Duration <= 0:
		t.timesFinished = 1
		t.elapsed = 0
	default:
		t.timesFinished = uint32(t.elapsed / t.Duration)
		t.elapsed %= t.Duration
	}
	return t
}

// JustFinished reports whether the timer finished during the last Tick.
func (t *Timer) JustFinished() bool {
	return t.timesFinished > 0
}

// Finished reports whether the timer is in the finished state. For repeating
// timers this is only true on ticks where it wrapped.
func (t *Timer) Finished() bool {
	return t.finished
}

// TimesFinishedThisTick returns the number of times the timer finished during the last Tick.
func (t *Timer) TimesFinishedThisTick() uint32 {
	return t.timesFinished
}

// Elapsed returns the time accumulated since the timer last started or wrapped.
func (t *Timer) Elapsed() time.Duration {
	return t.elapsed
}

// Remaining returns the time left until the timer next finishes.
func (t *Timer) Remaining() time.Duration {
	return max(t.Duration-t.elapsed, 0)
}

// Pause stops the timer from accumulating time.
func (t *Timer) Pause() {
	t.paused = true
}

// Unpause resumes a paused timer.
func (t *Timer) Unpause() {
	t.paused = false
}

// Paused reports whether the timer is paused.
func (t *Timer) Paused() bool {
	return t.paused
}

// Reset rewinds the timer to zero without changing its Duration or Mode.
func (t *Timer) Reset() {
	t.elapsed = 0
	t.finished = false
	t.timesFinished = 0
}
