package ecs

import (
	"math"
	"time"
)

// UpdateFrame is handed to every system during a Scheduler pass.
type UpdateFrame struct {
	// DeltaTime is the elapsed wall time since the previous frame, in seconds.
	DeltaTime float64
	// Frame counts scheduler passes, starting at 1.
	Frame    uint64
	Commands *Commands
	Storage  *Storage
}

func newUpdateFrame(dt float64, frame uint64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Frame:     frame,
		Commands:  newCommands(),
		Storage:   storage,
	}
}

// Delta returns DeltaTime as a Duration, rounded to the nearest nanosecond.
func (f *UpdateFrame) Delta() time.Duration {
	return SecondsToDuration(f.DeltaTime)
}

// SecondsToDuration converts fractional seconds to a Duration without the
// truncation error of a plain conversion (0.4s must stay 400ms).
func SecondsToDuration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds * float64(time.Second)))
}
