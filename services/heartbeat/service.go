// Package heartbeat is the active-phase collaborator: it blinks the status LED
// until a wall-clock deadline so the work phase is visible on the board.
package heartbeat

import (
	"time"

	"powercycle-go/x/timex"
)

// LED is the output the heartbeat drives.
type LED interface {
	Set(level bool)
}

type Service struct {
	led   LED
	blink time.Duration
	clock timex.Clock
}

// New returns a heartbeat holding each on and off level for blink.
func New(led LED, blink time.Duration, clock timex.Clock) *Service {
	if clock == nil {
		clock = timex.System{}
	}
	return &Service{led: led, blink: blink, clock: clock}
}

// Blink runs n on/off cycles holding each level for d. It blocks for 2*n*d.
func (s *Service) Blink(d time.Duration, n int) {
	for ; n > 0; n-- {
		s.led.Set(true)
		s.clock.Sleep(d)
		s.led.Set(false)
		s.clock.Sleep(d)
	}
}

// RunUntil blinks until deadline has passed and returns the number of
// completed cycles. A cycle in progress always finishes, so the phase can run
// past the deadline by up to one cycle. It cannot be interrupted.
func (s *Service) RunUntil(deadline time.Time) int {
	println("Info: heartbeat running until", deadline.Format("15:04:05"))
	n := 0
	for s.clock.Now().Before(deadline) {
		s.Blink(s.blink, 1)
		n++
	}
	println("Info: heartbeat done after", n, "cycles")
	return n
}
