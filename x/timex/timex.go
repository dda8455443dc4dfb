package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// Clock is the time source for blocking loops. The firmware uses System; host
// tests substitute a Fake so that multi-second phases run instantly.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// System is the wall clock.
type System struct{}

func (System) Now() time.Time        { return time.Now() }
func (System) Sleep(d time.Duration) { time.Sleep(d) }

// Fake is a manually advanced clock. Sleep advances Now by d and records it.
// Not safe for concurrent use.
type Fake struct {
	T      time.Time
	Sleeps []time.Duration
}

// NewFake returns a Fake starting at t.
func NewFake(t time.Time) *Fake { return &Fake{T: t} }

func (f *Fake) Now() time.Time { return f.T }

func (f *Fake) Sleep(d time.Duration) {
	f.Sleeps = append(f.Sleeps, d)
	f.T = f.T.Add(d)
}

// Slept returns the total duration passed to Sleep.
func (f *Fake) Slept() time.Duration {
	var total time.Duration
	for _, d := range f.Sleeps {
		total += d
	}
	return total
}
