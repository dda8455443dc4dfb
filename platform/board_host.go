//go:build !rp2040 && !rp2350

package platform

import (
	"os"
	"sync"
	"time"

	"powercycle-go/drivers/pcf8563"
	"powercycle-go/types"
	"powercycle-go/x/i2csim"
	"powercycle-go/x/timex"
)

// Open builds a host board: a simulated PCF8563 holding the current UTC time,
// fake pins and stdout as console.
func Open(cfg types.CycleConfig) (*Board, error) {
	b, _ := OpenSim(cfg, time.Now().UTC(), false, timex.System{})
	return b, nil
}

// OpenSim is Open with control over the simulated RTC and the clock used to
// timestamp pin edges. The simulated bus is returned for inspection.
func OpenSim(cfg types.CycleConfig, now time.Time, lostPower bool, clk timex.Clock) (*Board, *i2csim.Bus) {
	bus := i2csim.New()
	addr := cfg.RTC.Address
	if addr == 0 {
		addr = pcf8563.AddressDefault
	}
	pcf8563.Simulate(bus, addr, now, lostPower)

	led := NewFakePin(cfg.Pins.LED, clk)
	done := NewFakePin(cfg.Pins.Done, clk)
	b := &Board{
		I2C:     bus,
		LED:     led,
		Done:    done,
		Console: os.Stdout,
		release: func() error {
			led.Set(false)
			done.Set(false)
			return nil
		},
	}
	return b, bus
}

// Edge is one recorded level change.
type Edge struct {
	At    time.Time
	Level bool
}

// FakePin implements Pin for host builds and tests, recording every change.
type FakePin struct {
	mu      sync.RWMutex
	number  int
	level   bool
	modeOut bool
	clk     timex.Clock
	edges   []Edge
}

// NewFakePin returns a pin that timestamps edges with clk (nil = wall clock).
func NewFakePin(n int, clk timex.Clock) *FakePin {
	if clk == nil {
		clk = timex.System{}
	}
	return &FakePin{number: n, clk: clk}
}

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.modeOut = true
	p.mu.Unlock()
	p.Set(initial)
	return nil
}

func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if level == p.level && len(p.edges) > 0 {
		return
	}
	p.level = level
	p.edges = append(p.edges, Edge{At: p.clk.Now(), Level: level})
}

func (p *FakePin) Get() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.level
}

func (p *FakePin) Number() int { return p.number }

// Edges returns a copy of the recorded changes.
func (p *FakePin) Edges() []Edge {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]Edge(nil), p.edges...)
}

// Rises counts low-to-high transitions.
func (p *FakePin) Rises() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n := 0
	for _, e := range p.edges {
		if e.Level {
			n++
		}
	}
	return n
}
