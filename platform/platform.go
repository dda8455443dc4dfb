// Package platform owns the board resources of one power cycle: the RTC's I2C
// bus, the status LED, the DONE line and the console. Open acquires them from
// the selected target; Close releases them on every exit path.
package platform

import (
	"io"

	"tinygo.org/x/drivers"
)

// Pin is a digital output line.
type Pin interface {
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Number() int
}

// Board is the set of resources the sequencer is built from.
type Board struct {
	I2C     drivers.I2C
	LED     Pin
	Done    Pin
	Console io.Writer

	release func() error
}

// Close releases the bus and parks the outputs low. Safe to call twice.
func (b *Board) Close() error {
	if b == nil || b.release == nil {
		return nil
	}
	r := b.release
	b.release = nil
	return r()
}
