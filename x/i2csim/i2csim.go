// Package i2csim provides a register-file I2C target simulator that satisfies
// tinygo.org/x/drivers.I2C. Host builds and tests attach simulated chips to it.
//
// Each target exposes 256 byte-wide registers with auto-increment addressing:
// the first written byte selects the register pointer, the remaining written
// bytes are stored from there, and any read returns bytes from the pointer on.
package i2csim

import (
	"errors"
	"sync"
)

// ErrNACK is returned for transfers to an address with no attached target.
var ErrNACK = errors.New("i2csim: no acknowledge")

// Target is one simulated device.
type Target struct {
	Regs [256]byte
	// WriteMask, when non-zero for a register, limits which bits a write can
	// change. Zero means "all bits writable".
	WriteMask [256]byte
	// AndMask marks flag bits that a write can only clear (new = old & v),
	// the usual behaviour of interrupt flags.
	AndMask [256]byte
}

// Tx records a completed transfer.
type Tx struct {
	Addr uint16
	W    []byte
	R    []byte
}

// Bus is a simulated I2C bus.
type Bus struct {
	mu      sync.Mutex
	targets map[uint16]*Target
	log     []Tx

	// Fault, if set, is consulted before every transfer; a non-nil result
	// aborts the transfer without touching registers.
	Fault func(addr uint16, w []byte, r []byte) error
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{targets: make(map[uint16]*Target)}
}

// Attach adds a target at addr and returns it.
func (b *Bus) Attach(addr uint16) *Target {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := &Target{}
	b.targets[addr] = t
	return t
}

// Tx implements drivers.I2C.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Fault != nil {
		if err := b.Fault(addr, w, r); err != nil {
			return err
		}
	}
	t, ok := b.targets[addr]
	if !ok {
		return ErrNACK
	}

	var ptr byte
	if len(w) > 0 {
		ptr = w[0]
		for i, v := range w[1:] {
			reg := ptr + byte(i)
			if m := t.AndMask[reg]; m != 0 {
				v = (v &^ m) | (t.Regs[reg] & v & m)
			}
			if m := t.WriteMask[reg]; m != 0 {
				v = (t.Regs[reg] &^ m) | (v & m)
			}
			t.Regs[reg] = v
		}
	}
	for i := range r {
		r[i] = t.Regs[ptr+byte(i)]
	}

	b.log = append(b.log, Tx{
		Addr: addr,
		W:    append([]byte(nil), w...),
		R:    append([]byte(nil), r...),
	})
	return nil
}

// Log returns a copy of all successful transfers so far.
func (b *Bus) Log() []Tx {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Tx(nil), b.log...)
}

// Writes returns the number of transfers that wrote register data (more than
// just a pointer byte).
func (b *Bus) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, tx := range b.log {
		if len(tx.W) > 1 {
			n++
		}
	}
	return n
}

// ResetLog clears the transfer log.
func (b *Bus) ResetLog() {
	b.mu.Lock()
	b.log = nil
	b.mu.Unlock()
}

// Snapshot returns a copy of a target's register file.
func (b *Bus) Snapshot(addr uint16) ([256]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.targets[addr]
	if !ok {
		return [256]byte{}, false
	}
	return t.Regs, true
}
