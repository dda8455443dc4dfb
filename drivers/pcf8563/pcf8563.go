package pcf8563

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// Errors returned by the driver.
var (
	ErrInvalidTime  = errors.New("pcf8563: time outside 2000..2199")
	ErrInvalidCount = errors.New("pcf8563: timer count must be non-zero")
	ErrInvalidAlarm = errors.New("pcf8563: alarm hour/minute out of range")
)

// Device wraps an I2C connection to a PCF8563.
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when both
// w and r are provided; the chip's register pointer is set by the write.
type Device struct {
	bus     drivers.I2C
	Address uint16

	w [8]byte // reuse buffers to avoid allocations
	r [7]byte
}

// New creates a new PCF8563 connection. The I2C bus must already be configured.
// It does not touch the device.
func New(bus drivers.I2C) Device {
	return Device{bus: bus, Address: AddressDefault}
}

func (d *Device) readReg(reg byte) (byte, error) {
	d.w[0] = reg
	if err := d.bus.Tx(d.Address, d.w[:1], d.r[:1]); err != nil {
		return 0, err
	}
	return d.r[0], nil
}

func (d *Device) writeReg(reg, val byte) error {
	d.w[0] = reg
	d.w[1] = val
	return d.bus.Tx(d.Address, d.w[:2], nil)
}

// updateControl2 rewrites Control_status_2 keeping bits outside mask. Flags in
// clear are written 0; every other flag is written 1 so it is left alone.
func (d *Device) updateControl2(mask, set, clear byte) error {
	v, err := d.readReg(regControl2)
	if err != nil {
		return err
	}
	v = (v &^ mask) | (set & mask)
	v = (v | ctl2Flags) &^ clear
	return d.writeReg(regControl2, v)
}

// LostPower reports the VL flag: the oscillator stopped or the supply dropped
// below the retention threshold, so the stored time is untrustworthy.
func (d *Device) LostPower() (bool, error) {
	v, err := d.readReg(regSeconds)
	if err != nil {
		return false, err
	}
	return v&secondsVL != 0, nil
}

// ReadTime returns the current time as UTC. Weekday is recomputed from the date.
func (d *Device) ReadTime() (time.Time, error) {
	d.w[0] = regSeconds
	buf := d.r[:7]
	if err := d.bus.Tx(d.Address, d.w[:1], buf); err != nil {
		return time.Time{}, err
	}
	sec := bcdToDec(buf[0] &^ secondsVL)
	min := bcdToDec(buf[1] & 0x7F)
	hour := bcdToDec(buf[2] & 0x3F)
	day := bcdToDec(buf[3] & 0x3F)
	// buf[4] is the weekday register; the date already determines it.
	month := time.Month(bcdToDec(buf[5] & 0x1F))
	year := 2000 + bcdToDec(buf[6])
	if buf[5]&monthsC != 0 {
		year += 100
	}
	return time.Date(year, month, day, hour, min, sec, 0, time.UTC), nil
}

// SetTime stops the clock, writes the calendar and restarts it. Writing the
// seconds register clears VL.
func (d *Device) SetTime(t time.Time) error {
	year := t.Year()
	if year < 2000 || year > 2199 {
		return ErrInvalidTime
	}
	if err := d.writeReg(regControl1, ctl1Stop); err != nil {
		return err
	}
	months := decToBCD(int(t.Month()))
	if year >= 2100 {
		months |= monthsC
	}
	d.w[0] = regSeconds
	d.w[1] = decToBCD(t.Second())
	d.w[2] = decToBCD(t.Minute())
	d.w[3] = decToBCD(t.Hour())
	d.w[4] = decToBCD(t.Day())
	d.w[5] = byte(t.Weekday())
	d.w[6] = months
	d.w[7] = decToBCD(year % 100)
	if err := d.bus.Tx(d.Address, d.w[:8], nil); err != nil {
		return err
	}
	return d.writeReg(regControl1, 0)
}
