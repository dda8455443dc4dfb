package rtc

import (
	"tinygo.org/x/drivers"

	"powercycle-go/drivers/pcf8563"
	"powercycle-go/errcode"
	"powercycle-go/types"
)

// PCF8563 adapts the register driver to Peripheral.
type PCF8563 struct {
	dev pcf8563.Device
}

// NewPCF8563 binds to the chip at addr (0 selects 0x51).
func NewPCF8563(bus drivers.I2C, addr uint16) *PCF8563 {
	d := pcf8563.New(bus)
	if addr != 0 {
		d.Address = addr
	}
	return &PCF8563{dev: d}
}

func (p *PCF8563) ReadCurrentTime() (types.RtcReading, error) {
	t, err := p.dev.ReadTime()
	if err != nil {
		return types.RtcReading{}, errcode.IO("read_time", err)
	}
	return types.ReadingFromTime(t), nil
}

func (p *PCF8563) ReadPowerLossFlag() (bool, error) {
	lost, err := p.dev.LostPower()
	return lost, errcode.IO("read_power_loss", err)
}

func (p *PCF8563) WriteCurrentTime(r types.RtcReading) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return errcode.IO("write_time", p.dev.SetTime(r.Time()))
}

func (p *PCF8563) ConfigureTimer(c types.TimerConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}
	freq := pcf8563.Timer1Hz
	if c.Domain == types.FreqOneSixtiethHz {
		freq = pcf8563.Timer1_60Hz
	}
	return errcode.IO("configure_timer", p.dev.SetTimer(freq, c.Count, c.InterruptEnabled, c.TimerEnabled))
}

func (p *PCF8563) ConfigureAlarm(c types.AlarmConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return errcode.IO("configure_alarm", p.dev.SetDailyAlarm(c.Hour, c.Minute, c.InterruptEnabled))
}

func (p *PCF8563) DisarmTimer() error {
	return errcode.IO("disarm_timer", p.dev.DisableTimer())
}

func (p *PCF8563) DisarmAlarm() error {
	return errcode.IO("disarm_alarm", p.dev.DisableAlarm())
}

// Snapshot exposes the raw register image for diagnostics.
func (p *PCF8563) Snapshot() (pcf8563.Snapshot, error) {
	s, err := p.dev.Snapshot()
	return s, errcode.IO("snapshot", err)
}
