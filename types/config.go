package types

import (
	"time"

	"powercycle-go/errcode"
)

// Mode selects which scheduler arms the RTC before power-down.
type Mode string

const (
	ModeTimer Mode = "timer"
	ModeAlarm Mode = "alarm"
)

// Done pulse floor: the 74HC74 latch needs at least this long to register CLK.
const MinDoneDwellMs = 150

// CycleConfig is the static configuration of one power cycle. It is decoded
// from the embedded device document at boot and never changes at runtime.
type CycleConfig struct {
	Mode          Mode `toml:"mode"`
	ActiveSeconds int  `toml:"active_seconds"`
	OffSeconds    int  `toml:"off_seconds"` // timer mode
	OffMinutes    int  `toml:"off_minutes"` // alarm mode

	BlinkMs      int `toml:"blink_ms"`
	DoneDwellMs  int `toml:"done_dwell_ms"`
	DoneSettleMs int `toml:"done_settle_ms"`

	// FallbackTime is written to the RTC when it reports power loss (alarm mode).
	FallbackTime time.Time `toml:"fallback_time"`

	Pins PinConfig `toml:"pins"`
	RTC  RTCConfig `toml:"rtc"`
}

// MaxPin is the highest GP number broken out on a Pico.
const MaxPin = 28

// PinConfig uses RP2 GP numbering.
type PinConfig struct {
	LED  int `toml:"led"`
	Done int `toml:"done"`
	SDA  int `toml:"sda"`
	SCL  int `toml:"scl"`
}

type RTCConfig struct {
	Address      uint16 `toml:"address"`
	FrequencyKHz uint32 `toml:"frequency_khz"`
}

// DefaultCycleConfig mirrors the reference wiring: 10 s of blinking, 15 s off,
// DONE on GP4 and the RTC on I2C1 (GP2/GP3).
func DefaultCycleConfig() CycleConfig {
	return CycleConfig{
		Mode:          ModeTimer,
		ActiveSeconds: 10,
		OffSeconds:    15,
		OffMinutes:    1,
		BlinkMs:       500,
		DoneDwellMs:   200,
		DoneSettleMs:  500,
		FallbackTime:  time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		Pins:          PinConfig{LED: 25, Done: 4, SDA: 2, SCL: 3},
		RTC:           RTCConfig{Address: 0x51, FrequencyKHz: 100},
	}
}

// ApplyDefaults fills zero-valued optional fields. Mode and delays are left
// alone so that a missing value is reported by Validate.
func (c *CycleConfig) ApplyDefaults() {
	d := DefaultCycleConfig()
	if c.BlinkMs == 0 {
		c.BlinkMs = d.BlinkMs
	}
	if c.DoneDwellMs == 0 {
		c.DoneDwellMs = d.DoneDwellMs
	}
	if c.DoneSettleMs == 0 {
		c.DoneSettleMs = d.DoneSettleMs
	}
	if c.FallbackTime.IsZero() {
		c.FallbackTime = d.FallbackTime
	}
	if c.Pins == (PinConfig{}) {
		c.Pins = d.Pins
	}
	if c.RTC.Address == 0 {
		c.RTC.Address = d.RTC.Address
	}
	if c.RTC.FrequencyKHz == 0 {
		c.RTC.FrequencyKHz = d.RTC.FrequencyKHz
	}
}

// Validate rejects configurations the sequencer must never start with.
func (c CycleConfig) Validate() error {
	switch c.Mode {
	case ModeTimer:
		if c.OffSeconds < 1 {
			return errcode.Delay("validate", "off_seconds must be positive")
		}
		if c.OffSeconds > MaxTimerSeconds {
			return errcode.Delay("validate", "off_seconds exceeds 15300 (255 minutes)")
		}
	case ModeAlarm:
		if c.OffMinutes < 1 {
			return errcode.Delay("validate", "off_minutes must be positive")
		}
		// A daily alarm 24h ahead would match the current minute.
		if c.OffMinutes >= 24*60 {
			return errcode.Delay("validate", "off_minutes must be below 1440")
		}
	default:
		return &errcode.E{C: errcode.InvalidMode, Op: "validate", Msg: "mode must be timer or alarm"}
	}
	if c.ActiveSeconds < 0 {
		return &errcode.E{C: errcode.InvalidConfig, Op: "validate", Msg: "active_seconds must not be negative"}
	}
	if c.BlinkMs <= 0 {
		return &errcode.E{C: errcode.InvalidConfig, Op: "validate", Msg: "blink_ms must be positive"}
	}
	if c.DoneDwellMs < MinDoneDwellMs {
		return &errcode.E{C: errcode.InvalidConfig, Op: "validate", Msg: "done_dwell_ms must be at least 150"}
	}
	if c.DoneSettleMs < 0 {
		return &errcode.E{C: errcode.InvalidConfig, Op: "validate", Msg: "done_settle_ms must not be negative"}
	}
	if err := c.Pins.Validate(); err != nil {
		return err
	}
	if err := c.Fallback().Validate(); err != nil {
		return err
	}
	return nil
}

// Validate rejects out-of-range and shared pins. A DONE line sharing a GP with
// the bus or the LED would never reach the latch.
func (p PinConfig) Validate() error {
	pins := [...]struct {
		name string
		n    int
	}{{"led", p.LED}, {"done", p.Done}, {"sda", p.SDA}, {"scl", p.SCL}}
	for i, a := range pins {
		if a.n < 0 || a.n > MaxPin {
			return &errcode.E{C: errcode.InvalidConfig, Op: "validate", Msg: "pins." + a.name + " out of range"}
		}
		for _, b := range pins[:i] {
			if a.n == b.n {
				return &errcode.E{C: errcode.InvalidConfig, Op: "validate", Msg: "pins." + a.name + " duplicates pins." + b.name}
			}
		}
	}
	return nil
}

func (c CycleConfig) ActiveDuration() time.Duration {
	return time.Duration(c.ActiveSeconds) * time.Second
}
func (c CycleConfig) BlinkDuration() time.Duration {
	return time.Duration(c.BlinkMs) * time.Millisecond
}
func (c CycleConfig) DoneDwell() time.Duration {
	return time.Duration(c.DoneDwellMs) * time.Millisecond
}
func (c CycleConfig) DoneSettle() time.Duration {
	return time.Duration(c.DoneSettleMs) * time.Millisecond
}

// Fallback returns FallbackTime as an RTC reading.
func (c CycleConfig) Fallback() RtcReading { return ReadingFromTime(c.FallbackTime) }
