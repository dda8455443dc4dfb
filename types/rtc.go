package types

import (
	"time"

	"powercycle-go/errcode"
	"powercycle-go/x/mathx"
)

// ------------------------
// Clock snapshot
// ------------------------

// RtcReading is an immutable snapshot of the RTC calendar registers.
type RtcReading struct {
	Year    int          `json:"year"`
	Month   time.Month   `json:"month"`
	Day     int          `json:"day"`
	Hour    int          `json:"hour"`
	Minute  int          `json:"minute"`
	Second  int          `json:"second"`
	Weekday time.Weekday `json:"weekday"`
}

// The PCF8563 stores a two-digit year plus a century bit.
const (
	MinYear = 2000
	MaxYear = 2199
)

// ReadingFromTime takes the wall-clock fields of t as they are, without
// converting zones.
func ReadingFromTime(t time.Time) RtcReading {
	return RtcReading{
		Year:    t.Year(),
		Month:   t.Month(),
		Day:     t.Day(),
		Hour:    t.Hour(),
		Minute:  t.Minute(),
		Second:  t.Second(),
		Weekday: t.Weekday(),
	}
}

// Time returns the reading as a UTC instant. Out-of-range fields are
// normalised by time.Date; call Validate first when that matters.
func (r RtcReading) Time() time.Time {
	return time.Date(r.Year, r.Month, r.Day, r.Hour, r.Minute, r.Second, 0, time.UTC)
}

// Validate checks every calendar field against the chip's range. Weekday is
// informational and only needs to be 0..6.
func (r RtcReading) Validate() error {
	if !mathx.Between(r.Year, MinYear, MaxYear) {
		return &errcode.E{C: errcode.InvalidConfig, Op: "rtc_reading", Msg: "year out of range"}
	}
	if !mathx.Between(int(r.Month), 1, 12) ||
		!mathx.Between(r.Hour, 0, 23) ||
		!mathx.Between(r.Minute, 0, 59) ||
		!mathx.Between(r.Second, 0, 59) ||
		!mathx.Between(int(r.Weekday), 0, 6) {
		return &errcode.E{C: errcode.InvalidConfig, Op: "rtc_reading", Msg: "field out of range"}
	}
	// Day must exist in the month (rejects 2023-02-29 and friends).
	if r.Day < 1 || r.Time().Day() != r.Day {
		return &errcode.E{C: errcode.InvalidConfig, Op: "rtc_reading", Msg: "day out of range"}
	}
	return nil
}

// ------------------------
// Countdown timer
// ------------------------

// FrequencyDomain selects the countdown source clock.
type FrequencyDomain uint8

const (
	Freq1Hz FrequencyDomain = iota + 1
	FreqOneSixtiethHz
)

// Countdown register limits.
const (
	MaxTimerCount   = 255
	MaxTimerSeconds = MaxTimerCount * 60 // 15300 s, 4h15m
)

// Period returns the duration of one count in this domain.
func (f FrequencyDomain) Period() time.Duration {
	switch f {
	case Freq1Hz:
		return time.Second
	case FreqOneSixtiethHz:
		return time.Minute
	}
	return 0
}

func (f FrequencyDomain) String() string {
	switch f {
	case Freq1Hz:
		return "1Hz"
	case FreqOneSixtiethHz:
		return "1/60Hz"
	}
	return "unknown"
}

// TimerConfig is a one-shot countdown configuration.
type TimerConfig struct {
	Domain           FrequencyDomain `json:"domain"`
	Count            uint8           `json:"count"`
	InterruptEnabled bool            `json:"interrupt_enabled"`
	TimerEnabled     bool            `json:"timer_enabled"`
}

// Duration is the real time the countdown covers.
func (c TimerConfig) Duration() time.Duration {
	return time.Duration(c.Count) * c.Domain.Period()
}

func (c TimerConfig) Validate() error {
	if c.Domain.Period() == 0 {
		return &errcode.E{C: errcode.InvalidConfig, Op: "timer_config", Msg: "unknown frequency domain"}
	}
	if c.Count == 0 {
		return &errcode.E{C: errcode.InvalidConfig, Op: "timer_config", Msg: "count must be 1..255"}
	}
	return nil
}

// ------------------------
// Calendar alarm
// ------------------------

// Repeat describes how often an alarm matches.
type Repeat string

// RepeatDaily matches hour and minute only, so the alarm fires once per day.
const RepeatDaily Repeat = "daily"

// AlarmConfig is an hour:minute match alarm.
type AlarmConfig struct {
	Hour             int    `json:"hour"`
	Minute           int    `json:"minute"`
	Repeat           Repeat `json:"repeat"`
	InterruptEnabled bool   `json:"interrupt_enabled"`
}

func (a AlarmConfig) Validate() error {
	if !mathx.Between(a.Hour, 0, 23) || !mathx.Between(a.Minute, 0, 59) {
		return &errcode.E{C: errcode.InvalidConfig, Op: "alarm_config", Msg: "trigger time out of range"}
	}
	if a.Repeat != RepeatDaily {
		return &errcode.E{C: errcode.Unsupported, Op: "alarm_config", Msg: "only daily repeat is supported"}
	}
	return nil
}
