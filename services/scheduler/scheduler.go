// Package scheduler holds the two strategies that arm the RTC before the node
// powers down: a one-shot countdown and a daily calendar alarm.
package scheduler

import (
	"powercycle-go/errcode"
	"powercycle-go/services/rtc"
	"powercycle-go/types"
)

// Scheduler plans a wake-up and writes it to the peripheral.
type Scheduler interface {
	Mode() types.Mode
	// NeedsCalendar reports whether the plan depends on a valid clock, i.e.
	// whether power-loss recovery must run first.
	NeedsCalendar() bool
	// Arm plans and applies the configuration. The returned value describes
	// what was written.
	Arm(p rtc.Peripheral) (types.ArmedValue, error)
}

// New selects the strategy for cfg.Mode. cfg must already be validated.
func New(cfg types.CycleConfig) (Scheduler, error) {
	switch cfg.Mode {
	case types.ModeTimer:
		return Countdown{DelaySeconds: cfg.OffSeconds}, nil
	case types.ModeAlarm:
		return CalendarAlarm{DelayMinutes: cfg.OffMinutes}, nil
	}
	return nil, &errcode.E{C: errcode.InvalidMode, Op: "scheduler", Msg: string(cfg.Mode)}
}
