// Package rtc is the capability surface the schedulers and the power-handoff
// sequencer need from the real-time clock, independent of bus protocol.
package rtc

import (
	"powercycle-go/types"
)

// Peripheral is implemented by every RTC backend. Every method returns an
// errcode.PeripheralIO error when the bus transaction fails.
type Peripheral interface {
	ReadCurrentTime() (types.RtcReading, error)
	ReadPowerLossFlag() (bool, error)
	// WriteCurrentTime sets the clock. Only used for power-loss recovery.
	WriteCurrentTime(types.RtcReading) error

	// ConfigureTimer and ConfigureAlarm are idempotent.
	ConfigureTimer(types.TimerConfig) error
	ConfigureAlarm(types.AlarmConfig) error

	// DisarmTimer and DisarmAlarm clear enables and pending flags; call them
	// before reconfiguring so a stale flag cannot trigger immediately.
	DisarmTimer() error
	DisarmAlarm() error
}
