package rtc

import (
	"powercycle-go/types"
)

// Fake is a Peripheral test double that records every call in order and
// returns scripted results.
type Fake struct {
	Now       types.RtcReading
	PowerLost bool

	// Calls lists method names in call order, e.g. "DisarmTimer".
	Calls []string

	Timer   *types.TimerConfig
	Alarm   *types.AlarmConfig
	Written *types.RtcReading

	// Errs, keyed by method name, are returned instead of performing the call.
	Errs map[string]error
}

func (f *Fake) record(op string) error {
	f.Calls = append(f.Calls, op)
	return f.Errs[op]
}

func (f *Fake) ReadCurrentTime() (types.RtcReading, error) {
	if err := f.record("ReadCurrentTime"); err != nil {
		return types.RtcReading{}, err
	}
	return f.Now, nil
}

func (f *Fake) ReadPowerLossFlag() (bool, error) {
	if err := f.record("ReadPowerLossFlag"); err != nil {
		return false, err
	}
	return f.PowerLost, nil
}

// WriteCurrentTime also clears PowerLost, as the chip does.
func (f *Fake) WriteCurrentTime(r types.RtcReading) error {
	if err := f.record("WriteCurrentTime"); err != nil {
		return err
	}
	f.Now = r
	f.Written = &r
	f.PowerLost = false
	return nil
}

func (f *Fake) ConfigureTimer(c types.TimerConfig) error {
	if err := f.record("ConfigureTimer"); err != nil {
		return err
	}
	f.Timer = &c
	return nil
}

func (f *Fake) ConfigureAlarm(c types.AlarmConfig) error {
	if err := f.record("ConfigureAlarm"); err != nil {
		return err
	}
	f.Alarm = &c
	return nil
}

func (f *Fake) DisarmTimer() error {
	if err := f.record("DisarmTimer"); err != nil {
		return err
	}
	f.Timer = nil
	return nil
}

func (f *Fake) DisarmAlarm() error {
	if err := f.record("DisarmAlarm"); err != nil {
		return err
	}
	f.Alarm = nil
	return nil
}

// Index returns the position of the first call to op, or -1.
func (f *Fake) Index(op string) int {
	for i, c := range f.Calls {
		if c == op {
			return i
		}
	}
	return -1
}
