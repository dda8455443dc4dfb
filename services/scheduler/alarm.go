package scheduler

import (
	"time"

	"powercycle-go/services/rtc"
	"powercycle-go/types"
	"powercycle-go/x/timex"
)

// PlanAlarm returns the hour:minute that lies delayMinutes after reading.
// Calendar arithmetic handles hour, day, month, year and leap-day rollover.
//
// The alarm repeats daily: it also fires at the same hour:minute on every
// later day until disarmed. That is the chip's hour+minute match mode and is
// kept as-is.
func PlanAlarm(reading types.RtcReading, delayMinutes int) types.AlarmConfig {
	at := reading.Time().Add(time.Duration(delayMinutes) * time.Minute)
	return types.AlarmConfig{
		Hour:             at.Hour(),
		Minute:           at.Minute(),
		Repeat:           types.RepeatDaily,
		InterruptEnabled: true,
	}
}

// CalendarAlarm arms a daily alarm relative to the RTC's current time.
type CalendarAlarm struct {
	DelayMinutes int
}

func (CalendarAlarm) Mode() types.Mode    { return types.ModeAlarm }
func (CalendarAlarm) NeedsCalendar() bool { return true }

func (a CalendarAlarm) Arm(p rtc.Peripheral) (types.ArmedValue, error) {
	now, err := p.ReadCurrentTime()
	if err != nil {
		return types.ArmedValue{}, err
	}
	cfg := PlanAlarm(now, a.DelayMinutes)
	if err := p.ConfigureAlarm(cfg); err != nil {
		return types.ArmedValue{}, err
	}
	return types.ArmedValue{Mode: types.ModeAlarm, Alarm: &cfg, TS: timex.NowMs()}, nil
}
