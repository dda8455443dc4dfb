package scheduler

import (
	"powercycle-go/services/rtc"
	"powercycle-go/types"
	"powercycle-go/x/mathx"
	"powercycle-go/x/timex"
)

// PlanCountdown picks the frequency domain and count for delaySeconds.
//
// Below 256 s the 1 Hz domain is exact. Above it the 1/60 Hz domain is used
// with the smallest count covering the delay, so the node never wakes early.
// Counts are capped at 255: delays beyond 15300 s are under-covered.
// Delays below 1 s are treated as 1 s. At exact multiples of 60 s the count is
// one lower than the reference firmware's secs/60+1 (300 s gives 5, not 6).
func PlanCountdown(delaySeconds int) types.TimerConfig {
	delaySeconds = mathx.Max(delaySeconds, 1)
	c := types.TimerConfig{InterruptEnabled: true, TimerEnabled: true}
	if delaySeconds <= types.MaxTimerCount {
		c.Domain = types.Freq1Hz
		c.Count = uint8(delaySeconds)
		return c
	}
	c.Domain = types.FreqOneSixtiethHz
	c.Count = uint8(mathx.Clamp(mathx.CeilDiv(delaySeconds, 60), 1, types.MaxTimerCount))
	return c
}

// Countdown arms the RTC countdown timer.
type Countdown struct {
	DelaySeconds int
}

func (Countdown) Mode() types.Mode    { return types.ModeTimer }
func (Countdown) NeedsCalendar() bool { return false }

func (c Countdown) Arm(p rtc.Peripheral) (types.ArmedValue, error) {
	cfg := PlanCountdown(c.DelaySeconds)
	if err := p.ConfigureTimer(cfg); err != nil {
		return types.ArmedValue{}, err
	}
	return types.ArmedValue{Mode: types.ModeTimer, Timer: &cfg, TS: timex.NowMs()}, nil
}
