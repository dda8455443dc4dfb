package pcf8563

import (
	"time"

	"powercycle-go/x/i2csim"
)

// Simulate attaches a PCF8563 register image to a simulated bus, holding time
// t. The simulated clock does not tick. When lostPower is set the VL flag is
// raised as it is after a cold start without backup supply.
func Simulate(b *i2csim.Bus, addr uint16, t time.Time, lostPower bool) *i2csim.Target {
	tg := b.Attach(addr)
	tg.AndMask[regControl2] = ctl2Flags

	tg.Regs[regSeconds] = decToBCD(t.Second())
	if lostPower {
		tg.Regs[regSeconds] |= secondsVL
	}
	tg.Regs[regMinutes] = decToBCD(t.Minute())
	tg.Regs[regHours] = decToBCD(t.Hour())
	tg.Regs[regDays] = decToBCD(t.Day())
	tg.Regs[regWeekdays] = byte(t.Weekday())
	tg.Regs[regMonths] = decToBCD(int(t.Month()))
	if t.Year() >= 2100 {
		tg.Regs[regMonths] |= monthsC
	}
	tg.Regs[regYears] = decToBCD(t.Year() % 100)

	// Power-on reset values.
	for r := regMinuteAlrm; r <= regWdayAlrm; r++ {
		tg.Regs[r] = alarmAE
	}
	tg.Regs[regClkout] = clkoutFE
	tg.Regs[regTimerCtl] = byte(Timer1_60Hz)
	return tg
}
