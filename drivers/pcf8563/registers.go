// Package pcf8563 provides constants for register addresses and bitfields used
// in the operation of the NXP PCF8563 real-time clock.
package pcf8563

const (
	// 7-bit I2C address (1010_001b).
	AddressDefault = 0x51

	// Register sub-addresses (byte registers, auto-incrementing).
	regControl1   = 0x00
	regControl2   = 0x01
	regSeconds    = 0x02 // bit7 VL
	regMinutes    = 0x03
	regHours      = 0x04
	regDays       = 0x05
	regWeekdays   = 0x06
	regMonths     = 0x07 // bit7 century
	regYears      = 0x08
	regMinuteAlrm = 0x09 // bit7 AE_M
	regHourAlrm   = 0x0A // bit7 AE_H
	regDayAlrm    = 0x0B // bit7 AE_D
	regWdayAlrm   = 0x0C // bit7 AE_W
	regClkout     = 0x0D // bit7 FE
	regTimerCtl   = 0x0E // bit7 TE, bits1:0 TD
	regTimer      = 0x0F

	// Control_status_1
	ctl1Stop = 1 << 5

	// Control_status_2
	ctl2TITP = 1 << 4 // INT pulses instead of following TF
	ctl2AF   = 1 << 3
	ctl2TF   = 1 << 2
	ctl2AIE  = 1 << 1
	ctl2TIE  = 1 << 0

	// AF/TF are cleared by writing 0; writing 1 leaves them untouched.
	ctl2Flags = ctl2AF | ctl2TF

	secondsVL  = 1 << 7
	monthsC    = 1 << 7
	alarmAE    = 1 << 7 // set = match disabled
	clkoutFE   = 1 << 7
	timerTE    = 1 << 7
	timerTDMsk = 0x03
)

// TimerFreq is the TD source clock selection.
type TimerFreq uint8

const (
	Timer4096Hz TimerFreq = 0
	Timer64Hz   TimerFreq = 1
	Timer1Hz    TimerFreq = 2
	Timer1_60Hz TimerFreq = 3 // also the lowest-power idle setting
)

func (f TimerFreq) String() string {
	switch f {
	case Timer4096Hz:
		return "4096Hz"
	case Timer64Hz:
		return "64Hz"
	case Timer1Hz:
		return "1Hz"
	case Timer1_60Hz:
		return "1/60Hz"
	}
	return "?"
}
