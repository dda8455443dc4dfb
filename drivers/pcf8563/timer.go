package pcf8563

// SetTimer arms the countdown timer. The timer is stopped while the count is
// loaded and TF is cleared first, so a stale flag cannot fire immediately.
// Interrupts are configured in pulse mode. Calling it twice with the same
// arguments leaves the registers in the same state.
func (d *Device) SetTimer(freq TimerFreq, count uint8, interrupt, enable bool) error {
	if count == 0 {
		return ErrInvalidCount
	}
	td := byte(freq) & timerTDMsk
	if err := d.writeReg(regTimerCtl, td); err != nil {
		return err
	}
	if err := d.writeReg(regTimer, count); err != nil {
		return err
	}
	var set byte = ctl2TITP
	if interrupt {
		set |= ctl2TIE
	}
	if err := d.updateControl2(ctl2TITP|ctl2TIE, set, ctl2TF); err != nil {
		return err
	}
	if !enable {
		return nil
	}
	return d.writeReg(regTimerCtl, timerTE|td)
}

// DisableTimer stops the countdown, drops its interrupt enable and pulse mode
// and clears a pending TF. The source clock is parked at 1/60 Hz.
func (d *Device) DisableTimer() error {
	if err := d.writeReg(regTimerCtl, byte(Timer1_60Hz)); err != nil {
		return err
	}
	return d.updateControl2(ctl2TITP|ctl2TIE, 0, ctl2TF)
}
