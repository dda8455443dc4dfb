package pcf8563

// SetDailyAlarm matches on hour and minute only, so the alarm fires every day
// at hh:mm until disabled. AF is cleared before the new match is loaded.
func (d *Device) SetDailyAlarm(hour, minute int, interrupt bool) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ErrInvalidAlarm
	}
	if err := d.updateControl2(ctl2AIE, 0, ctl2AF); err != nil {
		return err
	}
	d.w[0] = regMinuteAlrm
	d.w[1] = decToBCD(minute)
	d.w[2] = decToBCD(hour)
	d.w[3] = alarmAE
	d.w[4] = alarmAE
	if err := d.bus.Tx(d.Address, d.w[:5], nil); err != nil {
		return err
	}
	if !interrupt {
		return nil
	}
	return d.updateControl2(ctl2AIE, ctl2AIE, 0)
}

// DisableAlarm disables every alarm match, drops AIE, clears AF and turns the
// CLKOUT output off.
func (d *Device) DisableAlarm() error {
	if err := d.updateControl2(ctl2AIE, 0, ctl2AF); err != nil {
		return err
	}
	d.w[0] = regMinuteAlrm
	d.w[1] = alarmAE
	d.w[2] = alarmAE
	d.w[3] = alarmAE
	d.w[4] = alarmAE
	if err := d.bus.Tx(d.Address, d.w[:5], nil); err != nil {
		return err
	}
	return d.writeReg(regClkout, 0)
}
