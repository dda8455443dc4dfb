package pcf8563

// Snapshot is a raw copy of the control, alarm and timer registers.
type Snapshot struct {
	Control1 byte
	Control2 byte
	Alarm    [4]byte // minute, hour, day, weekday
	Clkout   byte
	TimerCtl byte
	Timer    byte
}

// Snapshot reads 0x00..0x01 and 0x09..0x0F.
func (d *Device) Snapshot() (Snapshot, error) {
	var s Snapshot
	d.w[0] = regControl1
	if err := d.bus.Tx(d.Address, d.w[:1], d.r[:2]); err != nil {
		return s, err
	}
	s.Control1, s.Control2 = d.r[0], d.r[1]

	d.w[0] = regMinuteAlrm
	if err := d.bus.Tx(d.Address, d.w[:1], d.r[:7]); err != nil {
		return s, err
	}
	copy(s.Alarm[:], d.r[:4])
	s.Clkout, s.TimerCtl, s.Timer = d.r[4], d.r[5], d.r[6]
	return s, nil
}

func (s Snapshot) TimerEnabled() bool    { return s.TimerCtl&timerTE != 0 }
func (s Snapshot) TimerFreq() TimerFreq  { return TimerFreq(s.TimerCtl & timerTDMsk) }
func (s Snapshot) TimerInterrupt() bool  { return s.Control2&ctl2TIE != 0 }
func (s Snapshot) TimerPulsed() bool     { return s.Control2&ctl2TITP != 0 }
func (s Snapshot) TimerFlag() bool       { return s.Control2&ctl2TF != 0 }
func (s Snapshot) AlarmInterrupt() bool  { return s.Control2&ctl2AIE != 0 }
func (s Snapshot) AlarmFlag() bool       { return s.Control2&ctl2AF != 0 }
func (s Snapshot) ClockOutEnabled() bool { return s.Clkout&clkoutFE != 0 }

// AlarmMatch returns the enabled hour:minute match, if the alarm is daily.
func (s Snapshot) AlarmMatch() (hour, minute int, daily bool) {
	minEn := s.Alarm[0]&alarmAE == 0
	hourEn := s.Alarm[1]&alarmAE == 0
	dayOff := s.Alarm[2]&alarmAE != 0 && s.Alarm[3]&alarmAE != 0
	if !minEn || !hourEn || !dayOff {
		return 0, 0, false
	}
	return bcdToDec(s.Alarm[1] & 0x3F), bcdToDec(s.Alarm[0] & 0x7F), true
}

// AlarmDisabled reports that no alarm match register is enabled.
func (s Snapshot) AlarmDisabled() bool {
	for _, a := range s.Alarm {
		if a&alarmAE == 0 {
			return false
		}
	}
	return true
}
