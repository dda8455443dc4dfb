// Package sequencer runs one power cycle: clear stale wake sources, recover
// the clock if needed, run the active phase, arm the next wake-up and ask the
// external latch to cut power.
package sequencer

import (
	"errors"
	"time"

	"powercycle-go/bus"
	"powercycle-go/services/heartbeat"
	"powercycle-go/services/rtc"
	"powercycle-go/services/scheduler"
	"powercycle-go/types"
	"powercycle-go/x/timex"
)

var (
	TopicState = bus.T("power", "state")
	TopicArmed = bus.T("power", "armed")
)

// Post-handoff fallback timing.
const (
	lingerBlinks = 4
	lingerWait   = 2 * time.Second
)

// Output is the DONE line.
type Output interface {
	Set(level bool)
}

// Deps are the collaborators of one cycle. Conn is optional.
type Deps struct {
	RTC       rtc.Peripheral
	Scheduler scheduler.Scheduler
	Heartbeat *heartbeat.Service
	Done      Output
	Clock     timex.Clock
	Conn      *bus.Connection
}

// Report summarises a finished cycle.
type Report struct {
	States    []types.CycleState
	Mode      types.Mode
	Recovered bool // fallback time was written
	Blinks    int
	Armed     *types.ArmedValue

	DisarmErr   error
	RecoveryErr error
	ScheduleErr error
}

// Err joins every fault recorded during the cycle.
func (r Report) Err() error {
	return errors.Join(r.DisarmErr, r.RecoveryErr, r.ScheduleErr)
}

type Sequencer struct {
	cfg   types.CycleConfig
	d     Deps
	state types.CycleState
	ran   bool
}

// New builds a sequencer for a validated cfg.
func New(cfg types.CycleConfig, d Deps) *Sequencer {
	return &Sequencer{cfg: cfg, d: d, state: types.StateIdle}
}

// State returns the current state.
func (s *Sequencer) State() types.CycleState { return s.state }

// Run executes the cycle once and ends in Terminal. Faults do not stop the
// cycle and the done pulse is always sent.
func (s *Sequencer) Run() (Report, error) {
	rep := Report{Mode: s.d.Scheduler.Mode()}
	if s.ran {
		return rep, errors.New("sequencer: already run")
	}
	s.ran = true

	start := s.d.Clock.Now()
	s.enter(&rep, types.StateIdle, nil)

	// Stale TF/AF would otherwise fire as soon as the new config is written.
	rep.DisarmErr = errors.Join(s.d.RTC.DisarmTimer(), s.d.RTC.DisarmAlarm())
	if rep.DisarmErr != nil {
		println("[seq] disarm failed:", rep.DisarmErr.Error())
	}

	s.enter(&rep, types.StateClockRecoveryCheck, rep.DisarmErr)
	if s.d.Scheduler.NeedsCalendar() {
		rep.Recovered, rep.RecoveryErr = s.recoverClock()
		if rep.RecoveryErr != nil {
			println("[seq] clock recovery failed:", rep.RecoveryErr.Error())
		}
	}

	s.enter(&rep, types.StateActivePhase, rep.RecoveryErr)
	rep.Blinks = s.d.Heartbeat.RunUntil(start.Add(s.cfg.ActiveDuration()))

	s.enter(&rep, types.StateScheduling, nil)
	if rep.RecoveryErr != nil {
		// An alarm planned from an unknown clock would fire at a random time.
		rep.ScheduleErr = errors.New("scheduling skipped: clock not recovered")
	} else {
		armed, err := s.d.Scheduler.Arm(s.d.RTC)
		if err != nil {
			rep.ScheduleErr = err
		} else {
			rep.Armed = &armed
			s.publish(TopicArmed, armed, true)
			logArmed(armed)
		}
	}
	if rep.ScheduleErr != nil {
		println("[seq] scheduling failed:", rep.ScheduleErr.Error())
	}

	s.enter(&rep, types.StateSignalDone, rep.ScheduleErr)
	s.pulseDone()

	s.enter(&rep, types.StateTerminal, nil)
	return rep, rep.Err()
}

// Linger is the fallback after the done pulse: the node is still powered, so
// the latch did not act. Blinks fast then waits; callers loop on it.
func (s *Sequencer) Linger() {
	s.d.Heartbeat.Blink(s.cfg.BlinkDuration()/3, lingerBlinks)
	s.d.Clock.Sleep(lingerWait)
}

func (s *Sequencer) recoverClock() (bool, error) {
	lost, err := s.d.RTC.ReadPowerLossFlag()
	if err != nil {
		return false, err
	}
	if !lost {
		return false, nil
	}
	println("[seq] rtc lost power, writing fallback time")
	if err := s.d.RTC.WriteCurrentTime(s.cfg.Fallback()); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Sequencer) pulseDone() {
	println("[seq] done pulse")
	s.d.Done.Set(true)
	s.d.Clock.Sleep(s.cfg.DoneDwell())
	s.d.Done.Set(false)
	s.d.Clock.Sleep(s.cfg.DoneSettle())
}

func (s *Sequencer) enter(rep *Report, st types.CycleState, cause error) {
	s.state = st
	rep.States = append(rep.States, st)
	println("[seq] state:", string(st))
	ev := types.StateEvent{State: st, Mode: rep.Mode, TS: s.d.Clock.Now().UnixMilli()}
	if cause != nil {
		ev.Error = cause.Error()
	}
	s.publish(TopicState, ev, false)
}

func (s *Sequencer) publish(t bus.Topic, payload any, retained bool) {
	if s.d.Conn == nil {
		return
	}
	s.d.Conn.Publish(s.d.Conn.NewMessage(t, payload, retained))
}

func logArmed(a types.ArmedValue) {
	switch {
	case a.Timer != nil:
		println("[seq] timer armed:", a.Timer.Domain.String(), "count", int(a.Timer.Count))
	case a.Alarm != nil:
		println("[seq] alarm armed: daily at", a.Alarm.Hour, ":", a.Alarm.Minute)
	}
}
