package sequencer

import (
	"errors"
	"testing"
	"time"

	"powercycle-go/bus"
	"powercycle-go/errcode"
	"powercycle-go/platform"
	"powercycle-go/services/heartbeat"
	"powercycle-go/services/rtc"
	"powercycle-go/services/scheduler"
	"powercycle-go/types"
	"powercycle-go/x/timex"
)

var t0 = time.Date(2024, 6, 3, 13, 5, 20, 0, time.UTC)

type rig struct {
	cfg  types.CycleConfig
	clk  *timex.Fake
	rtc  *rtc.Fake
	led  *platform.FakePin
	done *platform.FakePin
	seq  *Sequencer
}

func newRig(t *testing.T, cfg types.CycleConfig, p *rtc.Fake, conn *bus.Connection) *rig {
	t.Helper()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}
	sched, err := scheduler.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	clk := timex.NewFake(t0)
	led := platform.NewFakePin(cfg.Pins.LED, clk)
	done := platform.NewFakePin(cfg.Pins.Done, clk)
	seq := New(cfg, Deps{
		RTC:       p,
		Scheduler: sched,
		Heartbeat: heartbeat.New(led, cfg.BlinkDuration(), clk),
		Done:      done,
		Clock:     clk,
		Conn:      conn,
	})
	return &rig{cfg: cfg, clk: clk, rtc: p, led: led, done: done, seq: seq}
}

func timerCfg(off int) types.CycleConfig {
	c := types.DefaultCycleConfig()
	c.OffSeconds = off
	return c
}

func alarmCfg(minutes int) types.CycleConfig {
	c := types.DefaultCycleConfig()
	c.Mode = types.ModeAlarm
	c.OffMinutes = minutes
	return c
}

// donePulse returns the width of the single done pulse.
func donePulse(t *testing.T, p *platform.FakePin) (time.Time, time.Duration) {
	t.Helper()
	e := p.Edges()
	if len(e) != 2 || !e[0].Level || e[1].Level {
		t.Fatalf("done edges = %+v", e)
	}
	return e[0].At, e[1].At.Sub(e[0].At)
}

func TestTimerScenario(t *testing.T) {
	r := newRig(t, timerCfg(15), &rtc.Fake{Now: types.ReadingFromTime(t0)}, nil)

	rep, err := r.seq.Run()
	if err != nil {
		t.Fatal(err)
	}
	if rep.Blinks != 10 {
		t.Fatalf("blinks = %d, want 10", rep.Blinks)
	}
	want := types.TimerConfig{Domain: types.Freq1Hz, Count: 15, InterruptEnabled: true, TimerEnabled: true}
	if r.rtc.Timer == nil || *r.rtc.Timer != want {
		t.Fatalf("timer = %+v", r.rtc.Timer)
	}
	if rep.Armed == nil || rep.Armed.Timer == nil || *rep.Armed.Timer != want {
		t.Fatalf("armed = %+v", rep.Armed)
	}

	at, width := donePulse(t, r.done)
	if width < 150*time.Millisecond || width != r.cfg.DoneDwell() {
		t.Fatalf("done width = %v", width)
	}
	if at.Before(t0.Add(10 * time.Second)) {
		t.Fatalf("done asserted at %v, before the active phase ended", at)
	}
	if r.rtc.Index("ReadPowerLossFlag") != -1 {
		t.Fatal("timer mode must not run clock recovery")
	}
	if r.seq.State() != types.StateTerminal {
		t.Fatalf("state = %s", r.seq.State())
	}
}

func TestTimerLongDelay(t *testing.T) {
	r := newRig(t, timerCfg(400), &rtc.Fake{}, nil)
	if _, err := r.seq.Run(); err != nil {
		t.Fatal(err)
	}
	want := types.TimerConfig{Domain: types.FreqOneSixtiethHz, Count: 7, InterruptEnabled: true, TimerEnabled: true}
	if *r.rtc.Timer != want {
		t.Fatalf("timer = %+v", *r.rtc.Timer)
	}
}

func TestAlarmScenario(t *testing.T) {
	r := newRig(t, alarmCfg(1), &rtc.Fake{Now: types.ReadingFromTime(t0)}, nil)
	if _, err := r.seq.Run(); err != nil {
		t.Fatal(err)
	}
	want := types.AlarmConfig{Hour: 13, Minute: 6, Repeat: types.RepeatDaily, InterruptEnabled: true}
	if r.rtc.Alarm == nil || *r.rtc.Alarm != want {
		t.Fatalf("alarm = %+v", r.rtc.Alarm)
	}
	if r.rtc.Written != nil {
		t.Fatal("clock written without power loss")
	}
}

func TestAlarmPowerLossRecovery(t *testing.T) {
	p := &rtc.Fake{Now: types.ReadingFromTime(time.Date(2000, 1, 1, 0, 0, 3, 0, time.UTC)), PowerLost: true}
	r := newRig(t, alarmCfg(1), p, nil)

	rep, err := r.seq.Run()
	if err != nil {
		t.Fatal(err)
	}
	if !rep.Recovered || p.Written == nil || *p.Written != r.cfg.Fallback() {
		t.Fatalf("recovered=%v written=%+v", rep.Recovered, p.Written)
	}
	w, rd := p.Index("WriteCurrentTime"), p.Index("ReadCurrentTime")
	if w < 0 || rd < 0 || w > rd {
		t.Fatalf("write must precede read: %v", p.Calls)
	}
	// Planned from the fallback time, 2025-01-01 00:00.
	if p.Alarm.Hour != 0 || p.Alarm.Minute != 1 {
		t.Fatalf("alarm = %+v", *p.Alarm)
	}
}

func TestDisarmBeforeConfigure(t *testing.T) {
	for _, cfg := range []types.CycleConfig{timerCfg(30), alarmCfg(5)} {
		p := &rtc.Fake{Now: types.ReadingFromTime(t0)}
		r := newRig(t, cfg, p, nil)
		if _, err := r.seq.Run(); err != nil {
			t.Fatal(err)
		}
		dt, da := p.Index("DisarmTimer"), p.Index("DisarmAlarm")
		ct, ca := p.Index("ConfigureTimer"), p.Index("ConfigureAlarm")
		configured := ct
		if cfg.Mode == types.ModeAlarm {
			configured = ca
		}
		if dt < 0 || da < 0 || configured < 0 {
			t.Fatalf("%s: calls %v", cfg.Mode, p.Calls)
		}
		if configured < dt || configured < da {
			t.Fatalf("%s: configured before disarm: %v", cfg.Mode, p.Calls)
		}
	}
}

func TestDisarmFaultContinues(t *testing.T) {
	p := &rtc.Fake{Errs: map[string]error{
		"DisarmTimer": errcode.IO("disarm_timer", errors.New("nack")),
	}}
	r := newRig(t, timerCfg(15), p, nil)

	rep, err := r.seq.Run()
	if !errors.Is(err, errcode.PeripheralIO) || rep.DisarmErr == nil {
		t.Fatalf("err = %v", err)
	}
	if p.Index("DisarmAlarm") < 0 {
		t.Fatal("DisarmAlarm skipped after DisarmTimer failed")
	}
	if p.Timer == nil || rep.Armed == nil {
		t.Fatal("timer not armed after disarm fault")
	}
	donePulse(t, r.done)
}

func TestRecoveryFaultSkipsScheduling(t *testing.T) {
	p := &rtc.Fake{Errs: map[string]error{
		"ReadPowerLossFlag": errcode.IO("read_power_loss", errors.New("timeout")),
	}}
	r := newRig(t, alarmCfg(1), p, nil)

	rep, err := r.seq.Run()
	if !errors.Is(err, errcode.PeripheralIO) {
		t.Fatalf("err = %v", err)
	}
	if rep.Blinks == 0 {
		t.Fatal("active phase skipped")
	}
	if p.Index("ConfigureAlarm") >= 0 || rep.Armed != nil || rep.ScheduleErr == nil {
		t.Fatalf("scheduled on an unrecovered clock: %v", p.Calls)
	}
	donePulse(t, r.done)
}

func TestScheduleFaultStillPulsesDone(t *testing.T) {
	p := &rtc.Fake{Errs: map[string]error{
		"ConfigureTimer": errcode.IO("configure_timer", errors.New("nack")),
	}}
	r := newRig(t, timerCfg(15), p, nil)

	rep, err := r.seq.Run()
	if errcode.Of(err) != errcode.PeripheralIO || rep.Armed != nil {
		t.Fatalf("err = %v armed = %+v", err, rep.Armed)
	}
	if _, w := donePulse(t, r.done); w < 150*time.Millisecond {
		t.Fatalf("degraded done pulse %v", w)
	}
	if rep.States[len(rep.States)-1] != types.StateTerminal {
		t.Fatalf("states = %v", rep.States)
	}
}

func TestStatesPublished(t *testing.T) {
	b := bus.NewBus(16)
	conn := b.NewConnection("test-seq")
	sub := conn.Subscribe(bus.T("power", "state"))

	r := newRig(t, timerCfg(15), &rtc.Fake{}, conn)
	rep, err := r.seq.Run()
	if err != nil {
		t.Fatal(err)
	}

	want := []types.CycleState{
		types.StateIdle, types.StateClockRecoveryCheck, types.StateActivePhase,
		types.StateScheduling, types.StateSignalDone, types.StateTerminal,
	}
	if len(rep.States) != len(want) {
		t.Fatalf("states = %v", rep.States)
	}
	for i, st := range want {
		if rep.States[i] != st {
			t.Fatalf("states = %v", rep.States)
		}
		select {
		case m := <-sub.Channel():
			ev := m.Payload.(types.StateEvent)
			if ev.State != st || ev.Mode != types.ModeTimer {
				t.Fatalf("event %d = %+v", i, ev)
			}
		case <-time.After(200 * time.Millisecond):
			t.Fatalf("missing event for %s", st)
		}
	}

	armed := conn.Subscribe(bus.T("power", "armed"))
	select {
	case m := <-armed.Channel():
		if v := m.Payload.(types.ArmedValue); v.Timer == nil || v.Timer.Count != 15 {
			t.Fatalf("armed = %+v", v)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("armed value not retained")
	}
}

func TestLingerReachable(t *testing.T) {
	r := newRig(t, timerCfg(15), &rtc.Fake{}, nil)
	if _, err := r.seq.Run(); err != nil {
		t.Fatal(err)
	}
	rises := r.led.Rises()
	calls := len(r.rtc.Calls)
	before := r.clk.Slept()

	r.seq.Linger()

	if r.led.Rises()-rises != 4 {
		t.Fatalf("linger blinks = %d", r.led.Rises()-rises)
	}
	want := 8*(r.cfg.BlinkDuration()/3) + 2*time.Second
	if got := r.clk.Slept() - before; got != want {
		t.Fatalf("linger took %v, want %v", got, want)
	}
	// Harmless: no further RTC traffic and no second done pulse.
	if len(r.rtc.Calls) != calls || r.done.Rises() != 1 {
		t.Fatalf("linger touched the rtc or done line")
	}
}

func TestRunOnce(t *testing.T) {
	r := newRig(t, timerCfg(15), &rtc.Fake{}, nil)
	if _, err := r.seq.Run(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.seq.Run(); err == nil {
		t.Fatal("second Run succeeded")
	}
}

// Full stack against the simulated chip.
func TestAlarmOnSimulatedChip(t *testing.T) {
	cfg := alarmCfg(1)
	clk := timex.NewFake(t0)
	board, sim := platform.OpenSim(cfg, t0, true, clk)
	defer board.Close()

	p := rtc.NewPCF8563(board.I2C, cfg.RTC.Address)
	sched, _ := scheduler.New(cfg)
	seq := New(cfg, Deps{
		RTC:       p,
		Scheduler: sched,
		Heartbeat: heartbeat.New(board.LED, cfg.BlinkDuration(), clk),
		Done:      board.Done,
		Clock:     clk,
	})
	rep, err := seq.Run()
	if err != nil {
		t.Fatal(err)
	}
	if !rep.Recovered {
		t.Fatal("power loss not recovered")
	}
	lost, err := p.ReadPowerLossFlag()
	if err != nil || lost {
		t.Fatalf("VL still set: %v %v", lost, err)
	}
	snap, err := p.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	h, m, daily := snap.AlarmMatch()
	if h != 0 || m != 1 || !daily || !snap.AlarmInterrupt() {
		t.Fatalf("alarm %02d:%02d daily=%v aie=%v", h, m, daily, snap.AlarmInterrupt())
	}
	if snap.TimerEnabled() || snap.TimerInterrupt() {
		t.Fatal("timer left armed")
	}
	if sim.Writes() == 0 {
		t.Fatal("no bus writes")
	}
}
