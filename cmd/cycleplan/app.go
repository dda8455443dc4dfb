//go:build !rp2040 && !rp2350

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli"

	"powercycle-go/bus"
	"powercycle-go/platform"
	"powercycle-go/services/config"
	"powercycle-go/services/heartbeat"
	"powercycle-go/services/rtc"
	"powercycle-go/services/scheduler"
	"powercycle-go/services/sequencer"
	"powercycle-go/types"
	"powercycle-go/x/timex"
)

var sourceFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "config, c",
		Usage: "read the cycle configuration from a TOML file",
	},
	cli.StringFlag{
		Name:  "device, d",
		Usage: "use the embedded configuration of this device",
		Value: "pico",
	},
	cli.StringFlag{
		Name:  "at",
		Usage: "RTC time as RFC3339 (default: now, UTC)",
	},
}

var planFlags = append([]cli.Flag{
	cli.IntFlag{
		Name:  "off",
		Usage: "override the off delay (seconds in timer mode, minutes in alarm mode) without validation",
	},
}, sourceFlags...)

var simFlags = append([]cli.Flag{
	cli.BoolFlag{
		Name:  "lost-power",
		Usage: "start with the RTC power-loss flag set",
	},
}, sourceFlags...)

// Execute runs the CLI with args, writing reports to w.
func Execute(args []string, w io.Writer) error {
	app := cli.App{
		Name:      "cycleplan",
		HelpName:  "cycleplan",
		Usage:     "inspect power-cycle RTC plans",
		UsageText: "cycleplan <command> [arguments...]",
		Version:   version,
		Writer:    w,
		Commands: []cli.Command{
			{
				Name:    "plan",
				Aliases: []string{"p"},
				Usage:   "print the timer or alarm configuration for the next wake-up",
				Flags:   planFlags,
				Action:  plan,
			},
			{
				Name:    "simulate",
				Aliases: []string{"s"},
				Usage:   "run one full cycle against a simulated RTC",
				Flags:   simFlags,
				Action:  simulate,
			},
		},
	}
	return app.Run(args)
}

func loadConfig(ctx *cli.Context) (types.CycleConfig, error) {
	if path := ctx.String("config"); path != "" {
		return config.LoadFile(path)
	}
	return config.Load(ctx.String("device"))
}

func rtcTime(ctx *cli.Context) (time.Time, error) {
	s := ctx.String("at")
	if s == "" {
		return time.Now().UTC().Truncate(time.Second), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at: %w", err)
	}
	return t.UTC(), nil
}

func plan(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	at, err := rtcTime(ctx)
	if err != nil {
		return err
	}
	w := ctx.App.Writer
	off := ctx.Int("off")

	switch cfg.Mode {
	case types.ModeTimer:
		delay := cfg.OffSeconds
		if off > 0 {
			delay = off
		}
		tc := scheduler.PlanCountdown(delay)
		fmt.Fprintf(w, "mode:     timer\n")
		fmt.Fprintf(w, "request:  %ds\n", delay)
		fmt.Fprintf(w, "domain:   %s\n", tc.Domain)
		fmt.Fprintf(w, "count:    %d\n", tc.Count)
		fmt.Fprintf(w, "duration: %s\n", tc.Duration())
		if tc.Duration() < time.Duration(delay)*time.Second {
			fmt.Fprintf(w, "warning:  clamped to %d counts, wakes %s early\n",
				types.MaxTimerCount, time.Duration(delay)*time.Second-tc.Duration())
		}
	case types.ModeAlarm:
		minutes := cfg.OffMinutes
		if off > 0 {
			minutes = off
		}
		ac := scheduler.PlanAlarm(types.ReadingFromTime(at), minutes)
		fmt.Fprintf(w, "mode:     alarm\n")
		fmt.Fprintf(w, "now:      %s\n", at.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "request:  %dm\n", minutes)
		fmt.Fprintf(w, "match:    %02d:%02d %s\n", ac.Hour, ac.Minute, ac.Repeat)
	default:
		return fmt.Errorf("unknown mode %q", cfg.Mode)
	}
	return nil
}

func simulate(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	at, err := rtcTime(ctx)
	if err != nil {
		return err
	}
	w := ctx.App.Writer

	clk := timex.NewFake(at)
	board, _ := platform.OpenSim(cfg, at, ctx.Bool("lost-power"), clk)
	defer board.Close()

	b := bus.NewBus(16)
	conn := b.NewConnection("cycleplan")
	events := conn.Subscribe(sequencer.TopicState)

	sched, err := scheduler.New(cfg)
	if err != nil {
		return err
	}
	p := rtc.NewPCF8563(board.I2C, cfg.RTC.Address)
	seq := sequencer.New(cfg, sequencer.Deps{
		RTC:       p,
		Scheduler: sched,
		Heartbeat: heartbeat.New(board.LED, cfg.BlinkDuration(), clk),
		Done:      board.Done,
		Clock:     clk,
		Conn:      conn,
	})
	rep, runErr := seq.Run()

	start := at.UnixMilli()
	for drained := false; !drained; {
		select {
		case m := <-events.Channel():
			ev := m.Payload.(types.StateEvent)
			fmt.Fprintf(w, "+%7dms  %s", ev.TS-start, ev.State)
			if ev.Error != "" {
				fmt.Fprintf(w, "  (%s)", ev.Error)
			}
			fmt.Fprintln(w)
		default:
			drained = true
		}
	}

	fmt.Fprintf(w, "blinks:    %d\n", rep.Blinks)
	fmt.Fprintf(w, "recovered: %v\n", rep.Recovered)
	if done, ok := board.Done.(*platform.FakePin); ok {
		if e := done.Edges(); len(e) >= 2 {
			fmt.Fprintf(w, "done:      %s high\n", e[1].At.Sub(e[0].At))
		}
	}

	snap, err := p.Snapshot()
	if err != nil {
		return err
	}
	switch {
	case snap.TimerEnabled():
		fmt.Fprintf(w, "rtc:       timer %s count %d (irq %v)\n",
			snap.TimerFreq(), snap.Timer, snap.TimerInterrupt())
	case !snap.AlarmDisabled():
		h, m, daily := snap.AlarmMatch()
		fmt.Fprintf(w, "rtc:       alarm %02d:%02d daily=%v (irq %v)\n", h, m, daily, snap.AlarmInterrupt())
	default:
		fmt.Fprintf(w, "rtc:       nothing armed\n")
	}
	return runErr
}
