package main

import (
	"context"
	"io"
	"runtime"
	"time"

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

// device selects the embedded config; override with -ldflags "-X main.device=pico-alarm".
var device = "pico"

func printTopicWith(prefix string, t bus.Topic) {
	print(prefix)
	print(" ")
	for i := 0; i < t.Len(); i++ {
		if i > 0 {
			print("/")
		}
		switch v := t.At(i).(type) {
		case string:
			print(v)
		case int:
			print(v)
		default:
			print("?")
		}
	}
	println()
}

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, device)

	println("[main] bootstrapping bus …")
	b := bus.NewBus(8)
	cfgConn := b.NewConnection("config")
	seqConn := b.NewConnection("seq")
	uiConn := b.NewConnection("ui")

	mon := uiConn.Subscribe(bus.T("power", "#"))
	go func() {
		for m := range mon.Channel() {
			printTopicWith("[monitor] <-", m.Topic)
			if ev, ok := m.Payload.(types.StateEvent); ok && ev.Error != "" {
				println("[monitor]   error:", ev.Error)
			}
		}
	}()

	println("[main] loading config for", device, "…")
	cfg, err := config.NewConfigService().Publish(ctx, cfgConn)
	if err != nil {
		// Nothing safe to arm: stay up and report.
		for {
			println("[main] config error:", err.Error())
			time.Sleep(5 * time.Second)
		}
	}

	board, err := platform.Open(cfg)
	if err != nil {
		for {
			println("[main] board error:", err.Error())
			time.Sleep(5 * time.Second)
		}
	}
	defer board.Close()
	io.WriteString(board.Console, "powercycle: "+string(cfg.Mode)+" cycle\r\n")

	sched, err := scheduler.New(cfg)
	if err != nil {
		println("[main] scheduler error:", err.Error())
		return
	}

	clk := timex.System{}
	seq := sequencer.New(cfg, sequencer.Deps{
		RTC:       rtc.NewPCF8563(board.I2C, cfg.RTC.Address),
		Scheduler: sched,
		Heartbeat: heartbeat.New(board.LED, cfg.BlinkDuration(), clk),
		Done:      board.Done,
		Clock:     clk,
		Conn:      seqConn,
	})

	if _, err := seq.Run(); err != nil {
		println("[main] cycle finished with errors:", err.Error())
	}
	printMem()

	// Still powered: the latch did not cut us off.
	println("[main] still powered after done pulse")
	for {
		seq.Linger()
	}
}

// printMem prints a compact snapshot of TinyGo runtime memory stats.
func printMem() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	println(
		"[mem]",
		"alloc:", uint32(ms.Alloc),
		"heapInuse:", uint32(ms.HeapInuse),
		"mallocs:", uint32(ms.Mallocs),
	)
}
