//go:build !rp2040 && !rp2350

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := Execute(append([]string{"cycleplan"}, args...), &out)
	return out.String(), err
}

func mustContain(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Fatalf("output missing %q:\n%s", w, out)
		}
	}
}

func TestPlanTimerFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cycle.toml")
	if err := os.WriteFile(path, []byte("mode = \"timer\"\noff_seconds = 400\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "plan", "-c", path)
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out, "domain:   1/60Hz", "count:    7", "duration: 7m0s")
	if strings.Contains(out, "warning") {
		t.Fatalf("unexpected clamp warning:\n%s", out)
	}
}

func TestPlanReportsClamp(t *testing.T) {
	out, err := run(t, "plan", "--off", "20000")
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out, "count:    255", "warning:  clamped to 255 counts")
}

func TestPlanAlarmRollsOver(t *testing.T) {
	out, err := run(t, "plan", "-d", "pico-alarm", "--at", "2024-06-03T23:58:00Z", "--off", "5")
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out, "match:    00:03 daily")
}

func TestSimulateTimer(t *testing.T) {
	out, err := run(t, "simulate", "--at", "2024-06-03T12:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out,
		"idle", "active_phase", "terminal",
		"blinks:    10",
		"done:      200ms high",
		"rtc:       timer 1Hz count 15 (irq true)",
	)
}

func TestSimulateAlarmLostPower(t *testing.T) {
	out, err := run(t, "simulate", "-d", "pico-alarm", "--lost-power", "--at", "2024-06-03T12:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	mustContain(t, out, "recovered: true", "rtc:       alarm 00:01 daily=true (irq true)")
}

func TestUnknownDevice(t *testing.T) {
	if _, err := run(t, "plan", "-d", "nope"); err == nil {
		t.Fatal("expected error")
	}
}

func TestBadTime(t *testing.T) {
	if _, err := run(t, "plan", "-d", "pico-alarm", "--at", "noon"); err == nil {
		t.Fatal("expected error")
	}
}
