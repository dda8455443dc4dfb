package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw TOML bytes for that device
// -----------------------------------------------------------------------------

// Countdown variant: blink 10 s, off 15 s.
const cfgPico = `
mode = "timer"
active_seconds = 10
off_seconds = 15
blink_ms = 500
done_dwell_ms = 200
done_settle_ms = 500

[pins]
led = 25
done = 4
sda = 2
scl = 3

[rtc]
address = 0x51
frequency_khz = 100
`

// Alarm variant: blink 10 s, wake at the next minute.
const cfgPicoAlarm = `
mode = "alarm"
active_seconds = 10
off_minutes = 1
blink_ms = 500
fallback_time = 2025-01-01T00:00:00Z

[pins]
led = 25
done = 4
sda = 2
scl = 3
`

var embeddedConfigs = map[string][]byte{
	"pico":       []byte(cfgPico),
	"pico-alarm": []byte(cfgPicoAlarm),
}
