package types

// ---- Power-handoff state (published on power/state) ----

// CycleState names a sequencer state.
type CycleState string

const (
	StateIdle               CycleState = "idle"
	StateClockRecoveryCheck CycleState = "clock_recovery_check"
	StateActivePhase        CycleState = "active_phase"
	StateScheduling         CycleState = "scheduling"
	StateSignalDone         CycleState = "signal_done"
	StateTerminal           CycleState = "terminal"
)

// StateEvent is emitted on every sequencer transition.
type StateEvent struct {
	State CycleState `json:"state"`
	Mode  Mode       `json:"mode"`
	TS    int64      `json:"ts_ms"`
	Error string     `json:"error,omitempty"`
}

// ArmedValue describes what the RTC was left armed with. Exactly one of
// Timer and Alarm is set.
type ArmedValue struct {
	Mode  Mode         `json:"mode"`
	Timer *TimerConfig `json:"timer,omitempty"`
	Alarm *AlarmConfig `json:"alarm,omitempty"`
	TS    int64        `json:"ts_ms"`
}
