package errcode

// Code is a stable, log-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK            Code = "ok"
	PeripheralIO  Code = "peripheral_io"
	InvalidDelay  Code = "invalid_delay"
	InvalidMode   Code = "invalid_mode"
	InvalidConfig Code = "invalid_config"
	UnknownDevice Code = "unknown_device"
	Unsupported   Code = "unsupported"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is(err, errcode.PeripheralIO) match a wrapped *E.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Of extracts a Code from an error, defaulting to Error. Wrapped and joined
// errors are searched; the first specific code found wins.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	switch x := err.(type) {
	case Code:
		return x
	case interface{ Code() Code }:
		return x.Code()
	case interface{ Unwrap() []error }:
		for _, e := range x.Unwrap() {
			if c := Of(e); c != OK && c != Error {
				return c
			}
		}
	case interface{ Unwrap() error }:
		if c := Of(x.Unwrap()); c != OK {
			return c
		}
	}
	return Error
}

// IO wraps a bus-level driver failure for operation op. nil stays nil.
func IO(op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: PeripheralIO, Op: op, Err: err}
}

// Delay reports a configuration-time delay fault.
func Delay(op, msg string) error {
	return &E{C: InvalidDelay, Op: op, Msg: msg}
}
