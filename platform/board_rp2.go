//go:build rp2040 || rp2350

package platform

import (
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"powercycle-go/errcode"
	"powercycle-go/types"
)

const consoleBaud = 115200

// Open configures the RTC bus, the LED and DONE outputs and the UART0 console
// from cfg. RP2 GP numbering applies to every pin.
func Open(cfg types.CycleConfig) (*Board, error) {
	if err := cfg.Pins.Validate(); err != nil {
		return nil, err
	}

	// GP0/1 -> I2C0, GP2/3 -> I2C1, GP4/5 -> I2C0 and so on.
	i2c := machine.I2C0
	if (cfg.Pins.SDA/2)%2 == 1 {
		i2c = machine.I2C1
	}
	sda, scl := machine.Pin(cfg.Pins.SDA), machine.Pin(cfg.Pins.SCL)
	if err := i2c.Configure(machine.I2CConfig{
		Frequency: cfg.RTC.FrequencyKHz * machine.KHz,
		SDA:       sda,
		SCL:       scl,
	}); err != nil {
		return nil, errcode.IO("i2c_configure", err)
	}

	led := &rp2Pin{p: machine.Pin(cfg.Pins.LED), n: cfg.Pins.LED}
	done := &rp2Pin{p: machine.Pin(cfg.Pins.Done), n: cfg.Pins.Done}
	_ = led.ConfigureOutput(false)
	_ = done.ConfigureOutput(false)

	con := uartx.UART0
	_ = con.Configure(uartx.UARTConfig{
		BaudRate: consoleBaud,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})

	return &Board{
		I2C:     i2c,
		LED:     led,
		Done:    done,
		Console: con,
		release: func() error {
			led.Set(false)
			done.Set(false)
			// Let the bus lines float so the RTC keeps them.
			sda.Configure(machine.PinConfig{Mode: machine.PinInput})
			scl.Configure(machine.PinConfig{Mode: machine.PinInput})
			return nil
		},
	}, nil
}

type rp2Pin struct {
	p machine.Pin
	n int
}

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2Pin) Set(level bool) { r.p.Set(level) }
func (r *rp2Pin) Get() bool      { return r.p.Get() }
func (r *rp2Pin) Number() int    { return r.n }
