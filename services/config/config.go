package config

import (
	"context"
	"strings"

	"github.com/BurntSushi/toml"

	"powercycle-go/bus"
	"powercycle-go/errcode"
	"powercycle-go/types"
)

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxDeviceKey = "device" // context key used for device ID
)

// TopicCycle carries the retained, validated cycle configuration.
var TopicCycle = bus.T(configPrefix, "cycle")

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// base holds the wiring defaults a document overrides key by key, so a
// partial [pins] table keeps the board pins it does not name. Mode and delays
// stay zero and must be given.
func base() types.CycleConfig {
	d := types.DefaultCycleConfig()
	return types.CycleConfig{Pins: d.Pins, RTC: d.RTC}
}

// Decode parses a TOML document, fills optional defaults and validates the
// result. Unknown keys are rejected so that a typo cannot silently fall back
// to a default delay.
func Decode(raw []byte) (types.CycleConfig, error) {
	c := base()
	md, err := toml.Decode(string(raw), &c)
	if err != nil {
		return types.CycleConfig{}, &errcode.E{C: errcode.InvalidConfig, Op: "decode", Err: err}
	}
	return finish("decode", c, md)
}

// Load resolves the embedded document for device.
func Load(device string) (types.CycleConfig, error) {
	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return types.CycleConfig{}, &errcode.E{C: errcode.UnknownDevice, Op: "load", Msg: device}
	}
	return Decode(raw)
}

// LoadFile decodes a TOML file from disk (host tooling).
func LoadFile(path string) (types.CycleConfig, error) {
	c := base()
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return types.CycleConfig{}, &errcode.E{C: errcode.InvalidConfig, Op: "load_file", Err: err}
	}
	return finish("load_file", c, md)
}

func finish(op string, c types.CycleConfig, md toml.MetaData) (types.CycleConfig, error) {
	if und := md.Undecoded(); len(und) > 0 {
		keys := make([]string, len(und))
		for i, k := range und {
			keys[i] = k.String()
		}
		return types.CycleConfig{}, &errcode.E{C: errcode.InvalidConfig, Op: op, Msg: "unknown keys: " + strings.Join(keys, ", ")}
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return types.CycleConfig{}, err
	}
	return c, nil
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// Publish loads the config for the device named in ctx and publishes it as a
// retained message on TopicCycle. Validation happens here, before any
// sequencer is built.
func (s *ConfigService) Publish(ctx context.Context, conn *bus.Connection) (types.CycleConfig, error) {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return types.CycleConfig{}, &errcode.E{C: errcode.InvalidConfig, Op: "publish", Msg: "missing device ID in context"}
	}
	cfg, err := Load(device)
	if err != nil {
		return types.CycleConfig{}, err
	}
	conn.Publish(conn.NewMessage(TopicCycle, cfg, true))
	return cfg, nil
}
