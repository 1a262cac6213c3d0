package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"stcgauge/internal/stc3100"
)

type Config struct {
	Transport string       `yaml:"transport"` // periph | smbus
	Bus       string       `yaml:"bus"`       // periph bus name, "" = first available
	SMBusBus  int          `yaml:"smbus_bus"` // /dev/i2c-N for the smbus transport
	Calibrate bool         `yaml:"calibrate"`
	Device    DeviceConfig `yaml:"device"`
	Server    ServerConfig `yaml:"server"`
	Sample    SampleConfig `yaml:"sample"`
}

type DeviceConfig struct {
	Address       uint16 `yaml:"address"`
	Resolution    int    `yaml:"resolution"` // 0=14bit 1=13bit 2=12bit
	ShuntMilliohm int    `yaml:"shunt_milliohm"`
	Profile       string `yaml:"profile"`
	SettleMs      int    `yaml:"settle_ms"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type SampleConfig struct {
	// Interval of the background sampler, e.g. "10s". Empty disables it.
	Interval string `yaml:"interval"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Transport: "periph",
		SMBusBus:  1,
		Calibrate: true,
		Device: DeviceConfig{
			Address:       stc3100.Addr,
			Resolution:    0,
			ShuntMilliohm: 30,
			Profile:       stc3100.ProfileDatasheet.Name,
			SettleMs:      int(stc3100.MinSettle / time.Millisecond),
		},
		Server: ServerConfig{
			Port: 3000,
		},
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

// Validate checks the whole configuration, including the driver options,
// before any bus is opened. It does not mutate the configuration.
func Validate(c *Config) error {
	switch c.Transport {
	case "periph", "smbus":
	default:
		return fmt.Errorf("transport %q: want periph or smbus", c.Transport)
	}
	if c.Transport == "smbus" && c.SMBusBus < 0 {
		return fmt.Errorf("smbus_bus %d: must be >= 0", c.SMBusBus)
	}
	if c.Device.Address == 0 || c.Device.Address > 0x7F {
		return fmt.Errorf("device.address 0x%X: not a 7-bit address", c.Device.Address)
	}
	if _, ok := stc3100.ProfileByName(c.Device.Profile); !ok {
		return fmt.Errorf("device.profile %q: unknown", c.Device.Profile)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d: out of range", c.Server.Port)
	}
	if _, err := c.SampleInterval(); err != nil {
		return err
	}
	opts, err := c.Device.Opts()
	if err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("device: %w", err)
	}
	return nil
}

// SampleInterval returns the sampler period, zero when disabled.
func (c *Config) SampleInterval() (time.Duration, error) {
	if c.Sample.Interval == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Sample.Interval)
	if err != nil {
		return 0, fmt.Errorf("sample.interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("sample.interval %s: must be > 0", d)
	}
	return d, nil
}

// Opts converts the device section to driver options. Range checks are done
// by Validate.
func (d DeviceConfig) Opts() (*stc3100.Opts, error) {
	p, ok := stc3100.ProfileByName(d.Profile)
	if !ok {
		return nil, fmt.Errorf("device.profile %q: unknown", d.Profile)
	}
	if d.SettleMs < 0 {
		return nil, fmt.Errorf("device.settle_ms %d: must be >= 0", d.SettleMs)
	}
	return &stc3100.Opts{
		Addr:          d.Address,
		Resolution:    stc3100.Resolution(d.Resolution),
		ShuntMilliohm: d.ShuntMilliohm,
		Profile:       p,
		Settle:        time.Duration(d.SettleMs) * time.Millisecond,
	}, nil
}
