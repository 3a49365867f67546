// Package config loads the poller configuration from YAML with environment
// overrides (SI72XX_SECTION_KEY).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"si72xx-go/drivers/si72xx"
	"si72xx-go/x/timex"
)

// Acquisition modes.
const (
	ModeContinuous = "continuous"
	ModeOneShot    = "oneshot"
)

type Config struct {
	Sensor  SensorConfig  `yaml:"sensor"`
	Acquire AcquireConfig `yaml:"acquire"`
	Logging LoggingConfig `yaml:"logging"`
}

// SensorConfig locates the part on the bus.
type SensorConfig struct {
	Channel  int    `yaml:"channel"`
	Address  uint16 `yaml:"address"`
	Mode     string `yaml:"mode"`
	Simulate bool   `yaml:"simulate"` // in-memory bus, no hardware
}

// AcquireConfig bounds one collection run.
type AcquireConfig struct {
	Samples        int    `yaml:"samples"`
	RateHz         uint32 `yaml:"rate_hz"` // 0 = free-run
	MaxRetries     int    `yaml:"max_retries"`
	RetryBackoffMs int    `yaml:"retry_backoff_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing file is not an error: defaults are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Default mirrors the bench setup: channel 1, address 0x30, continuous mode,
// 5000 free-running samples.
func Default() *Config {
	return &Config{
		Sensor: SensorConfig{
			Channel: si72xx.ChannelDefault,
			Address: si72xx.AddressDefault,
			Mode:    ModeContinuous,
		},
		Acquire: AcquireConfig{
			Samples:        5000,
			RetryBackoffMs: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("SI72XX_BUS_CHANNEL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SI72XX_BUS_CHANNEL: %w", err)
		}
		cfg.Sensor.Channel = n
	}
	if v := os.Getenv("SI72XX_ADDRESS"); v != "" {
		n, err := strconv.ParseUint(v, 0, 16)
		if err != nil {
			return fmt.Errorf("SI72XX_ADDRESS: %w", err)
		}
		cfg.Sensor.Address = uint16(n)
	}
	if v := os.Getenv("SI72XX_MODE"); v != "" {
		cfg.Sensor.Mode = strings.ToLower(v)
	}
	if v := os.Getenv("SI72XX_SAMPLES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SI72XX_SAMPLES: %w", err)
		}
		cfg.Acquire.Samples = n
	}
	if v := os.Getenv("SI72XX_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if c.Sensor.Channel < 0 {
		errs = append(errs, "sensor.channel must not be negative")
	}
	if c.Sensor.Address == 0 || c.Sensor.Address > 0x7F {
		errs = append(errs, "sensor.address must be a 7-bit address")
	}
	switch c.Sensor.Mode {
	case ModeContinuous, ModeOneShot:
	default:
		errs = append(errs, "sensor.mode must be continuous or oneshot")
	}
	if c.Acquire.Samples <= 0 {
		errs = append(errs, "acquire.samples must be positive")
	}
	if c.Acquire.MaxRetries < 0 {
		errs = append(errs, "acquire.max_retries must not be negative")
	}
	if c.Acquire.RetryBackoffMs < 0 {
		errs = append(errs, "acquire.retry_backoff_ms must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Interval is the pause between samples; 0 free-runs.
func (c *Config) Interval() time.Duration {
	return timex.PeriodFromHz(c.Acquire.RateHz)
}

func (c *Config) RetryBackoff() time.Duration {
	return time.Duration(c.Acquire.RetryBackoffMs) * time.Millisecond
}
