// si72xx-poll brings up a Si72xx magnetic sensor on the configured I2C channel,
// collects a fixed number of samples and reports the achieved rate.
//
// Configuration comes from the YAML file named by SI72XX_CONFIG (default
// configs/si72xx.yaml) with SI72XX_* environment overrides.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"si72xx-go/drivers/si72xx"
	"si72xx-go/errcode"
	"si72xx-go/internal/acquire"
	"si72xx-go/internal/config"
	"si72xx-go/internal/logging"
	"si72xx-go/internal/platform"
	"si72xx-go/x/strx"
)

// Set at build time via -ldflags "-X main.version=...".
var version = "dev"

const defaultConfigPath = "configs/si72xx.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		logging.Default().Error("si72xx-poll failed", "code", errcode.Of(err), "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(strx.Coalesce(os.Getenv("SI72XX_CONFIG"), defaultConfigPath))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log := logging.New(cfg.Logging, version)

	dev, err := si72xx.Open(platform.Opener(cfg.Sensor.Simulate), cfg.Sensor.Channel, cfg.Sensor.Address)
	if err != nil {
		return fmt.Errorf("opening sensor: %w", err)
	}
	defer func() {
		if err := dev.Close(); err != nil {
			log.Warn("closing sensor", "error", err)
		}
	}()

	oneShot := cfg.Sensor.Mode == config.ModeOneShot
	if oneShot {
		err = dev.ConfigureOneShot()
	} else {
		err = dev.ConfigureContinuous()
	}
	if err != nil {
		return fmt.Errorf("configuring sensor: %w", err)
	}
	log.Info("sensor ready",
		"channel", cfg.Sensor.Channel,
		"address", fmt.Sprintf("0x%02X", dev.Address()),
		"mode", cfg.Sensor.Mode,
		"simulate", cfg.Sensor.Simulate,
	)
	if rev, err := dev.Revision(); err == nil {
		log.Debug("hardware revision", "hrevid", rev)
	}

	c := acquire.New(acquire.Config{
		Samples:      cfg.Acquire.Samples,
		Interval:     cfg.Interval(),
		OneShot:      oneShot,
		MaxRetries:   cfg.Acquire.MaxRetries,
		RetryBackoff: cfg.RetryBackoff(),
	}, log)

	samples := make([]si72xx.Sample, 0, cfg.Acquire.Samples)
	samples, res, err := c.Run(ctx, dev, samples)
	log.Info("collection finished",
		"samples", len(samples),
		"retries", res.Retries,
		"elapsed", res.Elapsed,
		"rate_hz", res.RateHz(),
	)
	if err != nil {
		return fmt.Errorf("collecting samples (%s): %w", errcode.Of(err), err)
	}
	if len(samples) > 0 {
		last := samples[len(samples)-1]
		log.Info("last sample", "raw", uint16(last), "nT", last.NanoTesla())
	}

	if t, err := dev.ReadTemperature(); err != nil {
		log.Warn("temperature read failed", "code", errcode.Of(err), "error", err)
	} else if !t.Valid() {
		log.Warn("temperature conversion not flagged complete", "raw", t.Raw())
	} else {
		log.Info("die temperature", "celsius", t.Celsius())
	}
	return nil
}
