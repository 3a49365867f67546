// Package acquire runs a bounded collection of Si72xx samples into a
// caller-owned slice. Retry and pacing policy lives here; the driver never
// retries.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"time"

	"si72xx-go/drivers/si72xx"
	"si72xx-go/errcode"
	"si72xx-go/internal/logging"
	"si72xx-go/x/timex"
)

// Source is the part of *si72xx.Device the loop drives.
type Source interface {
	ReadSample() (si72xx.Sample, error)
	ReadSampleOneShot() (si72xx.Sample, error)
}

type Config struct {
	Samples      int
	Interval     time.Duration // 0 free-runs
	OneShot      bool          // use ReadSampleOneShot
	MaxRetries   int           // extra attempts per sample
	RetryBackoff time.Duration
}

// Result summarizes one Run.
type Result struct {
	Samples int
	Retries int
	Elapsed time.Duration
}

// RateHz is the achieved sample rate.
func (r Result) RateHz() float64 { return timex.RateHz(r.Samples, r.Elapsed) }

type Collector struct {
	cfg Config
	log *logging.Logger
}

func New(cfg Config, log *logging.Logger) *Collector {
	if cfg.Samples <= 0 {
		cfg.Samples = 1
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff < 0 {
		cfg.RetryBackoff = 0
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Collector{cfg: cfg, log: log.With("component", "acquire")}
}

// Run appends exactly cfg.Samples readings to out and returns the grown
// slice. On error or cancellation the samples gathered so far are still
// returned alongside the error.
func (c *Collector) Run(ctx context.Context, src Source, out []si72xx.Sample) ([]si72xx.Sample, Result, error) {
	read := src.ReadSample
	if c.cfg.OneShot {
		read = src.ReadSampleOneShot
	}

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		timex.DrainTimer(timer)
	}
	defer timer.Stop()

	var res Result
	start := time.Now()
	finish := func(err error) ([]si72xx.Sample, Result, error) {
		res.Elapsed = time.Since(start)
		return out, res, err
	}

	for n := 0; n < c.cfg.Samples; n++ {
		if c.cfg.Interval > 0 && n > 0 {
			due := start.Add(time.Duration(n) * c.cfg.Interval)
			if err := sleep(ctx, timer, time.Until(due)); err != nil {
				return finish(err)
			}
		} else if err := ctx.Err(); err != nil {
			return finish(err)
		}

		s, err := c.readOne(ctx, timer, read, &res)
		if err != nil {
			c.log.Error("sample failed", "index", n, "code", errcode.Of(err), "error", err)
			return finish(fmt.Errorf("sample %d: %w", n, err))
		}
		out = append(out, s)
		res.Samples++
	}

	out, res, _ = finish(nil)
	c.log.Debug("collection done", "samples", res.Samples, "retries", res.Retries, "elapsed", res.Elapsed)
	return out, res, nil
}

func (c *Collector) readOne(ctx context.Context, timer *time.Timer, read func() (si72xx.Sample, error), res *Result) (si72xx.Sample, error) {
	for attempt := 0; ; attempt++ {
		s, err := read()
		if err == nil {
			return s, nil
		}
		if attempt >= c.cfg.MaxRetries || errors.Is(err, si72xx.ErrClosed) {
			return 0, err
		}
		res.Retries++
		c.log.Warn("read failed, retrying", "attempt", attempt+1, "code", errcode.Of(err), "error", err)
		if err := sleep(ctx, timer, c.cfg.RetryBackoff); err != nil {
			return 0, err
		}
	}
}

// sleep waits d on timer or until ctx is done.
func sleep(ctx context.Context, timer *time.Timer, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timex.ResetTimer(timer, d)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
