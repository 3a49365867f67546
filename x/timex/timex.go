package timex

import "time"

// PeriodFromHz returns the sampling period for a requested frequency.
// freqHz==0 means free-run and yields 0.
func PeriodFromHz(freqHz uint32) time.Duration {
	if freqHz == 0 {
		return 0
	}
	return time.Duration(1_000_000_000 / uint64(freqHz))
}

// RateHz returns n events over elapsed as events per second. A zero or
// negative elapsed yields 0.
func RateHz(n int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(n) / elapsed.Seconds()
}

func ResetTimer(t *time.Timer, d time.Duration) {
	if d < 0 {
		d = 0
	}
	if !t.Stop() {
		DrainTimer(t)
	}
	t.Reset(d)
}

func DrainTimer(t *time.Timer) {
	select {
	case <-t.C:
	default:
	}
}
