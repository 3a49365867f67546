//go:build !linux

package platform

import "si72xx-go/drivers/si72xx"

// OpenI2C is unavailable off linux.
func OpenI2C(int) (si72xx.I2CBus, error) { return nil, ErrNoI2C }
