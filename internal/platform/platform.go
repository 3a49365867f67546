// Package platform acquires the I2C bus the sensor hangs off.
//
// On linux the bus comes from periph.io (/dev/i2c-N through the sysfs host
// driver). Other targets have no bus and report ErrNoI2C. HostI2C is an
// in-memory Si72xx register file used for simulation and tests.
package platform

import (
	"errors"

	"si72xx-go/drivers/si72xx"
)

var ErrNoI2C = errors.New("platform: no i2c support on this target")

// Opener returns the bus opener for the driver. With simulate set, every
// channel resolves to a fresh HostI2C emulating a part at si72xx.AddressDefault.
func Opener(simulate bool) si72xx.Opener {
	if simulate {
		return func(int) (si72xx.I2CBus, error) {
			return NewHostI2C(si72xx.AddressDefault), nil
		}
	}
	return func(channel int) (si72xx.I2CBus, error) {
		b, err := OpenI2C(channel)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
}
