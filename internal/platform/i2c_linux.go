//go:build linux

package platform

import (
	"strconv"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var (
	hostOnce sync.Once
	hostErr  error
)

// OpenI2C opens /dev/i2c-<channel> through periph.io. The host drivers are
// loaded once per process.
func OpenI2C(channel int) (i2c.BusCloser, error) {
	hostOnce.Do(func() {
		_, hostErr = host.Init()
	})
	if hostErr != nil {
		return nil, hostErr
	}
	return i2creg.Open(strconv.Itoa(channel))
}
