package si72xx

import "tinygo.org/x/drivers"

// Bus is the narrow register transport the driver depends on. Any SMBus-style
// implementation will do; NewSMBus adapts a tinygo/periph style I2C bus.
type Bus interface {
	WriteReg(addr uint16, reg, val byte) error
	ReadReg(addr uint16, reg byte) (byte, error)
	// ReadBlock reads len(buf) consecutive registers starting at reg in one
	// bus transaction.
	ReadBlock(addr uint16, reg byte, buf []byte) error
}

// SMBus implements Bus on top of an I2C bus exposing Tx(addr, w, r).
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when both
// w and r are provided, without releasing the bus.
type SMBus struct {
	i2c drivers.I2C

	// Fixed buffers to avoid per-call heap allocations.
	w [2]byte
	r [1]byte
}

func NewSMBus(i2c drivers.I2C) *SMBus {
	return &SMBus{i2c: i2c}
}

func (s *SMBus) WriteReg(addr uint16, reg, val byte) error {
	s.w[0] = reg
	s.w[1] = val
	return s.i2c.Tx(addr, s.w[:2], nil)
}

func (s *SMBus) ReadReg(addr uint16, reg byte) (byte, error) {
	s.w[0] = reg
	if err := s.i2c.Tx(addr, s.w[:1], s.r[:1]); err != nil {
		return 0, err
	}
	return s.r[0], nil
}

func (s *SMBus) ReadBlock(addr uint16, reg byte, buf []byte) error {
	s.w[0] = reg
	return s.i2c.Tx(addr, s.w[:1], buf)
}

// Ping issues an empty transaction to addr. Sleeping parts wake on the
// address match.
func (s *SMBus) Ping(addr uint16) error {
	return s.i2c.Tx(addr, nil, nil)
}
