// Package si72xx provides a minimal driver for the Silicon Labs Si72xx
// (Si7210) Hall-effect magnetic field sensor.
//
// Design notes (datasheet references):
// • I2C, 8-bit register file, default 7-bit address 0x30.
// • The field is a 15-bit value split over DSPSIGM (bit 7 reserved) and DSPSIGL.
// • With ARAUTOINC set, a 2-byte block read from DSPSIGM returns both halves
//   in one transaction, so the pair cannot tear.
// • Two acquisition choreographies are supported: free-running continuous mode
//   (ConfigureContinuous + ReadSample) and triggered one-shot mode
//   (ConfigureOneShot + ReadSampleOneShot).
//
// A Device is not safe for concurrent use; callers serialize access. Only one
// Device per physical address per bus should exist at a time; software cannot
// detect a second handle to the same part.
package si72xx

import (
	"io"

	"si72xx-go/errcode"

	"tinygo.org/x/drivers"
)

// ---------------- Types ----------------

// Sample is a 15-bit magnetic field reading in [0, SampleMax].
type Sample uint16

// Decode combines the DSPSIGM/DSPSIGL pair into a Sample. Bit 7 of the high
// byte is reserved and discarded.
func Decode(hi, lo byte) Sample {
	return Sample(uint16(hi&sigHighMask)<<8 | uint16(lo))
}

// NanoTesla converts the sample to a signed field strength on the 20 mT
// scale (zero field reads 0x4000, 1.25 µT per LSB).
func (s Sample) NanoTesla() int32 {
	return (int32(s) - sampleZero) * nTPerLSB
}

// State tracks how far the device has been brought up. It is informational;
// reads are attempted in every state.
type State uint8

const (
	StateUnconfigured State = iota
	StateConfigured
	StateStreaming
)

func (s State) String() string {
	switch s {
	case StateConfigured:
		return "configured"
	case StateStreaming:
		return "streaming"
	default:
		return "unconfigured"
	}
}

// I2CBus is an open I2C bus in the tinygo/periph Tx shape that can be released.
type I2CBus interface {
	drivers.I2C
	io.Closer
}

// Opener acquires the I2C bus for a logical channel.
type Opener func(channel int) (I2CBus, error)

type Device struct {
	bus    Bus
	closer io.Closer
	addr   uint16
	state  State
	closed bool

	// continuous is set once ConfigureContinuous succeeds; temperature reads
	// restore free-run when it is set.
	continuous bool

	tcal     tempCal
	tcalRead bool

	buf [2]byte
}

// Open acquires the bus on channel and binds the driver to the 7-bit address
// addr. Zero is not a usable device address and selects AddressDefault (0x30);
// addresses above 0x7F are rejected with errcode.InvalidParams. Failures to
// open the transport are reported as *BusUnavailableError.
func Open(open Opener, channel int, addr uint16) (*Device, error) {
	if addr == 0 {
		addr = AddressDefault
	}
	if addr > 0x7F {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "open", Msg: "address exceeds 7 bits"}
	}
	if open == nil {
		return nil, &BusUnavailableError{Channel: channel}
	}
	i2c, err := open(channel)
	if err != nil {
		return nil, &BusUnavailableError{Channel: channel, Err: err}
	}
	if i2c == nil {
		return nil, &BusUnavailableError{Channel: channel}
	}
	return New(NewSMBus(i2c), i2c, addr), nil
}

// New binds a driver to an already open transport. closer may be nil when the
// caller keeps ownership of the bus. As with Open, a zero addr selects
// AddressDefault.
func New(bus Bus, closer io.Closer, addr uint16) *Device {
	if addr == 0 {
		addr = AddressDefault
	}
	return &Device{bus: bus, closer: closer, addr: addr}
}

func (d *Device) Address() uint16 { return d.addr }
func (d *Device) State() State    { return d.state }

// Close releases the bus. Calling it again is a no-op.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// ---------------- Configuration ----------------

type regWrite struct{ reg, val byte }

// Order matters: auto-increment and output select first, then the free-run
// settings that disable the sleep timer and burst-only mode.
var continuousSeq = [...]regWrite{
	{RegARAUTOINC, ARAutoIncMask},
	{RegDSPSIGSEL, SelMagnetic},
	{RegCtrl4, ctrl4FreeRun},
	{RegSLTIME, sltimeFreeRun},
	{RegCtrl3, ctrl3FreeRun},
	{RegPowerCtrl, powerCtrlFreeRun},
}

// ConfigureContinuous puts the device into free-running magnetic measurement
// so the latest conversion is always readable. The first failing write aborts
// the sequence with a *RegisterWriteError.
func (d *Device) ConfigureContinuous() error {
	if err := d.configure(continuousSeq[:]); err != nil {
		return err
	}
	d.continuous = true
	return nil
}

// ConfigureOneShot enables auto-increment and selects the magnetic output,
// leaving the power controller alone; each ReadSampleOneShot triggers its own
// conversion.
func (d *Device) ConfigureOneShot() error {
	d.continuous = false
	return d.configure(continuousSeq[:2])
}

func (d *Device) configure(seq []regWrite) error {
	if d.closed {
		return ErrClosed
	}
	for _, w := range seq {
		if err := d.writeReg(w.reg, w.val); err != nil {
			return err
		}
	}
	d.state = StateConfigured
	return nil
}

// Sleep puts the device into its low-power sleep state. Wake brings it back.
func (d *Device) Sleep() error {
	if d.closed {
		return ErrClosed
	}
	if err := d.writeReg(RegPowerCtrl, PowerSleepMask); err != nil {
		return err
	}
	d.state = StateUnconfigured
	d.continuous = false
	return nil
}

// Wake addresses the device so a sleeping part resumes. Transports without an
// empty transaction fall back to reading HREVID.
func (d *Device) Wake() error {
	if d.closed {
		return ErrClosed
	}
	if p, ok := d.bus.(interface{ Ping(uint16) error }); ok {
		if err := p.Ping(d.addr); err != nil {
			return &RegisterReadError{Register: RegHREVID, Err: err}
		}
		return nil
	}
	_, err := d.Revision()
	return err
}

// Revision returns the HREVID register.
func (d *Device) Revision() (byte, error) {
	if d.closed {
		return 0, ErrClosed
	}
	return d.readReg(RegHREVID)
}

// ---------------- Sampling ----------------

// ReadSample reads DSPSIGM and DSPSIGL in a single 2-byte block transaction
// and decodes them.
func (d *Device) ReadSample() (Sample, error) {
	if d.closed {
		return 0, ErrClosed
	}
	if err := d.bus.ReadBlock(d.addr, RegDSPSIGM, d.buf[:2]); err != nil {
		return 0, &RegisterReadError{Register: RegDSPSIGM, Err: err}
	}
	d.markStreaming()
	return Decode(d.buf[0], d.buf[1]), nil
}

// ReadSampleOneShot triggers one conversion, then reads DSPSIGL followed by
// DSPSIGM as two single-byte reads. Slower than ReadSample; kept for parts
// that do not free-run.
func (d *Device) ReadSampleOneShot() (Sample, error) {
	if d.closed {
		return 0, ErrClosed
	}
	if err := d.writeReg(RegPowerCtrl, PowerOneBurstMask); err != nil {
		return 0, err
	}
	lo, err := d.readReg(RegDSPSIGL)
	if err != nil {
		return 0, err
	}
	hi, err := d.readReg(RegDSPSIGM)
	if err != nil {
		return 0, err
	}
	d.markStreaming()
	return Decode(hi, lo), nil
}

func (d *Device) markStreaming() {
	if d.state == StateConfigured {
		d.state = StateStreaming
	}
}

// ---------------- Register helpers ----------------

func (d *Device) writeReg(reg, val byte) error {
	if err := d.bus.WriteReg(d.addr, reg, val); err != nil {
		return &RegisterWriteError{Register: reg, Value: val, Err: err}
	}
	return nil
}

func (d *Device) readReg(reg byte) (byte, error) {
	v, err := d.bus.ReadReg(d.addr, reg)
	if err != nil {
		return 0, &RegisterReadError{Register: reg, Err: err}
	}
	return v, nil
}
