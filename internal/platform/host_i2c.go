package platform

import (
	"errors"
	"sync"

	"si72xx-go/drivers/si72xx"
)

var (
	ErrNACK   = errors.New("platform: address not acknowledged")
	ErrClosed = errors.New("platform: bus closed")
)

// TxRecord is one recorded HostI2C transaction.
type TxRecord struct {
	Addr uint16
	W    []byte
	Rn   int
}

// HostI2C emulates the register file of one Si72xx part on an in-memory bus.
// The first written byte sets the register pointer; further written bytes and
// read bytes advance it when ARAUTOINC is set. A new field value is latched
// from Field whenever a conversion is triggered (ONEBURST) or a read starts
// at DSPSIGM.
type HostI2C struct {
	mu     sync.Mutex
	addr   uint16
	regs   [256]byte
	ptr    byte
	closed bool
	// burst is set by a one-shot trigger and holds the conversion result
	// until POWER_CTRL is rewritten without ONEBURST.
	burst bool

	failN   int
	failErr error

	// Field yields the next raw 15-bit value. Nil leaves the registers alone.
	Field func() uint16
	// TempRaw is latched by a conversion while the temperature output is selected.
	TempRaw uint16

	Log []TxRecord
}

func NewHostI2C(addr uint16) *HostI2C {
	h := &HostI2C{addr: addr, TempRaw: 2000 << 3}
	h.regs[si72xx.RegHREVID] = 0x04
	h.regs[si72xx.RegPowerCtrl] = si72xx.PowerSleepMask
	h.latch(0x4000)
	return h
}

// SetRegister pokes a register directly.
func (h *HostI2C) SetRegister(reg, val byte) {
	h.mu.Lock()
	h.regs[reg] = val
	h.mu.Unlock()
}

// Register peeks a register.
func (h *HostI2C) Register(reg byte) byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.regs[reg]
}

// FailNext makes the next n transactions return err.
func (h *HostI2C) FailNext(n int, err error) {
	h.mu.Lock()
	h.failN = n
	h.failErr = err
	h.mu.Unlock()
}

// Closed reports whether Close has been called.
func (h *HostI2C) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

func (h *HostI2C) Tx(addr uint16, w, r []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Log = append(h.Log, TxRecord{Addr: addr, W: append([]byte(nil), w...), Rn: len(r)})
	if h.closed {
		return ErrClosed
	}
	if h.failN > 0 {
		h.failN--
		return h.failErr
	}
	if addr != h.addr {
		return ErrNACK
	}
	if len(w) > 0 {
		h.ptr = w[0]
		for _, b := range w[1:] {
			h.write(h.ptr, b)
			h.advance()
		}
	}
	if len(r) > 0 && h.ptr == si72xx.RegDSPSIGM && h.freeRunning() && h.Field != nil {
		h.latch(h.Field())
	}
	for i := range r {
		r[i] = h.regs[h.ptr]
		h.advance()
	}
	return nil
}

func (h *HostI2C) Close() error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	return nil
}

func (h *HostI2C) advance() {
	if h.regs[si72xx.RegARAUTOINC]&si72xx.ARAutoIncMask != 0 {
		h.ptr++
	}
}

func (h *HostI2C) write(reg, val byte) {
	switch reg {
	case si72xx.RegPowerCtrl:
		h.burst = val&si72xx.PowerOneBurstMask != 0
		switch {
		case h.burst && h.regs[si72xx.RegDSPSIGSEL] == si72xx.SelTemperature:
			h.latch(h.TempRaw)
		case h.burst && h.Field != nil:
			h.latch(h.Field())
		}
		// ONEBURST self-clears once the conversion completes.
		h.regs[reg] = val &^ si72xx.PowerOneBurstMask
	case si72xx.RegOTPCtrl:
		h.regs[reg] = val &^ si72xx.OTPReadEnMask
		if val&si72xx.OTPReadEnMask != 0 {
			h.regs[si72xx.RegOTPData] = h.regs[h.regs[si72xx.RegOTPAddr]]
		}
	default:
		h.regs[reg] = val
	}
}

func (h *HostI2C) freeRunning() bool {
	return !h.burst && h.regs[si72xx.RegPowerCtrl]&(si72xx.PowerSleepMask|si72xx.PowerStopMask) == 0
}

// latch stores raw with the data-valid bit set, as the part does.
func (h *HostI2C) latch(raw uint16) {
	h.regs[si72xx.RegDSPSIGM] = byte(raw>>8) | 0x80
	h.regs[si72xx.RegDSPSIGL] = byte(raw)
}
