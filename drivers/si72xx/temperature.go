package si72xx

import "si72xx-go/errcode"

// tempCal holds the factory trim loaded from OTP.
type tempCal struct {
	offset float32 // °C
	gain   float32
}

// Temperature is a raw die temperature reading with the trim that applies to it.
type Temperature struct {
	raw uint16
	cal tempCal
}

// Raw returns the DSPSIGM:DSPSIGL word as read (bit 15 included).
func (t Temperature) Raw() uint16 { return t.raw }

// Valid reports whether the part flagged the conversion as complete
// (bit 7 of DSPSIGM).
func (t Temperature) Valid() bool { return t.raw&dataValidMask != 0 }

// Celsius applies the datasheet polynomial and the OTP trim.
func (t Temperature) Celsius() float32 {
	v := float32((t.raw & 0x7FFF) >> 3)
	c := -3.83e-6*v*v + 0.16094*v - 279.80 - 0.222*3.0
	return t.cal.gain*c + t.cal.offset
}

// DeciCelsius returns tenths of °C, rounded half away from zero.
func (t Temperature) DeciCelsius() int32 {
	c := t.Celsius() * 10
	if c < 0 {
		return int32(c - 0.5)
	}
	return int32(c + 0.5)
}

// ReadOTP reads one byte of the one-time-programmable parameter memory.
func (d *Device) ReadOTP(otpAddr byte) (byte, error) {
	if d.closed {
		return 0, ErrClosed
	}
	ctrl, err := d.readReg(RegOTPCtrl)
	if err != nil {
		return 0, err
	}
	if ctrl&OTPBusyMask != 0 {
		return 0, &errcode.E{C: errcode.OTPBusy, Op: "otp", Err: ErrOTPBusy}
	}
	if err := d.writeReg(RegOTPAddr, otpAddr); err != nil {
		return 0, err
	}
	if err := d.writeReg(RegOTPCtrl, OTPReadEnMask); err != nil {
		return 0, err
	}
	return d.readReg(RegOTPData)
}

func (d *Device) loadTempCal() error {
	if d.tcalRead {
		return nil
	}
	off, err := d.ReadOTP(RegOTPTempOffset)
	if err != nil {
		return err
	}
	gain, err := d.ReadOTP(RegOTPTempGain)
	if err != nil {
		return err
	}
	d.tcal = tempCal{
		offset: float32(int8(off)) / 16,
		gain:   1 + float32(int8(gain))/2048,
	}
	d.tcalRead = true
	return nil
}

// ReadTemperature switches the output to temperature, triggers one conversion,
// block-reads the result and switches back to the magnetic output. A device
// running in continuous mode is returned to free-run afterwards. The OTP trim
// is read on first use and cached.
func (d *Device) ReadTemperature() (Temperature, error) {
	if d.closed {
		return Temperature{}, ErrClosed
	}
	if err := d.loadTempCal(); err != nil {
		return Temperature{}, err
	}
	if err := d.writeReg(RegDSPSIGSEL, SelTemperature); err != nil {
		return Temperature{}, err
	}
	if err := d.writeReg(RegPowerCtrl, PowerOneBurstMask); err != nil {
		return Temperature{}, err
	}
	var rerr error
	if err := d.bus.ReadBlock(d.addr, RegDSPSIGM, d.buf[:2]); err != nil {
		rerr = &RegisterReadError{Register: RegDSPSIGM, Err: err}
	}
	raw := uint16(d.buf[0])<<8 | uint16(d.buf[1])

	if err := d.writeReg(RegDSPSIGSEL, SelMagnetic); err != nil && rerr == nil {
		rerr = err
	}
	if d.continuous {
		if err := d.writeReg(RegPowerCtrl, powerCtrlFreeRun); err != nil && rerr == nil {
			rerr = err
		}
	}
	if rerr != nil {
		return Temperature{}, rerr
	}
	return Temperature{raw: raw, cal: d.tcal}, nil
}
