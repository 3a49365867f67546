// Package si72xx provides constants for register addresses and bitfields used
// in the operation of the Si72xx (Si7210) Hall-effect magnetic sensor.
package si72xx

const (
	// 7-bit I2C address of the Si7210 base part.
	AddressDefault = 0x30

	// Logical I2C channel the sensor is wired to on the reference board.
	ChannelDefault = 1

	// --- Register sub-addresses (8-bit registers) ---

	// OTP parameters
	RegOTPTempOffset = 0x1D
	RegOTPTempGain   = 0x1E

	// Readouts / control
	RegHREVID    = 0xC0 // R, hardware revision
	RegDSPSIGM   = 0xC1 // R, signal high byte (bit 7 reserved)
	RegDSPSIGL   = 0xC2 // R, signal low byte
	RegDSPSIGSEL = 0xC3 // R/W, magnetic or temperature output
	RegPowerCtrl = 0xC4 // R/W
	RegARAUTOINC = 0xC5 // R/W, register auto-increment
	RegCtrl1     = 0xC6
	RegCtrl2     = 0xC7
	RegSLTIME    = 0xC8 // R/W, sleep timer
	RegCtrl3     = 0xC9 // R/W, sleep timer / burst-only enables
	RegA0        = 0xCA
	RegA1        = 0xCB
	RegA2        = 0xCC
	RegCtrl4     = 0xCD // R/W, digital filter
	RegA3        = 0xCE
	RegA4        = 0xCF
	RegA5        = 0xD0
	RegOTPAddr   = 0xE1
	RegOTPData   = 0xE2
	RegOTPCtrl   = 0xE3
	RegTMFG      = 0xE4
)

// Control masks.
const (
	ARAutoIncMask = 0x01

	OTPBusyMask   = 0x01
	OTPReadEnMask = 0x02

	PowerSleepMask    = 0x01
	PowerStopMask     = 0x02
	PowerOneBurstMask = 0x04
	PowerUseStoreMask = 0x08
	PowerMeasMask     = 0x80

	SelMagnetic    = 0
	SelTemperature = 1
)

// Free-run register values written by ConfigureContinuous after the
// auto-increment and output-select writes.
const (
	ctrl4FreeRun     = 0x04
	sltimeFreeRun    = 0x00
	ctrl3FreeRun     = 0x02
	powerCtrlFreeRun = 0x00
)

// Signal decoding.
const (
	dataValidMask = 0x8000 // bit 7 of DSPSIGM, set when a conversion completes
	sigHighMask   = 0x7F   // DSPSIGM bits carrying the signal
	SampleMax     = 0x7FFF // largest decoded sample
	sampleZero    = 0x4000 // zero field on the 15-bit scale
	nTPerLSB      = 1250   // 20 mT full scale
)
