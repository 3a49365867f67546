package si72xx

import (
	"errors"

	"si72xx-go/errcode"
	"si72xx-go/x/conv"
)

// Sentinel errors. Typed errors below match them through errors.Is.
var (
	ErrBusUnavailable = errors.New("si72xx: bus unavailable")
	ErrRegisterWrite  = errors.New("si72xx: register write failed")
	ErrRegisterRead   = errors.New("si72xx: register read failed")
	ErrOTPBusy        = errors.New("si72xx: otp busy")
	ErrClosed         = errors.New("si72xx: device closed")
)

// BusUnavailableError reports that the transport for a channel could not be
// opened (missing device node, permissions, no host driver).
type BusUnavailableError struct {
	Channel int
	Err     error
}

func (e *BusUnavailableError) Error() string {
	b := append([]byte("si72xx: bus "), conv.AppendInt(nil, e.Channel)...)
	b = append(b, " unavailable"...)
	return withCause(b, e.Err)
}
func (e *BusUnavailableError) Unwrap() error        { return e.Err }
func (e *BusUnavailableError) Is(target error) bool { return target == ErrBusUnavailable }
func (e *BusUnavailableError) Code() errcode.Code   { return errcode.BusUnavailable }

// RegisterWriteError reports a NACK or timeout while writing one register.
type RegisterWriteError struct {
	Register byte
	Value    byte
	Err      error
}

func (e *RegisterWriteError) Error() string {
	b := conv.AppendHex8([]byte("si72xx: write 0x"), e.Register)
	b = append(b, " failed"...)
	return withCause(b, e.Err)
}
func (e *RegisterWriteError) Unwrap() error        { return e.Err }
func (e *RegisterWriteError) Is(target error) bool { return target == ErrRegisterWrite }
func (e *RegisterWriteError) Code() errcode.Code   { return errcode.RegisterWriteFailed }

// RegisterReadError reports a transport failure while reading starting at
// Register.
type RegisterReadError struct {
	Register byte
	Err      error
}

func (e *RegisterReadError) Error() string {
	b := conv.AppendHex8([]byte("si72xx: read 0x"), e.Register)
	b = append(b, " failed"...)
	return withCause(b, e.Err)
}
func (e *RegisterReadError) Unwrap() error        { return e.Err }
func (e *RegisterReadError) Is(target error) bool { return target == ErrRegisterRead }
func (e *RegisterReadError) Code() errcode.Code   { return errcode.RegisterReadFailed }

func withCause(b []byte, cause error) string {
	if cause != nil {
		b = append(b, ": "...)
		b = append(b, cause.Error()...)
	}
	return string(b)
}
