package scpi

import (
	"errors"
	"fmt"
)

// Predefined error types for robust error handling
var (
	ErrUnsupportedDevice = errors.New("unsupported device kind")
	ErrWriteFailure      = errors.New("write to device failed")
	ErrReadFailure       = errors.New("read from device failed")
	ErrDecodeFailure     = errors.New("response is not valid UTF-8")
	ErrInvalidCommand    = errors.New("command must not contain line terminators")

	ErrDeviceNotFound   = errors.New("device not found")
	ErrPermissionDenied = errors.New("permission denied accessing device")
	ErrDeviceInUse      = errors.New("device already in use")
	ErrInvalidBaudRate  = errors.New("invalid baud rate")
	ErrInvalidConfig    = errors.New("invalid transport configuration")
	ErrTransportClosed  = errors.New("transport is closed")

	// USB-related errors
	ErrUSBInfoNotAvailable  = errors.New("USB device information not available")
	ErrUSBResetNotAvailable = errors.New("usbreset utility not available")
)

// UnsupportedDeviceError is returned by Resolve for a path that matches
// neither the serial nor the USB-TMC naming convention.
type UnsupportedDeviceError struct {
	Path string
}

func (e *UnsupportedDeviceError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnsupportedDevice, e.Path)
}

func (e *UnsupportedDeviceError) Is(target error) bool {
	return target == ErrUnsupportedDevice
}

// WriteError reports a command that was not transmitted in full.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrWriteFailure, e.Path, e.Err)
}

func (e *WriteError) Is(target error) bool { return target == ErrWriteFailure }
func (e *WriteError) Unwrap() error        { return e.Err }

// ReadError reports an I/O failure while collecting a response. Timeouts and
// end-of-stream are not errors.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrReadFailure, e.Path, e.Err)
}

func (e *ReadError) Is(target error) bool { return target == ErrReadFailure }
func (e *ReadError) Unwrap() error        { return e.Err }

// DecodeError carries the raw bytes of a response that failed UTF-8 validation.
type DecodeError struct {
	Path string
	Raw  []byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s: % x", ErrDecodeFailure, e.Path, e.Raw)
}

func (e *DecodeError) Is(target error) bool { return target == ErrDecodeFailure }
