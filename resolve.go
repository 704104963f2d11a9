package scpi

import "strings"

// Device path prefixes recognised by Resolve.
const (
	SerialPrefix = "/dev/tty"
	USBTMCPrefix = "/dev/usbtmc"
)

// DeviceKind identifies which transport variant serves a device path.
type DeviceKind int

const (
	KindSerial DeviceKind = iota + 1
	KindUSBTMC
)

func (k DeviceKind) String() string {
	switch k {
	case KindSerial:
		return "serial"
	case KindUSBTMC:
		return "usbtmc"
	default:
		return "unknown"
	}
}

// KindOf classifies path by prefix without touching the filesystem.
func KindOf(path string) (DeviceKind, error) {
	switch {
	case strings.HasPrefix(path, SerialPrefix):
		return KindSerial, nil
	case strings.HasPrefix(path, USBTMCPrefix):
		return KindUSBTMC, nil
	default:
		return 0, &UnsupportedDeviceError{Path: path}
	}
}

// Resolve returns the Transport for path. Serial lines are opened and
// configured immediately; USB-TMC devices are not opened until first use.
func Resolve(path string, opts ...Option) (Transport, error) {
	kind, err := KindOf(path)
	if err != nil {
		return nil, err
	}

	config, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	if kind == KindUSBTMC {
		return newRawFileTransport(path, config), nil
	}

	t, err := openSerialTransport(path, config)
	if err != nil {
		return nil, err
	}
	return t, nil
}
