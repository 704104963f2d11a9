package scpi

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// reenumerateDelay is how long a reset device typically needs to reappear.
const reenumerateDelay = 2 * time.Second

// ResetUSBDevice performs a USB-level reset of the instrument behind path.
// This can recover hardware that stopped answering queries.
//
// Requirements:
// - usbreset utility must be installed (from usbutils package)
// - Requires appropriate permissions (typically root/sudo)
func ResetUSBDevice(ctx context.Context, path string) error {
	info, err := GetDeviceInfo(path)
	if err != nil {
		return fmt.Errorf("failed to get device info: %w", err)
	}

	if info.BusNumber == "" || info.DeviceNumber == "" {
		return ErrUSBInfoNotAvailable
	}

	if !IsUSBResetAvailable() {
		return ErrUSBResetNotAvailable
	}

	cmd := exec.CommandContext(ctx, "usbreset", usbResetPath(info.BusNumber, info.DeviceNumber))
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("usbreset failed: %w (output: %s)", err, string(output))
	}

	select {
	case <-time.After(reenumerateDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ResetUSBDeviceBySerial resets the discovered device whose USB serial number
// matches. Serial numbers survive re-enumeration; device paths may not.
func ResetUSBDeviceBySerial(ctx context.Context, serialNumber string) error {
	paths, err := Discover()
	if err != nil {
		return err
	}

	for _, path := range paths {
		info, err := GetDeviceInfo(path)
		if err != nil {
			continue
		}
		if info.SerialNumber == serialNumber {
			return ResetUSBDevice(ctx, path)
		}
	}

	return fmt.Errorf("device with serial %s not found", serialNumber)
}

// IsUSBResetAvailable checks if usbreset utility is available in PATH
func IsUSBResetAvailable() bool {
	_, err := exec.LookPath("usbreset")
	return err == nil
}

// usbResetPath formats bus and device numbers as the BBB/DDD form usbreset
// expects.
func usbResetPath(bus, device string) string {
	b, errB := strconv.Atoi(bus)
	d, errD := strconv.Atoi(device)
	if errB != nil || errD != nil {
		return bus + "/" + device
	}
	return fmt.Sprintf("%03d/%03d", b, d)
}
