package scpi

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.bug.st/serial/enumerator"
)

// DefaultPatterns are the device naming conventions searched when no pattern
// is given to Discover.
var DefaultPatterns = []string{
	"/dev/ttyS[0-9]*",
	"/dev/ttyUSB[0-9]*",
	"/dev/ttyACM[0-9]*",
	"/dev/usbtmc[0-9]*",
}

// sysfsRoot is where GetDeviceInfo looks up USB metadata.
var sysfsRoot = "/sys"

// Discover expands glob patterns into candidate device paths. Results keep
// pattern order, each pattern's matches are sorted lexically, and duplicates
// are dropped. A pattern with no matches contributes nothing.
func Discover(patterns ...string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	var paths []string
	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid device pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			paths = append(paths, match)
		}
	}
	return paths, nil
}

// isCharacterDevice checks if the given path is a character device
func isCharacterDevice(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// DeviceInfo describes a discovered instrument node
type DeviceInfo struct {
	Name        string
	Path        string
	Kind        DeviceKind
	Description string

	// USB metadata, empty for on-board UARTs
	VendorID        string
	ProductID       string
	SerialNumber    string
	Manufacturer    string
	Product         string
	InterfaceNumber string
	BusNumber       string
	DeviceNumber    string
}

// IsUSB reports whether USB metadata was found for the device.
func (i *DeviceInfo) IsUSB() bool {
	return i.VendorID != "" || i.ProductID != ""
}

// GetDeviceInfo returns detailed information about a specific device
func GetDeviceInfo(path string) (*DeviceInfo, error) {
	kind, err := KindOf(path)
	if err != nil {
		return nil, err
	}
	if !isCharacterDevice(path) {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, path)
	}

	name := filepath.Base(path)
	info := &DeviceInfo{
		Name:        name,
		Path:        path,
		Kind:        kind,
		Description: getDeviceDescription(name),
	}

	switch kind {
	case KindUSBTMC:
		enrichUSBInfo(info, filepath.Join(sysfsRoot, "class", "usbmisc", name, "device"))
	case KindSerial:
		enrichUSBInfo(info, filepath.Join(sysfsRoot, "class", "tty", name, "device"))
		if !info.IsUSB() {
			enrichFromEnumerator(info)
		}
	}

	return info, nil
}

// getDeviceDescription provides human-readable descriptions for different device types
func getDeviceDescription(name string) string {
	switch {
	case strings.HasPrefix(name, "usbtmc"):
		return "USB Test & Measurement Device"
	case strings.HasPrefix(name, "ttyUSB"):
		return "USB Serial Port"
	case strings.HasPrefix(name, "ttyACM"):
		return "USB CDC/ACM Device"
	case strings.HasPrefix(name, "ttyAMA"):
		return "ARM Serial Port"
	case strings.HasPrefix(name, "ttyS"):
		return "Standard Serial Port"
	default:
		return "Serial Port"
	}
}

// enrichUSBInfo fills USB metadata from sysfs. devLink is the class device's
// "device" symlink, which resolves to the USB interface directory (usbtmc,
// ttyACM) or to a child of it (ttyUSB). Missing files leave fields empty.
func enrichUSBInfo(info *DeviceInfo, devLink string) {
	resolved, err := filepath.EvalSymlinks(devLink)
	if err != nil {
		return
	}

	// Walk up until the directory that carries bInterfaceNumber.
	interfacePath := resolved
	for i := 0; i < 3; i++ {
		if _, err := os.Stat(filepath.Join(interfacePath, "bInterfaceNumber")); err == nil {
			break
		}
		interfacePath = filepath.Dir(interfacePath)
	}

	usbDevicePath := filepath.Dir(interfacePath)
	info.InterfaceNumber = readSysfsFile(filepath.Join(interfacePath, "bInterfaceNumber"))
	info.VendorID = readSysfsFile(filepath.Join(usbDevicePath, "idVendor"))
	info.ProductID = readSysfsFile(filepath.Join(usbDevicePath, "idProduct"))
	info.SerialNumber = readSysfsFile(filepath.Join(usbDevicePath, "serial"))
	info.Manufacturer = readSysfsFile(filepath.Join(usbDevicePath, "manufacturer"))
	info.Product = readSysfsFile(filepath.Join(usbDevicePath, "product"))
	info.BusNumber = readSysfsFile(filepath.Join(usbDevicePath, "busnum"))
	info.DeviceNumber = readSysfsFile(filepath.Join(usbDevicePath, "devnum"))
}

// enrichFromEnumerator falls back to the platform port enumerator when the
// sysfs layout is not the one enrichUSBInfo expects.
func enrichFromEnumerator(info *DeviceInfo) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return
	}
	for _, p := range ports {
		if p.Name != info.Path || !p.IsUSB {
			continue
		}
		info.VendorID = strings.ToLower(p.VID)
		info.ProductID = strings.ToLower(p.PID)
		info.SerialNumber = p.SerialNumber
		if info.Product == "" {
			info.Product = p.Product
		}
		return
	}
}

// readSysfsFile returns the trimmed content of a sysfs attribute, or "" if it
// cannot be read.
func readSysfsFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
