package scpi

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "ttyUSB1", "ttyUSB0", "ttyACM0", "usbtmc0", "ttyUSBx", "tty1")

	got, err := Discover(
		filepath.Join(dir, "ttyUSB[0-9]*"),
		filepath.Join(dir, "usbtmc[0-9]*"),
		filepath.Join(dir, "ttyS[0-9]*"),
		filepath.Join(dir, "ttyUSB0"),
	)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, "ttyUSB0"),
		filepath.Join(dir, "ttyUSB1"),
		filepath.Join(dir, "usbtmc0"),
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Discover() = %v, want %v", got, want)
	}
}

func TestDiscoverNoMatches(t *testing.T) {
	got, err := Discover(filepath.Join(t.TempDir(), "usbtmc[0-9]*"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty result, got %v", got)
	}
}

func TestDiscoverBadPattern(t *testing.T) {
	_, err := Discover("/dev/ttyUSB[")
	if !errors.Is(err, filepath.ErrBadPattern) {
		t.Errorf("Expected ErrBadPattern, got %v", err)
	}
}

func TestDiscoverDefaultPatterns(t *testing.T) {
	ports, err := Discover()
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	for _, port := range ports {
		if _, err := KindOf(port); err != nil {
			t.Errorf("default discovery returned unsupported path %s", port)
		}
	}
}

func TestIsCharacterDevice(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/dev/null", true},
		{"/dev/zero", true},
		{os.TempDir(), false},
		{"/nonexistent", false},
	}

	for _, test := range tests {
		result := isCharacterDevice(test.path)
		if result != test.expected {
			t.Errorf("isCharacterDevice(%s) = %v, expected %v", test.path, result, test.expected)
		}
	}
}

func TestGetDeviceDescription(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"usbtmc0", "USB Test & Measurement Device"},
		{"ttyUSB0", "USB Serial Port"},
		{"ttyACM0", "USB CDC/ACM Device"},
		{"ttyS0", "Standard Serial Port"},
		{"ttyAMA0", "ARM Serial Port"},
		{"unknown", "Serial Port"},
	}

	for _, test := range tests {
		result := getDeviceDescription(test.name)
		if result != test.expected {
			t.Errorf("getDeviceDescription(%s) = %s, expected %s", test.name, result, test.expected)
		}
	}
}

func TestGetDeviceInfoErrors(t *testing.T) {
	if _, err := GetDeviceInfo("/dev/null"); !errors.Is(err, ErrUnsupportedDevice) {
		t.Errorf("Expected ErrUnsupportedDevice, got %v", err)
	}
	if _, err := GetDeviceInfo("/dev/usbtmc999"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Expected ErrDeviceNotFound, got %v", err)
	}
}

func TestReadSysfsFile(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		content  *string
		expected string
	}{
		{"normal file", ptr("1234\n"), "1234"},
		{"file with spaces", ptr("  test value  \n"), "test value"},
		{"nonexistent file", nil, ""},
		{"empty file", ptr(""), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testFile := filepath.Join(tmpDir, tt.name)
			if tt.content != nil {
				if err := os.WriteFile(testFile, []byte(*tt.content), 0o644); err != nil {
					t.Fatalf("Setup failed: %v", err)
				}
			}
			if result := readSysfsFile(testFile); result != tt.expected {
				t.Errorf("readSysfsFile() = %q, expected %q", result, tt.expected)
			}
		})
	}
}

func ptr(s string) *string { return &s }

// mockUSBDevice lays out the sysfs attributes of one USB device with a single
// interface and returns the interface directory.
func mockUSBDevice(t *testing.T, root string) string {
	t.Helper()

	devicePath := filepath.Join(root, "devices", "usb1", "1-1")
	interfacePath := filepath.Join(devicePath, "1-1:1.0")
	if err := os.MkdirAll(interfacePath, 0o755); err != nil {
		t.Fatalf("Failed to create directory structure: %v", err)
	}

	deviceFiles := map[string]string{
		"idVendor":     "0957",
		"idProduct":    "1796",
		"serial":       "MY12345678",
		"manufacturer": "Agilent Technologies",
		"product":      "DSO-X 2002A",
		"busnum":       "1",
		"devnum":       "9",
	}
	for filename, content := range deviceFiles {
		if err := os.WriteFile(filepath.Join(devicePath, filename), []byte(content+"\n"), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", filename, err)
		}
	}
	if err := os.WriteFile(filepath.Join(interfacePath, "bInterfaceNumber"), []byte("00\n"), 0o644); err != nil {
		t.Fatalf("Failed to write interface number: %v", err)
	}
	return interfacePath
}

func TestEnrichUSBInfo(t *testing.T) {
	tests := []struct {
		name  string
		class string
		child string // ttyUSB nodes sit one level below the interface
	}{
		{"usbtmc", "usbmisc/usbtmc0", ""},
		{"ttyACM", "tty/ttyACM0", ""},
		{"ttyUSB", "tty/ttyUSB0", "ttyUSB0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			target := mockUSBDevice(t, root)
			if tt.child != "" {
				target = filepath.Join(target, tt.child)
				if err := os.MkdirAll(target, 0o755); err != nil {
					t.Fatal(err)
				}
			}

			classPath := filepath.Join(root, "class", tt.class)
			if err := os.MkdirAll(classPath, 0o755); err != nil {
				t.Fatal(err)
			}
			link := filepath.Join(classPath, "device")
			if err := os.Symlink(target, link); err != nil {
				t.Fatalf("Failed to create symlink: %v", err)
			}

			info := &DeviceInfo{Name: filepath.Base(tt.class)}
			enrichUSBInfo(info, link)

			checks := []struct {
				name     string
				got      string
				expected string
			}{
				{"VendorID", info.VendorID, "0957"},
				{"ProductID", info.ProductID, "1796"},
				{"SerialNumber", info.SerialNumber, "MY12345678"},
				{"InterfaceNumber", info.InterfaceNumber, "00"},
				{"BusNumber", info.BusNumber, "1"},
				{"DeviceNumber", info.DeviceNumber, "9"},
				{"Manufacturer", info.Manufacturer, "Agilent Technologies"},
				{"Product", info.Product, "DSO-X 2002A"},
			}
			for _, c := range checks {
				if c.got != c.expected {
					t.Errorf("%s = %q, expected %q", c.name, c.got, c.expected)
				}
			}
			if !info.IsUSB() {
				t.Error("IsUSB() = false")
			}
		})
	}
}

func TestEnrichUSBInfoGracefulFailure(t *testing.T) {
	info := &DeviceInfo{Name: "usbtmc999", Path: "/dev/usbtmc999"}

	enrichUSBInfo(info, filepath.Join(t.TempDir(), "class", "usbmisc", "usbtmc999", "device"))

	if info.IsUSB() || info.SerialNumber != "" {
		t.Errorf("Expected empty USB metadata, got %+v", info)
	}
}
