// Package scpi issues SCPI (Standard Commands for Programmable Instruments)
// text queries to laboratory instruments exposed as Linux character devices.
//
// Two device conventions are supported: serial lines (/dev/ttyS*, /dev/ttyUSB*,
// /dev/ttyACM*) and raw USB-TMC nodes (/dev/usbtmc*). Both speak the same
// newline-framed protocol behind the Transport interface.
//
// # Basic Usage
//
// Resolve a device path to a Transport and query it:
//
//	t, err := scpi.Resolve("/dev/usbtmc0", scpi.WithTimeout(2*time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer t.Close()
//
//	idn, err := scpi.Query(t, "*IDN?")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if scpi.TimedOut(idn) {
//	    fmt.Println("no answer")
//	}
//
// # Discovery
//
// Expand the default device globs into candidate paths:
//
//	paths, err := scpi.Discover()
//	for _, path := range paths {
//	    info, _ := scpi.GetDeviceInfo(path)
//	    fmt.Printf("%s: %s (VID=%s PID=%s)\n", info.Path, info.Description, info.VendorID, info.ProductID)
//	}
//
// # Framing and Termination
//
// Every command is sent with exactly one trailing "\n". Responses are read one
// byte at a time until the first "\n", or until a read returns no data because
// the timeout elapsed or the stream ended. The collected bytes must be valid
// UTF-8 and are returned with surrounding whitespace removed.
//
// An empty response with a nil error means the instrument did not answer in
// time. Because SCPI instruments do not send empty lines, TimedOut treats every
// empty response as a timeout.
//
// # Timeouts
//
// Serial transports realize the timeout with termios VTIME, so it must be a
// multiple of 100ms no larger than 25.5s; zero blocks until data arrives.
// USB-TMC transports accept the timeout but do not enforce it: reads are
// bounded by the kernel driver's own timeout.
//
// # Error Handling
//
// Failures are reported with sentinel errors that work with errors.Is:
//
//	if errors.Is(err, scpi.ErrUnsupportedDevice) {
//	    // path matched neither /dev/tty* nor /dev/usbtmc*
//	}
//
// WriteError, ReadError, DecodeError and UnsupportedDeviceError carry the
// device path. The package never logs.
//
// # Default Configuration
//
//   - BaudRate: 9600
//   - DataBits: 8
//   - StopBits: 1
//   - Parity: None
//   - Timeout: 2 seconds
package scpi
