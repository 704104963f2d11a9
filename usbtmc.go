package scpi

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// rawFileTransport talks to a USB-TMC character device. The device node is
// opened afresh for every write and every read and closed before the
// operation returns; nothing is held between calls.
//
// The configured timeout is recorded but not applied: reads are bounded only
// by the kernel usbtmc driver's own timeout, which surfaces as ETIMEDOUT and
// is treated as "no answer".
type rawFileTransport struct {
	path    string
	timeout time.Duration
}

var _ Transport = (*rawFileTransport)(nil)

func newRawFileTransport(path string, config Config) *rawFileTransport {
	return &rawFileTransport{path: path, timeout: config.Timeout}
}

func (r *rawFileTransport) Path() string { return r.path }

func (r *rawFileTransport) Write(command string) (err error) {
	frame, err := frameCommand(command)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(r.path, os.O_WRONLY, 0)
	if err != nil {
		return &WriteError{Path: r.path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &WriteError{Path: r.path, Err: cerr}
		}
	}()

	return writeFrame(r.path, f, frame)
}

func (r *rawFileTransport) Read() (string, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return "", &ReadError{Path: r.path, Err: err}
	}
	defer f.Close()

	return readResponse(r.path, usbtmcReader{f})
}

// Close is a no-op; handles never outlive a single operation.
func (r *rawFileTransport) Close() error { return nil }

// usbtmcReader reports the driver's ETIMEDOUT as an empty read so the shared
// termination algorithm sees it as a timeout rather than a failure.
type usbtmcReader struct {
	f *os.File
}

func (u usbtmcReader) Read(buf []byte) (int, error) {
	n, err := u.f.Read(buf)
	if err != nil && errors.Is(err, unix.ETIMEDOUT) {
		return n, nil
	}
	return n, err
}
