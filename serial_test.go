package scpi

import (
	"bytes"
	"errors"
	"testing"
)

// fakeLine stands in for an open serial port. Each write queues the reply
// registered for that command; reads drain the queue one byte at a time and
// return 0, nil once it is empty, like a VTIME timeout.
type fakeLine struct {
	replies map[string]string
	written bytes.Buffer
	pending []byte
	closed  bool
}

func (f *fakeLine) Write(p []byte) (int, error) {
	if f.closed {
		return 0, ErrTransportClosed
	}
	f.written.Write(p)
	f.pending = append(f.pending, f.replies[string(bytes.TrimSuffix(p, []byte("\n")))]...)
	return len(p), nil
}

func (f *fakeLine) Read(p []byte) (int, error) {
	if f.closed {
		return 0, ErrTransportClosed
	}
	if len(f.pending) == 0 {
		return 0, nil
	}
	n := copy(p, f.pending)
	f.pending = f.pending[n:]
	return n, nil
}

func (f *fakeLine) Close() error {
	if f.closed {
		return ErrTransportClosed
	}
	f.closed = true
	return nil
}

func TestSerialTransportQuery(t *testing.T) {
	line := &fakeLine{replies: map[string]string{"*IDN?": "ACME,Model1,SN1,1.0\n"}}
	tr := &serialTransport{path: "/dev/ttyUSB0", config: DefaultConfig(), port: line}

	got, err := Query(tr, "*IDN?")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if got != "ACME,Model1,SN1,1.0" {
		t.Errorf("Query() = %q", got)
	}
	if line.written.String() != "*IDN?\n" {
		t.Errorf("transmitted %q", line.written.String())
	}
}

func TestSerialTransportTimeout(t *testing.T) {
	tr := &serialTransport{path: "/dev/ttyUSB1", config: DefaultConfig(), port: &fakeLine{}}

	got, err := Query(tr, "*IDN?")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if !TimedOut(got) {
		t.Errorf("Expected timed out response, got %q", got)
	}
}

func TestSerialTransportClose(t *testing.T) {
	tr := &serialTransport{path: "/dev/ttyUSB0", config: DefaultConfig(), port: &fakeLine{}}

	if err := tr.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := tr.Close(); !errors.Is(err, ErrTransportClosed) {
		t.Errorf("second Close error = %v, want ErrTransportClosed", err)
	}
	if err := tr.Write("*IDN?"); !errors.Is(err, ErrWriteFailure) {
		t.Errorf("Write after Close error = %v, want ErrWriteFailure", err)
	}
}

func TestOpenNonExistentDevice(t *testing.T) {
	_, err := openPort("/dev/ttyNONEXISTENT", DefaultConfig())
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Expected ErrDeviceNotFound, got %v", err)
	}
}
