package scpi

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

// sink records everything written to it, accepting at most chunk bytes per
// call when chunk > 0.
type sink struct {
	buf   bytes.Buffer
	chunk int
	err   error
}

func (s *sink) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.chunk > 0 && len(p) > s.chunk {
		p = p[:s.chunk]
	}
	return s.buf.Write(p)
}

// endless supplies its pattern forever and counts bytes handed out.
type endless struct {
	pattern []byte
	served  int
}

func (e *endless) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		p[n] = e.pattern[e.served%len(e.pattern)]
		n++
		e.served++
	}
	return n, nil
}

// timeoutReader yields data, then reports a timeout as a zero-length read.
type timeoutReader struct {
	data []byte
}

func (r *timeoutReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, nil
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestFrameCommand(t *testing.T) {
	tests := []string{"*IDN?", "", "MEAS:VOLT:DC? 10,0.001", "SYST:ERR?", "µ"}

	for _, command := range tests {
		s := &sink{}
		frame, err := frameCommand(command)
		if err != nil {
			t.Fatalf("frameCommand(%q) failed: %v", command, err)
		}
		if err := writeFrame("/dev/fake", s, frame); err != nil {
			t.Fatalf("writeFrame(%q) failed: %v", command, err)
		}
		if got, want := s.buf.Bytes(), []byte(command+"\n"); !bytes.Equal(got, want) {
			t.Errorf("transmitted %q, want %q", got, want)
		}
	}
}

func TestFrameCommandRejectsTerminators(t *testing.T) {
	for _, command := range []string{"*IDN?\n", "*RST\r", "A\nB"} {
		if _, err := frameCommand(command); !errors.Is(err, ErrInvalidCommand) {
			t.Errorf("frameCommand(%q) error = %v, want ErrInvalidCommand", command, err)
		}
	}
}

func TestWriteFrameShortWrites(t *testing.T) {
	s := &sink{chunk: 2}
	if err := writeFrame("/dev/fake", s, []byte("*IDN?\n")); err != nil {
		t.Fatalf("writeFrame failed: %v", err)
	}
	if s.buf.String() != "*IDN?\n" {
		t.Errorf("transmitted %q", s.buf.String())
	}
}

func TestWriteFrameFailure(t *testing.T) {
	cause := errors.New("broken pipe")
	err := writeFrame("/dev/fake", &sink{err: cause}, []byte("*RST\n"))

	var werr *WriteError
	if !errors.As(err, &werr) {
		t.Fatalf("Expected *WriteError, got %T", err)
	}
	if werr.Path != "/dev/fake" {
		t.Errorf("Path = %q", werr.Path)
	}
	if !errors.Is(err, ErrWriteFailure) || !errors.Is(err, cause) {
		t.Errorf("error %v does not match ErrWriteFailure and its cause", err)
	}
}

func TestReadResponse(t *testing.T) {
	tests := []struct {
		name   string
		reader io.Reader
		want   string
	}{
		{"terminated", strings.NewReader("HELLO\n"), "HELLO"},
		{"surrounding whitespace", strings.NewReader("  1.2345E+00 \r\n"), "1.2345E+00"},
		{"stops at first terminator", strings.NewReader("FIRST\nSECOND\n"), "FIRST"},
		{"eof without terminator", strings.NewReader("PARTIAL"), "PARTIAL"},
		{"eof immediately", strings.NewReader(""), ""},
		{"timeout immediately", &timeoutReader{}, ""},
		{"timeout after partial", &timeoutReader{data: []byte("ACME,")}, "ACME,"},
		{"utf8", strings.NewReader("25.0 °C\n"), "25.0 °C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readResponse("/dev/fake", tt.reader)
			if err != nil {
				t.Fatalf("readResponse failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("readResponse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadResponseNeverReadsPastTerminator(t *testing.T) {
	src := &endless{pattern: []byte("OK\n")}

	got, err := readResponse("/dev/fake", src)
	if err != nil {
		t.Fatalf("readResponse failed: %v", err)
	}
	if got != "OK" {
		t.Errorf("readResponse() = %q, want %q", got, "OK")
	}
	if src.served != 3 {
		t.Errorf("consumed %d bytes, want 3", src.served)
	}
}

func TestReadResponseTimedOut(t *testing.T) {
	got, err := readResponse("/dev/fake", &timeoutReader{})
	if err != nil {
		t.Fatalf("Expected no error on timeout, got %v", err)
	}
	if !TimedOut(got) {
		t.Errorf("TimedOut(%q) = false", got)
	}
}

func TestReadResponseDecodeFailure(t *testing.T) {
	_, err := readResponse("/dev/fake", bytes.NewReader([]byte{0xff, 0xfe, '\n'}))

	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("Expected *DecodeError, got %v", err)
	}
	if !errors.Is(err, ErrDecodeFailure) {
		t.Errorf("Expected ErrDecodeFailure, got %v", err)
	}
	if !bytes.Equal(derr.Raw, []byte{0xff, 0xfe, '\n'}) {
		t.Errorf("Raw = % x", derr.Raw)
	}
}

func TestReadResponseIOError(t *testing.T) {
	cause := errors.New("device removed")
	_, err := readResponse("/dev/fake", failingReader{err: cause})
	if !errors.Is(err, ErrReadFailure) || !errors.Is(err, cause) {
		t.Errorf("Expected ErrReadFailure wrapping cause, got %v", err)
	}
}

func TestTimedOut(t *testing.T) {
	if !TimedOut("") {
		t.Error("TimedOut(\"\") = false")
	}
	if TimedOut("0") {
		t.Error("TimedOut(\"0\") = true")
	}
}
