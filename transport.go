package scpi

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

// Transport is a byte-level command/response channel bound to one device.
//
// Implementations frame every command with a single trailing newline and
// collect responses with the same termination rules, so callers never need to
// know which variant Resolve selected. A Transport is not safe for concurrent
// use; queries against one device must be issued sequentially.
type Transport interface {
	// Path returns the device path the transport is bound to.
	Path() string
	// Write transmits command followed by "\n".
	Write(command string) error
	// Read collects one response line. An empty string with a nil error
	// means the device did not answer before the timeout or end of stream.
	Read() (string, error)
	// Close releases any handle held by the transport.
	Close() error
}

// frameCommand appends the protocol terminator to command.
func frameCommand(command string) ([]byte, error) {
	if strings.ContainsAny(command, "\r\n") {
		return nil, ErrInvalidCommand
	}
	frame := make([]byte, 0, len(command)+1)
	frame = append(frame, command...)
	return append(frame, '\n'), nil
}

// writeFrame writes frame in full, continuing after short writes.
func writeFrame(path string, w io.Writer, frame []byte) error {
	for len(frame) > 0 {
		n, err := w.Write(frame)
		if err != nil {
			return &WriteError{Path: path, Err: err}
		}
		if n == 0 {
			return &WriteError{Path: path, Err: io.ErrShortWrite}
		}
		frame = frame[n:]
	}
	return nil
}

// readResponse implements the termination algorithm shared by all transports.
// Bytes are read one at a time because instruments give no length prefix and
// a buffered read could block past the terminator. The loop ends on the first
// '\n' or on a read that yields no data (timeout or end of stream).
func readResponse(path string, r io.Reader) (string, error) {
	var (
		acc []byte
		buf [1]byte
	)
	for {
		n, err := r.Read(buf[:])
		if n > 0 {
			acc = append(acc, buf[0])
			if buf[0] == '\n' {
				break
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", &ReadError{Path: path, Err: err}
		}
		if n == 0 {
			break
		}
	}
	return decodeResponse(path, acc)
}

func decodeResponse(path string, raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", &DecodeError{Path: path, Raw: raw}
	}
	return strings.TrimSpace(string(raw)), nil
}

// TimedOut reports whether resp is the empty response produced when a device
// does not answer. SCPI instruments do not send empty lines in practice, so a
// genuinely empty answer is indistinguishable from a timeout.
func TimedOut(resp string) bool {
	return resp == ""
}
