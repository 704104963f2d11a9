package scpi

import "io"

// serialTransport talks to an instrument over a serial line held open for the
// lifetime of the transport. The read timeout is fixed when the line is
// configured and applies to every subsequent read.
type serialTransport struct {
	path   string
	config Config
	port   io.ReadWriteCloser
}

var _ Transport = (*serialTransport)(nil)

func openSerialTransport(path string, config Config) (*serialTransport, error) {
	p, err := openPort(path, config)
	if err != nil {
		return nil, err
	}
	return &serialTransport{path: path, config: config, port: p}, nil
}

func (s *serialTransport) Path() string { return s.path }

func (s *serialTransport) Write(command string) error {
	frame, err := frameCommand(command)
	if err != nil {
		return err
	}
	return writeFrame(s.path, s.port, frame)
}

func (s *serialTransport) Read() (string, error) {
	return readResponse(s.path, s.port)
}

func (s *serialTransport) Close() error {
	return s.port.Close()
}
