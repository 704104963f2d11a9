package scpi

import "time"

const (
	// DefaultBaudRate is applied to every serial transport unless overridden.
	DefaultBaudRate = 9600
	// DefaultTimeout bounds how long a read waits for the response terminator.
	DefaultTimeout = 2 * time.Second

	// maxTimeout is the largest inter-byte timeout termios VTIME can express.
	maxTimeout = 25500 * time.Millisecond
)

// Config holds the configuration shared by all transports
type Config struct {
	BaudRate int
	DataBits int
	StopBits int
	Parity   Parity
	// Timeout is the read timeout. Zero blocks until data arrives.
	Timeout time.Duration
}

// Parity represents the parity mode
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

func (p Parity) String() string {
	switch p {
	case ParityOdd:
		return "O"
	case ParityEven:
		return "E"
	default:
		return "N"
	}
}

// Option is a functional option for configuring a transport
type Option func(*Config) error

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaudRate: DefaultBaudRate,
		DataBits: 8,
		StopBits: 1,
		Parity:   ParityNone,
		Timeout:  DefaultTimeout,
	}
}

func newConfig(opts []Option) (Config, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return Config{}, err
		}
	}
	return config, nil
}

// WithBaudRate sets the baud rate
func WithBaudRate(rate int) Option {
	return func(c *Config) error {
		if _, err := getBaudRate(rate); err != nil {
			return err
		}
		c.BaudRate = rate
		return nil
	}
}

// WithDataBits sets the number of data bits (5, 6, 7, or 8)
func WithDataBits(bits int) Option {
	return func(c *Config) error {
		if bits < 5 || bits > 8 {
			return ErrInvalidConfig
		}
		c.DataBits = bits
		return nil
	}
}

// WithStopBits sets the number of stop bits (1 or 2)
func WithStopBits(bits int) Option {
	return func(c *Config) error {
		if bits != 1 && bits != 2 {
			return ErrInvalidConfig
		}
		c.StopBits = bits
		return nil
	}
}

// WithParity sets the parity mode
func WithParity(parity Parity) Option {
	return func(c *Config) error {
		if parity < ParityNone || parity > ParityEven {
			return ErrInvalidConfig
		}
		c.Parity = parity
		return nil
	}
}

// WithTimeout sets the read timeout. Serial lines realize it as VTIME, so the
// value must be a multiple of 100ms no larger than 25.5s.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout < 0 || timeout > maxTimeout {
			return ErrInvalidConfig
		}
		if timeout%(100*time.Millisecond) != 0 {
			return ErrInvalidConfig
		}
		c.Timeout = timeout
		return nil
	}
}

// readTimeoutCC converts the timeout into termios VMIN/VTIME control characters.
func (c Config) readTimeoutCC() (vmin, vtime uint8) {
	if c.Timeout == 0 {
		return 1, 0
	}
	return 0, uint8(c.Timeout / (100 * time.Millisecond))
}
