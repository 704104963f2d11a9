// Package batch runs a list of SCPI commands against a set of devices and
// aggregates the responses per device. A device that cannot be resolved or
// fails mid-batch is logged and skipped; the others still report.
package batch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/errgroup"

	scpi "github.com/allbin/go-scpi"
	"github.com/allbin/go-scpi/internal/logger"
)

// SleepPrefix marks the pseudo-command that pauses between queries without
// touching the device, e.g. "SLEEP:0.5".
const SleepPrefix = "SLEEP:"

// ErrInvalidSleep is returned for a SLEEP pseudo-command whose duration does
// not parse as a non-negative number of seconds.
var ErrInvalidSleep = errors.New("invalid SLEEP duration")

// ResolveFunc opens the transport for a device path.
type ResolveFunc func(path string, opts ...scpi.Option) (scpi.Transport, error)

// Runner executes command lists against devices.
type Runner struct {
	resolve  ResolveFunc
	opts     []scpi.Option
	log      logger.Logger
	parallel int
	sleep    func(ctx context.Context, d time.Duration) error
}

// Option configures a Runner
type Option func(*Runner)

// WithResolver replaces scpi.Resolve, mainly for tests.
func WithResolver(resolve ResolveFunc) Option {
	return func(r *Runner) { r.resolve = resolve }
}

// WithTransportOptions sets the options passed to every resolve call.
func WithTransportOptions(opts ...scpi.Option) Option {
	return func(r *Runner) { r.opts = opts }
}

// WithLogger sets the logger used to report skipped devices.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// WithParallel queries up to n devices at once. Commands on one device are
// always sequential.
func WithParallel(n int) Option {
	return func(r *Runner) {
		if n < 1 {
			n = 1
		}
		r.parallel = n
	}
}

// New creates a Runner that resolves devices with scpi.Resolve.
func New(opts ...Option) *Runner {
	r := &Runner{
		resolve:  scpi.Resolve,
		log:      logger.Default(),
		parallel: 1,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run queries every device and returns one record per device in input order.
// Context cancellation stops further queries; devices not yet started get a
// record carrying the context error.
func (r *Runner) Run(ctx context.Context, devices, commands []string) []Record {
	records := make([]Record, len(devices))

	if r.parallel <= 1 {
		for i, device := range devices {
			records[i] = r.RunDevice(ctx, device, commands)
		}
		return records
	}

	done := xsync.NewMapOf[int, Record]()
	g := new(errgroup.Group)
	g.SetLimit(r.parallel)
	for i, device := range devices {
		i, device := i, device
		g.Go(func() error {
			done.Store(i, r.RunDevice(ctx, device, commands))
			return nil
		})
	}
	_ = g.Wait()

	for i := range devices {
		records[i], _ = done.Load(i)
	}
	return records
}

// RunDevice resolves one device and issues commands in order. The first
// resolve, write, read or decode failure ends the device's batch.
func (r *Runner) RunDevice(ctx context.Context, device string, commands []string) Record {
	rec := Record{Device: device}
	log := r.log.With("device", device)

	if err := ctx.Err(); err != nil {
		rec.Err = err
		return rec
	}

	t, err := r.resolve(device, r.opts...)
	if err != nil {
		log.Warn("skipping device", "error", err)
		rec.Err = err
		return rec
	}
	defer func() {
		if err := t.Close(); err != nil {
			log.Debug("close failed", "error", err)
		}
	}()

	for _, command := range commands {
		if err := ctx.Err(); err != nil {
			rec.Err = err
			return rec
		}

		log.Info("query", "command", command)

		if d, ok, err := ParseSleep(command); ok {
			if err != nil {
				log.Warn("aborting device", "command", command, "error", err)
				rec.Err = err
				return rec
			}
			log.Debug("sleeping", "duration", d)
			if err := r.sleep(ctx, d); err != nil {
				rec.Err = err
				return rec
			}
			continue
		}

		resp, err := scpi.Query(t, command)
		if err != nil {
			log.Warn("aborting device", "command", command, "error", err)
			rec.Err = err
			return rec
		}

		res := rec.Add(command, resp, scpi.TimedOut(resp))
		if res.TimedOut {
			log.Debug("response timed out", "command", command)
		} else {
			log.Debug("response", "command", command, "response", resp)
		}
	}
	return rec
}

// ParseSleep reports whether command is a SLEEP pseudo-command and, if so,
// the pause it requests.
func ParseSleep(command string) (time.Duration, bool, error) {
	arg, ok := strings.CutPrefix(command, SleepPrefix)
	if !ok {
		return 0, false, nil
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
	if err != nil || math.IsNaN(seconds) || seconds < 0 || seconds > float64(1<<31) {
		return 0, true, fmt.Errorf("%w: %q", ErrInvalidSleep, arg)
	}
	return time.Duration(seconds * float64(time.Second)), true, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
