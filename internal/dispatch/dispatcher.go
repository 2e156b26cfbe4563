package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"correioszpl/internal/failures"
	"correioszpl/internal/logging"
	"correioszpl/internal/spool"
)

// Result describes a delivered document.
type Result struct {
	// ID is the correlation id assigned by Service.PrintLabel.
	ID          string
	Transport   string
	Destination string
	// Job is set for spool transport.
	Job *spool.Job
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRunner injects a custom command runner (primarily for tests).
func WithRunner(r spool.Runner) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.runner = r
		}
	}
}

// WithCommands overrides the CUPS binaries.
func WithCommands(c spool.Commands) Option {
	return func(d *Dispatcher) {
		d.commands = c
	}
}

// WithPollInterval sets the spool watcher interval.
func WithPollInterval(interval time.Duration) Option {
	return func(d *Dispatcher) {
		d.pollInterval = interval
	}
}

// Dispatcher delivers documents to network or spool printers.
type Dispatcher struct {
	runner       spool.Runner
	commands     spool.Commands
	pollInterval time.Duration
	logger       *slog.Logger

	mu       sync.Mutex
	printers map[string]*spool.Printer
	closed   bool
}

// NewDispatcher constructs a dispatcher using the real CUPS tools by default.
func NewDispatcher(logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		runner:       spool.DefaultRunner(),
		commands:     spool.DefaultCommands(),
		pollInterval: spool.DefaultPollInterval,
		logger:       logging.NewComponentLogger(logger, "dispatch"),
		printers:     make(map[string]*spool.Printer),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch sends doc using the transport selected by opts. For spool printers
// it returns once the submission outcome is known; the returned job keeps
// reporting queue progress.
func (d *Dispatcher) Dispatch(ctx context.Context, doc string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := logging.WithContext(ctx, d.logger)

	if opts.PrinterType == TypeNetwork {
		addr, err := sendNetwork(ctx, doc, opts)
		if err != nil {
			logger.Warn("network print failed", logging.String("address", addr), logging.Error(err))
			return nil, err
		}
		logger.Info("document sent to network printer",
			logging.String("address", addr),
			logging.Int("bytes", len(doc)),
		)
		return &Result{Transport: TypeNetwork, Destination: addr}, nil
	}

	printers, err := spool.List(ctx, d.runner, d.commands)
	if err != nil {
		return nil, err
	}
	if !spool.Installed(printers, opts.PrinterName) {
		return nil, failures.Wrap(failures.ErrPrinterNotFound, "spool", "dispatch",
			fmt.Sprintf("%q is not installed", opts.PrinterName), nil)
	}

	printer, err := d.printer(ctx, opts.PrinterName, printers)
	if err != nil {
		return nil, err
	}

	var job *spool.Job
	if opts.Submit != (spool.SubmitOptions{}) {
		submit := opts.Submit
		submit.Raw = true
		job, err = printer.PrintBuffer(ctx, []byte(doc), submit)
	} else {
		job, err = printer.PrintRaw(ctx, []byte(doc))
	}
	if err != nil {
		return nil, err
	}
	id, err := job.Submitted(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("document queued on spool printer",
		logging.String(logging.FieldPrinter, opts.PrinterName),
		logging.Int(logging.FieldJobID, id),
	)
	return &Result{Transport: TypeSpool, Destination: opts.PrinterName, Job: job}, nil
}

// Printer returns the open spool printer for name, if any dispatch used it.
func (d *Dispatcher) Printer(name string) (*spool.Printer, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.printers[name]
	return p, ok
}

func (d *Dispatcher) printer(ctx context.Context, name string, installed []string) (*spool.Printer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, spool.ErrClosed
	}
	if p, ok := d.printers[name]; ok {
		return p, nil
	}
	p, err := spool.Open(ctx, name,
		spool.WithInstalled(installed),
		spool.WithRunner(d.runner),
		spool.WithCommands(d.commands),
		spool.WithPollInterval(d.pollInterval),
		spool.WithLogger(d.logger),
	)
	if err != nil {
		return nil, err
	}
	d.printers[name] = p
	return p, nil
}

// Close stops every printer watcher. Further spool dispatches fail.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	printers := d.printers
	d.printers = make(map[string]*spool.Printer)
	d.closed = true
	d.mu.Unlock()

	var errs []error
	for _, p := range printers {
		errs = append(errs, p.Close())
	}
	return errors.Join(errs...)
}
