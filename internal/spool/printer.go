package spool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"correioszpl/internal/failures"
	"correioszpl/internal/logging"
)

// DefaultPollInterval separates queue polls.
const DefaultPollInterval = 500 * time.Millisecond

// ErrClosed is returned when submitting to a closed printer.
var ErrClosed = errors.New("printer closed")

// Option configures a Printer.
type Option func(*Printer)

// WithRunner injects a custom runner (primarily for tests).
func WithRunner(r Runner) Option {
	return func(p *Printer) {
		if r != nil {
			p.runner = r
		}
	}
}

// WithCommands overrides the CUPS binaries.
func WithCommands(c Commands) Option {
	return func(p *Printer) {
		p.commands = c.withDefaults()
	}
}

// WithPollInterval sets the delay between queue polls; zero polls back to back.
func WithPollInterval(d time.Duration) Option {
	return func(p *Printer) {
		if d >= 0 {
			p.pollInterval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Printer) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithInstalled supplies a destination list the caller already fetched, so
// Open checks it instead of running the list command again.
func WithInstalled(printers []string) Option {
	return func(p *Printer) {
		p.installed = printers
		p.listed = true
	}
}

type findRequest struct {
	id    int
	reply chan *Job
}

// Printer is one CUPS destination. Its watcher goroutine owns the tracked
// jobs and runs until Close.
type Printer struct {
	name         string
	runner       Runner
	commands     Commands
	pollInterval time.Duration
	logger       *slog.Logger
	installed    []string
	listed       bool

	ctx       context.Context
	cancel    context.CancelFunc
	register  chan *Job
	find      chan findRequest
	done      chan struct{}
	closeOnce sync.Once
}

// Open verifies the destination is installed and starts its watcher.
func Open(ctx context.Context, name string, opts ...Option) (*Printer, error) {
	p := &Printer{
		name:         name,
		runner:       DefaultRunner(),
		commands:     DefaultCommands(),
		pollInterval: DefaultPollInterval,
		logger:       logging.NewNop(),
		register:     make(chan *Job),
		find:         make(chan findRequest),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.NewComponentLogger(p.logger, "spool").With(logging.String("printer", name))

	if !p.listed {
		printers, err := List(ctx, p.runner, p.commands)
		if err != nil {
			return nil, err
		}
		p.installed = printers
	}
	if !Installed(p.installed, name) {
		return nil, failures.Wrap(failures.ErrPrinterNotFound, "spool", "open printer",
			fmt.Sprintf("%q is not installed", name), nil)
	}

	// The watcher outlives the caller's request but not the printer.
	p.ctx, p.cancel = context.WithCancel(context.WithoutCancel(ctx))
	go p.watch()
	return p, nil
}

// Name returns the destination name.
func (p *Printer) Name() string {
	return p.name
}

// PrintRaw queues data unmodified, bypassing CUPS filters.
func (p *Printer) PrintRaw(ctx context.Context, data []byte) (*Job, error) {
	args := []string{"-P", p.name, "-o", "raw"}
	return p.submit(ctx, p.commands.SubmitRaw, args, data)
}

// PrintBuffer queues data with lp options.
func (p *Printer) PrintBuffer(ctx context.Context, data []byte, opts SubmitOptions) (*Job, error) {
	args := append(opts.Args(), "-d", p.name)
	return p.submit(ctx, p.commands.Submit, args, data)
}

// PrintFile queues a file with lp options.
func (p *Printer) PrintFile(ctx context.Context, path string, opts SubmitOptions) (*Job, error) {
	args := append(opts.Args(), "-d", p.name, "--", path)
	return p.submit(ctx, p.commands.Submit, args, nil)
}

func (p *Printer) submit(ctx context.Context, binary string, args []string, stdin []byte) (*Job, error) {
	if p.ctx.Err() != nil {
		return nil, ErrClosed
	}
	job := newJob(p.runner, p.commands.Cancel, p.logger)
	go func() {
		res, err := p.runner.Run(ctx, binary, args, stdin)
		job.finishSubmit(binary, res, err)
		if job.State() != StateSent {
			return
		}
		if job.ID() == 0 {
			p.logger.Warn("print job not tracked",
				logging.String("reason", "spool did not report a job identifier"))
			return
		}
		select {
		case p.register <- job:
		case <-p.ctx.Done():
		}
	}()
	return job, nil
}

// FindJob returns the tracked job with the given identifier.
func (p *Printer) FindJob(ctx context.Context, id int) (*Job, bool) {
	req := findRequest{id: id, reply: make(chan *Job, 1)}
	select {
	case p.find <- req:
	case <-p.done:
		return nil, false
	case <-ctx.Done():
		return nil, false
	}
	select {
	case job := <-req.reply:
		return job, job != nil
	case <-ctx.Done():
		return nil, false
	}
}

// Close stops the watcher and waits for it to exit. Tracked jobs keep their
// last state.
func (p *Printer) Close() error {
	p.closeOnce.Do(func() {
		p.cancel()
		<-p.done
	})
	return nil
}

// watch serves registrations and lookups and polls the queue while any job
// is tracked.
func (p *Printer) watch() {
	defer close(p.done)
	timer := time.NewTimer(p.pollInterval)
	timer.Stop()
	armed := false
	var jobs []*Job
	for {
		select {
		case <-p.ctx.Done():
			timer.Stop()
			return
		case job := <-p.register:
			jobs = append(jobs, job)
			if !armed {
				timer.Reset(p.pollInterval)
				armed = true
			}
		case req := <-p.find:
			req.reply <- lookup(jobs, req.id)
		case <-timer.C:
			armed = false
			jobs = p.poll(jobs)
			if len(jobs) > 0 {
				timer.Reset(p.pollInterval)
				armed = true
			}
		}
	}
}

// poll runs one queue query and reconciles every tracked job once. Jobs
// that leave the queue or reach a terminal state stop being tracked.
func (p *Printer) poll(jobs []*Job) []*Job {
	rows, err := Query(p.ctx, p.runner, p.commands, p.name)
	if err != nil {
		if p.ctx.Err() == nil {
			p.logger.Debug("queue query failed", logging.Error(err))
		}
		return jobs
	}

	kept := jobs[:0]
	for _, job := range jobs {
		if job.State().Terminal() {
			continue
		}
		if status, ok := match(rows, job.ID()); ok {
			job.update(status)
			kept = append(kept, job)
			continue
		}
		job.unqueue()
	}
	clear(jobs[len(kept):])
	return kept
}

func match(rows []Status, id int) (Status, bool) {
	for _, row := range rows {
		if row.ID == id {
			return row, true
		}
	}
	return Status{}, false
}

func lookup(jobs []*Job, id int) *Job {
	for _, job := range jobs {
		if job.ID() == id {
			return job
		}
	}
	return nil
}
