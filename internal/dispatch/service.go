package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"correioszpl/internal/failures"
	"correioszpl/internal/journal"
	"correioszpl/internal/label"
	"correioszpl/internal/logging"
	"correioszpl/internal/spool"
	"correioszpl/internal/symbol"
	"correioszpl/internal/zpl"
)

// Request is one label to render or print. Render treats nil Options as
// defaults; PrintLabel requires them.
type Request struct {
	Options *Options     `json:"options"`
	Label   *label.Label `json:"label"`
}

// Journal persists dispatch outcomes.
type Journal interface {
	Record(ctx context.Context, d journal.Dispatch) error
	RecordEvent(ctx context.Context, dispatchID, event, detail string, status journal.Status) error
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithEmbedder replaces the symbol embedder.
func WithEmbedder(e *symbol.Embedder) ServiceOption {
	return func(s *Service) {
		if e != nil {
			s.embedder = e
		}
	}
}

// WithLogos replaces the built-in carrier marks.
func WithLogos(l zpl.Logos) ServiceOption {
	return func(s *Service) {
		s.logos = &l
	}
}

// WithDispatcher replaces the default dispatcher.
func WithDispatcher(d *Dispatcher) ServiceOption {
	return func(s *Service) {
		if d != nil {
			s.dispatcher = d
		}
	}
}

// WithJournal records every PrintLabel outcome.
func WithJournal(j Journal) ServiceOption {
	return func(s *Service) {
		s.journal = j
	}
}

// Service renders and prints labels.
type Service struct {
	embedder   *symbol.Embedder
	logos      *zpl.Logos
	dispatcher *Dispatcher
	journal    Journal
	logger     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService wires the label pipeline. Without WithLogos the built-in marks
// are rendered through the embedder's compressor.
func NewService(logger *slog.Logger, opts ...ServiceOption) (*Service, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Service{
		logger: logging.NewComponentLogger(logger, "labels"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.embedder == nil {
		s.embedder = symbol.NewEmbedder(logger)
	}
	if s.logos == nil {
		logos, err := zpl.DefaultLogos(s.embedder.Compressor())
		if err != nil {
			return nil, fmt.Errorf("render default logos: %w", err)
		}
		s.logos = &logos
	}
	if s.dispatcher == nil {
		s.dispatcher = NewDispatcher(logger)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s, nil
}

// Render returns the ZPL document for req without printing it. The caller's
// label is left untouched.
func (s *Service) Render(ctx context.Context, req Request) (string, error) {
	opts := requestOptions(req)
	if err := opts.validateRender(); err != nil {
		return "", err
	}
	if req.Label == nil {
		return "", failures.Validation("label", "section is required")
	}

	l := cloneLabel(req.Label)
	if err := label.Prepare(l); err != nil {
		return "", err
	}

	payload := label.Payload(l)
	sym, err := s.embedder.Embed(ctx, opts.WorkDir, payload)
	if err != nil {
		return "", err
	}

	mark := zpl.SelectLogo(l.ServiceName)
	logging.WithContext(ctx, s.logger).Debug("label rendered",
		logging.String(logging.FieldTrackNumber, l.TrackNumber),
		logging.String("logo", mark.String()),
	)
	return zpl.Assemble(zpl.Document{
		Label:         l,
		MailLogo:      s.logos.For(mark),
		Symbol:        sym,
		DarknessLevel: opts.DarknessLevel,
		CustomLogo:    opts.CustomLogoZPL,
	}), nil
}

// PrintLabel renders req and delivers it. Missing sections and invalid
// options fail before the work dir or the printer is touched. Spool jobs keep
// being journaled until they finish or the service is closed.
func (s *Service) PrintLabel(ctx context.Context, req Request) (*Result, error) {
	switch {
	case req.Options == nil:
		return nil, failures.Validation("options", "section is required")
	case req.Label == nil:
		return nil, failures.Validation("label", "section is required")
	}

	id := uuid.NewString()
	ctx = logging.WithRequestID(ctx, id)
	logger := logging.WithContext(ctx, s.logger)
	opts := requestOptions(req)

	if err := opts.Validate(); err != nil {
		s.record(ctx, id, req, opts, nil, err)
		return nil, err
	}

	doc, err := s.Render(ctx, req)
	if err != nil {
		s.record(ctx, id, req, opts, nil, err)
		return nil, err
	}

	res, err := s.dispatcher.Dispatch(ctx, doc, opts)
	s.record(ctx, id, req, opts, res, err)
	if err != nil {
		return nil, err
	}
	res.ID = id

	if res.Job != nil && s.journal != nil {
		s.wg.Add(1)
		go s.follow(id, res.Job, logger)
	}
	return res, nil
}

// Dispatcher exposes the underlying dispatcher.
func (s *Service) Dispatcher() *Dispatcher {
	return s.dispatcher
}

// Close stops journaling job events and closes the dispatcher.
func (s *Service) Close() error {
	s.cancel()
	s.wg.Wait()
	return s.dispatcher.Close()
}

func (s *Service) record(ctx context.Context, id string, req Request, opts Options, res *Result, dispatchErr error) {
	if s.journal == nil {
		return
	}
	entry := journal.Dispatch{
		ID:          id,
		Transport:   opts.PrinterType,
		Destination: destination(opts),
		Status:      journal.StatusSent,
	}
	if req.Label != nil {
		entry.TrackNumber = req.Label.TrackNumber
		entry.ServiceName = req.Label.ServiceName
	}
	if res != nil {
		entry.Transport = res.Transport
		entry.Destination = res.Destination
		if res.Job != nil {
			entry.JobID = res.Job.ID()
		}
	}
	if dispatchErr != nil {
		entry.Status = journal.Status(failures.Status(dispatchErr))
		entry.ErrorMessage = dispatchErr.Error()
	}
	if err := s.journal.Record(context.WithoutCancel(ctx), entry); err != nil {
		logging.WithContext(ctx, s.logger).Warn("journal record failed", logging.Error(err))
	}
}

func (s *Service) follow(id string, job *spool.Job, logger *slog.Logger) {
	defer s.wg.Done()
	events := job.Events()
	for {
		select {
		case <-s.ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			status, detail, record := eventStatus(evt)
			if !record {
				continue
			}
			if err := s.journal.RecordEvent(s.ctx, id, string(evt.Type), detail, status); err != nil {
				logger.Warn("journal event failed",
					logging.String("event", string(evt.Type)),
					logging.Error(err),
				)
			}
		}
	}
}

// eventStatus maps a job event to the journal. The sent event is already
// covered by the dispatch row.
func eventStatus(evt spool.Event) (journal.Status, string, bool) {
	switch evt.Type {
	case spool.EventUpdated:
		return journal.StatusSent, "rank " + evt.Status.Rank(), true
	case spool.EventCompleted:
		return journal.StatusCompleted, "", true
	case spool.EventDeleted:
		return journal.StatusDeleted, "", true
	case spool.EventError:
		msg := ""
		if evt.Err != nil {
			msg = evt.Err.Error()
		}
		return journal.StatusFailed, msg, true
	default:
		return "", "", false
	}
}

func requestOptions(req Request) Options {
	if req.Options == nil {
		return Options{}.withDefaults()
	}
	return req.Options.withDefaults()
}

func destination(opts Options) string {
	if opts.PrinterType == TypeNetwork {
		return net.JoinHostPort(opts.PrinterAddress, strconv.Itoa(opts.PrinterPort))
	}
	return opts.PrinterName
}

func cloneLabel(src *label.Label) *label.Label {
	l := *src
	if src.Recipient != nil {
		r := *src.Recipient
		l.Recipient = &r
	}
	if src.Sender != nil {
		a := *src.Sender
		l.Sender = &a
	}
	return &l
}
