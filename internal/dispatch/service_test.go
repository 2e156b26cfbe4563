package dispatch

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"correioszpl/internal/failures"
	"correioszpl/internal/journal"
	"correioszpl/internal/logging"
	"correioszpl/internal/spool"
	"correioszpl/internal/zpl"
)

type memoryJournal struct {
	mu      sync.Mutex
	entries map[string]journal.Dispatch
	events  map[string][]string
}

func newMemoryJournal() *memoryJournal {
	return &memoryJournal{
		entries: make(map[string]journal.Dispatch),
		events:  make(map[string][]string),
	}
}

func (m *memoryJournal) Record(_ context.Context, d journal.Dispatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[d.ID] = d
	return nil
}

func (m *memoryJournal) RecordEvent(_ context.Context, id, event, _ string, status journal.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[id] = append(m.events[id], event)
	d := m.entries[id]
	if !d.Status.Terminal() {
		d.Status = status
	}
	m.entries[id] = d
	return nil
}

func (m *memoryJournal) get(id string) (journal.Dispatch, []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[id], append([]string(nil), m.events[id]...)
}

func (m *memoryJournal) only(t *testing.T) journal.Dispatch {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.Len(t, m.entries, 1)
	for _, d := range m.entries {
		return d
	}
	return journal.Dispatch{}
}

func newTestService(t *testing.T, opts ...ServiceOption) *Service {
	t.Helper()
	svc, err := NewService(logging.NewNop(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestRenderProducesDocument(t *testing.T) {
	svc := newTestService(t)
	workDir := t.TempDir()
	original := sampleLabel()

	doc, err := svc.Render(context.Background(), Request{
		Options: &Options{WorkDir: workDir},
		Label:   original,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc, "^XA\n"))
	assert.True(t, strings.HasSuffix(doc, "^XZ"))
	assert.Contains(t, doc, "^MD20")
	assert.Contains(t, doc, "^FO305,50^GFA,")
	assert.Contains(t, doc, "AB 123 456 789 BR")
	assert.Contains(t, doc, "Peso (g): 500")

	logos, err := zpl.DefaultLogos(svc.embedder.Compressor())
	require.NoError(t, err)
	assert.Contains(t, doc, "^FO620,50"+logos.Sedex+"^FS")

	// The caller's label is not prepared in place.
	assert.Empty(t, original.HumanTrackNumber)
	assert.Equal(t, "01310100", string(original.Recipient.ZipCode))
}

func TestRenderIsDeterministic(t *testing.T) {
	svc := newTestService(t)
	req := Request{Options: &Options{WorkDir: t.TempDir(), DarknessLevel: 12}, Label: sampleLabel()}

	first, err := svc.Render(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Render(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "^MD12")
}

func TestRenderCustomLogo(t *testing.T) {
	svc := newTestService(t)
	doc, err := svc.Render(context.Background(), Request{
		Options: &Options{WorkDir: t.TempDir(), CustomLogoZPL: "^GFA,2,2,1,FF"},
		Label:   sampleLabel(),
	})
	require.NoError(t, err)
	assert.Contains(t, doc, "^FO40,50^GFA,2,2,1,FF^FS")
}

func TestRenderValidation(t *testing.T) {
	svc := newTestService(t)
	workDir := t.TempDir()

	_, err := svc.Render(context.Background(), Request{Options: &Options{WorkDir: workDir}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, failures.ErrValidation))
	assert.Contains(t, err.Error(), "label")

	noSender := sampleLabel()
	noSender.Sender = nil
	_, err = svc.Render(context.Background(), Request{Options: &Options{WorkDir: workDir}, Label: noSender})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sender")

	_, err = svc.Render(context.Background(), Request{Options: &Options{WorkDir: workDir, DarknessLevel: 99}, Label: sampleLabel()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "darknessLevel")
}

func TestPrintLabelNetworkJournaled(t *testing.T) {
	ln, host, port := listen(t)
	var received atomic.Int64
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		n, _ := io.Copy(io.Discard, conn)
		received.Store(n)
	}()

	j := newMemoryJournal()
	svc := newTestService(t, WithJournal(j))
	res, err := svc.PrintLabel(testContext(t), Request{
		Options: &Options{WorkDir: t.TempDir(), PrinterType: TypeNetwork, PrinterAddress: host, PrinterPort: port},
		Label:   sampleLabel(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.ID)

	entry, _ := j.get(res.ID)
	assert.Equal(t, journal.StatusSent, entry.Status)
	assert.Equal(t, "AB123456789BR", entry.TrackNumber)
	assert.Equal(t, TypeNetwork, entry.Transport)
	assert.Equal(t, net.JoinHostPort(host, strconv.Itoa(port)), entry.Destination)
}

func TestPrintLabelFailureJournaled(t *testing.T) {
	runner := newStubRunner()
	j := newMemoryJournal()
	d := NewDispatcher(logging.NewNop(), WithRunner(runner))
	svc := newTestService(t, WithJournal(j), WithDispatcher(d))

	_, err := svc.PrintLabel(testContext(t), Request{
		Options: &Options{WorkDir: t.TempDir(), PrinterName: "Missing"},
		Label:   sampleLabel(),
	})
	require.Error(t, err)

	entry := j.only(t)
	assert.Equal(t, journal.Status(failures.StatusInvalid), entry.Status)
	assert.Contains(t, entry.ErrorMessage, "Missing")
	assert.Equal(t, "Missing", entry.Destination)
}

func TestPrintLabelRequiresSectionsBeforeIO(t *testing.T) {
	runner := newStubRunner()
	j := newMemoryJournal()
	d := NewDispatcher(logging.NewNop(), WithRunner(runner))
	svc := newTestService(t, WithJournal(j), WithDispatcher(d))
	t.Chdir(t.TempDir())

	_, err := svc.PrintLabel(testContext(t), Request{Label: sampleLabel()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, failures.ErrValidation))
	assert.Contains(t, err.Error(), "options")

	_, err = svc.PrintLabel(testContext(t), Request{Options: &Options{PrinterName: "Zebra"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "label")

	_, statErr := os.Stat(defaultWorkDir)
	assert.True(t, os.IsNotExist(statErr), "work dir must not be created")
	assert.Zero(t, runner.count("lpstat"))
	assert.Empty(t, j.entries)
}

func TestPrintLabelInvalidOptionsSkipRender(t *testing.T) {
	j := newMemoryJournal()
	svc := newTestService(t, WithJournal(j))
	workDir := filepath.Join(t.TempDir(), "work")

	_, err := svc.PrintLabel(testContext(t), Request{
		Options: &Options{WorkDir: workDir, PrinterType: TypeNetwork},
		Label:   sampleLabel(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "printerAddress")

	_, statErr := os.Stat(workDir)
	assert.True(t, os.IsNotExist(statErr), "work dir must not be created")
	assert.Equal(t, journal.Status(failures.StatusInvalid), j.only(t).Status)
}

func TestPrintLabelSpoolFollowsJob(t *testing.T) {
	runner := newStubRunner()
	var polls atomic.Int32
	runner.on("lpq", func([]string, []byte) (spool.Result, error) {
		if polls.Add(1) == 1 {
			return spool.Result{Stdout: "Zebra is ready and printing\nRank    Owner   Job     File(s)                         Total Size\nactive  maria   42      (stdin)                         1024 bytes\n"}, nil
		}
		return spool.Result{Stdout: "Zebra is ready\nno entries\n"}, nil
	})
	j := newMemoryJournal()
	d := NewDispatcher(logging.NewNop(), WithRunner(runner), WithPollInterval(5*time.Millisecond))
	svc := newTestService(t, WithJournal(j), WithDispatcher(d))
	ctx := testContext(t)

	res, err := svc.PrintLabel(ctx, Request{
		Options: &Options{WorkDir: t.TempDir(), PrinterName: "Zebra"},
		Label:   sampleLabel(),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Job)

	state, err := res.Job.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, spool.StateCompleted, state)

	require.Eventually(t, func() bool {
		entry, _ := j.get(res.ID)
		return entry.Status == journal.StatusCompleted
	}, 2*time.Second, 5*time.Millisecond)

	entry, events := j.get(res.ID)
	assert.Equal(t, 42, entry.JobID)
	assert.Equal(t, []string{"updated", "completed"}, events)
}

func TestEventStatus(t *testing.T) {
	status, detail, ok := eventStatus(spool.Event{Type: spool.EventUpdated, Status: spool.Status{Position: 2}})
	assert.True(t, ok)
	assert.Equal(t, journal.StatusSent, status)
	assert.Equal(t, "rank 2", detail)

	_, _, ok = eventStatus(spool.Event{Type: spool.EventSent})
	assert.False(t, ok)

	status, _, ok = eventStatus(spool.Event{Type: spool.EventDeleted})
	assert.True(t, ok)
	assert.Equal(t, journal.StatusDeleted, status)
}
