package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"correioszpl/internal/label"
	"correioszpl/internal/spool"
)

type stubRunner struct {
	mu      sync.Mutex
	calls   map[string]int
	results map[string]func(args []string, stdin []byte) (spool.Result, error)
}

func newStubRunner() *stubRunner {
	return &stubRunner{
		calls: make(map[string]int),
		results: map[string]func([]string, []byte) (spool.Result, error){
			"lpstat": func([]string, []byte) (spool.Result, error) {
				return spool.Result{Stdout: "Office\nZebra\n"}, nil
			},
			"lpq": func([]string, []byte) (spool.Result, error) {
				return spool.Result{Stdout: "Zebra is ready\nno entries\n"}, nil
			},
			"lpr": func([]string, []byte) (spool.Result, error) {
				return spool.Result{Stdout: "request id is Zebra-42 (0 file(s))\n"}, nil
			},
		},
	}
}

func (s *stubRunner) on(binary string, fn func(args []string, stdin []byte) (spool.Result, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[binary] = fn
}

func (s *stubRunner) Run(ctx context.Context, binary string, args []string, stdin []byte) (spool.Result, error) {
	s.mu.Lock()
	s.calls[binary]++
	fn := s.results[binary]
	s.mu.Unlock()
	if fn == nil {
		return spool.Result{}, errors.New("unexpected binary " + binary)
	}
	return fn(args, stdin)
}

func (s *stubRunner) count(binary string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[binary]
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func sampleLabel() *label.Label {
	return &label.Label{
		TrackNumber:  "AB123456789BR",
		ServiceCode:  "03220",
		ServiceName:  "SEDEX CONTRATO AG",
		Invoice:      "4512",
		Weight:       500,
		InvoiceValue: label.Number(12.7),
		Recipient: &label.Recipient{
			Address: label.Address{
				Name:          "Maria Souza",
				Address:       "Avenida Paulista",
				AddressNumber: "1578",
				Complement:    "Apto 12",
				Neighborhood:  "Bela Vista",
				City:          "Sao Paulo",
				State:         "SP",
				ZipCode:       "01310100",
			},
			Phone: "11987654321",
		},
		Sender: &label.Address{
			Name:          "Loja Exemplo",
			Address:       "Rua da Assembleia",
			AddressNumber: "100",
			City:          "Rio de Janeiro",
			State:         "RJ",
			ZipCode:       "20040-020",
		},
	}
}
