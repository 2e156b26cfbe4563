package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"correioszpl/internal/config"
	"correioszpl/internal/label"
	"correioszpl/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	cfg.Logging.Level = "error"
	base := testsupport.BaseDir(cfg)
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string, stdin io.Reader) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeRequest(t *testing.T, dir string, options map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, "request.json")
	testsupport.WriteJSON(t, path, map[string]any{
		"options": options,
		"label":   sampleLabel(),
	})
	return path
}

func sampleLabel() *label.Label {
	return &label.Label{
		TrackNumber:  "PN123456789BR",
		ServiceCode:  "03298",
		ServiceName:  "PAC CONTRATO AG",
		Weight:       320,
		InvoiceValue: label.AmountText("45.90"),
		Recipient: &label.Recipient{
			Address: label.Address{
				Name:          "Joao Lima",
				Address:       "Rua das Flores",
				AddressNumber: "42",
				City:          "Curitiba",
				State:         "PR",
				ZipCode:       "80010000",
			},
			Phone: "41999990000",
		},
		Sender: &label.Address{
			Name:          "Loja Exemplo",
			Address:       "Rua da Assembleia",
			AddressNumber: "100",
			City:          "Rio de Janeiro",
			State:         "RJ",
			ZipCode:       "20040020",
		},
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
