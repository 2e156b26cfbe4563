package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file locations.
type Paths struct {
	WorkDir     string `toml:"work_dir"`
	JournalPath string `toml:"journal_path"`
	LogDir      string `toml:"log_dir"`
}

// Logos points at PNG artwork for the carrier marks. Empty entries keep the
// built-in marks.
type Logos struct {
	PAC              string `toml:"pac"`
	Sedex            string `toml:"sedex"`
	Sedex10          string `toml:"sedex10"`
	RegisteredLetter string `toml:"registered_letter"`
}

// Label contains label rendering defaults.
type Label struct {
	DarknessLevel int    `toml:"darkness_level"`
	CustomLogo    string `toml:"custom_logo"`
	Logos         Logos  `toml:"logos"`
}

// Printer contains the default transport.
type Printer struct {
	Type      string `toml:"type"`
	Address   string `toml:"address"`
	Port      int    `toml:"port"`
	TimeoutMS int    `toml:"timeout_ms"`
	Name      string `toml:"name"`
}

// Spool contains the CUPS client binaries and the queue poll interval.
type Spool struct {
	ListCommand      string `toml:"list_command"`
	QueryCommand     string `toml:"query_command"`
	SubmitCommand    string `toml:"submit_command"`
	RawSubmitCommand string `toml:"raw_submit_command"`
	CancelCommand    string `toml:"cancel_command"`
	PollIntervalMS   int    `toml:"poll_interval_ms"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for correioszpl.
//
// Configuration sections:
//   - Paths: scratch directory, journal database, log directory
//   - Label: darkness and logo artwork
//   - Printer: network or spool transport defaults
//   - Spool: CUPS binaries and watcher poll interval
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Label   Label   `toml:"label"`
	Printer Printer `toml:"printer"`
	Spool   Spool   `toml:"spool"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the scratch, journal, and log directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.WorkDir, filepath.Dir(c.Paths.JournalPath)}
	if c.Paths.LogDir != "" {
		dirs = append(dirs, c.Paths.LogDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// PollInterval returns the spool watcher interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Spool.PollIntervalMS) * time.Millisecond
}

// SpoolBinaries lists the configured CUPS binaries in list, query, submit,
// raw submit, cancel order.
func (c *Config) SpoolBinaries() []string {
	return []string{
		c.Spool.ListCommand,
		c.Spool.QueryCommand,
		c.Spool.SubmitCommand,
		c.Spool.RawSubmitCommand,
		c.Spool.CancelCommand,
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleFor returns the sample configuration with its [printer] section set
// to p. Zero fields keep the defaults; a network printer needs an address.
func SampleFor(p Printer) (string, error) {
	printer := Default().Printer
	if t := strings.ToLower(strings.TrimSpace(p.Type)); t != "" {
		printer.Type = t
	}
	if a := strings.TrimSpace(p.Address); a != "" {
		printer.Address = a
	}
	if p.Port != 0 {
		printer.Port = p.Port
	}
	if n := strings.TrimSpace(p.Name); n != "" {
		printer.Name = n
	}
	check := Config{Printer: printer}
	if err := check.validatePrinter(); err != nil {
		return "", err
	}
	if printer.Type == "network" && printer.Address == "" {
		return "", errors.New("printer.address is required for network printers")
	}

	values := map[string]string{
		"type":    strconv.Quote(printer.Type),
		"address": strconv.Quote(printer.Address),
		"port":    strconv.Itoa(printer.Port),
		"name":    strconv.Quote(printer.Name),
	}
	var b strings.Builder
	section := ""
	for _, line := range strings.SplitAfter(sampleConfig, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "["):
			section = trimmed
		case section == "[printer]" && !strings.HasPrefix(trimmed, "#"):
			if key, _, ok := strings.Cut(trimmed, "="); ok {
				key = strings.TrimSpace(key)
				if v, found := values[key]; found {
					line = key + " = " + v + "\n"
				}
			}
		}
		b.WriteString(line)
	}
	return b.String(), nil
}

// CreateSample writes the sample configuration for p to path. An existing
// file is left alone unless overwrite is set.
func CreateSample(path string, p Printer, overwrite bool) error {
	content, err := SampleFor(p)
	if err != nil {
		return fmt.Errorf("sample printer: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("config file already exists at %s (use --overwrite to replace it): %w", path, err)
	}
	if err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("write sample config: %w", err)
	}
	return f.Close()
}
