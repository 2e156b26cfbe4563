package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeLabel(); err != nil {
		return err
	}
	c.normalizePrinter()
	c.normalizeSpool()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.JournalPath) == "" {
		c.Paths.JournalPath = defaultJournalPath
	}
	if c.Paths.JournalPath, err = expandPath(c.Paths.JournalPath); err != nil {
		return fmt.Errorf("paths.journal_path: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLabel() error {
	if c.Label.DarknessLevel == 0 {
		c.Label.DarknessLevel = defaultDarknessLevel
	}
	files := map[string]*string{
		"label.custom_logo":             &c.Label.CustomLogo,
		"label.logos.pac":               &c.Label.Logos.PAC,
		"label.logos.sedex":             &c.Label.Logos.Sedex,
		"label.logos.sedex10":           &c.Label.Logos.Sedex10,
		"label.logos.registered_letter": &c.Label.Logos.RegisteredLetter,
	}
	for key, value := range files {
		expanded, err := expandPath(strings.TrimSpace(*value))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*value = expanded
	}
	return nil
}

func (c *Config) normalizePrinter() {
	c.Printer.Type = strings.ToLower(strings.TrimSpace(c.Printer.Type))
	if c.Printer.Type == "" {
		c.Printer.Type = defaultPrinterType
	}
	c.Printer.Address = strings.TrimSpace(c.Printer.Address)
	if c.Printer.Port == 0 {
		c.Printer.Port = defaultPrinterPort
	}
	if c.Printer.TimeoutMS == 0 {
		c.Printer.TimeoutMS = defaultTimeoutMS
	}
	if value, ok := os.LookupEnv(PrinterNameEnv); ok && strings.TrimSpace(value) != "" {
		c.Printer.Name = value
	}
	c.Printer.Name = strings.TrimSpace(c.Printer.Name)
}

func (c *Config) normalizeSpool() {
	defaults := Default().Spool
	fill := func(value *string, fallback string) {
		*value = strings.TrimSpace(*value)
		if *value == "" {
			*value = fallback
		}
	}
	fill(&c.Spool.ListCommand, defaults.ListCommand)
	fill(&c.Spool.QueryCommand, defaults.QueryCommand)
	fill(&c.Spool.SubmitCommand, defaults.SubmitCommand)
	fill(&c.Spool.RawSubmitCommand, defaults.RawSubmitCommand)
	fill(&c.Spool.CancelCommand, defaults.CancelCommand)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
