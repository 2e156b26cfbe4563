package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLabel(); err != nil {
		return err
	}
	if err := c.validatePrinter(); err != nil {
		return err
	}
	if err := c.validateSpool(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateLabel() error {
	if c.Label.DarknessLevel < 0 || c.Label.DarknessLevel > 30 {
		return errors.New("label.darkness_level must be between 0 and 30")
	}
	return nil
}

func (c *Config) validatePrinter() error {
	switch c.Printer.Type {
	case "network", "spool":
	default:
		return fmt.Errorf("printer.type must be network or spool, got %q", c.Printer.Type)
	}
	if c.Printer.Port < 1 || c.Printer.Port > 65535 {
		return errors.New("printer.port must be between 1 and 65535")
	}
	if c.Printer.TimeoutMS <= 0 {
		return errors.New("printer.timeout_ms must be positive")
	}
	return nil
}

func (c *Config) validateSpool() error {
	if c.Spool.PollIntervalMS < 0 {
		return errors.New("spool.poll_interval_ms must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
}
