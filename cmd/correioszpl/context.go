package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"correioszpl/internal/config"
	"correioszpl/internal/dispatch"
	"correioszpl/internal/journal"
	"correioszpl/internal/logging"
	"correioszpl/internal/preflight"
	"correioszpl/internal/spool"
	"correioszpl/internal/symbol"
	"correioszpl/internal/zpl"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) spoolCommands() spool.Commands {
	cfg, err := c.ensureConfig()
	if err != nil {
		return spool.DefaultCommands()
	}
	return preflight.SpoolCommands(cfg)
}

// labelService bundles what render and print need.
type labelService struct {
	service *dispatch.Service
	journal *journal.Store
	options dispatch.Options
}

func (s *labelService) Close() error {
	err := s.service.Close()
	if s.journal != nil {
		if cerr := s.journal.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// openService wires the label pipeline from config. The journal is only
// opened when withJournal is set.
func (c *commandContext) openService(withJournal bool) (*labelService, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	embedder := symbol.NewEmbedder(logger)
	logos, err := zpl.LoadLogos(zpl.LogoFiles{
		PAC:              cfg.Label.Logos.PAC,
		Sedex:            cfg.Label.Logos.Sedex,
		Sedex10:          cfg.Label.Logos.Sedex10,
		RegisteredLetter: cfg.Label.Logos.RegisteredLetter,
	}, embedder.Compressor())
	if err != nil {
		return nil, fmt.Errorf("load logos: %w", err)
	}

	options := dispatch.OptionsFromConfig(cfg)
	if cfg.Label.CustomLogo != "" {
		options.CustomLogoZPL, err = zpl.LogoFromPNG(cfg.Label.CustomLogo, embedder.Compressor())
		if err != nil {
			return nil, fmt.Errorf("load custom logo: %w", err)
		}
	}

	dispatcher := dispatch.NewDispatcher(logger,
		dispatch.WithCommands(c.spoolCommands()),
		dispatch.WithPollInterval(cfg.PollInterval()),
	)

	svcOpts := []dispatch.ServiceOption{
		dispatch.WithEmbedder(embedder),
		dispatch.WithLogos(logos),
		dispatch.WithDispatcher(dispatcher),
	}
	var store *journal.Store
	if withJournal {
		store, err = journal.Open(cfg.Paths.JournalPath)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		svcOpts = append(svcOpts, dispatch.WithJournal(store))
	}

	svc, err := dispatch.NewService(logger, svcOpts...)
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, err
	}
	return &labelService{service: svc, journal: store, options: options}, nil
}

func (c *commandContext) openJournal() (*journal.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := journal.Open(cfg.Paths.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return store, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
