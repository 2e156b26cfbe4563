package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"correioszpl/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool
	var printer config.Printer

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample configuration file",
		Long: `Create a sample configuration file.

The [printer] section is filled from the flags, so

  correioszpl config init --type network --address 10.0.0.5

writes a file that is ready to print to a network label printer.`,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(targetPath)
			if err != nil {
				return err
			}
			if err := config.CreateSample(target, printer, overwrite); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			if !strings.EqualFold(strings.TrimSpace(printer.Type), "network") && strings.TrimSpace(printer.Name) == "" {
				fmt.Fprintf(out, "Set printer.name (or export %s) before printing to a spool printer.\n", config.PrinterNameEnv)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	cmd.Flags().StringVar(&printer.Type, "type", "", "Printer transport: network or spool")
	cmd.Flags().StringVar(&printer.Address, "address", "", "Network printer address")
	cmd.Flags().IntVar(&printer.Port, "port", 0, "Network printer port (default 9100)")
	cmd.Flags().StringVar(&printer.Name, "printer", "", "CUPS destination name")
	return cmd
}

// initTarget resolves where config init writes, defaulting to the user
// config path.
func initTarget(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		target, err := config.DefaultConfigPath()
		if err != nil {
			return "", fmt.Errorf("determine default config path: %w", err)
		}
		return target, nil
	}
	target, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return target, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, resolved, exists, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", resolved)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintf(out, "Printer: %s", cfg.Printer.Type)
			if cfg.Printer.Type == "network" {
				fmt.Fprintf(out, " %s:%d\n", cfg.Printer.Address, cfg.Printer.Port)
			} else {
				fmt.Fprintf(out, " %q\n", cfg.Printer.Name)
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
