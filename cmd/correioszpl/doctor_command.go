package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"correioszpl/internal/deps"
	"correioszpl/internal/preflight"
	"correioszpl/internal/spool"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check printers, CUPS tools and directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failed := 0

			fmt.Fprintln(out, renderSectionHeader("Printer", colorize))
			fmt.Fprintln(out, renderCheckLine("Transport", statusInfo, cfg.Printer.Type, colorize))
			for _, r := range preflight.RunAll(cmd.Context(), cfg, spool.DefaultRunner()) {
				kind := checkKind(r.Passed, false)
				if kind == statusError {
					failed++
				}
				fmt.Fprintln(out, renderCheckLine(r.Name, kind, r.Detail, colorize))
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, renderSectionHeader("CUPS tools", colorize))
			tools := preflight.CheckSystemDeps(cfg)
			for _, st := range tools {
				fmt.Fprintln(out, renderCheckLine(st.Role, checkKind(st.Available(), st.Optional), st.Detail(), colorize))
			}
			failed += len(deps.Missing(tools))

			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}
