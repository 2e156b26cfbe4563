package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"correioszpl/internal/spool"
)

func newPrintersCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "printers",
		Short: "List installed spool printers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			printers, err := spool.List(cmd.Context(), spool.DefaultRunner(), ctx.spoolCommands())
			if err != nil {
				return err
			}

			if jsonOutput {
				if printers == nil {
					printers = []string{}
				}
				return writeJSON(cmd, printers)
			}

			out := cmd.OutOrStdout()
			if len(printers) == 0 {
				fmt.Fprintln(out, "No printers installed")
				return nil
			}
			rows := make([][]string, 0, len(printers))
			for _, name := range printers {
				marker := ""
				if name == cfg.Printer.Name {
					marker = "*"
				}
				rows = append(rows, []string{name, marker})
			}
			fmt.Fprintln(out, tableSpec{
				headers: []string{"Printer", "Default"},
				rows:    rows,
			}.render(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newQueueCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "queue [printer]",
		Short: "Show the spool queue of a printer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			name := cfg.Printer.Name
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" {
				return fmt.Errorf("printer name required (argument or printer.name in config)")
			}

			rows, err := spool.Query(cmd.Context(), spool.DefaultRunner(), ctx.spoolCommands(), name)
			if err != nil {
				return err
			}

			if jsonOutput {
				type jsonRow struct {
					Rank      string `json:"rank"`
					Owner     string `json:"owner"`
					ID        int    `json:"id"`
					Files     string `json:"files"`
					TotalSize string `json:"total_size"`
				}
				items := make([]jsonRow, 0, len(rows))
				for _, r := range rows {
					items = append(items, jsonRow{Rank: r.Rank(), Owner: r.Owner, ID: r.ID, Files: r.Files, TotalSize: r.TotalSize})
				}
				return writeJSON(cmd, items)
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintf(out, "%s: no jobs queued\n", name)
				return nil
			}
			table := make([][]string, 0, len(rows))
			for _, r := range rows {
				table = append(table, []string{r.Rank(), strconv.Itoa(r.ID), r.Owner, r.Files, r.TotalSize})
			}
			fmt.Fprintln(out, tableSpec{
				headers: []string{"Rank", "Job", "Owner", "Files", "Size"},
				rows:    table,
				aligns:  []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignRight},
				footer:  name,
			}.render(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newCancelCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <job-id>",
		Short: "Cancel a spool job by identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid job id %q", args[0])
			}
			if err := spool.Cancel(cmd.Context(), spool.DefaultRunner(), ctx.spoolCommands(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Job %d cancelled\n", id)
			return nil
		},
	}
}
