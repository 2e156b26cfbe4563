package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"correioszpl/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var failedOnly bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently dispatched labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openJournal()
			if err != nil {
				return err
			}
			defer store.Close()

			var statuses []journal.Status
			if failedOnly {
				statuses = []journal.Status{journal.StatusFailed, journal.StatusInvalid}
			}
			entries, err := store.List(cmd.Context(), limit, statuses...)
			if err != nil {
				return err
			}

			if jsonOutput {
				if entries == nil {
					entries = []*journal.Dispatch{}
				}
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No labels dispatched yet")
				return nil
			}
			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(entries))
			for _, d := range entries {
				job := ""
				if d.JobID > 0 {
					job = strconv.Itoa(d.JobID)
				}
				rows = append(rows, []string{
					shortID(d.ID),
					d.CreatedAt.Local().Format(time.DateTime),
					d.TrackNumber,
					d.Destination,
					job,
					paint(string(d.Status), dispatchKind(d.Status), colorize),
				})
			}
			fmt.Fprintln(out, tableSpec{
				headers: []string{"ID", "Created", "Track", "Printer", "Job", "Status"},
				rows:    rows,
				aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			}.render(out))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries (0 for all)")
	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Only show failed or invalid dispatches")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	cmd.AddCommand(newHistoryPruneCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one dispatch and its job events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openJournal()
			if err != nil {
				return err
			}
			defer store.Close()

			d, err := store.Lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if d == nil {
				return fmt.Errorf("dispatch %s not found", args[0])
			}
			events, err := store.Events(cmd.Context(), d.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:          %s\n", d.ID)
			fmt.Fprintf(out, "Track:       %s\n", d.TrackNumber)
			if d.ServiceName != "" {
				fmt.Fprintf(out, "Service:     %s\n", d.ServiceName)
			}
			fmt.Fprintf(out, "Transport:   %s\n", d.Transport)
			fmt.Fprintf(out, "Destination: %s\n", d.Destination)
			fmt.Fprintf(out, "Status:      %s\n", d.Status)
			if d.JobID > 0 {
				fmt.Fprintf(out, "Job:         %d\n", d.JobID)
			}
			if d.ErrorMessage != "" {
				fmt.Fprintf(out, "Error:       %s\n", d.ErrorMessage)
			}
			fmt.Fprintf(out, "Created:     %s\n", d.CreatedAt.Local().Format(time.DateTime))
			fmt.Fprintf(out, "Updated:     %s\n", d.UpdatedAt.Local().Format(time.DateTime))
			for _, evt := range events {
				line := fmt.Sprintf("  %s  %s", evt.CreatedAt.Local().Format(time.TimeOnly), evt.Event)
				if evt.Detail != "" {
					line += " (" + evt.Detail + ")"
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete journal entries older than a cutoff",
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}
			store, err := ctx.openJournal()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Prune(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries\n", removed)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Age of entries to remove")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
