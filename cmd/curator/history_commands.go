package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"curator/internal/history"
	"curator/internal/report"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past organizer runs",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))

	return historyCmd
}

func withHistoryStore(ctx *commandContext, fn func(*history.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		return fmt.Errorf("open run history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistoryStore(ctx, func(store *history.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded yet")
					return nil
				}

				headers := []string{"Run", "Mode", "Status", "Actions", "Errors", "Duration", "Started"}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						run.ID[:8],
						run.Mode,
						string(run.Status),
						strconv.Itoa(run.TotalLines),
						strconv.Itoa(run.Counts[report.KindError]),
						formatTicks(run.DurationTicks),
						run.StartedAt.Local().Format(time.DateTime),
					})
				}
				aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft}
				fmt.Fprintln(out, renderTable(headers, rows, aligns))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run and its recorded actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistoryStore(ctx, func(store *history.Store) error {
				run, err := findRun(cmd, store, args[0])
				if err != nil {
					return err
				}
				records, err := store.Actions(cmd.Context(), run.ID)
				if err != nil {
					return err
				}

				if asJSON {
					return writeJSON(cmd, struct {
						Run     *history.Run          `json:"run"`
						Actions []report.ActionRecord `json:"actions"`
					}{Run: run, Actions: records})
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				fmt.Fprintf(out, "Run %s\n", run.ID)
				fmt.Fprintf(out, "  Mode:      %s\n", run.Mode)
				fmt.Fprintf(out, "  Rule file: %s\n", run.RuleFile)
				fmt.Fprintf(out, "  Status:    %s\n", run.Status)
				fmt.Fprintf(out, "  Exit code: %d\n", run.ExitCode)
				fmt.Fprintf(out, "  Succeeded: %s\n", yesNo(run.Succeeded()))
				fmt.Fprintf(out, "  Started:   %s\n", run.StartedAt.Local().Format(time.DateTime))
				if run.FinishedAt != nil {
					fmt.Fprintf(out, "  Finished:  %s\n", run.FinishedAt.Local().Format(time.DateTime))
				}
				if len(records) == 0 {
					fmt.Fprintln(out, "  No actions recorded")
					return nil
				}
				fmt.Fprintln(out)
				for _, rec := range records {
					fmt.Fprintln(out, renderRecord(rec, colorize))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the run and its actions as JSON")
	return cmd
}

// findRun resolves a full or abbreviated run identifier. Abbreviations match
// against the most recent runs only.
func findRun(cmd *cobra.Command, store *history.Store, id string) (*history.Run, error) {
	run, err := store.GetRun(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	if run != nil {
		return run, nil
	}

	runs, err := store.ListRuns(cmd.Context(), 100)
	if err != nil {
		return nil, err
	}
	var match *history.Run
	for _, candidate := range runs {
		if len(id) >= 4 && len(id) <= len(candidate.ID) && candidate.ID[:len(id)] == id {
			if match != nil {
				return nil, fmt.Errorf("run id %q is ambiguous", id)
			}
			match = candidate
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no run found for id %q", id)
	}
	return match, nil
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear history without --yes")
			}
			return withHistoryStore(ctx, func(store *history.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d runs\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")
	return cmd
}
