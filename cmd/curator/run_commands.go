package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"curator/internal/config"
	"curator/internal/history"
	"curator/internal/report"
	"curator/internal/runlock"
	"curator/internal/services/organize"
)

func newSimCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sim [rule-file]",
		Short: "Preview what the organize engine would do",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeRun(ctx, cmd, organize.Simulate, firstArg(args))
		},
	}
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "run [rule-file]",
		Short: "Execute the organize engine against the filesystem",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirmExecution(cmd) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}
			return executeRun(ctx, cmd, organize.Execute, firstArg(args))
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func confirmExecution(cmd *cobra.Command) bool {
	fmt.Fprint(cmd.OutOrStdout(), "This will move files on disk. Continue? [y/N] ")
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// executeRun is the shared flow behind sim and run: serialize on the rule
// file, launch the engine, stream records to the terminal, and persist the
// outcome to the run history.
func executeRun(ctx *commandContext, cmd *cobra.Command, mode organize.Mode, ruleFileArg string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	ruleFile, err := resolveRuleFile(cfg, ruleFileArg)
	if err != nil {
		return err
	}

	lock := runlock.New(cfg.Paths.LogDir, ruleFile)
	if err := lock.Acquire(); err != nil {
		if errors.Is(err, runlock.ErrHeld) {
			return fmt.Errorf("%w (rule file %s)", runlock.ErrHeld, ruleFile)
		}
		return err
	}
	defer func() { _ = lock.Release() }()

	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		return fmt.Errorf("open run history: %w", err)
	}
	defer store.Close()

	stored, err := store.Begin(cmd.Context(), string(mode), ruleFile)
	if err != nil {
		return fmt.Errorf("record run start: %w", err)
	}

	client := organize.NewClient(
		organize.WithBinary(cfg.Organizer.Binary),
		organize.WithGracePeriod(cfg.GracePeriod()),
		organize.WithVerbose(cfg.Organizer.Verbose),
		organize.WithLogger(logger),
	)

	run, err := client.Start(cmd.Context(), mode, ruleFile)
	if err != nil {
		// The engine never launched; keep the history row truthful.
		failed := report.RunSummary{Status: report.StatusFailed, ExitCode: -1}
		if finishErr := store.Finish(cmd.Context(), stored.ID, failed); finishErr != nil {
			logger.Warn("record failed launch", "error", finishErr)
		}
		return err
	}

	logger.Info("engine started", "mode", string(mode), "rule_file", ruleFile, "run_id", stored.ID)

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-interrupts:
			fmt.Fprintln(cmd.ErrOrStderr(), "Interrupt received; stopping the engine")
			run.Cancel()
		case <-run.Done():
		}
	}()
	defer signal.Stop(interrupts)

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	var records []report.ActionRecord
	for rec := range run.Records() {
		records = append(records, rec)
		fmt.Fprintln(out, renderRecord(rec, colorize))
	}

	summary := run.Wait()

	if err := store.AppendActions(cmd.Context(), stored.ID, records); err != nil {
		logger.Warn("persist action records", "run_id", stored.ID, "error", err)
	}
	if err := store.Finish(cmd.Context(), stored.ID, summary); err != nil {
		logger.Warn("persist run summary", "run_id", stored.ID, "error", err)
	}

	fmt.Fprintln(out)
	printSummary(out, stored.ID, mode, summary, colorize)

	if summary.Status == report.StatusFailed {
		return fmt.Errorf("engine run failed with exit code %d", summary.ExitCode)
	}
	return nil
}

func resolveRuleFile(cfg *config.Config, arg string) (string, error) {
	candidate := strings.TrimSpace(arg)
	if candidate == "" {
		candidate = cfg.Organizer.RuleFile
	}
	if candidate == "" {
		return "", errors.New("no rule file given and organizer.rule_file is not configured")
	}
	expanded, err := config.ExpandPath(candidate)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		return "", fmt.Errorf("inspect rule file %q: %w", expanded, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("rule file %q is a directory", expanded)
	}
	return expanded, nil
}

func printSummary(out io.Writer, runID string, mode organize.Mode, summary report.RunSummary, colorize bool) {
	headers := []string{"Kind", "Count"}
	rows := make([][]string, 0, len(report.Kinds()))
	for _, kind := range report.Kinds() {
		count := summary.Count(kind)
		if count == 0 {
			continue
		}
		rows = append(rows, []string{string(kind), strconv.Itoa(count)})
	}
	rows = append(rows, []string{"total lines", strconv.Itoa(summary.TotalLines)})
	fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignLeft, alignRight}))

	kind := statusOK
	switch summary.Status {
	case report.StatusFailed:
		kind = statusError
	case report.StatusCancelled:
		kind = statusWarn
	case report.StatusCompleted:
		if !summary.Succeeded() {
			kind = statusWarn
		}
	}
	detail := fmt.Sprintf("exit code %d, %s", summary.ExitCode, formatTicks(summary.DurationTicks))
	fmt.Fprintln(out, renderStatusLine("Run "+runID[:8], kind, string(summary.Status)+" ("+detail+")", colorize))
	if mode.Simulated() {
		fmt.Fprintln(out, renderStatusLine("Mode", statusInfo, "simulation, no files were changed", colorize))
	}
}

func formatTicks(ticks int64) string {
	if ticks < 1000 {
		return fmt.Sprintf("%dms", ticks)
	}
	return fmt.Sprintf("%.1fs", float64(ticks)/1000)
}
