package organize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"curator/internal/report"
	"curator/internal/services"
)

func TestStartRequiresConfigPath(t *testing.T) {
	client := NewClient()
	if _, err := client.Start(context.Background(), Simulate, "  "); err == nil {
		t.Fatal("expected error for empty rule file path")
	}
}

func TestStartRejectsUnknownMode(t *testing.T) {
	client := NewClient()
	_, err := client.Start(context.Background(), Mode("audit"), "/tmp/rules.yaml")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestStartMissingBinaryIsLaunchError(t *testing.T) {
	client := NewClient(WithBinary("definitely-not-an-organize-binary"))
	_, err := client.Start(context.Background(), Simulate, "/tmp/rules.yaml")
	if !errors.Is(err, services.ErrLaunch) {
		t.Fatalf("expected launch error, got %v", err)
	}
}

func useHelperProcess(t *testing.T, mode string) *[]string {
	t.Helper()
	var captured []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		captured = append([]string(nil), args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "ORGANIZE_HELPER_MODE="+mode)
		return cmd
	}
	t.Cleanup(func() { commandContext = original })
	return &captured
}

func TestRunStreamsClassifiedRecords(t *testing.T) {
	captured := useHelperProcess(t, "success")

	client := NewClient()
	run, err := client.Start(context.Background(), Simulate, "/tmp/rules.yaml")
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	var records []report.ActionRecord
	for rec := range run.Records() {
		records = append(records, rec)
	}
	summary := run.Wait()

	if len(*captured) < 3 || (*captured)[0] != "sim" || (*captured)[1] != "--config" {
		t.Fatalf("unexpected engine arguments: %v", *captured)
	}

	if summary.ExitCode != 0 {
		t.Fatalf("expected exit 0, got %d", summary.ExitCode)
	}
	if summary.Status != report.StatusCompleted {
		t.Fatalf("expected completed status, got %q", summary.Status)
	}
	if summary.TotalLines != len(records) {
		t.Fatalf("summary counted %d lines but %d records streamed", summary.TotalLines, len(records))
	}
	if summary.Count(report.KindMove) != 1 {
		t.Fatalf("expected one move, got %d", summary.Count(report.KindMove))
	}

	var move *report.ActionRecord
	for i := range records {
		if records[i].Kind == report.KindMove {
			move = &records[i]
		}
		if records[i].Seq != int64(i) {
			t.Fatalf("record %d out of order: seq %d", i, records[i].Seq)
		}
		if !records[i].Simulated {
			t.Fatalf("record %d not marked simulated", i)
		}
	}
	if move == nil {
		t.Fatal("no move record streamed")
	}
	if move.RuleName != "Organize Text Documents" {
		t.Fatalf("unexpected rule attribution: %q", move.RuleName)
	}
	if move.SourcePath != "/src/a.txt" || move.DestinationPath != "/dest/a.txt" {
		t.Fatalf("unexpected move paths: %+v", move)
	}
}

func TestNonZeroExitIsReportedNotRaised(t *testing.T) {
	useHelperProcess(t, "fail")

	client := NewClient()
	run, err := client.Start(context.Background(), Execute, "/tmp/rules.yaml")
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	for range run.Records() {
	}
	summary := run.Wait()

	if summary.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", summary.ExitCode)
	}
	if summary.Status != report.StatusFailed {
		t.Fatalf("expected failed status, got %q", summary.Status)
	}
	if summary.Succeeded() {
		t.Fatal("expected run not to be reported as succeeded")
	}
}

func TestErrorRecordOnCleanExitMeansNotSucceeded(t *testing.T) {
	useHelperProcess(t, "dirty")

	client := NewClient()
	run, err := client.Start(context.Background(), Execute, "/tmp/rules.yaml")
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	for range run.Records() {
	}
	summary := run.Wait()

	if summary.ExitCode != 0 {
		t.Fatalf("expected clean exit, got %d", summary.ExitCode)
	}
	if summary.Count(report.KindError) != 1 {
		t.Fatalf("expected one error record, got %d", summary.Count(report.KindError))
	}
	if summary.Succeeded() {
		t.Fatal("expected error record to mark run unsuccessful despite exit 0")
	}
}

func TestCancelKillsStubbornProcessWithinGracePeriod(t *testing.T) {
	useHelperProcess(t, "hang")

	client := NewClient(WithGracePeriod(300 * time.Millisecond))
	run, err := client.Start(context.Background(), Execute, "/tmp/rules.yaml")
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	// Wait for the first line so the helper is known to be running and
	// ignoring SIGTERM before cancelling.
	select {
	case <-run.Records():
	case <-time.After(5 * time.Second):
		t.Fatal("helper never produced output")
	}

	cancelled := time.Now()
	run.Cancel()

	select {
	case <-run.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("run did not terminate after cancellation")
	}
	summary := run.Wait()

	if summary.Status != report.StatusCancelled {
		t.Fatalf("expected cancelled status, got %q", summary.Status)
	}
	if elapsed := time.Since(cancelled); elapsed > 3*time.Second {
		t.Fatalf("cancellation took %s, expected within grace period", elapsed)
	}
	for range run.Records() {
		t.Fatal("no records should be emitted after cancellation")
	}
}

func TestSummaryPollableWhileRunning(t *testing.T) {
	useHelperProcess(t, "hang")

	client := NewClient(WithGracePeriod(200 * time.Millisecond))
	run, err := client.Start(context.Background(), Simulate, "/tmp/rules.yaml")
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer func() {
		run.Cancel()
		run.Wait()
	}()

	select {
	case <-run.Records():
	case <-time.After(5 * time.Second):
		t.Fatal("helper never produced output")
	}

	snapshot := run.Summary()
	if snapshot.Status != report.StatusRunning {
		t.Fatalf("expected running status mid-flight, got %q", snapshot.Status)
	}
	if snapshot.TotalLines == 0 {
		t.Fatal("expected at least one observed line")
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	switch os.Getenv("ORGANIZE_HELPER_MODE") {
	case "success":
		fmt.Println(`Rule "Organize Text Documents"`)
		fmt.Println("Would move /src/a.txt to /dest/a.txt")
		fmt.Println("Skipped (already sorted)")
		fmt.Fprintln(os.Stderr, "scanned 2 locations")
	case "fail":
		fmt.Println("Moving /src/a.txt to /dest/a.txt")
		os.Exit(3)
	case "dirty":
		fmt.Println("ERROR: permission denied: /src/locked.txt")
	case "hang":
		signal.Ignore(syscall.SIGTERM)
		fmt.Println("organize started")
		time.Sleep(30 * time.Second)
	}
}
